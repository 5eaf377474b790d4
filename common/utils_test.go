package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNowUnitIsSeconds(t *testing.T) {
	got := Now()
	ref := time.Now().Unix()
	// a millisecond stamp would be three orders of magnitude off
	assert.InDelta(t, ref, got, 2)
}
