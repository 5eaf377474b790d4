package ledger

import (
	"testing"

	"github.com/rubblelabs/ripple/data"
	"github.com/rubblelabs/ripple/websockets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submitResult(code data.TransactionResult) *websockets.SubmitResult {
	return &websockets.SubmitResult{EngineResult: code}
}

func TestDecodeSubmitOutcome(t *testing.T) {
	// provisional success stays pending until validation
	outcome := decodeSubmitOutcome(submitResult(data.TransactionResult(0)), "ABCD")
	assert.Equal(t, OutcomePending, outcome.Kind)
	assert.Equal(t, "tesSUCCESS", outcome.Code)
	assert.Equal(t, "ABCD", outcome.TxHash)
	assert.NoError(t, outcome.Err())

	// retryable class is pending too
	outcome = decodeSubmitOutcome(submitResult(data.TransactionResult(-95)), "ABCD")
	assert.Equal(t, OutcomePending, outcome.Kind)

	// malformed class is a definitive rejection
	outcome = decodeSubmitOutcome(submitResult(data.TransactionResult(-299)), "ABCD")
	assert.Equal(t, OutcomeRejected, outcome.Kind)
	assert.Equal(t, "temMALFORMED", outcome.Code)

	var settlementErr *SettlementError
	require.ErrorAs(t, outcome.Err(), &settlementErr)
	assert.Equal(t, "temMALFORMED", settlementErr.Code)
}

func TestOutcomeKindString(t *testing.T) {
	assert.Equal(t, "Pending", OutcomePending.String())
	assert.Equal(t, "Settled", OutcomeSettled.String())
	assert.Equal(t, "Rejected", OutcomeRejected.String())
}

func TestConnStateWithoutEndpoints(t *testing.T) {
	conn := NewConn(nil)
	assert.Equal(t, Disconnected, conn.State())
	assert.ErrorIs(t, conn.EnsureConnected(), ErrNoEndpoints)

	conn.SetEndpoints([]string{"wss://s.altnet.rippletest.net:51233"})
	assert.Equal(t, Disconnected, conn.State())
	assert.Equal(t, "Disconnected", conn.State().String())
}
