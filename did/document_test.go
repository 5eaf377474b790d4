package did

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"

func TestFormatAndParseID(t *testing.T) {
	didID := FormatID(testAddress)
	assert.Equal(t, "did:xrpl:1:"+testAddress, didID)

	version, address, err := ParseID(didID)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
	assert.Equal(t, testAddress, address)
}

func TestParseIDInvalid(t *testing.T) {
	for _, didID := range []string{
		"",
		"did:xrpl:1",
		"did:xrpl:1:" + testAddress + ":extra",
		"foo:xrpl:1:" + testAddress,
		"did:sov:1:" + testAddress,
		"did:xrpl:x:" + testAddress,
		"did:xrpl:0:" + testAddress,
		"did:xrpl:1:0xDEADBEEF",
		"did:xrpl:1:rOOPS",
	} {
		_, _, err := ParseID(didID)
		assert.ErrorIs(t, err, ErrInvalidFormat, "didID %q", didID)
	}
}

func TestIsValidAddress(t *testing.T) {
	assert.True(t, IsValidAddress(testAddress))
	assert.False(t, IsValidAddress("x"+testAddress[1:]))
	assert.False(t, IsValidAddress("r0shortandzero"))
	assert.False(t, IsValidAddress(""))
}

func TestMinimal(t *testing.T) {
	document := &Document{
		Context: DefaultContext,
		ID:      FormatID(testAddress),
		PublicKeys: []PublicKey{
			{ID: "#key-1", Type: "EcdsaSecp256k1VerificationKey2019", PublicKeyHex: "02ab"},
			{ID: "#key-2", Type: "Ed25519VerificationKey2018", PublicKeyHex: "edcd"},
		},
		Authentication: []string{"#key-1"},
		Service: []ServiceEndpoint{
			{ID: "#mirror", Type: "MirrorAssetRegistry", ServiceEndpoint: "https://example.com/mirror"},
		},
	}

	minimal := document.Minimal()
	assert.Equal(t, document.ID, minimal.ID)
	require.Len(t, minimal.PublicKeys, 1)
	assert.Equal(t, "#key-1", minimal.PublicKeys[0].ID)
	assert.Nil(t, minimal.Authentication)
	assert.Nil(t, minimal.Service)
}
