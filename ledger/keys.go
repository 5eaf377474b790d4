package ledger

import (
	"fmt"

	"github.com/rubblelabs/ripple/crypto"
)

// crypto types of identity keys
const (
	CryptoTypeECDSA   = "ecdsa"
	CryptoTypeEd25519 = "ed25519"
)

// ImportKeyFromSeed convert a family seed to a signing key
func ImportKeyFromSeed(seed, cryptoType string) (crypto.Key, error) {
	shash, err := crypto.NewRippleHashCheck(seed, crypto.RIPPLE_FAMILY_SEED)
	if err != nil {
		return nil, fmt.Errorf("invalid seed, %w", err)
	}
	switch cryptoType {
	case CryptoTypeEd25519:
		return crypto.NewEd25519Key(shash.Payload())
	case CryptoTypeECDSA:
		return crypto.NewECDSAKey(shash.Payload())
	default:
		return nil, fmt.Errorf("invalid crypto type %v", cryptoType)
	}
}

// GetAddress derive the ledger address controlled by a key
func GetAddress(key crypto.Key, sequence *uint32) string {
	prefix := []byte{0}
	return crypto.Base58Encode(append(prefix, key.Id(sequence)...), crypto.ALPHABET)
}

// PublicKeyHex hex form of the key's public half, as written into
// identity documents
func PublicKeyHex(key crypto.Key, sequence *uint32) string {
	return fmt.Sprintf("%X", key.Public(sequence))
}
