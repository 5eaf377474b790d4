package merkle

import (
	"crypto/sha256"
)

// HashLength is the byte length of all node and root hashes.
const HashLength = sha256.Size

// Sum is the single content-addressing primitive.
// Both the anchoring and the identity subsystems depend on it being
// byte-identical for identical input across processes and machines.
func Sum(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}
