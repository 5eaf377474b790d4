package merkle

import (
	"bytes"
)

// Proof is an inclusion proof for the entry at Index.
// Verification folds Leaf against each sibling in order and must
// reproduce Root.
type Proof struct {
	Leaf     []byte   `json:"leaf"`
	Siblings [][]byte `json:"proof"`
	Root     []byte   `json:"root"`
	Index    int      `json:"index"`
}

// Proof produce the inclusion proof for the entry at index.
// Fails with ErrIndexOutOfRange outside [0, EntryCount).
func (t *Tree) Proof(index int) (*Proof, error) {
	if index < 0 || index >= t.EntryCount {
		return nil, ErrIndexOutOfRange
	}

	proof := &Proof{
		Leaf:  t.levels[0][index],
		Root:  t.RootHash,
		Index: index,
	}

	pos := index
	for _, level := range t.levels[:len(t.levels)-1] {
		siblingPos := pos ^ 1
		if siblingPos >= len(level) {
			// odd level end, the last node was paired with its duplicate
			siblingPos = pos
		}
		proof.Siblings = append(proof.Siblings, level[siblingPos])
		pos /= 2
	}
	return proof, nil
}

// VerifyProof recompute the root from the proof path and compare it
// to expectedRoot. Pure and idempotent, returns false (never errors)
// on any structural mismatch, so it is safe to call concurrently and
// on untrusted input.
func VerifyProof(proof *Proof, expectedRoot []byte) bool {
	if proof == nil || len(proof.Leaf) != HashLength || len(expectedRoot) != HashLength {
		return false
	}
	current := proof.Leaf
	for _, sibling := range proof.Siblings {
		if len(sibling) != HashLength {
			return false
		}
		current = hashPair(current, sibling)
	}
	return bytes.Equal(current, expectedRoot)
}
