package merkle

import (
	"bytes"
	"errors"
)

// merkle engine errors
var (
	ErrEmptyInput      = errors.New("empty entry set")
	ErrIndexOutOfRange = errors.New("entry index out of range")
)

// Node is one node of a built tree. Left and Right are nil for
// leaves. For every inner node Hash == Sum(normalize(Left, Right)).
type Node struct {
	Hash  []byte `json:"hash"`
	Left  []byte `json:"left,omitempty"`
	Right []byte `json:"right,omitempty"`
}

// Tree is an immutable snapshot of an ordered entry set.
// A changed entry set requires a full rebuild.
type Tree struct {
	Nodes      []Node `json:"nodes"`
	RootHash   []byte `json:"root"`
	Depth      int    `json:"depth"`
	EntryCount int    `json:"entryCount"`

	levels [][][]byte
}

// BuildTree build a binary hash tree over the entries in input order.
// Leaf order is semantically significant: both the root and the proof
// index depend on position. A level with an odd node count duplicates
// its last node (pinned policy, tests depend on it).
func BuildTree(entries []*Entry) (*Tree, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyInput
	}

	leaves := make([][]byte, len(entries))
	for i, entry := range entries {
		leaves[i] = entry.LeafHash()
	}

	tree := &Tree{
		EntryCount: len(entries),
		levels:     [][][]byte{leaves},
	}
	for _, leaf := range leaves {
		tree.Nodes = append(tree.Nodes, Node{Hash: leaf})
	}

	level := leaves
	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}
		next := make([][]byte, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			parent := hashPair(level[i], level[i+1])
			next = append(next, parent)
			tree.Nodes = append(tree.Nodes, Node{Hash: parent, Left: level[i], Right: level[i+1]})
		}
		tree.levels = append(tree.levels, next)
		level = next
		tree.Depth++
	}

	tree.RootHash = level[0]
	return tree, nil
}

// Root pure accessor of the committed root hash
func (t *Tree) Root() []byte {
	return t.RootHash
}

// hashPair combine two child hashes into their parent hash.
// The pair is normalized lexicographically before hashing so the
// parent is reproducible regardless of balancing. The same rule is
// applied during proof verification.
func hashPair(a, b []byte) []byte {
	if bytes.Compare(a, b) > 0 {
		a, b = b, a
	}
	combined := make([]byte, 0, len(a)+len(b))
	combined = append(combined, a...)
	combined = append(combined, b...)
	return Sum(combined)
}
