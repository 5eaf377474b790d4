package merkle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProofBounds(t *testing.T) {
	tree, err := BuildTree(testEntries("a", "b", "c"))
	require.NoError(t, err)

	_, err = tree.Proof(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = tree.Proof(3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestProofVerifyAllIndexes(t *testing.T) {
	for _, count := range []int{1, 2, 3, 4, 5, 8, 13} {
		ids := make([]string, count)
		for i := range ids {
			ids[i] = string(rune('a' + i))
		}
		tree, err := BuildTree(testEntries(ids...))
		require.NoError(t, err)

		for index := 0; index < count; index++ {
			proof, err := tree.Proof(index)
			require.NoError(t, err, "count %d index %d", count, index)
			assert.True(t, VerifyProof(proof, tree.Root()), "count %d index %d", count, index)
		}
	}
}

func TestProofAgainstForeignRoot(t *testing.T) {
	tree, err := BuildTree(testEntries("a", "b", "c"))
	require.NoError(t, err)
	other, err := BuildTree(testEntries("x", "y", "z"))
	require.NoError(t, err)

	proof, err := tree.Proof(1)
	require.NoError(t, err)
	assert.True(t, VerifyProof(proof, tree.Root()))
	assert.False(t, VerifyProof(proof, other.Root()))
}

func TestProofTamperDetection(t *testing.T) {
	tree, err := BuildTree(testEntries("a", "b", "c", "d"))
	require.NoError(t, err)

	proof, err := tree.Proof(2)
	require.NoError(t, err)

	// flip one byte of the leaf
	tampered := *proof
	tampered.Leaf = append([]byte(nil), proof.Leaf...)
	tampered.Leaf[0] ^= 0x01
	assert.False(t, VerifyProof(&tampered, tree.Root()))

	// flip one byte of a sibling hash
	for i := range proof.Siblings {
		tampered := *proof
		tampered.Siblings = make([][]byte, len(proof.Siblings))
		copy(tampered.Siblings, proof.Siblings)
		sibling := append([]byte(nil), proof.Siblings[i]...)
		sibling[len(sibling)-1] ^= 0x80
		tampered.Siblings[i] = sibling
		assert.False(t, VerifyProof(&tampered, tree.Root()), "sibling %d", i)
	}
}

func TestVerifyProofStructuralMismatch(t *testing.T) {
	tree, err := BuildTree(testEntries("a", "b"))
	require.NoError(t, err)
	proof, err := tree.Proof(0)
	require.NoError(t, err)

	assert.False(t, VerifyProof(nil, tree.Root()))
	assert.False(t, VerifyProof(proof, nil))
	assert.False(t, VerifyProof(proof, []byte("short")))

	truncated := *proof
	truncated.Leaf = proof.Leaf[:16]
	assert.False(t, VerifyProof(&truncated, tree.Root()))

	badSibling := *proof
	badSibling.Siblings = [][]byte{{0x01}}
	assert.False(t, VerifyProof(&badSibling, tree.Root()))
}
