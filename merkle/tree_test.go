package merkle

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntries(ids ...string) []*Entry {
	entries := make([]*Entry, len(ids))
	for i, id := range ids {
		entries[i] = &Entry{
			ID:          id,
			ContentHash: Sum([]byte("content of " + id)),
			Timestamp:   1700000000000 + int64(i),
			Tags:        []string{"diary", id},
		}
	}
	return entries
}

func TestBuildTreeEmptyInput(t *testing.T) {
	tree, err := BuildTree(nil)
	assert.Nil(t, tree)
	assert.ErrorIs(t, err, ErrEmptyInput)

	tree, err = BuildTree([]*Entry{})
	assert.Nil(t, tree)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestBuildTreeSingleEntry(t *testing.T) {
	entries := testEntries("a")
	tree, err := BuildTree(entries)
	require.NoError(t, err)

	assert.Equal(t, 1, tree.EntryCount)
	assert.Equal(t, 0, tree.Depth)
	assert.Equal(t, entries[0].LeafHash(), tree.Root())
}

func TestBuildTreeDeterminism(t *testing.T) {
	entries := testEntries("a", "b", "c", "d", "e")
	first, err := BuildTree(entries)
	require.NoError(t, err)
	second, err := BuildTree(entries)
	require.NoError(t, err)
	assert.Equal(t, first.Root(), second.Root())
}

func TestBuildTreeOrderSignificant(t *testing.T) {
	forward, err := BuildTree(testEntries("a", "b", "c", "d"))
	require.NoError(t, err)
	reversed, err := BuildTree(testEntries("d", "c", "b", "a"))
	require.NoError(t, err)
	assert.NotEqual(t, forward.Root(), reversed.Root())
}

// three entries pin the duplicate-last odd node policy:
// the third leaf is paired with its own copy one level up
func TestBuildTreeThreeEntries(t *testing.T) {
	entries := testEntries("a", "b", "c")
	tree, err := BuildTree(entries)
	require.NoError(t, err)

	assert.Equal(t, 3, tree.EntryCount)
	assert.Equal(t, 2, tree.Depth)

	l0 := entries[0].LeafHash()
	l1 := entries[1].LeafHash()
	l2 := entries[2].LeafHash()
	expectedRoot := hashPair(hashPair(l0, l1), hashPair(l2, l2))
	assert.Equal(t, expectedRoot, tree.Root())
}

func TestNodeInvariant(t *testing.T) {
	tree, err := BuildTree(testEntries("a", "b", "c", "d", "e", "f", "g"))
	require.NoError(t, err)

	for _, node := range tree.Nodes {
		if node.Left == nil {
			continue
		}
		assert.Equal(t, hashPair(node.Left, node.Right), node.Hash)
	}
}

func TestHashPairNormalization(t *testing.T) {
	a := Sum([]byte("a"))
	b := Sum([]byte("b"))
	assert.Equal(t, hashPair(a, b), hashPair(b, a))
	assert.False(t, bytes.Equal(hashPair(a, b), hashPair(a, a)))
}

func TestCanonicalBytesStable(t *testing.T) {
	entry := &Entry{
		ID:          "a",
		ContentHash: Sum([]byte("x")),
		Timestamp:   42,
		Tags:        []string{"t1", "t2"},
	}
	assert.Equal(t, entry.CanonicalBytes(), entry.CanonicalBytes())

	// tag order is part of the canonical form
	swapped := &Entry{
		ID:          "a",
		ContentHash: Sum([]byte("x")),
		Timestamp:   42,
		Tags:        []string{"t2", "t1"},
	}
	assert.NotEqual(t, entry.LeafHash(), swapped.LeafHash())
}
