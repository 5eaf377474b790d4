package anchor

import (
	"context"
	"encoding/hex"
	"errors"
	"sync"
	"testing"

	"github.com/rubblelabs/ripple/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xMailMan/violette-easya-sub000/ledger"
	"github.com/0xMailMan/violette-easya-sub000/merkle"
	"github.com/0xMailMan/violette-easya-sub000/mongodb"
)

const testSeed = "snoPBrXtMeMyMHUVTgbuqAfg1SUTb"

type stubGateway struct {
	mu         sync.Mutex
	sequence   uint32
	submits    []data.Transaction
	submitOut  ledger.Outcome
	submitErr  error
	observeOut ledger.Outcome
	observeErr error
}

func (g *stubGateway) SubmitNext(_ string, build func(txseq uint32) (data.Transaction, error)) (ledger.Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sequence++
	tx, err := build(g.sequence)
	if err != nil {
		return ledger.Outcome{}, err
	}
	g.submits = append(g.submits, tx)
	return g.submitOut, g.submitErr
}

func (g *stubGateway) ObserveSettlement(_ context.Context, _ string) (ledger.Outcome, error) {
	return g.observeOut, g.observeErr
}

type memStore struct {
	mu      sync.Mutex
	anchors map[string]*mongodb.MgoAnchor
	order   []string
}

func newMemStore() *memStore {
	return &memStore{anchors: make(map[string]*mongodb.MgoAnchor)}
}

func (s *memStore) AddAnchor(anchor *mongodb.MgoAnchor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.anchors[anchor.Key] = anchor
	s.order = append(s.order, anchor.Key)
	return nil
}

func (s *memStore) UpdateAnchorSettled(root, txHash string, ledgerSeq uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	anchor, exist := s.anchors[root]
	if !exist {
		return errors.New("anchor not found")
	}
	anchor.Settled = true
	anchor.TxHash = txHash
	anchor.LedgerSequence = ledgerSeq
	return nil
}

func (s *memStore) FindAnchor(root string) (*mongodb.MgoAnchor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	anchor, exist := s.anchors[root]
	if !exist {
		return nil, errors.New("anchor not found")
	}
	return anchor, nil
}

func (s *memStore) FindLatestAnchors(limit int) ([]*mongodb.MgoAnchor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*mongodb.MgoAnchor, 0, limit)
	for i := len(s.order) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, s.anchors[s.order[i]])
	}
	return result, nil
}

func settledGateway() *stubGateway {
	return &stubGateway{
		submitOut: ledger.Outcome{
			Kind:   ledger.OutcomePending,
			Code:   "tesSUCCESS",
			TxHash: "FE01",
		},
		observeOut: ledger.Outcome{
			Kind:           ledger.OutcomeSettled,
			Code:           "tesSUCCESS",
			LedgerSequence: 900,
			TxHash:         "FE01",
		},
	}
}

func testEntries(n int) []*merkle.Entry {
	entries := make([]*merkle.Entry, n)
	for i := range entries {
		entries[i] = &merkle.Entry{
			ID:          string(rune('a' + i)),
			ContentHash: merkle.Sum([]byte{byte(i)}),
			Timestamp:   1700000000000 + int64(i),
		}
	}
	return entries
}

func newTestAnchorer(t *testing.T, gateway Gateway, store Store) *Anchorer {
	t.Helper()
	a, err := NewAnchorer(gateway, store, &Config{
		Seed:       testSeed,
		CryptoType: ledger.CryptoTypeECDSA,
	})
	require.NoError(t, err)
	return a
}

func TestAnchorSettled(t *testing.T) {
	gateway := settledGateway()
	store := newMemStore()
	a := newTestAnchorer(t, gateway, store)

	entries := testEntries(3)
	receipt, err := a.Anchor(entries)
	require.NoError(t, err)

	tree, err := merkle.BuildTree(entries)
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(tree.Root()), receipt.Root)
	assert.Equal(t, 3, receipt.EntryCount)
	assert.Equal(t, "FE01", receipt.TxHash)
	assert.Equal(t, uint32(900), receipt.LedgerSequence)
	assert.True(t, receipt.Settled)
	assert.Contains(t, receipt.VerifyLink, receipt.TxHash)

	record, err := store.FindAnchor(receipt.Root)
	require.NoError(t, err)
	assert.True(t, record.Settled)
	assert.Equal(t, []string{"a", "b", "c"}, record.EntryIDs)
}

func TestAnchorEmptyEntries(t *testing.T) {
	a := newTestAnchorer(t, settledGateway(), newMemStore())
	_, err := a.Anchor(nil)
	assert.True(t, errors.Is(err, merkle.ErrEmptyInput))
}

func TestAnchorRejected(t *testing.T) {
	gateway := settledGateway()
	gateway.submitOut = ledger.Outcome{
		Kind: ledger.OutcomeRejected,
		Code: "temMALFORMED",
	}
	store := newMemStore()
	a := newTestAnchorer(t, gateway, store)

	_, err := a.Anchor(testEntries(2))
	assert.True(t, errors.Is(err, ErrAnchorRejected))
	var serr *ledger.SettlementError
	assert.True(t, errors.As(err, &serr))
	assert.Empty(t, store.anchors)
}

func TestAnchorPendingPersisted(t *testing.T) {
	gateway := settledGateway()
	gateway.observeOut = ledger.Outcome{Kind: ledger.OutcomePending, TxHash: "FE01"}
	gateway.observeErr = ledger.ErrObserveCancelled
	store := newMemStore()
	a := newTestAnchorer(t, gateway, store)

	receipt, err := a.Anchor(testEntries(2))
	require.NoError(t, err)
	assert.False(t, receipt.Settled)
	assert.Equal(t, "FE01", receipt.TxHash)

	// the unsettled receipt is kept, the confirm worker finishes it
	record, err := store.FindAnchor(receipt.Root)
	require.NoError(t, err)
	assert.False(t, record.Settled)
}

func TestAnchorIdempotent(t *testing.T) {
	gateway := settledGateway()
	store := newMemStore()
	a := newTestAnchorer(t, gateway, store)

	entries := testEntries(4)
	first, err := a.Anchor(entries)
	require.NoError(t, err)
	second, err := a.Anchor(entries)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, gateway.submits, 1)
}

func TestConcurrentAnchorsUseDistinctSequences(t *testing.T) {
	gateway := settledGateway()
	store := newMemStore()

	// two writers on the same controlling address
	first := newTestAnchorer(t, gateway, store)
	second := newTestAnchorer(t, gateway, store)
	require.Equal(t, first.Address(), second.Address())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		sizeA, sizeB := 2+2*i, 3+2*i
		go func() {
			defer wg.Done()
			_, err := first.Anchor(testEntries(sizeA))
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := second.Anchor(testEntries(sizeB))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, gateway.submits, 8)
	seen := make(map[uint32]bool)
	for _, tx := range gateway.submits {
		seq := tx.GetBase().Sequence
		assert.False(t, seen[seq], "transaction sequence %d signed twice", seq)
		seen[seq] = true
	}
}

func TestLatest(t *testing.T) {
	gateway := settledGateway()
	store := newMemStore()
	a := newTestAnchorer(t, gateway, store)

	_, err := a.Anchor(testEntries(2))
	require.NoError(t, err)
	_, err = a.Anchor(testEntries(5))
	require.NoError(t, err)

	receipts, err := a.Latest(10)
	require.NoError(t, err)
	require.Len(t, receipts, 2)
	assert.Equal(t, 5, receipts[0].EntryCount)
}
