package identity

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rubblelabs/ripple/data"
	"github.com/stretchr/testify/assert"

	"github.com/0xMailMan/violette-easya-sub000/did"
	"github.com/0xMailMan/violette-easya-sub000/ledger"
	"github.com/0xMailMan/violette-easya-sub000/mongodb"
)

// well known test seed from the rippled vectors
const testSeed = "snoPBrXtMeMyMHUVTgbuqAfg1SUTb"

type stubGateway struct {
	mu         sync.Mutex
	sequence   uint32
	submits    []data.Transaction
	submitOut  ledger.Outcome
	submitErr  error
	observeOut ledger.Outcome
	observeErr error

	memoPayload []byte
	memoTxHash  string
	memoErr     error
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

func (g *stubGateway) LatestMemo(_, _ string) ([]byte, string, error) {
	return g.memoPayload, g.memoTxHash, g.memoErr
}

type memStore struct {
	records map[string]*mongodb.MgoDIDRecord
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]*mongodb.MgoDIDRecord)}
}

func (s *memStore) AddDIDRecord(record *mongodb.MgoDIDRecord) error {
	s.records[record.Key] = record
	return nil
}

func (s *memStore) UpdateDIDRecord(record *mongodb.MgoDIDRecord) error {
	s.records[record.Key] = record
	return nil
}

func (s *memStore) UpdateDIDRecordStatus(didID string, status mongodb.VerificationStatus, txHash string, ledgerSeq uint32) error {
	record, exist := s.records[didID]
	if !exist {
		return errors.New("record not found")
	}
	record.Status = status
	if txHash != "" {
		record.TxHash = txHash
		record.LedgerSequence = ledgerSeq
	}
	record.LastUpdated = time.Now().Unix()
	return nil
}

func (s *memStore) FindDIDRecord(didID string) (*mongodb.MgoDIDRecord, error) {
	record, exist := s.records[didID]
	if !exist {
		return nil, errors.New("record not found")
	}
	return record, nil
}

func settledGateway() *stubGateway {
	return &stubGateway{
		submitOut: ledger.Outcome{
			Kind:   ledger.OutcomePending,
			Code:   "tesSUCCESS",
			TxHash: "AB01",
		},
		observeOut: ledger.Outcome{
			Kind:           ledger.OutcomeSettled,
			Code:           "tesSUCCESS",
			LedgerSequence: 777,
			TxHash:         "AB01",
		},
	}
}

func newTestManager(t *testing.T, gateway Gateway, store Store) *Manager {
	t.Helper()
	m, err := NewManager(gateway, store, &Config{
		Seed:       testSeed,
		CryptoType: ledger.CryptoTypeECDSA,
	})
	assert.NoError(t, err)
	return m
}

func TestManagerIdentifier(t *testing.T) {
	m := newTestManager(t, settledGateway(), newMemStore())
	assert.True(t, did.IsValidAddress(m.Address()))
	assert.Equal(t, did.FormatID(m.Address()), m.DID())
}

func TestCreatePersistsAfterSettlement(t *testing.T) {
	gateway := settledGateway()
	store := newMemStore()
	m := newTestManager(t, gateway, store)

	res, err := m.Create(nil)
	assert.NoError(t, err)
	assert.Equal(t, m.DID(), res.DID)
	// a full verification key entry never fits the on ledger ceiling
	assert.Equal(t, "Reference", res.Strategy)
	assert.Equal(t, "AB01", res.TxHash)
	assert.Equal(t, uint32(777), res.LedgerSequence)
	assert.Len(t, gateway.submits, 1)

	record, err := store.FindDIDRecord(m.DID())
	assert.NoError(t, err)
	assert.Equal(t, mongodb.StatusVerified, record.Status)
	assert.Equal(t, m.Address(), record.Address)
	assert.Equal(t, uint32(777), record.LedgerSequence)
}

func TestCreateRejectedPersistsNothing(t *testing.T) {
	gateway := settledGateway()
	gateway.submitOut = ledger.Outcome{
		Kind:   ledger.OutcomeRejected,
		Code:   "tecINSUFFICIENT_RESERVE",
		TxHash: "AB01",
	}
	store := newMemStore()
	m := newTestManager(t, gateway, store)

	_, err := m.Create(nil)
	var serr *ledger.SettlementError
	assert.True(t, errors.As(err, &serr))
	assert.NotContains(t, serr.Error(), "tecINSUFFICIENT_RESERVE")
	assert.Empty(t, store.records)
}

func TestCreateSettlementUnknown(t *testing.T) {
	gateway := settledGateway()
	gateway.observeOut = ledger.Outcome{Kind: ledger.OutcomePending, TxHash: "AB01"}
	gateway.observeErr = ledger.ErrObserveCancelled
	store := newMemStore()
	m := newTestManager(t, gateway, store)

	_, err := m.Create(nil)
	assert.True(t, errors.Is(err, ErrSettlementUnknown))
	assert.Empty(t, store.records)
}

func TestResolve(t *testing.T) {
	gateway := settledGateway()
	store := newMemStore()
	m := newTestManager(t, gateway, store)

	metadata := &Metadata{
		Services: []did.ServiceEndpoint{
			{ID: m.DID() + "#svc", Type: "DiaryAnchor", ServiceEndpoint: "https://example.org/anchor"},
		},
	}
	_, err := m.Create(metadata)
	assert.NoError(t, err)

	doc := m.buildDocument(metadata)
	encoded, err := did.Encode(doc)
	assert.NoError(t, err)
	gateway.memoPayload = encoded.Payload
	gateway.memoTxHash = "CD02"

	// the ledger holds a locator only, the full document is merged
	// back in from the off ledger record
	res, err := m.Resolve(m.DID())
	assert.NoError(t, err)
	assert.Equal(t, doc, res.Document)
	assert.Equal(t, "Reference", res.Strategy)
	assert.Equal(t, "CD02", res.TxHash)

	// resolution is idempotent
	again, err := m.Resolve(m.DID())
	assert.NoError(t, err)
	assert.Equal(t, res.Document, again.Document)
}

func TestResolveErrors(t *testing.T) {
	gateway := settledGateway()
	m := newTestManager(t, gateway, newMemStore())

	_, err := m.Resolve("did:wrong:1:rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh")
	assert.True(t, errors.Is(err, did.ErrInvalidFormat))

	gateway.memoErr = ledger.ErrNoLedgerRecord
	_, err = m.Resolve(m.DID())
	assert.True(t, errors.Is(err, did.ErrNotFound))

	gateway.memoErr = nil
	gateway.memoPayload = nil
	_, err = m.Resolve(m.DID())
	assert.True(t, errors.Is(err, did.ErrDeleted))
}

func TestUpdateLifecycle(t *testing.T) {
	gateway := settledGateway()
	store := newMemStore()
	m := newTestManager(t, gateway, store)

	_, err := m.Update(nil)
	assert.True(t, errors.Is(err, did.ErrNotFound))

	_, err = m.Create(nil)
	assert.NoError(t, err)

	res, err := m.Update(&Metadata{
		Services: []did.ServiceEndpoint{
			{ID: m.DID() + "#svc", Type: "DiaryAnchor", ServiceEndpoint: "https://example.org/anchor"},
		},
	})
	assert.NoError(t, err)
	assert.Len(t, res.Document.Service, 1)

	record, err := store.FindDIDRecord(m.DID())
	assert.NoError(t, err)
	assert.Equal(t, mongodb.StatusVerified, record.Status)
	assert.Len(t, gateway.submits, 2)
}

func TestUpdateWrongStatus(t *testing.T) {
	gateway := settledGateway()
	store := newMemStore()
	m := newTestManager(t, gateway, store)

	_, err := m.Create(nil)
	assert.NoError(t, err)
	assert.NoError(t, store.UpdateDIDRecordStatus(m.DID(), mongodb.StatusPending, "", 0))

	_, err = m.Update(nil)
	assert.True(t, errors.Is(err, ErrWrongStatus))
}

func TestResolveAfterRejectedUpdate(t *testing.T) {
	gateway := settledGateway()
	store := newMemStore()
	m := newTestManager(t, gateway, store)

	_, err := m.Create(nil)
	assert.NoError(t, err)

	// the ledger still carries the locator of the created document
	baseline := m.buildDocument(nil)
	encoded, err := did.Encode(baseline)
	assert.NoError(t, err)
	gateway.memoPayload = encoded.Payload
	gateway.memoTxHash = "AB01"

	gateway.submitOut = ledger.Outcome{
		Kind: ledger.OutcomeRejected,
		Code: "tefPAST_SEQ",
	}
	_, err = m.Update(&Metadata{
		Services: []did.ServiceEndpoint{
			{ID: m.DID() + "#svc", Type: "DiaryAnchor", ServiceEndpoint: "https://example.org/anchor"},
		},
	})
	var serr *ledger.SettlementError
	assert.True(t, errors.As(err, &serr))

	// the rejected body was rolled back to the settled one
	record, err := store.FindDIDRecord(m.DID())
	assert.NoError(t, err)
	assert.Equal(t, mongodb.StatusFailed, record.Status)
	var stored did.Document
	assert.NoError(t, json.Unmarshal([]byte(record.Document), &stored))
	assert.Equal(t, baseline, &stored)

	// resolution shows the settled document, never the rejected body
	res, err := m.Resolve(m.DID())
	assert.NoError(t, err)
	assert.Equal(t, baseline, res.Document)
	assert.Empty(t, res.Document.Service)
}

func TestResolveIgnoresUnsettledStoredBody(t *testing.T) {
	gateway := settledGateway()
	store := newMemStore()
	m := newTestManager(t, gateway, store)

	metadata := &Metadata{
		Services: []did.ServiceEndpoint{
			{ID: m.DID() + "#svc", Type: "DiaryAnchor", ServiceEndpoint: "https://example.org/anchor"},
		},
	}
	_, err := m.Create(nil)
	assert.NoError(t, err)

	// a pending body the ledger has not settled must stay invisible
	record, err := store.FindDIDRecord(m.DID())
	assert.NoError(t, err)
	pendingBody, err := json.Marshal(m.buildDocument(metadata))
	assert.NoError(t, err)
	record.Document = string(pendingBody)
	record.Status = mongodb.StatusPending

	baseline := m.buildDocument(nil)
	encoded, err := did.Encode(baseline)
	assert.NoError(t, err)
	gateway.memoPayload = encoded.Payload
	gateway.memoTxHash = "AB01"

	res, err := m.Resolve(m.DID())
	assert.NoError(t, err)
	assert.Empty(t, res.Document.Service)
}

func TestDelete(t *testing.T) {
	gateway := settledGateway()
	store := newMemStore()
	m := newTestManager(t, gateway, store)

	_, err := m.Create(nil)
	assert.NoError(t, err)

	res, err := m.Delete()
	assert.NoError(t, err)
	assert.Equal(t, "AB01", res.TxHash)

	record, err := store.FindDIDRecord(m.DID())
	assert.NoError(t, err)
	assert.Equal(t, mongodb.StatusDeleted, record.Status)

	_, err = m.Delete()
	assert.True(t, errors.Is(err, did.ErrDeleted))
}

func TestDeleteWrongStatus(t *testing.T) {
	gateway := settledGateway()
	store := newMemStore()
	m := newTestManager(t, gateway, store)

	_, err := m.Create(nil)
	assert.NoError(t, err)
	assert.NoError(t, store.UpdateDIDRecordStatus(m.DID(), mongodb.StatusPending, "", 0))

	// only a verified identifier may be deactivated
	_, err = m.Delete()
	assert.True(t, errors.Is(err, ErrWrongStatus))
	assert.Len(t, gateway.submits, 1)
}
