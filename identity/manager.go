// Package identity manages the full lifecycle of ledger anchored
// decentralized identifiers: creation, resolution, update and
// deactivation, with off ledger records kept in mongodb.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rubblelabs/ripple/crypto"
	"github.com/rubblelabs/ripple/data"

	"github.com/0xMailMan/violette-easya-sub000/did"
	"github.com/0xMailMan/violette-easya-sub000/ledger"
	"github.com/0xMailMan/violette-easya-sub000/log"
	"github.com/0xMailMan/violette-easya-sub000/mongodb"
)

// ErrSettlementUnknown is returned when a write was accepted by the
// ledger but its final settlement could not be observed in time.
// Callers must resolve the identifier before retrying the write.
var ErrSettlementUnknown = errors.New("settlement result unknown, resolve before retry")

// ErrWrongStatus is returned when a lifecycle operation is attempted
// against a record whose verification status does not allow it.
var ErrWrongStatus = errors.New("record status does not allow operation")

const (
	defaultTxFee          = 12
	defaultConfirmTimeout = 60 * time.Second

	resolveRetryTimes    = 3
	resolveRetryInterval = 1 * time.Second
)

// Gateway is the ledger access the manager depends on. Sequence
// acquisition and submission are one atomic gateway operation so
// other writers of the same address cannot race on sequences.
type Gateway interface {
	SubmitNext(address string, build func(txseq uint32) (data.Transaction, error)) (ledger.Outcome, error)
	ObserveSettlement(ctx context.Context, txHash string) (ledger.Outcome, error)
	LatestMemo(address, memoType string) ([]byte, string, error)
}

// Store persists off ledger identifier records.
type Store interface {
	AddDIDRecord(record *mongodb.MgoDIDRecord) error
	UpdateDIDRecord(record *mongodb.MgoDIDRecord) error
	UpdateDIDRecordStatus(didID string, status mongodb.VerificationStatus, txHash string, ledgerSeq uint32) error
	FindDIDRecord(didID string) (*mongodb.MgoDIDRecord, error)
}

// Metadata is caller supplied document content beyond the controlling key.
type Metadata struct {
	Services        []did.ServiceEndpoint
	ExtraPublicKeys []did.PublicKey
}

// Result of a lifecycle write or a resolution.
type Result struct {
	DID            string        `json:"did"`
	Address        string        `json:"address"`
	Document       *did.Document `json:"document,omitempty"`
	Strategy       string        `json:"strategy"`
	TxHash         string        `json:"txHash,omitempty"`
	LedgerSequence uint32        `json:"ledgerSequence,omitempty"`
}

// Manager drives the identifier lifecycle for one controlling key.
type Manager struct {
	gateway Gateway
	store   Store

	key        crypto.Key
	keyseq     *uint32
	cryptoType string
	address    string
	didID      string

	txFee          int64
	confirmTimeout time.Duration

	writeMu sync.Mutex
}

// Config of a lifecycle manager.
type Config struct {
	Seed           string
	CryptoType     string
	TxFee          int64
	ConfirmTimeout time.Duration
}

// NewManager create a lifecycle manager from a family seed.
func NewManager(gateway Gateway, store Store, cfg *Config) (*Manager, error) {
	key, err := ledger.ImportKeyFromSeed(cfg.Seed, cfg.CryptoType)
	if err != nil {
		return nil, err
	}
	address := ledger.GetAddress(key, nil)
	m := &Manager{
		gateway:        gateway,
		store:          store,
		key:            key,
		cryptoType:     cfg.CryptoType,
		address:        address,
		didID:          did.FormatID(address),
		txFee:          cfg.TxFee,
		confirmTimeout: cfg.ConfirmTimeout,
	}
	if m.txFee <= 0 {
		m.txFee = defaultTxFee
	}
	if m.confirmTimeout <= 0 {
		m.confirmTimeout = defaultConfirmTimeout
	}
	log.Info("init identity manager", "did", m.didID, "address", address)
	return m, nil
}

// Address the controlling ledger address.
func (m *Manager) Address() string {
	return m.address
}

// DID the identifier controlled by this manager.
func (m *Manager) DID() string {
	return m.didID
}

func (m *Manager) buildDocument(metadata *Metadata) *did.Document {
	keyID := m.didID + "#keys-1"
	doc := &did.Document{
		Context: did.DefaultContext,
		ID:      m.didID,
		PublicKeys: []did.PublicKey{
			{
				ID:           keyID,
				Type:         verificationKeyType(m.cryptoType),
				Controller:   m.didID,
				PublicKeyHex: ledger.PublicKeyHex(m.key, m.keyseq),
			},
		},
		Authentication: []string{keyID},
	}
	if metadata != nil {
		doc.PublicKeys = append(doc.PublicKeys, metadata.ExtraPublicKeys...)
		doc.Service = metadata.Services
	}
	return doc
}

func verificationKeyType(cryptoType string) string {
	if cryptoType == ledger.CryptoTypeEd25519 {
		return "Ed25519VerificationKey2018"
	}
	return "EcdsaSecp256k1VerificationKey2019"
}

// submitMemo sign and submit a DID memo and wait for settlement. The
// transaction is built inside the gateway's sequence window, so a
// stale account sequence can never be signed.
func (m *Manager) submitMemo(payload []byte) (ledger.Outcome, error) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	outcome, err := m.gateway.SubmitNext(m.address, func(txseq uint32) (data.Transaction, error) {
		return ledger.NewSignedMemoTransaction(m.key, m.keyseq, txseq, m.txFee, ledger.MemoTypeDID, payload)
	})
	if err != nil {
		return ledger.Outcome{}, err
	}
	if outcome.Rejected() {
		return outcome, outcome.Err()
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.confirmTimeout)
	defer cancel()
	final, err := m.gateway.ObserveSettlement(ctx, outcome.TxHash)
	if err != nil {
		if errors.Is(err, ledger.ErrObserveCancelled) {
			return final, fmt.Errorf("%w (tx %v)", ErrSettlementUnknown, outcome.TxHash)
		}
		return final, err
	}
	if final.Rejected() {
		return final, final.Err()
	}
	return final, nil
}

// Create publish a new identifier document and persist its record.
// Nothing is persisted unless settlement is confirmed.
func (m *Manager) Create(metadata *Metadata) (*Result, error) {
	doc := m.buildDocument(metadata)
	encoded, err := did.Encode(doc)
	if err != nil {
		return nil, err
	}
	log.Info("create did", "did", m.didID, "strategy", encoded.Strategy.String(), "size", len(encoded.Payload))

	outcome, err := m.submitMemo(encoded.Payload)
	if err != nil {
		log.Warn("create did failed", "did", m.didID, "err", err)
		return nil, err
	}

	docBody, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	now := time.Now().Unix()
	record := &mongodb.MgoDIDRecord{
		Key:            m.didID,
		Address:        m.address,
		Document:       string(docBody),
		Strategy:       uint8(encoded.Strategy),
		TxHash:         outcome.TxHash,
		LedgerSequence: outcome.LedgerSequence,
		CreatedAt:      now,
		LastUpdated:    now,
		Status:         mongodb.StatusVerified,
	}
	if err := m.store.AddDIDRecord(record); err != nil {
		log.Error("persist did record failed", "did", m.didID, "err", err)
		return nil, err
	}
	log.Info("create did success", "did", m.didID, "txHash", outcome.TxHash, "ledgerSequence", outcome.LedgerSequence)
	return &Result{
		DID:            m.didID,
		Address:        m.address,
		Document:       doc,
		Strategy:       encoded.Strategy.String(),
		TxHash:         outcome.TxHash,
		LedgerSequence: outcome.LedgerSequence,
	}, nil
}

// Resolve an identifier to its current document from the ledger.
func (m *Manager) Resolve(didID string) (*Result, error) {
	_, address, err := did.ParseID(didID)
	if err != nil {
		return nil, err
	}
	var payload []byte
	var txHash string
	for i := 0; i < resolveRetryTimes; i++ {
		payload, txHash, err = m.gateway.LatestMemo(address, ledger.MemoTypeDID)
		if err == nil || errors.Is(err, ledger.ErrNoLedgerRecord) {
			break
		}
		log.Warn("resolve did query failed", "did", didID, "err", err)
		time.Sleep(resolveRetryInterval)
	}
	if errors.Is(err, ledger.ErrNoLedgerRecord) {
		return nil, fmt.Errorf("%w (did %v)", did.ErrNotFound, didID)
	}
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w (did %v)", did.ErrDeleted, didID)
	}
	doc, strategy, err := did.DecodeAny(payload)
	if err != nil {
		return nil, err
	}
	// the ledger carries only a locator for reference encoded
	// identities, the full copy lives in the off ledger record. The
	// copy is merged back only when re-encoding it reproduces the
	// settled locator byte for byte: a stored body whose transaction
	// never settled can never match and stays unobservable.
	if strategy == did.StrategyReference {
		if record, ferr := m.store.FindDIDRecord(didID); ferr == nil && record.Document != "" {
			var full did.Document
			if uerr := json.Unmarshal([]byte(record.Document), &full); uerr == nil {
				if reencoded, eerr := did.Encode(&full); eerr == nil && bytes.Equal(reencoded.Payload, payload) {
					doc = &full
				}
			}
		}
	}
	return &Result{
		DID:      didID,
		Address:  address,
		Document: doc,
		Strategy: strategy.String(),
		TxHash:   txHash,
	}, nil
}

// Update replace the published document. The stored record re-enters
// pending status until the replacing transaction settles.
func (m *Manager) Update(metadata *Metadata) (*Result, error) {
	record, err := m.store.FindDIDRecord(m.didID)
	if err != nil {
		return nil, fmt.Errorf("%w (did %v)", did.ErrNotFound, m.didID)
	}
	if record.Status != mongodb.StatusVerified {
		return nil, fmt.Errorf("%w (did %v status %v)", ErrWrongStatus, m.didID, record.Status.String())
	}

	doc := m.buildDocument(metadata)
	encoded, err := did.Encode(doc)
	if err != nil {
		return nil, err
	}

	docBody, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	prevDocument := record.Document
	prevStrategy := record.Strategy
	record.Document = string(docBody)
	record.Strategy = uint8(encoded.Strategy)
	record.Status = mongodb.StatusPending
	record.LastUpdated = time.Now().Unix()
	if err := m.store.UpdateDIDRecord(record); err != nil {
		return nil, err
	}

	outcome, err := m.submitMemo(encoded.Payload)
	if err != nil {
		if errors.Is(err, ErrSettlementUnknown) {
			log.Warn("update did settlement unknown", "did", m.didID)
			return nil, err
		}
		// a definitive rejection restores the last settled document,
		// so resolution never surfaces a body the ledger refused
		record.Document = prevDocument
		record.Strategy = prevStrategy
		record.Status = mongodb.StatusFailed
		record.LastUpdated = time.Now().Unix()
		if uerr := m.store.UpdateDIDRecord(record); uerr != nil {
			log.Error("restore did record failed", "did", m.didID, "err", uerr)
		}
		log.Warn("update did failed", "did", m.didID, "err", err)
		return nil, err
	}
	if err := m.store.UpdateDIDRecordStatus(m.didID, mongodb.StatusVerified, outcome.TxHash, outcome.LedgerSequence); err != nil {
		return nil, err
	}
	log.Info("update did success", "did", m.didID, "txHash", outcome.TxHash)
	return &Result{
		DID:            m.didID,
		Address:        m.address,
		Document:       doc,
		Strategy:       encoded.Strategy.String(),
		TxHash:         outcome.TxHash,
		LedgerSequence: outcome.LedgerSequence,
	}, nil
}

// Delete deactivate the identifier by publishing an empty document.
// Only a verified identifier can be deactivated.
func (m *Manager) Delete() (*Result, error) {
	record, err := m.store.FindDIDRecord(m.didID)
	if err != nil {
		return nil, fmt.Errorf("%w (did %v)", did.ErrNotFound, m.didID)
	}
	if record.Status == mongodb.StatusDeleted {
		return nil, fmt.Errorf("%w (did %v)", did.ErrDeleted, m.didID)
	}
	if record.Status != mongodb.StatusVerified {
		return nil, fmt.Errorf("%w (did %v status %v)", ErrWrongStatus, m.didID, record.Status.String())
	}

	outcome, err := m.submitMemo(nil)
	if err != nil {
		log.Warn("delete did failed", "did", m.didID, "err", err)
		return nil, err
	}
	if err := m.store.UpdateDIDRecordStatus(m.didID, mongodb.StatusDeleted, outcome.TxHash, outcome.LedgerSequence); err != nil {
		return nil, err
	}
	log.Info("delete did success", "did", m.didID, "txHash", outcome.TxHash)
	return &Result{
		DID:            m.didID,
		Address:        m.address,
		TxHash:         outcome.TxHash,
		LedgerSequence: outcome.LedgerSequence,
	}, nil
}

// ResolveBeforeRetry is the recovery path after ErrSettlementUnknown.
// It reports whether the earlier write in fact settled so the caller
// can decide between accepting the result and retrying the write.
func (m *Manager) ResolveBeforeRetry(didID string) (*Result, error) {
	res, err := m.Resolve(didID)
	if err != nil {
		return nil, err
	}
	return res, nil
}
