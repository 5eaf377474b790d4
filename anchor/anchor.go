// Package anchor publishes merkle roots of diary entry batches to the
// ledger and keeps verifiable receipts of every anchoring.
package anchor

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rubblelabs/ripple/crypto"
	"github.com/rubblelabs/ripple/data"

	"github.com/0xMailMan/violette-easya-sub000/ledger"
	"github.com/0xMailMan/violette-easya-sub000/log"
	"github.com/0xMailMan/violette-easya-sub000/merkle"
	"github.com/0xMailMan/violette-easya-sub000/mongodb"
	"github.com/0xMailMan/violette-easya-sub000/params"
)

// ErrAnchorRejected wraps a definitive ledger rejection of an anchor
// transaction. Nothing is persisted for a rejected anchor.
var ErrAnchorRejected = errors.New("anchor transaction rejected")

const (
	defaultTxFee          = 12
	defaultConfirmTimeout = 60 * time.Second
)

// Gateway is the ledger access the anchorer depends on. Sequence
// acquisition and submission are one atomic gateway operation so
// other writers of the same address cannot race on sequences.
type Gateway interface {
	SubmitNext(address string, build func(txseq uint32) (data.Transaction, error)) (ledger.Outcome, error)
	ObserveSettlement(ctx context.Context, txHash string) (ledger.Outcome, error)
}

// Store persists anchor receipts.
type Store interface {
	AddAnchor(anchor *mongodb.MgoAnchor) error
	UpdateAnchorSettled(root, txHash string, ledgerSeq uint32) error
	FindAnchor(root string) (*mongodb.MgoAnchor, error)
	FindLatestAnchors(limit int) ([]*mongodb.MgoAnchor, error)
}

// Receipt of one anchoring. Settled is false when the anchor was
// accepted but its settlement could not be observed in time; the
// confirm worker finishes those.
type Receipt struct {
	Root           string `json:"root"`
	EntryCount     int    `json:"entryCount"`
	TxHash         string `json:"txHash"`
	LedgerSequence uint32 `json:"ledgerSequence,omitempty"`
	Settled        bool   `json:"settled"`
	VerifyLink     string `json:"verifyLink,omitempty"`
}

// Anchorer batches diary entries into merkle trees and anchors their
// roots on the ledger.
type Anchorer struct {
	gateway Gateway
	store   Store

	key     crypto.Key
	keyseq  *uint32
	address string

	txFee          int64
	confirmTimeout time.Duration

	writeMu sync.Mutex
}

// Config of an anchorer.
type Config struct {
	Seed           string
	CryptoType     string
	TxFee          int64
	ConfirmTimeout time.Duration
}

// NewAnchorer create an anchorer from a family seed.
func NewAnchorer(gateway Gateway, store Store, cfg *Config) (*Anchorer, error) {
	key, err := ledger.ImportKeyFromSeed(cfg.Seed, cfg.CryptoType)
	if err != nil {
		return nil, err
	}
	a := &Anchorer{
		gateway:        gateway,
		store:          store,
		key:            key,
		address:        ledger.GetAddress(key, nil),
		txFee:          cfg.TxFee,
		confirmTimeout: cfg.ConfirmTimeout,
	}
	if a.txFee <= 0 {
		a.txFee = defaultTxFee
	}
	if a.confirmTimeout <= 0 {
		a.confirmTimeout = defaultConfirmTimeout
	}
	log.Info("init anchorer", "address", a.address)
	return a, nil
}

// Address the anchoring ledger address.
func (a *Anchorer) Address() string {
	return a.address
}

// Anchor build the merkle tree over the entries and publish its root.
// The receipt is persisted after submission is accepted; the settled
// flag flips once a validated ledger includes the transaction.
func (a *Anchorer) Anchor(entries []*merkle.Entry) (*Receipt, error) {
	tree, err := merkle.BuildTree(entries)
	if err != nil {
		return nil, err
	}
	root := tree.Root()
	rootHex := hex.EncodeToString(root)

	if existing, ferr := a.store.FindAnchor(rootHex); ferr == nil && existing != nil {
		log.Info("anchor already recorded", "root", rootHex, "txHash", existing.TxHash)
		return receiptFromRecord(existing), nil
	}

	log.Info("anchor entries", "root", rootHex, "entryCount", len(entries))

	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	outcome, err := a.gateway.SubmitNext(a.address, func(txseq uint32) (data.Transaction, error) {
		return ledger.NewSignedMemoTransaction(a.key, a.keyseq, txseq, a.txFee, ledger.MemoTypeAnchor, root)
	})
	if err != nil {
		return nil, err
	}
	if outcome.Rejected() {
		log.Warn("anchor rejected", "root", rootHex, "reason", outcome.Reason)
		return nil, fmt.Errorf("%w: %w", ErrAnchorRejected, outcome.Err())
	}

	record := &mongodb.MgoAnchor{
		Key:        rootHex,
		Root:       rootHex,
		EntryIDs:   entryIDs(entries),
		EntryCount: len(entries),
		TxHash:     outcome.TxHash,
		Timestamp:  time.Now().Unix(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.confirmTimeout)
	defer cancel()
	final, err := a.gateway.ObserveSettlement(ctx, outcome.TxHash)
	switch {
	case err == nil && final.Settled():
		record.Settled = true
		record.LedgerSequence = final.LedgerSequence
	case err == nil || errors.Is(err, ledger.ErrObserveCancelled):
		if final.Rejected() {
			return nil, fmt.Errorf("%w: %w", ErrAnchorRejected, final.Err())
		}
		log.Warn("anchor settlement pending", "root", rootHex, "txHash", outcome.TxHash)
	default:
		return nil, err
	}

	if err := a.store.AddAnchor(record); err != nil {
		log.Error("persist anchor failed", "root", rootHex, "err", err)
		return nil, err
	}
	log.Info("anchor recorded", "root", rootHex, "txHash", record.TxHash, "settled", record.Settled)
	return receiptFromRecord(record), nil
}

// Lookup find the receipt of a previously anchored root.
func (a *Anchorer) Lookup(rootHex string) (*Receipt, error) {
	record, err := a.store.FindAnchor(rootHex)
	if err != nil {
		return nil, err
	}
	return receiptFromRecord(record), nil
}

// Latest list the most recent anchor receipts.
func (a *Anchorer) Latest(limit int) ([]*Receipt, error) {
	records, err := a.store.FindLatestAnchors(limit)
	if err != nil {
		return nil, err
	}
	receipts := make([]*Receipt, len(records))
	for i, record := range records {
		receipts[i] = receiptFromRecord(record)
	}
	return receipts, nil
}

func receiptFromRecord(record *mongodb.MgoAnchor) *Receipt {
	receipt := &Receipt{
		Root:           record.Root,
		EntryCount:     record.EntryCount,
		TxHash:         record.TxHash,
		LedgerSequence: record.LedgerSequence,
		Settled:        record.Settled,
	}
	if record.TxHash != "" {
		receipt.VerifyLink = params.GetExplorerURL() + "/transactions/" + record.TxHash
	}
	return receipt
}

func entryIDs(entries []*merkle.Entry) []string {
	ids := make([]string, len(entries))
	for i := range entries {
		ids[i] = entries[i].ID
	}
	return ids
}
