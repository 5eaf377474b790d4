// Package tether records bindings between cross chain mirror assets
// and verified identities. Records are append only; a tethering is
// never updated or deleted once written.
package tether

import (
	"errors"
	"fmt"
	"time"

	"github.com/0xMailMan/violette-easya-sub000/did"
	"github.com/0xMailMan/violette-easya-sub000/log"
	"github.com/0xMailMan/violette-easya-sub000/mongodb"
)

// ErrNoMirrorAssets is returned when a tethering carries no mirror
// asset with a minting transaction hash to key the record by.
var ErrNoMirrorAssets = errors.New("tethering has no mirror asset with tx hash")

// AssetRef references an asset on its origin chain.
type AssetRef struct {
	Chain    string `json:"chain"`
	Contract string `json:"contract"`
	TokenID  string `json:"tokenId"`
}

// MirrorAssetRef references a minted mirror asset on the secondary
// chain together with its minting transaction.
type MirrorAssetRef struct {
	Chain   string `json:"chain"`
	TokenID string `json:"tokenId"`
	TxHash  string `json:"txHash"`
}

// ProofBundle ties a tethering to an anchored merkle root.
type ProofBundle struct {
	MerkleRoot string `json:"merkleRoot"`
	Signature  string `json:"signature"`
	Timestamp  int64  `json:"timestamp"`
}

// Record is one completed tethering.
type Record struct {
	DID          string           `json:"did"`
	OriginalRefs []AssetRef       `json:"originalRefs"`
	MirrorRefs   []MirrorAssetRef `json:"mirrorRefs"`
	Proof        ProofBundle      `json:"proof"`
	Timestamp    int64            `json:"timestamp"`
}

// Store persists tethering records and exposes the identity records
// the recorder validates against.
type Store interface {
	FindDIDRecord(didID string) (*mongodb.MgoDIDRecord, error)
	AddTetheringRecord(record *mongodb.MgoTetheringRecord) error
	FindTetheringRecords(didID string) ([]*mongodb.MgoTetheringRecord, error)
	HasTetheringRecord(didID, mirrorTxHash string) bool
}

// Recorder validates and appends tethering records.
type Recorder struct {
	store Store
}

// NewRecorder create a tethering recorder.
func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

// Tether bind mirror assets to a verified identity. The record key is
// the pair of identifier and minting transaction, duplicates are
// rejected.
func (r *Recorder) Tether(didID string, originals []AssetRef, mirrors []MirrorAssetRef, proof ProofBundle, timestamp int64) (*Record, error) {
	if _, _, err := did.ParseID(didID); err != nil {
		return nil, err
	}
	mirrorTx := firstMirrorTx(mirrors)
	if mirrorTx == "" {
		return nil, ErrNoMirrorAssets
	}

	identity, err := r.store.FindDIDRecord(didID)
	if err != nil {
		return nil, fmt.Errorf("%w (did %v)", did.ErrNotFound, didID)
	}
	if identity.Status != mongodb.StatusVerified {
		return nil, fmt.Errorf("%w (did %v status %v)", did.ErrNotVerified, didID, identity.Status.String())
	}
	if r.store.HasTetheringRecord(didID, mirrorTx) {
		return nil, fmt.Errorf("%w (did %v tx %v)", did.ErrAlreadyTethered, didID, mirrorTx)
	}
	if timestamp == 0 {
		timestamp = time.Now().Unix()
	}

	record := &mongodb.MgoTetheringRecord{
		Key:          didID + ":" + mirrorTx,
		DID:          didID,
		OriginalRefs: toMgoAssetRefs(originals),
		MirrorRefs:   toMgoMirrorRefs(mirrors),
		Proof: mongodb.MgoProofBundle{
			MerkleRoot: proof.MerkleRoot,
			Signature:  proof.Signature,
			Timestamp:  proof.Timestamp,
		},
		Timestamp: timestamp,
	}
	if err := r.store.AddTetheringRecord(record); err != nil {
		log.Error("persist tethering record failed", "did", didID, "err", err)
		return nil, err
	}
	log.Info("tethering recorded", "did", didID, "mirrorTx", mirrorTx, "mirrorCount", len(mirrors))
	return fromMgoRecord(record), nil
}

// List all tethering records of an identity, oldest first.
func (r *Recorder) List(didID string) ([]*Record, error) {
	if _, _, err := did.ParseID(didID); err != nil {
		return nil, err
	}
	records, err := r.store.FindTetheringRecords(didID)
	if err != nil {
		return nil, err
	}
	result := make([]*Record, len(records))
	for i, record := range records {
		result[i] = fromMgoRecord(record)
	}
	return result, nil
}

func firstMirrorTx(mirrors []MirrorAssetRef) string {
	for _, mirror := range mirrors {
		if mirror.TxHash != "" {
			return mirror.TxHash
		}
	}
	return ""
}

func toMgoAssetRefs(refs []AssetRef) []mongodb.MgoAssetRef {
	result := make([]mongodb.MgoAssetRef, len(refs))
	for i, ref := range refs {
		result[i] = mongodb.MgoAssetRef{
			Chain:    ref.Chain,
			Contract: ref.Contract,
			TokenID:  ref.TokenID,
		}
	}
	return result
}

func toMgoMirrorRefs(refs []MirrorAssetRef) []mongodb.MgoMirrorAssetRef {
	result := make([]mongodb.MgoMirrorAssetRef, len(refs))
	for i, ref := range refs {
		result[i] = mongodb.MgoMirrorAssetRef{
			Chain:   ref.Chain,
			TokenID: ref.TokenID,
			TxHash:  ref.TxHash,
		}
	}
	return result
}

func fromMgoRecord(record *mongodb.MgoTetheringRecord) *Record {
	result := &Record{
		DID:       record.DID,
		Timestamp: record.Timestamp,
		Proof: ProofBundle{
			MerkleRoot: record.Proof.MerkleRoot,
			Signature:  record.Proof.Signature,
			Timestamp:  record.Proof.Timestamp,
		},
	}
	result.OriginalRefs = make([]AssetRef, len(record.OriginalRefs))
	for i, ref := range record.OriginalRefs {
		result.OriginalRefs[i] = AssetRef{
			Chain:    ref.Chain,
			Contract: ref.Contract,
			TokenID:  ref.TokenID,
		}
	}
	result.MirrorRefs = make([]MirrorAssetRef, len(record.MirrorRefs))
	for i, ref := range record.MirrorRefs {
		result.MirrorRefs[i] = MirrorAssetRef{
			Chain:   ref.Chain,
			TokenID: ref.TokenID,
			TxHash:  ref.TxHash,
		}
	}
	return result
}
