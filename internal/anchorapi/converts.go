package anchorapi

import (
	"encoding/hex"
	"encoding/json"

	"github.com/0xMailMan/violette-easya-sub000/did"
	"github.com/0xMailMan/violette-easya-sub000/merkle"
	"github.com/0xMailMan/violette-easya-sub000/mongodb"
)

// ConvertMgoDIDRecordToDIDInfo convert
func ConvertMgoDIDRecordToDIDInfo(record *mongodb.MgoDIDRecord) *DIDInfo {
	info := &DIDInfo{
		DID:            record.Key,
		Address:        record.Address,
		Strategy:       did.Strategy(record.Strategy).String(),
		TxHash:         record.TxHash,
		LedgerSequence: record.LedgerSequence,
		Status:         record.Status.String(),
		CreatedAt:      record.CreatedAt,
		LastUpdated:    record.LastUpdated,
	}
	if record.Document != "" {
		var document did.Document
		if err := json.Unmarshal([]byte(record.Document), &document); err == nil {
			info.Document = &document
		}
	}
	return info
}

// ConvertEntryArgsToEntries convert, rejecting malformed hashes
func ConvertEntryArgsToEntries(args []EntryArgs) ([]*merkle.Entry, error) {
	entries := make([]*merkle.Entry, len(args))
	for i, arg := range args {
		contentHash, err := hex.DecodeString(arg.ContentHash)
		if err != nil {
			return nil, err
		}
		entries[i] = &merkle.Entry{
			ID:          arg.ID,
			ContentHash: contentHash,
			Timestamp:   arg.Timestamp,
			Tags:        arg.Tags,
		}
	}
	return entries, nil
}

// ConvertProofToProofInfo convert
func ConvertProofToProofInfo(proof *merkle.Proof) *ProofInfo {
	siblings := make([]string, len(proof.Siblings))
	for i, sibling := range proof.Siblings {
		siblings[i] = hex.EncodeToString(sibling)
	}
	return &ProofInfo{
		Leaf:     hex.EncodeToString(proof.Leaf),
		Siblings: siblings,
		Root:     hex.EncodeToString(proof.Root),
		Index:    proof.Index,
	}
}

// ConvertProofInfoToProof convert, rejecting malformed hashes
func ConvertProofInfoToProof(info *ProofInfo) (*merkle.Proof, error) {
	leaf, err := hex.DecodeString(info.Leaf)
	if err != nil {
		return nil, err
	}
	root, err := hex.DecodeString(info.Root)
	if err != nil {
		return nil, err
	}
	siblings := make([][]byte, len(info.Siblings))
	for i, sibling := range info.Siblings {
		siblings[i], err = hex.DecodeString(sibling)
		if err != nil {
			return nil, err
		}
	}
	return &merkle.Proof{
		Leaf:     leaf,
		Siblings: siblings,
		Root:     root,
		Index:    info.Index,
	}, nil
}
