// Package anchorapi implements the rpc and rest facing operations of
// the anchor server.
package anchorapi

import (
	"errors"

	rpcjson "github.com/gorilla/rpc/v2/json2"

	"github.com/0xMailMan/violette-easya-sub000/anchor"
	"github.com/0xMailMan/violette-easya-sub000/did"
	"github.com/0xMailMan/violette-easya-sub000/identity"
	"github.com/0xMailMan/violette-easya-sub000/ledger"
	"github.com/0xMailMan/violette-easya-sub000/log"
	"github.com/0xMailMan/violette-easya-sub000/merkle"
	"github.com/0xMailMan/violette-easya-sub000/mongodb"
	"github.com/0xMailMan/violette-easya-sub000/params"
	"github.com/0xMailMan/violette-easya-sub000/tether"
)

var (
	didManager *identity.Manager
	anchorer   *anchor.Anchorer
	recorder   *tether.Recorder

	errServiceNotReady = newRPCError(-32099, "service not ready")
)

func newRPCError(ec rpcjson.ErrorCode, message string) error {
	return &rpcjson.Error{
		Code:    ec,
		Message: message,
	}
}

func newRPCInternalError(err error) error {
	return newRPCError(-32000, "rpcError: "+err.Error())
}

// SetServices wire the domain services the api dispatches to.
// Must be called before the rpc and rest servers start.
func SetServices(manager *identity.Manager, anc *anchor.Anchorer, rec *tether.Recorder) {
	didManager = manager
	anchorer = anc
	recorder = rec
}

func mapDomainError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, did.ErrInvalidFormat),
		errors.Is(err, merkle.ErrEmptyInput),
		errors.Is(err, merkle.ErrIndexOutOfRange),
		errors.Is(err, tether.ErrNoMirrorAssets):
		return newRPCError(-32602, err.Error())
	case errors.Is(err, did.ErrNotFound), errors.Is(err, did.ErrDeleted):
		return newRPCError(-32011, err.Error())
	case errors.Is(err, did.ErrAlreadyTethered):
		return newRPCError(-32013, err.Error())
	case errors.Is(err, did.ErrNotVerified):
		return newRPCError(-32014, err.Error())
	default:
		var serr *ledger.SettlementError
		if errors.As(err, &serr) {
			return newRPCError(-32020, serr.Error())
		}
		return newRPCInternalError(err)
	}
}

// GetServerInfo api
func GetServerInfo() (*ServerInfo, error) {
	log.Debug("[api] receive GetServerInfo")
	config := params.GetConfig()
	if config == nil || didManager == nil {
		return nil, errServiceNotReady
	}
	return &ServerInfo{
		Identifier: config.Identifier,
		NetID:      config.Ledger.NetID,
		Address:    didManager.Address(),
		DID:        didManager.DID(),
		Version:    params.VersionWithMeta,
	}, nil
}

// GetVersionInfo api
func GetVersionInfo() (*VersionInfo, error) {
	log.Debug("[api] receive GetVersionInfo")
	return &VersionInfo{Version: params.VersionWithMeta}, nil
}

// CreateDID api
func CreateDID(args *MetadataArgs) (*DIDResult, error) {
	log.Debug("[api] receive CreateDID")
	if didManager == nil {
		return nil, errServiceNotReady
	}
	result, err := didManager.Create(toMetadata(args))
	if err != nil {
		return nil, mapDomainError(err)
	}
	return result, nil
}

// ResolveDID api
func ResolveDID(didID string) (*DIDResult, error) {
	log.Debug("[api] receive ResolveDID", "did", didID)
	if didManager == nil {
		return nil, errServiceNotReady
	}
	result, err := didManager.Resolve(didID)
	if err != nil {
		return nil, mapDomainError(err)
	}
	return result, nil
}

// UpdateDID api
func UpdateDID(args *MetadataArgs) (*DIDResult, error) {
	log.Debug("[api] receive UpdateDID")
	if didManager == nil {
		return nil, errServiceNotReady
	}
	result, err := didManager.Update(toMetadata(args))
	if err != nil {
		return nil, mapDomainError(err)
	}
	return result, nil
}

// DeleteDID api
func DeleteDID() (*DIDResult, error) {
	log.Debug("[api] receive DeleteDID")
	if didManager == nil {
		return nil, errServiceNotReady
	}
	result, err := didManager.Delete()
	if err != nil {
		return nil, mapDomainError(err)
	}
	return result, nil
}

// GetDIDRecord api
func GetDIDRecord(didID string) (*DIDInfo, error) {
	log.Debug("[api] receive GetDIDRecord", "did", didID)
	record, err := mongodb.FindDIDRecord(didID)
	if err != nil {
		return nil, err
	}
	return ConvertMgoDIDRecordToDIDInfo(record), nil
}

// AnchorEntries api
func AnchorEntries(args *AnchorArgs) (*AnchorReceipt, error) {
	log.Debug("[api] receive AnchorEntries", "entryCount", len(args.Entries))
	if anchorer == nil {
		return nil, errServiceNotReady
	}
	entries, err := ConvertEntryArgsToEntries(args.Entries)
	if err != nil {
		return nil, newRPCError(-32602, "invalid content hash: "+err.Error())
	}
	receipt, err := anchorer.Anchor(entries)
	if err != nil {
		return nil, mapDomainError(err)
	}
	return receipt, nil
}

// GetAnchor api
func GetAnchor(root string) (*AnchorReceipt, error) {
	log.Debug("[api] receive GetAnchor", "root", root)
	if anchorer == nil {
		return nil, errServiceNotReady
	}
	receipt, err := anchorer.Lookup(root)
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// GetLatestAnchors api
func GetLatestAnchors(limit int) ([]*AnchorReceipt, error) {
	log.Debug("[api] receive GetLatestAnchors", "limit", limit)
	if anchorer == nil {
		return nil, errServiceNotReady
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return anchorer.Latest(limit)
}

// BuildProof api
func BuildProof(args *ProofArgs) (*ProofInfo, error) {
	log.Debug("[api] receive BuildProof", "entryCount", len(args.Entries), "index", args.Index)
	entries, err := ConvertEntryArgsToEntries(args.Entries)
	if err != nil {
		return nil, newRPCError(-32602, "invalid content hash: "+err.Error())
	}
	tree, err := merkle.BuildTree(entries)
	if err != nil {
		return nil, mapDomainError(err)
	}
	proof, err := tree.Proof(args.Index)
	if err != nil {
		return nil, mapDomainError(err)
	}
	return ConvertProofToProofInfo(proof), nil
}

// VerifyProof api
func VerifyProof(info *ProofInfo) (*VerifyResult, error) {
	log.Debug("[api] receive VerifyProof", "root", info.Root)
	proof, err := ConvertProofInfoToProof(info)
	if err != nil {
		return nil, newRPCError(-32602, "invalid proof encoding: "+err.Error())
	}
	return &VerifyResult{Valid: merkle.VerifyProof(proof, proof.Root)}, nil
}

// Tether api
func Tether(args *TetherArgs) (*TetherRecord, error) {
	log.Debug("[api] receive Tether", "did", args.DID)
	if recorder == nil {
		return nil, errServiceNotReady
	}
	record, err := recorder.Tether(args.DID, args.OriginalRefs, args.MirrorRefs, args.Proof, args.Timestamp)
	if err != nil {
		return nil, mapDomainError(err)
	}
	return record, nil
}

// GetTetherings api
func GetTetherings(didID string) ([]*TetherRecord, error) {
	log.Debug("[api] receive GetTetherings", "did", didID)
	if recorder == nil {
		return nil, errServiceNotReady
	}
	records, err := recorder.List(didID)
	if err != nil {
		return nil, mapDomainError(err)
	}
	return records, nil
}

func toMetadata(args *MetadataArgs) *identity.Metadata {
	if args == nil {
		return nil
	}
	return &identity.Metadata{
		Services:        args.Services,
		ExtraPublicKeys: args.ExtraPublicKeys,
	}
}
