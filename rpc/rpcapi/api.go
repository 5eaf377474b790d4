package rpcapi

import (
	"net/http"

	"github.com/0xMailMan/violette-easya-sub000/internal/anchorapi"
	"github.com/0xMailMan/violette-easya-sub000/params"
)

// RPCAPI rpc api handler
type RPCAPI struct{}

// RPCNullArgs null args
type RPCNullArgs struct{}

// GetVersionInfo api
func (s *RPCAPI) GetVersionInfo(r *http.Request, args *RPCNullArgs, result *string) error {
	version := params.VersionWithMeta
	*result = version
	return nil
}

// GetServerInfo api
func (s *RPCAPI) GetServerInfo(r *http.Request, args *RPCNullArgs, result *anchorapi.ServerInfo) error {
	res, err := anchorapi.GetServerInfo()
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// CreateDID api
func (s *RPCAPI) CreateDID(r *http.Request, args *anchorapi.MetadataArgs, result *anchorapi.DIDResult) error {
	res, err := anchorapi.CreateDID(args)
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// ResolveDID api
func (s *RPCAPI) ResolveDID(r *http.Request, didID *string, result *anchorapi.DIDResult) error {
	res, err := anchorapi.ResolveDID(*didID)
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// UpdateDID api
func (s *RPCAPI) UpdateDID(r *http.Request, args *anchorapi.MetadataArgs, result *anchorapi.DIDResult) error {
	res, err := anchorapi.UpdateDID(args)
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// DeleteDID api
func (s *RPCAPI) DeleteDID(r *http.Request, args *RPCNullArgs, result *anchorapi.DIDResult) error {
	res, err := anchorapi.DeleteDID()
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// GetDIDRecord api
func (s *RPCAPI) GetDIDRecord(r *http.Request, didID *string, result *anchorapi.DIDInfo) error {
	res, err := anchorapi.GetDIDRecord(*didID)
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// AnchorEntries api
func (s *RPCAPI) AnchorEntries(r *http.Request, args *anchorapi.AnchorArgs, result *anchorapi.AnchorReceipt) error {
	res, err := anchorapi.AnchorEntries(args)
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// GetAnchor api
func (s *RPCAPI) GetAnchor(r *http.Request, root *string, result *anchorapi.AnchorReceipt) error {
	res, err := anchorapi.GetAnchor(*root)
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// GetLatestAnchors api
func (s *RPCAPI) GetLatestAnchors(r *http.Request, limit *int, result *[]*anchorapi.AnchorReceipt) error {
	res, err := anchorapi.GetLatestAnchors(*limit)
	if err == nil {
		*result = res
	}
	return err
}

// BuildProof api
func (s *RPCAPI) BuildProof(r *http.Request, args *anchorapi.ProofArgs, result *anchorapi.ProofInfo) error {
	res, err := anchorapi.BuildProof(args)
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// VerifyProof api
func (s *RPCAPI) VerifyProof(r *http.Request, args *anchorapi.ProofInfo, result *anchorapi.VerifyResult) error {
	res, err := anchorapi.VerifyProof(args)
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// Tether api
func (s *RPCAPI) Tether(r *http.Request, args *anchorapi.TetherArgs, result *anchorapi.TetherRecord) error {
	res, err := anchorapi.Tether(args)
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// GetTetherings api
func (s *RPCAPI) GetTetherings(r *http.Request, didID *string, result *[]*anchorapi.TetherRecord) error {
	res, err := anchorapi.GetTetherings(*didID)
	if err == nil {
		*result = res
	}
	return err
}
