package anchorapi

import (
	"github.com/0xMailMan/violette-easya-sub000/anchor"
	"github.com/0xMailMan/violette-easya-sub000/did"
	"github.com/0xMailMan/violette-easya-sub000/identity"
	"github.com/0xMailMan/violette-easya-sub000/mongodb"
	"github.com/0xMailMan/violette-easya-sub000/tether"
)

// VerificationStatus type alias
type VerificationStatus = mongodb.VerificationStatus

// AnchorReceipt type alias
type AnchorReceipt = anchor.Receipt

// TetherRecord type alias
type TetherRecord = tether.Record

// DIDResult type alias
type DIDResult = identity.Result

// ServerInfo server info
type ServerInfo struct {
	Identifier string `json:"identifier"`
	NetID      string `json:"netId"`
	Address    string `json:"address"`
	DID        string `json:"did"`
	Version    string `json:"version"`
}

// VersionInfo version info
type VersionInfo struct {
	Version string `json:"version"`
}

// DIDInfo the off ledger view of an identity record
type DIDInfo struct {
	DID            string        `json:"did"`
	Address        string        `json:"address"`
	Document       *did.Document `json:"document,omitempty"`
	Strategy       string        `json:"strategy"`
	TxHash         string        `json:"txHash"`
	LedgerSequence uint32        `json:"ledgerSequence"`
	Status         string        `json:"status"`
	CreatedAt      int64         `json:"createdAt"`
	LastUpdated    int64         `json:"lastUpdated"`
}

// EntryArgs one diary entry of an anchor or proof request
type EntryArgs struct {
	ID          string   `json:"id"`
	ContentHash string   `json:"contentHash"`
	Timestamp   int64    `json:"timestamp"`
	Tags        []string `json:"tags,omitempty"`
}

// AnchorArgs anchor request
type AnchorArgs struct {
	Entries []EntryArgs `json:"entries"`
}

// ProofArgs proof generation request
type ProofArgs struct {
	Entries []EntryArgs `json:"entries"`
	Index   int         `json:"index"`
}

// ProofInfo a membership proof in wire form, hashes hex encoded
type ProofInfo struct {
	Leaf     string   `json:"leaf"`
	Siblings []string `json:"siblings"`
	Root     string   `json:"root"`
	Index    int      `json:"index"`
}

// VerifyResult proof verification result
type VerifyResult struct {
	Valid bool `json:"valid"`
}

// MetadataArgs caller supplied document content
type MetadataArgs struct {
	Services        []did.ServiceEndpoint `json:"services,omitempty"`
	ExtraPublicKeys []did.PublicKey       `json:"extraPublicKeys,omitempty"`
}

// TetherArgs tethering request
type TetherArgs struct {
	DID          string                  `json:"did"`
	OriginalRefs []tether.AssetRef       `json:"originalRefs"`
	MirrorRefs   []tether.MirrorAssetRef `json:"mirrorRefs"`
	Proof        tether.ProofBundle      `json:"proof"`
	Timestamp    int64                   `json:"timestamp,omitempty"`
}

// PostResult post result
type PostResult string

// SuccessPostResult success post result
var SuccessPostResult PostResult = "Success"
