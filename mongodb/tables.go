package mongodb

const (
	tbDIDRecords       string = "DIDRecords"
	tbTetheringRecords string = "TetheringRecords"
	tbAnchors          string = "Anchors"
)

// MgoDIDRecord is the off-ledger record of one identity.
// Document holds the last successfully encoded document body; for
// reference-encoded identities it is the only full copy.
type MgoDIDRecord struct {
	Key            string             `bson:"_id"` // did identifier
	Address        string             `bson:"address"`
	Document       string             `bson:"document"`
	Strategy       uint8              `bson:"strategy"`
	TxHash         string             `bson:"txhash"`
	LedgerSequence uint32             `bson:"ledgerseq"`
	CreatedAt      int64              `bson:"createdat"`
	LastUpdated    int64              `bson:"lastupdated"`
	Status         VerificationStatus `bson:"status"`
}

// MgoAssetRef is an asset reference on the origin chain.
type MgoAssetRef struct {
	Chain    string `bson:"chain"`
	Contract string `bson:"contract"`
	TokenID  string `bson:"tokenid"`
}

// MgoMirrorAssetRef is a minted mirror asset on the secondary chain.
type MgoMirrorAssetRef struct {
	Chain   string `bson:"chain"`
	TokenID string `bson:"tokenid"`
	TxHash  string `bson:"txhash"`
}

// MgoProofBundle binds a tethering record to an anchored root.
type MgoProofBundle struct {
	MerkleRoot string `bson:"merkleroot"`
	Signature  string `bson:"signature"`
	Timestamp  int64  `bson:"timestamp"`
}

// MgoTetheringRecord is one append-only tethering of mirror assets
// to a did. A did may accumulate many records over time.
type MgoTetheringRecord struct {
	Key          string              `bson:"_id"` // didID:mirrorTxHash
	DID          string              `bson:"did"`
	OriginalRefs []MgoAssetRef       `bson:"originalrefs"`
	MirrorRefs   []MgoMirrorAssetRef `bson:"mirrorrefs"`
	Proof        MgoProofBundle      `bson:"proof"`
	Timestamp    int64               `bson:"timestamp"`
}

// MgoAnchor stores an anchored merkle root together with the entry
// snapshot it was computed from. A root without its snapshot is not
// independently verifiable.
type MgoAnchor struct {
	Key            string   `bson:"_id"` // root hex
	Root           string   `bson:"root"`
	EntryIDs       []string `bson:"entryids"`
	EntryCount     int      `bson:"entrycount"`
	TxHash         string   `bson:"txhash"`
	LedgerSequence uint32   `bson:"ledgerseq"`
	Settled        bool     `bson:"settled"`
	Timestamp      int64    `bson:"timestamp"`
}
