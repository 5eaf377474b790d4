package mongodb

import (
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	"github.com/0xMailMan/violette-easya-sub000/common"
)

var (
	collDIDRecord       *mgo.Collection
	collTetheringRecord *mgo.Collection
	collAnchor          *mgo.Collection
)

const maxCountOfResults = 1000

func getOrInitCollection(table string, collection **mgo.Collection, indexKey ...string) *mgo.Collection {
	if *collection == nil {
		*collection = database.C(table)
		if len(indexKey) != 0 {
			_ = (*collection).EnsureIndexKey(indexKey...)
		}
	}
	return *collection
}

func getCollection(table string) *mgo.Collection {
	switch table {
	case tbDIDRecords:
		return getOrInitCollection(table, &collDIDRecord, "address", "status")
	case tbTetheringRecords:
		return getOrInitCollection(table, &collTetheringRecord, "did", "timestamp")
	case tbAnchors:
		return getOrInitCollection(table, &collAnchor, "settled", "timestamp")
	default:
		panic("unknown table " + table)
	}
}

func initCollections() {
	getCollection(tbDIDRecords)
	getCollection(tbTetheringRecords)
	getCollection(tbAnchors)
}

func deinitCollections() {
	collDIDRecord = nil
	collTetheringRecord = nil
	collAnchor = nil
}

// --------------- did record ---------------

// AddDIDRecord insert a new did record (fails on duplicate)
func AddDIDRecord(record *MgoDIDRecord) error {
	err := getCollection(tbDIDRecords).Insert(record)
	return mgoError(err)
}

// UpdateDIDRecord replace a did record body wholesale
func UpdateDIDRecord(record *MgoDIDRecord) error {
	err := getCollection(tbDIDRecords).UpdateId(record.Key, record)
	return mgoError(err)
}

// UpdateDIDRecordStatus update status and settlement receipt of a
// did record. lastupdated is stamped in unix seconds, the unit every
// writer of the field uses.
func UpdateDIDRecordStatus(didID string, status VerificationStatus, txHash string, ledgerSeq uint32) error {
	updates := bson.M{
		"status":      status,
		"lastupdated": common.Now(),
	}
	if txHash != "" {
		updates["txhash"] = txHash
	}
	if ledgerSeq != 0 {
		updates["ledgerseq"] = ledgerSeq
	}
	err := getCollection(tbDIDRecords).UpdateId(didID, bson.M{"$set": updates})
	return mgoError(err)
}

// FindDIDRecord find a did record by identifier
func FindDIDRecord(didID string) (*MgoDIDRecord, error) {
	var record MgoDIDRecord
	err := getCollection(tbDIDRecords).FindId(didID).One(&record)
	if err != nil {
		return nil, mgoError(err)
	}
	return &record, nil
}

// FindDIDRecordByAddress find a did record by controlling address
func FindDIDRecordByAddress(address string) (*MgoDIDRecord, error) {
	var record MgoDIDRecord
	err := getCollection(tbDIDRecords).Find(bson.M{"address": address}).One(&record)
	if err != nil {
		return nil, mgoError(err)
	}
	return &record, nil
}

// FindDIDRecordsWithStatus find did records in the given status,
// oldest first
func FindDIDRecordsWithStatus(status VerificationStatus) ([]*MgoDIDRecord, error) {
	var records []*MgoDIDRecord
	q := getCollection(tbDIDRecords).Find(bson.M{"status": status}).Sort("lastupdated").Limit(maxCountOfResults)
	err := q.All(&records)
	if err != nil {
		return nil, mgoError(err)
	}
	return records, nil
}

// --------------- tethering record ---------------

// AddTetheringRecord append a tethering record (fails on duplicate)
func AddTetheringRecord(record *MgoTetheringRecord) error {
	err := getCollection(tbTetheringRecords).Insert(record)
	return mgoError(err)
}

// FindTetheringRecords all tethering records of a did, oldest first
func FindTetheringRecords(didID string) ([]*MgoTetheringRecord, error) {
	var records []*MgoTetheringRecord
	q := getCollection(tbTetheringRecords).Find(bson.M{"did": didID}).Sort("timestamp").Limit(maxCountOfResults)
	err := q.All(&records)
	if err != nil {
		return nil, mgoError(err)
	}
	return records, nil
}

// HasTetheringRecord check whether the mirror tx is already tethered
// to the did
func HasTetheringRecord(didID, mirrorTxHash string) bool {
	var record MgoTetheringRecord
	err := getCollection(tbTetheringRecords).FindId(didID + ":" + mirrorTxHash).One(&record)
	return err == nil
}

// --------------- anchor ---------------

// AddAnchor insert an anchored root with its entry snapshot
func AddAnchor(anchor *MgoAnchor) error {
	err := getCollection(tbAnchors).Insert(anchor)
	return mgoError(err)
}

// UpdateAnchorSettled mark an anchor as settled with its receipt
func UpdateAnchorSettled(root, txHash string, ledgerSeq uint32) error {
	updates := bson.M{
		"settled":   true,
		"txhash":    txHash,
		"ledgerseq": ledgerSeq,
	}
	err := getCollection(tbAnchors).UpdateId(root, bson.M{"$set": updates})
	return mgoError(err)
}

// FindAnchor find an anchor by its root hex
func FindAnchor(root string) (*MgoAnchor, error) {
	var anchor MgoAnchor
	err := getCollection(tbAnchors).FindId(root).One(&anchor)
	if err != nil {
		return nil, mgoError(err)
	}
	return &anchor, nil
}

// FindUnsettledAnchors anchors awaiting settlement confirmation
func FindUnsettledAnchors() ([]*MgoAnchor, error) {
	var anchors []*MgoAnchor
	q := getCollection(tbAnchors).Find(bson.M{"settled": false}).Sort("timestamp").Limit(maxCountOfResults)
	err := q.All(&anchors)
	if err != nil {
		return nil, mgoError(err)
	}
	return anchors, nil
}

// FindLatestAnchors newest anchors for audit display
func FindLatestAnchors(limit int) ([]*MgoAnchor, error) {
	if limit <= 0 || limit > maxCountOfResults {
		limit = 20
	}
	var anchors []*MgoAnchor
	q := getCollection(tbAnchors).Find(nil).Sort("-timestamp").Limit(limit)
	err := q.All(&anchors)
	if err != nil {
		return nil, mgoError(err)
	}
	return anchors, nil
}
