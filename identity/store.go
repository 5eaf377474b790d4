package identity

import (
	"github.com/0xMailMan/violette-easya-sub000/mongodb"
)

// MongoStore is the Store backed by the mongodb package.
type MongoStore struct{}

// AddDIDRecord impl Store
func (MongoStore) AddDIDRecord(record *mongodb.MgoDIDRecord) error {
	return mongodb.AddDIDRecord(record)
}

// UpdateDIDRecord impl Store
func (MongoStore) UpdateDIDRecord(record *mongodb.MgoDIDRecord) error {
	return mongodb.UpdateDIDRecord(record)
}

// UpdateDIDRecordStatus impl Store
func (MongoStore) UpdateDIDRecordStatus(didID string, status mongodb.VerificationStatus, txHash string, ledgerSeq uint32) error {
	return mongodb.UpdateDIDRecordStatus(didID, status, txHash, ledgerSeq)
}

// FindDIDRecord impl Store
func (MongoStore) FindDIDRecord(didID string) (*mongodb.MgoDIDRecord, error) {
	return mongodb.FindDIDRecord(didID)
}
