package tether

import (
	"github.com/0xMailMan/violette-easya-sub000/mongodb"
)

// MongoStore is the Store backed by the mongodb package.
type MongoStore struct{}

// FindDIDRecord impl Store
func (MongoStore) FindDIDRecord(didID string) (*mongodb.MgoDIDRecord, error) {
	return mongodb.FindDIDRecord(didID)
}

// AddTetheringRecord impl Store
func (MongoStore) AddTetheringRecord(record *mongodb.MgoTetheringRecord) error {
	return mongodb.AddTetheringRecord(record)
}

// FindTetheringRecords impl Store
func (MongoStore) FindTetheringRecords(didID string) ([]*mongodb.MgoTetheringRecord, error) {
	return mongodb.FindTetheringRecords(didID)
}

// HasTetheringRecord impl Store
func (MongoStore) HasTetheringRecord(didID, mirrorTxHash string) bool {
	return mongodb.HasTetheringRecord(didID, mirrorTxHash)
}
