package anchor

import (
	"github.com/0xMailMan/violette-easya-sub000/mongodb"
)

// MongoStore is the Store backed by the mongodb package.
type MongoStore struct{}

// AddAnchor impl Store
func (MongoStore) AddAnchor(anchor *mongodb.MgoAnchor) error {
	return mongodb.AddAnchor(anchor)
}

// UpdateAnchorSettled impl Store
func (MongoStore) UpdateAnchorSettled(root, txHash string, ledgerSeq uint32) error {
	return mongodb.UpdateAnchorSettled(root, txHash, ledgerSeq)
}

// FindAnchor impl Store
func (MongoStore) FindAnchor(root string) (*mongodb.MgoAnchor, error) {
	return mongodb.FindAnchor(root)
}

// FindLatestAnchors impl Store
func (MongoStore) FindLatestAnchors(limit int) ([]*mongodb.MgoAnchor, error) {
	return mongodb.FindLatestAnchors(limit)
}
