package merkle

import (
	"encoding/binary"
)

// Entry is one diary entry as referenced by the anchoring core.
// Entries are owned by the diary persistence layer and must not be
// mutated after they have been hashed into a tree.
type Entry struct {
	ID          string   `json:"id"`
	ContentHash []byte   `json:"contentHash"`
	Timestamp   int64    `json:"timestamp"` // unix milliseconds
	Tags        []string `json:"tags"`
}

// CanonicalBytes serialize the entry to its canonical byte form.
// Every field is prefixed with its 4-byte big-endian length, fields
// in fixed order: id, contentHash, timestamp (8 bytes), tags (each
// length prefixed, in given order). The leaf hash and therefore the
// root depend on this layout staying byte-stable.
func (e *Entry) CanonicalBytes() []byte {
	size := 4 + len(e.ID) + 4 + len(e.ContentHash) + 4 + 8
	for _, tag := range e.Tags {
		size += 4 + len(tag)
	}
	buf := make([]byte, 0, size)
	buf = appendField(buf, []byte(e.ID))
	buf = appendField(buf, e.ContentHash)
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(e.Timestamp))
	buf = appendField(buf, ts[:])
	for _, tag := range e.Tags {
		buf = appendField(buf, []byte(tag))
	}
	return buf
}

// LeafHash hash of the entry's canonical serialization
func (e *Entry) LeafHash() []byte {
	return Sum(e.CanonicalBytes())
}

func appendField(buf, field []byte) []byte {
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(field)))
	buf = append(buf, length[:]...)
	return append(buf, field...)
}
