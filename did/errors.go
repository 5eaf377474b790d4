package did

import (
	"errors"
)

// identity and tethering errors
var (
	ErrInvalidFormat    = errors.New("invalid did identifier format")
	ErrNotFound         = errors.New("did record not found")
	ErrDocumentTooLarge = errors.New("document exceeds on-ledger size ceiling")
	ErrAlreadyTethered  = errors.New("mirror assets already tethered to this did")
	ErrNotVerified      = errors.New("did record is not verified")
	ErrDeleted          = errors.New("did record is deleted")
)
