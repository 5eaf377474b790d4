package did

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultContext is the document context written on creation.
const DefaultContext = "https://www.w3.org/ns/did/v1"

// Method is the did method name of the underlying ledger.
const Method = "xrpl"

// MethodVersion is the did method version used for newly derived ids.
const MethodVersion = 1

var rAddressReg = regexp.MustCompile(`^r[1-9a-km-zA-HJ-NP-Z]{24,34}$`)

// PublicKey is one verification key of a document.
type PublicKey struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Controller   string `json:"controller,omitempty"`
	PublicKeyHex string `json:"publicKeyHex"`
}

// ServiceEndpoint is one service entry of a document.
type ServiceEndpoint struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	ServiceEndpoint string `json:"serviceEndpoint"`
}

// Document is a decentralized identity document.
// The ID is derived from the controlling address and never mutated
// after creation. Updates replace the document body only.
type Document struct {
	Context        string            `json:"@context"`
	ID             string            `json:"id"`
	PublicKeys     []PublicKey       `json:"publicKey,omitempty"`
	Authentication []string          `json:"authentication,omitempty"`
	Service        []ServiceEndpoint `json:"service,omitempty"`
}

// FormatID build the canonical identifier for a controlling address.
func FormatID(address string) string {
	return fmt.Sprintf("did:%s:%d:%s", Method, MethodVersion, address)
}

// ParseID split a did identifier into method version and controlling
// address. Fails with ErrInvalidFormat on any syntax violation.
func ParseID(didID string) (version int, address string, err error) {
	parts := strings.Split(didID, ":")
	if len(parts) != 4 || parts[0] != "did" || parts[1] != Method {
		return 0, "", fmt.Errorf("%w: %q", ErrInvalidFormat, didID)
	}
	version, err = strconv.Atoi(parts[2])
	if err != nil || version <= 0 {
		return 0, "", fmt.Errorf("%w: bad method version in %q", ErrInvalidFormat, didID)
	}
	address = parts[3]
	if !IsValidAddress(address) {
		return 0, "", fmt.Errorf("%w: bad address in %q", ErrInvalidFormat, didID)
	}
	return version, address, nil
}

// IsValidAddress check ledger address syntax
func IsValidAddress(address string) bool {
	return rAddressReg.MatchString(address)
}

// Minimal build the placeholder form of the document: id and first
// public key only, authentication and service stripped. Used by the
// codec when the full document misses the on-ledger size ceiling.
func (d *Document) Minimal() *Document {
	minimal := &Document{
		Context: d.Context,
		ID:      d.ID,
	}
	if len(d.PublicKeys) > 0 {
		minimal.PublicKeys = d.PublicKeys[:1]
	}
	return minimal
}
