package did

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// MaxOnLedgerBytes is the ledger's hard ceiling for an identity
// payload carried in a single transaction.
const MaxOnLedgerBytes = 256

// Strategy is the encoding strategy chosen for a document.
type Strategy uint8

// encoding strategies
const (
	StrategyInline Strategy = iota
	StrategyReference
)

func (s Strategy) String() string {
	switch s {
	case StrategyInline:
		return "Inline"
	case StrategyReference:
		return "Reference"
	default:
		return fmt.Sprintf("Strategy(%d)", uint8(s))
	}
}

// Encoded is the result of encoding a document for submission.
// When Strategy is StrategyReference the round trip is lossy: the
// payload carries a locator only and the full document lives in the
// off-ledger record.
type Encoded struct {
	Payload  []byte   `json:"payload"`
	Strategy Strategy `json:"strategy"`
}

// referencePayload is the on ledger locator of an externally stored
// document. Ref commits to the sha256 of the canonical document body,
// so a resolver can check an off ledger copy against the locator.
type referencePayload struct {
	DID string `json:"did"`
	Ref string `json:"ref"`
}

// Classify decide the encoding strategy for a serialized size.
// Pure, so the encoding decision is testable without ledger access.
func Classify(size int) Strategy {
	if size <= MaxOnLedgerBytes {
		return StrategyInline
	}
	return StrategyReference
}

// Encode serialize the document to its canonical byte form and pick
// the strategy against the ledger ceiling. Fallback order: full
// document inline, minimal placeholder inline, external reference.
func Encode(document *Document) (*Encoded, error) {
	payload, err := json.Marshal(document)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	if Classify(len(payload)) == StrategyInline {
		return &Encoded{Payload: payload, Strategy: StrategyInline}, nil
	}

	minimal, err := json.Marshal(document.Minimal())
	if err != nil {
		return nil, fmt.Errorf("marshal minimal document: %w", err)
	}
	if Classify(len(minimal)) == StrategyInline {
		return &Encoded{Payload: minimal, Strategy: StrategyInline}, nil
	}

	_, address, err := ParseID(document.ID)
	if err != nil {
		return nil, err
	}
	digest := sha256.Sum256(payload)
	reference, err := json.Marshal(&referencePayload{
		DID: document.ID,
		Ref: fmt.Sprintf("didrecords/%s/%x", address, digest),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal reference payload: %w", err)
	}
	if Classify(len(reference)) != StrategyInline {
		return nil, ErrDocumentTooLarge
	}
	return &Encoded{Payload: reference, Strategy: StrategyReference}, nil
}

// DecodeAny decode a payload whose strategy is not known to the
// caller, inferring it from the payload shape. Inline payloads carry
// an "id" field, reference locators a "did" field.
func DecodeAny(payload []byte) (*Document, Strategy, error) {
	var probe struct {
		ID  string `json:"id"`
		DID string `json:"did"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil, StrategyInline, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	strategy := StrategyInline
	if probe.ID == "" && probe.DID != "" {
		strategy = StrategyReference
	}
	document, err := Decode(payload, strategy)
	if err != nil {
		return nil, strategy, err
	}
	return document, strategy, nil
}

// Decode is the inverse of Encode. For StrategyReference only the
// fields present in the locator payload are reconstructed; callers
// needing full fidelity must consult the off-ledger record.
func Decode(payload []byte, strategy Strategy) (*Document, error) {
	switch strategy {
	case StrategyInline:
		var document Document
		if err := json.Unmarshal(payload, &document); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		if _, _, err := ParseID(document.ID); err != nil {
			return nil, err
		}
		return &document, nil
	case StrategyReference:
		var reference referencePayload
		if err := json.Unmarshal(payload, &reference); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		if _, _, err := ParseID(reference.DID); err != nil {
			return nil, err
		}
		return &Document{
			Context: DefaultContext,
			ID:      reference.DID,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown strategy %v", ErrInvalidFormat, strategy)
	}
}
