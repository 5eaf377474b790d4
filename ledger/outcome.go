package ledger

import (
	"strings"

	"github.com/rubblelabs/ripple/websockets"
)

// OutcomeKind tags the settlement outcome union.
type OutcomeKind uint8

// outcome kinds
const (
	// OutcomePending the transaction is known to the ledger but not
	// yet included in a validated ledger
	OutcomePending OutcomeKind = iota
	// OutcomeSettled the transaction is final and irreversible
	OutcomeSettled
	// OutcomeRejected the transaction was definitively not applied,
	// or settled with a failure code
	OutcomeRejected
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSettled:
		return "Settled"
	case OutcomeRejected:
		return "Rejected"
	default:
		return "Pending"
	}
}

// Outcome is the settlement outcome decoded once at the gateway
// boundary. Nothing above this package inspects raw submit
// responses.
type Outcome struct {
	Kind           OutcomeKind `json:"kind"`
	Code           string      `json:"code,omitempty"`
	Reason         string      `json:"reason,omitempty"`
	LedgerSequence uint32      `json:"ledgerSequence,omitempty"`
	TxHash         string      `json:"txHash,omitempty"`
}

// Settled reports finality
func (o Outcome) Settled() bool { return o.Kind == OutcomeSettled }

// Rejected reports definitive failure
func (o Outcome) Rejected() bool { return o.Kind == OutcomeRejected }

// Err a typed settlement error for rejected outcomes, nil otherwise
func (o Outcome) Err() error {
	if !o.Rejected() {
		return nil
	}
	return NewSettlementError(o.Code)
}

// decodeSubmitOutcome classify a submit response.
// Provisional success and the retryable code class stay Pending
// until a validated ledger confirms them; everything else is a
// rejection.
func decodeSubmitOutcome(result *websockets.SubmitResult, txHash string) Outcome {
	code := result.EngineResult.String()
	if result.EngineResult.Success() || result.EngineResult.Queued() || strings.HasPrefix(code, "ter") {
		return Outcome{
			Kind:   OutcomePending,
			Code:   code,
			Reason: TranslateResult(code),
			TxHash: txHash,
		}
	}
	return Outcome{
		Kind:   OutcomeRejected,
		Code:   code,
		Reason: TranslateResult(code),
		TxHash: txHash,
	}
}
