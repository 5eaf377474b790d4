package ledger

import (
	"fmt"
)

// UnknownReason is surfaced for any outcome code missing from the
// translation table. The raw code never reaches callers directly.
const UnknownReason = "unknown ledger error"

// resultReasons is the fixed translation table from ledger outcome
// codes to human readable causes.
var resultReasons = map[string]string{
	"tesSUCCESS": "the transaction was applied",

	"tecINSUFFICIENT_RESERVE": "insufficient reserve to complete the transaction",
	"tecINSUF_RESERVE_LINE":   "insufficient reserve to add the requested entry",
	"tecINSUF_RESERVE_OFFER":  "insufficient reserve to create the requested entry",
	"tecUNFUNDED":             "insufficient balance",
	"tecUNFUNDED_PAYMENT":     "insufficient balance to fund the payment",
	"tecNO_DST":               "destination account does not exist",
	"tecNO_DST_INSUF_XRP":     "destination account does not exist and the payment is too small to create it",
	"tecNO_PERMISSION":        "no permission to perform the requested operation",
	"tecEXPIRED":              "transaction expired before it was applied",
	"tecDUPLICATE":            "an equivalent transaction was already applied",
	"tecOVERSIZE":             "transaction metadata exceeds ledger limits",
	"tecINTERNAL":             "ledger internal error while applying the transaction",

	"temMALFORMED":    "malformed transaction",
	"temBAD_AMOUNT":   "malformed transaction amount",
	"temBAD_FEE":      "malformed transaction fee",
	"temBAD_SEQUENCE": "malformed transaction sequence",
	"temINVALID":      "transaction fails basic validity checks",
	"temREDUNDANT":    "transaction would have no effect",

	"tefPAST_SEQ":       "stale sequence number, it was already consumed",
	"tefMAX_LEDGER":     "transaction expired before validation",
	"tefALREADY":        "the exact transaction was already in this ledger",
	"tefBAD_AUTH":       "transaction signature does not match the account keys",
	"tefFAILURE":        "transaction failed to apply",
	"terPRE_SEQ":        "sequence number is ahead of the account",
	"terINSUF_FEE_B":    "account balance cannot cover the fee",
	"terNO_ACCOUNT":     "source account is not funded",
	"terQUEUED":         "transaction queued for a later ledger",
	"telINSUF_FEE_P":    "fee insufficient for the current open ledger",
	"telCAN_NOT_QUEUE":  "transaction cannot be queued",
	"telLOCAL_ERROR":    "local node error while handling the transaction",
	"telBAD_PUBLIC_KEY": "malformed public key",
}

// TranslateResult map an outcome code to its human readable cause.
// Unknown codes map to UnknownReason.
func TranslateResult(code string) string {
	if reason, ok := resultReasons[code]; ok {
		return reason
	}
	return UnknownReason
}

// SettlementError is a typed settlement rejection. The error text
// carries the translated reason only; the raw ledger code stays in
// the Code field for logging and audit.
type SettlementError struct {
	Code   string
	Reason string
}

// NewSettlementError build a SettlementError for an outcome code
func NewSettlementError(code string) *SettlementError {
	return &SettlementError{
		Code:   code,
		Reason: TranslateResult(code),
	}
}

func (e *SettlementError) Error() string {
	return fmt.Sprintf("settlement rejected: %s", e.Reason)
}
