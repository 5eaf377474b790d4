package mongodb

// -----------------------------------------------
// did record status change graph
//
// Pending -> |- Verified (settlement confirmed)
//            |- Failed   (settlement rejected)
// Verified -> Pending (update resubmitted)
// Verified -> Deleted (delete settled)
// -----------------------------------------------

// VerificationStatus did record verification status
type VerificationStatus uint8

// verification status values
const (
	StatusPending  VerificationStatus = iota // 0
	StatusVerified                           // 1
	StatusFailed                             // 2
	StatusDeleted                            // 3
)

func (status VerificationStatus) String() string {
	switch status {
	case StatusPending:
		return "Pending"
	case StatusVerified:
		return "Verified"
	case StatusFailed:
		return "Failed"
	case StatusDeleted:
		return "Deleted"
	default:
		return "Unknown"
	}
}
