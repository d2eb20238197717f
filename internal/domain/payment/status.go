package payment

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

func InitialStatus() Status {
	return StatusPending
}

func IsValidStatus(s string) bool {
	switch Status(s) {
	case StatusPending, StatusCompleted, StatusFailed, StatusRefunded:
		return true
	}
	return false
}

// NeedsReceipt reports whether a payment in status s gets an archived receipt.
func NeedsReceipt(s string) bool {
	return Status(s) == StatusCompleted
}
