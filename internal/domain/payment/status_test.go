package payment

import "testing"

func TestStatuses(t *testing.T) {
	if InitialStatus() != StatusPending {
		t.Fatalf("initial = %q", InitialStatus())
	}
	for _, s := range []string{"pending", "completed", "failed", "refunded"} {
		if !IsValidStatus(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	if IsValidStatus("paid") {
		t.Error("paid is an appointment payment status")
	}
	if !NeedsReceipt("completed") || NeedsReceipt("pending") {
		t.Error("only completed payments need a receipt")
	}
}
