package receipts

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/BruksfildServices01/salon-pos/internal/models"
)

func TestKey(t *testing.T) {
	p := &models.Payment{ID: 9, AppointmentID: 4}
	if got, want := Key(p), "receipts/appointment-4/payment-9.json"; got != want {
		t.Fatalf("Key = %q, want %q", got, want)
	}
}

func TestRender(t *testing.T) {
	issued := time.Date(2024, 3, 1, 15, 0, 0, 0, time.FixedZone("BRT", -3*3600))
	p := &models.Payment{ID: 9, AppointmentID: 4, Amount: 50, Method: "cash", Status: "completed"}

	body, err := Render(p, issued)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	var r Receipt
	if err := json.Unmarshal(body, &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.PaymentID != 9 || r.AppointmentID != 4 || r.Amount != 50 || r.Method != "cash" {
		t.Fatalf("unexpected receipt %+v", r)
	}
	if !r.IssuedAt.Equal(issued) || r.IssuedAt.Location() != time.UTC {
		t.Fatalf("issuedAt = %v, want %v in UTC", r.IssuedAt, issued)
	}
}
