package receipts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/BruksfildServices01/salon-pos/internal/models"
)

// Archiver stores the receipt of a completed payment.
type Archiver interface {
	Archive(ctx context.Context, p *models.Payment) error
}

type Receipt struct {
	PaymentID     uint      `json:"paymentId"`
	AppointmentID uint      `json:"appointmentId"`
	Amount        float64   `json:"amount"`
	Method        string    `json:"method"`
	Status        string    `json:"status"`
	IssuedAt      time.Time `json:"issuedAt"`
}

func Key(p *models.Payment) string {
	return fmt.Sprintf("receipts/appointment-%d/payment-%d.json", p.AppointmentID, p.ID)
}

func Render(p *models.Payment, issuedAt time.Time) ([]byte, error) {
	return json.Marshal(Receipt{
		PaymentID:     p.ID,
		AppointmentID: p.AppointmentID,
		Amount:        p.Amount,
		Method:        p.Method,
		Status:        p.Status,
		IssuedAt:      issuedAt.UTC(),
	})
}
