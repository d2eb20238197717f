package appointment

import (
	"errors"
	"fmt"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// ===============================
// Payment Status (appointment side)
// ===============================

type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

func InitialStatus() Status {
	return StatusScheduled
}

func InitialPaymentStatus() PaymentStatus {
	return PaymentUnpaid
}

func IsValidStatus(s string) bool {
	switch Status(s) {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

func IsValidPaymentStatus(s string) bool {
	switch PaymentStatus(s) {
	case PaymentUnpaid, PaymentPartial, PaymentPaid:
		return true
	}
	return false
}

// ===============================
// Transitions
// ===============================

var ErrInvalidTransition = errors.New("invalid appointment status transition")

// CanTransition reports whether an appointment in status from may move to to.
// Only scheduled appointments change status; the others are final.
func CanTransition(from, to Status) error {
	if from != StatusScheduled || to == StatusScheduled || !IsValidStatus(string(to)) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
