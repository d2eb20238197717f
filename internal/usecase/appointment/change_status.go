package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/BruksfildServices01/salon-pos/internal/audit"
	"github.com/BruksfildServices01/salon-pos/internal/domain"
	"github.com/BruksfildServices01/salon-pos/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-pos/internal/models"
)

// ChangeStatus moves a scheduled appointment to a final status
// (completed, cancelled or no_show).
type ChangeStatus struct {
	repo  domain.Repository[models.Appointment]
	audit *audit.Dispatcher
}

func NewChangeStatus(
	repo domain.Repository[models.Appointment],
	audit *audit.Dispatcher,
) *ChangeStatus {
	return &ChangeStatus{
		repo:  repo,
		audit: audit,
	}
}

type ChangeStatusInput struct {
	AppointmentID uint
	Status        appointment.Status
	UserID        *uint
	Reason        string
}

func (uc *ChangeStatus) Execute(ctx context.Context, in ChangeStatusInput) (*models.Appointment, error) {
	ap, err := uc.repo.Get(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	from := appointment.Status(ap.Status)
	if err := appointment.CanTransition(from, in.Status); err != nil {
		return nil, err
	}

	// a concurrent transition may have moved the row since Get
	ap, err = uc.repo.UpdateIf(ctx, ap.ID,
		map[string]any{"status": string(from)},
		domain.Changes{"status": string(in.Status)},
	)
	if errors.Is(err, domain.ErrStaleRecord) {
		return nil, fmt.Errorf("%w: %s changed concurrently", appointment.ErrInvalidTransition, from)
	}
	if err != nil {
		return nil, err
	}

	meta := map[string]any{"from": from, "to": in.Status}
	if in.Reason != "" {
		meta["reason"] = in.Reason
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  &ap.SalonID,
		UserID:   in.UserID,
		Action:   "appointment." + string(in.Status),
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: meta,
	})

	return ap, nil
}
