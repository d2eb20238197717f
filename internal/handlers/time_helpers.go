package handlers

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-pos/internal/domain"
	"github.com/BruksfildServices01/salon-pos/internal/httperr"
	"github.com/BruksfildServices01/salon-pos/internal/models"
	"github.com/BruksfildServices01/salon-pos/internal/timezone"
)

// salonDayRange resolves a YYYY-MM-DD calendar day in the salon's timezone.
func salonDayRange(
	ctx context.Context,
	salons domain.Repository[models.Salon],
	salonID uint,
	date string,
) (*domain.TimeRange, error) {
	salon, err := salons.Get(ctx, salonID)
	if err != nil {
		return nil, err
	}

	from, to, err := timezone.DayRange(date, salon.Timezone)
	if err != nil {
		return nil, httperr.Invalid("invalid_date", "date must be formatted as YYYY-MM-DD.")
	}

	return &domain.TimeRange{
		Column: "appointment_time",
		From:   from.UTC(),
		To:     to.UTC(),
	}, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
