package timezone

import (
	"fmt"
	"time"
)

const DefaultTimezone = "UTC"

const DateLayout = "2006-01-02"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location falls back to DefaultTimezone for empty or unknown names.
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.UTC
}

// DayRange returns [start, end) of the calendar day date (YYYY-MM-DD) in tz.
func DayRange(date, tz string) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, date, Location(tz))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return day, day.AddDate(0, 0, 1), nil
}
