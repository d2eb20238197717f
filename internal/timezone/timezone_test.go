package timezone

import (
	"testing"
	"time"
)

func TestLocationFallsBackToUTC(t *testing.T) {
	if Location("") != time.UTC {
		t.Error("empty tz should be UTC")
	}
	if Location("Mars/Olympus") != time.UTC {
		t.Error("unknown tz should be UTC")
	}
}

func TestDayRange(t *testing.T) {
	from, to, err := DayRange("2024-03-10", "America/Sao_Paulo")
	if err != nil {
		t.Fatalf("DayRange: %v", err)
	}

	wantFrom := time.Date(2024, 3, 10, 3, 0, 0, 0, time.UTC)
	if !from.Equal(wantFrom) {
		t.Errorf("from = %v, want %v", from.UTC(), wantFrom)
	}
	if to.Sub(from) != 24*time.Hour {
		t.Errorf("range = %v, want 24h", to.Sub(from))
	}
}

func TestDayRangeRejectsBadDate(t *testing.T) {
	if _, _, err := DayRange("10/03/2024", "UTC"); err == nil {
		t.Fatal("expected error")
	}
}
