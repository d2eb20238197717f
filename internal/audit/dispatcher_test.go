package audit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-pos/internal/models"
)

type recordingSink struct {
	mu   sync.Mutex
	logs []models.AuditLog
	err  error
}

func (s *recordingSink) Create(_ context.Context, log *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.logs = append(s.logs, *log)
	return nil
}

func uintPtr(v uint) *uint { return &v }

func TestDispatcherWritesEvents(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(New(sink), zap.NewNop())

	d.Dispatch(Event{
		SalonID:  uintPtr(3),
		Action:   "salon.created",
		Entity:   "salon",
		EntityID: uintPtr(3),
		Metadata: map[string]any{"name": "Studio"},
	})
	d.Close()

	if len(sink.logs) != 1 {
		t.Fatalf("logs = %d, want 1", len(sink.logs))
	}
	got := sink.logs[0]
	if got.Action != "salon.created" || got.Entity != "salon" || *got.EntityID != 3 {
		t.Fatalf("unexpected log %+v", got)
	}
	if got.Metadata != `{"name":"Studio"}` {
		t.Fatalf("metadata = %q", got.Metadata)
	}
}

func TestDispatcherSurvivesSinkErrors(t *testing.T) {
	sink := &recordingSink{err: errors.New("db down")}
	d := NewDispatcher(New(sink), zap.NewNop())

	d.Dispatch(Event{Action: "user.deleted", Entity: "user"})
	d.Dispatch(Event{Action: "user.deleted", Entity: "user"})
	d.Close()

	if len(sink.logs) != 0 {
		t.Fatalf("logs = %d, want 0", len(sink.logs))
	}
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(Event{Action: "x"})
	d.Close()
}
