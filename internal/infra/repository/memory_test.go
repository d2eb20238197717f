package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BruksfildServices01/salon-pos/internal/domain"
	"github.com/BruksfildServices01/salon-pos/internal/models"
)

func strPtr(s string) *string { return &s }

func TestMemoryRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository[models.Service]("service")

	first := models.Service{SalonID: 1, Name: "Haircut", Price: 20, DurationMin: 30}
	second := models.Service{SalonID: 2, Name: "Color", Price: 80, DurationMin: 90}
	for _, s := range []*models.Service{&first, &second} {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if first.ID != 1 || second.ID != 2 || first.CreatedAt.IsZero() {
		t.Fatalf("ids/timestamps not assigned: %+v %+v", first, second)
	}

	var f domain.Filter
	f.Eq("salon_id", uint(2))
	rows, err := repo.List(ctx, f)
	if err != nil || len(rows) != 1 || rows[0].Name != "Color" {
		t.Fatalf("List(salon_id=2) = %+v, %v", rows, err)
	}

	updated, err := repo.Update(ctx, first.ID, domain.Changes{"price": 42.0, "description": "Wash and cut"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Price != 42 || updated.Name != "Haircut" || updated.Description == nil || *updated.Description != "Wash and cut" {
		t.Fatalf("updated = %+v", updated)
	}

	updated, err = repo.Update(ctx, first.ID, domain.Changes{"description": nil})
	if err != nil || updated.Description != nil {
		t.Fatalf("clearing description: %+v, %v", updated, err)
	}

	if _, err := repo.Update(ctx, first.ID, domain.Changes{"nope": 1}); err == nil {
		t.Error("unknown column must fail")
	}

	if err := repo.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, first.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get after delete: %v", err)
	}
	if err := repo.Delete(ctx, first.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second Delete: %v", err)
	}
	if _, err := repo.Update(ctx, 77, domain.Changes{"name": "x"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Update missing: %v", err)
	}
}

func TestMemoryRepositoryListIsOrderedAndNeverNil(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository[models.Salon]("salon")

	rows, err := repo.List(ctx, domain.Filter{})
	if err != nil || rows == nil || len(rows) != 0 {
		t.Fatalf("empty List = %#v, %v", rows, err)
	}

	for _, name := range []string{"a", "b", "c", "d"} {
		if err := repo.Create(ctx, &models.Salon{Name: name}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	rows, _ = repo.List(ctx, domain.Filter{})
	for i := 1; i < len(rows); i++ {
		if rows[i-1].ID >= rows[i].ID {
			t.Fatalf("not ordered by id: %+v", rows)
		}
	}
}

func TestMemoryUserRepositoryUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	ana := models.User{SalonID: 1, Name: "Ana", Email: "ana@x.test", Phone: strPtr("+5511"), Role: "owner"}
	if err := repo.Create(ctx, &ana); err != nil {
		t.Fatalf("Create: %v", err)
	}

	err := repo.Create(ctx, &models.User{SalonID: 1, Name: "A2", Email: "ana@x.test", Role: "staff"})
	if got := domain.ConflictConstraint(err); got != "idx_users_email" {
		t.Fatalf("constraint = %q (err %v)", got, err)
	}

	err = repo.Create(ctx, &models.User{SalonID: 1, Name: "Bia", Email: "bia@x.test", Phone: strPtr("+5511"), Role: "staff"})
	if got := domain.ConflictConstraint(err); got != "idx_users_phone" {
		t.Fatalf("constraint = %q (err %v)", got, err)
	}

	// NULL phones never collide
	for _, email := range []string{"c@x.test", "d@x.test"} {
		if err := repo.Create(ctx, &models.User{SalonID: 1, Name: "N", Email: email, Role: "staff"}); err != nil {
			t.Fatalf("Create %s: %v", email, err)
		}
	}

	found, err := repo.FindByEmail(ctx, "ana@x.test")
	if err != nil || found.ID != ana.ID {
		t.Fatalf("FindByEmail = %+v, %v", found, err)
	}
	if _, err := repo.FindByEmail(ctx, "zz@x.test"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("FindByEmail missing: %v", err)
	}

	// a row does not conflict with itself
	if _, err := repo.Update(ctx, ana.ID, domain.Changes{"email": "ana@x.test", "name": "Ana B"}); err != nil {
		t.Fatalf("self update: %v", err)
	}
}

func TestMemoryRepositoryTimeRange(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository[models.Appointment]("appointment")

	base := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	times := []*time.Time{nil, ptrTime(base.Add(-time.Minute)), ptrTime(base), ptrTime(base.Add(23 * time.Hour)), ptrTime(base.Add(24 * time.Hour))}
	for _, at := range times {
		if err := repo.Create(ctx, &models.Appointment{SalonID: 1, CustomerName: "x", AppointmentTime: at}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	f := domain.Filter{Range: &domain.TimeRange{Column: "appointment_time", From: base, To: base.Add(24 * time.Hour)}}
	f.Eq("salon_id", 1)
	rows, err := repo.List(ctx, f)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 2 || rows[0].ID != 3 || rows[1].ID != 4 {
		t.Fatalf("rows = %+v", rows)
	}
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestMemoryAuditLogRepositoryQuery(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAuditLogRepository()
	salon := uint(1)
	other := uint(2)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	logs := []models.AuditLog{
		{SalonID: &salon, Action: "user.created", Entity: "user", CreatedAt: base},
		{SalonID: &salon, Action: "user.updated", Entity: "user", CreatedAt: base.Add(time.Hour)},
		{SalonID: &other, Action: "user.created", Entity: "user", CreatedAt: base.Add(2 * time.Hour)},
		{SalonID: &salon, Action: "salon.updated", Entity: "salon", CreatedAt: base.AddDate(0, 0, 1)},
	}
	for i := range logs {
		if err := repo.Create(ctx, &logs[i]); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, total, err := repo.Query(ctx, domain.AuditQuery{SalonID: &salon, Entity: "user", Limit: 1})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if total != 2 || len(got) != 1 || got[0].Action != "user.updated" {
		t.Fatalf("total=%d got=%+v", total, got)
	}

	to := base.AddDate(0, 0, 1)
	_, total, _ = repo.Query(ctx, domain.AuditQuery{To: &to})
	if total != 3 {
		t.Fatalf("total before %v = %d, want 3", to, total)
	}

	got, _, _ = repo.Query(ctx, domain.AuditQuery{Offset: 10, Limit: 5})
	if len(got) != 0 {
		t.Fatalf("offset past end returned %d rows", len(got))
	}

	got, _, err = repo.Query(ctx, domain.AuditQuery{Offset: -50, Limit: 2})
	if err != nil || len(got) != 2 {
		t.Fatalf("negative offset: got %d rows, err = %v", len(got), err)
	}
}

func TestMemoryRepositoryUpdateIf(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository[models.Appointment]("appointment")
	ap := models.Appointment{SalonID: 1, CustomerName: "Jane", Status: "scheduled"}
	if err := repo.Create(ctx, &ap); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.UpdateIf(ctx, ap.ID, map[string]any{"status": "scheduled"}, domain.Changes{"status": "completed"})
	if err != nil || got.Status != "completed" {
		t.Fatalf("UpdateIf = %+v, %v", got, err)
	}

	_, err = repo.UpdateIf(ctx, ap.ID, map[string]any{"status": "scheduled"}, domain.Changes{"status": "cancelled"})
	if !errors.Is(err, domain.ErrStaleRecord) {
		t.Fatalf("stale UpdateIf: err = %v", err)
	}
	if stored, _ := repo.Get(ctx, ap.ID); stored.Status != "completed" {
		t.Errorf("status = %q after rejected update", stored.Status)
	}

	_, err = repo.UpdateIf(ctx, 99, map[string]any{"status": "scheduled"}, domain.Changes{"status": "cancelled"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing row: err = %v", err)
	}
}
