package domain

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-pos/internal/models"
)

// Changes is a write-set keyed by column name. Only the keys present are
// written; a nil value stores NULL.
type Changes map[string]any

type TimeRange struct {
	Column string
	From   time.Time
	To     time.Time
}

// Filter narrows a listing. Equal matches columns by equality, Range keeps rows
// with From <= column < To.
type Filter struct {
	Equal map[string]any
	Range *TimeRange
}

func (f *Filter) Eq(column string, value any) {
	if f.Equal == nil {
		f.Equal = map[string]any{}
	}
	f.Equal[column] = value
}

type Repository[T any] interface {
	List(ctx context.Context, filter Filter) ([]T, error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, row *T) error
	Update(ctx context.Context, id uint, changes Changes) (*T, error)
	// UpdateIf applies changes only while every column in expect still holds
	// its value. It returns ErrStaleRecord when the row exists but no longer
	// matches.
	UpdateIf(ctx context.Context, id uint, expect map[string]any, changes Changes) (*T, error)
	Delete(ctx context.Context, id uint) error
}

type UserRepository interface {
	Repository[models.User]
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type AuditQuery struct {
	SalonID *uint
	Action  string
	Entity  string
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

type AuditLogRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
	Query(ctx context.Context, q AuditQuery) ([]models.AuditLog, int64, error)
}
