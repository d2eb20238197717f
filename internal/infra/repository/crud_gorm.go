package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/salon-pos/internal/domain"
	"github.com/BruksfildServices01/salon-pos/internal/models"
)

// GormRepository implements domain.Repository for any gorm model whose
// primary key column is id.
type GormRepository[T any] struct {
	db   *gorm.DB
	name string
}

func NewGormRepository[T any](db *gorm.DB, name string) *GormRepository[T] {
	return &GormRepository[T]{db: db, name: name}
}

func (r *GormRepository[T]) List(ctx context.Context, filter domain.Filter) ([]T, error) {
	q := r.db.WithContext(ctx).Model(new(T))

	for column, value := range filter.Equal {
		q = q.Where(clause.Eq{Column: clause.Column{Name: column}, Value: value})
	}

	if rng := filter.Range; rng != nil {
		col := clause.Column{Name: rng.Column}
		q = q.Where(clause.Gte{Column: col, Value: rng.From}).
			Where(clause.Lt{Column: col, Value: rng.To})
	}

	rows := make([]T, 0)
	if err := q.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, translate("list "+r.name, err)
	}
	return rows, nil
}

func (r *GormRepository[T]) Get(ctx context.Context, id uint) (*T, error) {
	var row T
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, translate("get "+r.name, err)
	}
	return &row, nil
}

func (r *GormRepository[T]) Create(ctx context.Context, row *T) error {
	return translate("create "+r.name, r.db.WithContext(ctx).Create(row).Error)
}

// Update writes only the columns in changes, then reloads the row.
func (r *GormRepository[T]) Update(ctx context.Context, id uint, changes domain.Changes) (*T, error) {
	return r.UpdateIf(ctx, id, nil, changes)
}

// UpdateIf adds the expect columns to the WHERE clause, so the check and the
// write happen in one statement.
func (r *GormRepository[T]) UpdateIf(
	ctx context.Context,
	id uint,
	expect map[string]any,
	changes domain.Changes,
) (*T, error) {
	if len(changes) == 0 {
		return r.Get(ctx, id)
	}

	q := r.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ?", id)
	for column, value := range expect {
		q = q.Where(clause.Eq{Column: clause.Column{Name: column}, Value: value})
	}

	res := q.Updates(map[string]any(changes))
	if res.Error != nil {
		return nil, translate("update "+r.name, res.Error)
	}
	if res.RowsAffected == 0 {
		if len(expect) == 0 {
			return nil, fmt.Errorf("update %s: %w", r.name, domain.ErrNotFound)
		}
		// tell a missing row apart from one that moved on
		if _, err := r.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("update %s: %w", r.name, domain.ErrStaleRecord)
	}

	return r.Get(ctx, id)
}

func (r *GormRepository[T]) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return translate("delete "+r.name, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete %s: %w", r.name, domain.ErrNotFound)
	}
	return nil
}

// Compile-time check
var _ domain.Repository[models.Salon] = (*GormRepository[models.Salon])(nil)
