package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-pos/internal/domain"
	"github.com/BruksfildServices01/salon-pos/internal/models"
)

type AuditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) *AuditLogGormRepository {
	return &AuditLogGormRepository{db: db}
}

func (r *AuditLogGormRepository) Create(ctx context.Context, log *models.AuditLog) error {
	return translate("create audit log", r.db.WithContext(ctx).Create(log).Error)
}

func (r *AuditLogGormRepository) Query(
	ctx context.Context,
	q domain.AuditQuery,
) ([]models.AuditLog, int64, error) {

	filtered := func(tx *gorm.DB) *gorm.DB {
		if q.SalonID != nil {
			tx = tx.Where("salon_id = ?", *q.SalonID)
		}
		if q.Action != "" {
			tx = tx.Where("action = ?", q.Action)
		}
		if q.Entity != "" {
			tx = tx.Where("entity = ?", q.Entity)
		}
		if q.From != nil {
			tx = tx.Where("created_at >= ?", *q.From)
		}
		if q.To != nil {
			tx = tx.Where("created_at < ?", *q.To)
		}
		return tx
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Scopes(filtered).
		Count(&total).Error; err != nil {
		return nil, 0, translate("count audit logs", err)
	}

	logs := make([]models.AuditLog, 0)
	if err := r.db.WithContext(ctx).
		Scopes(filtered).
		Order("created_at DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&logs).Error; err != nil {
		return nil, 0, translate("list audit logs", err)
	}

	return logs, total, nil
}

// Compile-time check
var _ domain.AuditLogRepository = (*AuditLogGormRepository)(nil)
