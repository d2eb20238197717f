package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/BruksfildServices01/salon-pos/internal/domain"
	"github.com/BruksfildServices01/salon-pos/internal/models"
)

type MemoryUserRepository struct {
	*MemoryRepository[models.User]
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		MemoryRepository: NewMemoryRepository[models.User]("user", "email", "phone"),
	}
}

func (r *MemoryUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.FindBy(ctx, "email", email)
}

type MemoryAuditLogRepository struct {
	mu     sync.Mutex
	logs   []models.AuditLog
	nextID uint
}

func NewMemoryAuditLogRepository() *MemoryAuditLogRepository {
	return &MemoryAuditLogRepository{}
}

func (r *MemoryAuditLogRepository) Create(_ context.Context, log *models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	log.ID = r.nextID
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	r.logs = append(r.logs, *log)
	return nil
}

func (r *MemoryAuditLogRepository) Query(
	_ context.Context,
	q domain.AuditQuery,
) ([]models.AuditLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]models.AuditLog, 0)
	for _, l := range r.logs {
		if q.SalonID != nil && (l.SalonID == nil || *l.SalonID != *q.SalonID) {
			continue
		}
		if q.Action != "" && l.Action != q.Action {
			continue
		}
		if q.Entity != "" && l.Entity != q.Entity {
			continue
		}
		if q.From != nil && l.CreatedAt.Before(*q.From) {
			continue
		}
		if q.To != nil && !l.CreatedAt.Before(*q.To) {
			continue
		}
		matched = append(matched, l)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := min(max(q.Offset, 0), len(matched))
	end := len(matched)
	if q.Limit > 0 {
		end = min(start+q.Limit, len(matched))
	}
	return matched[start:end], total, nil
}

// Compile-time checks
var (
	_ domain.Repository[models.Payment] = (*MemoryRepository[models.Payment])(nil)
	_ domain.UserRepository             = (*MemoryUserRepository)(nil)
	_ domain.AuditLogRepository         = (*MemoryAuditLogRepository)(nil)
)
