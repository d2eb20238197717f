package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-pos/internal/domain"
)

func TestTranslate(t *testing.T) {
	if translate("op", nil) != nil {
		t.Fatal("nil must stay nil")
	}

	if err := translate("get user", gorm.ErrRecordNotFound); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("record not found: %v", err)
	}

	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_phone"})
	if got := domain.ConflictConstraint(translate("create user", unique)); got != "idx_users_phone" {
		t.Errorf("unique violation constraint = %q", got)
	}

	fk := &pgconn.PgError{Code: "23503", ConstraintName: "fk_users_salon"}
	if err := translate("create user", fk); !errors.Is(err, domain.ErrInvalidReference) {
		t.Errorf("fk violation: %v", err)
	}

	if err := translate("create user", gorm.ErrDuplicatedKey); !domain.IsConflict(err) {
		t.Errorf("duplicated key: %v", err)
	}
	if err := translate("create user", gorm.ErrForeignKeyViolated); !errors.Is(err, domain.ErrInvalidReference) {
		t.Errorf("foreign key violated: %v", err)
	}

	other := errors.New("connection reset")
	err := translate("list salons", other)
	if !errors.Is(err, other) || errors.Is(err, domain.ErrNotFound) || domain.IsConflict(err) {
		t.Errorf("unexpected translation: %v", err)
	}
}
