package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-pos/internal/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translate maps store errors onto the domain sentinels. Anything it does not
// recognise is returned wrapped with op.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w", op, &domain.ConflictError{Constraint: pgErr.ConstraintName})
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %w (%s)", op, domain.ErrInvalidReference, pgErr.ConstraintName)
		}
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, &domain.ConflictError{})
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: %w", op, domain.ErrInvalidReference)
	}

	return fmt.Errorf("%s: %w", op, err)
}
