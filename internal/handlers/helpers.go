package handlers

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-pos/internal/audit"
	"github.com/BruksfildServices01/salon-pos/internal/domain"
	"github.com/BruksfildServices01/salon-pos/internal/httperr"
	"github.com/BruksfildServices01/salon-pos/internal/middleware"
	"github.com/BruksfildServices01/salon-pos/internal/patch"
)

// --------------------------------------------------
// Path and query parsing
// --------------------------------------------------

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "id must be a positive integer.")
		return 0, false
	}
	return uint(id), true
}

// queryID reads an optional positive integer query parameter.
func queryID(c *gin.Context, name string) (*uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, httperr.Invalid("invalid_query", fmt.Sprintf("%s must be a positive integer.", name))
	}
	v := uint(id)
	return &v, nil
}

// notNull rejects an explicit null for a required column.
func notNull[T any](f patch.Field[T], field string) error {
	if f.Set && f.Null {
		return httperr.Invalid("validation_failed", fmt.Sprintf("%s cannot be null.", field))
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// --------------------------------------------------
// Error mapping
// --------------------------------------------------

// respondError converts a use case or repository error into the JSON error
// body. entity names the resource for the not-found code.
func respondError(c *gin.Context, entity string, err error) {
	var ve httperr.ValidationError
	switch {
	case errors.As(err, &ve):
		httperr.Validation(c, err)
	case errors.Is(err, domain.ErrNotFound):
		httperr.NotFound(c, entity+"_not_found", fmt.Sprintf("%s not found.", capitalize(entity)))
	case domain.IsConflict(err):
		field := conflictField(domain.ConflictConstraint(err))
		httperr.Conflict(c, field+"_already_exists", fmt.Sprintf("A record with this %s already exists.", field))
	case errors.Is(err, domain.ErrStaleRecord):
		httperr.Conflict(c, entity+"_changed", fmt.Sprintf("%s was modified by another request.", capitalize(entity)))
	case errors.Is(err, domain.ErrInvalidReference):
		httperr.BadRequest(c, "invalid_reference", "A referenced record does not exist.")
	default:
		middleware.Logger(c).Error("request failed",
			zap.String("entity", entity),
			zap.Error(err),
		)
		httperr.Internal(c, "internal_error", "Internal server error.")
	}
}

// conflictField turns an index name such as idx_users_email into "email".
func conflictField(constraint string) string {
	switch {
	case strings.Contains(constraint, "email"):
		return "email"
	case strings.Contains(constraint, "phone"):
		return "phone"
	default:
		return "value"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// --------------------------------------------------
// Audit
// --------------------------------------------------

func dispatchAudit(
	c *gin.Context,
	d *audit.Dispatcher,
	salonID *uint,
	action string,
	entity string,
	entityID uint,
	meta any,
) {
	d.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   middleware.GetUserID(c),
		Action:   action,
		Entity:   entity,
		EntityID: &entityID,
		Metadata: meta,
	})
}

// changedFields lists the columns of a write-set for audit metadata.
func changedFields(changes domain.Changes) []string {
	fields := make([]string, 0, len(changes))
	for k := range changes {
		fields = append(fields, k)
	}
	slices.Sort(fields)
	return fields
}
