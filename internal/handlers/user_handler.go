package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/salon-pos/internal/audit"
	"github.com/BruksfildServices01/salon-pos/internal/auth"
	"github.com/BruksfildServices01/salon-pos/internal/domain"
	"github.com/BruksfildServices01/salon-pos/internal/httperr"
	"github.com/BruksfildServices01/salon-pos/internal/httpresp"
	"github.com/BruksfildServices01/salon-pos/internal/models"
	"github.com/BruksfildServices01/salon-pos/internal/patch"
	"github.com/BruksfildServices01/salon-pos/internal/validators"
)

const minPasswordLen = 6

var validate = validator.New()

type UserHandler struct {
	users domain.UserRepository
	audit *audit.Dispatcher
}

func NewUserHandler(users domain.UserRepository, audit *audit.Dispatcher) *UserHandler {
	return &UserHandler{users: users, audit: audit}
}

// --------- Requests ---------

type CreateUserRequest struct {
	SalonID        uint     `json:"salonId" binding:"required"`
	Name           string   `json:"name" binding:"required"`
	Email          string   `json:"email" binding:"required,email"`
	Phone          *string  `json:"phone"`
	Role           string   `json:"role" binding:"required"`
	Password       string   `json:"password" binding:"required,min=6"`
	CommissionRate *float64 `json:"commissionRate" binding:"omitempty,gte=0"`
}

type UpdateUserRequest struct {
	SalonID        patch.Field[uint]    `json:"salonId"`
	Name           patch.Field[string]  `json:"name"`
	Email          patch.Field[string]  `json:"email"`
	Phone          patch.Field[string]  `json:"phone"`
	Role           patch.Field[string]  `json:"role"`
	Password       patch.Field[string]  `json:"password"`
	CommissionRate patch.Field[float64] `json:"commissionRate"`
}

func (r UpdateUserRequest) changes() (domain.Changes, error) {
	if err := firstErr(
		notNull(r.SalonID, "salonId"),
		notNull(r.Name, "name"),
		notNull(r.Email, "email"),
		notNull(r.Role, "role"),
		notNull(r.Password, "password"),
		notNull(r.CommissionRate, "commissionRate"),
	); err != nil {
		return nil, err
	}

	changes := domain.Changes{}

	if r.SalonID.Has() {
		if r.SalonID.Value == 0 {
			return nil, httperr.Invalid("validation_failed", "salonId must be a positive integer.")
		}
		changes["salon_id"] = r.SalonID.Value
	}

	if r.Name.Has() {
		if strings.TrimSpace(r.Name.Value) == "" {
			return nil, httperr.Invalid("validation_failed", "name cannot be empty.")
		}
		changes["name"] = strings.TrimSpace(r.Name.Value)
	}

	if r.Email.Has() {
		email := validators.NormalizeEmail(r.Email.Value)
		if err := validate.Var(email, "required,email"); err != nil {
			return nil, httperr.Invalid("validation_failed", "email must be a valid email address.")
		}
		changes["email"] = email
	}

	if r.Phone.Set {
		phone, err := normalizeOptionalPhone(r.Phone)
		if err != nil {
			return nil, err
		}
		changes["phone"] = phone
	}

	if r.Role.Has() {
		if strings.TrimSpace(r.Role.Value) == "" {
			return nil, httperr.Invalid("validation_failed", "role cannot be empty.")
		}
		changes["role"] = strings.TrimSpace(r.Role.Value)
	}

	if r.CommissionRate.Has() {
		if r.CommissionRate.Value < 0 {
			return nil, httperr.Invalid("validation_failed", "commissionRate must be at least 0.")
		}
		changes["commission_rate"] = r.CommissionRate.Value
	}

	return changes, nil
}

// normalizeOptionalPhone returns nil for an explicit null.
func normalizeOptionalPhone(f patch.Field[string]) (any, error) {
	if f.Null {
		return nil, nil
	}
	phone, err := validators.NormalizePhone(f.Value)
	if err != nil {
		return nil, httperr.Invalid("invalid_phone", "phone must be a valid international number.")
	}
	return phone, nil
}

// --------- Handlers ---------

func (h *UserHandler) List(c *gin.Context) {
	salonID, err := queryID(c, "salonId")
	if err != nil {
		httperr.Validation(c, err)
		return
	}

	var filter domain.Filter
	if salonID != nil {
		filter.Eq("salon_id", *salonID)
	}

	users, err := h.users.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "user", err)
		return
	}
	httpresp.List(c, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "user", err)
		return
	}
	httpresp.OK(c, user)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	var phone *string
	if req.Phone != nil {
		normalized, err := validators.NormalizePhone(*req.Phone)
		if err != nil {
			httperr.BadRequest(c, "invalid_phone", "phone must be a valid international number.")
			return
		}
		phone = &normalized
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(c, "user", err)
		return
	}

	user := models.User{
		SalonID:      req.SalonID,
		Name:         strings.TrimSpace(req.Name),
		Email:        validators.NormalizeEmail(req.Email),
		Phone:        phone,
		Role:         strings.TrimSpace(req.Role),
		PasswordHash: hash,
	}
	if req.CommissionRate != nil {
		user.CommissionRate = *req.CommissionRate
	}

	if err := h.users.Create(c.Request.Context(), &user); err != nil {
		respondError(c, "user", err)
		return
	}

	dispatchAudit(c, h.audit, &user.SalonID, "user.created", "user", user.ID, gin.H{"role": user.Role})
	httpresp.Created(c, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	changes, err := req.changes()
	if err != nil {
		httperr.Validation(c, err)
		return
	}

	if req.Password.Has() {
		if len(req.Password.Value) < minPasswordLen {
			httperr.BadRequest(c, "validation_failed", "password must be at least 6 characters.")
			return
		}
		hash, err := auth.HashPassword(req.Password.Value)
		if err != nil {
			respondError(c, "user", err)
			return
		}
		changes["password_hash"] = hash
	}

	user, err := h.users.Update(c.Request.Context(), id, changes)
	if err != nil {
		respondError(c, "user", err)
		return
	}

	dispatchAudit(c, h.audit, &user.SalonID, "user.updated", "user", user.ID, gin.H{"fields": changedFields(changes)})
	httpresp.OK(c, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "user", err)
		return
	}

	dispatchAudit(c, h.audit, nil, "user.deleted", "user", id, nil)
	httpresp.Message(c, "User deleted successfully")
}
