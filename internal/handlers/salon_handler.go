package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-pos/internal/audit"
	"github.com/BruksfildServices01/salon-pos/internal/domain"
	"github.com/BruksfildServices01/salon-pos/internal/httperr"
	"github.com/BruksfildServices01/salon-pos/internal/httpresp"
	"github.com/BruksfildServices01/salon-pos/internal/models"
	"github.com/BruksfildServices01/salon-pos/internal/patch"
	"github.com/BruksfildServices01/salon-pos/internal/timezone"
)

type SalonHandler struct {
	salons domain.Repository[models.Salon]
	audit  *audit.Dispatcher
}

func NewSalonHandler(salons domain.Repository[models.Salon], audit *audit.Dispatcher) *SalonHandler {
	return &SalonHandler{salons: salons, audit: audit}
}

// --------- Requests ---------

type CreateSalonRequest struct {
	Name     string  `json:"name" binding:"required"`
	Location *string `json:"location"`
	Phone    *string `json:"phone"`
	Timezone string  `json:"timezone"`
}

type UpdateSalonRequest struct {
	Name     patch.Field[string] `json:"name"`
	Location patch.Field[string] `json:"location"`
	Phone    patch.Field[string] `json:"phone"`
	Timezone patch.Field[string] `json:"timezone"`
}

func (r UpdateSalonRequest) changes() (domain.Changes, error) {
	if err := notNull(r.Name, "name"); err != nil {
		return nil, err
	}
	if r.Name.Has() && strings.TrimSpace(r.Name.Value) == "" {
		return nil, httperr.Invalid("validation_failed", "name cannot be empty.")
	}
	if r.Timezone.Has() && !timezone.IsValid(r.Timezone.Value) {
		return nil, httperr.Invalid("invalid_timezone", "timezone must be an IANA zone name.")
	}

	changes := domain.Changes{}
	patch.Put(changes, "name", r.Name)
	patch.Put(changes, "location", r.Location)
	patch.Put(changes, "phone", r.Phone)
	if r.Timezone.Set && r.Timezone.Null {
		changes["timezone"] = timezone.DefaultTimezone
	} else {
		patch.Put(changes, "timezone", r.Timezone)
	}
	return changes, nil
}

// --------- Handlers ---------

func (h *SalonHandler) List(c *gin.Context) {
	salons, err := h.salons.List(c.Request.Context(), domain.Filter{})
	if err != nil {
		respondError(c, "salon", err)
		return
	}
	httpresp.List(c, salons)
}

func (h *SalonHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	salon, err := h.salons.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "salon", err)
		return
	}
	httpresp.OK(c, salon)
}

func (h *SalonHandler) Create(c *gin.Context) {
	var req CreateSalonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		httperr.BadRequest(c, "validation_failed", "name cannot be empty.")
		return
	}

	tz := req.Timezone
	if tz == "" {
		tz = timezone.DefaultTimezone
	}
	if !timezone.IsValid(tz) {
		httperr.BadRequest(c, "invalid_timezone", "timezone must be an IANA zone name.")
		return
	}

	salon := models.Salon{
		Name:     strings.TrimSpace(req.Name),
		Location: req.Location,
		Phone:    req.Phone,
		Timezone: tz,
	}

	if err := h.salons.Create(c.Request.Context(), &salon); err != nil {
		respondError(c, "salon", err)
		return
	}

	dispatchAudit(c, h.audit, &salon.ID, "salon.created", "salon", salon.ID, gin.H{"name": salon.Name})
	httpresp.Created(c, salon)
}

func (h *SalonHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateSalonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	changes, err := req.changes()
	if err != nil {
		httperr.Validation(c, err)
		return
	}

	salon, err := h.salons.Update(c.Request.Context(), id, changes)
	if err != nil {
		respondError(c, "salon", err)
		return
	}

	dispatchAudit(c, h.audit, &salon.ID, "salon.updated", "salon", salon.ID, gin.H{"fields": changedFields(changes)})
	httpresp.OK(c, salon)
}

func (h *SalonHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.salons.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "salon", err)
		return
	}

	dispatchAudit(c, h.audit, &id, "salon.deleted", "salon", id, nil)
	httpresp.Message(c, "Salon deleted successfully")
}
