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
)

type ServiceHandler struct {
	services domain.Repository[models.Service]
	audit    *audit.Dispatcher
}

func NewServiceHandler(services domain.Repository[models.Service], audit *audit.Dispatcher) *ServiceHandler {
	return &ServiceHandler{services: services, audit: audit}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	SalonID     uint     `json:"salonId" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	DurationMin int      `json:"durationMin" binding:"required,min=1"`
}

type UpdateServiceRequest struct {
	SalonID     patch.Field[uint]    `json:"salonId"`
	Name        patch.Field[string]  `json:"name"`
	Description patch.Field[string]  `json:"description"`
	Price       patch.Field[float64] `json:"price"`
	DurationMin patch.Field[int]     `json:"durationMin"`
}

func (r UpdateServiceRequest) changes() (domain.Changes, error) {
	if err := firstErr(
		notNull(r.SalonID, "salonId"),
		notNull(r.Name, "name"),
		notNull(r.Price, "price"),
		notNull(r.DurationMin, "durationMin"),
	); err != nil {
		return nil, err
	}

	switch {
	case r.SalonID.Has() && r.SalonID.Value == 0:
		return nil, httperr.Invalid("validation_failed", "salonId must be a positive integer.")
	case r.Name.Has() && strings.TrimSpace(r.Name.Value) == "":
		return nil, httperr.Invalid("validation_failed", "name cannot be empty.")
	case r.Price.Has() && r.Price.Value < 0:
		return nil, httperr.Invalid("validation_failed", "price must be at least 0.")
	case r.DurationMin.Has() && r.DurationMin.Value < 1:
		return nil, httperr.Invalid("validation_failed", "durationMin must be at least 1.")
	}

	changes := domain.Changes{}
	patch.Put(changes, "salon_id", r.SalonID)
	patch.PutMapped(changes, "name", r.Name, func(v string) any { return strings.TrimSpace(v) })
	patch.Put(changes, "description", r.Description)
	patch.Put(changes, "price", r.Price)
	patch.Put(changes, "duration_min", r.DurationMin)
	return changes, nil
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	salonID, err := queryID(c, "salonId")
	if err != nil {
		httperr.Validation(c, err)
		return
	}

	var filter domain.Filter
	if salonID != nil {
		filter.Eq("salon_id", *salonID)
	}

	services, err := h.services.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "service", err)
		return
	}
	httpresp.List(c, services)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	service, err := h.services.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "service", err)
		return
	}
	httpresp.OK(c, service)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	service := models.Service{
		SalonID:     req.SalonID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       *req.Price,
		DurationMin: req.DurationMin,
	}

	if err := h.services.Create(c.Request.Context(), &service); err != nil {
		respondError(c, "service", err)
		return
	}

	dispatchAudit(c, h.audit, &service.SalonID, "service.created", "service", service.ID, gin.H{
		"name":  service.Name,
		"price": service.Price,
	})
	httpresp.Created(c, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	changes, err := req.changes()
	if err != nil {
		httperr.Validation(c, err)
		return
	}

	service, err := h.services.Update(c.Request.Context(), id, changes)
	if err != nil {
		respondError(c, "service", err)
		return
	}

	dispatchAudit(c, h.audit, &service.SalonID, "service.updated", "service", service.ID, gin.H{"fields": changedFields(changes)})
	httpresp.OK(c, service)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.services.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "service", err)
		return
	}

	dispatchAudit(c, h.audit, nil, "service.deleted", "service", id, nil)
	httpresp.Message(c, "Service deleted successfully")
}
