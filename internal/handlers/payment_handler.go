package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-pos/internal/audit"
	"github.com/BruksfildServices01/salon-pos/internal/domain"
	"github.com/BruksfildServices01/salon-pos/internal/domain/payment"
	"github.com/BruksfildServices01/salon-pos/internal/httperr"
	"github.com/BruksfildServices01/salon-pos/internal/httpresp"
	"github.com/BruksfildServices01/salon-pos/internal/middleware"
	"github.com/BruksfildServices01/salon-pos/internal/models"
	"github.com/BruksfildServices01/salon-pos/internal/patch"
	"github.com/BruksfildServices01/salon-pos/internal/receipts"
)

const receiptTimeout = 5 * time.Second

type PaymentHandler struct {
	payments domain.Repository[models.Payment]
	receipts receipts.Archiver
	audit    *audit.Dispatcher
}

// NewPaymentHandler builds the handler. archiver may be nil.
func NewPaymentHandler(
	payments domain.Repository[models.Payment],
	archiver receipts.Archiver,
	audit *audit.Dispatcher,
) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		receipts: archiver,
		audit:    audit,
	}
}

// --------- Requests ---------

type CreatePaymentRequest struct {
	AppointmentID uint     `json:"appointmentId" binding:"required"`
	Amount        *float64 `json:"amount" binding:"required,gte=0"`
	Method        string   `json:"method" binding:"required"`
	Status        string   `json:"status" binding:"omitempty,oneof=pending completed failed refunded"`
}

type UpdatePaymentRequest struct {
	AppointmentID patch.Field[uint]    `json:"appointmentId"`
	Amount        patch.Field[float64] `json:"amount"`
	Method        patch.Field[string]  `json:"method"`
	Status        patch.Field[string]  `json:"status"`
}

func (r UpdatePaymentRequest) changes() (domain.Changes, error) {
	if err := firstErr(
		notNull(r.AppointmentID, "appointmentId"),
		notNull(r.Amount, "amount"),
		notNull(r.Method, "method"),
		notNull(r.Status, "status"),
	); err != nil {
		return nil, err
	}

	switch {
	case r.AppointmentID.Has() && r.AppointmentID.Value == 0:
		return nil, httperr.Invalid("validation_failed", "appointmentId must be a positive integer.")
	case r.Amount.Has() && r.Amount.Value < 0:
		return nil, httperr.Invalid("validation_failed", "amount must be at least 0.")
	case r.Method.Has() && strings.TrimSpace(r.Method.Value) == "":
		return nil, httperr.Invalid("validation_failed", "method cannot be empty.")
	case r.Status.Has() && !payment.IsValidStatus(r.Status.Value):
		return nil, httperr.Invalid("invalid_status", "status must be one of [pending completed failed refunded].")
	}

	changes := domain.Changes{}
	patch.Put(changes, "appointment_id", r.AppointmentID)
	patch.Put(changes, "amount", r.Amount)
	patch.PutMapped(changes, "method", r.Method, func(v string) any { return strings.TrimSpace(v) })
	patch.Put(changes, "status", r.Status)
	return changes, nil
}

// --------- Handlers ---------

func (h *PaymentHandler) List(c *gin.Context) {
	appointmentID, err := queryID(c, "appointmentId")
	if err != nil {
		httperr.Validation(c, err)
		return
	}

	var filter domain.Filter
	if appointmentID != nil {
		filter.Eq("appointment_id", *appointmentID)
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		if !payment.IsValidStatus(status) {
			httperr.BadRequest(c, "invalid_status", "status must be one of [pending completed failed refunded].")
			return
		}
		filter.Eq("status", status)
	}

	payments, err := h.payments.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "payment", err)
		return
	}
	httpresp.List(c, payments)
}

func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	p, err := h.payments.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "payment", err)
		return
	}
	httpresp.OK(c, p)
}

func (h *PaymentHandler) Create(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}
	if strings.TrimSpace(req.Method) == "" {
		httperr.BadRequest(c, "validation_failed", "method cannot be empty.")
		return
	}

	status := payment.Status(req.Status)
	if status == "" {
		status = payment.InitialStatus()
	}

	p := models.Payment{
		AppointmentID: req.AppointmentID,
		Amount:        *req.Amount,
		Method:        strings.TrimSpace(req.Method),
		Status:        string(status),
	}

	if err := h.payments.Create(c.Request.Context(), &p); err != nil {
		respondError(c, "payment", err)
		return
	}

	if payment.NeedsReceipt(p.Status) {
		h.archiveReceipt(c, &p)
	}

	dispatchAudit(c, h.audit, nil, "payment.created", "payment", p.ID, gin.H{
		"appointmentId": p.AppointmentID,
		"amount":        p.Amount,
		"status":        p.Status,
	})
	httpresp.Created(c, p)
}

func (h *PaymentHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	changes, err := req.changes()
	if err != nil {
		httperr.Validation(c, err)
		return
	}

	p, err := h.payments.Update(c.Request.Context(), id, changes)
	if err != nil {
		respondError(c, "payment", err)
		return
	}

	if _, statusChanged := changes["status"]; statusChanged && payment.NeedsReceipt(p.Status) {
		h.archiveReceipt(c, p)
	}

	dispatchAudit(c, h.audit, nil, "payment.updated", "payment", p.ID, gin.H{"fields": changedFields(changes)})
	httpresp.OK(c, p)
}

func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.payments.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "payment", err)
		return
	}

	dispatchAudit(c, h.audit, nil, "payment.deleted", "payment", id, nil)
	httpresp.Message(c, "Payment deleted successfully")
}

// archiveReceipt is best-effort: a failure is logged and the request
// still succeeds.
func (h *PaymentHandler) archiveReceipt(c *gin.Context, p *models.Payment) {
	if h.receipts == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), receiptTimeout)
	defer cancel()

	if err := h.receipts.Archive(ctx, p); err != nil {
		middleware.Logger(c).Warn("receipt archive failed",
			zap.Uint("payment_id", p.ID),
			zap.Error(err),
		)
	}
}
