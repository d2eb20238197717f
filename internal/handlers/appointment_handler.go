package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-pos/internal/audit"
	"github.com/BruksfildServices01/salon-pos/internal/domain"
	"github.com/BruksfildServices01/salon-pos/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-pos/internal/httperr"
	"github.com/BruksfildServices01/salon-pos/internal/httpresp"
	"github.com/BruksfildServices01/salon-pos/internal/middleware"
	"github.com/BruksfildServices01/salon-pos/internal/models"
	"github.com/BruksfildServices01/salon-pos/internal/patch"
	ucAppointment "github.com/BruksfildServices01/salon-pos/internal/usecase/appointment"
	"github.com/BruksfildServices01/salon-pos/internal/validators"
)

type AppointmentHandler struct {
	appointments domain.Repository[models.Appointment]
	salons       domain.Repository[models.Salon]
	changeStatus *ucAppointment.ChangeStatus
	audit        *audit.Dispatcher
}

func NewAppointmentHandler(
	appointments domain.Repository[models.Appointment],
	salons domain.Repository[models.Salon],
	changeStatus *ucAppointment.ChangeStatus,
	audit *audit.Dispatcher,
) *AppointmentHandler {
	return &AppointmentHandler{
		appointments: appointments,
		salons:       salons,
		changeStatus: changeStatus,
		audit:        audit,
	}
}

// --------- Requests ---------

type CreateAppointmentRequest struct {
	SalonID         uint       `json:"salonId" binding:"required"`
	StaffID         *uint      `json:"staffId"`
	ServiceID       *uint      `json:"serviceId"`
	CustomerName    string     `json:"customerName" binding:"required"`
	CustomerPhone   *string    `json:"customerPhone"`
	AppointmentTime *time.Time `json:"appointmentTime"`
	Status          string     `json:"status" binding:"omitempty,oneof=scheduled completed cancelled no_show"`
	PaymentStatus   string     `json:"paymentStatus" binding:"omitempty,oneof=unpaid partial paid"`
}

type ChangeStatusRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

type UpdateAppointmentRequest struct {
	SalonID         patch.Field[uint]      `json:"salonId"`
	StaffID         patch.Field[uint]      `json:"staffId"`
	ServiceID       patch.Field[uint]      `json:"serviceId"`
	CustomerName    patch.Field[string]    `json:"customerName"`
	CustomerPhone   patch.Field[string]    `json:"customerPhone"`
	AppointmentTime patch.Field[time.Time] `json:"appointmentTime"`
	Status          patch.Field[string]    `json:"status"`
	PaymentStatus   patch.Field[string]    `json:"paymentStatus"`
}

func (r UpdateAppointmentRequest) changes() (domain.Changes, error) {
	if err := firstErr(
		notNull(r.SalonID, "salonId"),
		notNull(r.CustomerName, "customerName"),
		notNull(r.Status, "status"),
		notNull(r.PaymentStatus, "paymentStatus"),
	); err != nil {
		return nil, err
	}

	switch {
	case r.SalonID.Has() && r.SalonID.Value == 0:
		return nil, httperr.Invalid("validation_failed", "salonId must be a positive integer.")
	case r.CustomerName.Has() && strings.TrimSpace(r.CustomerName.Value) == "":
		return nil, httperr.Invalid("validation_failed", "customerName cannot be empty.")
	case r.Status.Has() && !appointment.IsValidStatus(r.Status.Value):
		return nil, httperr.Invalid("invalid_status", "status must be one of [scheduled completed cancelled no_show].")
	case r.PaymentStatus.Has() && !appointment.IsValidPaymentStatus(r.PaymentStatus.Value):
		return nil, httperr.Invalid("invalid_payment_status", "paymentStatus must be one of [unpaid partial paid].")
	}

	changes := domain.Changes{}
	patch.Put(changes, "salon_id", r.SalonID)
	patch.Put(changes, "staff_id", r.StaffID)
	patch.Put(changes, "service_id", r.ServiceID)
	patch.PutMapped(changes, "customer_name", r.CustomerName, func(v string) any { return strings.TrimSpace(v) })
	patch.PutMapped(changes, "appointment_time", r.AppointmentTime, func(v time.Time) any { return v.UTC() })
	patch.Put(changes, "status", r.Status)
	patch.Put(changes, "payment_status", r.PaymentStatus)

	if r.CustomerPhone.Set {
		phone, err := normalizeOptionalPhone(r.CustomerPhone)
		if err != nil {
			return nil, err
		}
		changes["customer_phone"] = phone
	}

	return changes, nil
}

// --------- Handlers ---------

// List filters by salonId, staffId, status and date (YYYY-MM-DD, in the
// salon's timezone; requires salonId).
func (h *AppointmentHandler) List(c *gin.Context) {
	salonID, err := queryID(c, "salonId")
	if err != nil {
		httperr.Validation(c, err)
		return
	}
	staffID, err := queryID(c, "staffId")
	if err != nil {
		httperr.Validation(c, err)
		return
	}

	var filter domain.Filter
	if salonID != nil {
		filter.Eq("salon_id", *salonID)
	}
	if staffID != nil {
		filter.Eq("staff_id", *staffID)
	}

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		if !appointment.IsValidStatus(status) {
			httperr.BadRequest(c, "invalid_status", "status must be one of [scheduled completed cancelled no_show].")
			return
		}
		filter.Eq("status", status)
	}

	if date := strings.TrimSpace(c.Query("date")); date != "" {
		if salonID == nil {
			httperr.BadRequest(c, "invalid_query", "date requires salonId.")
			return
		}
		rng, err := salonDayRange(c.Request.Context(), h.salons, *salonID, date)
		if err != nil {
			respondError(c, "salon", err)
			return
		}
		filter.Range = rng
	}

	appointments, err := h.appointments.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "appointment", err)
		return
	}
	httpresp.List(c, appointments)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ap, err := h.appointments.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "appointment", err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		httperr.BadRequest(c, "validation_failed", "customerName cannot be empty.")
		return
	}

	var phone *string
	if req.CustomerPhone != nil {
		normalized, err := validators.NormalizePhone(*req.CustomerPhone)
		if err != nil {
			httperr.BadRequest(c, "invalid_phone", "customerPhone must be a valid international number.")
			return
		}
		phone = &normalized
	}

	status := appointment.Status(req.Status)
	if status == "" {
		status = appointment.InitialStatus()
	}
	paymentStatus := appointment.PaymentStatus(req.PaymentStatus)
	if paymentStatus == "" {
		paymentStatus = appointment.InitialPaymentStatus()
	}

	ap := models.Appointment{
		SalonID:         req.SalonID,
		StaffID:         req.StaffID,
		ServiceID:       req.ServiceID,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerPhone:   phone,
		AppointmentTime: utcPtr(req.AppointmentTime),
		Status:          string(status),
		PaymentStatus:   string(paymentStatus),
	}

	if err := h.appointments.Create(c.Request.Context(), &ap); err != nil {
		respondError(c, "appointment", err)
		return
	}

	dispatchAudit(c, h.audit, &ap.SalonID, "appointment.created", "appointment", ap.ID, gin.H{
		"status":          ap.Status,
		"appointmentTime": ap.AppointmentTime,
	})
	httpresp.Created(c, ap)
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	changes, err := req.changes()
	if err != nil {
		httperr.Validation(c, err)
		return
	}

	ap, err := h.appointments.Update(c.Request.Context(), id, changes)
	if err != nil {
		respondError(c, "appointment", err)
		return
	}

	dispatchAudit(c, h.audit, &ap.SalonID, "appointment.updated", "appointment", ap.ID, gin.H{"fields": changedFields(changes)})
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.appointments.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "appointment", err)
		return
	}

	dispatchAudit(c, h.audit, nil, "appointment.deleted", "appointment", id, nil)
	httpresp.Message(c, "Appointment deleted successfully")
}

// --------- Status transitions ---------

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, appointment.StatusCompleted)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.transition(c, appointment.StatusCancelled)
}

func (h *AppointmentHandler) NoShow(c *gin.Context) {
	h.transition(c, appointment.StatusNoShow)
}

func (h *AppointmentHandler) transition(c *gin.Context, to appointment.Status) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	// the body is optional
	var req ChangeStatusRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.Validation(c, err)
			return
		}
	}

	ap, err := h.changeStatus.Execute(c.Request.Context(), ucAppointment.ChangeStatusInput{
		AppointmentID: id,
		Status:        to,
		UserID:        middleware.GetUserID(c),
		Reason:        strings.TrimSpace(req.Reason),
	})
	if errors.Is(err, appointment.ErrInvalidTransition) {
		httperr.Conflict(c, "invalid_status_transition", "Only scheduled appointments can change status.")
		return
	}
	if err != nil {
		respondError(c, "appointment", err)
		return
	}
	httpresp.OK(c, ap)
}
