package handlers

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-pos/internal/domain"
	"github.com/BruksfildServices01/salon-pos/internal/httperr"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	logs domain.AuditLogRepository
}

func NewAuditLogsHandler(logs domain.AuditLogRepository) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	salonID, err := queryID(c, "salonId")
	if err != nil {
		httperr.Validation(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	// (page-1)*limit must fit in an int
	if page > math.MaxInt/limit {
		httperr.BadRequest(c, "invalid_query", "page is out of range.")
		return
	}

	q := domain.AuditQuery{
		SalonID: salonID,
		Action:  c.Query("action"),
		Entity:  c.Query("entity"),
		Limit:   limit,
		Offset:  (page - 1) * limit,
	}

	// --------------------------------------------------
	// Date bounds (UTC days, "to" inclusive)
	// --------------------------------------------------

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(time.DateOnly, fromStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "from must be formatted as YYYY-MM-DD.")
			return
		}
		q.From = &from
	}

	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse(time.DateOnly, toStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "to must be formatted as YYYY-MM-DD.")
			return
		}
		end := to.AddDate(0, 0, 1)
		q.To = &end
	}

	logs, total, err := h.logs.Query(c.Request.Context(), q)
	if err != nil {
		respondError(c, "audit_log", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
