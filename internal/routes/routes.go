package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-pos/internal/audit"
	"github.com/BruksfildServices01/salon-pos/internal/auth"
	"github.com/BruksfildServices01/salon-pos/internal/domain"
	"github.com/BruksfildServices01/salon-pos/internal/handlers"
	"github.com/BruksfildServices01/salon-pos/internal/httperr"
	"github.com/BruksfildServices01/salon-pos/internal/middleware"
	"github.com/BruksfildServices01/salon-pos/internal/models"
	"github.com/BruksfildServices01/salon-pos/internal/receipts"
	ucAppointment "github.com/BruksfildServices01/salon-pos/internal/usecase/appointment"
	ucAuth "github.com/BruksfildServices01/salon-pos/internal/usecase/auth"
)

// Deps are the long-lived collaborators shared by every handler. Receipts and
// Audit may be nil.
type Deps struct {
	Salons       domain.Repository[models.Salon]
	Users        domain.UserRepository
	Services     domain.Repository[models.Service]
	Appointments domain.Repository[models.Appointment]
	Payments     domain.Repository[models.Payment]
	AuditLogs    domain.AuditLogRepository

	Tokens   *auth.TokenCodec
	Revoker  auth.Revoker
	Receipts receipts.Archiver
	Audit    *audit.Dispatcher
}

type Policy int

const (
	Public Policy = iota
	Authenticated
)

func (p Policy) String() string {
	if p == Authenticated {
		return "authenticated"
	}
	return "public"
}

type Route struct {
	Method  string
	Path    string
	Policy  Policy
	Handler gin.HandlerFunc
}

// Table lists every route exactly once together with its access policy.
func Table(deps Deps) []Route {

	// ======================================================
	// USE CASES
	// ======================================================
	loginUC := ucAuth.NewLogin(deps.Users, deps.Tokens, deps.Audit)
	changeStatusUC := ucAppointment.NewChangeStatus(deps.Appointments, deps.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(loginUC, deps.Users, deps.Revoker)
	salonHandler := handlers.NewSalonHandler(deps.Salons, deps.Audit)
	userHandler := handlers.NewUserHandler(deps.Users, deps.Audit)
	serviceHandler := handlers.NewServiceHandler(deps.Services, deps.Audit)
	appointmentHandler := handlers.NewAppointmentHandler(deps.Appointments, deps.Salons, changeStatusUC, deps.Audit)
	paymentHandler := handlers.NewPaymentHandler(deps.Payments, deps.Receipts, deps.Audit)
	auditLogsHandler := handlers.NewAuditLogsHandler(deps.AuditLogs)

	return []Route{
		{http.MethodGet, "/", Public, root},
		{http.MethodGet, "/health", Public, health},

		// ------------------------------
		// AUTH
		// ------------------------------
		{http.MethodPost, "/login", Public, authHandler.Login},
		{http.MethodPost, "/logout", Authenticated, authHandler.Logout},
		{http.MethodGet, "/me", Authenticated, authHandler.Me},

		// ------------------------------
		// SALONS
		// ------------------------------
		{http.MethodGet, "/salons", Public, salonHandler.List},
		{http.MethodPost, "/salons", Public, salonHandler.Create},
		{http.MethodGet, "/salons/:id", Public, salonHandler.Get},
		{http.MethodPut, "/salons/:id", Public, salonHandler.Update},
		{http.MethodDelete, "/salons/:id", Public, salonHandler.Delete},

		// ------------------------------
		// USERS
		// ------------------------------
		{http.MethodGet, "/users", Public, userHandler.List},
		{http.MethodPost, "/users", Public, userHandler.Create},
		{http.MethodGet, "/users/:id", Public, userHandler.Get},
		{http.MethodPut, "/users/:id", Public, userHandler.Update},
		{http.MethodDelete, "/users/:id", Public, userHandler.Delete},

		// ------------------------------
		// SERVICES
		// ------------------------------
		{http.MethodGet, "/services", Public, serviceHandler.List},
		{http.MethodPost, "/services", Public, serviceHandler.Create},
		{http.MethodGet, "/services/:id", Public, serviceHandler.Get},
		{http.MethodPut, "/services/:id", Public, serviceHandler.Update},
		{http.MethodDelete, "/services/:id", Public, serviceHandler.Delete},

		// ------------------------------
		// APPOINTMENTS
		// ------------------------------
		{http.MethodGet, "/appointments", Public, appointmentHandler.List},
		{http.MethodPost, "/appointments", Public, appointmentHandler.Create},
		{http.MethodGet, "/appointments/:id", Public, appointmentHandler.Get},
		{http.MethodPut, "/appointments/:id", Public, appointmentHandler.Update},
		{http.MethodDelete, "/appointments/:id", Public, appointmentHandler.Delete},
		{http.MethodPatch, "/appointments/:id/complete", Public, appointmentHandler.Complete},
		{http.MethodPatch, "/appointments/:id/cancel", Public, appointmentHandler.Cancel},
		{http.MethodPatch, "/appointments/:id/no-show", Public, appointmentHandler.NoShow},

		// ------------------------------
		// PAYMENTS
		// ------------------------------
		{http.MethodGet, "/payments", Authenticated, paymentHandler.List},
		{http.MethodPost, "/payments", Authenticated, paymentHandler.Create},
		{http.MethodGet, "/payments/:id", Authenticated, paymentHandler.Get},
		{http.MethodPut, "/payments/:id", Authenticated, paymentHandler.Update},
		{http.MethodDelete, "/payments/:id", Authenticated, paymentHandler.Delete},

		// ------------------------------
		// AUDIT
		// ------------------------------
		{http.MethodGet, "/audit-logs", Authenticated, auditLogsHandler.List},
	}
}

// RegisterRoutes mounts Table on r, placing the auth gate in front of every
// Authenticated route.
func RegisterRoutes(r *gin.Engine, deps Deps) {
	httperr.UseJSONFieldNames()

	gate := middleware.AuthMiddleware(deps.Tokens, deps.Revoker)

	for _, rt := range Table(deps) {
		switch rt.Policy {
		case Authenticated:
			r.Handle(rt.Method, rt.Path, gate, rt.Handler)
		default:
			r.Handle(rt.Method, rt.Path, rt.Handler)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		httperr.NotFound(c, "route_not_found", "Route not found.")
	})
}

func root(c *gin.Context) {
	c.String(http.StatusOK, "Salon POS API is running!")
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
