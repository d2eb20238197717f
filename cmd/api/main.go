package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-pos/internal/audit"
	"github.com/BruksfildServices01/salon-pos/internal/auth"
	"github.com/BruksfildServices01/salon-pos/internal/config"
	dbpkg "github.com/BruksfildServices01/salon-pos/internal/db"
	"github.com/BruksfildServices01/salon-pos/internal/infra/repository"
	"github.com/BruksfildServices01/salon-pos/internal/logging"
	"github.com/BruksfildServices01/salon-pos/internal/middleware"
	"github.com/BruksfildServices01/salon-pos/internal/models"
	"github.com/BruksfildServices01/salon-pos/internal/receipts"
	"github.com/BruksfildServices01/salon-pos/internal/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		zap.NewExample().Fatal("failed to build logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return err
	}
	return serve(ctx, ln, a.handler, cfg.Server.ShutdownTimeout, log)
}

// app holds the wired service. Close drains the audit queue before the
// stores it writes to are released.
type app struct {
	handler http.Handler
	deps    routes.Deps
	closers []func()
}

func (a *app) Close() {
	if a.deps.Audit != nil {
		a.deps.Audit.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (a *app, err error) {
	a = &app{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if cfg.JWT.Ephemeral {
		log.Warn("JWT_SECRET is not set; using a random per-process secret, tokens will not survive a restart")
	}

	// ======================================================
	// STORAGE
	// ======================================================
	if cfg.UsesMemoryStore() {
		log.Warn("using the in-memory store; data is lost on exit")
		a.deps.Salons = repository.NewMemoryRepository[models.Salon]("salon")
		a.deps.Users = repository.NewMemoryUserRepository()
		a.deps.Services = repository.NewMemoryRepository[models.Service]("service")
		a.deps.Appointments = repository.NewMemoryRepository[models.Appointment]("appointment")
		a.deps.Payments = repository.NewMemoryRepository[models.Payment]("payment")
		a.deps.AuditLogs = repository.NewMemoryAuditLogRepository()
	} else {
		db, err := dbpkg.NewDB(cfg)
		if err != nil {
			return a, err
		}
		if sqlDB, err := db.DB(); err == nil {
			a.closers = append(a.closers, func() { _ = sqlDB.Close() })
		}
		a.deps.Salons = repository.NewGormRepository[models.Salon](db, "salon")
		a.deps.Users = repository.NewUserGormRepository(db)
		a.deps.Services = repository.NewGormRepository[models.Service](db, "service")
		a.deps.Appointments = repository.NewGormRepository[models.Appointment](db, "appointment")
		a.deps.Payments = repository.NewGormRepository[models.Payment](db, "payment")
		a.deps.AuditLogs = repository.NewAuditLogGormRepository(db)
	}

	// ======================================================
	// AUTH
	// ======================================================
	a.deps.Tokens = auth.NewTokenCodec([]byte(cfg.JWT.Secret), cfg.JWT.TTL, cfg.JWT.Issuer)

	if cfg.Redis.URL != "" {
		client, err := auth.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return a, err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		a.deps.Revoker = auth.NewRedisRevoker(client)
	} else {
		log.Info("REDIS_URL not set; token revocation is process-local")
		a.deps.Revoker = auth.NewMemoryRevoker()
	}

	// ======================================================
	// RECEIPTS + AUDIT
	// ======================================================
	if cfg.Receipts.Bucket != "" {
		archiver, err := receipts.NewS3Archiver(ctx, receipts.S3Config{
			Bucket:    cfg.Receipts.Bucket,
			Region:    cfg.Receipts.Region,
			Endpoint:  cfg.Receipts.Endpoint,
			AccessKey: cfg.Receipts.AccessKey,
			SecretKey: cfg.Receipts.SecretKey,
		})
		if err != nil {
			return a, err
		}
		a.deps.Receipts = archiver
	}

	a.deps.Audit = audit.NewDispatcher(audit.New(a.deps.AuditLogs), log.Named("audit"))

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Recovery(log),
		middleware.CORSMiddleware(cfg.CORS.AllowedOrigins),
	)
	routes.RegisterRoutes(r, a.deps)
	a.handler = r

	return a, nil
}

// serve runs handler on ln until ctx is done or the server fails.
func serve(
	ctx context.Context,
	ln net.Listener,
	handler http.Handler,
	shutdownTimeout time.Duration,
	log *zap.Logger,
) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
