package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/synexis/synexis-admin/internal/app"
	"github.com/synexis/synexis-admin/internal/audit"
	audithttp "github.com/synexis/synexis-admin/internal/audit/http"
	"github.com/synexis/synexis-admin/internal/backend"
	"github.com/synexis/synexis-admin/internal/cascade"
	"github.com/synexis/synexis-admin/internal/dashboard"
	"github.com/synexis/synexis-admin/internal/masterdata/brands"
	"github.com/synexis/synexis-admin/internal/masterdata/categories"
	"github.com/synexis/synexis-admin/internal/masterdata/employees"
	"github.com/synexis/synexis-admin/internal/masterdata/materials"
	"github.com/synexis/synexis-admin/internal/masterdata/units"
	"github.com/synexis/synexis-admin/internal/notify"
	"github.com/synexis/synexis-admin/internal/observability"
	"github.com/synexis/synexis-admin/internal/platform/cache"
	"github.com/synexis/synexis-admin/internal/sales/customers"
	"github.com/synexis/synexis-admin/internal/sales/inquiries"
	"github.com/synexis/synexis-admin/internal/shared"
	"github.com/synexis/synexis-admin/internal/view"
	"github.com/synexis/synexis-admin/internal/viewport"
	"github.com/synexis/synexis-admin/jobs"
)

const layoutSweepInterval = 5 * time.Minute

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	client, err := backend.New(backend.Config{
		BaseURL: cfg.APIURL,
		Timeout: cfg.APITimeout,
		Logger:  logger,
		Metrics: backend.NewMetrics(metrics.Registerer()),
	})
	if err != nil {
		logger.Error("configure backend client", slog.Any("error", err))
		os.Exit(1)
	}

	dropdowns := cache.NewVersioned(redisClient, cfg.CacheTTL)
	if err := dropdowns.ListenForInvalidation(ctx, cache.BumpChannel, func(scope string) {
		logger.Debug("cache scope bumped", slog.String("scope", scope))
	}); err != nil {
		logger.Warn("subscribe cache invalidation", slog.Any("error", err))
	}

	sessionManager := shared.NewSessionManager(redisClient, "synexis_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	center := notify.NewCenter()
	defer center.Close()
	forms := cascade.NewRegistry(cfg.FormTTL)
	defer forms.Close()
	layouts := viewport.NewRegistry(cfg.CompactBreakpoint, cfg.SessionTTL)
	go sweepLayouts(ctx, layouts, logger)

	pages := view.NewResponder(templates, csrfManager, center, logger)
	activity := audit.NewService(audit.NewRepository(client))

	brandService := brands.NewService(brands.NewRepository(client, dropdowns))
	categoryService := categories.NewService(categories.NewRepository(client, dropdowns))
	unitService := units.NewService(units.NewRepository(client, dropdowns))
	materialService := materials.NewService(materials.NewRepository(client, dropdowns), materials.Lookups{
		Brands:        brandService.Options,
		SubCategories: categoryService.SubOptions,
		BaseUnits:     unitService.BaseOptions,
		OtherUnits:    unitService.OtherOptions,
	})
	employeeService := employees.NewService(employees.NewRepository(client, dropdowns))
	customerService := customers.NewService(customers.NewRepository(client, dropdowns))
	inquiryService := inquiries.NewService(inquiries.NewRepository(client, dropdowns), inquiries.Lookups{
		Customers: customerService.Options,
		Employees: employeeService.Options,
	})
	overview := dashboard.NewService(activity,
		dashboard.Counter{Entity: audit.EntityCategory, Label: "Categories", Path: "/categories", Load: categoryService.SideOptions},
		dashboard.Counter{Entity: audit.EntityBrand, Label: "Brands", Path: "/brands", Load: brandService.Options},
		dashboard.Counter{Entity: audit.EntityUnit, Label: "Units", Path: "/units", Load: unitService.SideOptions},
		dashboard.Counter{Entity: audit.EntityMaterial, Label: "Materials", Path: "/materials", Load: materialService.SideOptions},
		dashboard.Counter{Entity: audit.EntityEmployee, Label: "Employees", Path: "/employees", Load: employeeService.Options},
		dashboard.Counter{Entity: audit.EntityCustomer, Label: "Customers", Path: "/customers", Load: customerService.Options},
		dashboard.Counter{Entity: audit.EntityInquiry, Label: "Inquiries", Path: "/inquiries", Load: inquiryService.Options},
	)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		Layouts:        layouts,
		Notifications:  center,
		Forms:          forms,
		AuditHandler:   audithttp.NewHandler(logger, activity),
		JobHandler:     jobs.NewHandler(inspector, logger),
		Metrics:        metrics,
		Pages: []app.Mounter{
			dashboard.NewHandler(logger, overview, pages),
			categories.NewHandler(logger, categoryService, pages, activity),
			brands.NewHandler(logger, brandService, pages, activity),
			units.NewHandler(logger, unitService, pages, activity),
			materials.NewHandler(logger, materialService, pages, activity, forms),
			employees.NewHandler(logger, employeeService, pages, activity),
			customers.NewHandler(logger, customerService, pages, activity),
			inquiries.NewHandler(logger, inquiryService, pages, activity),
		},
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("api", client.BaseURL()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

func sweepLayouts(ctx context.Context, layouts *viewport.Registry, logger *slog.Logger) {
	ticker := time.NewTicker(layoutSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := layouts.Sweep(); n > 0 {
				logger.Debug("dropped idle layouts", slog.Int("count", n))
			}
		}
	}
}
