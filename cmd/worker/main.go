package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/synexis/synexis-admin/internal/app"
	"github.com/synexis/synexis-admin/internal/backend"
	jobmetrics "github.com/synexis/synexis-admin/internal/jobs"
	"github.com/synexis/synexis-admin/internal/masterdata/brands"
	"github.com/synexis/synexis-admin/internal/masterdata/categories"
	"github.com/synexis/synexis-admin/internal/masterdata/employees"
	"github.com/synexis/synexis-admin/internal/masterdata/materials"
	"github.com/synexis/synexis-admin/internal/masterdata/units"
	"github.com/synexis/synexis-admin/internal/platform/cache"
	"github.com/synexis/synexis-admin/internal/sales/customers"
	"github.com/synexis/synexis-admin/internal/sales/inquiries"
	"github.com/synexis/synexis-admin/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}

	client, err := backend.New(backend.Config{
		BaseURL: cfg.APIURL,
		Timeout: cfg.APITimeout,
		Logger:  logger,
		Metrics: backend.NewMetrics(nil),
	})
	if err != nil {
		logger.Error("configure backend client", slog.Any("error", err))
		os.Exit(1)
	}
	dropdowns := cache.NewVersioned(redisClient, cfg.CacheTTL)

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

	warmupJob := jobs.NewDropdownWarmupJob(logger, jobmetrics.NewMetrics(nil),
		jobs.Warmer{Resource: "category", Warm: categoryService.WarmDropdowns},
		jobs.Warmer{Resource: "brand", Warm: brandService.WarmDropdowns},
		jobs.Warmer{Resource: "unit", Warm: unitService.WarmDropdowns},
		jobs.Warmer{Resource: "material", Warm: materialService.WarmDropdowns},
		jobs.Warmer{Resource: "employee", Warm: employeeService.WarmDropdowns},
		jobs.Warmer{Resource: "customer", Warm: customerService.WarmDropdowns},
		jobs.Warmer{Resource: "inquiry", Warm: inquiryService.WarmDropdowns},
	)

	warmupTask, err := jobs.NewDropdownWarmupTask(jobs.DropdownWarmupPayload{})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskDropdownWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.WarmupCron, Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(2), asynq.Unique(cfg.CacheTTL)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker", slog.String("cron", cfg.WarmupCron))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
