package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	appanalytics "github.com/jhoicas/kardex-api/internal/application/analytics"
	"github.com/jhoicas/kardex-api/internal/application/auth"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
	"github.com/jhoicas/kardex-api/internal/bootstrap"
	"github.com/jhoicas/kardex-api/internal/infrastructure/cache"
	"github.com/jhoicas/kardex-api/internal/infrastructure/jobs"
	"github.com/jhoicas/kardex-api/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/kardex-api/internal/interfaces/http"
	"github.com/jhoicas/kardex-api/internal/observability"
	"github.com/jhoicas/kardex-api/pkg/config"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := bootstrap.OpenStorage(ctx, cfg.DB, log.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer store.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	// Redis opcional: caché del dashboard y cola de auditorías
	var (
		summaryCache appanalytics.SummaryCache
		auditJobs    httpRouter.AuditEnqueuer
	)
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisClient.Close()
		summaryCache = cache.NewDashboardCache(redisClient, cfg.Redis.DashboardCacheTTL)

		jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer jobsClient.Close()
		auditJobs = jobsClient
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: dashboard sin caché y auditoría asíncrona deshabilitada")
	}

	registerMovementUC := inventory.NewRegisterMovementUseCase(store.TxRunner, inventory.MovementConfig{
		Timeout:  cfg.Inventory.MovementTimeout,
		Observer: metrics,
	})
	productUC := usecase.NewProductUseCase(store.Products, store.Categories, store.Suppliers, store.TxRunner, registerMovementUC)
	authUC := auth.NewAuthUseCase(store.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	dashboardUC := appanalytics.NewDashboardUseCase(
		store.Dashboard, store.Movements, summaryCache,
		cfg.Inventory.LowStockThreshold, log.Component("dashboard"),
	)

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:           cfg.App.Name,
		RateLimitPerIP: cfg.HTTP.RateLimitPerIP,
		Logger:         log.Component("http"),
		Metrics:        metrics,
	})

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Kardex API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		ProductUC:        productUC,
		CategoryUC:       usecase.NewCategoryUseCase(store.Categories),
		SupplierUC:       usecase.NewSupplierUseCase(store.Suppliers),
		ClientUC:         usecase.NewClientUseCase(store.Clients),
		ReasonUC:         usecase.NewReasonUseCase(store.Reasons),
		RegisterMovement: registerMovementUC,
		Kardex:           inventory.NewKardexQueryUseCase(store.Movements),
		Replenishment:    inventory.NewReplenishmentUseCase(store.Dashboard, cfg.Inventory.LowStockThreshold),
		Reports:          inventory.NewKardexReportUseCase(store.Products, store.Movements, pdf.NewKardexPDFGenerator(nil)),
		Audit:            inventory.NewAuditUseCase(store.TxRunner, store.Products, log.Component("audit")),
		DashboardUC:      dashboardUC,
		Jobs:             auditJobs,
		Logger:           log.Component("inventory"),
		JWTSecret:        cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
