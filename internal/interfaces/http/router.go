package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/kardex-api/internal/application/analytics"
	"github.com/jhoicas/kardex-api/internal/application/auth"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
	"github.com/jhoicas/kardex-api/internal/observability"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// AppConfig opciones del servidor Fiber.
type AppConfig struct {
	Name           string
	RateLimitPerIP int // peticiones por minuto bajo /api; 0 = sin límite
	Logger         *logger.Logger
	Metrics        *observability.Metrics
}

// NewApp crea la app con recover, log de peticiones, métricas, limiter, /health y /metrics.
func NewApp(cfg AppConfig) *fiber.App {
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(RequestLogger(cfg.Logger))
	if cfg.Metrics != nil {
		app.Use(MetricsMiddleware(cfg.Metrics))
	}
	if cfg.RateLimitPerIP > 0 {
		app.Use("/api", limiter.New(limiter.Config{
			Max:        cfg.RateLimitPerIP,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiadas peticiones"})
			},
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.Name})
	})
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}
	return app
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	ProductUC        *usecase.ProductUseCase
	CategoryUC       *usecase.CategoryUseCase
	SupplierUC       *usecase.SupplierUseCase
	ClientUC         *usecase.ClientUseCase
	ReasonUC         *usecase.ReasonUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Kardex           *inventory.KardexQueryUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	Reports          *inventory.KardexReportUseCase
	Audit            *inventory.AuditUseCase
	DashboardUC      *appanalytics.DashboardUseCase
	Jobs             AuditEnqueuer // nil si no hay Redis
	Logger           *logger.Logger
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	var cache DashboardInvalidator
	if deps.DashboardUC != nil {
		cache = deps.DashboardUC
	}

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Audit, cache)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Get("/:id/audit", productHandler.Audit)

	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(InventoryHandlerDeps{
		RegisterMovement: deps.RegisterMovement,
		Kardex:           deps.Kardex,
		Replenishment:    deps.Replenishment,
		Reports:          deps.Reports,
		Cache:            cache,
		Jobs:             deps.Jobs,
		Logger:           deps.Logger,
	})
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/movements/:id", inventoryHandler.GetMovement)
	invGroup.Get("/replenishment-list", inventoryHandler.GetReplenishmentList)
	invGroup.Post("/audit", inventoryHandler.EnqueueAudit)
	invGroup.Get("/kardex/:id/pdf", inventoryHandler.ExportKardexPDF)

	NewMasterDataHandler[dto.CategoryRequest, dto.CategoryResponse](deps.CategoryUC).Mount(protected.Group("/categories"))
	NewMasterDataHandler[dto.PartnerRequest, dto.PartnerResponse](deps.SupplierUC).Mount(protected.Group("/suppliers"))
	NewMasterDataHandler[dto.PartnerRequest, dto.PartnerResponse](deps.ClientUC).Mount(protected.Group("/clients"))
	NewMasterDataHandler[dto.ReasonRequest, dto.ReasonResponse](deps.ReasonUC).Mount(protected.Group("/reasons"))

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", dashboardHandler.GetSummary)
}
