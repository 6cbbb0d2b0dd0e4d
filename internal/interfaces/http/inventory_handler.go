package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// AuditEnqueuer encola la auditoría asíncrona del kardex de un tenant.
type AuditEnqueuer interface {
	EnqueueLedgerAudit(ctx context.Context, tenantID string) (string, error)
}

// InventoryHandler maneja las peticiones HTTP de movimientos e inventario (protegido).
type InventoryHandler struct {
	uc            *inventory.RegisterMovementUseCase
	kardex        *inventory.KardexQueryUseCase
	replenishment *inventory.ReplenishmentUseCase
	reports       *inventory.KardexReportUseCase
	cache         DashboardInvalidator
	jobs          AuditEnqueuer
	log           *logger.Logger
}

// InventoryHandlerDeps dependencias del handler. Cache y Jobs son opcionales.
type InventoryHandlerDeps struct {
	RegisterMovement *inventory.RegisterMovementUseCase
	Kardex           *inventory.KardexQueryUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	Reports          *inventory.KardexReportUseCase
	Cache            DashboardInvalidator
	Jobs             AuditEnqueuer
	Logger           *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(deps InventoryHandlerDeps) *InventoryHandler {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &InventoryHandler{
		uc:            deps.RegisterMovement,
		kardex:        deps.Kardex,
		replenishment: deps.Replenishment,
		reports:       deps.Reports,
		cache:         deps.Cache,
		jobs:          deps.Jobs,
		log:           log,
	}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  type IN suma y OUT resta. Una salida que dejaría el saldo negativo se rechaza con 409
// @Description  y el faltante exacto. reason_id, client_id y supplier_id aceptan "none" como ausente.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "product_id, type, quantity, reason_id, client_id, supplier_id, notes"
// @Success      201   {object}  dto.RecordMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientStockResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	tenantID, userID := GetTenantID(c), GetUserID(c)
	if tenantID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.RecordMovementRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.RecordFromRequest(c.UserContext(), tenantID, userID, in)
	if err != nil {
		var stock *domain.InsufficientStockError
		if errors.As(err, &stock) {
			h.log.Warn().
				Str("tenant_id", tenantID).
				Str("product_id", in.ProductID).
				Int64("requested", stock.Requested).
				Int64("current", stock.Current).
				Msg("salida rechazada por stock insuficiente")
		}
		return respondError(c, err)
	}
	h.log.Info().
		Str("tenant_id", tenantID).
		Str("product_id", in.ProductID).
		Str("movement_id", out.MovementID).
		Str("type", in.Type).
		Int64("quantity", in.Quantity).
		Int64("new_balance", out.NewBalance).
		Msg("movimiento registrado")
	invalidateDashboard(c, h.cache, tenantID)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Kardex del tenant
// @Description  Movimientos del más reciente al más antiguo.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        type        query  string  false  "IN u OUT"
// @Param        from        query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to          query  string  false  "Hasta (RFC3339 o YYYY-MM-DD, inclusive)"
// @Param        limit       query  int     false  "Límite"  default(50)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var req dto.MovementListRequest
	if err := bindQuery(c, &req); err != nil {
		return respondError(c, err)
	}
	out, err := h.kardex.ListMovements(c.UserContext(), tenantID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetMovement godoc
// @Summary      Obtener movimiento
// @Description  Las referencias a motivo, cliente o proveedor eliminados se devuelven como null.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [get]
func (h *InventoryHandler) GetMovement(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	out, err := h.kardex.GetMovement(c.UserContext(), tenantID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Productos por debajo del punto de reorden con la cantidad sugerida de pedido,
// @Description  ordenados por déficit relativo.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext(), tenantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}

// EnqueueAudit godoc
// @Summary      Encolar auditoría del kardex
// @Description  Audita en segundo plano todos los productos del tenant. Requiere Redis.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      202  {object}  map[string]string
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/inventory/audit [post]
func (h *InventoryHandler) EnqueueAudit(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	if h.jobs == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "JOBS_DISABLED", Message: "cola de tareas no configurada"})
	}
	taskID, err := h.jobs.EnqueueLedgerAudit(c.UserContext(), tenantID)
	if err != nil {
		return respondError(c, domain.Storage(err))
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"task_id": taskID})
}

// ExportKardexPDF godoc
// @Summary      Kardex del producto en PDF
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        id    path   string  true   "ID del producto"
// @Param        from  query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to    query  string  false  "Hasta (RFC3339 o YYYY-MM-DD, inclusive)"
// @Success      200   {file}    binary
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/kardex/{id}/pdf [get]
func (h *InventoryHandler) ExportKardexPDF(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	if h.reports == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "REPORTS_DISABLED", Message: "reportes no configurados"})
	}
	var req dto.KardexReportRequest
	if err := bindQuery(c, &req); err != nil {
		return respondError(c, err)
	}
	doc, filename, err := h.reports.ExportPDF(c.UserContext(), tenantID, c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(doc)
}
