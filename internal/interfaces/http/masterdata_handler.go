package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
)

// MasterDataUseCase CRUD por tenant que comparten categorías, proveedores, clientes y motivos.
type MasterDataUseCase[Req, Resp any] interface {
	Create(ctx context.Context, tenantID string, in Req) (*Resp, error)
	GetByID(ctx context.Context, tenantID, id string) (*Resp, error)
	Update(ctx context.Context, tenantID, id string, in Req) (*Resp, error)
	Delete(ctx context.Context, tenantID, id string) error
	List(ctx context.Context, tenantID string, req dto.PageRequest) (*dto.ListResponse[Resp], error)
}

// MasterDataHandler expone un MasterDataUseCase como recurso REST.
//
//	GET    /            List (search, limit, offset)
//	POST   /            Create
//	GET    /:id         GetByID
//	PUT    /:id         Update
//	DELETE /:id         Delete (los movimientos que lo referencian lo verán como ausente)
type MasterDataHandler[Req, Resp any] struct {
	uc MasterDataUseCase[Req, Resp]
}

// NewMasterDataHandler construye el handler.
func NewMasterDataHandler[Req, Resp any](uc MasterDataUseCase[Req, Resp]) *MasterDataHandler[Req, Resp] {
	return &MasterDataHandler[Req, Resp]{uc: uc}
}

// Mount registra las rutas del recurso en el grupo.
func (h *MasterDataHandler[Req, Resp]) Mount(r fiber.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/:id", h.GetByID)
	r.Put("/:id", h.Update)
	r.Delete("/:id", h.Delete)
}

func (h *MasterDataHandler[Req, Resp]) Create(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var in Req
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), tenantID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *MasterDataHandler[Req, Resp]) GetByID(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.GetByID(c.UserContext(), tenantID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *MasterDataHandler[Req, Resp]) Update(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var in Req
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), tenantID, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *MasterDataHandler[Req, Resp]) Delete(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	if err := h.uc.Delete(c.UserContext(), tenantID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *MasterDataHandler[Req, Resp]) List(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var req dto.PageRequest
	if err := bindQuery(c, &req); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), tenantID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
