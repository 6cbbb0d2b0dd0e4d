package inventory

import (
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// ToMovementResponse convierte un movimiento (con nombres resueltos) a DTO.
func ToMovementResponse(d *entity.MovementDetail) dto.MovementResponse {
	m := d.Movement
	return dto.MovementResponse{
		ID:           m.ID,
		Sequence:     m.Sequence,
		ProductID:    m.ProductID,
		ProductName:  d.ProductName,
		ProductSKU:   d.ProductSKU,
		Type:         m.Direction,
		Quantity:     m.Quantity,
		Delta:        m.Delta,
		BalanceAfter: m.BalanceAfter,
		ReasonID:     m.ReasonID,
		ReasonName:   d.ReasonName,
		ClientID:     m.ClientID,
		ClientName:   d.ClientName,
		SupplierID:   m.SupplierID,
		SupplierName: d.SupplierName,
		Notes:        m.Note,
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt,
	}
}

// ToMovementResponses convierte una lista preservando el orden.
func ToMovementResponses(list []*entity.MovementDetail) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(list))
	for _, d := range list {
		out = append(out, ToMovementResponse(d))
	}
	return out
}
