package inventory

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// RecordFromRequest adapta el body HTTP al motor de movimientos. Los ids opcionales
// "", "none" y "null" se tratan como ausentes.
func (uc *RegisterMovementUseCase) RecordFromRequest(ctx context.Context, tenantID, userID string, req dto.RecordMovementRequest) (*dto.RecordMovementResponse, error) {
	direction, err := entity.ParseDirection(req.Type)
	if err != nil {
		uc.observe(direction, OutcomeInvalid)
		return nil, domain.Invalid("type", err.Error())
	}
	res, err := uc.RecordMovement(ctx, MovementInput{
		TenantID:   tenantID,
		UserID:     userID,
		ProductID:  req.ProductID,
		Direction:  direction,
		Quantity:   req.Quantity,
		ReasonID:   entity.ParseOptionalID(req.ReasonID),
		ClientID:   entity.ParseOptionalID(req.ClientID),
		SupplierID: entity.ParseOptionalID(req.SupplierID),
		Note:       req.Notes,
	})
	if err != nil {
		return nil, err
	}
	return &dto.RecordMovementResponse{
		MovementID: res.Movement.ID,
		Timestamp:  res.Movement.CreatedAt,
		NewBalance: res.NewBalance,
		Movement:   ToMovementResponse(&entity.MovementDetail{Movement: *res.Movement}),
	}, nil
}
