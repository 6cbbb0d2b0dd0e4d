package inventory

import (
	"context"
	"errors"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// AuditUseCase reproduce el kardex de un producto y lo compara con el saldo guardado.
type AuditUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	log         *logger.Logger
}

// NewAuditUseCase construye el caso de uso de auditoría. log puede ser nil.
func NewAuditUseCase(txRunner TxRunner, productRepo repository.ProductRepository, log *logger.Logger) *AuditUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuditUseCase{txRunner: txRunner, productRepo: productRepo, log: log}
}

// AuditProduct bloquea la fila del producto mientras lee el libro, de modo que ningún
// movimiento concurrente se cuele entre la lectura del saldo y la de los movimientos.
func (uc *AuditUseCase) AuditProduct(ctx context.Context, tenantID, productID string) (*dto.AuditResponse, error) {
	var resp *dto.AuditResponse
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		stored, err := repos.Balances.GetForUpdate(ctx, tenantID, productID)
		if err != nil {
			return err
		}
		movements, err := repos.Movements.ListForReplay(ctx, tenantID, productID)
		if err != nil {
			return err
		}
		res := inventory.Replay(0, movements, stored)
		resp = toAuditResponse(productID, stored, res)
		return nil
	})
	if err != nil {
		return nil, domain.Storage(err)
	}
	return resp, nil
}

// AuditTenant audita todos los productos del tenant y devuelve sólo los inconsistentes.
func (uc *AuditUseCase) AuditTenant(ctx context.Context, tenantID string) ([]dto.AuditResponse, error) {
	ids, err := uc.productRepo.ListAllIDs(ctx, tenantID)
	if err != nil {
		return nil, domain.Storage(err)
	}
	var inconsistent []dto.AuditResponse
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return inconsistent, err
		}
		resp, err := uc.AuditProduct(ctx, tenantID, id)
		if err != nil {
			// Un producto borrado entre el listado y la auditoría no es un fallo
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return inconsistent, err
		}
		if !resp.Consistent {
			uc.log.Warn().
				Str("tenant_id", tenantID).
				Str("product_id", id).
				Int64("stored", resp.StoredBalance).
				Int64("ledger", resp.LedgerBalance).
				Int("discrepancies", len(resp.Discrepancies)).
				Msg("kardex inconsistente")
			inconsistent = append(inconsistent, *resp)
		}
	}
	return inconsistent, nil
}

// AuditTenantCount como AuditTenant pero devuelve solo la cantidad de inconsistentes.
func (uc *AuditUseCase) AuditTenantCount(ctx context.Context, tenantID string) (int, error) {
	inconsistent, err := uc.AuditTenant(ctx, tenantID)
	return len(inconsistent), err
}

// AuditAll audita todos los tenants y devuelve la cantidad de productos inconsistentes.
func (uc *AuditUseCase) AuditAll(ctx context.Context) (int, error) {
	tenants, err := uc.productRepo.ListTenants(ctx)
	if err != nil {
		return 0, domain.Storage(err)
	}
	total := 0
	for _, tenantID := range tenants {
		inconsistent, err := uc.AuditTenant(ctx, tenantID)
		total += len(inconsistent)
		if err != nil {
			return total, err
		}
	}
	uc.log.Info().Int("tenants", len(tenants)).Int("inconsistent", total).Msg("auditoría de kardex completada")
	return total, nil
}

func toAuditResponse(productID string, stored int64, res inventory.ReplayResult) *dto.AuditResponse {
	out := &dto.AuditResponse{
		ProductID:     productID,
		StoredBalance: stored,
		LedgerBalance: res.ComputedTotal,
		Movements:     res.Movements,
		Consistent:    res.Consistent(),
		Discrepancies: make([]dto.AuditDiscrepancyDTO, 0, len(res.Discrepancies)),
	}
	for _, d := range res.Discrepancies {
		out.Discrepancies = append(out.Discrepancies, dto.AuditDiscrepancyDTO{
			MovementID: d.MovementID,
			Sequence:   d.Sequence,
			Expected:   d.Expected,
			Recorded:   d.Recorded,
			Message:    d.Message,
		})
	}
	return out
}
