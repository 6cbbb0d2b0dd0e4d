package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// KardexReport representación imprimible del kardex de un producto en un rango de fechas.
type KardexReport struct {
	ProductID      string
	SKU            string
	ProductName    string
	From, To       *time.Time
	OpeningBalance int64 // saldo antes del primer movimiento del rango
	ClosingBalance int64
	TotalIn        int64
	TotalOut       int64
	Movements      []dto.MovementResponse // orden cronológico
	GeneratedAt    time.Time
}

// KardexReportGenerator puerto de salida hacia el generador de PDF.
type KardexReportGenerator interface {
	GenerateKardexPDF(ctx context.Context, report *KardexReport) ([]byte, error)
}

// ErrReportGeneratorMissing el caso de uso se construyó sin generador.
var ErrReportGeneratorMissing = errors.New("generador de reportes no configurado")

// KardexReportUseCase arma el reporte del kardex de un producto y lo exporta a PDF.
type KardexReportUseCase struct {
	productRepo  repository.ProductRepository
	movementRepo repository.MovementRepository
	generator    KardexReportGenerator
	now          func() time.Time
}

// NewKardexReportUseCase construye el caso de uso. generator puede ser nil si sólo se usa BuildReport.
func NewKardexReportUseCase(
	productRepo repository.ProductRepository,
	movementRepo repository.MovementRepository,
	generator KardexReportGenerator,
) *KardexReportUseCase {
	return &KardexReportUseCase{
		productRepo:  productRepo,
		movementRepo: movementRepo,
		generator:    generator,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// BuildReport reúne los movimientos del producto en [from, to] y sus totales.
func (uc *KardexReportUseCase) BuildReport(ctx context.Context, tenantID, productID string, req dto.KardexReportRequest) (*KardexReport, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, domain.Invalid("product_id", "requerido")
	}
	product, err := uc.productRepo.GetByID(ctx, tenantID, productID)
	if err != nil {
		return nil, domain.Storage(err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	filter, err := movementFilterFrom(dto.MovementListRequest{ProductID: productID, From: req.From, To: req.To})
	if err != nil {
		return nil, err
	}
	filter.Limit, filter.Offset = 0, 0
	list, _, err := uc.movementRepo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, domain.Storage(err)
	}

	report := &KardexReport{
		ProductID:   product.ID,
		SKU:         product.SKU,
		ProductName: product.Name,
		From:        filter.From,
		To:          filter.To,
		Movements:   make([]dto.MovementResponse, 0, len(list)),
		GeneratedAt: uc.now(),
	}
	// List devuelve los más recientes primero.
	for i := len(list) - 1; i >= 0; i-- {
		m := list[i]
		report.Movements = append(report.Movements, ToMovementResponse(m))
		if m.Direction == entity.DirectionIN {
			report.TotalIn += m.Quantity
		} else {
			report.TotalOut += m.Quantity
		}
	}
	if len(list) > 0 {
		first, last := list[len(list)-1], list[0]
		report.OpeningBalance = first.BalanceAfter - first.Delta
		report.ClosingBalance = last.BalanceAfter
		return report, nil
	}

	opening, err := uc.balanceBefore(ctx, tenantID, productID, filter.From)
	if err != nil {
		return nil, err
	}
	report.OpeningBalance, report.ClosingBalance = opening, opening
	return report, nil
}

// balanceBefore saldo registrado por el último movimiento anterior a from (0 si no hay).
func (uc *KardexReportUseCase) balanceBefore(ctx context.Context, tenantID, productID string, from *time.Time) (int64, error) {
	all, err := uc.movementRepo.ListForReplay(ctx, tenantID, productID)
	if err != nil {
		return 0, domain.Storage(err)
	}
	var balance int64
	for _, m := range all {
		if from != nil && !m.CreatedAt.Before(*from) {
			break
		}
		balance = m.BalanceAfter
	}
	return balance, nil
}

// ExportPDF genera el PDF del reporte y un nombre de archivo sugerido.
func (uc *KardexReportUseCase) ExportPDF(ctx context.Context, tenantID, productID string, req dto.KardexReportRequest) ([]byte, string, error) {
	if uc.generator == nil {
		return nil, "", ErrReportGeneratorMissing
	}
	report, err := uc.BuildReport(ctx, tenantID, productID, req)
	if err != nil {
		return nil, "", err
	}
	doc, err := uc.generator.GenerateKardexPDF(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("kardex: generar pdf: %w", err)
	}
	return doc, reportFilename(report), nil
}

func reportFilename(r *KardexReport) string {
	sku := strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			return c
		}
		return '_'
	}, r.SKU)
	return fmt.Sprintf("kardex-%s-%s.pdf", sku, r.GeneratedAt.Format("20060102"))
}
