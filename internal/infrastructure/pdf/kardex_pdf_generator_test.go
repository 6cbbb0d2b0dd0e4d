package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

func TestGenerateKardexPDF(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	report := &inventory.KardexReport{
		ProductID: "p1", SKU: "QS-01", ProductName: "Queso campesino",
		OpeningBalance: 0, ClosingBalance: 6, TotalIn: 10, TotalOut: 4,
		GeneratedAt: now,
		Movements: []dto.MovementResponse{
			{ID: "m1", Sequence: 1, Type: entity.DirectionIN, Quantity: 10, BalanceAfter: 10, ReasonName: "Compra", SupplierName: "Lácteos SAS", CreatedAt: now},
			{ID: "m2", Sequence: 2, Type: entity.DirectionOUT, Quantity: 4, BalanceAfter: 6, ClientName: "Tienda Sur", Notes: "pedido 88", CreatedAt: now},
		},
	}

	doc, err := NewKardexPDFGenerator(nil).GenerateKardexPDF(context.Background(), report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")), "cabecera PDF")
}

func TestGenerateKardexPDF_Empty(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	doc, err := NewKardexPDFGenerator(time.UTC).GenerateKardexPDF(context.Background(), &inventory.KardexReport{
		SKU: "X", ProductName: "Vacío", From: &from, GeneratedAt: from,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, doc)

	_, err = NewKardexPDFGenerator(nil).GenerateKardexPDF(context.Background(), nil)
	require.Error(t, err)
}

func TestFormatQty(t *testing.T) {
	cases := map[int64]string{
		0:        "0",
		999:      "999",
		25000:    "25.000",
		1000000:  "1.000.000",
		-1000000: "-1.000.000",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatQty(in))
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "corto", truncate("corto", 10))
	assert.Equal(t, "añoañ…", truncate("añoañoaño", 6))
}
