// Package pdf genera la representación impresa del kardex de un producto.
//
// Layout de la página A4 horizontal:
//
//	┌─────────────────────────────────────────────────────────────────────┐
//	│  HEADER: Producto + SKU          │  KARDEX + rango + generado       │
//	│  ─────────────────────────────────────────────────────────────────  │
//	│  RESUMEN: Saldo inicial | Entradas | Salidas | Saldo final          │
//	│  ─────────────────────────────────────────────────────────────────  │
//	│  TABLA: # | Fecha | Tipo | Cant. | Saldo | Motivo | Tercero | Nota  │
//	│  ─────────────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda                                                    │
//	└─────────────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorIn      = &props.Color{Red: 20, Green: 120, Blue: 60}
	colorOut     = &props.Color{Red: 170, Green: 40, Blue: 40}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// KardexPDFGenerator implementa inventory.KardexReportGenerator usando Maroto v2.
type KardexPDFGenerator struct {
	loc *time.Location
}

// NewKardexPDFGenerator construye el generador. Las fechas se imprimen en loc (UTC si es nil).
func NewKardexPDFGenerator(loc *time.Location) *KardexPDFGenerator {
	if loc == nil {
		loc = time.UTC
	}
	return &KardexPDFGenerator{loc: loc}
}

// GenerateKardexPDF genera el PDF y devuelve sus bytes.
func (g *KardexPDFGenerator) GenerateKardexPDF(ctx context.Context, report *inventory.KardexReport) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Kardex "+report.SKU, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for i, mv := range report.Movements {
		if i%200 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		m.AddRows(g.movementRow(mv))
	}
	if len(report.Movements) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin movimientos en el rango.", props.Text{
				Size: 8, Align: align.Center, Top: 2, Color: colorGray,
			}),
		)))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: producto (izq) y rango del reporte (der).
func (g *KardexPDFGenerator) headerRow(r *inventory.KardexReport) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(r.ProductName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("SKU: "+r.SKU, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("KARDEX DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(g.rangeLabel(r), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 7,
			}),
			text.New("Generado: "+r.GeneratedAt.In(g.loc).Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func (g *KardexPDFGenerator) rangeLabel(r *inventory.KardexReport) string {
	from, to := "inicio", "hoy"
	if r.From != nil {
		from = r.From.In(g.loc).Format("02/01/2006")
	}
	if r.To != nil {
		to = r.To.In(g.loc).Format("02/01/2006")
	}
	return from + " a " + to
}

// summaryRow: saldo inicial, entradas, salidas y saldo final.
func summaryRow(r *inventory.KardexReport) core.Row {
	cell := func(label string, value int64, color *props.Color) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Align: align.Center, Color: colorGray, Top: 1}),
			text.New(formatQty(value), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Center, Color: color, Top: 5,
			}),
		)
	}
	return row.New(13).Add(
		cell("Saldo inicial", r.OpeningBalance, colorPrimary),
		cell("Entradas", r.TotalIn, colorIn),
		cell("Salidas", r.TotalOut, colorOut),
		cell("Saldo final", r.ClosingBalance, colorPrimary),
	)
}

// tableHeaderRow: cabecera de la tabla de movimientos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Fecha", 2, align.Left),
		h("Tipo", 1, align.Center),
		h("Cant.", 1, align.Right),
		h("Saldo", 1, align.Right),
		h("Motivo", 2, align.Left),
		h("Tercero", 2, align.Left),
		h("Nota", 2, align.Left),
	)
}

// movementRow: una fila por movimiento.
func (g *KardexPDFGenerator) movementRow(mv dto.MovementResponse) core.Row {
	cell := func(value string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(value, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	qty := formatQty(mv.Quantity)
	color := colorIn
	if mv.Type == entity.DirectionOUT {
		qty = "-" + qty
		color = colorOut
	}
	return row.New(7).Add(
		cell(strconv.FormatInt(mv.Sequence, 10), 1, align.Center),
		cell(mv.CreatedAt.In(g.loc).Format("02/01/2006 15:04"), 2, align.Left),
		col.New(1).Add(text.New(string(mv.Type), props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 1, Color: color,
		})),
		cell(qty, 1, align.Right),
		cell(formatQty(mv.BalanceAfter), 1, align.Right),
		cell(nonEmpty(mv.ReasonName, "—"), 2, align.Left),
		cell(nonEmpty(counterparty(mv), "—"), 2, align.Left),
		cell(truncate(mv.Notes, 40), 2, align.Left),
	)
}

func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			"Cada fila refleja el saldo del producto inmediatamente después del movimiento. "+
				"Los movimientos confirmados no se modifican ni se eliminan.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func counterparty(mv dto.MovementResponse) string {
	if mv.ClientName != "" {
		return mv.ClientName
	}
	return mv.SupplierName
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// formatQty inserta puntos de miles.
// Ej: 25000 → "25.000", -1000000 → "-1.000.000"
func formatQty(v int64) string {
	s := strconv.FormatInt(v, 10)
	sign := ""
	if v < 0 {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
