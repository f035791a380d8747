// Package pdf genera el reporte de reposición de stock bajo.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + bodega     │  Fecha de generación         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: agotados / bajos                                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | SKU | Cant | Umbral | Estado | Sugerido   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: total de unidades sugeridas                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Tienda-api/internal/application/inventory"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

var _ inventory.LowStockPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 180, Green: 30, Blue: 30}
	colorWarning = &props.Color{Red: 200, Green: 120, Blue: 0}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa inventory.LowStockPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// Generate genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) Generate(report *inventory.LowStockReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de stock bajo", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report.Lines))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(report.Lines) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin productos bajo el umbral de stock.", props.Text{
				Size: 9, Align: align.Center, Top: 3, Color: colorGray,
			}),
		)))
	}
	for _, r := range tableDetailRows(report.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(report.Lines))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report *inventory.LowStockReport) core.Row {
	warehouse := nonEmpty(report.WarehouseName, "Todas las bodegas")
	return row.New(16).Add(
		col.New(8).Add(
			text.New("REPORTE DE STOCK BAJO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Bodega: "+warehouse, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Align: align.Right, Top: 7,
			}),
		),
	)
}

// summaryRow: conteo de filas por nivel.
func summaryRow(lines []inventory.LowStockLine) core.Row {
	var out, low int
	for _, l := range lines {
		if l.Status == entity.StockStatusOutOfStock {
			out++
		} else {
			low++
		}
	}
	cell := func(label string, n int, c *props.Color) core.Col {
		return col.New(6).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Center, Color: c, Top: 1}),
			text.New(strconv.Itoa(n), props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Center, Top: 6}),
		)
	}
	return row.New(14).Add(
		cell("AGOTADOS", out, colorDanger),
		cell("BAJOS", low, colorWarning),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 4, align.Left),
		h("SKU", 3, align.Left),
		h("Cant.", 1, align.Center),
		h("Umbral", 1, align.Center),
		h("Estado", 2, align.Center),
		h("Sugerido", 1, align.Right),
	)
}

// tableDetailRows: una fila por línea del reporte.
func tableDetailRows(lines []inventory.LowStockLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(l.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(l.SKU, props.Text{Size: 7, Top: 1.5, Left: 1, Color: colorGray})),
			col.New(1).Add(text.New(strconv.Itoa(l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(strconv.Itoa(l.Threshold), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(statusLabel(l.Status), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 1, Color: statusColor(l.Status),
			})),
			col.New(1).Add(text.New(strconv.Itoa(l.SuggestedQty), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalsRow(lines []inventory.LowStockLine) core.Row {
	total := 0
	for _, l := range lines {
		total += l.SuggestedQty
	}
	return row.New(10).Add(
		col.New(8),
		col.New(3).Add(text.New("Total sugerido:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(1).Add(text.New(strconv.Itoa(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func statusLabel(status string) string {
	switch status {
	case entity.StockStatusOutOfStock:
		return "Agotado"
	case entity.StockStatusLowStock:
		return "Bajo"
	}
	return status
}

func statusColor(status string) *props.Color {
	switch status {
	case entity.StockStatusOutOfStock:
		return colorDanger
	case entity.StockStatusLowStock:
		return colorWarning
	}
	return colorGray
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
