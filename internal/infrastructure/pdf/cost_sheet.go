// Package pdf implementa la generación de la hoja de costos de un ítem.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + NIT  │  HOJA DE COSTOS + SKU        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ÍTEM: Nombre + tipo + estado                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: campos de costo (unitario, último directo, lista)    │
//	│  MÉTODO: nombre + descripción                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: candidatos de compra (proveedor, costo, vigencia)    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESULTADO: COSTO COMERCIAL calculado por el motor           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

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
	"github.com/shopspring/decimal"

	appreport "github.com/costeopro/costeo-api/internal/application/report"
	"github.com/costeopro/costeo-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoSheetGenerator implementa report.CostSheetGenerator usando Maroto v2.
type MarotoSheetGenerator struct{}

var _ appreport.CostSheetGenerator = (*MarotoSheetGenerator)(nil)

// NewMarotoSheetGenerator construye el generador.
func NewMarotoSheetGenerator() *MarotoSheetGenerator { return &MarotoSheetGenerator{} }

// GenerateCostSheet genera el PDF de la hoja de costos y devuelve sus bytes.
func (g *MarotoSheetGenerator) GenerateCostSheet(_ context.Context, data *appreport.CostSheetData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de Costos", true).
		WithAuthor(data.Company.Name, true).
		Build()

	m := maroto.New(cfg)

	// Header principal
	m.AddRows(headerRow(data.Company, data.Item))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(itemRow(data.Item))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Campos de costo + método
	m.AddRows(costFieldsRow(data.Item, data.Currency))
	m.AddRows(methodRow(data.Item))

	// Tabla de candidatos de compra
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(candidatesHeaderRow())
	for _, r := range candidateRows(data.Quotes, data.WinningPriceID) {
		m.AddRows(r)
	}
	if len(data.Quotes) == 0 {
		m.AddRows(row.New(7).Add(col.New(12).Add(
			text.New("Sin precios de compra vigentes; rige el respaldo de costos propios.", props.Text{
				Size: 8, Top: 1, Left: 1, Color: colorGray,
			}),
		)))
	}

	// Resultado
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(resultRow(data.ComputedCost, data.Currency))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: razón social + NIT (izq) y título + SKU (der).
func headerRow(company *entity.Company, item *entity.Item) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIT: "+company.NIT, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("HOJA DE COSTOS", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(item.SKU, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Actualizado: "+item.UpdatedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// itemRow: datos generales del ítem.
func itemRow(item *entity.Item) core.Row {
	estado := "Activo"
	if !item.Active {
		estado = "Inactivo"
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("ÍTEM", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(item.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Tipo: %s   |   Estado: %s", item.ItemType, estado),
				props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// costFieldsRow: los campos de entrada del costeo, en dos columnas.
func costFieldsRow(item *entity.Item, currency string) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 8, Top: top, Color: colorGray})
	}
	return row.New(24).Add(
		col.New(6).Add(
			label("Costo unitario:", 1),
			value(currency+" "+formatMoney(item.UnitCost), 1),
			label("Último costo directo:", 7),
			value(currency+" "+formatMoney(item.LastDirectCost), 7),
		),
		col.New(6).Add(
			label("Precio de lista:", 1),
			value(currency+" "+formatMoney(item.UnitPrice), 1),
			label("Descuento:", 7),
			value(item.DiscountPercentage.StringFixed(2)+" %", 7),
		),
	)
}

// methodRow: método de cálculo vigente con su descripción.
func methodRow(item *entity.Item) core.Row {
	name := string(item.CalcMethod)
	if name == "" {
		name = "(en blanco)"
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("MÉTODO DE CÁLCULO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s — %s", name, item.CalcMethod.Description()),
				props.Text{Size: 9, Top: 7}),
		),
	)
}

// candidatesHeaderRow: cabecera de la tabla de candidatos de compra.
func candidatesHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Proveedor", 5, align.Left),
		h("Costo directo", 3, align.Right),
		h("Vigente desde", 2, align.Center),
		h("Resultado", 2, align.Center),
	)
}

// candidateRows: una fila por precio de compra; marca el candidato ganador.
func candidateRows(quotes []appreport.QuoteForSheet, winningPriceID string) []core.Row {
	result := make([]core.Row, 0, len(quotes))
	for _, q := range quotes {
		marker := ""
		style := fontstyle.Normal
		if winningPriceID != "" && q.Price.ID == winningPriceID {
			marker = "GANADOR"
			style = fontstyle.Bold
		}
		result = append(result, row.New(7).Add(
			col.New(5).Add(text.New(
				q.VendorName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1, Style: style},
			)),
			col.New(3).Add(text.New(
				"$"+formatMoney(q.Price.DirectUnitCost),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Style: style},
			)),
			col.New(2).Add(text.New(
				q.Price.StartDate.Format("02/01/2006"),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				marker,
				props.Text{Size: 8, Align: align.Center, Top: 1, Style: fontstyle.Bold, Color: colorPrimary},
			)),
		))
	}
	return result
}

// resultRow: el costo comercial que arroja el motor, destacado.
func resultRow(computed decimal.Decimal, currency string) core.Row {
	return row.New(16).Add(
		col.New(6).Add(
			text.New("COSTO COMERCIAL:", props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right,
				Color: colorPrimary, Top: 4, Right: 2,
			}),
		),
		col.New(6).Add(
			text.New(currency+" "+formatMoney(computed), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Left,
				Color: colorPrimary, Top: 4, Left: 1,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatMoney formatea un decimal con puntos de miles y coma decimal.
// Ej: 25000.5 → "25.000,50", 1000000 → "1.000.000,00"
func formatMoney(d decimal.Decimal) string {
	s := d.Round(2).StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, decPart, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, intPart[i])
	}
	out := string(buf) + "," + decPart
	if neg {
		out = "-" + out
	}
	return out
}
