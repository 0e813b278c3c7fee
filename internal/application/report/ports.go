package report

import (
	"context"

	"github.com/costeopro/costeo-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// QuoteForSheet un precio de compra ya enriquecido con el nombre del proveedor
// para mostrarse en la tabla de candidatos de la hoja de costos.
type QuoteForSheet struct {
	Price      entity.PurchasePrice
	VendorName string
}

// CostSheetData datos ya resueltos para generar la hoja de costos de un ítem.
// ComputedCost es el costo comercial que arroja el motor con el estado actual;
// WinningPriceID marca el candidato que determinó ese costo (vacío cuando ganó
// el respaldo de costos internos o el método no consulta la lista).
type CostSheetData struct {
	Company        *entity.Company
	Item           *entity.Item
	Quotes         []QuoteForSheet
	ComputedCost   decimal.Decimal
	WinningPriceID string
	Currency       string
}

// CostSheetGenerator genera la hoja de costos PDF de un ítem.
type CostSheetGenerator interface {
	GenerateCostSheet(ctx context.Context, data *CostSheetData) ([]byte, error)
}

// CatalogExporter construye el catálogo XML de ítems de una empresa y devuelve
// además la huella canónica del documento (para comparar re-exportaciones).
type CatalogExporter interface {
	ExportCatalog(ctx context.Context, company *entity.Company, items []*entity.Item) (xmlBytes []byte, fingerprint string, err error)
}
