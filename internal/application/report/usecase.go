package report

import (
	"context"
	"fmt"

	"github.com/costeopro/costeo-api/internal/domain"
	"github.com/costeopro/costeo-api/internal/domain/costing"
	"github.com/costeopro/costeo-api/internal/domain/entity"
	"github.com/costeopro/costeo-api/internal/domain/repository"
	"github.com/costeopro/costeo-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// exportPageSize tamaño de página al recorrer el maestro completo para exportar.
const exportPageSize = 100

// ReportUseCase genera la hoja de costos PDF de un ítem y la exportación XML
// del catálogo de la empresa.
type ReportUseCase struct {
	itemRepo    repository.ItemRepository
	priceRepo   repository.PurchasePriceRepository
	vendorRepo  repository.VendorRepository
	companyRepo repository.CompanyRepository
	engine      *costing.Engine
	sheets      CostSheetGenerator
	exporter    CatalogExporter
	currency    string
	log         *logger.Logger
}

// NewReportUseCase construye el caso de uso inyectando todas sus dependencias.
func NewReportUseCase(
	itemRepo repository.ItemRepository,
	priceRepo repository.PurchasePriceRepository,
	vendorRepo repository.VendorRepository,
	companyRepo repository.CompanyRepository,
	engine *costing.Engine,
	sheets CostSheetGenerator,
	exporter CatalogExporter,
	currency string,
	log *logger.Logger,
) *ReportUseCase {
	return &ReportUseCase{
		itemRepo:    itemRepo,
		priceRepo:   priceRepo,
		vendorRepo:  vendorRepo,
		companyRepo: companyRepo,
		engine:      engine,
		sheets:      sheets,
		exporter:    exporter,
		currency:    currency,
		log:         log,
	}
}

// DownloadCostSheet arma la hoja de costos de un ítem: carga ítem, empresa y
// candidatos de compra, pasa el estado por el motor para obtener el costo
// comercial vigente y delega el armado del PDF al generador.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si el ítem no existe.
//   - domain.ErrForbidden       si el ítem no pertenece a la empresa del token.
func (uc *ReportUseCase) DownloadCostSheet(ctx context.Context, companyID, itemID string) (pdfBytes []byte, filename string, err error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, "", fmt.Errorf("hoja de costos: obtener ítem: %w", err)
	}
	if item == nil {
		return nil, "", domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, "", domain.ErrForbidden
	}

	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil || company == nil {
		return nil, "", fmt.Errorf("hoja de costos: obtener empresa: %w", err)
	}

	prices, err := uc.priceRepo.ListByItem(itemID)
	if err != nil {
		return nil, "", fmt.Errorf("hoja de costos: obtener precios de compra: %w", err)
	}

	quotes := make([]QuoteForSheet, 0, len(prices))
	for _, p := range prices {
		name := "Proveedor " + p.VendorID // fallback
		if vendor, vErr := uc.vendorRepo.GetByID(p.VendorID); vErr == nil && vendor != nil {
			name = vendor.Name
		}
		quotes = append(quotes, QuoteForSheet{Price: *p, VendorName: name})
	}

	computed, err := uc.engine.Recalculate(item, prices)
	if err != nil {
		return nil, "", fmt.Errorf("hoja de costos: recalcular: %w", err)
	}

	data := &CostSheetData{
		Company:        company,
		Item:           item,
		Quotes:         quotes,
		ComputedCost:   computed,
		WinningPriceID: winningPriceID(item, prices, computed),
		Currency:       uc.currency,
	}
	pdfBytes, err = uc.sheets.GenerateCostSheet(ctx, data)
	if err != nil {
		return nil, "", fmt.Errorf("hoja de costos: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("hoja_costos_%s.pdf", item.SKU)
	return pdfBytes, filename, nil
}

// ExportCatalog exporta el catálogo completo de la empresa como XML y devuelve
// también la huella canónica del documento.
func (uc *ReportUseCase) ExportCatalog(ctx context.Context, companyID string) (xmlBytes []byte, fingerprint, filename string, err error) {
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, "", "", fmt.Errorf("exportar catálogo: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, "", "", domain.ErrNotFound
	}

	var items []*entity.Item
	for offset := 0; ; offset += exportPageSize {
		page, err := uc.itemRepo.ListByCompany(companyID, exportPageSize, offset)
		if err != nil {
			return nil, "", "", fmt.Errorf("exportar catálogo: listar ítems: %w", err)
		}
		items = append(items, page...)
		if len(page) < exportPageSize {
			break
		}
	}

	xmlBytes, fingerprint, err = uc.exporter.ExportCatalog(ctx, company, items)
	if err != nil {
		return nil, "", "", fmt.Errorf("exportar catálogo: %w", err)
	}

	if uc.log != nil {
		uc.log.Info().
			Str("company_id", companyID).
			Int("items", len(items)).
			Str("huella", fingerprint).
			Msg("catálogo exportado")
	}
	filename = fmt.Sprintf("catalogo_%s.xml", company.NIT)
	return xmlBytes, fingerprint, filename, nil
}

// winningPriceID identifica el candidato de compra que determinó el costo
// comercial: solo aplica bajo costo máximo y cuando un precio de la lista (y no
// el respaldo de costos internos) alcanzó el máximo.
func winningPriceID(item *entity.Item, prices []*entity.PurchasePrice, computed decimal.Decimal) string {
	if item.CalcMethod != entity.CalcMethodMaximumCost {
		return ""
	}
	for _, p := range prices {
		if p.DirectUnitCost.Equal(computed) {
			return p.ID
		}
	}
	return ""
}
