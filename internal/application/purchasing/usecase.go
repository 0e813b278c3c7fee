package purchasing

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/costeopro/costeo-api/internal/application/dto"
	"github.com/costeopro/costeo-api/internal/domain"
	"github.com/costeopro/costeo-api/internal/domain/entity"
	"github.com/costeopro/costeo-api/internal/domain/repository"
	"github.com/costeopro/costeo-api/pkg/logger"
)

// PurchasingUseCase casos de uso de compras: proveedores y precios de compra.
// Toda mutación de precios corre en transacción con el ítem bloqueado; si el
// método del ítem es costo máximo, el costo comercial se recalcula en la misma
// transacción (la lista de precios es insumo directo de ese método).
type PurchasingUseCase struct {
	txRunner   TxRunner
	costingUC  CostingUseCase
	itemRepo   repository.ItemRepository
	priceRepo  repository.PurchasePriceRepository
	vendorRepo repository.VendorRepository
	log        *logger.Logger
}

// NewPurchasingUseCase construye el caso de uso de compras.
func NewPurchasingUseCase(
	txRunner TxRunner,
	costingUC CostingUseCase,
	itemRepo repository.ItemRepository,
	priceRepo repository.PurchasePriceRepository,
	vendorRepo repository.VendorRepository,
	log *logger.Logger,
) *PurchasingUseCase {
	return &PurchasingUseCase{
		txRunner:   txRunner,
		costingUC:  costingUC,
		itemRepo:   itemRepo,
		priceRepo:  priceRepo,
		vendorRepo: vendorRepo,
		log:        log,
	}
}

// ── proveedores ──────────────────────────────────────────────────────────────

// CreateVendor crea un proveedor para la empresa.
func (uc *PurchasingUseCase) CreateVendor(companyID string, in dto.CreateVendorRequest) (*dto.VendorResponse, error) {
	if in.Name == "" || in.NIT == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	vendor := &entity.Vendor{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		NIT:       in.NIT,
		Email:     in.Email,
		Phone:     in.Phone,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.vendorRepo.Create(vendor); err != nil {
		return nil, err
	}
	return toVendorResponse(vendor), nil
}

// GetVendor obtiene un proveedor de la empresa.
func (uc *PurchasingUseCase) GetVendor(companyID, id string) (*dto.VendorResponse, error) {
	vendor, err := uc.vendorOwnedBy(companyID, id)
	if err != nil {
		return nil, err
	}
	return toVendorResponse(vendor), nil
}

// UpdateVendor actualiza un proveedor de la empresa (campos opcionales).
func (uc *PurchasingUseCase) UpdateVendor(companyID, id string, in dto.UpdateVendorRequest) (*dto.VendorResponse, error) {
	vendor, err := uc.vendorOwnedBy(companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		vendor.Name = *in.Name
	}
	if in.Email != nil {
		vendor.Email = *in.Email
	}
	if in.Phone != nil {
		vendor.Phone = *in.Phone
	}
	if in.Active != nil {
		vendor.Active = *in.Active
	}
	vendor.UpdatedAt = time.Now()
	if err := uc.vendorRepo.Update(vendor); err != nil {
		return nil, err
	}
	return toVendorResponse(vendor), nil
}

// ListVendors lista proveedores por empresa con paginación.
func (uc *PurchasingUseCase) ListVendors(companyID string, limit, offset int) (*dto.VendorListResponse, error) {
	list, err := uc.vendorRepo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VendorResponse, 0, len(list))
	for _, v := range list {
		items = append(items, *toVendorResponse(v))
	}
	return &dto.VendorListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// DeleteVendor elimina un proveedor de la empresa.
func (uc *PurchasingUseCase) DeleteVendor(companyID, id string) error {
	if _, err := uc.vendorOwnedBy(companyID, id); err != nil {
		return err
	}
	return uc.vendorRepo.Delete(id)
}

// ── precios de compra ────────────────────────────────────────────────────────

// CreatePurchasePrice publica un precio de compra de proveedor para un ítem.
// Si el método del ítem es costo máximo, recalcula en la misma transacción.
func (uc *PurchasingUseCase) CreatePurchasePrice(ctx context.Context, companyID string, in dto.CreatePurchasePriceRequest) (*dto.PurchasePriceResponse, error) {
	if in.DirectUnitCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.vendorOwnedBy(companyID, in.VendorID); err != nil {
		return nil, err
	}
	now := time.Now()
	startDate := now
	if in.StartDate != nil {
		startDate = *in.StartDate
	}
	price := &entity.PurchasePrice{
		ID:             uuid.New().String(),
		CompanyID:      companyID,
		ItemID:         in.ItemID,
		VendorID:       in.VendorID,
		DirectUnitCost: in.DirectUnitCost,
		StartDate:      startDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err := uc.mutatePrices(ctx, companyID, in.ItemID, func(priceRepo repository.PurchasePriceRepository) error {
		return priceRepo.Create(price)
	})
	if err != nil {
		return nil, err
	}
	uc.logPriceEvent("precio de compra publicado", price)
	return toPriceResponse(price), nil
}

// UpdatePurchasePrice corrige un precio de compra existente. Si el método del
// ítem afectado es costo máximo, recalcula en la misma transacción.
func (uc *PurchasingUseCase) UpdatePurchasePrice(ctx context.Context, companyID, id string, in dto.UpdatePurchasePriceRequest) (*dto.PurchasePriceResponse, error) {
	price, err := uc.priceOwnedBy(companyID, id)
	if err != nil {
		return nil, err
	}
	if in.DirectUnitCost != nil {
		if in.DirectUnitCost.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		price.DirectUnitCost = *in.DirectUnitCost
	}
	if in.StartDate != nil {
		price.StartDate = *in.StartDate
	}
	price.UpdatedAt = time.Now()
	err = uc.mutatePrices(ctx, companyID, price.ItemID, func(priceRepo repository.PurchasePriceRepository) error {
		return priceRepo.Update(price)
	})
	if err != nil {
		return nil, err
	}
	uc.logPriceEvent("precio de compra corregido", price)
	return toPriceResponse(price), nil
}

// DeletePurchasePrice retira un precio de compra. Si el método del ítem
// afectado es costo máximo, recalcula en la misma transacción.
func (uc *PurchasingUseCase) DeletePurchasePrice(ctx context.Context, companyID, id string) error {
	price, err := uc.priceOwnedBy(companyID, id)
	if err != nil {
		return err
	}
	err = uc.mutatePrices(ctx, companyID, price.ItemID, func(priceRepo repository.PurchasePriceRepository) error {
		return priceRepo.Delete(id)
	})
	if err != nil {
		return err
	}
	uc.logPriceEvent("precio de compra retirado", price)
	return nil
}

// ListPricesByItem lista los precios de compra vigentes de un ítem de la empresa.
func (uc *PurchasingUseCase) ListPricesByItem(companyID, itemID string) ([]dto.PurchasePriceResponse, error) {
	if _, err := uc.itemOwnedBy(companyID, itemID); err != nil {
		return nil, err
	}
	prices, err := uc.priceRepo.ListByItem(itemID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchasePriceResponse, 0, len(prices))
	for _, p := range prices {
		out = append(out, *toPriceResponse(p))
	}
	return out, nil
}

// BestPrices devuelve el ranking de precios de compra de un ítem, del más
// conveniente al menos conveniente: menor costo directo primero (orden estable,
// espejo del lado de compras de la selección por máximo del motor). Incluye el
// ahorro de cada candidato frente al costo comercial vigente.
func (uc *PurchasingUseCase) BestPrices(companyID, itemID string) (*dto.BestPriceResponse, error) {
	item, err := uc.itemOwnedBy(companyID, itemID)
	if err != nil {
		return nil, err
	}
	prices, err := uc.priceRepo.ListByItem(itemID)
	if err != nil {
		return nil, err
	}

	// Resolver nombres de proveedor una sola vez por vendor_id
	vendorNames := make(map[string]string)
	for _, p := range prices {
		if _, ok := vendorNames[p.VendorID]; ok {
			continue
		}
		vendor, err := uc.vendorRepo.GetByID(p.VendorID)
		if err != nil {
			return nil, err
		}
		if vendor != nil {
			vendorNames[p.VendorID] = vendor.Name
		}
	}

	quotes := make([]dto.VendorQuoteDTO, 0, len(prices))
	for _, p := range prices {
		quotes = append(quotes, dto.VendorQuoteDTO{
			PurchasePriceID:   p.ID,
			VendorID:          p.VendorID,
			VendorName:        vendorNames[p.VendorID],
			DirectUnitCost:    p.DirectUnitCost,
			StartDate:         p.StartDate,
			SavingsVsCommCost: item.CommercialCost.Sub(p.DirectUnitCost).Round(2),
		})
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].DirectUnitCost.LessThan(quotes[j].DirectUnitCost)
	})
	for i := range quotes {
		quotes[i].Priority = i + 1
	}

	return &dto.BestPriceResponse{
		ItemID: item.ID,
		SKU:    item.SKU,
		Quotes: quotes,
	}, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

// mutatePrices ejecuta la mutación de precios con la fila del ítem bloqueada y
// dispara el recálculo en la misma transacción cuando el método lo requiere.
// El bloqueo va antes de la mutación para serializar contra otros recálculos.
func (uc *PurchasingUseCase) mutatePrices(ctx context.Context, companyID, itemID string, mutate func(priceRepo repository.PurchasePriceRepository) error) error {
	return uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, priceRepo repository.PurchasePriceRepository) error {
		item, err := itemRepo.GetForUpdate(itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if item.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if err := mutate(priceRepo); err != nil {
			return err
		}
		if item.CalcMethod == entity.CalcMethodMaximumCost {
			return uc.costingUC.RecalculateItemInTx(itemRepo, priceRepo, itemID)
		}
		return nil
	})
}

func (uc *PurchasingUseCase) itemOwnedBy(companyID, itemID string) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return item, nil
}

func (uc *PurchasingUseCase) vendorOwnedBy(companyID, vendorID string) (*entity.Vendor, error) {
	vendor, err := uc.vendorRepo.GetByID(vendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, domain.ErrNotFound
	}
	if vendor.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return vendor, nil
}

func (uc *PurchasingUseCase) priceOwnedBy(companyID, priceID string) (*entity.PurchasePrice, error) {
	price, err := uc.priceRepo.GetByID(priceID)
	if err != nil {
		return nil, err
	}
	if price == nil {
		return nil, domain.ErrNotFound
	}
	if price.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return price, nil
}

func (uc *PurchasingUseCase) logPriceEvent(msg string, p *entity.PurchasePrice) {
	if uc.log == nil {
		return
	}
	uc.log.Info().
		Str("purchase_price_id", p.ID).
		Str("item_id", p.ItemID).
		Str("vendor_id", p.VendorID).
		Str("costo_directo", p.DirectUnitCost.String()).
		Msg(msg)
}

func toVendorResponse(v *entity.Vendor) *dto.VendorResponse {
	if v == nil {
		return nil
	}
	return &dto.VendorResponse{
		ID:        v.ID,
		CompanyID: v.CompanyID,
		Name:      v.Name,
		NIT:       v.NIT,
		Email:     v.Email,
		Phone:     v.Phone,
		Active:    v.Active,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

func toPriceResponse(p *entity.PurchasePrice) *dto.PurchasePriceResponse {
	if p == nil {
		return nil
	}
	return &dto.PurchasePriceResponse{
		ID:             p.ID,
		CompanyID:      p.CompanyID,
		ItemID:         p.ItemID,
		VendorID:       p.VendorID,
		DirectUnitCost: p.DirectUnitCost,
		StartDate:      p.StartDate,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
