package item

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/costeopro/costeo-api/internal/application/dto"
	"github.com/costeopro/costeo-api/internal/domain"
	"github.com/costeopro/costeo-api/internal/domain/costing"
	"github.com/costeopro/costeo-api/internal/domain/entity"
	"github.com/costeopro/costeo-api/internal/domain/repository"
	"github.com/costeopro/costeo-api/pkg/logger"
)

// ItemUseCase casos de uso del maestro de ítems: CRUD y operaciones de costeo.
// Todo cambio de un campo relevante recalcula el costo comercial vía el motor
// dentro de una transacción con bloqueo de fila (SELECT FOR UPDATE), y todo
// persist pasa por el motor antes de escribir. Cada recálculo aplicado deja
// huella de auditoría en el log.
type ItemUseCase struct {
	txRunner  TxRunner
	itemRepo  repository.ItemRepository
	priceRepo repository.PurchasePriceRepository
	engine    *costing.Engine
	log       *logger.Logger
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	priceRepo repository.PurchasePriceRepository,
	engine *costing.Engine,
	log *logger.Logger,
) *ItemUseCase {
	return &ItemUseCase{
		txRunner:  txRunner,
		itemRepo:  itemRepo,
		priceRepo: priceRepo,
		engine:    engine,
		log:       log,
	}
}

// Create crea un ítem. El método de cálculo arranca en blanco y el costo
// comercial sale del motor antes del primer persist.
func (uc *ItemUseCase) Create(companyID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	existing, _ := uc.itemRepo.GetByCompanyAndSKU(companyID, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	switch in.ItemType {
	case entity.ItemTypeInventory, entity.ItemTypeNonInventory, entity.ItemTypeService:
	default:
		return nil, domain.ErrInvalidInput
	}
	if in.UnitCost.LessThan(decimal.Zero) || in.UnitPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	item := &entity.Item{
		ID:                 uuid.New().String(),
		CompanyID:          companyID,
		SKU:                in.SKU,
		Name:               in.Name,
		Description:        in.Description,
		ItemType:           in.ItemType,
		UnitCost:           in.UnitCost,
		LastDirectCost:     decimal.Zero,
		UnitPrice:          in.UnitPrice,
		CommercialCost:     decimal.Zero,
		CalcMethod:         entity.CalcMethodBlank,
		DiscountPercentage: decimal.Zero,
		Active:             true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	cost, err := uc.engine.Recalculate(item, nil)
	if err != nil {
		return nil, err
	}
	item.CommercialCost = cost
	if err := uc.itemRepo.Create(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un ítem por ID.
func (uc *ItemUseCase) GetByID(id string) (*dto.ItemResponse, error) {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return toItemResponse(item), nil
}

// Update actualiza datos descriptivos del ítem. Los campos de costeo no se
// tocan aquí, pero el persist igual pasa por el motor (recomputación final
// antes de escribir).
func (uc *ItemUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if err := uc.checkOwnership(companyID, id); err != nil {
		return nil, err
	}
	var updated *entity.Item
	err := uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, priceRepo repository.PurchasePriceRepository) error {
		item, err := itemRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if in.Name != nil {
			item.Name = *in.Name
		}
		if in.Description != nil {
			item.Description = *in.Description
		}
		if in.Active != nil {
			item.Active = *in.Active
		}
		if err := uc.recalculateLocked(item, priceRepo); err != nil {
			return err
		}
		item.UpdatedAt = time.Now()
		if err := itemRepo.Update(item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toItemResponse(updated), nil
}

// List lista ítems por empresa con paginación.
func (uc *ItemUseCase) List(companyID string, limit, offset int) (*dto.ItemListResponse, error) {
	list, err := uc.itemRepo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un ítem por ID (verifica pertenencia a la empresa).
func (uc *ItemUseCase) Delete(companyID, id string) error {
	if err := uc.checkOwnership(companyID, id); err != nil {
		return err
	}
	return uc.itemRepo.Delete(id)
}

// ── operaciones de costeo ─────────────────────────────────────────────────────

// ChangeCalcMethod cambia el método de cálculo. Al salir del método de
// descuento el descuento queda en 0; todo método salvo el manual recalcula de
// inmediato, y un recálculo ilegal (ej. descuento sin precio de lista) bloquea
// el cambio completo.
func (uc *ItemUseCase) ChangeCalcMethod(ctx context.Context, companyID, id string, in dto.ChangeCalcMethodRequest) (*dto.CostingResponse, error) {
	if err := uc.checkOwnership(companyID, id); err != nil {
		return nil, err
	}
	newMethod := entity.CalcMethod(in.CalcMethod)
	var updated *entity.Item
	err := uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, priceRepo repository.PurchasePriceRepository) error {
		item, err := itemRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		before := costing.CostDigest(item)

		recalcRequired, err := uc.engine.ValidateMethodChange(item.CalcMethod, newMethod, item)
		if err != nil {
			return err
		}
		item.CalcMethod = newMethod
		if ed := uc.engine.ComputeEditability(item); ed.ResetDiscount {
			item.DiscountPercentage = decimal.Zero
		}
		if recalcRequired {
			if err := uc.recalculateLocked(item, priceRepo); err != nil {
				return err
			}
		}
		item.UpdatedAt = time.Now()
		if err := itemRepo.UpdateCosting(item); err != nil {
			return err
		}
		uc.auditRecalc(item, before, "cambio de método de cálculo")
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toCostingResponse(updated, false), nil
}

// ChangeDiscountPercentage fija el porcentaje de descuento. Solo legal bajo el
// método de descuento con precio de lista válido y valor en [0,100]; tras fijar
// recalcula el costo comercial.
func (uc *ItemUseCase) ChangeDiscountPercentage(ctx context.Context, companyID, id string, in dto.ChangeDiscountRequest) (*dto.CostingResponse, error) {
	if err := uc.checkOwnership(companyID, id); err != nil {
		return nil, err
	}
	var updated *entity.Item
	err := uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, priceRepo repository.PurchasePriceRepository) error {
		item, err := itemRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		before := costing.CostDigest(item)

		if err := uc.engine.ValidateDiscountEdit(item, in.DiscountPercentage); err != nil {
			return err
		}
		item.DiscountPercentage = in.DiscountPercentage.Round(2)
		if err := uc.recalculateLocked(item, priceRepo); err != nil {
			return err
		}
		item.UpdatedAt = time.Now()
		if err := itemRepo.UpdateCosting(item); err != nil {
			return err
		}
		uc.auditRecalc(item, before, "cambio de porcentaje de descuento")
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toCostingResponse(updated, false), nil
}

// ChangeUnitPrice cambia el precio de lista. Bajo el método de descuento con
// el precio nuevo en 0 el descuento se fuerza a 0 y el costo comercial queda
// pendiente hasta volver a tener precio válido; en el resto de casos recalcula.
func (uc *ItemUseCase) ChangeUnitPrice(ctx context.Context, companyID, id string, in dto.ChangeUnitPriceRequest) (*dto.CostingResponse, error) {
	if err := uc.checkOwnership(companyID, id); err != nil {
		return nil, err
	}
	if in.UnitPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.Item
	var forced bool
	err := uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, priceRepo repository.PurchasePriceRepository) error {
		item, err := itemRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		before := costing.CostDigest(item)

		forced = uc.engine.ValidateUnitPriceChange(item, in.UnitPrice)
		item.UnitPrice = in.UnitPrice
		if forced {
			item.DiscountPercentage = decimal.Zero
		} else {
			if err := uc.recalculateLocked(item, priceRepo); err != nil {
				return err
			}
		}
		item.UpdatedAt = time.Now()
		if err := itemRepo.UpdateCosting(item); err != nil {
			return err
		}
		uc.auditRecalc(item, before, "cambio de precio de lista")
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toCostingResponse(updated, forced), nil
}

// ChangeUnitCost cambia el costo unitario y recalcula.
func (uc *ItemUseCase) ChangeUnitCost(ctx context.Context, companyID, id string, in dto.ChangeUnitCostRequest) (*dto.CostingResponse, error) {
	if in.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	return uc.changeCostField(ctx, companyID, id, "cambio de costo unitario", func(item *entity.Item) {
		item.UnitCost = in.UnitCost
	})
}

// ChangeLastDirectCost cambia el último costo directo y recalcula.
func (uc *ItemUseCase) ChangeLastDirectCost(ctx context.Context, companyID, id string, in dto.ChangeLastDirectCostRequest) (*dto.CostingResponse, error) {
	if in.LastDirectCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	return uc.changeCostField(ctx, companyID, id, "cambio de último costo directo", func(item *entity.Item) {
		item.LastDirectCost = in.LastDirectCost
	})
}

// SetCommercialCost fija el costo comercial directo. Solo legal bajo el método
// especificado manualmente; el recálculo final respeta el valor fijado.
func (uc *ItemUseCase) SetCommercialCost(ctx context.Context, companyID, id string, in dto.SetCommercialCostRequest) (*dto.CostingResponse, error) {
	if err := uc.checkOwnership(companyID, id); err != nil {
		return nil, err
	}
	if in.CommercialCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.Item
	err := uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, priceRepo repository.PurchasePriceRepository) error {
		item, err := itemRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		before := costing.CostDigest(item)

		if err := uc.engine.ValidateCommercialCostEdit(item); err != nil {
			return err
		}
		item.CommercialCost = in.CommercialCost
		if err := uc.recalculateLocked(item, priceRepo); err != nil {
			return err
		}
		item.UpdatedAt = time.Now()
		if err := itemRepo.UpdateCosting(item); err != nil {
			return err
		}
		uc.auditRecalc(item, before, "costo comercial fijado a mano")
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toCostingResponse(updated, false), nil
}

// Recalculate recalcula el costo comercial del ítem con su método actual.
// Lo disparan también las mutaciones de precios de compra y el pre-persist.
func (uc *ItemUseCase) Recalculate(ctx context.Context, companyID, id string) (*dto.CostingResponse, error) {
	if err := uc.checkOwnership(companyID, id); err != nil {
		return nil, err
	}
	var updated *entity.Item
	err := uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, priceRepo repository.PurchasePriceRepository) error {
		item, err := itemRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		before := costing.CostDigest(item)

		if err := uc.recalculateLocked(item, priceRepo); err != nil {
			return err
		}
		item.UpdatedAt = time.Now()
		if err := itemRepo.UpdateCosting(item); err != nil {
			return err
		}
		uc.auditRecalc(item, before, "recálculo explícito")
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toCostingResponse(updated, false), nil
}

// RecalculateItemInTx recalcula y persiste el costo del ítem usando los
// repositorios del caller (misma transacción). Lo usa el módulo de compras
// cuando una mutación de precios afecta a un ítem con método de costo máximo.
func (uc *ItemUseCase) RecalculateItemInTx(
	itemRepo repository.ItemRepository,
	priceRepo repository.PurchasePriceRepository,
	itemID string,
) error {
	item, err := itemRepo.GetForUpdate(itemID)
	if err != nil {
		return err
	}
	before := costing.CostDigest(item)
	if err := uc.recalculateLocked(item, priceRepo); err != nil {
		return err
	}
	item.UpdatedAt = time.Now()
	if err := itemRepo.UpdateCosting(item); err != nil {
		return err
	}
	uc.auditRecalc(item, before, "recálculo por cambio de precios de compra")
	return nil
}

// Editability estado derivado de edición para el formulario. FieldsVisible
// aplica la política del controlador: los campos de costeo se ocultan para
// ítems que no son de inventario. Consulta pura, nada se cachea ni se muta.
func (uc *ItemUseCase) Editability(companyID, id string) (*dto.EditabilityResponse, error) {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	ed := uc.engine.ComputeEditability(item)
	return &dto.EditabilityResponse{
		CommercialCostEditable: ed.CommercialCostEditable,
		DiscountEditable:       ed.DiscountEditable,
		FieldsVisible:          item.IsInventory(),
	}, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

// changeCostField patrón común de UnitCost/LastDirectCost: bloquear, mutar,
// recalcular, persistir, auditar.
func (uc *ItemUseCase) changeCostField(ctx context.Context, companyID, id, motivo string, mutate func(*entity.Item)) (*dto.CostingResponse, error) {
	if err := uc.checkOwnership(companyID, id); err != nil {
		return nil, err
	}
	var updated *entity.Item
	err := uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, priceRepo repository.PurchasePriceRepository) error {
		item, err := itemRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		before := costing.CostDigest(item)

		mutate(item)
		if err := uc.recalculateLocked(item, priceRepo); err != nil {
			return err
		}
		item.UpdatedAt = time.Now()
		if err := itemRepo.UpdateCosting(item); err != nil {
			return err
		}
		uc.auditRecalc(item, before, motivo)
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toCostingResponse(updated, false), nil
}

// recalculateLocked recalcula el costo comercial del ítem ya bloqueado. Solo
// el método de costo máximo necesita la lista de precios de compra.
func (uc *ItemUseCase) recalculateLocked(item *entity.Item, priceRepo repository.PurchasePriceRepository) error {
	var prices []*entity.PurchasePrice
	if item.CalcMethod == entity.CalcMethodMaximumCost {
		var err error
		prices, err = priceRepo.ListByItem(item.ID)
		if err != nil {
			return err
		}
	}
	cost, err := uc.engine.Recalculate(item, prices)
	if err != nil {
		return err
	}
	item.CommercialCost = cost
	return nil
}

func (uc *ItemUseCase) checkOwnership(companyID, id string) error {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return nil
}

// auditRecalc deja la huella del recálculo en el log (antes/después).
func (uc *ItemUseCase) auditRecalc(item *entity.Item, beforeDigest, motivo string) {
	if uc.log == nil {
		return
	}
	uc.log.Info().
		Str("item_id", item.ID).
		Str("sku", item.SKU).
		Str("metodo", string(item.CalcMethod)).
		Str("huella_antes", beforeDigest).
		Str("huella_despues", costing.CostDigest(item)).
		Str("motivo", motivo).
		Msg("costo comercial recalculado")
}

func (uc *ItemUseCase) toCostingResponse(item *entity.Item, forced bool) *dto.CostingResponse {
	return &dto.CostingResponse{
		Item:                *toItemResponse(item),
		ForcedDiscountReset: forced,
		CostDigest:          costing.CostDigest(item),
	}
}

func toItemResponse(i *entity.Item) *dto.ItemResponse {
	if i == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:                    i.ID,
		CompanyID:             i.CompanyID,
		SKU:                   i.SKU,
		Name:                  i.Name,
		Description:           i.Description,
		ItemType:              i.ItemType,
		UnitCost:              i.UnitCost,
		LastDirectCost:        i.LastDirectCost,
		UnitPrice:             i.UnitPrice,
		CommercialCost:        i.CommercialCost,
		CalcMethod:            string(i.CalcMethod),
		CalcMethodDescription: i.CalcMethod.Description(),
		DiscountPercentage:    i.DiscountPercentage,
		Active:                i.Active,
		CreatedAt:             i.CreatedAt,
		UpdatedAt:             i.UpdatedAt,
	}
}
