package item_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costeopro/costeo-api/internal/application/dto"
	"github.com/costeopro/costeo-api/internal/application/item"
	"github.com/costeopro/costeo-api/internal/domain"
	"github.com/costeopro/costeo-api/internal/domain/costing"
	"github.com/costeopro/costeo-api/internal/domain/entity"
	"github.com/costeopro/costeo-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del caso de uso de ítems sobre repositorios en memoria: orquestación
// de las operaciones de costeo (bloquear, validar, mutar, recalcular,
// persistir) y las reglas que cruzan motor y persistencia, como que una
// operación ilegal no deje rastro en el ítem guardado.
// ──────────────────────────────────────────────────────────────────────────────

const (
	companyA = "11111111-0000-0000-0000-0000000000aa"
	companyB = "22222222-0000-0000-0000-0000000000bb"
	itemID   = "33333333-0000-0000-0000-000000000001"
)

// ── creación ──────────────────────────────────────────────────────────────────

func TestCreate_CostoComercialSaleDelMotorAntesDelPrimerPersist(t *testing.T) {
	uc, items, _ := newFixture(t)

	out, err := uc.Create(companyA, dto.CreateItemRequest{
		SKU:      "SKU-100",
		Name:     "Lija de agua 220",
		ItemType: entity.ItemTypeInventory,
		UnitCost: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	assert.Equal(t, string(entity.CalcMethodBlank), out.CalcMethod, "Un ítem nuevo arranca con el método en blanco")
	assert.True(t, out.CommercialCost.Equal(decimal.NewFromInt(10)),
		"El costo comercial inicial debe venir del motor, no quedarse en 0; se obtuvo %s", out.CommercialCost)

	stored := items.mustGet(t, out.ID)
	assert.True(t, stored.CommercialCost.Equal(decimal.NewFromInt(10)),
		"El valor persistido debe coincidir con el calculado; se guardó %s", stored.CommercialCost)
}

func TestCreate_SKUDuplicadoEnLaEmpresa(t *testing.T) {
	uc, _, _ := newFixture(t)

	_, err := uc.Create(companyA, dto.CreateItemRequest{SKU: "SKU-100", Name: "Original", ItemType: entity.ItemTypeInventory})
	require.NoError(t, err)

	_, err = uc.Create(companyA, dto.CreateItemRequest{SKU: "SKU-100", Name: "Repetido", ItemType: entity.ItemTypeInventory})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "El SKU es único por empresa")

	_, err = uc.Create(companyB, dto.CreateItemRequest{SKU: "SKU-100", Name: "Otra empresa", ItemType: entity.ItemTypeInventory})
	assert.NoError(t, err, "El mismo SKU en otra empresa es legal")
}

func TestCreate_TipoDeItemInvalido(t *testing.T) {
	uc, _, _ := newFixture(t)

	_, err := uc.Create(companyA, dto.CreateItemRequest{SKU: "SKU-101", Name: "Tipo raro", ItemType: "bundle"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── cambio de método ──────────────────────────────────────────────────────────

func TestChangeCalcMethod_SalirDelDescuentoReseteaYRecalcula(t *testing.T) {
	uc, items, _ := newFixture(t)
	seedItem(items, func(it *entity.Item) {
		it.CalcMethod = entity.CalcMethodDiscountFromListPrice
		it.UnitPrice = decimal.NewFromInt(100)
		it.DiscountPercentage = decimal.NewFromInt(15)
		it.CommercialCost = decimal.NewFromInt(85)
		it.UnitCost = decimal.NewFromInt(40)
		it.LastDirectCost = decimal.NewFromInt(55)
	})

	out, err := uc.ChangeCalcMethod(context.Background(), companyA, itemID, dto.ChangeCalcMethodRequest{
		CalcMethod: string(entity.CalcMethodBlank),
	})
	require.NoError(t, err)

	assert.True(t, out.Item.DiscountPercentage.IsZero(),
		"Al salir del método de descuento el porcentaje debe quedar en 0; se obtuvo %s", out.Item.DiscountPercentage)
	assert.True(t, out.Item.CommercialCost.Equal(decimal.NewFromInt(55)),
		"El cambio de método debe recalcular con el método nuevo; se obtuvo %s", out.Item.CommercialCost)

	stored := items.mustGet(t, itemID)
	assert.Equal(t, entity.CalcMethodBlank, stored.CalcMethod)
	assert.True(t, stored.DiscountPercentage.IsZero(), "El reseteo del descuento debe persistirse")
}

func TestChangeCalcMethod_RecalculoIlegalBloqueaElCambioCompleto(t *testing.T) {
	uc, items, _ := newFixture(t)
	seedItem(items, func(it *entity.Item) {
		it.CalcMethod = entity.CalcMethodBlank
		it.UnitPrice = decimal.Zero
		it.UnitCost = decimal.NewFromInt(10)
		it.CommercialCost = decimal.NewFromInt(10)
	})

	_, err := uc.ChangeCalcMethod(context.Background(), companyA, itemID, dto.ChangeCalcMethodRequest{
		CalcMethod: string(entity.CalcMethodDiscountFromListPrice),
	})
	require.Error(t, err, "Cambiar a descuento sin precio de lista debe fallar en el recálculo")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.EqualError(t, err, costing.MsgUnitPriceRequired, "El mensaje al usuario es contrato y debe ser exacto")

	stored := items.mustGet(t, itemID)
	assert.Equal(t, entity.CalcMethodBlank, stored.CalcMethod,
		"Un cambio bloqueado no debe dejar el método a medias en la base")
	assert.Zero(t, items.updateCostingCalls, "Nada debe persistirse cuando el recálculo falla")
}

func TestChangeCalcMethod_AlManualNoRecalcula(t *testing.T) {
	uc, items, prices := newFixture(t)
	seedItem(items, func(it *entity.Item) {
		it.CalcMethod = entity.CalcMethodBlank
		it.UnitCost = decimal.NewFromInt(50)
		it.CommercialCost = decimal.NewFromInt(33)
	})

	out, err := uc.ChangeCalcMethod(context.Background(), companyA, itemID, dto.ChangeCalcMethodRequest{
		CalcMethod: string(entity.CalcMethodManuallySpecified),
	})
	require.NoError(t, err)

	assert.True(t, out.Item.CommercialCost.Equal(decimal.NewFromInt(33)),
		"Al entrar al método manual el costo vigente se conserva hasta que el usuario lo fije; se obtuvo %s", out.Item.CommercialCost)
	assert.Zero(t, prices.listByItemCalls, "Entrar al método manual no debe consultar precios de compra")
}

// ── descuento ─────────────────────────────────────────────────────────────────

func TestChangeDiscountPercentage_RecalculaYRedondeaADosDecimales(t *testing.T) {
	uc, items, _ := newFixture(t)
	seedItem(items, func(it *entity.Item) {
		it.CalcMethod = entity.CalcMethodDiscountFromListPrice
		it.UnitPrice = decimal.NewFromInt(200)
	})

	out, err := uc.ChangeDiscountPercentage(context.Background(), companyA, itemID, dto.ChangeDiscountRequest{
		DiscountPercentage: decimal.RequireFromString("12.505"),
	})
	require.NoError(t, err)

	assert.True(t, out.Item.DiscountPercentage.Equal(decimal.RequireFromString("12.51")),
		"El porcentaje se guarda con 2 decimales; se obtuvo %s", out.Item.DiscountPercentage)
	assert.True(t, out.Item.CommercialCost.Equal(decimal.RequireFromString("174.98")),
		"200 con 12.51%% de descuento debe costar 174.98; se obtuvo %s", out.Item.CommercialCost)
}

func TestChangeDiscountPercentage_FueraDelModoDescuentoNoPersisteNada(t *testing.T) {
	uc, items, _ := newFixture(t)
	seedItem(items, func(it *entity.Item) {
		it.CalcMethod = entity.CalcMethodMaximumCost
		it.UnitPrice = decimal.NewFromInt(100)
	})

	_, err := uc.ChangeDiscountPercentage(context.Background(), companyA, itemID, dto.ChangeDiscountRequest{
		DiscountPercentage: decimal.NewFromInt(10),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.EqualError(t, err, costing.MsgDiscountEditNotAllowed)
	assert.Zero(t, items.updateCostingCalls)
}

func TestChangeDiscountPercentage_FueraDeRango(t *testing.T) {
	uc, items, _ := newFixture(t)
	seedItem(items, func(it *entity.Item) {
		it.CalcMethod = entity.CalcMethodDiscountFromListPrice
		it.UnitPrice = decimal.NewFromInt(100)
	})

	_, err := uc.ChangeDiscountPercentage(context.Background(), companyA, itemID, dto.ChangeDiscountRequest{
		DiscountPercentage: decimal.RequireFromString("100.01"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOutOfRange)
	assert.EqualError(t, err, costing.MsgDiscountOutOfRange)
}

// ── precio de lista ───────────────────────────────────────────────────────────

func TestChangeUnitPrice_ACeroBajoDescuentoForzaReseteoSinRecalcular(t *testing.T) {
	uc, items, prices := newFixture(t)
	seedItem(items, func(it *entity.Item) {
		it.CalcMethod = entity.CalcMethodDiscountFromListPrice
		it.UnitPrice = decimal.NewFromInt(100)
		it.DiscountPercentage = decimal.NewFromInt(15)
		it.CommercialCost = decimal.NewFromInt(85)
	})

	out, err := uc.ChangeUnitPrice(context.Background(), companyA, itemID, dto.ChangeUnitPriceRequest{
		UnitPrice: decimal.Zero,
	})
	require.NoError(t, err)

	assert.True(t, out.ForcedDiscountReset, "La respuesta debe señalar el reseteo forzado para que el formulario avise")
	assert.True(t, out.Item.DiscountPercentage.IsZero())
	assert.True(t, out.Item.CommercialCost.Equal(decimal.NewFromInt(85)),
		"Sin precio de lista no hay recálculo: el costo vigente se conserva; se obtuvo %s", out.Item.CommercialCost)
	assert.Zero(t, prices.listByItemCalls)

	stored := items.mustGet(t, itemID)
	assert.True(t, stored.UnitPrice.IsZero(), "El precio nuevo sí debe persistirse")
	assert.True(t, stored.DiscountPercentage.IsZero(), "El reseteo forzado debe persistirse")
}

func TestChangeUnitPrice_ConPrecioValidoRecalculaSinForzar(t *testing.T) {
	uc, items, _ := newFixture(t)
	seedItem(items, func(it *entity.Item) {
		it.CalcMethod = entity.CalcMethodDiscountFromListPrice
		it.UnitPrice = decimal.NewFromInt(100)
		it.DiscountPercentage = decimal.NewFromInt(20)
		it.CommercialCost = decimal.NewFromInt(80)
	})

	out, err := uc.ChangeUnitPrice(context.Background(), companyA, itemID, dto.ChangeUnitPriceRequest{
		UnitPrice: decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	assert.False(t, out.ForcedDiscountReset)
	assert.True(t, out.Item.DiscountPercentage.Equal(decimal.NewFromInt(20)), "El descuento vigente se conserva")
	assert.True(t, out.Item.CommercialCost.Equal(decimal.NewFromInt(40)),
		"50 con 20%% de descuento debe costar 40; se obtuvo %s", out.Item.CommercialCost)
}

func TestChangeUnitPrice_NegativoEsEntradaInvalida(t *testing.T) {
	uc, items, _ := newFixture(t)
	seedItem(items, nil)

	_, err := uc.ChangeUnitPrice(context.Background(), companyA, itemID, dto.ChangeUnitPriceRequest{
		UnitPrice: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── costos propios ────────────────────────────────────────────────────────────

func TestChangeUnitCost_RecalculaConElMetodoVigente(t *testing.T) {
	uc, items, _ := newFixture(t)
	seedItem(items, func(it *entity.Item) {
		it.CalcMethod = entity.CalcMethodBlank
		it.UnitCost = decimal.NewFromInt(10)
		it.LastDirectCost = decimal.NewFromInt(15)
		it.CommercialCost = decimal.NewFromInt(15)
	})

	out, err := uc.ChangeUnitCost(context.Background(), companyA, itemID, dto.ChangeUnitCostRequest{
		UnitCost: decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	assert.True(t, out.Item.CommercialCost.Equal(decimal.NewFromInt(20)),
		"Con método en blanco el costo unitario nuevo gana el máximo; se obtuvo %s", out.Item.CommercialCost)
}

func TestChangeLastDirectCost_SoloElCostoMaximoConsultaPrecios(t *testing.T) {
	uc, items, prices := newFixture(t)
	seedItem(items, func(it *entity.Item) {
		it.CalcMethod = entity.CalcMethodBlank
		it.UnitCost = decimal.NewFromInt(10)
	})
	prices.seed(price("p1", 12), price("p2", 9))

	_, err := uc.ChangeLastDirectCost(context.Background(), companyA, itemID, dto.ChangeLastDirectCostRequest{
		LastDirectCost: decimal.NewFromInt(11),
	})
	require.NoError(t, err)
	assert.Zero(t, prices.listByItemCalls, "Fuera del costo máximo la lista de precios no se consulta")

	items.mustGet(t, itemID) // sanity: el ítem sigue ahí
	_, err = uc.ChangeCalcMethod(context.Background(), companyA, itemID, dto.ChangeCalcMethodRequest{
		CalcMethod: string(entity.CalcMethodMaximumCost),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, prices.listByItemCalls, "El costo máximo sí consulta la lista de precios")

	stored := items.mustGet(t, itemID)
	assert.True(t, stored.CommercialCost.Equal(decimal.NewFromInt(12)),
		"El máximo debe incluir el mayor precio de compra; se obtuvo %s", stored.CommercialCost)
}

// ── costo comercial manual ────────────────────────────────────────────────────

func TestSetCommercialCost_SoloBajoMetodoManual(t *testing.T) {
	uc, items, _ := newFixture(t)
	seedItem(items, func(it *entity.Item) {
		it.CalcMethod = entity.CalcMethodBlank
	})

	_, err := uc.SetCommercialCost(context.Background(), companyA, itemID, dto.SetCommercialCostRequest{
		CommercialCost: decimal.NewFromInt(42),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.EqualError(t, err, costing.MsgCommercialCostEditNotAllowed)
}

func TestSetCommercialCost_BajoManualElValorDelUsuarioManda(t *testing.T) {
	uc, items, _ := newFixture(t)
	seedItem(items, func(it *entity.Item) {
		it.CalcMethod = entity.CalcMethodManuallySpecified
		it.UnitCost = decimal.NewFromInt(99)
		it.CommercialCost = decimal.NewFromInt(7)
	})

	out, err := uc.SetCommercialCost(context.Background(), companyA, itemID, dto.SetCommercialCostRequest{
		CommercialCost: decimal.NewFromInt(42),
	})
	require.NoError(t, err)
	assert.True(t, out.Item.CommercialCost.Equal(decimal.NewFromInt(42)),
		"El recálculo final debe respetar el valor fijado a mano; se obtuvo %s", out.Item.CommercialCost)

	stored := items.mustGet(t, itemID)
	assert.True(t, stored.CommercialCost.Equal(decimal.NewFromInt(42)))
}

// ── pertenencia ───────────────────────────────────────────────────────────────

func TestOperacionesDeCosteo_ItemInexistente(t *testing.T) {
	uc, _, _ := newFixture(t)

	_, err := uc.Recalculate(context.Background(), companyA, "99999999-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOperacionesDeCosteo_ItemDeOtraEmpresa(t *testing.T) {
	uc, items, _ := newFixture(t)
	seedItem(items, nil)

	_, err := uc.Recalculate(context.Background(), companyB, itemID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "Un ítem ajeno no se recalcula aunque el id exista")

	err = uc.Delete(companyB, itemID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	items.mustGet(t, itemID)
}

// ── recálculo dentro de una tx ajena ─────────────────────────────────────────

func TestRecalculateItemInTx_UsaLosRepositoriosDelCaller(t *testing.T) {
	uc, items, prices := newFixture(t)
	seedItem(items, func(it *entity.Item) {
		it.CalcMethod = entity.CalcMethodMaximumCost
		it.UnitCost = decimal.NewFromInt(10)
		it.CommercialCost = decimal.NewFromInt(10)
	})
	prices.seed(price("p1", 12), price("p2", 9))

	err := uc.RecalculateItemInTx(items, prices, itemID)
	require.NoError(t, err)

	stored := items.mustGet(t, itemID)
	assert.True(t, stored.CommercialCost.Equal(decimal.NewFromInt(12)),
		"El recálculo en la tx del caller debe persistir el costo nuevo; se obtuvo %s", stored.CommercialCost)
	assert.Equal(t, 1, items.updateCostingCalls)
}

// ── editabilidad ──────────────────────────────────────────────────────────────

func TestEditability_OcultaCamposDeCosteoParaServicios(t *testing.T) {
	uc, items, _ := newFixture(t)
	seedItem(items, func(it *entity.Item) {
		it.ItemType = entity.ItemTypeService
		it.CalcMethod = entity.CalcMethodManuallySpecified
	})

	out, err := uc.Editability(companyA, itemID)
	require.NoError(t, err)
	assert.False(t, out.FieldsVisible, "Los campos de costeo se ocultan para ítems que no son de inventario")
	assert.True(t, out.CommercialCostEditable, "La editabilidad del costo se deriva del método, no del tipo")
}

func TestEditability_VisibleParaInventario(t *testing.T) {
	uc, items, _ := newFixture(t)
	seedItem(items, func(it *entity.Item) {
		it.ItemType = entity.ItemTypeInventory
		it.CalcMethod = entity.CalcMethodDiscountFromListPrice
		it.UnitPrice = decimal.NewFromInt(100)
	})

	out, err := uc.Editability(companyA, itemID)
	require.NoError(t, err)
	assert.True(t, out.FieldsVisible)
	assert.True(t, out.DiscountEditable)
	assert.False(t, out.CommercialCostEditable)
}

// ── fakes y helpers ───────────────────────────────────────────────────────────

// fakeTxRunner ejecuta la función directamente sobre los repositorios en
// memoria. No simula rollback: los tests verifican que las operaciones
// bloqueadas nunca llegan a escribir.
type fakeTxRunner struct {
	items  *fakeItemRepo
	prices *fakePriceRepo
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(repository.ItemRepository, repository.PurchasePriceRepository) error) error {
	return fn(f.items, f.prices)
}

// fakeItemRepo guarda copias: lo leído se puede mutar sin tocar lo almacenado
// hasta que un Update/UpdateCosting lo escriba, igual que una fila de BD.
type fakeItemRepo struct {
	store              map[string]entity.Item
	updateCostingCalls int
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{store: make(map[string]entity.Item)}
}

func (f *fakeItemRepo) Create(item *entity.Item) error {
	f.store[item.ID] = *item
	return nil
}

func (f *fakeItemRepo) GetByID(id string) (*entity.Item, error) {
	it, ok := f.store[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (f *fakeItemRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Item, error) {
	for _, it := range f.store {
		if it.CompanyID == companyID && it.SKU == sku {
			cp := it
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeItemRepo) Update(item *entity.Item) error {
	f.store[item.ID] = *item
	return nil
}

func (f *fakeItemRepo) UpdateCosting(item *entity.Item) error {
	f.updateCostingCalls++
	f.store[item.ID] = *item
	return nil
}

func (f *fakeItemRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, it := range f.store {
		if it.CompanyID == companyID {
			cp := it
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeItemRepo) Delete(id string) error {
	delete(f.store, id)
	return nil
}

func (f *fakeItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	return f.GetByID(id)
}

func (f *fakeItemRepo) mustGet(t *testing.T, id string) *entity.Item {
	t.Helper()
	it, ok := f.store[id]
	require.True(t, ok, "el ítem %s debe existir en el repositorio", id)
	return &it
}

type fakePriceRepo struct {
	store           map[string]entity.PurchasePrice
	listByItemCalls int
}

func newFakePriceRepo() *fakePriceRepo {
	return &fakePriceRepo{store: make(map[string]entity.PurchasePrice)}
}

func (f *fakePriceRepo) seed(prices ...*entity.PurchasePrice) {
	for _, p := range prices {
		f.store[p.ID] = *p
	}
}

func (f *fakePriceRepo) Create(price *entity.PurchasePrice) error {
	f.store[price.ID] = *price
	return nil
}

func (f *fakePriceRepo) GetByID(id string) (*entity.PurchasePrice, error) {
	p, ok := f.store[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakePriceRepo) ListByItem(itemID string) ([]*entity.PurchasePrice, error) {
	f.listByItemCalls++
	var out []*entity.PurchasePrice
	for _, p := range f.store {
		if p.ItemID == itemID {
			cp := p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakePriceRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.PurchasePrice, error) {
	var out []*entity.PurchasePrice
	for _, p := range f.store {
		if p.CompanyID == companyID {
			cp := p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakePriceRepo) Update(price *entity.PurchasePrice) error {
	f.store[price.ID] = *price
	return nil
}

func (f *fakePriceRepo) Delete(id string) error {
	delete(f.store, id)
	return nil
}

func newFixture(t *testing.T) (*item.ItemUseCase, *fakeItemRepo, *fakePriceRepo) {
	t.Helper()
	items := newFakeItemRepo()
	prices := newFakePriceRepo()
	tx := &fakeTxRunner{items: items, prices: prices}
	uc := item.NewItemUseCase(tx, items, prices, costing.NewEngine(), nil)
	return uc, items, prices
}

// seedItem guarda un ítem base de companyA con id fijo; mutate lo ajusta.
func seedItem(repo *fakeItemRepo, mutate func(*entity.Item)) {
	it := &entity.Item{
		ID:        itemID,
		CompanyID: companyA,
		SKU:       "SKU-001",
		Name:      "Tornillo galvanizado 1/2",
		ItemType:  entity.ItemTypeInventory,
		Active:    true,
	}
	if mutate != nil {
		mutate(it)
	}
	repo.store[it.ID] = *it
}

func price(id string, v float64) *entity.PurchasePrice {
	return &entity.PurchasePrice{
		ID:             id,
		CompanyID:      companyA,
		ItemID:         itemID,
		VendorID:       "44444444-0000-0000-0000-000000000001",
		DirectUnitCost: decimal.NewFromFloat(v),
	}
}
