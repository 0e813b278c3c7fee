package costing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costeopro/costeo-api/internal/domain"
	"github.com/costeopro/costeo-api/internal/domain/costing"
	"github.com/costeopro/costeo-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del motor de costeo comercial: una estrategia por método incorporado,
// registro extensible, validaciones de edición y estado derivado de edición.
//
// El motor es puro: cada caso construye un ítem, invoca la operación y
// verifica el resultado sin tocar persistencia.
// ──────────────────────────────────────────────────────────────────────────────

// ── Recalculate por método ────────────────────────────────────────────────────

func TestRecalculate_MetodoBlanco_MaximoEntreCostosPropios(t *testing.T) {
	eng := costing.NewEngine()
	item := buildItem()
	item.UnitCost = decimal.NewFromInt(10)
	item.LastDirectCost = decimal.NewFromInt(15)
	item.CalcMethod = entity.CalcMethodBlank

	got, err := eng.Recalculate(item, nil)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(15)),
		"Con método en blanco el costo comercial debe ser máx(costo unitario, último costo directo); se obtuvo %s", got)
}

func TestRecalculate_MetodoBlanco_GanaCostoUnitario(t *testing.T) {
	eng := costing.NewEngine()
	item := buildItem()
	item.UnitCost = decimal.NewFromInt(20)
	item.LastDirectCost = decimal.NewFromInt(15)
	item.CalcMethod = entity.CalcMethodBlank

	got, err := eng.Recalculate(item, nil)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(20)),
		"El máximo debe considerar ambos costos propios; se obtuvo %s", got)
}

func TestRecalculate_CostoMaximo_IncluyePreciosDeCompra(t *testing.T) {
	eng := costing.NewEngine()
	item := buildItem()
	item.UnitCost = decimal.NewFromInt(10)
	item.LastDirectCost = decimal.NewFromInt(8)
	item.CalcMethod = entity.CalcMethodMaximumCost

	prices := []*entity.PurchasePrice{price(12), price(9)}

	got, err := eng.Recalculate(item, prices)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(12)),
		"El costo máximo debe incluir el mayor precio de compra de proveedores; se obtuvo %s", got)
}

func TestRecalculate_CostoMaximo_ListaVaciaCaeACostosPropios(t *testing.T) {
	eng := costing.NewEngine()
	item := buildItem()
	item.UnitCost = decimal.NewFromInt(10)
	item.LastDirectCost = decimal.NewFromInt(8)
	item.CalcMethod = entity.CalcMethodMaximumCost

	got, err := eng.Recalculate(item, nil)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(10)),
		"Sin precios de compra el costo máximo cae a máx(costo unitario, último costo directo); se obtuvo %s", got)
}

func TestRecalculate_CostoMaximo_PreciosMenoresNoSuperanCostosPropios(t *testing.T) {
	eng := costing.NewEngine()
	item := buildItem()
	item.UnitCost = decimal.NewFromInt(30)
	item.LastDirectCost = decimal.NewFromInt(25)
	item.CalcMethod = entity.CalcMethodMaximumCost

	prices := []*entity.PurchasePrice{price(12), price(29.99)}

	got, err := eng.Recalculate(item, prices)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(30)),
		"Precios de compra menores no deben bajar el costo máximo; se obtuvo %s", got)
}

func TestRecalculate_UltimoCostoDirecto(t *testing.T) {
	eng := costing.NewEngine()
	item := buildItem()
	item.UnitCost = decimal.NewFromInt(50)
	item.LastDirectCost = decimal.NewFromInt(7)
	item.CalcMethod = entity.CalcMethodLastDirectCost

	got, err := eng.Recalculate(item, nil)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(7)),
		"El método de último costo directo adopta LastDirectCost aunque sea menor; se obtuvo %s", got)
}

func TestRecalculate_CostoPromedio(t *testing.T) {
	eng := costing.NewEngine()
	item := buildItem()
	item.UnitCost = decimal.NewFromFloat(33.5)
	item.LastDirectCost = decimal.NewFromInt(100)
	item.CalcMethod = entity.CalcMethodAverageCost

	got, err := eng.Recalculate(item, nil)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromFloat(33.5)),
		"El método de costo promedio adopta el costo unitario; se obtuvo %s", got)
}

func TestRecalculate_DescuentoSobrePrecioDeLista(t *testing.T) {
	eng := costing.NewEngine()
	item := buildItem()
	item.UnitPrice = decimal.NewFromInt(100)
	item.DiscountPercentage = decimal.NewFromInt(20)
	item.CalcMethod = entity.CalcMethodDiscountFromListPrice

	got, err := eng.Recalculate(item, nil)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(80)),
		"100 con 20%% de descuento debe costar 80; se obtuvo %s", got)
}

func TestRecalculate_DescuentoConDecimales(t *testing.T) {
	eng := costing.NewEngine()
	item := buildItem()
	item.UnitPrice = decimal.NewFromInt(200)
	item.DiscountPercentage = decimal.RequireFromString("12.50")
	item.CalcMethod = entity.CalcMethodDiscountFromListPrice

	got, err := eng.Recalculate(item, nil)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(175)),
		"200 con 12.50%% de descuento debe costar 175; se obtuvo %s", got)
}

func TestRecalculate_DescuentoSinPrecioDeLista_Error(t *testing.T) {
	eng := costing.NewEngine()
	item := buildItem()
	item.UnitPrice = decimal.Zero
	item.CommercialCost = decimal.NewFromInt(55)
	item.CalcMethod = entity.CalcMethodDiscountFromListPrice

	got, err := eng.Recalculate(item, nil)
	require.Error(t, err, "Calcular descuento sin precio de lista debe fallar")
	assert.ErrorIs(t, err, domain.ErrValidation, "El error debe clasificar como validación de negocio")
	assert.EqualError(t, err, costing.MsgUnitPriceRequired, "El mensaje al usuario es contrato y debe ser exacto")
	assert.True(t, got.Equal(decimal.NewFromInt(55)),
		"Con error el costo comercial vigente debe quedar sin cambios; se obtuvo %s", got)
}

func TestRecalculate_ManualRespetaValorDelUsuario(t *testing.T) {
	eng := costing.NewEngine()
	item := buildItem()
	item.UnitCost = decimal.NewFromInt(10)
	item.LastDirectCost = decimal.NewFromInt(99)
	item.CommercialCost = decimal.NewFromInt(42)
	item.CalcMethod = entity.CalcMethodManuallySpecified

	got, err := eng.Recalculate(item, nil)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(42)),
		"Bajo método manual el motor no debe alterar el valor fijado por el usuario; se obtuvo %s", got)
}

func TestRecalculate_MetodoDesconocido_NoOp(t *testing.T) {
	eng := costing.NewEngine()
	item := buildItem()
	item.UnitCost = decimal.NewFromInt(10)
	item.CommercialCost = decimal.NewFromInt(33)
	item.CalcMethod = entity.CalcMethod("standard_cost") // método de integrador, sin estrategia

	got, err := eng.Recalculate(item, nil)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(33)),
		"Un método sin estrategia registrada debe dejar el costo sin cambios; se obtuvo %s", got)
}

func TestRecalculate_Idempotente(t *testing.T) {
	eng := costing.NewEngine()
	item := buildItem()
	item.UnitCost = decimal.NewFromFloat(10.75)
	item.LastDirectCost = decimal.NewFromFloat(14.2)
	item.CalcMethod = entity.CalcMethodMaximumCost
	prices := []*entity.PurchasePrice{price(13.99), price(14.21)}

	first, err1 := eng.Recalculate(item, prices)
	second, err2 := eng.Recalculate(item, prices)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.True(t, first.Equal(second),
		"Recalculate con las mismas entradas debe producir siempre el mismo resultado: %s vs %s", first, second)
}

// ── Registro extensible de estrategias ────────────────────────────────────────

func TestRegister_EstrategiaDeIntegrador(t *testing.T) {
	eng := costing.NewEngine()
	fijo := entity.CalcMethod("costo_fijo")
	eng.Register(fijo, func(_ *entity.Item, _ []*entity.PurchasePrice) (decimal.Decimal, error) {
		return decimal.NewFromInt(7), nil
	})

	item := buildItem()
	item.CommercialCost = decimal.NewFromInt(99)
	item.CalcMethod = fijo

	got, err := eng.Recalculate(item, nil)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(7)),
		"Una estrategia registrada por integrador debe despachar por su método; se obtuvo %s", got)
}

func TestRegister_ReemplazaEstrategiaIncorporada(t *testing.T) {
	eng := costing.NewEngine()
	eng.Register(entity.CalcMethodAverageCost, func(item *entity.Item, _ []*entity.PurchasePrice) (decimal.Decimal, error) {
		return item.UnitCost.Mul(decimal.NewFromInt(2)), nil
	})

	item := buildItem()
	item.UnitCost = decimal.NewFromInt(5)
	item.CalcMethod = entity.CalcMethodAverageCost

	got, err := eng.Recalculate(item, nil)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(10)),
		"Register debe permitir reemplazar una estrategia incorporada; se obtuvo %s", got)
}

// ── Validación de ediciones ───────────────────────────────────────────────────

func TestValidateDiscountEdit_FueraDelModoDescuento(t *testing.T) {
	eng := costing.NewEngine()

	// El rechazo no depende del valor propuesto.
	propuestas := []decimal.Decimal{
		decimal.Zero,
		decimal.NewFromInt(50),
		decimal.NewFromInt(150),
	}
	for _, metodo := range []entity.CalcMethod{
		entity.CalcMethodBlank,
		entity.CalcMethodMaximumCost,
		entity.CalcMethodLastDirectCost,
		entity.CalcMethodAverageCost,
		entity.CalcMethodManuallySpecified,
	} {
		item := buildItem()
		item.UnitPrice = decimal.NewFromInt(100)
		item.CalcMethod = metodo
		for _, propuesta := range propuestas {
			err := eng.ValidateDiscountEdit(item, propuesta)
			require.Error(t, err, "Editar descuento bajo %q debe fallar", metodo)
			assert.ErrorIs(t, err, domain.ErrInvalidState,
				"El error bajo %q debe clasificar como estado inválido", metodo)
			assert.EqualError(t, err, costing.MsgDiscountEditNotAllowed,
				"El mensaje al usuario es contrato y debe ser exacto")
		}
	}
}

func TestValidateDiscountEdit_SinPrecioDeLista(t *testing.T) {
	eng := costing.NewEngine()
	item := buildItem()
	item.UnitPrice = decimal.Zero
	item.CalcMethod = entity.CalcMethodDiscountFromListPrice

	err := eng.ValidateDiscountEdit(item, decimal.NewFromInt(10))
	require.Error(t, err, "Editar descuento con precio de lista 0 debe fallar")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.EqualError(t, err, costing.MsgUnitPriceRequired,
		"El mensaje al usuario es contrato y debe ser exacto")
}

func TestValidateDiscountEdit_FueraDeRango(t *testing.T) {
	eng := costing.NewEngine()
	item := buildItem()
	item.UnitPrice = decimal.NewFromInt(100)
	item.CalcMethod = entity.CalcMethodDiscountFromListPrice

	for _, propuesta := range []string{"-0.01", "100.01", "250"} {
		err := eng.ValidateDiscountEdit(item, decimal.RequireFromString(propuesta))
		require.Error(t, err, "Descuento %s está fuera de [0,100] y debe fallar", propuesta)
		assert.ErrorIs(t, err, domain.ErrOutOfRange)
	}
}

func TestValidateDiscountEdit_BordesDelRangoSonValidos(t *testing.T) {
	eng := costing.NewEngine()
	item := buildItem()
	item.UnitPrice = decimal.NewFromInt(100)
	item.CalcMethod = entity.CalcMethodDiscountFromListPrice

	assert.NoError(t, eng.ValidateDiscountEdit(item, decimal.Zero), "0%% es un descuento válido")
	assert.NoError(t, eng.ValidateDiscountEdit(item, decimal.NewFromInt(100)), "100%% es un descuento válido")
	assert.NoError(t, eng.ValidateDiscountEdit(item, decimal.RequireFromString("12.75")))
}

func TestValidateMethodChange_RecalculoRequerido(t *testing.T) {
	eng := costing.NewEngine()
	item := buildItem()

	for _, nuevo := range []entity.CalcMethod{
		entity.CalcMethodBlank,
		entity.CalcMethodMaximumCost,
		entity.CalcMethodLastDirectCost,
		entity.CalcMethodAverageCost,
		entity.CalcMethodDiscountFromListPrice,
	} {
		recalc, err := eng.ValidateMethodChange(entity.CalcMethodManuallySpecified, nuevo, item)
		require.NoError(t, err, "Cambiar el método nunca falla por sí mismo")
		assert.True(t, recalc, "Cambiar a %q debe exigir recálculo", nuevo)
	}

	recalc, err := eng.ValidateMethodChange(entity.CalcMethodBlank, entity.CalcMethodManuallySpecified, item)
	require.NoError(t, err)
	assert.False(t, recalc, "Cambiar al método manual no debe recalcular: el valor del usuario manda")
}

func TestValidateUnitPriceChange_ForzarReseteoDeDescuento(t *testing.T) {
	eng := costing.NewEngine()
	item := buildItem()
	item.CalcMethod = entity.CalcMethodDiscountFromListPrice
	item.UnitPrice = decimal.NewFromInt(100)
	item.DiscountPercentage = decimal.NewFromInt(15)

	assert.True(t, eng.ValidateUnitPriceChange(item, decimal.Zero),
		"Precio de lista a 0 bajo descuento debe forzar el reseteo del descuento")
	assert.False(t, eng.ValidateUnitPriceChange(item, decimal.NewFromInt(90)),
		"Un precio de lista válido no fuerza reseteo")

	item.CalcMethod = entity.CalcMethodBlank
	assert.False(t, eng.ValidateUnitPriceChange(item, decimal.Zero),
		"Fuera del método de descuento el precio en 0 no fuerza reseteo")
}

// ── Estado derivado de edición ────────────────────────────────────────────────

func TestComputeEditability_ManualHabilitaCostoComercial(t *testing.T) {
	eng := costing.NewEngine()
	item := buildItem()
	item.CalcMethod = entity.CalcMethodManuallySpecified

	ed := eng.ComputeEditability(item)
	assert.True(t, ed.CommercialCostEditable, "Bajo método manual el costo comercial se edita directo")
	assert.False(t, ed.DiscountEditable, "El descuento no se edita fuera del método de descuento")
}

func TestComputeEditability_DescuentoConPrecioHabilitaDescuento(t *testing.T) {
	eng := costing.NewEngine()
	item := buildItem()
	item.CalcMethod = entity.CalcMethodDiscountFromListPrice
	item.UnitPrice = decimal.NewFromInt(100)

	ed := eng.ComputeEditability(item)
	assert.False(t, ed.CommercialCostEditable)
	assert.True(t, ed.DiscountEditable, "Con método de descuento y precio de lista el descuento es editable")
}

func TestComputeEditability_DescuentoSinPrecioNoEsEditable(t *testing.T) {
	eng := costing.NewEngine()
	item := buildItem()
	item.CalcMethod = entity.CalcMethodDiscountFromListPrice
	item.UnitPrice = decimal.Zero

	ed := eng.ComputeEditability(item)
	assert.False(t, ed.DiscountEditable,
		"Sin precio de lista el descuento queda bloqueado hasta tener precio válido")
}

func TestComputeEditability_SenalaReseteoDeDescuento(t *testing.T) {
	eng := costing.NewEngine()
	item := buildItem()
	item.CalcMethod = entity.CalcMethodBlank
	item.DiscountPercentage = decimal.NewFromInt(10)

	ed := eng.ComputeEditability(item)
	assert.True(t, ed.ResetDiscount,
		"Con descuento distinto de 0 fuera del método de descuento debe señalarse el reseteo")

	item.DiscountPercentage = decimal.Zero
	ed = eng.ComputeEditability(item)
	assert.False(t, ed.ResetDiscount, "Con descuento ya en 0 no hay nada que resetear")
}

func TestComputeEditability_EsConsultaPura(t *testing.T) {
	eng := costing.NewEngine()
	item := buildItem()
	item.CalcMethod = entity.CalcMethodBlank
	item.DiscountPercentage = decimal.NewFromInt(10)

	_ = eng.ComputeEditability(item)
	assert.True(t, item.DiscountPercentage.Equal(decimal.NewFromInt(10)),
		"ComputeEditability no debe mutar el ítem; el reseteo lo aplica el caller")
}

// ── helpers ───────────────────────────────────────────────────────────────────

func buildItem() *entity.Item {
	return &entity.Item{
		ID:        "b2c7a1f0-0000-0000-0000-000000000001",
		CompanyID: "b2c7a1f0-0000-0000-0000-0000000000aa",
		SKU:       "SKU-001",
		Name:      "Tornillo galvanizado 1/2",
		ItemType:  entity.ItemTypeInventory,
		Active:    true,
	}
}

func price(v float64) *entity.PurchasePrice {
	return &entity.PurchasePrice{
		ItemID:         "b2c7a1f0-0000-0000-0000-000000000001",
		DirectUnitCost: decimal.NewFromFloat(v),
	}
}
