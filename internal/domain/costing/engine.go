// Package costing: motor de reglas del costo comercial de ítems.
// Dado un ítem y su lista de precios de compra decide el costo comercial según
// el método de cálculo seleccionado, y valida qué ediciones son legales bajo
// cada método. Sin estado ni I/O: cada operación es función pura de sus
// entradas; el caller persiste los resultados.

package costing

import (
	"github.com/shopspring/decimal"

	"github.com/costeopro/costeo-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Strategy calcula el costo comercial de un ítem bajo un método. La lista de
// precios de compra es de solo lectura, sin orden y puede traer duplicados.
type Strategy func(item *entity.Item, prices []*entity.PurchasePrice) (decimal.Decimal, error)

// Engine motor de costeo comercial. El despacho por CalcMethod usa un registro
// extensible de estrategias; un método sin estrategia registrada deja el costo
// sin cambios, así los valores de integradores nunca rompen el recálculo.
type Engine struct {
	strategies map[entity.CalcMethod]Strategy
}

// NewEngine crea el motor con los seis métodos incorporados registrados.
func NewEngine() *Engine {
	e := &Engine{strategies: make(map[entity.CalcMethod]Strategy)}
	e.Register(entity.CalcMethodBlank, blankStrategy)
	e.Register(entity.CalcMethodMaximumCost, maximumCostStrategy)
	e.Register(entity.CalcMethodLastDirectCost, lastDirectCostStrategy)
	e.Register(entity.CalcMethodAverageCost, averageCostStrategy)
	e.Register(entity.CalcMethodDiscountFromListPrice, discountFromListPriceStrategy)
	e.Register(entity.CalcMethodManuallySpecified, manuallySpecifiedStrategy)
	return e
}

// Register registra o reemplaza la estrategia de un método de cálculo.
// Permite a integradores añadir métodos propios sin tocar el motor.
func (e *Engine) Register(method entity.CalcMethod, s Strategy) {
	e.strategies[method] = s
}

// Recalculate calcula el costo comercial del ítem según su método actual.
// No muta el ítem; devuelve el valor a asignar a CommercialCost y el caller lo
// persiste. Determinista e idempotente: mismas entradas, mismo resultado.
// Con error el costo vigente queda sin cambios.
func (e *Engine) Recalculate(item *entity.Item, prices []*entity.PurchasePrice) (decimal.Decimal, error) {
	s, ok := e.strategies[item.CalcMethod]
	if !ok {
		// Método desconocido o de integrador sin estrategia: sin cambios.
		return item.CommercialCost, nil
	}
	return s(item, prices)
}

// ValidateMethodChange valida un cambio de método de cálculo. El cambio en sí
// nunca falla; recalcRequired indica si debe seguir un Recalculate (todo
// método salvo el manual, que respeta el valor fijado por el usuario).
func (e *Engine) ValidateMethodChange(oldMethod, newMethod entity.CalcMethod, item *entity.Item) (recalcRequired bool, err error) {
	return newMethod != entity.CalcMethodManuallySpecified, nil
}

// ValidateDiscountEdit valida fijar DiscountPercentage directo sobre el ítem.
// Solo es legal bajo el método de descuento, con precio de lista distinto de 0
// y un valor en [0,100]. Tras un resultado nil el caller debe recalcular.
func (e *Engine) ValidateDiscountEdit(item *entity.Item, proposedDiscount decimal.Decimal) error {
	if item.CalcMethod != entity.CalcMethodDiscountFromListPrice {
		return ErrDiscountEditNotAllowed
	}
	if item.UnitPrice.IsZero() {
		return ErrUnitPriceRequired
	}
	if proposedDiscount.LessThan(decimal.Zero) || proposedDiscount.GreaterThan(hundred) {
		return ErrDiscountOutOfRange
	}
	return nil
}

// ValidateUnitPriceChange evalúa un cambio de precio de lista. Bajo el método
// de descuento con el precio nuevo en 0 el descuento debe forzarse a 0
// (forcedDiscountReset) y el costo comercial queda sin recalcular hasta que
// vuelva a haber precio válido.
func (e *Engine) ValidateUnitPriceChange(item *entity.Item, newUnitPrice decimal.Decimal) (forcedDiscountReset bool) {
	return item.CalcMethod == entity.CalcMethodDiscountFromListPrice && newUnitPrice.IsZero()
}

// ValidateCommercialCostEdit valida fijar el costo comercial directo sobre el
// ítem: solo es legal bajo el método especificado manualmente.
func (e *Engine) ValidateCommercialCostEdit(item *entity.Item) error {
	if item.CalcMethod != entity.CalcMethodManuallySpecified {
		return ErrCommercialCostEditNotAllowed
	}
	return nil
}

// Editability estado derivado de edición para el formulario de ítem. Se
// recalcula en cada consulta, nunca se cachea. ResetDiscount avisa al caller
// que DiscountPercentage debe quedar en 0 bajo el método actual (el motor no
// muta el ítem).
type Editability struct {
	CommercialCostEditable bool
	DiscountEditable       bool
	ResetDiscount          bool
}

// ComputeEditability deriva el estado de edición del ítem: el costo comercial
// solo se edita bajo el método manual; el descuento solo bajo el método de
// descuento con precio de lista distinto de 0.
func (e *Engine) ComputeEditability(item *entity.Item) Editability {
	return Editability{
		CommercialCostEditable: item.CalcMethod == entity.CalcMethodManuallySpecified,
		DiscountEditable:       item.CalcMethod == entity.CalcMethodDiscountFromListPrice && !item.UnitPrice.IsZero(),
		ResetDiscount:          item.CalcMethod != entity.CalcMethodDiscountFromListPrice && !item.DiscountPercentage.IsZero(),
	}
}

// ── estrategias incorporadas ──

// blankStrategy sin método: máx(costo unitario, último costo directo).
func blankStrategy(item *entity.Item, _ []*entity.PurchasePrice) (decimal.Decimal, error) {
	return decimal.Max(item.UnitCost, item.LastDirectCost), nil
}

// maximumCostStrategy máx entre costos propios y precios de compra de
// proveedores. Con lista vacía cae al máximo entre los costos propios.
func maximumCostStrategy(item *entity.Item, prices []*entity.PurchasePrice) (decimal.Decimal, error) {
	max := decimal.Max(item.UnitCost, item.LastDirectCost)
	for _, p := range prices {
		if p.DirectUnitCost.GreaterThan(max) {
			max = p.DirectUnitCost
		}
	}
	return max, nil
}

func lastDirectCostStrategy(item *entity.Item, _ []*entity.PurchasePrice) (decimal.Decimal, error) {
	return item.LastDirectCost, nil
}

// averageCostStrategy el costo promedio lo mantiene el sistema de inventario
// en UnitCost; aquí solo se adopta.
func averageCostStrategy(item *entity.Item, _ []*entity.PurchasePrice) (decimal.Decimal, error) {
	return item.UnitCost, nil
}

// discountFromListPriceStrategy precio de lista menos descuento porcentual.
// Sin precio de lista el cálculo es ilegal y el costo vigente se conserva.
func discountFromListPriceStrategy(item *entity.Item, _ []*entity.PurchasePrice) (decimal.Decimal, error) {
	if item.UnitPrice.IsZero() {
		return item.CommercialCost, ErrUnitPriceRequired
	}
	factor := decimal.NewFromInt(1).Sub(item.DiscountPercentage.Div(hundred))
	return item.UnitPrice.Mul(factor), nil
}

// manuallySpecifiedStrategy el valor fijado por el usuario se respeta tal cual.
func manuallySpecifiedStrategy(item *entity.Item, _ []*entity.PurchasePrice) (decimal.Decimal, error) {
	return item.CommercialCost, nil
}
