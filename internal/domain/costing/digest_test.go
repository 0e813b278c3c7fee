package costing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/costeopro/costeo-api/internal/domain/costing"
	"github.com/costeopro/costeo-api/internal/domain/entity"
)

// TestCostDigest_Determinista verifica que el mismo ítem produce siempre la
// misma huella (la auditoría compara huellas entre recálculos).
func TestCostDigest_Determinista(t *testing.T) {
	item := buildItem()
	item.UnitCost = decimal.NewFromFloat(1500)
	item.CommercialCost = decimal.NewFromFloat(1500)
	item.CalcMethod = entity.CalcMethodAverageCost

	assert.Equal(t, costing.CostDigest(item), costing.CostDigest(item),
		"El mismo ítem debe producir siempre la misma huella")
}

// TestCostDigest_SensibleACambios verifica que cambiar cualquier campo de
// costeo cambia la huella.
func TestCostDigest_SensibleACambios(t *testing.T) {
	base := buildItem()
	base.UnitCost = decimal.NewFromInt(100)
	base.CommercialCost = decimal.NewFromInt(100)
	original := costing.CostDigest(base)

	conOtroCosto := *base
	conOtroCosto.CommercialCost = decimal.NewFromFloat(100.01)
	assert.NotEqual(t, original, costing.CostDigest(&conOtroCosto),
		"Un cambio de costo comercial debe cambiar la huella")

	conOtroMetodo := *base
	conOtroMetodo.CalcMethod = entity.CalcMethodLastDirectCost
	assert.NotEqual(t, original, costing.CostDigest(&conOtroMetodo),
		"Un cambio de método debe cambiar la huella")
}

// TestCostDigest_RedondeaADosDecimales la huella usa montos a 2 decimales,
// así diferencias por debajo del centavo no generan ruido de auditoría.
func TestCostDigest_RedondeaADosDecimales(t *testing.T) {
	a := buildItem()
	a.UnitCost = decimal.RequireFromString("10.004")
	b := buildItem()
	b.UnitCost = decimal.RequireFromString("10.0041")

	assert.Equal(t, costing.CostDigest(a), costing.CostDigest(b),
		"Diferencias bajo el centavo no deben cambiar la huella")
}

// TestCostDigest_Longitud SHA-384 en hex: 96 caracteres.
func TestCostDigest_Longitud(t *testing.T) {
	assert.Len(t, costing.CostDigest(buildItem()), 96,
		"La huella debe tener 96 caracteres hexadecimales (SHA-384)")
}
