package costing

import (
	"crypto/sha512"
	"encoding/hex"

	"github.com/shopspring/decimal"

	"github.com/costeopro/costeo-api/internal/domain/entity"
)

// CostDigest huella SHA-384 (hex) de los campos de costeo de un ítem.
// Cadena en orden estricto: SKU + método + montos con 2 decimales. Sirve a la
// auditoría de recálculos para detectar cambios de costo sin comparar campo a
// campo.
func CostDigest(item *entity.Item) string {
	cadena := item.SKU +
		string(item.CalcMethod) +
		formatAmount(item.UnitCost) +
		formatAmount(item.LastDirectCost) +
		formatAmount(item.UnitPrice) +
		formatAmount(item.DiscountPercentage) +
		formatAmount(item.CommercialCost)

	hash := sha512.Sum384([]byte(cadena))
	return hex.EncodeToString(hash[:])
}

// formatAmount montos sin separador de miles, punto decimal, 2 decimales (ej: 1500.00).
func formatAmount(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}
