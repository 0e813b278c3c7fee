package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchasePrice representa un precio de compra vigente de un proveedor para un
// ítem. Para el motor de costeo la lista es de solo lectura y sin orden; solo
// el método de costo máximo la consulta. Se permiten duplicados (mismo
// proveedor, precios renegociados).
type PurchasePrice struct {
	ID             string
	CompanyID      string
	ItemID         string
	VendorID       string
	DirectUnitCost decimal.Decimal
	StartDate      time.Time // desde cuándo rige el precio
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
