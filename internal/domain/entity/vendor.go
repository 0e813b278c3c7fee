package entity

import "time"

// Vendor representa un proveedor que publica precios de compra para los ítems
// de una empresa.
type Vendor struct {
	ID        string
	CompanyID string
	Name      string
	NIT       string // NIT colombiano (con o sin dígito de verificación)
	Email     string
	Phone     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
