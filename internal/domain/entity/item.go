package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de ítem. El costeo comercial solo aplica a ítems de inventario;
// para non_inventory y service el formulario oculta los campos de costeo.
const (
	ItemTypeInventory    = "inventory"
	ItemTypeNonInventory = "non_inventory"
	ItemTypeService      = "service"
)

// Item representa un ítem del maestro de artículos (multi-empresa).
// CommercialCost es salida del motor de costeo según CalcMethod; solo es
// editable directo bajo el método manual. DiscountPercentage se mantiene en 0
// salvo bajo el método de descuento sobre precio de lista.
type Item struct {
	ID                 string
	CompanyID          string
	SKU                string // código único por empresa
	Name               string
	Description        string
	ItemType           string          // ver constantes ItemType*
	UnitCost           decimal.Decimal // costo unitario mantenido externamente
	LastDirectCost     decimal.Decimal // último costo directo de compra
	UnitPrice          decimal.Decimal // precio de lista
	CommercialCost     decimal.Decimal
	CalcMethod         CalcMethod
	DiscountPercentage decimal.Decimal // [0,100], 2 decimales
	Active             bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsInventory indica si el ítem es de tipo inventario (los campos de costeo
// comercial solo se muestran y editan para estos).
func (i *Item) IsInventory() bool {
	return i.ItemType == ItemTypeInventory
}
