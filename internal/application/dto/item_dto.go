package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un ítem del maestro de artículos.
// Los campos de costeo arrancan en 0 y el método en blanco; el costo comercial
// lo fija el motor en el primer recálculo.
type CreateItemRequest struct {
	SKU         string          `json:"sku" validate:"required,min=1,max=100"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description"`
	ItemType    string          `json:"item_type" validate:"required,oneof=inventory non_inventory service"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// UpdateItemRequest entrada para actualizar datos descriptivos de un ítem.
// Los campos de costeo se cambian por las operaciones dedicadas (método,
// descuento, precios), nunca por este update genérico.
type UpdateItemRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

// ItemResponse salida de un ítem con sus campos de costeo.
type ItemResponse struct {
	ID                    string          `json:"id"`
	CompanyID             string          `json:"company_id"`
	SKU                   string          `json:"sku"`
	Name                  string          `json:"name"`
	Description           string          `json:"description"`
	ItemType              string          `json:"item_type"`
	UnitCost              decimal.Decimal `json:"unit_cost"`
	LastDirectCost        decimal.Decimal `json:"last_direct_cost"`
	UnitPrice             decimal.Decimal `json:"unit_price"`
	CommercialCost        decimal.Decimal `json:"commercial_cost"`
	CalcMethod            string          `json:"calc_method"`
	CalcMethodDescription string          `json:"calc_method_description"`
	DiscountPercentage    decimal.Decimal `json:"discount_percentage"`
	Active                bool            `json:"active"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ── operaciones de costeo ──

// ChangeCalcMethodRequest cambia el método de cálculo del costo comercial.
// Sin oneof: el método es extensible y un valor desconocido es no-op legal.
type ChangeCalcMethodRequest struct {
	CalcMethod string `json:"calc_method"`
}

// ChangeDiscountRequest fija el porcentaje de descuento (solo bajo el método
// de descuento sobre precio de lista, rango [0,100], 2 decimales).
type ChangeDiscountRequest struct {
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
}

// ChangeUnitPriceRequest cambia el precio de lista del ítem.
type ChangeUnitPriceRequest struct {
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ChangeUnitCostRequest cambia el costo unitario del ítem.
type ChangeUnitCostRequest struct {
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// ChangeLastDirectCostRequest cambia el último costo directo del ítem.
type ChangeLastDirectCostRequest struct {
	LastDirectCost decimal.Decimal `json:"last_direct_cost"`
}

// SetCommercialCostRequest fija el costo comercial directo (solo legal bajo
// el método especificado manualmente).
type SetCommercialCostRequest struct {
	CommercialCost decimal.Decimal `json:"commercial_cost"`
}

// CostingResponse resultado de una operación de costeo sobre el ítem: el
// ítem actualizado, si el descuento fue forzado a 0 y la huella de auditoría.
type CostingResponse struct {
	Item                ItemResponse `json:"item"`
	ForcedDiscountReset bool         `json:"forced_discount_reset,omitempty"`
	CostDigest          string       `json:"cost_digest"`
}

// EditabilityResponse estado derivado de edición para el formulario de ítem.
// FieldsVisible aplica la política del controlador: los campos de costeo se
// ocultan para ítems que no son de inventario.
type EditabilityResponse struct {
	CommercialCostEditable bool `json:"commercial_cost_editable"`
	DiscountEditable       bool `json:"discount_editable"`
	FieldsVisible          bool `json:"fields_visible"`
}
