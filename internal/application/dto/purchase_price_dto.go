package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchasePriceRequest entrada para publicar un precio de compra de
// proveedor para un ítem.
type CreatePurchasePriceRequest struct {
	ItemID         string          `json:"item_id" validate:"required,uuid"`
	VendorID       string          `json:"vendor_id" validate:"required,uuid"`
	DirectUnitCost decimal.Decimal `json:"direct_unit_cost"`
	StartDate      *time.Time      `json:"start_date"`
}

// UpdatePurchasePriceRequest entrada para corregir un precio de compra.
type UpdatePurchasePriceRequest struct {
	DirectUnitCost *decimal.Decimal `json:"direct_unit_cost"`
	StartDate      *time.Time       `json:"start_date"`
}

// PurchasePriceResponse salida de un precio de compra.
type PurchasePriceResponse struct {
	ID             string          `json:"id"`
	CompanyID      string          `json:"company_id"`
	ItemID         string          `json:"item_id"`
	VendorID       string          `json:"vendor_id"`
	DirectUnitCost decimal.Decimal `json:"direct_unit_cost"`
	StartDate      time.Time       `json:"start_date"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// PurchasePriceListResponse lista paginada de precios de compra.
type PurchasePriceListResponse struct {
	Items []PurchasePriceResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// VendorQuoteDTO un candidato del ranking de precios de compra de un ítem,
// ordenado del más conveniente al menos conveniente.
type VendorQuoteDTO struct {
	PurchasePriceID   string          `json:"purchase_price_id"`
	VendorID          string          `json:"vendor_id"`
	VendorName        string          `json:"vendor_name"`
	DirectUnitCost    decimal.Decimal `json:"direct_unit_cost"`
	StartDate         time.Time       `json:"start_date"`
	SavingsVsCommCost decimal.Decimal `json:"savings_vs_commercial_cost"`
	Priority          int             `json:"priority"` // 1 = más conveniente
}

// BestPriceResponse ranking de precios de compra para un ítem.
type BestPriceResponse struct {
	ItemID string           `json:"item_id"`
	SKU    string           `json:"sku"`
	Quotes []VendorQuoteDTO `json:"quotes"`
}
