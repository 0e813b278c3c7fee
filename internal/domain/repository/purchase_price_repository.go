package repository

import "github.com/costeopro/costeo-api/internal/domain/entity"

// PurchasePriceRepository define el puerto de persistencia para PurchasePrice (DIP).
// El motor de costeo solo consume ListByItem (lista de solo lectura, sin orden).
type PurchasePriceRepository interface {
	Create(price *entity.PurchasePrice) error
	GetByID(id string) (*entity.PurchasePrice, error)
	ListByItem(itemID string) ([]*entity.PurchasePrice, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.PurchasePrice, error)
	Update(price *entity.PurchasePrice) error
	Delete(id string) error
}
