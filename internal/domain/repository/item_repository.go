package repository

import "github.com/costeopro/costeo-api/internal/domain/entity"

// ItemRepository define el puerto de persistencia para Item (DIP).
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	GetByCompanyAndSKU(companyID, sku string) (*entity.Item, error)
	Update(item *entity.Item) error
	// UpdateCosting persiste solo los campos de costeo (método, precios, descuento, costo comercial).
	UpdateCosting(item *entity.Item) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Item, error)
	Delete(id string) error
	// GetForUpdate bloquea la fila del ítem (SELECT FOR UPDATE) dentro de una tx.
	GetForUpdate(id string) (*entity.Item, error)
}
