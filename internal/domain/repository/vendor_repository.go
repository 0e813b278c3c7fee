package repository

import "github.com/costeopro/costeo-api/internal/domain/entity"

// VendorRepository define el puerto de persistencia para Vendor (DIP).
type VendorRepository interface {
	Create(vendor *entity.Vendor) error
	GetByID(id string) (*entity.Vendor, error)
	Update(vendor *entity.Vendor) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Vendor, error)
	Delete(id string) error
}
