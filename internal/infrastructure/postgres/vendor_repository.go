package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/costeopro/costeo-api/internal/domain"
	"github.com/costeopro/costeo-api/internal/domain/entity"
	"github.com/costeopro/costeo-api/internal/domain/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ repository.VendorRepository = (*VendorRepo)(nil)

// VendorRepo implementación del puerto VendorRepository sobre PostgreSQL.
type VendorRepo struct {
	pool *pgxpool.Pool
}

// NewVendorRepository construye el adaptador de persistencia para proveedores.
func NewVendorRepository(pool *pgxpool.Pool) *VendorRepo {
	return &VendorRepo{pool: pool}
}

// Create persiste un nuevo proveedor.
func (r *VendorRepo) Create(vendor *entity.Vendor) error {
	query := `
		INSERT INTO vendors (id, company_id, name, nit, email, phone, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.pool.Exec(context.Background(), query,
		vendor.ID, vendor.CompanyID, vendor.Name, vendor.NIT, vendor.Email,
		vendor.Phone, vendor.Active, vendor.CreatedAt, vendor.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert vendor: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor por ID.
func (r *VendorRepo) GetByID(id string) (*entity.Vendor, error) {
	query := `
		SELECT id, company_id, name, nit, email, phone, active, created_at, updated_at
		FROM vendors WHERE id = $1`
	var v entity.Vendor
	err := r.pool.QueryRow(context.Background(), query, id).Scan(
		&v.ID, &v.CompanyID, &v.Name, &v.NIT, &v.Email, &v.Phone, &v.Active, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor: %w", err)
	}
	return &v, nil
}

// Update actualiza un proveedor existente.
func (r *VendorRepo) Update(vendor *entity.Vendor) error {
	query := `
		UPDATE vendors SET name = $2, nit = $3, email = $4, phone = $5, active = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query,
		vendor.ID, vendor.Name, vendor.NIT, vendor.Email, vendor.Phone, vendor.Active, vendor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update vendor: %w", err)
	}
	return nil
}

// ListByCompany lista proveedores por empresa con paginación.
func (r *VendorRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Vendor, error) {
	query := `
		SELECT id, company_id, name, nit, email, phone, active, created_at, updated_at
		FROM vendors WHERE company_id = $1 ORDER BY name ASC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()
	var list []*entity.Vendor
	for rows.Next() {
		var v entity.Vendor
		if err := rows.Scan(&v.ID, &v.CompanyID, &v.Name, &v.NIT, &v.Email, &v.Phone, &v.Active, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

// Delete elimina un proveedor por ID.
func (r *VendorRepo) Delete(id string) error {
	_, err := r.pool.Exec(context.Background(), `DELETE FROM vendors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete vendor: %w", err)
	}
	return nil
}
