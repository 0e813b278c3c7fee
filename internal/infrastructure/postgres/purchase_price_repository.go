package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/costeopro/costeo-api/internal/domain/entity"
	"github.com/costeopro/costeo-api/internal/domain/repository"
	"github.com/jackc/pgx/v5"
)

var _ repository.PurchasePriceRepository = (*PurchasePriceRepo)(nil)

const purchasePriceColumns = `id, company_id, item_id, vendor_id, direct_unit_cost, start_date, created_at, updated_at`

// PurchasePriceRepo implementación del puerto PurchasePriceRepository sobre PostgreSQL (usable con pool o tx).
type PurchasePriceRepo struct {
	q Querier
}

// NewPurchasePriceRepository construye el adaptador de persistencia para precios de compra. Pasar pool o tx (Querier).
func NewPurchasePriceRepository(q Querier) *PurchasePriceRepo {
	return &PurchasePriceRepo{q: q}
}

// Create persiste un nuevo precio de compra. Se permiten duplicados por proveedor.
func (r *PurchasePriceRepo) Create(price *entity.PurchasePrice) error {
	query := `
		INSERT INTO purchase_prices (` + purchasePriceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		price.ID, price.CompanyID, price.ItemID, price.VendorID,
		price.DirectUnitCost, price.StartDate, price.CreatedAt, price.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase price: %w", err)
	}
	return nil
}

// GetByID obtiene un precio de compra por ID.
func (r *PurchasePriceRepo) GetByID(id string) (*entity.PurchasePrice, error) {
	query := `SELECT ` + purchasePriceColumns + ` FROM purchase_prices WHERE id = $1`
	var p entity.PurchasePrice
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.CompanyID, &p.ItemID, &p.VendorID,
		&p.DirectUnitCost, &p.StartDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase price: %w", err)
	}
	return &p, nil
}

// ListByItem lista los precios de compra vigentes de un ítem. El orden de
// inserción no es contractual: el motor de costeo trata la lista como conjunto.
func (r *PurchasePriceRepo) ListByItem(itemID string) ([]*entity.PurchasePrice, error) {
	query := `SELECT ` + purchasePriceColumns + ` FROM purchase_prices WHERE item_id = $1`
	rows, err := r.q.Query(context.Background(), query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list purchase prices: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchasePrice
	for rows.Next() {
		var p entity.PurchasePrice
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.ItemID, &p.VendorID,
			&p.DirectUnitCost, &p.StartDate, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase price: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// ListByCompany lista precios de compra por empresa con paginación.
func (r *PurchasePriceRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.PurchasePrice, error) {
	query := `SELECT ` + purchasePriceColumns + ` FROM purchase_prices WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase prices by company: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchasePrice
	for rows.Next() {
		var p entity.PurchasePrice
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.ItemID, &p.VendorID,
			&p.DirectUnitCost, &p.StartDate, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase price: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Update actualiza un precio de compra existente.
func (r *PurchasePriceRepo) Update(price *entity.PurchasePrice) error {
	query := `
		UPDATE purchase_prices SET vendor_id = $2, direct_unit_cost = $3, start_date = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		price.ID, price.VendorID, price.DirectUnitCost, price.StartDate, price.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase price: %w", err)
	}
	return nil
}

// Delete elimina un precio de compra por ID.
func (r *PurchasePriceRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM purchase_prices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase price: %w", err)
	}
	return nil
}
