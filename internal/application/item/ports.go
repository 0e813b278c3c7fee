package item

import (
	"context"

	"github.com/costeopro/costeo-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la lectura de precios de compra
// y la escritura del ítem sean consistentes en cada recálculo.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		priceRepo repository.PurchasePriceRepository,
	) error) error
}
