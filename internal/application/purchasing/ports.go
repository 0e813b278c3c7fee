package purchasing

import (
	"context"

	"github.com/costeopro/costeo-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repos de
// ítems y precios de compra atados a ella.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		priceRepo repository.PurchasePriceRepository,
	) error) error
}

// CostingUseCase interfaz para integrar compras con el costeo comercial.
// RecalculateItemInTx recalcula el ítem usando los repositorios del caller
// (misma transacción). Si retorna error, el caller debe hacer rollback.
type CostingUseCase interface {
	RecalculateItemInTx(
		itemRepo repository.ItemRepository,
		priceRepo repository.PurchasePriceRepository,
		itemID string,
	) error
}
