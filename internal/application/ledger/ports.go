package ledger

import (
	"context"

	"github.com/farmerp/stockledger-api/internal/domain/repository"
)

// TxRunner executes a function inside one database transaction, handing it
// repositories bound to that transaction. Every ledger mutation runs under it
// so the lot change, the cached balance update and the audit append commit or
// roll back together.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		lotRepo repository.LotRepository,
		txRepo repository.TransactionRepository,
		poRepo repository.PurchaseOrderRepository,
	) error) error
}
