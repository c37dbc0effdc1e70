package pos

import (
	"context"
	"errors"

	"pharmsys/m/domain"
)

// ErrItemNotFound is returned by Catalog.Lookup for an unknown medicine id.
var ErrItemNotFound = errors.New("catalog item not found")

// StockDecrement is the aggregated stock reduction for one medicine within
// a single commit. Duplicate lines for the same medicine collapse into one
// decrement before the commit boundary is entered.
type StockDecrement struct {
	MedicineID int64
	Quantity   int64
}

// Catalog provides point-in-time reads of the medicine catalog. Results
// read outside the commit boundary are advisory only: the store re-checks
// stock when the commit applies its decrements.
type Catalog interface {
	Lookup(ctx context.Context, id int64) (domain.Medicine, error)
}

// Ledger reads back the append-only log of completed sales.
type Ledger interface {
	// ListAll returns every recorded sale with its items, in commit order.
	ListAll(ctx context.Context) ([]domain.Sale, error)
}

// Store is the persistence contract the engine commits through. Commit
// assigns the sale identifier (strictly increasing, in commit order) and
// creation time, persists the header and its items, and applies every
// decrement, all as one atomic unit: either everything is durable or
// nothing is.
//
// Commit returns ErrStockConflict when a decrement would drive stock
// negative (a concurrent sale won the race) and a *StorageError for any
// other persistence failure. Both leave the store untouched.
type Store interface {
	Catalog
	Ledger
	Commit(ctx context.Context, sale *domain.Sale, decrements []StockDecrement) error
}
