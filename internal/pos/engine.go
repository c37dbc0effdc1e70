// Package pos implements the point-of-sale transaction engine. It turns a
// requested list of sale lines into an atomically committed, immutable
// ledger entry plus the matching catalog stock decrements.
package pos

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"pharmsys/m/domain"
)

// SaleLineRequest is one requested line of a submission. Quantities are
// validated by the engine; prices never come from the request.
type SaleLineRequest struct {
	MedicineID int64 `json:"medicine_id"`
	Quantity   int64 `json:"quantity"`
}

// Engine validates submissions against the catalog, prices them from
// authoritative catalog data, and commits the sale together with its
// stock decrements as a single atomic unit through its Store.
type Engine struct {
	store Store
}

// NewEngine constructs an engine bound to its catalog and ledger store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// SubmitSale validates the requested lines, prices each from the catalog,
// and commits the sale. All validation happens before any mutation is
// attempted; every failure path leaves the store untouched and consumes
// no sale identifier.
//
// Lines referencing the same medicine are validated cumulatively: the
// summed quantity across the whole submission must fit the available
// stock, so two lines that individually pass cannot jointly oversell.
func (e *Engine) SubmitSale(ctx context.Context, lines []SaleLineRequest) (domain.Sale, error) {
	if len(lines) == 0 {
		return domain.Sale{}, ErrEmptyOrder
	}

	var (
		items     = make([]domain.SaleItem, 0, len(lines))
		total     = decimal.Zero
		requested = make(map[int64]int64, len(lines))
		available = make(map[int64]int64, len(lines))
		order     = make([]int64, 0, len(lines))
	)

	for _, line := range lines {
		med, err := e.store.Lookup(ctx, line.MedicineID)
		if err != nil {
			if errors.Is(err, ErrItemNotFound) {
				return domain.Sale{}, &UnknownItemError{MedicineID: line.MedicineID}
			}
			return domain.Sale{}, &StorageError{Op: "catalog lookup", Err: err}
		}
		if line.Quantity <= 0 {
			return domain.Sale{}, &InvalidQuantityError{MedicineID: line.MedicineID, Quantity: line.Quantity}
		}

		if _, seen := requested[line.MedicineID]; !seen {
			order = append(order, line.MedicineID)
			available[line.MedicineID] = med.Stock
		}
		requested[line.MedicineID] += line.Quantity
		if requested[line.MedicineID] > available[line.MedicineID] {
			return domain.Sale{}, &InsufficientStockError{
				MedicineID: line.MedicineID,
				Available:  available[line.MedicineID],
				Requested:  requested[line.MedicineID],
			}
		}

		lineTotal := med.MRP.Mul(decimal.NewFromInt(line.Quantity))
		items = append(items, domain.SaleItem{
			MedicineID:   med.ID,
			MedicineName: med.Name,
			Quantity:     line.Quantity,
			UnitPrice:    med.MRP,
			LineTotal:    lineTotal,
		})
		total = total.Add(lineTotal)
	}

	decrements := make([]StockDecrement, 0, len(order))
	for _, id := range order {
		decrements = append(decrements, StockDecrement{MedicineID: id, Quantity: requested[id]})
	}

	sale := domain.Sale{TotalAmount: total, Items: items}
	if err := e.store.Commit(ctx, &sale, decrements); err != nil {
		return domain.Sale{}, err
	}
	return sale, nil
}
