package pos

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyOrder rejects a submission with no line items.
	ErrEmptyOrder = errors.New("sale has no line items")

	// ErrStockConflict reports a commit-time race loss: validation passed
	// but a concurrent sale drained the stock first. Nothing was
	// persisted; retrying is the caller's decision.
	ErrStockConflict = errors.New("concurrent stock conflict")
)

// UnknownItemError identifies the first requested medicine missing from
// the catalog, in request order.
type UnknownItemError struct {
	MedicineID int64
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("medicine %d not found", e.MedicineID)
}

// InvalidQuantityError reports a non-positive requested quantity.
type InvalidQuantityError struct {
	MedicineID int64
	Quantity   int64
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for medicine %d", e.Quantity, e.MedicineID)
}

// InsufficientStockError reports a request exceeding available stock.
// Requested is cumulative across every line of the submission that
// references the same medicine.
type InsufficientStockError struct {
	MedicineID int64
	Available  int64
	Requested  int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for medicine %d: available %d, requested %d",
		e.MedicineID, e.Available, e.Requested)
}

// StorageError wraps a persistence failure during lookup or commit. The
// commit has been rolled back in full before it surfaces.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
