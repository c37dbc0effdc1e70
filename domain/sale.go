package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is an immutable ledger entry for one completed point-of-sale
// transaction. The identifier and creation time are assigned when the
// commit lands; the record is never updated or deleted afterwards.
type Sale struct {
	ID          int64           `db:"id" json:"id"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"total_amount"`
	Items       []SaleItem      `json:"items"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SaleItem snapshots the medicine name and unit price at sale time so the
// record stays historically accurate if the catalog entry is later
// renamed or repriced.
type SaleItem struct {
	ID           int64           `db:"id" json:"-"`
	SaleID       int64           `db:"sale_id" json:"-"`
	MedicineID   int64           `db:"medicine_id" json:"medicine_id"`
	MedicineName string          `db:"medicine_name" json:"medicine_name"`
	Quantity     int64           `db:"quantity" json:"quantity"`
	UnitPrice    decimal.Decimal `db:"unit_price" json:"unit_price"`
	LineTotal    decimal.Decimal `db:"line_total" json:"line_total"`
}
