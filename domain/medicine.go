package domain

import "github.com/shopspring/decimal"

// Medicine is a catalog entry: the authoritative name, unit price and
// on-hand stock for a purchasable product. Stock never goes negative; it
// is decremented only inside a sale commit and adjusted only by
// administrative restocks.
type Medicine struct {
	ID           int64           `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	Manufacturer string          `db:"manufacturer" json:"manufacturer"`
	BatchNumber  string          `db:"batch_number" json:"batch_number"`
	ExpiryDate   *string         `db:"expiry_date" json:"expiry_date,omitempty"`
	MRP          decimal.Decimal `db:"mrp" json:"mrp"`
	Stock        int64           `db:"stock" json:"stock"`
	CreatedAt    string          `db:"created_at" json:"created_at"`
	UpdatedAt    string          `db:"updated_at" json:"updated_at"`
}
