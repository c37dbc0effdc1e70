// Package store is the sqlx-backed persistence layer: the transaction
// engine's catalog, ledger, and commit boundary, plus the administrative
// CRUD the HTTP API needs. Administrative stock adjustments run through
// the same database as sale commits, so both contend on the same
// serialization.
package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"pharmsys/m/domain"
	"pharmsys/m/internal/pos"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

type Store struct {
	db *sqlx.DB
}

// New constructs a Store over an open database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Lookup implements pos.Catalog.
func (s *Store) Lookup(ctx context.Context, id int64) (domain.Medicine, error) {
	var med domain.Medicine
	err := s.db.GetContext(ctx, &med,
		`SELECT id, name, manufacturer, batch_number, expiry_date, mrp, stock, created_at, updated_at
         FROM medicines WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Medicine{}, pos.ErrItemNotFound
	}
	if err != nil {
		return domain.Medicine{}, err
	}
	return med, nil
}

// Commit implements pos.Store. The sale header, its items, and the stock
// decrements land in one transaction. A decrement that would drive stock
// negative aborts everything with pos.ErrStockConflict; the sale struct
// is only populated with its identifier and timestamp once the
// transaction is durable.
func (s *Store) Commit(ctx context.Context, sale *domain.Sale, decrements []pos.StockDecrement) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return &pos.StorageError{Op: "begin sale commit", Err: err}
	}
	defer tx.Rollback()

	createdAt := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO sales (total_amount, created_at) VALUES (?, ?)`,
		sale.TotalAmount.String(), createdAt.Format(time.RFC3339Nano))
	if err != nil {
		return &pos.StorageError{Op: "insert sale", Err: err}
	}
	saleID, err := res.LastInsertId()
	if err != nil {
		return &pos.StorageError{Op: "insert sale", Err: err}
	}

	itemIDs := make([]int64, len(sale.Items))
	for i := range sale.Items {
		it := sale.Items[i]
		res, err := tx.ExecContext(ctx,
			`INSERT INTO sale_items (sale_id, medicine_id, medicine_name, quantity, unit_price, line_total)
             VALUES (?, ?, ?, ?, ?, ?)`,
			saleID, it.MedicineID, it.MedicineName, it.Quantity, it.UnitPrice.String(), it.LineTotal.String())
		if err != nil {
			return &pos.StorageError{Op: "insert sale item", Err: err}
		}
		if itemIDs[i], err = res.LastInsertId(); err != nil {
			return &pos.StorageError{Op: "insert sale item", Err: err}
		}
	}

	for _, d := range decrements {
		res, err := tx.ExecContext(ctx,
			`UPDATE medicines SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
             WHERE id = ? AND stock >= ?`,
			d.Quantity, d.MedicineID, d.Quantity)
		if err != nil {
			return &pos.StorageError{Op: "decrement stock", Err: err}
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return &pos.StorageError{Op: "decrement stock", Err: err}
		}
		if rows == 0 {
			return pos.ErrStockConflict
		}
	}

	if err := tx.Commit(); err != nil {
		return &pos.StorageError{Op: "commit sale", Err: err}
	}

	sale.ID = saleID
	sale.CreatedAt = createdAt
	for i := range sale.Items {
		sale.Items[i].ID = itemIDs[i]
		sale.Items[i].SaleID = saleID
	}
	return nil
}

// ListAll implements pos.Ledger: every sale with its items, in commit
// order.
func (s *Store) ListAll(ctx context.Context) ([]domain.Sale, error) {
	type saleRow struct {
		ID          int64           `db:"id"`
		TotalAmount decimal.Decimal `db:"total_amount"`
		CreatedAt   string          `db:"created_at"`
	}
	var rows []saleRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT id, total_amount, created_at FROM sales ORDER BY id`); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []domain.Sale{}, nil
	}

	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	query, args, err := sqlx.In(
		`SELECT id, sale_id, medicine_id, medicine_name, quantity, unit_price, line_total
         FROM sale_items WHERE sale_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	var items []domain.SaleItem
	if err := s.db.SelectContext(ctx, &items, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	bySale := make(map[int64][]domain.SaleItem, len(rows))
	for _, it := range items {
		bySale[it.SaleID] = append(bySale[it.SaleID], it)
	}

	sales := make([]domain.Sale, len(rows))
	for i, r := range rows {
		createdAt, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
		if err != nil {
			return nil, err
		}
		sales[i] = domain.Sale{ID: r.ID, TotalAmount: r.TotalAmount, Items: bySale[r.ID], CreatedAt: createdAt}
	}
	return sales, nil
}
