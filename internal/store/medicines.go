package store

import (
	"context"

	"pharmsys/m/domain"
	"pharmsys/m/internal/pos"
)

// CreateMedicine inserts a new catalog entry and fills in its id.
func (s *Store) CreateMedicine(ctx context.Context, med *domain.Medicine) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO medicines (name, manufacturer, batch_number, expiry_date, mrp, stock)
         VALUES (?, ?, ?, ?, ?, ?)`,
		med.Name, med.Manufacturer, med.BatchNumber, med.ExpiryDate, med.MRP.String(), med.Stock)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	med.ID = id
	return nil
}

// ListMedicines returns catalog entries, optionally filtered by a
// case-insensitive name match.
func (s *Store) ListMedicines(ctx context.Context, query string) ([]domain.Medicine, error) {
	medicines := []domain.Medicine{}
	if query == "" {
		err := s.db.SelectContext(ctx, &medicines,
			`SELECT id, name, manufacturer, batch_number, expiry_date, mrp, stock, created_at, updated_at
             FROM medicines ORDER BY name`)
		return medicines, err
	}
	like := "%" + query + "%"
	err := s.db.SelectContext(ctx, &medicines,
		`SELECT id, name, manufacturer, batch_number, expiry_date, mrp, stock, created_at, updated_at
         FROM medicines WHERE name LIKE ? OR manufacturer LIKE ? ORDER BY name`, like, like)
	return medicines, err
}

// UpdateMedicine rewrites the descriptive fields and unit price of a
// catalog entry. Stock is adjusted only through Restock or a sale commit.
func (s *Store) UpdateMedicine(ctx context.Context, med domain.Medicine) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE medicines SET name = ?, manufacturer = ?, batch_number = ?, expiry_date = ?, mrp = ?,
             updated_at = CURRENT_TIMESTAMP
         WHERE id = ?`,
		med.Name, med.Manufacturer, med.BatchNumber, med.ExpiryDate, med.MRP.String(), med.ID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return pos.ErrItemNotFound
	}
	return nil
}

// Restock applies a signed stock adjustment. The update is conditional so
// a negative adjustment racing a concurrent sale can never drive stock
// below zero; that race surfaces as pos.ErrStockConflict.
func (s *Store) Restock(ctx context.Context, id, delta int64) (domain.Medicine, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE medicines SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP
         WHERE id = ? AND stock + ? >= 0`,
		delta, id, delta)
	if err != nil {
		return domain.Medicine{}, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return domain.Medicine{}, err
	}
	if rows == 0 {
		if _, err := s.Lookup(ctx, id); err != nil {
			return domain.Medicine{}, err
		}
		return domain.Medicine{}, pos.ErrStockConflict
	}
	return s.Lookup(ctx, id)
}
