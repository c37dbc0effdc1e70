package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"pharmsys/m/domain"
)

// CreatePrescription inserts a prescription with its items in one
// transaction and fills in the generated identifiers.
func (s *Store) CreatePrescription(ctx context.Context, p *domain.Prescription) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO prescriptions (patient_name, doctor_name, status) VALUES (?, ?, ?)`,
		p.PatientName, p.DoctorName, domain.PrescriptionPending)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for i := range p.Items {
		it := p.Items[i]
		res, err := tx.ExecContext(ctx,
			`INSERT INTO prescription_items (prescription_id, medicine_id, medicine_name, dosage, duration, quantity)
             VALUES (?, ?, ?, ?, ?, ?)`,
			id, it.MedicineID, it.MedicineName, it.Dosage, it.Duration, it.Quantity)
		if err != nil {
			return err
		}
		if p.Items[i].ID, err = res.LastInsertId(); err != nil {
			return err
		}
		p.Items[i].PrescriptionID = id
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	p.ID = id
	p.Status = domain.PrescriptionPending
	return nil
}

// ListPrescriptions returns every prescription with its items, newest
// first.
func (s *Store) ListPrescriptions(ctx context.Context) ([]domain.Prescription, error) {
	prescriptions := []domain.Prescription{}
	err := s.db.SelectContext(ctx, &prescriptions,
		`SELECT id, patient_name, doctor_name, status, created_at, updated_at
         FROM prescriptions ORDER BY id DESC`)
	if err != nil || len(prescriptions) == 0 {
		return prescriptions, err
	}

	ids := make([]int64, len(prescriptions))
	for i, p := range prescriptions {
		ids[i] = p.ID
	}
	query, args, err := sqlx.In(
		`SELECT id, prescription_id, medicine_id, medicine_name, dosage, duration, quantity
         FROM prescription_items WHERE prescription_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	var items []domain.PrescriptionItem
	if err := s.db.SelectContext(ctx, &items, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	byPrescription := make(map[int64][]domain.PrescriptionItem, len(prescriptions))
	for _, it := range items {
		byPrescription[it.PrescriptionID] = append(byPrescription[it.PrescriptionID], it)
	}
	for i := range prescriptions {
		prescriptions[i].Items = byPrescription[prescriptions[i].ID]
		if prescriptions[i].Items == nil {
			prescriptions[i].Items = []domain.PrescriptionItem{}
		}
	}
	return prescriptions, nil
}

// FulfillPrescription marks a pending prescription as fulfilled.
func (s *Store) FulfillPrescription(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE prescriptions SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		domain.PrescriptionFulfilled, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
