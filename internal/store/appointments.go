package store

import (
	"context"

	"pharmsys/m/domain"
)

// CreateAppointment inserts a new appointment in SCHEDULED state and
// fills in its id.
func (s *Store) CreateAppointment(ctx context.Context, a *domain.Appointment) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO appointments (patient_name, doctor_name, date, time, status, notes)
         VALUES (?, ?, ?, ?, ?, ?)`,
		a.PatientName, a.DoctorName, a.Date, a.Time, domain.AppointmentScheduled, a.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = id
	a.Status = domain.AppointmentScheduled
	return nil
}

// ListAppointments returns every appointment, newest first.
func (s *Store) ListAppointments(ctx context.Context) ([]domain.Appointment, error) {
	appointments := []domain.Appointment{}
	err := s.db.SelectContext(ctx, &appointments,
		`SELECT id, patient_name, doctor_name, date, time, status, notes, created_at, updated_at
         FROM appointments ORDER BY id DESC`)
	return appointments, err
}

// UpdateAppointmentStatus moves an appointment to the given status.
func (s *Store) UpdateAppointmentStatus(ctx context.Context, id int64, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE appointments SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
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
