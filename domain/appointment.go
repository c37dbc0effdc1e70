package domain

const (
	AppointmentScheduled = "SCHEDULED"
	AppointmentCheckedIn = "CHECKED_IN"
	AppointmentCompleted = "COMPLETED"
	AppointmentCancelled = "CANCELLED"
)

type Appointment struct {
	ID          int64  `db:"id" json:"id"`
	PatientName string `db:"patient_name" json:"patient_name"`
	DoctorName  string `db:"doctor_name" json:"doctor_name"`
	Date        string `db:"date" json:"date"`
	Time        string `db:"time" json:"time"`
	Status      string `db:"status" json:"status"`
	Notes       string `db:"notes" json:"notes,omitempty"`
	CreatedAt   string `db:"created_at" json:"created_at"`
	UpdatedAt   string `db:"updated_at" json:"updated_at"`
}
