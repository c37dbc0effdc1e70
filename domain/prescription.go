package domain

const (
	PrescriptionPending   = "PENDING"
	PrescriptionFulfilled = "FULFILLED"
)

type Prescription struct {
	ID          int64              `db:"id" json:"id"`
	PatientName string             `db:"patient_name" json:"patient_name"`
	DoctorName  string             `db:"doctor_name" json:"doctor_name"`
	Status      string             `db:"status" json:"status"`
	Items       []PrescriptionItem `json:"items"`
	CreatedAt   string             `db:"created_at" json:"created_at"`
	UpdatedAt   string             `db:"updated_at" json:"updated_at"`
}

type PrescriptionItem struct {
	ID             int64  `db:"id" json:"-"`
	PrescriptionID int64  `db:"prescription_id" json:"-"`
	MedicineID     int64  `db:"medicine_id" json:"medicine_id"`
	MedicineName   string `db:"medicine_name" json:"medicine_name"`
	Dosage         string `db:"dosage" json:"dosage"`
	Duration       string `db:"duration" json:"duration"`
	Quantity       int64  `db:"quantity" json:"quantity"`
}
