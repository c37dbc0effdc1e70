package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pharmsys/m/domain"
	"pharmsys/m/internal/store"
)

type prescriptionItemRequest struct {
	MedicineID   int64  `json:"medicine_id"`
	MedicineName string `json:"medicine_name"`
	Dosage       string `json:"dosage"`
	Duration     string `json:"duration"`
	Quantity     int64  `json:"quantity"`
}

type prescriptionRequest struct {
	PatientName string                    `json:"patient_name"`
	DoctorName  string                    `json:"doctor_name"`
	Items       []prescriptionItemRequest `json:"items"`
}

func (h *Handler) listPrescriptions(w http.ResponseWriter, r *http.Request) {
	if !h.requirePermission(w, r, domain.PermPrescriptions) {
		return
	}
	prescriptions, err := h.store.ListPrescriptions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list prescriptions")
		return
	}
	respondJSON(w, http.StatusOK, prescriptions)
}

func (h *Handler) createPrescription(w http.ResponseWriter, r *http.Request) {
	if !h.requirePermission(w, r, domain.PermPrescriptions) {
		return
	}
	var req prescriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.PatientName == "" || req.DoctorName == "" {
		respondError(w, http.StatusBadRequest, "patient_name and doctor_name are required")
		return
	}
	if len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "prescription needs at least one item")
		return
	}

	p := domain.Prescription{PatientName: req.PatientName, DoctorName: req.DoctorName}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			respondError(w, http.StatusBadRequest, "item quantity must be positive")
			return
		}
		p.Items = append(p.Items, domain.PrescriptionItem{
			MedicineID:   it.MedicineID,
			MedicineName: it.MedicineName,
			Dosage:       it.Dosage,
			Duration:     it.Duration,
			Quantity:     it.Quantity,
		})
	}

	if err := h.store.CreatePrescription(r.Context(), &p); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create prescription")
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (h *Handler) fulfillPrescription(w http.ResponseWriter, r *http.Request) {
	if !h.requirePermission(w, r, domain.PermPrescriptions) {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid prescription id")
		return
	}
	if err := h.store.FulfillPrescription(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "prescription not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to fulfill prescription")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": domain.PrescriptionFulfilled})
}
