package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pharmsys/m/domain"
	"pharmsys/m/internal/store"
)

type appointmentRequest struct {
	PatientName string `json:"patient_name"`
	DoctorName  string `json:"doctor_name"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Notes       string `json:"notes"`
}

func validAppointmentStatus(status string) bool {
	switch status {
	case domain.AppointmentScheduled, domain.AppointmentCheckedIn, domain.AppointmentCompleted, domain.AppointmentCancelled:
		return true
	}
	return false
}

func (h *Handler) listAppointments(w http.ResponseWriter, r *http.Request) {
	if !h.requirePermission(w, r, domain.PermAppointments) {
		return
	}
	appointments, err := h.store.ListAppointments(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list appointments")
		return
	}
	respondJSON(w, http.StatusOK, appointments)
}

func (h *Handler) createAppointment(w http.ResponseWriter, r *http.Request) {
	if !h.requirePermission(w, r, domain.PermAppointments) {
		return
	}
	var req appointmentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.PatientName == "" || req.DoctorName == "" || req.Date == "" || req.Time == "" {
		respondError(w, http.StatusBadRequest, "patient_name, doctor_name, date and time are required")
		return
	}

	a := domain.Appointment{
		PatientName: req.PatientName,
		DoctorName:  req.DoctorName,
		Date:        req.Date,
		Time:        req.Time,
		Notes:       req.Notes,
	}
	if err := h.store.CreateAppointment(r.Context(), &a); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create appointment")
		return
	}
	respondJSON(w, http.StatusCreated, a)
}

func (h *Handler) updateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	if !h.requirePermission(w, r, domain.PermAppointments) {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid appointment id")
		return
	}
	var payload struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validAppointmentStatus(payload.Status) {
		respondError(w, http.StatusBadRequest, "unknown appointment status")
		return
	}

	if err := h.store.UpdateAppointmentStatus(r.Context(), id, payload.Status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "appointment not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to update appointment")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": payload.Status})
}
