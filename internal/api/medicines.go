package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"pharmsys/m/domain"
	"pharmsys/m/internal/pos"
)

type medicineRequest struct {
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer"`
	BatchNumber  string `json:"batch_number"`
	ExpiryDate   string `json:"expiry_date"`
	MRP          string `json:"mrp"`
	Stock        int64  `json:"stock"`
}

func parseMRP(raw string) (decimal.Decimal, error) {
	mrp, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errors.New("mrp must be a decimal number")
	}
	if mrp.IsNegative() {
		return decimal.Zero, errors.New("mrp must not be negative")
	}
	return mrp, nil
}

func (h *Handler) listMedicines(w http.ResponseWriter, r *http.Request) {
	if !h.requirePermission(w, r, domain.PermInventory) {
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	medicines, err := h.store.ListMedicines(r.Context(), query)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list medicines")
		return
	}
	respondJSON(w, http.StatusOK, medicines)
}

func (h *Handler) createMedicine(w http.ResponseWriter, r *http.Request) {
	if !h.requirePermission(w, r, domain.PermInventory) {
		return
	}
	var req medicineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" || req.MRP == "" {
		respondError(w, http.StatusBadRequest, "name and mrp are required")
		return
	}
	mrp, err := parseMRP(req.MRP)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Stock < 0 {
		respondError(w, http.StatusBadRequest, "stock must not be negative")
		return
	}

	med := domain.Medicine{
		Name:         req.Name,
		Manufacturer: req.Manufacturer,
		BatchNumber:  req.BatchNumber,
		ExpiryDate:   nullIfEmpty(req.ExpiryDate),
		MRP:          mrp,
		Stock:        req.Stock,
	}
	if err := h.store.CreateMedicine(r.Context(), &med); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create medicine")
		return
	}
	respondJSON(w, http.StatusCreated, med)
}

func (h *Handler) updateMedicine(w http.ResponseWriter, r *http.Request) {
	if !h.requirePermission(w, r, domain.PermInventory) {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid medicine id")
		return
	}
	var req medicineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" || req.MRP == "" {
		respondError(w, http.StatusBadRequest, "name and mrp are required")
		return
	}
	mrp, err := parseMRP(req.MRP)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	med := domain.Medicine{
		ID:           id,
		Name:         req.Name,
		Manufacturer: req.Manufacturer,
		BatchNumber:  req.BatchNumber,
		ExpiryDate:   nullIfEmpty(req.ExpiryDate),
		MRP:          mrp,
	}
	if err := h.store.UpdateMedicine(r.Context(), med); err != nil {
		if errors.Is(err, pos.ErrItemNotFound) {
			respondError(w, http.StatusNotFound, "medicine not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to update medicine")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) restockMedicine(w http.ResponseWriter, r *http.Request) {
	if !h.requirePermission(w, r, domain.PermInventory) {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid medicine id")
		return
	}
	var payload struct {
		Quantity int64 `json:"quantity"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.Quantity == 0 {
		respondError(w, http.StatusBadRequest, "quantity must not be zero")
		return
	}

	med, err := h.store.Restock(r.Context(), id, payload.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, pos.ErrItemNotFound):
			respondError(w, http.StatusNotFound, "medicine not found")
		case errors.Is(err, pos.ErrStockConflict):
			respondError(w, http.StatusConflict, "adjustment would drive stock negative")
		default:
			respondError(w, http.StatusInternalServerError, "unable to adjust stock")
		}
		return
	}
	respondJSON(w, http.StatusOK, med)
}

func nullIfEmpty(val string) *string {
	trimmed := strings.TrimSpace(val)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
