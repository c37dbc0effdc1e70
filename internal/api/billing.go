package api

import (
	"errors"
	"net/http"

	"pharmsys/m/domain"
	"pharmsys/m/internal/pos"
)

type transactionRequest struct {
	Items []pos.SaleLineRequest `json:"items"`
}

func (h *Handler) createTransaction(w http.ResponseWriter, r *http.Request) {
	if !h.requirePermission(w, r, domain.PermBilling) {
		return
	}
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sale, err := h.engine.SubmitSale(r.Context(), req.Items)
	if err != nil {
		h.respondSaleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, sale)
}

// respondSaleError translates the engine's error taxonomy into transport
// signaling: validation problems are client errors, a lost stock race is
// a retryable conflict, storage failures are server errors.
func (h *Handler) respondSaleError(w http.ResponseWriter, err error) {
	var (
		unknown *pos.UnknownItemError
		invalid *pos.InvalidQuantityError
		short   *pos.InsufficientStockError
	)
	switch {
	case errors.Is(err, pos.ErrEmptyOrder):
		respondError(w, http.StatusBadRequest, "no items in transaction")
	case errors.As(err, &unknown):
		respondError(w, http.StatusBadRequest, unknown.Error())
	case errors.As(err, &invalid):
		respondError(w, http.StatusBadRequest, invalid.Error())
	case errors.As(err, &short):
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":       short.Error(),
			"medicine_id": short.MedicineID,
			"available":   short.Available,
			"requested":   short.Requested,
		})
	case errors.Is(err, pos.ErrStockConflict):
		respondError(w, http.StatusConflict, "stock changed while committing, retry the transaction")
	default:
		respondError(w, http.StatusInternalServerError, "unable to record transaction")
	}
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	if !h.requirePermission(w, r, domain.PermBilling) {
		return
	}
	sales, err := h.store.ListAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list transactions")
		return
	}
	respondJSON(w, http.StatusOK, sales)
}
