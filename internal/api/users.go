package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"pharmsys/m/domain"
	"pharmsys/m/internal/store"
)

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	if !h.requirePermission(w, r, domain.PermUsers) {
		return
	}
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list users")
		return
	}
	out := make([]userResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) updateUserPermissions(w http.ResponseWriter, r *http.Request) {
	if !h.requirePermission(w, r, domain.PermUsers) {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var payload struct {
		Permissions []string `json:"permissions"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.store.UpdateUserPermissions(r.Context(), id, strings.Join(payload.Permissions, ","))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to update permissions")
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if !h.requirePermission(w, r, domain.PermUsers) {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if claims := claimsFromContext(r); claims != nil && claims.UserID == id {
		respondError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}
	if err := h.store.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to delete user")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
