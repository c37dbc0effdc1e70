// Package api exposes the REST surface of the pharmacy backend.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/golang-jwt/jwt/v5"

	"pharmsys/m/domain"
	"pharmsys/m/internal/pos"
	"pharmsys/m/internal/store"
)

type ctxKey string

const ctxClaims ctxKey = "claims"

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	store  *store.Store
	engine *pos.Engine
	secret string
}

// New constructs a Handler.
func New(st *store.Store, engine *pos.Engine, secret string) *Handler {
	return &Handler{store: st, engine: engine, secret: secret}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.register)
			r.Post("/login", h.login)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.authMiddleware)

			pr.Route("/users", func(r chi.Router) {
				r.Get("/", h.listUsers)
				r.Put("/{id}/permissions", h.updateUserPermissions)
				r.Delete("/{id}", h.deleteUser)
			})

			pr.Route("/medicines", func(r chi.Router) {
				r.Get("/", h.listMedicines)
				r.Post("/", h.createMedicine)
				r.Put("/{id}", h.updateMedicine)
				r.Post("/{id}/restock", h.restockMedicine)
			})

			pr.Route("/prescriptions", func(r chi.Router) {
				r.Get("/", h.listPrescriptions)
				r.Post("/", h.createPrescription)
				r.Post("/{id}/fulfill", h.fulfillPrescription)
			})

			pr.Route("/appointments", func(r chi.Router) {
				r.Get("/", h.listAppointments)
				r.Post("/", h.createAppointment)
				r.Put("/{id}/status", h.updateAppointmentStatus)
			})

			pr.Route("/billing", func(r chi.Router) {
				r.Post("/", h.createTransaction)
				r.Get("/", h.listTransactions)
			})

			pr.Get("/reports", h.reports)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Authentication helpers

type authClaims struct {
	UserID      int64    `json:"user_id"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

func (h *Handler) generateToken(user domain.User) (string, error) {
	claims := authClaims{
		UserID:      user.ID,
		Role:        user.Role,
		Permissions: user.PermissionList(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.secret))
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		tokenString := strings.TrimSpace(header[len("Bearer "):])
		token, err := jwt.ParseWithClaims(tokenString, &authClaims{}, func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(h.secret), nil
		})
		if err != nil || !token.Valid {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		claims, ok := token.Claims.(*authClaims)
		if !ok {
			respondError(w, http.StatusUnauthorized, "invalid token claims")
			return
		}
		ctx := context.WithValue(r.Context(), ctxClaims, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func claimsFromContext(r *http.Request) *authClaims {
	if claims, ok := r.Context().Value(ctxClaims).(*authClaims); ok {
		return claims
	}
	return nil
}

func (h *Handler) requirePermission(w http.ResponseWriter, r *http.Request, perm string) bool {
	claims := claimsFromContext(r)
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "missing credentials")
		return false
	}
	for _, p := range claims.Permissions {
		if p == perm {
			return true
		}
	}
	respondError(w, http.StatusForbidden, "insufficient permissions")
	return false
}

// Helpers

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
