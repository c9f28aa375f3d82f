package routes

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"carpool-service/pkg/apperrors"
	"carpool-service/pkg/jwt"
)

// Handler exposes saved-route HTTP endpoints.
type Handler struct{ svc *Service }

// NewHandler wires a handler to the saved-route service.
func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// Routes returns a chi.Router mounted at /trips/routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(jwt.RequireAuth)
	r.Use(jwt.RequireRole(jwt.RolePassenger))

	r.Get("/saved", h.List)
	r.Post("/saved", h.Record)

	return r
}

func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())

	var req RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	route, err := h.svc.RecordSearch(r.Context(), claims.UserID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, route)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	out, err := h.svc.List(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperrors.StatusOf(err), map[string]string{"error": err.Error()})
}
