// Package service exposes the settlement engine over a JSON HTTP API. It is
// thin glue: request decoding, validation, and DTO mapping around the
// calculator, lifecycle, and storage packages.
package service

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/settlr/settlr/internal/lifecycle"
	"github.com/settlr/settlr/internal/storage"
)

// Service wires the HTTP surface to the store and the lifecycle manager.
type Service struct {
	store     storage.Store
	lifecycle *lifecycle.Manager
}

// New creates a Service over the given collaborators.
func New(store storage.Store, manager *lifecycle.Manager) *Service {
	return &Service{store: store, lifecycle: manager}
}

// Routes returns the router for the whole API surface.
func (s *Service) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/events", s.createEvent)
	r.Get("/events/{eventID}", s.getEvent)
	r.Patch("/events/{eventID}/status", s.updateEventStatus)

	r.Post("/events/{eventID}/participants", s.addParticipant)
	r.Get("/events/{eventID}/participants", s.listParticipants)
	r.Delete("/events/{eventID}/participants/{participantID}", s.removeParticipant)

	r.Post("/events/{eventID}/expenses", s.createExpense)
	r.Put("/expenses/{expenseID}", s.updateExpense)
	r.Delete("/expenses/{expenseID}", s.deleteExpense)

	r.Get("/events/{eventID}/balances", s.getBalances)
	r.Get("/events/{eventID}/settlements", s.listSettlements)
	r.Post("/settlements/{settlementID}/pay", s.paySettlement)

	r.Post("/events/{eventID}/consolidations/preview", s.previewConsolidations)
	r.Post("/events/{eventID}/consolidations/validate", s.validateConsolidations)

	return r
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps engine errors onto HTTP statuses: missing rows become 404,
// everything else at the given status.
func (s *Service) writeError(w http.ResponseWriter, status int, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		status = http.StatusNotFound
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
