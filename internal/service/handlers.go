package service

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/settlr/settlr/internal/calculator"
	"github.com/settlr/settlr/internal/models"
)

func (s *Service) createEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Currency string `json:"currency"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Name == "" || req.Currency == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("name and currency are required"))
		return
	}

	event := &models.Event{Name: req.Name, Currency: req.Currency}
	if err := s.store.CreateEvent(r.Context(), event); err != nil {
		slog.Error("createEvent failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toEventResponse(event))
}

func (s *Service) getEvent(w http.ResponseWriter, r *http.Request) {
	event, err := s.store.GetEvent(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toEventResponse(event))
}

func (s *Service) updateEventStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	status := models.EventStatus(req.Status)
	if !status.Valid() {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("unknown status %q", req.Status))
		return
	}

	eventID := chi.URLParam(r, "eventID")
	if err := s.store.UpdateEventStatus(r.Context(), eventID, status); err != nil {
		slog.Error("updateEventStatus failed", "event_id", eventID, "error", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) addParticipant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Name == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("name is required"))
		return
	}

	eventID := chi.URLParam(r, "eventID")
	p := &models.Participant{Name: req.Name}
	if err := s.store.AddParticipant(r.Context(), eventID, p); err != nil {
		slog.Error("addParticipant failed", "event_id", eventID, "error", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	// Membership changes the split base, so the mutation is only complete
	// once the settlements reflect it.
	if err := s.lifecycle.Recalculate(r.Context(), eventID); err != nil {
		slog.Error("recalculation after addParticipant failed", "event_id", eventID, "error", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, participantResponse{ID: p.ID, Name: p.Name})
}

func (s *Service) listParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := s.store.EventParticipants(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]participantResponse, len(participants))
	for i, p := range participants {
		out[i] = participantResponse{ID: p.ID, Name: p.Name}
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Service) removeParticipant(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	participantID := chi.URLParam(r, "participantID")

	if err := s.store.RemoveParticipant(r.Context(), eventID, participantID); err != nil {
		slog.Error("removeParticipant failed", "event_id", eventID, "error", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := s.lifecycle.Recalculate(r.Context(), eventID); err != nil {
		slog.Error("recalculation after removeParticipant failed", "event_id", eventID, "error", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// expenseFromRequest converts and validates an expense payload. Splits are
// taken as given when present, otherwise divided equally among the event's
// participants.
func (s *Service) expenseFromRequest(r *http.Request, eventID string, req expenseRequest) (*models.Expense, []models.Split, error) {
	amount := models.Cents(req.Amount)
	if amount <= 0 {
		return nil, nil, models.ErrAmountNotPositive
	}

	expense := &models.Expense{
		EventID:     eventID,
		PayerID:     req.PayerID,
		Description: req.Description,
		Amount:      amount,
	}
	if req.Date != nil {
		expense.Date = *req.Date
	}

	var splits []models.Split
	if len(req.Splits) == 0 {
		participants, err := s.store.EventParticipants(r.Context(), eventID)
		if err != nil {
			return nil, nil, err
		}
		ids := make([]string, len(participants))
		for i, p := range participants {
			ids[i] = p.ID
		}
		splits, err = models.EqualSplits(expense.ID, amount, ids)
		if err != nil {
			return nil, nil, err
		}
	} else {
		for _, sp := range req.Splits {
			splits = append(splits, models.Split{
				ParticipantID: sp.ParticipantID,
				Amount:        models.Cents(sp.Amount),
				Percentage:    sp.Percentage,
				Type:          models.SplitType(sp.Type),
			})
		}
	}

	if err := models.ValidateSplits(amount, splits); err != nil {
		return nil, nil, err
	}
	return expense, splits, nil
}

func (s *Service) createExpense(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	var req expenseRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	expense, splits, err := s.expenseFromRequest(r, eventID, req)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.store.CreateExpense(r.Context(), expense, splits); err != nil {
		slog.Error("createExpense failed", "event_id", eventID, "error", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := s.lifecycle.Recalculate(r.Context(), eventID); err != nil {
		slog.Error("recalculation after createExpense failed", "event_id", eventID, "error", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]string{"id": expense.ID})
}

func (s *Service) updateExpense(w http.ResponseWriter, r *http.Request) {
	expenseID := chi.URLParam(r, "expenseID")

	existing, err := s.store.GetExpense(r.Context(), expenseID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	var req expenseRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	expense, splits, err := s.expenseFromRequest(r, existing.EventID, req)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	expense.ID = existing.ID
	if req.Date == nil {
		expense.Date = existing.Date
	}

	if err := s.store.UpdateExpense(r.Context(), expense, splits); err != nil {
		slog.Error("updateExpense failed", "expense_id", expenseID, "error", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := s.lifecycle.Recalculate(r.Context(), existing.EventID); err != nil {
		slog.Error("recalculation after updateExpense failed", "event_id", existing.EventID, "error", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) deleteExpense(w http.ResponseWriter, r *http.Request) {
	expenseID := chi.URLParam(r, "expenseID")

	existing, err := s.store.GetExpense(r.Context(), expenseID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	if err := s.store.DeleteExpense(r.Context(), expenseID); err != nil {
		slog.Error("deleteExpense failed", "expense_id", expenseID, "error", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := s.lifecycle.Recalculate(r.Context(), existing.EventID); err != nil {
		slog.Error("recalculation after deleteExpense failed", "event_id", existing.EventID, "error", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) getBalances(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	ctx := r.Context()

	participants, err := s.store.EventParticipants(ctx, eventID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	expenses, err := s.store.ExpensesByEvent(ctx, eventID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	splits, err := s.store.SplitsByEvent(ctx, eventID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	settlements, err := s.store.SettlementsByEvent(ctx, eventID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	// Paid settlements are confirmed payments; unpaid ones are proposals the
	// balance view must ignore.
	payments := make([]calculator.Payment, len(settlements))
	for i, st := range settlements {
		payments[i] = calculator.Payment{
			FromID:    st.FromParticipantID,
			ToID:      st.ToParticipantID,
			Amount:    st.Amount,
			Confirmed: st.IsPaid,
		}
	}

	balances := calculator.CalculateBalances(participants, expenses, splits, payments)
	s.writeJSON(w, http.StatusOK, toBalanceResponses(balances))
}

func (s *Service) listSettlements(w http.ResponseWriter, r *http.Request) {
	settlements, err := s.store.SettlementsByEvent(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toSettlementResponses(settlements))
}

func (s *Service) paySettlement(w http.ResponseWriter, r *http.Request) {
	settlementID := chi.URLParam(r, "settlementID")

	if err := s.store.MarkSettlementPaid(r.Context(), settlementID, time.Now().UTC()); err != nil {
		slog.Error("paySettlement failed", "settlement_id", settlementID, "error", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	settlement, err := s.store.GetSettlement(r.Context(), settlementID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toSettlementResponse(*settlement))
}

// unpaidSettlements fetches the transfers a consolidation applies to: the
// outstanding (unpaid) set.
func (s *Service) unpaidSettlements(r *http.Request, eventID string) ([]models.Settlement, error) {
	settlements, err := s.store.SettlementsByEvent(r.Context(), eventID)
	if err != nil {
		return nil, err
	}
	unpaid := settlements[:0:0]
	for _, st := range settlements {
		if !st.IsPaid {
			unpaid = append(unpaid, st)
		}
	}
	return unpaid, nil
}

func (s *Service) previewConsolidations(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	var req struct {
		Assignments []assignmentRequest `json:"assignments"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	settlements, err := s.unpaidSettlements(r, eventID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	assignments := make([]models.ConsolidationAssignment, len(req.Assignments))
	for i, a := range req.Assignments {
		assignments[i] = models.ConsolidationAssignment{
			EventID:  eventID,
			DebtorID: a.DebtorID,
			PayerID:  a.PayerID,
		}
	}

	consolidated := calculator.ApplyConsolidations(settlements, assignments)
	s.writeJSON(w, http.StatusOK, toConsolidatedResponses(consolidated))
}

func (s *Service) validateConsolidations(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	var req struct {
		Assignments []assignmentRequest `json:"assignments"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	settlements, err := s.unpaidSettlements(r, eventID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	assignments := make([]models.ConsolidationAssignment, len(req.Assignments))
	for i, a := range req.Assignments {
		assignments[i] = models.ConsolidationAssignment{
			EventID:  eventID,
			DebtorID: a.DebtorID,
			PayerID:  a.PayerID,
		}
	}

	result := calculator.ValidateConsolidations(assignments, settlements)
	s.writeJSON(w, http.StatusOK, struct {
		IsValid bool     `json:"isValid"`
		Errors  []string `json:"errors"`
	}{IsValid: result.IsValid, Errors: result.Errors})
}
