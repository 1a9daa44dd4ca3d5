package service

import (
	"time"

	"github.com/settlr/settlr/internal/calculator"
	"github.com/settlr/settlr/internal/models"
)

// DTOs carry 2-decimal amounts and RFC 3339 timestamps; everything internal
// stays in cents. The settlement shape matches the export/import interchange
// format.

type eventResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func toEventResponse(e *models.Event) eventResponse {
	return eventResponse{
		ID:        e.ID,
		Name:      e.Name,
		Currency:  e.Currency,
		Status:    string(e.Status),
		CreatedAt: e.CreatedAt,
	}
}

type participantResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type balanceResponse struct {
	ParticipantID string  `json:"participantId"`
	TotalPaid     float64 `json:"totalPaid"`
	TotalOwed     float64 `json:"totalOwed"`
	Balance       float64 `json:"balance"`
}

func toBalanceResponses(balances []calculator.Balance) []balanceResponse {
	out := make([]balanceResponse, len(balances))
	for i, b := range balances {
		out[i] = balanceResponse{
			ParticipantID: b.ParticipantID,
			TotalPaid:     models.Amount(b.TotalPaid),
			TotalOwed:     models.Amount(b.TotalOwed),
			Balance:       models.Amount(b.Net),
		}
	}
	return out
}

type settlementResponse struct {
	ID                  string     `json:"id"`
	EventID             string     `json:"eventId"`
	FromParticipantID   string     `json:"fromParticipantId"`
	FromParticipantName string     `json:"fromParticipantName"`
	ToParticipantID     string     `json:"toParticipantId"`
	ToParticipantName   string     `json:"toParticipantName"`
	Amount              float64    `json:"amount"`
	IsPaid              bool       `json:"isPaid"`
	PaidAt              *time.Time `json:"paidAt"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

func toSettlementResponse(s models.Settlement) settlementResponse {
	return settlementResponse{
		ID:                  s.ID,
		EventID:             s.EventID,
		FromParticipantID:   s.FromParticipantID,
		FromParticipantName: s.FromParticipantName,
		ToParticipantID:     s.ToParticipantID,
		ToParticipantName:   s.ToParticipantName,
		Amount:              models.Amount(s.Amount),
		IsPaid:              s.IsPaid,
		PaidAt:              s.PaidAt,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

func toSettlementResponses(settlements []models.Settlement) []settlementResponse {
	out := make([]settlementResponse, len(settlements))
	for i, s := range settlements {
		out[i] = toSettlementResponse(s)
	}
	return out
}

type assignmentRequest struct {
	DebtorID string `json:"debtorId"`
	PayerID  string `json:"payerId"`
}

type consolidatedSettlementResponse struct {
	settlementResponse
	IsConsolidated      bool                 `json:"isConsolidated"`
	OriginalSettlements []settlementResponse `json:"originalSettlements"`
	Assignments         []assignmentRequest  `json:"consolidationAssignments"`
}

func toConsolidatedResponses(settlements []models.ConsolidatedSettlement) []consolidatedSettlementResponse {
	out := make([]consolidatedSettlementResponse, len(settlements))
	for i, cs := range settlements {
		assignments := make([]assignmentRequest, len(cs.Assignments))
		for j, a := range cs.Assignments {
			assignments[j] = assignmentRequest{DebtorID: a.DebtorID, PayerID: a.PayerID}
		}
		out[i] = consolidatedSettlementResponse{
			settlementResponse:  toSettlementResponse(cs.Settlement),
			IsConsolidated:      cs.IsConsolidated,
			OriginalSettlements: toSettlementResponses(cs.OriginalSettlements),
			Assignments:         assignments,
		}
	}
	return out
}

type splitRequest struct {
	ParticipantID string  `json:"participantId"`
	Amount        float64 `json:"amount"`
	Percentage    float64 `json:"percentage,omitempty"`
	Type          string  `json:"type"`
}

type expenseRequest struct {
	PayerID     string         `json:"payerId"`
	Description string         `json:"description"`
	Amount      float64        `json:"amount"`
	Date        *time.Time     `json:"date,omitempty"`
	Splits      []splitRequest `json:"splits"`
}
