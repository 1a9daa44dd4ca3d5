package calculator

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/settlr/settlr/internal/models"
)

// ValidationResult is the advisory outcome of ValidateConsolidations.
type ValidationResult struct {
	IsValid bool
	Errors  []string
}

// ApplyConsolidations reassigns who actually executes each settlement per the
// given assignments, merges transfers that end up between the same payer and
// creditor, and forgives transfers that become self-payments. The result is a
// derived view; the canonical settlement set is untouched.
//
// Conservation: the emitted amounts plus the forgiven amounts always equal
// the original amounts, cent-exact. Cyclic or otherwise invalid assignment
// sets are not rejected here; run ValidateConsolidations for that.
func ApplyConsolidations(settlements []models.Settlement, assignments []models.ConsolidationAssignment) []models.ConsolidatedSettlement {
	settlements = dedupeSettlements(settlements)

	// One active assignment per debtor; a later assignment replaces an
	// earlier one for the same debtor.
	payerFor := make(map[string]models.ConsolidationAssignment, len(assignments))
	for _, a := range assignments {
		payerFor[a.DebtorID] = a
	}

	names := make(map[string]string)
	for _, s := range settlements {
		names[s.FromParticipantID] = s.FromParticipantName
		names[s.ToParticipantID] = s.ToParticipantName
	}

	type groupKey struct {
		payer    string
		creditor string
	}
	type group struct {
		amount     int64
		originals  []models.Settlement
		reassigned []models.ConsolidationAssignment
	}

	groups := make(map[groupKey]*group)
	var order []groupKey

	for _, s := range settlements {
		payer := s.FromParticipantID
		var applied []models.ConsolidationAssignment
		if a, ok := payerFor[s.FromParticipantID]; ok {
			payer = a.PayerID
			applied = []models.ConsolidationAssignment{a}
		}

		key := groupKey{payer: payer, creditor: s.ToParticipantID}
		g, ok := groups[key]
		if !ok {
			g = &group{}
			groups[key] = g
			order = append(order, key)
		}
		g.amount += s.Amount
		g.originals = append(g.originals, s)
		for _, a := range applied {
			if !containsAssignment(g.reassigned, a) {
				g.reassigned = append(g.reassigned, a)
			}
		}
	}

	var out []models.ConsolidatedSettlement
	for _, key := range order {
		g := groups[key]

		// Forgiveness: a payer who would pay themselves has the whole debt
		// waived, not netted elsewhere.
		if key.payer == key.creditor {
			slog.Debug("consolidation forgave self-payment",
				"participant_id", key.payer,
				"amount_cents", g.amount,
				"settlements", len(g.originals),
			)
			continue
		}
		eventID := ""
		if len(g.originals) > 0 {
			eventID = g.originals[0].EventID
		}

		out = append(out, models.ConsolidatedSettlement{
			Settlement: models.Settlement{
				ID:                  uuid.New().String(),
				EventID:             eventID,
				FromParticipantID:   key.payer,
				FromParticipantName: nameOr(names, key.payer),
				ToParticipantID:     key.creditor,
				ToParticipantName:   nameOr(names, key.creditor),
				Amount:              g.amount,
				IsPaid:              false,
				CreatedAt:           time.Now().UTC(),
				UpdatedAt:           time.Now().UTC(),
			},
			IsConsolidated:      len(g.reassigned) > 0 || len(g.originals) > 1,
			OriginalSettlements: g.originals,
			Assignments:         g.reassigned,
		})
	}
	return out
}

// ValidateConsolidations checks an assignment set against the settlements it
// would apply to. Advisory only: ApplyConsolidations does not call it, and a
// failing set is still applied if the caller chooses to.
func ValidateConsolidations(assignments []models.ConsolidationAssignment, settlements []models.Settlement) ValidationResult {
	known := make(map[string]bool)
	for _, s := range settlements {
		known[s.FromParticipantID] = true
		known[s.ToParticipantID] = true
	}

	payerFor := make(map[string]string, len(assignments))
	for _, a := range assignments {
		payerFor[a.DebtorID] = a.PayerID
	}

	var errs []string
	seenCycle := make(map[string]bool)
	for _, a := range assignments {
		if !known[a.DebtorID] {
			errs = append(errs, fmt.Sprintf("assignment references debtor %s absent from the settlement set", a.DebtorID))
		}
		if !known[a.PayerID] {
			errs = append(errs, fmt.Sprintf("assignment references payer %s absent from the settlement set", a.PayerID))
		}

		// Mutual cycle: A pays for B while B pays for A.
		if a.DebtorID != a.PayerID && payerFor[a.PayerID] == a.DebtorID {
			key := a.DebtorID + "|" + a.PayerID
			if a.PayerID < a.DebtorID {
				key = a.PayerID + "|" + a.DebtorID
			}
			if !seenCycle[key] {
				seenCycle[key] = true
				errs = append(errs, fmt.Sprintf("mutual payment assignment between %s and %s", a.DebtorID, a.PayerID))
			}
		}
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// dedupeSettlements drops settlements with identical (from, to, amount)
// triples, a defensive guard against upstream duplication.
func dedupeSettlements(settlements []models.Settlement) []models.Settlement {
	type triple struct {
		from   string
		to     string
		amount int64
	}
	seen := make(map[triple]bool, len(settlements))
	out := settlements[:0:0]
	for _, s := range settlements {
		key := triple{from: s.FromParticipantID, to: s.ToParticipantID, amount: s.Amount}
		if seen[key] {
			slog.Warn("dropping duplicate settlement",
				"from", s.FromParticipantID,
				"to", s.ToParticipantID,
				"amount_cents", s.Amount,
			)
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

func containsAssignment(list []models.ConsolidationAssignment, a models.ConsolidationAssignment) bool {
	for _, b := range list {
		if b.DebtorID == a.DebtorID && b.PayerID == a.PayerID {
			return true
		}
	}
	return false
}

func nameOr(names map[string]string, id string) string {
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	return id
}
