// Package calculator implements the pure settlement engine: balance
// computation, optimal-settlement matching, and debt consolidation. Nothing
// in this package touches storage or holds state; every function is
// deterministic given the same inputs regardless of input ordering, with
// output order following participant insertion order.
package calculator

import "github.com/settlr/settlr/internal/models"

// epsilonCents mirrors the 0.01 currency-unit tolerance: anything at or below
// one cent is treated as settled noise, never emitted as a transfer.
const epsilonCents = models.EpsilonCents

// Balance is one participant's derived net position.
type Balance struct {
	ParticipantID string

	// TotalPaid is everything this participant paid out, in cents.
	TotalPaid int64

	// TotalOwed is everything attributed to this participant via splits.
	TotalOwed int64

	// Net = TotalOwed - TotalPaid. Positive = net debtor, negative = net
	// creditor.
	Net int64
}

// Payment is a transfer already made between two participants, as far as the
// balance pass cares: a confirmed settlement. Unconfirmed payments are
// carried but ignored.
type Payment struct {
	FromID    string
	ToID      string
	Amount    int64
	Confirmed bool
}

// CalculateBalances turns expenses, splits, and confirmed payments into each
// participant's net position. Every listed participant gets a balance, zero
// if they appear in no expense or split; payers or split holders missing from
// the participant list are appended in first-seen order rather than dropped.
func CalculateBalances(participants []models.Participant, expenses []models.Expense, splits []models.Split, payments []Payment) []Balance {
	byID := make(map[string]*Balance)
	var order []string

	touch := func(id string) *Balance {
		if b, ok := byID[id]; ok {
			return b
		}
		b := &Balance{ParticipantID: id}
		byID[id] = b
		order = append(order, id)
		return b
	}

	for _, p := range participants {
		touch(p.ID)
	}

	for _, e := range expenses {
		if e.PayerID == "" {
			continue
		}
		touch(e.PayerID).TotalPaid += e.Amount
	}

	for _, s := range splits {
		touch(s.ParticipantID).TotalOwed += s.Amount
	}

	for id := range byID {
		b := byID[id]
		b.Net = b.TotalOwed - b.TotalPaid
	}

	// Paying down a debt reduces what you owe; being paid reduces what you
	// are owed.
	for _, p := range payments {
		if !p.Confirmed {
			continue
		}
		touch(p.FromID).Net -= p.Amount
		touch(p.ToID).Net += p.Amount
	}

	balances := make([]Balance, 0, len(order))
	for _, id := range order {
		balances = append(balances, *byID[id])
	}
	return balances
}
