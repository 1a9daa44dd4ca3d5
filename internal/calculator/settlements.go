package calculator

import "sort"

// Transfer is one directed payment proposal emitted by the optimizer.
type Transfer struct {
	FromID string
	ToID   string
	Amount int64
}

// CalculateOptimalSettlements reduces a set of net positions to a small set
// of transfers that returns every participant to zero. Greedy heuristic:
// repeatedly match the largest remaining debtor with the largest remaining
// creditor. Not globally optimal, but linearithmic, deterministic, and emits
// at most debtors+creditors-1 transfers.
func CalculateOptimalSettlements(balances []Balance) []Transfer {
	type position struct {
		id        string
		remaining int64
	}

	var debtors, creditors []position
	for _, b := range balances {
		switch {
		case b.Net > epsilonCents:
			debtors = append(debtors, position{id: b.ParticipantID, remaining: b.Net})
		case b.Net < -epsilonCents:
			creditors = append(creditors, position{id: b.ParticipantID, remaining: -b.Net})
		}
	}

	// Stable sort keeps ties in participant insertion order so the output is
	// reproducible run to run.
	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].remaining > debtors[j].remaining
	})
	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].remaining > creditors[j].remaining
	})

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := debtors[i].remaining
		if creditors[j].remaining < amount {
			amount = creditors[j].remaining
		}

		if amount > epsilonCents {
			transfers = append(transfers, Transfer{
				FromID: debtors[i].id,
				ToID:   creditors[j].id,
				Amount: amount,
			})
		}

		debtors[i].remaining -= amount
		creditors[j].remaining -= amount

		if debtors[i].remaining <= epsilonCents {
			i++
		}
		if creditors[j].remaining <= epsilonCents {
			j++
		}
	}

	return transfers
}
