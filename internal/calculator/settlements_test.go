package calculator

import "testing"

// applyTransfers plays emitted transfers back onto the balances and returns
// the leftover net per participant.
func applyTransfers(balances []Balance, transfers []Transfer) map[string]int64 {
	left := make(map[string]int64, len(balances))
	for _, b := range balances {
		left[b.ParticipantID] = b.Net
	}
	for _, tr := range transfers {
		left[tr.FromID] -= tr.Amount
		left[tr.ToID] += tr.Amount
	}
	return left
}

func TestCalculateOptimalSettlements(t *testing.T) {
	t.Run("two debtors one creditor", func(t *testing.T) {
		// A = -100, B = +50, C = +50 -> B pays A 50, C pays A 50.
		balances := []Balance{
			{ParticipantID: "A", Net: -10000},
			{ParticipantID: "B", Net: 5000},
			{ParticipantID: "C", Net: 5000},
		}

		transfers := CalculateOptimalSettlements(balances)

		if len(transfers) != 2 {
			t.Fatalf("got %d transfers, want 2: %+v", len(transfers), transfers)
		}
		// Equal debts: stable sort keeps B before C.
		if transfers[0].FromID != "B" || transfers[0].ToID != "A" || transfers[0].Amount != 5000 {
			t.Errorf("transfers[0] = %+v, want B->A 5000", transfers[0])
		}
		if transfers[1].FromID != "C" || transfers[1].ToID != "A" || transfers[1].Amount != 5000 {
			t.Errorf("transfers[1] = %+v, want C->A 5000", transfers[1])
		}
	})

	t.Run("largest debtor matched first", func(t *testing.T) {
		// A = -80, B = +10, C = +70 -> C pays A 70, then B pays A 10.
		balances := []Balance{
			{ParticipantID: "A", Net: -8000},
			{ParticipantID: "B", Net: 1000},
			{ParticipantID: "C", Net: 7000},
		}

		transfers := CalculateOptimalSettlements(balances)

		if len(transfers) != 2 {
			t.Fatalf("got %d transfers, want 2: %+v", len(transfers), transfers)
		}
		if transfers[0].FromID != "C" || transfers[0].Amount != 7000 {
			t.Errorf("transfers[0] = %+v, want C->A 7000", transfers[0])
		}
		if transfers[1].FromID != "B" || transfers[1].Amount != 1000 {
			t.Errorf("transfers[1] = %+v, want B->A 1000", transfers[1])
		}
	})

	t.Run("applying transfers zeroes every participant", func(t *testing.T) {
		cases := [][]Balance{
			{
				{ParticipantID: "A", Net: -10000},
				{ParticipantID: "B", Net: 5000},
				{ParticipantID: "C", Net: 5000},
			},
			{
				{ParticipantID: "A", Net: -8000},
				{ParticipantID: "B", Net: 1000},
				{ParticipantID: "C", Net: 7000},
			},
			{
				{ParticipantID: "A", Net: 12345},
				{ParticipantID: "B", Net: -3000},
				{ParticipantID: "C", Net: -345},
				{ParticipantID: "D", Net: -9000},
				{ParticipantID: "E", Net: 0},
			},
		}

		for _, balances := range cases {
			transfers := CalculateOptimalSettlements(balances)
			for id, net := range applyTransfers(balances, transfers) {
				if net != 0 {
					t.Errorf("participant %s left with %d after transfers %+v", id, net, transfers)
				}
			}
		}
	})

	t.Run("transfer count bounded by debtors+creditors-1", func(t *testing.T) {
		balances := []Balance{
			{ParticipantID: "A", Net: 4000},
			{ParticipantID: "B", Net: 2500},
			{ParticipantID: "C", Net: 500},
			{ParticipantID: "D", Net: -3000},
			{ParticipantID: "E", Net: -4000},
		}

		transfers := CalculateOptimalSettlements(balances)

		if len(transfers) > 4 {
			t.Errorf("got %d transfers, want at most 4", len(transfers))
		}
	})

	t.Run("noise at or below one cent is never emitted", func(t *testing.T) {
		balances := []Balance{
			{ParticipantID: "A", Net: 1},
			{ParticipantID: "B", Net: -1},
			{ParticipantID: "C", Net: 0},
		}

		if transfers := CalculateOptimalSettlements(balances); len(transfers) != 0 {
			t.Errorf("expected no transfers, got %+v", transfers)
		}
	})

	t.Run("all settled yields no transfers", func(t *testing.T) {
		balances := []Balance{
			{ParticipantID: "A", Net: 0},
			{ParticipantID: "B", Net: 0},
		}

		if transfers := CalculateOptimalSettlements(balances); transfers != nil {
			t.Errorf("expected nil, got %+v", transfers)
		}
	})
}
