package calculator

import (
	"testing"

	"github.com/settlr/settlr/internal/models"
)

func participants(ids ...string) []models.Participant {
	ps := make([]models.Participant, len(ids))
	for i, id := range ids {
		ps[i] = models.Participant{ID: id, Name: id}
	}
	return ps
}

func balanceByID(t *testing.T, balances []Balance, id string) Balance {
	t.Helper()
	for _, b := range balances {
		if b.ParticipantID == id {
			return b
		}
	}
	t.Fatalf("no balance for %s", id)
	return Balance{}
}

func TestCalculateBalances(t *testing.T) {
	t.Run("expense split equally among three", func(t *testing.T) {
		// $150 paid by A, $50 each: A = -100, B = +50, C = +50.
		expenses := []models.Expense{{ID: "e1", PayerID: "A", Amount: 15000}}
		splits := []models.Split{
			{ExpenseID: "e1", ParticipantID: "A", Amount: 5000, Type: models.SplitEqual},
			{ExpenseID: "e1", ParticipantID: "B", Amount: 5000, Type: models.SplitEqual},
			{ExpenseID: "e1", ParticipantID: "C", Amount: 5000, Type: models.SplitEqual},
		}

		balances := CalculateBalances(participants("A", "B", "C"), expenses, splits, nil)

		if got := balanceByID(t, balances, "A").Net; got != -10000 {
			t.Errorf("A net = %d, want -10000", got)
		}
		if got := balanceByID(t, balances, "B").Net; got != 5000 {
			t.Errorf("B net = %d, want 5000", got)
		}
		if got := balanceByID(t, balances, "C").Net; got != 5000 {
			t.Errorf("C net = %d, want 5000", got)
		}

		a := balanceByID(t, balances, "A")
		if a.TotalPaid != 15000 || a.TotalOwed != 5000 {
			t.Errorf("A paid/owed = %d/%d, want 15000/5000", a.TotalPaid, a.TotalOwed)
		}
	})

	t.Run("second expense shifts balances", func(t *testing.T) {
		// Add $60 paid by B split equally: A = -80, B = +10, C = +70.
		expenses := []models.Expense{
			{ID: "e1", PayerID: "A", Amount: 15000},
			{ID: "e2", PayerID: "B", Amount: 6000},
		}
		splits := []models.Split{
			{ExpenseID: "e1", ParticipantID: "A", Amount: 5000},
			{ExpenseID: "e1", ParticipantID: "B", Amount: 5000},
			{ExpenseID: "e1", ParticipantID: "C", Amount: 5000},
			{ExpenseID: "e2", ParticipantID: "A", Amount: 2000},
			{ExpenseID: "e2", ParticipantID: "B", Amount: 2000},
			{ExpenseID: "e2", ParticipantID: "C", Amount: 2000},
		}

		balances := CalculateBalances(participants("A", "B", "C"), expenses, splits, nil)

		want := map[string]int64{"A": -8000, "B": 1000, "C": 7000}
		for id, net := range want {
			if got := balanceByID(t, balances, id).Net; got != net {
				t.Errorf("%s net = %d, want %d", id, got, net)
			}
		}
	})

	t.Run("balances sum to zero for a closed split set", func(t *testing.T) {
		expenses := []models.Expense{
			{ID: "e1", PayerID: "A", Amount: 10000},
			{ID: "e2", PayerID: "B", Amount: 3333},
			{ID: "e3", PayerID: "D", Amount: 101},
		}
		splits := []models.Split{
			{ExpenseID: "e1", ParticipantID: "A", Amount: 3334},
			{ExpenseID: "e1", ParticipantID: "B", Amount: 3333},
			{ExpenseID: "e1", ParticipantID: "C", Amount: 3333},
			{ExpenseID: "e2", ParticipantID: "C", Amount: 1667},
			{ExpenseID: "e2", ParticipantID: "D", Amount: 1666},
			{ExpenseID: "e3", ParticipantID: "A", Amount: 101},
		}

		balances := CalculateBalances(participants("A", "B", "C", "D"), expenses, splits, nil)

		var sum int64
		for _, b := range balances {
			sum += b.Net
		}
		if sum != 0 {
			t.Errorf("balances sum = %d, want 0", sum)
		}
	})

	t.Run("participant without activity gets a zero balance", func(t *testing.T) {
		expenses := []models.Expense{{ID: "e1", PayerID: "A", Amount: 100}}
		splits := []models.Split{{ExpenseID: "e1", ParticipantID: "A", Amount: 100}}

		balances := CalculateBalances(participants("A", "Z"), expenses, splits, nil)

		if len(balances) != 2 {
			t.Fatalf("got %d balances, want 2", len(balances))
		}
		z := balanceByID(t, balances, "Z")
		if z.TotalPaid != 0 || z.TotalOwed != 0 || z.Net != 0 {
			t.Errorf("Z balance = %+v, want all zero", z)
		}
	})

	t.Run("confirmed payments move net, unconfirmed are ignored", func(t *testing.T) {
		expenses := []models.Expense{{ID: "e1", PayerID: "A", Amount: 10000}}
		splits := []models.Split{
			{ExpenseID: "e1", ParticipantID: "A", Amount: 5000},
			{ExpenseID: "e1", ParticipantID: "B", Amount: 5000},
		}
		payments := []Payment{
			{FromID: "B", ToID: "A", Amount: 3000, Confirmed: true},
			{FromID: "B", ToID: "A", Amount: 2000, Confirmed: false},
		}

		balances := CalculateBalances(participants("A", "B"), expenses, splits, payments)

		if got := balanceByID(t, balances, "B").Net; got != 2000 {
			t.Errorf("B net = %d, want 2000", got)
		}
		if got := balanceByID(t, balances, "A").Net; got != -2000 {
			t.Errorf("A net = %d, want -2000", got)
		}
	})

	t.Run("output order follows participant order regardless of input order", func(t *testing.T) {
		expenses := []models.Expense{
			{ID: "e2", PayerID: "C", Amount: 50},
			{ID: "e1", PayerID: "A", Amount: 100},
		}
		splits := []models.Split{
			{ExpenseID: "e1", ParticipantID: "B", Amount: 100},
			{ExpenseID: "e2", ParticipantID: "A", Amount: 50},
		}

		balances := CalculateBalances(participants("A", "B", "C"), expenses, splits, nil)

		for i, want := range []string{"A", "B", "C"} {
			if balances[i].ParticipantID != want {
				t.Errorf("balances[%d] = %s, want %s", i, balances[i].ParticipantID, want)
			}
		}
	})
}
