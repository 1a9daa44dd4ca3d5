package calculator

import (
	"strings"
	"testing"

	"github.com/settlr/settlr/internal/models"
)

func settlement(from, to string, amount int64) models.Settlement {
	return models.Settlement{
		EventID:             "ev1",
		FromParticipantID:   from,
		FromParticipantName: strings.ToLower(from),
		ToParticipantID:     to,
		ToParticipantName:   strings.ToLower(to),
		Amount:              amount,
	}
}

func totalAmount(settlements []models.ConsolidatedSettlement) int64 {
	var sum int64
	for _, s := range settlements {
		sum += s.Amount
	}
	return sum
}

func TestApplyConsolidations(t *testing.T) {
	t.Run("no assignments passes settlements through", func(t *testing.T) {
		in := []models.Settlement{
			settlement("B", "A", 5000),
			settlement("C", "A", 5000),
		}

		out := ApplyConsolidations(in, nil)

		if len(out) != 2 {
			t.Fatalf("got %d settlements, want 2", len(out))
		}
		for i, s := range out {
			if s.IsConsolidated {
				t.Errorf("out[%d] marked consolidated without any assignment", i)
			}
			if s.Amount != in[i].Amount || s.FromParticipantID != in[i].FromParticipantID {
				t.Errorf("out[%d] = %+v, want passthrough of %+v", i, s.Settlement, in[i])
			}
		}
	})

	t.Run("reassignment merges transfers toward the same creditor", func(t *testing.T) {
		// C->A 70 and B->A 10; B takes over C's debt => single B->A 80.
		in := []models.Settlement{
			settlement("C", "A", 7000),
			settlement("B", "A", 1000),
		}
		assignments := []models.ConsolidationAssignment{
			{EventID: "ev1", DebtorID: "C", PayerID: "B"},
		}

		out := ApplyConsolidations(in, assignments)

		if len(out) != 1 {
			t.Fatalf("got %d settlements, want 1: %+v", len(out), out)
		}
		got := out[0]
		if got.FromParticipantID != "B" || got.ToParticipantID != "A" || got.Amount != 8000 {
			t.Errorf("got %s->%s %d, want B->A 8000", got.FromParticipantID, got.ToParticipantID, got.Amount)
		}
		if !got.IsConsolidated {
			t.Error("merged settlement not marked consolidated")
		}
		if len(got.OriginalSettlements) != 2 {
			t.Errorf("got %d originals, want 2", len(got.OriginalSettlements))
		}
		if len(got.Assignments) != 1 || got.Assignments[0].DebtorID != "C" {
			t.Errorf("got assignments %+v, want the C->B reassignment", got.Assignments)
		}
		if got.IsPaid {
			t.Error("consolidated settlement must start unpaid")
		}
	})

	t.Run("self-payment after reassignment is forgiven", func(t *testing.T) {
		// B->A 10 with A taking over B's debt: A would pay A, debt waived.
		in := []models.Settlement{settlement("B", "A", 1000)}
		assignments := []models.ConsolidationAssignment{
			{EventID: "ev1", DebtorID: "B", PayerID: "A"},
		}

		out := ApplyConsolidations(in, assignments)

		if len(out) != 0 {
			t.Fatalf("expected forgiveness to drop the settlement, got %+v", out)
		}
	})

	t.Run("forgiveness cancels only the self-payment group", func(t *testing.T) {
		in := []models.Settlement{
			settlement("B", "A", 1000),
			settlement("C", "D", 2500),
		}
		assignments := []models.ConsolidationAssignment{
			{EventID: "ev1", DebtorID: "B", PayerID: "A"},
		}

		out := ApplyConsolidations(in, assignments)

		if len(out) != 1 {
			t.Fatalf("got %d settlements, want 1", len(out))
		}
		if out[0].FromParticipantID != "C" || out[0].Amount != 2500 {
			t.Errorf("got %+v, want C->D 2500 untouched", out[0].Settlement)
		}
	})

	t.Run("emitted plus forgiven equals original, cent-exact", func(t *testing.T) {
		in := []models.Settlement{
			settlement("B", "A", 1037),
			settlement("C", "A", 6963),
			settlement("D", "C", 421),
			settlement("A", "D", 58),
		}
		assignments := []models.ConsolidationAssignment{
			{EventID: "ev1", DebtorID: "C", PayerID: "B"},
			{EventID: "ev1", DebtorID: "D", PayerID: "C"}, // C->C: forgiven
		}

		var original int64
		for _, s := range in {
			original += s.Amount
		}

		out := ApplyConsolidations(in, assignments)

		var forgiven int64 = 421 // the D->C transfer reassigned onto C
		if got := totalAmount(out) + forgiven; got != original {
			t.Errorf("emitted+forgiven = %d, want %d", got, original)
		}
		for _, s := range out {
			if s.FromParticipantID == s.ToParticipantID {
				t.Errorf("emitted self-payment %+v", s.Settlement)
			}
		}
	})

	t.Run("duplicate triples are dropped before grouping", func(t *testing.T) {
		in := []models.Settlement{
			settlement("B", "A", 5000),
			settlement("B", "A", 5000),
			settlement("B", "A", 4000),
		}

		out := ApplyConsolidations(in, nil)

		if len(out) != 1 {
			t.Fatalf("got %d settlements, want 1", len(out))
		}
		if out[0].Amount != 9000 {
			t.Errorf("amount = %d, want 9000 (duplicate 5000 dropped)", out[0].Amount)
		}
	})

	t.Run("grouping order follows first appearance", func(t *testing.T) {
		in := []models.Settlement{
			settlement("B", "A", 100),
			settlement("C", "D", 200),
			settlement("E", "A", 300),
		}
		assignments := []models.ConsolidationAssignment{
			{EventID: "ev1", DebtorID: "E", PayerID: "B"},
		}

		out := ApplyConsolidations(in, assignments)

		if len(out) != 2 {
			t.Fatalf("got %d settlements, want 2", len(out))
		}
		if out[0].FromParticipantID != "B" || out[0].Amount != 400 {
			t.Errorf("out[0] = %+v, want B->A 400 first", out[0].Settlement)
		}
		if out[1].FromParticipantID != "C" {
			t.Errorf("out[1] = %+v, want C->D second", out[1].Settlement)
		}
	})
}

func TestValidateConsolidations(t *testing.T) {
	settlements := []models.Settlement{
		settlement("B", "A", 1000),
		settlement("C", "A", 2000),
	}

	t.Run("valid set", func(t *testing.T) {
		res := ValidateConsolidations([]models.ConsolidationAssignment{
			{DebtorID: "C", PayerID: "B"},
		}, settlements)

		if !res.IsValid || len(res.Errors) != 0 {
			t.Errorf("expected valid, got %+v", res)
		}
	})

	t.Run("mutual assignment cycle reported once", func(t *testing.T) {
		res := ValidateConsolidations([]models.ConsolidationAssignment{
			{DebtorID: "B", PayerID: "C"},
			{DebtorID: "C", PayerID: "B"},
		}, settlements)

		if res.IsValid {
			t.Fatal("expected invalid result")
		}
		if len(res.Errors) != 1 {
			t.Errorf("got %d errors, want the cycle reported once: %v", len(res.Errors), res.Errors)
		}
	})

	t.Run("unknown participants reported", func(t *testing.T) {
		res := ValidateConsolidations([]models.ConsolidationAssignment{
			{DebtorID: "X", PayerID: "Y"},
		}, settlements)

		if res.IsValid {
			t.Fatal("expected invalid result")
		}
		if len(res.Errors) != 2 {
			t.Errorf("got %d errors, want 2 (debtor and payer unknown): %v", len(res.Errors), res.Errors)
		}
	})

	t.Run("cycles do not block apply", func(t *testing.T) {
		assignments := []models.ConsolidationAssignment{
			{DebtorID: "B", PayerID: "C"},
			{DebtorID: "C", PayerID: "B"},
		}

		out := ApplyConsolidations(settlements, assignments)

		// B's debt moves to C and C's to B; both still target A.
		if len(out) != 2 {
			t.Fatalf("apply under a cyclic set should still run, got %+v", out)
		}
	})
}
