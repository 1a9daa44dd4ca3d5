package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrAmountNotPositive = errors.New("amount must be positive")
	ErrUnknownSplitType  = errors.New("unknown split type")
	ErrNoSplits          = errors.New("expense must have at least one split")
	ErrSplitSumMismatch  = errors.New("split amounts do not sum to expense amount")
	ErrPercentageSum     = errors.New("split percentages do not sum to 100")
)

// Expense is something one participant paid for on behalf of the group.
// Owned by its event; splits are replaced wholesale on every edit.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// EventID is the event this expense belongs to.
	EventID string

	// PayerID is the participant who paid the full amount.
	PayerID string

	// Description is what the expense was for (e.g. "Groceries").
	Description string

	// Amount is the full expense amount in cents. Always positive.
	Amount int64

	// Date is when the expense happened.
	Date time.Time

	// CreatedAt is when the expense was recorded.
	CreatedAt time.Time
}

// SplitType says how an expense is divided among participants.
type SplitType string

const (
	SplitEqual      SplitType = "equal"
	SplitFixed      SplitType = "fixed"
	SplitPercentage SplitType = "percentage"
	SplitCustom     SplitType = "custom"
)

// Valid reports whether the split type is one of the known variants.
func (t SplitType) Valid() bool {
	switch t {
	case SplitEqual, SplitFixed, SplitPercentage, SplitCustom:
		return true
	}
	return false
}

// Split is the portion of one expense attributed to one participant.
type Split struct {
	// ExpenseID is the expense this split belongs to.
	ExpenseID string

	// ParticipantID is the participant this share is attributed to.
	ParticipantID string

	// Amount is this participant's share in cents.
	Amount int64

	// Percentage is the 0-100 basis for percentage splits, zero otherwise.
	Percentage float64

	// Type says how the share was derived.
	Type SplitType
}

// EqualSplits divides amount evenly among the given participants, handing the
// remainder cents to the first participants so the shares sum exactly.
func EqualSplits(expenseID string, amount int64, participantIDs []string) ([]Split, error) {
	n := int64(len(participantIDs))
	if n == 0 {
		return nil, ErrNoSplits
	}

	base := amount / n
	remainder := amount % n

	splits := make([]Split, 0, n)
	for i, id := range participantIDs {
		share := base
		if int64(i) < remainder {
			share++
		}
		splits = append(splits, Split{
			ExpenseID:     expenseID,
			ParticipantID: id,
			Amount:        share,
			Type:          SplitEqual,
		})
	}
	return splits, nil
}

// ValidateSplits checks that splits are consistent with their expense:
// known split types, amounts summing to the expense amount within one cent,
// and percentages summing to 100 for percentage splits. Failures state
// expected vs actual so callers never have to coerce silently.
func ValidateSplits(expenseAmount int64, splits []Split) error {
	if len(splits) == 0 {
		return ErrNoSplits
	}

	var sum int64
	var pctSum float64
	pct := false
	for _, s := range splits {
		if !s.Type.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownSplitType, s.Type)
		}
		sum += s.Amount
		if s.Type == SplitPercentage {
			pct = true
			pctSum += s.Percentage
		}
	}

	if diff := sum - expenseAmount; diff > EpsilonCents || diff < -EpsilonCents {
		return fmt.Errorf("%w: expected %d cents, got %d", ErrSplitSumMismatch, expenseAmount, sum)
	}
	if pct && math.Abs(pctSum-100) > 0.01 {
		return fmt.Errorf("%w: expected 100, got %.2f", ErrPercentageSum, pctSum)
	}
	return nil
}
