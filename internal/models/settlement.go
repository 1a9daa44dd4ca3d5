package models

import "time"

// Settlement is a directed transfer between two participants that zeroes part
// of the ledger. It plays a dual role: with IsPaid false it is a proposed
// transfer the recalculation may replace at any time; once IsPaid is true it
// becomes the payment record itself and is immutable to recalculation.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// EventID is the event this settlement belongs to.
	EventID string

	// FromParticipantID is the debtor making the transfer.
	FromParticipantID string

	// FromParticipantName is the debtor's display name, denormalized so the
	// record stays readable after a participant leaves the event.
	FromParticipantName string

	// ToParticipantID is the creditor receiving the transfer.
	ToParticipantID string

	// ToParticipantName is the creditor's display name.
	ToParticipantName string

	// Amount is the transfer amount in cents. Always greater than one cent.
	Amount int64

	// IsPaid marks the settlement as an executed payment.
	IsPaid bool

	// PaidAt is when the payment was confirmed, nil while unpaid.
	PaidAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ConsolidationAssignment is one user choice of the form "payer pays off the
// debtor's transfers". Session-scoped; never persisted as ledger truth.
type ConsolidationAssignment struct {
	EventID  string
	DebtorID string
	PayerID  string
}

// ConsolidatedSettlement is a read model: a settlement as it would look after
// applying payer reassignments, with provenance back to the transfers it
// merged. It never replaces the canonical settlement set.
type ConsolidatedSettlement struct {
	Settlement

	// IsConsolidated is true when the row differs from a single original
	// transfer, either by merging or by reassignment.
	IsConsolidated bool

	// OriginalSettlements are the transfers this row subsumes.
	OriginalSettlements []Settlement

	// Assignments are the reassignments that contributed to this row.
	Assignments []ConsolidationAssignment
}
