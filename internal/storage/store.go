// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/settlr/settlr/internal/models"
)

// ErrNotFound is returned when a requested row does not exist. Callers decide
// whether absence is fatal; list operations return empty results instead.
var ErrNotFound = errors.New("not found")

// Store defines the interface for ledger storage operations. This abstraction
// allows swapping storage backends (SQLite, PostgreSQL, etc.) without
// changing the engine, and keeps the pure calculation code free of any
// storage access.
type Store interface {
	// CreateEvent persists a new event. ID and CreatedAt are populated if
	// unset.
	CreateEvent(ctx context.Context, event *models.Event) error

	// GetEvent retrieves an event by ID. Returns ErrNotFound if missing.
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)

	// UpdateEventStatus moves an event between lifecycle states.
	UpdateEventStatus(ctx context.Context, eventID string, status models.EventStatus) error

	// AddParticipant registers a participant and attaches them to the event.
	AddParticipant(ctx context.Context, eventID string, p *models.Participant) error

	// RemoveParticipant detaches a participant from the event.
	RemoveParticipant(ctx context.Context, eventID, participantID string) error

	// EventParticipants lists the event's participants in join order.
	EventParticipants(ctx context.Context, eventID string) ([]models.Participant, error)

	// CreateExpense persists an expense together with its splits in one
	// transaction.
	CreateExpense(ctx context.Context, expense *models.Expense, splits []models.Split) error

	// GetExpense retrieves an expense by ID. Returns ErrNotFound if missing.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// UpdateExpense rewrites an expense and replaces its splits wholesale in
	// one transaction. Splits are never patched.
	UpdateExpense(ctx context.Context, expense *models.Expense, splits []models.Split) error

	// DeleteExpense removes an expense and, via cascade, its splits.
	DeleteExpense(ctx context.Context, expenseID string) error

	// ExpensesByEvent lists an event's expenses in creation order.
	ExpensesByEvent(ctx context.Context, eventID string) ([]models.Expense, error)

	// SplitsByEvent lists every split belonging to the event's expenses.
	SplitsByEvent(ctx context.Context, eventID string) ([]models.Split, error)

	// SettlementsByEvent lists an event's settlements, paid and unpaid, in
	// creation order.
	SettlementsByEvent(ctx context.Context, eventID string) ([]models.Settlement, error)

	// GetSettlement retrieves a settlement by ID. Returns ErrNotFound if
	// missing.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// CreateSettlement persists a single settlement row.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// MarkSettlementPaid flips a settlement to its paid, frozen form.
	MarkSettlementPaid(ctx context.Context, settlementID string, paidAt time.Time) error

	// ReplaceUnpaidSettlements deletes the event's unpaid settlements and
	// inserts the given ones in a single transaction. Paid rows are never
	// touched. This is the all-or-nothing boundary of recalculation: on
	// error the previously committed set stays visible.
	ReplaceUnpaidSettlements(ctx context.Context, eventID string, settlements []models.Settlement) error

	// Close releases any resources held by the store.
	Close() error
}
