package models

import "time"

// EventStatus describes where an event is in its lifecycle. Settlements are
// derived state only while the event is active; afterwards they are a frozen
// record and only payment metadata may change.
type EventStatus string

const (
	EventActive    EventStatus = "active"
	EventCompleted EventStatus = "completed"
	EventArchived  EventStatus = "archived"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s EventStatus) Valid() bool {
	switch s {
	case EventActive, EventCompleted, EventArchived:
		return true
	}
	return false
}

// Event is a bounded shared-expense context scoping all participants,
// expenses, and settlements. All amounts within an event share its currency.
type Event struct {
	// ID is the unique identifier for the event (UUID format).
	ID string

	// Name is the display name (e.g. "Lisbon trip", "March household").
	Name string

	// Currency is the ISO 4217 code shared by every amount in the event.
	Currency string

	// Status drives the settlement lifecycle; see EventStatus.
	Status EventStatus

	// CreatedAt is when the event was created.
	CreatedAt time.Time
}

// Participant is a person taking part in an event. Identity only: balances
// are derived, never stored on the participant.
type Participant struct {
	// ID is the unique identifier for the participant (UUID format).
	ID string

	// Name is the display name.
	Name string
}
