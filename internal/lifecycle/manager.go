// Package lifecycle drives when settlements are recomputed and when they are
// frozen. While an event is active its unpaid settlements are derived state,
// regenerated after every mutation that can change balances; once the event
// is completed or archived they become a frozen record and only payment
// metadata may change.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/settlr/settlr/internal/calculator"
	"github.com/settlr/settlr/internal/models"
	"github.com/settlr/settlr/internal/storage"
)

// Manager orchestrates settlement recalculation for events. Pure calculation
// stays in the calculator package; the manager owns fetching, locking, and
// the atomic swap of unpaid rows.
type Manager struct {
	store storage.Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewManager creates a Manager over the given store.
func NewManager(store storage.Store) *Manager {
	return &Manager{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

// eventLock returns the mutex serializing recalculation for one event.
// Recalculations for different events run independently.
func (m *Manager) eventLock(eventID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[eventID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[eventID] = lock
	}
	return lock
}

// Recalculate regenerates the unpaid settlements for an event from its
// current expenses, splits, and participants. It is a no-op for events that
// are no longer active, idempotent given unchanged inputs, and never touches
// paid rows. At most one recalculation runs per event at a time; callers
// await it synchronously as part of the triggering mutation.
func (m *Manager) Recalculate(ctx context.Context, eventID string) error {
	lock := m.eventLock(eventID)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	outcome, err := m.recalculate(ctx, eventID)
	recalculations.WithLabelValues(outcome).Inc()
	recalculationDuration.Observe(time.Since(start).Seconds())
	return err
}

func (m *Manager) recalculate(ctx context.Context, eventID string) (outcome string, err error) {
	event, err := m.store.GetEvent(ctx, eventID)
	if err != nil {
		return outcomeError, fmt.Errorf("recalculate settlements: %w", err)
	}
	if event.Status != models.EventActive {
		slog.Debug("skipping recalculation for inactive event",
			"event_id", eventID, "status", event.Status)
		return outcomeSkipped, nil
	}

	expenses, err := m.store.ExpensesByEvent(ctx, eventID)
	if err != nil {
		return outcomeError, fmt.Errorf("recalculate settlements: %w", err)
	}

	// Nothing to settle: clear the derived rows and stop.
	if len(expenses) == 0 {
		if err := m.store.ReplaceUnpaidSettlements(ctx, eventID, nil); err != nil {
			return outcomeError, fmt.Errorf("recalculate settlements: %w", err)
		}
		settlementsWritten.Set(0)
		return outcomeCleared, nil
	}

	splits, err := m.store.SplitsByEvent(ctx, eventID)
	if err != nil {
		return outcomeError, fmt.Errorf("recalculate settlements: %w", err)
	}
	participants, err := m.store.EventParticipants(ctx, eventID)
	if err != nil {
		return outcomeError, fmt.Errorf("recalculate settlements: %w", err)
	}

	// Balances come from expenses and splits alone. A paid settlement is the
	// payment record itself, so feeding it back in here would subtract the
	// same debt twice.
	balances := calculator.CalculateBalances(participants, expenses, splits, nil)
	transfers := calculator.CalculateOptimalSettlements(balances)

	names := make(map[string]string, len(participants))
	for _, p := range participants {
		names[p.ID] = p.Name
	}

	settlements := make([]models.Settlement, 0, len(transfers))
	for _, tr := range transfers {
		settlements = append(settlements, models.Settlement{
			EventID:             eventID,
			FromParticipantID:   tr.FromID,
			FromParticipantName: displayName(names, tr.FromID),
			ToParticipantID:     tr.ToID,
			ToParticipantName:   displayName(names, tr.ToID),
			Amount:              tr.Amount,
		})
	}

	if err := m.store.ReplaceUnpaidSettlements(ctx, eventID, settlements); err != nil {
		return outcomeError, fmt.Errorf("recalculate settlements: %w", err)
	}

	settlementsWritten.Set(float64(len(settlements)))
	slog.Info("settlements recalculated",
		"event_id", eventID,
		"expenses", len(expenses),
		"participants", len(participants),
		"settlements", len(settlements),
	)
	return outcomeRecalculated, nil
}

func displayName(names map[string]string, id string) string {
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	return id
}
