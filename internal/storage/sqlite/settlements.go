package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/settlr/settlr/internal/models"
	"github.com/settlr/settlr/internal/storage"
)

// CreateSettlement persists a single settlement row.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	prepareSettlement(settlement)

	_, err := s.db.ExecContext(ctx, insertSettlementSQL, settlementArgs(settlement)...)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	return nil
}

// GetSettlement retrieves a settlement by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	row := s.db.QueryRowContext(ctx,
		selectSettlementSQL+" WHERE id = ?",
		settlementID,
	)
	settlement, err := scanSettlement(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("settlement %s: %w", settlementID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	return settlement, nil
}

// SettlementsByEvent lists an event's settlements, paid and unpaid.
func (s *SQLiteStore) SettlementsByEvent(ctx context.Context, eventID string) ([]models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		selectSettlementSQL+" WHERE event_id = ? ORDER BY created_at, id",
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []models.Settlement
	for rows.Next() {
		settlement, err := scanSettlement(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, *settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}

// MarkSettlementPaid flips a settlement to its paid, frozen form. Already
// paid rows are left untouched.
func (s *SQLiteStore) MarkSettlementPaid(ctx context.Context, settlementID string, paidAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE settlements SET is_paid = 1, paid_at = ?, updated_at = ? WHERE id = ? AND is_paid = 0",
		paidAt.Unix(), time.Now().Unix(), settlementID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark settlement paid: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("unpaid settlement %s: %w", settlementID, storage.ErrNotFound)
	}
	return nil
}

// ReplaceUnpaidSettlements deletes the event's unpaid settlements and inserts
// the given ones in a single transaction, so recalculation can never leave a
// partially-deleted, partially-recreated set behind. Rows with is_paid = 1
// are never touched.
func (s *SQLiteStore) ReplaceUnpaidSettlements(ctx context.Context, eventID string, settlements []models.Settlement) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM settlements WHERE event_id = ? AND is_paid = 0",
		eventID,
	); err != nil {
		return fmt.Errorf("failed to delete unpaid settlements: %w", err)
	}

	for i := range settlements {
		settlement := &settlements[i]
		settlement.EventID = eventID
		settlement.IsPaid = false
		settlement.PaidAt = nil
		prepareSettlement(settlement)

		if _, err := tx.ExecContext(ctx, insertSettlementSQL, settlementArgs(settlement)...); err != nil {
			return fmt.Errorf("failed to insert settlement: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const insertSettlementSQL = `
INSERT INTO settlements (id, event_id, from_participant_id, from_participant_name,
                         to_participant_id, to_participant_name, amount_cents,
                         is_paid, paid_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectSettlementSQL = `
SELECT id, event_id, from_participant_id, from_participant_name,
       to_participant_id, to_participant_name, amount_cents,
       is_paid, paid_at, created_at, updated_at
FROM settlements`

func prepareSettlement(settlement *models.Settlement) {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if settlement.CreatedAt.IsZero() {
		settlement.CreatedAt = now
	}
	settlement.UpdatedAt = now
}

func settlementArgs(settlement *models.Settlement) []any {
	var paidAt any
	if settlement.PaidAt != nil {
		paidAt = settlement.PaidAt.Unix()
	}
	return []any{
		settlement.ID, settlement.EventID,
		settlement.FromParticipantID, settlement.FromParticipantName,
		settlement.ToParticipantID, settlement.ToParticipantName,
		settlement.Amount, settlement.IsPaid, paidAt,
		settlement.CreatedAt.Unix(), settlement.UpdatedAt.Unix(),
	}
}

func scanSettlement(scan func(...any) error) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var paidAt sql.NullInt64
	var createdAt, updatedAt int64

	err := scan(&settlement.ID, &settlement.EventID,
		&settlement.FromParticipantID, &settlement.FromParticipantName,
		&settlement.ToParticipantID, &settlement.ToParticipantName,
		&settlement.Amount, &settlement.IsPaid, &paidAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if paidAt.Valid {
		t := time.Unix(paidAt.Int64, 0).UTC()
		settlement.PaidAt = &t
	}
	settlement.CreatedAt = time.Unix(createdAt, 0).UTC()
	settlement.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return settlement, nil
}
