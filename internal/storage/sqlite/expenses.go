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

// CreateExpense persists an expense and its splits in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense, splits []models.Split) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now().UTC()
	}
	if expense.Date.IsZero() {
		expense.Date = expense.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, event_id, payer_id, description, amount_cents, spent_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.EventID, expense.PayerID, expense.Description,
		expense.Amount, expense.Date.Unix(), expense.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertSplits(ctx, tx, expense.ID, splits); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	var spentAt, createdAt int64

	err := s.db.QueryRowContext(ctx,
		`SELECT id, event_id, payer_id, description, amount_cents, spent_at, created_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	).Scan(&expense.ID, &expense.EventID, &expense.PayerID, &expense.Description,
		&expense.Amount, &spentAt, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	expense.Date = time.Unix(spentAt, 0).UTC()
	expense.CreatedAt = time.Unix(createdAt, 0).UTC()
	return expense, nil
}

// UpdateExpense rewrites the expense row and replaces its splits wholesale.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense, splits []models.Split) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE expenses SET payer_id = ?, description = ?, amount_cents = ?, spent_at = ?
		 WHERE id = ?`,
		expense.PayerID, expense.Description, expense.Amount, expense.Date.Unix(), expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("expense %s: %w", expense.ID, storage.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM splits WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to clear splits: %w", err)
	}
	if err := insertSplits(ctx, tx, expense.ID, splits); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteExpense removes an expense; splits go with it via cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return nil
}

// ExpensesByEvent lists an event's expenses in creation order.
func (s *SQLiteStore) ExpensesByEvent(ctx context.Context, eventID string) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, event_id, payer_id, description, amount_cents, spent_at, created_at
		 FROM expenses WHERE event_id = ? ORDER BY created_at, id`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		var spentAt, createdAt int64
		if err := rows.Scan(&e.ID, &e.EventID, &e.PayerID, &e.Description, &e.Amount, &spentAt, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Date = time.Unix(spentAt, 0).UTC()
		e.CreatedAt = time.Unix(createdAt, 0).UTC()
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

// SplitsByEvent lists every split belonging to the event's expenses.
func (s *SQLiteStore) SplitsByEvent(ctx context.Context, eventID string) ([]models.Split, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sp.expense_id, sp.participant_id, sp.amount_cents, sp.percentage, sp.split_type
		 FROM splits sp
		 JOIN expenses e ON e.id = sp.expense_id
		 WHERE e.event_id = ?
		 ORDER BY e.created_at, sp.expense_id, sp.participant_id`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits: %w", err)
	}
	defer rows.Close()

	var splits []models.Split
	for rows.Next() {
		var sp models.Split
		var splitType string
		if err := rows.Scan(&sp.ExpenseID, &sp.ParticipantID, &sp.Amount, &sp.Percentage, &splitType); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		sp.Type = models.SplitType(splitType)
		splits = append(splits, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}
	return splits, nil
}

func insertSplits(ctx context.Context, tx *sql.Tx, expenseID string, splits []models.Split) error {
	for _, sp := range splits {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO splits (expense_id, participant_id, amount_cents, percentage, split_type)
			 VALUES (?, ?, ?, ?, ?)`,
			expenseID, sp.ParticipantID, sp.Amount, sp.Percentage, string(sp.Type),
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}
	return nil
}
