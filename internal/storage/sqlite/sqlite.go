// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/settlr/settlr/internal/models"
	"github.com/settlr/settlr/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateEvent persists a new event, generating ID and CreatedAt if unset.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if event.Status == "" {
		event.Status = models.EventActive
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, name, currency, status, created_at) VALUES (?, ?, ?, ?, ?)",
		event.ID, event.Name, event.Currency, string(event.Status), event.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// GetEvent retrieves an event by ID.
func (s *SQLiteStore) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event := &models.Event{}
	var status string
	var createdAt int64

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, currency, status, created_at FROM events WHERE id = ?",
		eventID,
	).Scan(&event.ID, &event.Name, &event.Currency, &status, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event %s: %w", eventID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	event.Status = models.EventStatus(status)
	event.CreatedAt = time.Unix(createdAt, 0).UTC()
	return event, nil
}

// UpdateEventStatus moves an event between lifecycle states.
func (s *SQLiteStore) UpdateEventStatus(ctx context.Context, eventID string, status models.EventStatus) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE events SET status = ? WHERE id = ?",
		string(status), eventID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("event %s: %w", eventID, storage.ErrNotFound)
	}
	return nil
}

// AddParticipant registers the participant and attaches them to the event.
func (s *SQLiteStore) AddParticipant(ctx context.Context, eventID string, p *models.Participant) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO participants (id, name) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET name = excluded.name",
		p.ID, p.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO event_participants (event_id, participant_id, joined_at) VALUES (?, ?, ?)",
		eventID, p.ID, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to attach participant to event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RemoveParticipant detaches a participant from the event.
func (s *SQLiteStore) RemoveParticipant(ctx context.Context, eventID, participantID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM event_participants WHERE event_id = ? AND participant_id = ?",
		eventID, participantID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("participant %s in event %s: %w", participantID, eventID, storage.ErrNotFound)
	}
	return nil
}

// EventParticipants lists the event's participants in join order.
func (s *SQLiteStore) EventParticipants(ctx context.Context, eventID string) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.name
		 FROM participants p
		 JOIN event_participants ep ON ep.participant_id = p.id
		 WHERE ep.event_id = ?
		 ORDER BY ep.joined_at, p.id`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}
