// SPDX-License-Identifier: MIT

package contact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rishabh7g/rrishmusic/internal/persistence/sqlite"
)

const schemaVersion = 1

// SqliteStore implements Store on SQLite.
type SqliteStore struct {
	DB *sql.DB
}

// NewSqliteStore opens (creating if needed) the contact database at dbPath.
func NewSqliteStore(dbPath string) (*SqliteStore, error) {
	db, err := sqlite.Open(dbPath, sqlite.DefaultConfig())
	if err != nil {
		return nil, err
	}

	s := &SqliteStore{DB: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("contact store: migration failed: %w", err)
	}
	return s, nil
}

func (s *SqliteStore) Close() error {
	return s.DB.Close()
}

func (s *SqliteStore) migrate() error {
	var currentVersion int
	if err := s.DB.QueryRow("PRAGMA user_version").Scan(&currentVersion); err != nil {
		return err
	}
	if currentVersion >= schemaVersion {
		return nil
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	schema := `
	CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT,
		service TEXT NOT NULL,
		message TEXT NOT NULL,
		preferred_contact TEXT,
		client_ip TEXT,
		received_at_ms INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_submissions_received ON submissions(received_at_ms DESC, id);

	CREATE TABLE IF NOT EXISTS idempotency (
		key TEXT PRIMARY KEY,
		submission_id TEXT NOT NULL,
		expires_at_ms INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_idempotency_expires ON idempotency(expires_at_ms);
	`

	if _, err := tx.Exec(schema); err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SqliteStore) Put(ctx context.Context, sub *Submission) error {
	query := `
	INSERT INTO submissions (
		id, name, email, phone, service, message, preferred_contact, client_ip, received_at_ms
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.DB.ExecContext(ctx, query,
		sub.ID, sub.Name, sub.Email, sub.Phone, sub.Service, sub.Message,
		sub.PreferredContact, sub.ClientIP, sub.ReceivedAt.UnixMilli())
	if err != nil {
		// modernc/sqlite reports constraint failures as generic errors;
		// a Get confirms the duplicate before we blame the id.
		if _, getErr := s.Get(ctx, sub.ID); getErr == nil {
			return ErrDuplicateID
		}
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *SqliteStore) Get(ctx context.Context, id string) (*Submission, error) {
	row := s.DB.QueryRowContext(ctx, `
	SELECT id, name, email, phone, service, message, preferred_contact, client_ip, received_at_ms
	FROM submissions WHERE id = ?`, id)

	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *SqliteStore) List(ctx context.Context, limit, offset int) ([]Submission, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT id, name, email, phone, service, message, preferred_contact, client_ip, received_at_ms
	FROM submissions
	ORDER BY received_at_ms DESC, id ASC
	LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sub)
	}
	return out, rows.Err()
}

func (s *SqliteStore) Delete(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, "DELETE FROM submissions WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SqliteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM submissions").Scan(&n)
	return n, err
}

func (s *SqliteStore) PutIdempotency(ctx context.Context, key, id string, ttl time.Duration) error {
	expires := time.Now().Add(ttl).UnixMilli()
	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO idempotency (key, submission_id, expires_at_ms) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET submission_id = excluded.submission_id, expires_at_ms = excluded.expires_at_ms`,
		key, id, expires)
	return err
}

func (s *SqliteStore) GetIdempotency(ctx context.Context, key string) (string, error) {
	// Expired keys are dropped lazily on lookup.
	now := time.Now().UnixMilli()
	var id string
	err := s.DB.QueryRowContext(ctx,
		"SELECT submission_id FROM idempotency WHERE key = ? AND expires_at_ms > ?", key, now).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		_, _ = s.DB.ExecContext(ctx, "DELETE FROM idempotency WHERE expires_at_ms <= ?", now)
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *SqliteStore) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*Submission, error) {
	var (
		sub        Submission
		phone      sql.NullString
		preferred  sql.NullString
		clientIP   sql.NullString
		receivedMs int64
	)
	err := row.Scan(&sub.ID, &sub.Name, &sub.Email, &phone, &sub.Service,
		&sub.Message, &preferred, &clientIP, &receivedMs)
	if err != nil {
		return nil, err
	}
	sub.Phone = phone.String
	sub.PreferredContact = preferred.String
	sub.ClientIP = clientIP.String
	sub.ReceivedAt = time.UnixMilli(receivedMs).UTC()
	return &sub, nil
}
