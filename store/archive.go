package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const archiveSchema = `
CREATE TABLE IF NOT EXISTS hand_histories (
	session_id  TEXT    NOT NULL,
	hand_number INTEGER NOT NULL,
	hand_id     TEXT    NOT NULL,
	path        TEXT    NOT NULL DEFAULT '',
	pot         INTEGER NOT NULL,
	rake        INTEGER NOT NULL,
	created_at  INTEGER NOT NULL,
	PRIMARY KEY (session_id, hand_number)
);`

// Archive indexes finished hands in SQLite.
type Archive struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// OpenArchive opens (or creates) the archive database at path.
func OpenArchive(path string) (*Archive, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("archive path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(archiveSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create archive schema: %w", err)
	}
	return &Archive{sqlDB: sqlDB}, nil
}

func (a *Archive) Close() error {
	if a == nil || a.sqlDB == nil {
		return nil
	}
	return a.sqlDB.Close()
}

func (a *Archive) Write(ctx context.Context, entry *Entry) error {
	return a.Record(ctx, *entry)
}

// Record inserts one hand; a second record for the same hand fails with ErrAlreadyRecorded.
func (a *Archive) Record(ctx context.Context, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := entry.validate(); err != nil {
		return err
	}
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := a.sqlDB.ExecContext(
		ctx,
		`INSERT INTO hand_histories (
		   session_id,
		   hand_number,
		   hand_id,
		   path,
		   pot,
		   rake,
		   created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.SessionID,
		entry.HandNumber,
		entry.HandID,
		entry.Path,
		entry.Pot,
		entry.Rake,
		toMillis(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s #%d", ErrAlreadyRecorded, entry.SessionID, entry.HandNumber)
		}
		return fmt.Errorf("record hand: %w", err)
	}
	return nil
}

// ListSession returns the archived hands of a session ordered by hand number.
func (a *Archive) ListSession(ctx context.Context, sessionID string) ([]Entry, error) {
	rows, err := a.sqlDB.QueryContext(
		ctx,
		`SELECT session_id, hand_number, hand_id, path, pot, rake, created_at
		   FROM hand_histories
		  WHERE session_id = ?
		  ORDER BY hand_number`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list session hands: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		var createdAt int64
		if err := rows.Scan(&e.SessionID, &e.HandNumber, &e.HandID, &e.Path, &e.Pot, &e.Rake, &createdAt); err != nil {
			return nil, fmt.Errorf("scan hand: %w", err)
		}
		e.CreatedAt = fromMillis(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session hands: %w", err)
	}
	return entries, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
