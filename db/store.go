// Package db is the terminal's sqlite journal: one row per dispatched
// command and one audit row per protocol transition or clearance change.
package db

import (
	"context"
	"database/sql"
	"slices"
	"time"
)

// Entry is one journalled command.
type Entry struct {
	ID        string
	Seq       int64
	SessionID string
	Cwd       string
	Input     string
	Output    string
	Failed    bool
	CreatedAt time.Time
}

// AuditLog is one recorded state change.
type AuditLog struct {
	ID        string
	SessionID string
	Operation string
	Actor     string
	Target    string
	InputHash string
	Result    string
	Details   string
	CreatedAt time.Time
}

type Store struct {
	conn *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	conn, err := open(dbPath)
	if err != nil {
		return nil, err
	}
	return &Store{conn: conn}, nil
}

func (s *Store) GetRawDB() *sql.DB {
	return s.conn
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) RecordCommand(ctx context.Context, e Entry) error {
	query := `INSERT INTO journal (id, seq, ts, session_id, cwd, input, output, failed) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.conn.ExecContext(ctx, query, e.ID, e.Seq, time.Now(), e.SessionID, e.Cwd, e.Input, e.Output, e.Failed)
	return err
}

func (s *Store) InsertAuditLog(ctx context.Context, a AuditLog) error {
	query := `INSERT INTO audit_log (id, ts, session_id, operation, actor, target, input_hash, result, details) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.conn.ExecContext(ctx, query, a.ID, time.Now(), a.SessionID, a.Operation, a.Actor,
		toNullString(a.Target), toNullString(a.InputHash), a.Result, toNullString(a.Details))
	return err
}

// Recent returns the last limit commands of a session, oldest first.
func (s *Store) Recent(ctx context.Context, sessionID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT id, seq, session_id, cwd, input, output, failed, ts
			  FROM journal WHERE session_id = ? ORDER BY seq DESC LIMIT ?`
	rows, err := s.conn.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Seq, &e.SessionID, &e.Cwd, &e.Input, &e.Output, &e.Failed, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	slices.Reverse(entries)
	return entries, nil
}

// AuditTrail returns every audit row of a session in insertion order.
func (s *Store) AuditTrail(ctx context.Context, sessionID string) ([]AuditLog, error) {
	query := `SELECT id, session_id, operation, actor, target, input_hash, result, details, ts
			  FROM audit_log WHERE session_id = ? ORDER BY rowid ASC`
	rows, err := s.conn.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []AuditLog
	for rows.Next() {
		var a AuditLog
		var target, hash, details sql.NullString // Handle NULLs for optional columns
		if err := rows.Scan(&a.ID, &a.SessionID, &a.Operation, &a.Actor, &target, &hash, &a.Result, &details, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Target = target.String
		a.InputHash = hash.String
		a.Details = details.String
		logs = append(logs, a)
	}
	return logs, rows.Err()
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
