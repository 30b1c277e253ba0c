package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryPath keeps the journal inside the process.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS journal (
	id TEXT PRIMARY KEY,
	seq INTEGER NOT NULL,
	ts DATETIME DEFAULT CURRENT_TIMESTAMP,
	session_id TEXT NOT NULL,
	cwd TEXT NOT NULL,
	input TEXT NOT NULL,
	output TEXT NOT NULL,
	failed INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS audit_log (
	id TEXT PRIMARY KEY,
	ts DATETIME DEFAULT CURRENT_TIMESTAMP,
	session_id TEXT NOT NULL,
	operation TEXT NOT NULL,
	actor TEXT NOT NULL,
	target TEXT,
	input_hash TEXT,
	result TEXT NOT NULL,
	details TEXT
);
CREATE INDEX IF NOT EXISTS idx_journal_session ON journal(session_id, seq);
CREATE INDEX IF NOT EXISTS idx_audit_session ON audit_log(session_id, ts);
`

func open(dbPath string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// Every connection to ":memory:" is a separate database.
	if dbPath == MemoryPath {
		conn.SetMaxOpenConns(1)
	}

	// Create tables if not exist (bootstrap)
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to init schema: %v", err)
	}
	return conn, nil
}
