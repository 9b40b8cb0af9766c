// Package runlog keeps a SQLite ledger of produced outputs.
package runlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// Entry is one produced output.
type Entry struct {
	ID        int64    `json:"id"`
	Kind      string   `json:"kind"`
	Variable  string   `json:"variable"`
	Strat     string   `json:"strat,omitempty"`
	Report    string   `json:"report,omitempty"`
	Images    []string `json:"images,omitempty"`
	Tables    int      `json:"tables"`
	CreatedAt int64    `json:"created_at"`
}

// Log manages the outputs table.
type Log struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and ensures the
// outputs table exists.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}

	const ddl = `CREATE TABLE IF NOT EXISTS outputs (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		kind        TEXT NOT NULL,
		variable    TEXT NOT NULL,
		strat       TEXT NOT NULL DEFAULT '',
		report      TEXT NOT NULL DEFAULT '',
		images      TEXT NOT NULL DEFAULT '[]',
		tables      INTEGER NOT NULL,
		created_at  INTEGER NOT NULL
	)`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create outputs table: %w", err)
	}
	return &Log{db: db}, nil
}

// Close closes the database.
func (l *Log) Close() error {
	return l.db.Close()
}

// Record appends e.
func (l *Log) Record(ctx context.Context, e Entry) error {
	images, err := json.Marshal(e.Images)
	if err != nil {
		return fmt.Errorf("encode images: %w", err)
	}
	if e.Images == nil {
		images = []byte("[]")
	}
	_, err = l.db.ExecContext(ctx,
		`INSERT INTO outputs (kind, variable, strat, report, images, tables, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Kind, e.Variable, e.Strat, e.Report, string(images), e.Tables, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record %s %s: %w", e.Kind, e.Variable, err)
	}
	return nil
}

// List returns the most recent entries first. limit <= 0 returns all.
func (l *Log) List(ctx context.Context, limit int) ([]Entry, error) {
	q := `SELECT id, kind, variable, strat, report, images, tables, created_at
		FROM outputs ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := l.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list outputs: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var images string
		if err := rows.Scan(&e.ID, &e.Kind, &e.Variable, &e.Strat, &e.Report,
			&images, &e.Tables, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan output: %w", err)
		}
		if err := json.Unmarshal([]byte(images), &e.Images); err != nil {
			return nil, fmt.Errorf("decode images of output %d: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Forget deletes every entry recorded for report, as done when the
// report is reset. It returns the number of deleted entries.
func (l *Log) Forget(ctx context.Context, report string) (int64, error) {
	res, err := l.db.ExecContext(ctx, `DELETE FROM outputs WHERE report = ?`, report)
	if err != nil {
		return 0, fmt.Errorf("forget %s: %w", report, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
