// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"disinfo-scan/internal/analysis"

	_ "modernc.org/sqlite"
)

// SQLiteLog keeps the session history in a private in-memory SQLite database.
// Nothing is written to disk and the data is gone once the log is closed.
type SQLiteLog struct {
	db    *sql.DB
	limit int
}

// OpenSQLiteLog creates a fresh in-memory history database. A positive limit
// evicts the oldest entries once it is reached.
func OpenSQLiteLog(limit int) (*SQLiteLog, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Each connection to :memory: is a separate database, so the pool must
	// hold exactly one connection for the lifetime of the log
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	l := &SQLiteLog{db: db, limit: limit}
	if err := l.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return l, nil
}

func (l *SQLiteLog) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL,
		analyzed_at INTEGER NOT NULL,
		source TEXT,
		text_preview TEXT NOT NULL,
		overall_risk REAL NOT NULL,
		authenticity REAL NOT NULL,
		tier TEXT NOT NULL,
		pattern_count INTEGER NOT NULL,
		pattern_ids TEXT NOT NULL,
		word_count INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_risk ON entries(overall_risk);
	`
	if _, err := l.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Append records an entry and trims the table to the limit
func (l *SQLiteLog) Append(ctx context.Context, entry Entry) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO entries (id, analyzed_at, source, text_preview, overall_risk, authenticity, tier, pattern_count, pattern_ids, word_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Timestamp.UnixNano(),
		entry.Source,
		entry.TextPreview,
		entry.OverallRisk,
		entry.Authenticity,
		string(entry.Tier),
		entry.PatternCount,
		strings.Join(entry.PatternIDs, ","),
		entry.WordCount,
	)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}

	if l.limit > 0 {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM entries WHERE seq NOT IN (SELECT seq FROM entries ORDER BY seq DESC LIMIT ?)`,
			l.limit)
		if err != nil {
			return fmt.Errorf("trim entries: %w", err)
		}
	}

	return tx.Commit()
}

// Entries returns every entry, oldest first
func (l *SQLiteLog) Entries(ctx context.Context) ([]Entry, error) {
	return l.Recent(ctx, 0)
}

// Recent returns the newest n entries, oldest first; n <= 0 returns all of them
func (l *SQLiteLog) Recent(ctx context.Context, n int) ([]Entry, error) {
	query := `
		SELECT id, analyzed_at, source, text_preview, overall_risk, authenticity, tier, pattern_count, pattern_ids, word_count
		FROM (SELECT * FROM entries ORDER BY seq DESC LIMIT ?)
		ORDER BY seq ASC`
	limit := n
	if limit <= 0 {
		limit = -1
	}

	rows, err := l.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var nanos int64
		var tier, ids string
		if err := rows.Scan(&e.ID, &nanos, &e.Source, &e.TextPreview, &e.OverallRisk,
			&e.Authenticity, &tier, &e.PatternCount, &ids, &e.WordCount); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Timestamp = time.Unix(0, nanos).UTC()
		e.Tier = analysis.Tier(tier)
		e.PatternIDs = []string{}
		if ids != "" {
			e.PatternIDs = strings.Split(ids, ",")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read entries: %w", err)
	}
	return entries, nil
}

// Summary aggregates the current entries
func (l *SQLiteLog) Summary(ctx context.Context) (Summary, error) {
	entries, err := l.Entries(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(entries), nil
}

// Clear removes every entry
func (l *SQLiteLog) Clear(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, "DELETE FROM entries"); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}
	return nil
}

// Close drops the database
func (l *SQLiteLog) Close() error {
	return l.db.Close()
}

// Open returns the log implementation named by store ("memory" or "sqlite")
func Open(store string, limit int) (Log, error) {
	switch store {
	case "", "memory":
		return NewMemoryLog(limit), nil
	case "sqlite":
		return OpenSQLiteLog(limit)
	default:
		return nil, fmt.Errorf("unknown history store %q", store)
	}
}
