// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package history

import (
	"context"
	"sync"
)

// Log is an append-only record of analyses for one session
type Log interface {
	// Append records an entry
	Append(ctx context.Context, entry Entry) error

	// Entries returns every entry, oldest first
	Entries(ctx context.Context) ([]Entry, error)

	// Recent returns at most n entries, oldest first, ending with the newest
	Recent(ctx context.Context, n int) ([]Entry, error)

	// Summary aggregates the current entries
	Summary(ctx context.Context) (Summary, error)

	// Clear removes every entry
	Clear(ctx context.Context) error

	// Close releases resources held by the log
	Close() error
}

// MemoryLog keeps entries in a slice. A positive limit evicts the oldest
// entries once it is reached.
type MemoryLog struct {
	mu      sync.RWMutex
	entries []Entry
	limit   int
}

// NewMemoryLog creates an in-memory log. A limit of zero keeps everything.
func NewMemoryLog(limit int) *MemoryLog {
	return &MemoryLog{limit: limit}
}

// Append records an entry
func (m *MemoryLog) Append(ctx context.Context, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, cloneEntry(entry))
	if m.limit > 0 && len(m.entries) > m.limit {
		m.entries = append([]Entry(nil), m.entries[len(m.entries)-m.limit:]...)
	}
	return nil
}

// Entries returns a copy of every entry
func (m *MemoryLog) Entries(ctx context.Context) ([]Entry, error) {
	return m.Recent(ctx, 0)
}

// Recent returns the newest n entries; n <= 0 returns all of them
func (m *MemoryLog) Recent(ctx context.Context, n int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	start := 0
	if n > 0 && n < len(m.entries) {
		start = len(m.entries) - n
	}
	out := make([]Entry, 0, len(m.entries)-start)
	for _, e := range m.entries[start:] {
		out = append(out, cloneEntry(e))
	}
	return out, nil
}

// Summary aggregates the current entries
func (m *MemoryLog) Summary(ctx context.Context) (Summary, error) {
	entries, err := m.Entries(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(entries), nil
}

// Clear removes every entry
func (m *MemoryLog) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	return nil
}

// Close is a no-op
func (m *MemoryLog) Close() error {
	return nil
}

func cloneEntry(e Entry) Entry {
	e.PatternIDs = append([]string{}, e.PatternIDs...)
	return e
}
