// Package ledger records one entry per replay run so the latest result for a
// trace can be looked up without re-reading its report.
package ledger

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var (
	// ErrNoEntries is returned by Latest when a trace has never been replayed.
	ErrNoEntries = errors.New("ledger: no entries for trace")
	// ErrDuplicateEntry is returned when an entry with the same trace and start time exists.
	ErrDuplicateEntry = errors.New("ledger: duplicate entry")
)

// Entry summarizes one replay run.
type Entry struct {
	RunID      string        `json:"run_id"`
	Trace      string        `json:"trace"`
	Filter     string        `json:"filter"`
	Candidates int           `json:"candidates"`
	Accepted   int           `json:"accepted"`
	Exhausted  int           `json:"exhausted"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
}

// Ledger stores replay run entries keyed by trace and start time.
type Ledger interface {
	Append(ctx context.Context, e Entry) error
	// Latest returns the entry with the greatest StartedAt for trace.
	Latest(ctx context.Context, trace string) (Entry, error)
}

// MemoryLedger is an in-process Ledger.
type MemoryLedger struct {
	mu      sync.Mutex
	entries map[string][]Entry
}

// NewMemoryLedger returns an empty ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{entries: make(map[string][]Entry)}
}

// Append adds e, keeping each trace's entries ordered by start time.
func (l *MemoryLedger) Append(_ context.Context, e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	list := l.entries[e.Trace]
	i := sort.Search(len(list), func(i int) bool { return !list[i].StartedAt.Before(e.StartedAt) })
	if i < len(list) && list[i].StartedAt.Equal(e.StartedAt) {
		return ErrDuplicateEntry
	}
	list = append(list, Entry{})
	copy(list[i+1:], list[i:])
	list[i] = e
	l.entries[e.Trace] = list
	return nil
}

func (l *MemoryLedger) Latest(_ context.Context, trace string) (Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	list := l.entries[trace]
	if len(list) == 0 {
		return Entry{}, ErrNoEntries
	}
	return list[len(list)-1], nil
}

// Entries returns every entry for trace, oldest first.
func (l *MemoryLedger) Entries(trace string) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries[trace]...)
}
