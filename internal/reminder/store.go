// Package reminder holds the process-lifetime reminder ledger and the timer
// queue that fires local reminders. Nothing here survives a restart.
package reminder

import (
	"sync"
	"time"
)

type Reminder struct {
	Task string
	Due  time.Time
}

// Store is an append-only ordered sequence of reminders. It is shared
// between the scheduling tools (writers) and the greeting tool (reader), so
// access is mutex-guarded.
type Store struct {
	mu    sync.RWMutex
	items []Reminder
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Add(task string, due time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, Reminder{Task: task, Due: due})
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) Snapshot() []Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Reminder, len(s.items))
	copy(out, s.items)
	return out
}
