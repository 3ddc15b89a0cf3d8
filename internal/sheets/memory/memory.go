package memory

import (
	"context"
	"fmt"
	"sync"

	"chickenkeeper/internal/amqp"
)

// Store is an in-memory LedgerWriter used by tests and local runs without
// Google credentials.
type Store struct {
	mu    sync.Mutex
	items []amqp.LedgerEntryMessage
}

func New() *Store {
	return &Store{}
}

// Append stores the entry and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, entry amqp.LedgerEntryMessage) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, entry)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Entries returns a copy of everything appended so far.
func (s *Store) Entries() []amqp.LedgerEntryMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]amqp.LedgerEntryMessage(nil), s.items...)
}
