package chat

import (
	"context"
	"sync"
)

// ConversationStore is the append-only sink for conversation messages.
// The pipeline never reads messages back except through Messages, which
// exists for rendering.
type ConversationStore interface {
	Append(ctx context.Context, msg Message) error
	Messages(conversationID string) []Message
}

// MemoryStore keeps conversation histories in memory. Appends preserve
// arrival order per conversation; histories live until the store is dropped.
type MemoryStore struct {
	mu            sync.RWMutex
	conversations map[string][]Message
}

// NewMemoryStore creates an empty in-memory conversation store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		conversations: make(map[string][]Message),
	}
}

// Append implements ConversationStore
func (s *MemoryStore) Append(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations[msg.ConversationID] = append(s.conversations[msg.ConversationID], msg)
	return nil
}

// Messages returns a copy of the conversation's history in append order
func (s *MemoryStore) Messages(conversationID string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.conversations[conversationID]
	out := make([]Message, len(history))
	copy(out, history)
	return out
}
