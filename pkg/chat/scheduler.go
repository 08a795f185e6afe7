package chat

import (
	"sync"
	"time"
)

// DefaultCooldown is the minimum interval between disclaimers per conversation
const DefaultCooldown = time.Hour

// Clock supplies the current time; injectable for deterministic tests
type Clock func() time.Time

// DisclaimerScheduler enforces a minimum interval between safety reminders
// per conversation. A conversation never seen before is always eligible.
type DisclaimerScheduler struct {
	cooldown time.Duration

	mu   sync.Mutex
	last map[string]time.Time
}

// NewDisclaimerScheduler creates a scheduler with the given cooldown interval
func NewDisclaimerScheduler(cooldown time.Duration) *DisclaimerScheduler {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}

	return &DisclaimerScheduler{
		cooldown: cooldown,
		last:     make(map[string]time.Time),
	}
}

// ShouldInject reports whether the cooldown window has elapsed for the
// conversation. Does not mutate state.
func (s *DisclaimerScheduler) ShouldInject(conversationID string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.eligible(conversationID, now)
}

// Record marks a disclaimer as emitted for the conversation at the given time
func (s *DisclaimerScheduler) Record(conversationID string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last[conversationID] = now
}

// TryAcquire atomically performs the check-then-record for one conversation.
// Exactly one of several concurrent callers inside the same window wins.
func (s *DisclaimerScheduler) TryAcquire(conversationID string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.eligible(conversationID, now) {
		return false
	}

	s.last[conversationID] = now
	return true
}

// eligible must be called with the mutex held
func (s *DisclaimerScheduler) eligible(conversationID string, now time.Time) bool {
	last, ok := s.last[conversationID]
	if !ok {
		return true
	}
	return now.Sub(last) >= s.cooldown
}
