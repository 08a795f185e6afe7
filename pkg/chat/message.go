package chat

import (
	"time"

	"chatsafety-server/pkg/lexicon"
)

// Sender identifies the origin of a chat message
type Sender string

const (
	SenderUser   Sender = "user"
	SenderMatch  Sender = "match"
	SenderSystem Sender = "system"
)

// Valid reports whether s is a known sender value
func (s Sender) Valid() bool {
	switch s {
	case SenderUser, SenderMatch, SenderSystem:
		return true
	}
	return false
}

// Message is one entry in a conversation's append-only history.
// User-authored messages carry sender user/match; safety disclaimers are
// system-authored with IsDisclaimer set.
type Message struct {
	ID             string             `json:"id"`
	ConversationID string             `json:"conversation_id"`
	Sender         Sender             `json:"sender"`
	Content        string             `json:"content"`
	Timestamp      time.Time          `json:"timestamp"`
	IsDisclaimer   bool               `json:"is_disclaimer"`
	KeywordFlags   []lexicon.Category `json:"keyword_flags,omitempty"`
}
