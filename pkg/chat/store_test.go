package chat

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_AppendPreservesOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, Message{
			ID:             fmt.Sprintf("m%d", i),
			ConversationID: "c1",
			Sender:         SenderUser,
			Content:        fmt.Sprintf("message %d", i),
			Timestamp:      time.Now(),
		}))
	}

	history := store.Messages("c1")
	require.Len(t, history, 5)
	for i, msg := range history {
		assert.Equal(t, fmt.Sprintf("m%d", i), msg.ID)
	}
}

func TestMemoryStore_ConversationsIsolated(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, Message{ID: "a", ConversationID: "c1", Sender: SenderUser}))
	require.NoError(t, store.Append(ctx, Message{ID: "b", ConversationID: "c2", Sender: SenderMatch}))

	assert.Len(t, store.Messages("c1"), 1)
	assert.Len(t, store.Messages("c2"), 1)
	assert.Empty(t, store.Messages("c3"))
}

func TestMemoryStore_MessagesReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, Message{ID: "a", ConversationID: "c1", Sender: SenderUser}))

	history := store.Messages("c1")
	history[0].ID = "mutated"

	assert.Equal(t, "a", store.Messages("c1")[0].ID)
}
