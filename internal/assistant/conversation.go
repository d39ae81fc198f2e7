package assistant

import (
	"sync"

	"github.com/assistkit/booking-assistant/internal/extraction"
)

// ConversationStore keeps per-conversation turn history in memory. The
// extractor replays the full history on every turn, so the history is the
// only conversational state the server holds.
type ConversationStore struct {
	mu    sync.Mutex
	turns map[string][]extraction.Turn
}

// NewConversationStore creates an empty conversation store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{turns: make(map[string][]extraction.Turn)}
}

// Append adds a turn and returns a copy of the full history.
func (c *ConversationStore) Append(conversationID string, turn extraction.Turn) []extraction.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.turns[conversationID] = append(c.turns[conversationID], turn)
	return c.snapshot(conversationID)
}

// History returns a copy of the stored turns for a conversation.
func (c *ConversationStore) History(conversationID string) []extraction.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot(conversationID)
}

// Reset drops every stored conversation.
func (c *ConversationStore) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = make(map[string][]extraction.Turn)
}

func (c *ConversationStore) snapshot(conversationID string) []extraction.Turn {
	stored := c.turns[conversationID]
	out := make([]extraction.Turn, len(stored))
	copy(out, stored)
	return out
}
