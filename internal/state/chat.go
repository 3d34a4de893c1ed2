// Package state holds the client-side state machines of the dashboard:
// the chat transcript, the forecast result cache, the page-to-page prompt
// handoff and the maintenance policy. Every mutation is mirrored to the
// durable key-value store so a restart picks up where the user left off.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gudangops/wardeck/internal/store"
	"github.com/gudangops/wardeck/pkg/models"
	"go.uber.org/zap"
)

// WelcomeMessage seeds a fresh transcript.
const WelcomeMessage = "Hello! I'm the Doc Assistant, connected to your SOP document database and warehouse forecast data. Ask me about procedures, return policies, or anything operational."

// ApologyMessage replaces the assistant turn when a send fails. Chat
// errors are never surfaced raw; the transcript stays coherent.
const ApologyMessage = "Sorry, something went wrong while contacting the assistant. Please make sure the backend is reachable."

var (
	// ErrEmptyMessage means there was nothing to send: no text, no file.
	ErrEmptyMessage = errors.New("nothing to send")
	// ErrExchangeInFlight means a send is already outstanding.
	ErrExchangeInFlight = errors.New("an exchange is already in flight")
)

// Chat is the transcript state machine. The sequence is append-only;
// only Clear and PruneOlderThan remove turns.
type Chat struct {
	mu       sync.Mutex
	turns    []models.Turn
	inFlight bool
	store    store.Store
	logger   *zap.Logger
	now      func() time.Time
}

func NewChat(s store.Store, logger *zap.Logger) *Chat {
	c := &Chat{store: s, logger: logger, now: time.Now}
	c.hydrate()
	return c
}

// hydrate loads the durable transcript, falling back to the seeded
// welcome turn when the record is absent or corrupt.
func (c *Chat) hydrate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, ok, err := c.store.Get(store.KeyChatHistory)
	if err == nil && ok {
		var turns []models.Turn
		if jsonErr := json.Unmarshal(raw, &turns); jsonErr == nil && len(turns) > 0 {
			c.turns = turns
			return
		}
		c.logger.Warn("failed to parse stored chat history, starting fresh")
	} else if err != nil {
		c.logger.Warn("failed to read stored chat history", zap.Error(err))
	}
	c.turns = []models.Turn{c.welcomeTurn()}
}

// Reload rehydrates the transcript from the store, dropping in-memory
// state. Used after maintenance rewrites the durable copy.
func (c *Chat) Reload() {
	c.hydrate()
}

func (c *Chat) welcomeTurn() models.Turn {
	return models.Turn{
		ID:        "welcome",
		Role:      models.RoleAssistant,
		Content:   WelcomeMessage,
		Timestamp: c.now(),
	}
}

// Turns returns a copy of the transcript in order.
func (c *Chat) Turns() []models.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Typing reports whether an exchange is outstanding.
func (c *Chat) Typing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// BeginExchange validates the send, appends the optimistic user turn and
// marks the exchange in flight. It returns the question text to post;
// the text may be empty for file-only sends, in which case the client
// substitutes its default question. No request must be issued when
// ErrEmptyMessage is returned.
func (c *Chat) BeginExchange(input, attachmentName string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if input == "" && attachmentName == "" {
		return "", ErrEmptyMessage
	}
	if c.inFlight {
		return "", ErrExchangeInFlight
	}

	content := input
	if content == "" {
		content = fmt.Sprintf("[Sent document: %s]", attachmentName)
	}
	c.turns = append(c.turns, models.Turn{
		ID:        uuid.NewString(),
		Role:      models.RoleUser,
		Content:   content,
		Timestamp: c.now(),
	})
	c.inFlight = true
	c.persistLocked()
	return input, nil
}

// CompleteExchange appends the assistant turn for the in-flight send. A
// failed send is downgraded to the fixed apology turn; the error never
// propagates past this point.
func (c *Chat) CompleteExchange(reply string, sendErr error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	content := reply
	if sendErr != nil {
		c.logger.Warn("chat send failed", zap.Error(sendErr))
		content = ApologyMessage
	}
	c.turns = append(c.turns, models.Turn{
		ID:        uuid.NewString(),
		Role:      models.RoleAssistant,
		Content:   content,
		Timestamp: c.now(),
	})
	c.inFlight = false
	c.persistLocked()
}

// Clear resets the transcript to the seeded welcome turn and removes the
// durable copy.
func (c *Chat) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = []models.Turn{c.welcomeTurn()}
	c.inFlight = false
	if err := c.store.Delete(store.KeyChatHistory); err != nil {
		c.logger.Warn("failed to remove stored chat history", zap.Error(err))
	}
}

// PruneOlderThan drops turns older than the cutoff and persists the
// remainder. Returns the number of removed turns.
func (c *Chat) PruneOlderThan(cutoff time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.turns[:0]
	for _, turn := range c.turns {
		if turn.Timestamp.After(cutoff) {
			kept = append(kept, turn)
		}
	}
	removed := len(c.turns) - len(kept)
	c.turns = kept
	if len(c.turns) == 0 {
		c.turns = []models.Turn{c.welcomeTurn()}
	}
	c.persistLocked()
	return removed
}

func (c *Chat) persistLocked() {
	raw, err := json.Marshal(c.turns)
	if err != nil {
		c.logger.Error("failed to serialize chat history", zap.Error(err))
		return
	}
	if err := c.store.Set(store.KeyChatHistory, raw); err != nil {
		c.logger.Warn("failed to persist chat history", zap.Error(err))
	}
}
