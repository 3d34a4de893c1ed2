package state

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gudangops/wardeck/internal/store"
	"github.com/gudangops/wardeck/pkg/models"
	"go.uber.org/zap"
)

func newTestChat(t *testing.T) (*Chat, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore()
	return NewChat(s, zap.NewNop()), s
}

// TestChatSeedsWelcomeTurn tests that a fresh transcript starts with the
// welcome message
func TestChatSeedsWelcomeTurn(t *testing.T) {
	c, _ := newTestChat(t)

	turns := c.Turns()
	if len(turns) != 1 {
		t.Fatalf("Expected 1 seeded turn, got %d", len(turns))
	}
	if turns[0].Role != models.RoleAssistant {
		t.Error("Welcome turn should come from the assistant")
	}
	if turns[0].Content != WelcomeMessage {
		t.Error("Welcome turn content mismatch")
	}
}

// TestChatExchangeSequence tests that N completed exchanges produce the
// welcome turn plus two turns each
func TestChatExchangeSequence(t *testing.T) {
	c, _ := newTestChat(t)

	for i := 0; i < 3; i++ {
		question, err := c.BeginExchange(fmt.Sprintf("question %d", i), "")
		if err != nil {
			t.Fatalf("BeginExchange failed: %v", err)
		}
		if question != fmt.Sprintf("question %d", i) {
			t.Errorf("Expected question text back, got %q", question)
		}
		c.CompleteExchange("answer", nil)
	}

	turns := c.Turns()
	if len(turns) != 1+3*2 {
		t.Fatalf("Expected 7 turns, got %d", len(turns))
	}
	// Roles must alternate after the welcome turn
	for i := 1; i < len(turns); i++ {
		want := models.RoleUser
		if i%2 == 0 {
			want = models.RoleAssistant
		}
		if turns[i].Role != want {
			t.Errorf("Turn %d: expected role %s, got %s", i, want, turns[i].Role)
		}
	}
}

// TestChatEmptySendRejected tests that sending nothing is rejected
// without touching the transcript
func TestChatEmptySendRejected(t *testing.T) {
	c, _ := newTestChat(t)

	if _, err := c.BeginExchange("", ""); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("Expected ErrEmptyMessage, got %v", err)
	}
	if len(c.Turns()) != 1 {
		t.Error("Transcript should be untouched after a rejected send")
	}
	if c.Typing() {
		t.Error("No exchange should be in flight after a rejected send")
	}
}

// TestChatSingleFlight tests that a second send is rejected while one is
// outstanding
func TestChatSingleFlight(t *testing.T) {
	c, _ := newTestChat(t)

	if _, err := c.BeginExchange("first", ""); err != nil {
		t.Fatalf("BeginExchange failed: %v", err)
	}
	if !c.Typing() {
		t.Error("Exchange should be in flight")
	}
	if _, err := c.BeginExchange("second", ""); !errors.Is(err, ErrExchangeInFlight) {
		t.Errorf("Expected ErrExchangeInFlight, got %v", err)
	}

	c.CompleteExchange("done", nil)
	if _, err := c.BeginExchange("third", ""); err != nil {
		t.Errorf("Send after completion should succeed, got %v", err)
	}
}

// TestChatFileOnlySend tests the document-only send path
func TestChatFileOnlySend(t *testing.T) {
	c, _ := newTestChat(t)

	question, err := c.BeginExchange("", "report.pdf")
	if err != nil {
		t.Fatalf("BeginExchange failed: %v", err)
	}
	if question != "" {
		t.Errorf("File-only send should return an empty question, got %q", question)
	}

	turns := c.Turns()
	last := turns[len(turns)-1]
	if last.Content != "[Sent document: report.pdf]" {
		t.Errorf("Unexpected placeholder content: %q", last.Content)
	}
}

// TestChatFailureApology tests that a failed send shows the apology turn
// instead of the raw error
func TestChatFailureApology(t *testing.T) {
	c, _ := newTestChat(t)

	if _, err := c.BeginExchange("hello", ""); err != nil {
		t.Fatalf("BeginExchange failed: %v", err)
	}
	c.CompleteExchange("", errors.New("connection refused"))

	turns := c.Turns()
	last := turns[len(turns)-1]
	if last.Role != models.RoleAssistant {
		t.Error("Failure turn should come from the assistant")
	}
	if last.Content != ApologyMessage {
		t.Errorf("Expected apology content, got %q", last.Content)
	}
	if c.Typing() {
		t.Error("Exchange should no longer be in flight after failure")
	}
}

// TestChatClear tests that clearing resets to the welcome turn and drops
// the durable record
func TestChatClear(t *testing.T) {
	c, s := newTestChat(t)

	c.BeginExchange("hello", "")
	c.CompleteExchange("hi", nil)
	c.Clear()

	turns := c.Turns()
	if len(turns) != 1 || turns[0].Content != WelcomeMessage {
		t.Error("Clear should reset to the single welcome turn")
	}
	if _, ok, _ := s.Get(store.KeyChatHistory); ok {
		t.Error("Clear should remove the durable transcript")
	}
}

// TestChatHydration tests that a restart picks up the persisted transcript
func TestChatHydration(t *testing.T) {
	s := store.NewMemoryStore()
	c := NewChat(s, zap.NewNop())
	c.BeginExchange("persisted question", "")
	c.CompleteExchange("persisted answer", nil)

	restarted := NewChat(s, zap.NewNop())
	turns := restarted.Turns()
	if len(turns) != 3 {
		t.Fatalf("Expected 3 turns after restart, got %d", len(turns))
	}
	if turns[1].Content != "persisted question" {
		t.Errorf("Unexpected persisted content: %q", turns[1].Content)
	}
}

// TestChatCorruptRecordResets tests that an unparseable stored transcript
// falls back to the welcome seed instead of failing
func TestChatCorruptRecordResets(t *testing.T) {
	s := store.NewMemoryStore()
	s.Set(store.KeyChatHistory, []byte("{not json"))

	c := NewChat(s, zap.NewNop())
	turns := c.Turns()
	if len(turns) != 1 || turns[0].Content != WelcomeMessage {
		t.Error("Corrupt record should fall back to the welcome seed")
	}
}

// TestChatPruneOlderThan tests the retention filter
func TestChatPruneOlderThan(t *testing.T) {
	s := store.NewMemoryStore()
	c := NewChat(s, zap.NewNop())

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base.Add(-400 * 24 * time.Hour) }
	c.Clear() // reseed the welcome turn at the old clock
	c.BeginExchange("old question", "")
	c.CompleteExchange("old answer", nil)

	c.now = func() time.Time { return base }
	c.BeginExchange("recent question", "")
	c.CompleteExchange("recent answer", nil)

	removed := c.PruneOlderThan(base.Add(-365 * 24 * time.Hour))
	if removed != 3 {
		// welcome turn plus the old exchange
		t.Errorf("Expected 3 removed turns, got %d", removed)
	}

	for _, turn := range c.Turns() {
		if turn.Content == "old question" || turn.Content == "old answer" {
			t.Error("Old turns should have been pruned")
		}
	}
}

// TestChatPruneAllReseeds tests that pruning everything reseeds the
// welcome turn
func TestChatPruneAllReseeds(t *testing.T) {
	c, _ := newTestChat(t)
	c.BeginExchange("hello", "")
	c.CompleteExchange("hi", nil)

	c.PruneOlderThan(time.Now().Add(time.Hour))
	turns := c.Turns()
	if len(turns) != 1 || turns[0].Content != WelcomeMessage {
		t.Error("Pruning everything should reseed the welcome turn")
	}
}
