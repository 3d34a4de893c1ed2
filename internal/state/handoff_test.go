package state

import (
	"testing"

	"github.com/gudangops/wardeck/internal/store"
	"go.uber.org/zap"
)

// TestHandoffConsumedOnce tests that a pending prompt is returned exactly
// once
func TestHandoffConsumedOnce(t *testing.T) {
	h := NewHandoff(store.NewMemoryStore(), zap.NewNop())

	h.SetPendingPrompt("draft a clearance strategy")

	prompt, ok := h.TakePendingPrompt()
	if !ok || prompt != "draft a clearance strategy" {
		t.Errorf("Expected stored prompt back, got %q (ok=%v)", prompt, ok)
	}

	if _, ok := h.TakePendingPrompt(); ok {
		t.Error("Second take should come back empty")
	}
}

// TestHandoffEmpty tests the no-prompt case
func TestHandoffEmpty(t *testing.T) {
	h := NewHandoff(store.NewMemoryStore(), zap.NewNop())
	if _, ok := h.TakePendingPrompt(); ok {
		t.Error("Take without a stored prompt should report nothing")
	}
}
