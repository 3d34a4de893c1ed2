package state

import (
	"github.com/gudangops/wardeck/internal/store"
	"go.uber.org/zap"
)

// Handoff carries a one-shot draft prompt from the command center to the
// assistant page. The value is consumed (and deleted) on first read.
type Handoff struct {
	store  store.Store
	logger *zap.Logger
}

func NewHandoff(s store.Store, logger *zap.Logger) *Handoff {
	return &Handoff{store: s, logger: logger}
}

// SetPendingPrompt stores a draft prompt for the assistant page.
func (h *Handoff) SetPendingPrompt(prompt string) {
	if err := h.store.Set(store.KeyAssistantPrompt, []byte(prompt)); err != nil {
		h.logger.Warn("failed to store pending prompt", zap.Error(err))
	}
}

// TakePendingPrompt returns the stored prompt, deleting it so a second
// read comes back empty.
func (h *Handoff) TakePendingPrompt() (string, bool) {
	raw, ok, err := h.store.Get(store.KeyAssistantPrompt)
	if err != nil {
		h.logger.Warn("failed to read pending prompt", zap.Error(err))
		return "", false
	}
	if !ok {
		return "", false
	}
	if err := h.store.Delete(store.KeyAssistantPrompt); err != nil {
		h.logger.Warn("failed to clear pending prompt", zap.Error(err))
	}
	return string(raw), true
}
