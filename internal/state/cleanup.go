package state

import (
	"strconv"
	"time"

	"github.com/gudangops/wardeck/internal/store"
	"go.uber.org/zap"
)

// Retention policy: prompt for a purge after 30 days, keep chat turns
// for 365 days.
const (
	CleanupInterval = 30 * 24 * time.Hour
	ChatRetention   = 365 * 24 * time.Hour
)

// Maintenance implements the periodic local-storage hygiene check.
type Maintenance struct {
	store  store.Store
	chat   *Chat
	logger *zap.Logger
}

func NewMaintenance(s store.Store, chat *Chat, logger *zap.Logger) *Maintenance {
	return &Maintenance{store: s, chat: chat, logger: logger}
}

// Check reports whether the maintenance notice is due. On first run (no
// stored timestamp, or an unreadable one) it records now silently and
// reports not due.
func (m *Maintenance) Check(now time.Time) bool {
	raw, ok, err := m.store.Get(store.KeyLastCleanup)
	if err != nil {
		m.logger.Warn("failed to read last cleanup timestamp", zap.Error(err))
		return false
	}
	if !ok {
		m.record(now)
		return false
	}
	millis, parseErr := strconv.ParseInt(string(raw), 10, 64)
	if parseErr != nil {
		m.logger.Warn("stored cleanup timestamp is corrupt, resetting")
		m.record(now)
		return false
	}
	last := time.UnixMilli(millis)
	return now.Sub(last) > CleanupInterval
}

// Run executes the purge: the forecast cache's durable copy is removed
// wholesale, chat turns older than the retention window are filtered
// out, and the cleanup timestamp is stamped. The caller reloads
// application state afterwards.
func (m *Maintenance) Run(now time.Time) {
	if err := m.store.Delete(store.KeyForecastData); err != nil {
		m.logger.Warn("failed to remove forecast cache", zap.Error(err))
	}
	removed := m.chat.PruneOlderThan(now.Add(-ChatRetention))
	m.record(now)
	m.logger.Info("maintenance cleanup complete", zap.Int("turns_removed", removed))
}

func (m *Maintenance) record(now time.Time) {
	value := strconv.FormatInt(now.UnixMilli(), 10)
	if err := m.store.Set(store.KeyLastCleanup, []byte(value)); err != nil {
		m.logger.Warn("failed to record cleanup timestamp", zap.Error(err))
	}
}
