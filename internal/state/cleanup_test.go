package state

import (
	"strconv"
	"testing"
	"time"

	"github.com/gudangops/wardeck/internal/store"
	"go.uber.org/zap"
)

func newTestMaintenance(t *testing.T) (*Maintenance, *Chat, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore()
	chat := NewChat(s, zap.NewNop())
	return NewMaintenance(s, chat, zap.NewNop()), chat, s
}

// TestMaintenanceFirstRunSilent tests that the first check records a
// timestamp without prompting
func TestMaintenanceFirstRunSilent(t *testing.T) {
	m, _, s := newTestMaintenance(t)

	now := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	if m.Check(now) {
		t.Error("First run should not report a due cleanup")
	}

	raw, ok, _ := s.Get(store.KeyLastCleanup)
	if !ok {
		t.Fatal("First run should record the cleanup timestamp")
	}
	millis, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		t.Fatalf("Recorded timestamp should be millisecond epoch, got %q", raw)
	}
	if !time.UnixMilli(millis).Equal(now) {
		t.Error("Recorded timestamp mismatch")
	}
}

// TestMaintenanceDueAfterInterval tests the 30-day trigger
func TestMaintenanceDueAfterInterval(t *testing.T) {
	m, _, s := newTestMaintenance(t)

	now := time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC)
	last := now.Add(-40 * 24 * time.Hour)
	s.Set(store.KeyLastCleanup, []byte(strconv.FormatInt(last.UnixMilli(), 10)))

	if !m.Check(now) {
		t.Error("Cleanup should be due 40 days after the last run")
	}
	if m.Check(now.Add(-20 * 24 * time.Hour)) {
		t.Error("Cleanup should not be due 20 days after the last run")
	}
}

// TestMaintenanceCorruptTimestampResets tests that an unreadable
// timestamp is silently re-recorded
func TestMaintenanceCorruptTimestampResets(t *testing.T) {
	m, _, s := newTestMaintenance(t)
	s.Set(store.KeyLastCleanup, []byte("yesterday-ish"))

	now := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	if m.Check(now) {
		t.Error("Corrupt timestamp should not report a due cleanup")
	}
	raw, _, _ := s.Get(store.KeyLastCleanup)
	if string(raw) != strconv.FormatInt(now.UnixMilli(), 10) {
		t.Error("Corrupt timestamp should be replaced with the current time")
	}
}

// TestMaintenanceRun tests the purge: forecast cache removed, old chat
// turns dropped, timestamp stamped
func TestMaintenanceRun(t *testing.T) {
	m, chat, s := newTestMaintenance(t)

	now := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	chat.now = func() time.Time { return now.Add(-400 * 24 * time.Hour) }
	chat.Clear()
	chat.BeginExchange("ancient question", "")
	chat.CompleteExchange("ancient answer", nil)

	chat.now = func() time.Time { return now.Add(-time.Hour) }
	chat.BeginExchange("recent question", "")
	chat.CompleteExchange("recent answer", nil)

	s.Set(store.KeyForecastData, []byte(`{"hasData":true}`))

	m.Run(now)

	if _, ok, _ := s.Get(store.KeyForecastData); ok {
		t.Error("Run should remove the forecast cache")
	}
	for _, turn := range chat.Turns() {
		if turn.Content == "ancient question" {
			t.Error("Turns older than the retention window should be gone")
		}
	}
	found := false
	for _, turn := range chat.Turns() {
		if turn.Content == "recent question" {
			found = true
		}
	}
	if !found {
		t.Error("Turns inside the retention window should survive")
	}

	raw, ok, _ := s.Get(store.KeyLastCleanup)
	if !ok || string(raw) != strconv.FormatInt(now.UnixMilli(), 10) {
		t.Error("Run should stamp the cleanup timestamp")
	}
}
