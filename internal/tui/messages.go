package tui

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gudangops/wardeck/internal/api"
	"github.com/gudangops/wardeck/internal/session"
	"github.com/gudangops/wardeck/pkg/models"
)

// Message types for async operations
type (
	// SessionResolvedMsg carries the result of the initial session check
	SessionResolvedMsg struct {
		Snapshot session.Snapshot
	}

	// SessionChangedMsg carries a provider-pushed session change
	SessionChangedMsg struct {
		Snapshot session.Snapshot
	}

	// ChatReplyMsg carries the outcome of a chat send
	ChatReplyMsg struct {
		Reply string
		Err   error
	}

	// ForecastAnalyzedMsg carries the outcome of a CSV upload
	ForecastAnalyzedMsg struct {
		Result *models.ForecastResult
		Err    error
	}

	// TimelineLoadedMsg contains the history timeline
	TimelineLoadedMsg struct {
		Items []models.HistoryItem
		Err   error
	}

	// StatsLoadedMsg contains the aggregate history stats
	StatsLoadedMsg struct {
		Stats *models.HistoryStats
		Err   error
	}

	// DetailLoadedMsg contains a per-item history detail
	DetailLoadedMsg struct {
		Chat     *models.ChatDetail
		Forecast *models.ForecastDetail
		Err      error
	}

	// TickMsg is sent periodically for spinner animation
	TickMsg time.Time
)

// resolveSessionCmd performs the initial session resolution
func resolveSessionCmd(ctx context.Context, store *session.Store) tea.Cmd {
	return func() tea.Msg {
		return SessionResolvedMsg{Snapshot: store.Resolve(ctx)}
	}
}

// waitSessionCmd waits for the next session change notification
func waitSessionCmd(ch <-chan session.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return SessionChangedMsg{Snapshot: snap}
	}
}

// sendChatCmd posts a question (and optional attachment) to the
// assistant endpoint
func sendChatCmd(ctx context.Context, client *api.Client, question, attachmentPath string) tea.Cmd {
	return func() tea.Msg {
		var attachment *api.Attachment
		if attachmentPath != "" {
			f, err := os.Open(attachmentPath)
			if err != nil {
				return ChatReplyMsg{Err: err}
			}
			defer f.Close()
			attachment = &api.Attachment{Name: filepath.Base(attachmentPath), Reader: f}
		}
		reply, err := client.Chat(ctx, question, attachment)
		return ChatReplyMsg{Reply: reply, Err: err}
	}
}

// uploadForecastCmd posts a CSV to the forecasting endpoint
func uploadForecastCmd(ctx context.Context, client *api.Client, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return ForecastAnalyzedMsg{Err: err}
		}
		defer f.Close()
		result, err := client.Forecast(ctx, filepath.Base(path), f)
		return ForecastAnalyzedMsg{Result: result, Err: err}
	}
}

// loadTimelineCmd fetches the history timeline
func loadTimelineCmd(ctx context.Context, client *api.Client) tea.Cmd {
	return func() tea.Msg {
		items, err := client.Timeline(ctx)
		return TimelineLoadedMsg{Items: items, Err: err}
	}
}

// loadStatsCmd fetches the aggregate history stats
func loadStatsCmd(ctx context.Context, client *api.Client) tea.Cmd {
	return func() tea.Msg {
		stats, err := client.Stats(ctx)
		return StatsLoadedMsg{Stats: stats, Err: err}
	}
}

// loadDetailCmd fetches the per-item detail for the overlay
func loadDetailCmd(ctx context.Context, client *api.Client, kind models.HistoryKind, id string) tea.Cmd {
	return func() tea.Msg {
		if kind == models.HistoryChat {
			detail, err := client.ChatDetail(ctx, id)
			return DetailLoadedMsg{Chat: detail, Err: err}
		}
		detail, err := client.ForecastDetail(ctx, id)
		return DetailLoadedMsg{Forecast: detail, Err: err}
	}
}

// tickCmd creates a ticker for spinner animation
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
