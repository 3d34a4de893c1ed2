package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gudangops/wardeck/pkg/models"
)

func (m model) handleHistoryKey(key string) (tea.Model, tea.Cmd) {
	filtered := m.filteredHistory()

	switch key {
	case "f":
		m.historyFilter = (m.historyFilter + 1) % 3
		m.historyCursor = 0
		return m, nil
	case "r":
		m.historyLoading = true
		return m, tea.Batch(
			loadTimelineCmd(m.ctx, m.deps.API),
			loadStatsCmd(m.ctx, m.deps.API),
		)
	case "up", "k":
		if m.historyCursor > 0 {
			m.historyCursor--
		}
		return m, nil
	case "down", "j":
		if m.historyCursor < len(filtered)-1 {
			m.historyCursor++
		}
		return m, nil
	case "enter", "v":
		return m.openDetail(filtered, false)
	case "p":
		return m.openDetail(filtered, true)
	}
	return m, nil
}

func (m model) openDetail(filtered []models.HistoryItem, replay bool) (tea.Model, tea.Cmd) {
	if m.historyCursor >= len(filtered) {
		return m, nil
	}
	item := filtered[m.historyCursor]
	if replay && item.Kind != models.HistoryForecast {
		// Replay only makes sense for forecast snapshots.
		return m, nil
	}
	m.detail = &detailOverlay{item: item, replay: replay, loading: true}
	return m, loadDetailCmd(m.ctx, m.deps.API, item.Kind, item.ID)
}

// filteredHistory applies the in-memory kind filter; no re-fetch.
func (m model) filteredHistory() []models.HistoryItem {
	if m.historyFilter == filterAll {
		return m.historyItems
	}
	want := models.HistoryForecast
	if m.historyFilter == filterChat {
		want = models.HistoryChat
	}
	var out []models.HistoryItem
	for _, item := range m.historyItems {
		if item.Kind == want {
			out = append(out, item)
		}
	}
	return out
}

func (m model) renderHistory() string {
	var s strings.Builder

	s.WriteString(sectionTitleStyle.Render("Strategic Memory") + "\n")
	s.WriteString(dimStyle.Render("Audit trail of AI and operational decisions") + "\n\n")

	// Stats row; a failed stats fetch just leaves dashes.
	stats := []struct {
		label string
		value string
	}{
		{"Predictions", "-"},
		{"Consultations", "-"},
		{"Avg accuracy", "-"},
		{"Response time", "-"},
	}
	if m.historyStats != nil {
		stats[0].value = fmt.Sprintf("%d", m.historyStats.TotalPredictions)
		stats[1].value = fmt.Sprintf("%d", m.historyStats.TotalConsultations)
		stats[2].value = m.historyStats.AvgAccuracy
		stats[3].value = m.historyStats.ResponseTime
	}
	for _, stat := range stats {
		s.WriteString(fmt.Sprintf("  %-14s %s", stat.label, sectionTitleStyle.Render(stat.value)))
	}
	s.WriteString("\n\n")

	filtered := m.filteredHistory()
	s.WriteString(fmt.Sprintf("filter: %s  •  %d items\n\n",
		emeraldStyle.Render(m.historyFilter.String()), len(filtered)))

	if m.historyLoading && len(m.historyItems) == 0 {
		s.WriteString("  " + m.loading.View() + dimStyle.Render("  Retrieving strategic memory...") + "\n")
		return s.String()
	}
	if len(filtered) == 0 {
		s.WriteString(dimStyle.Render("  No history records found.\n  Try uploading a CSV or chatting with the assistant.") + "\n")
		return s.String()
	}

	for i, item := range filtered {
		cursor := "  "
		titleStyle := lipgloss.NewStyle()
		if i == m.historyCursor {
			cursor = "> "
			titleStyle = titleStyle.Foreground(lipgloss.Color("212")).Bold(true)
		}

		kind := emeraldStyle.Render("forecast")
		if item.Kind == models.HistoryChat {
			kind = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Render("chat")
		}

		s.WriteString(fmt.Sprintf("%s%s %s %s\n",
			cursor,
			titleStyle.Render(truncate(item.Title, 48)),
			kind,
			statusBadge(item.Status)))
		s.WriteString(fmt.Sprintf("    %s %s\n",
			dimStyle.Render(formatHistoryDate(time.Now(), item.Timestamp)),
			dimStyle.Render(truncate(item.Description, 60))))
		if item.Metadata != nil {
			var meta []string
			if item.Metadata.Accuracy > 0 {
				meta = append(meta, fmt.Sprintf("accuracy %.1f%%", item.Metadata.Accuracy))
			}
			if item.Metadata.Products > 0 {
				meta = append(meta, fmt.Sprintf("%d items analyzed", item.Metadata.Products))
			}
			if item.Metadata.Messages > 0 {
				meta = append(meta, fmt.Sprintf("%d messages", item.Metadata.Messages))
			}
			if len(meta) > 0 {
				s.WriteString("    " + dimStyle.Render(strings.Join(meta, " • ")) + "\n")
			}
		}
	}
	return s.String()
}

func statusBadge(status string) string {
	switch status {
	case "success":
		return emeraldStyle.Render("SUCCESS")
	case "failed":
		return dangerStyle.Render("FAILED")
	default:
		return warnStyle.Render(strings.ToUpper(status))
	}
}

// formatHistoryDate renders relative day labels like the hosted
// dashboard: today, yesterday, then a plain date. Days are calendar
// days, so yesterday evening is "yesterday" even less than 24h ago.
func formatHistoryDate(now, ts time.Time) string {
	switch {
	case sameCalendarDay(ts, now):
		return "today " + ts.Format("15:04")
	case sameCalendarDay(ts, now.AddDate(0, 0, -1)):
		return "yesterday " + ts.Format("15:04")
	default:
		return ts.Format("2 Jan 2006 15:04")
	}
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (m model) renderDetailOverlay() string {
	overlay := m.detail
	title := sectionTitleStyle.Render(overlay.item.Title)
	if overlay.replay {
		title = sectionTitleStyle.Render("Visual re-simulation — " + overlay.item.Title)
	}

	var body string
	switch {
	case overlay.loading:
		body = m.loading.View()
	case overlay.failed:
		body = dimStyle.Render("Failed to load details.")
	case overlay.item.Kind == models.HistoryChat && overlay.chat != nil:
		body = sectionTitleStyle.Render("User question") + "\n" +
			strings.Join(wrapText(overlay.chat.Question, m.width-8), "\n") + "\n\n" +
			sectionTitleStyle.Render("AI response") + "\n" +
			strings.Join(wrapText(overlay.chat.Answer, m.width-8), "\n")
	case overlay.forecast != nil:
		if overlay.replay {
			body = m.renderReplayChart(overlay.forecast)
		} else {
			body = fmt.Sprintf("Filename: %s\n\n%s",
				overlay.forecast.Filename,
				dimStyle.Render("Full forecast data recorded. Press p on the item to replay."))
		}
	default:
		body = dimStyle.Render("Failed to load details.")
	}

	recorded := dimStyle.Render("recorded " + overlay.item.Timestamp.Format(time.RFC822))
	hint := dimStyle.Render("esc: close")
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("42")).
		Padding(1, 2).
		Width(minInt(m.width-4, 100)).
		Render(title + "\n" + recorded + "\n\n" + body + "\n\n" + hint)
	return CenterOverlay(m.width, m.height, box)
}

// renderReplayChart shapes the recorded plot points the same way the
// live forecaster does and draws them. Both recorded plotData shapes
// decode into the same slice upstream.
func (m model) renderReplayChart(detail *models.ForecastDetail) string {
	points := detail.PlotData.Chart
	if len(points) == 0 {
		return dimStyle.Render("Visual re-simulation unavailable for this record (invalid or empty data).")
	}
	chart := make([]models.ChartPoint, 0, len(points))
	for _, p := range points {
		chart = append(chart, models.ChartPoint{
			Label: formatReplayLabel(p.DS),
			Value: int(math.Round(p.Yhat)),
		})
	}
	return renderBarChart(downsample(chart, 12), minInt(m.width-8, 90)) +
		"\n" + dimStyle.Render("replayed from historical snapshot")
}

func formatReplayLabel(isoDate string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, isoDate); err == nil {
			return t.Format("2 Jan")
		}
	}
	return isoDate
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
