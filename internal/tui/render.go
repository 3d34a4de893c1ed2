package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gudangops/wardeck/pkg/models"
)

var (
	sectionTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	emeraldStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dangerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// wrapText wraps text to fit within the specified width
func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{text}
	}

	currentLine := words[0]
	for _, word := range words[1:] {
		if len(currentLine)+1+len(word) > width {
			lines = append(lines, currentLine)
			currentLine = word
		} else {
			currentLine += " " + word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return lines
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// renderBarChart renders label/value rows as horizontal bars scaled to
// the largest value.
func renderBarChart(rows []models.ChartPoint, width int) string {
	if len(rows) == 0 {
		return dimStyle.Render("  no data")
	}

	maxValue := 1
	labelWidth := 0
	for _, row := range rows {
		if row.Value > maxValue {
			maxValue = row.Value
		}
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
	}

	barWidth := width - labelWidth - 12
	if barWidth < 10 {
		barWidth = 10
	}

	var s strings.Builder
	for _, row := range rows {
		// Negative predictions (a declining trend) draw no bar.
		filled := 0
		if row.Value > 0 {
			filled = row.Value * barWidth / maxValue
			if filled < 1 {
				filled = 1
			}
		}
		s.WriteString(fmt.Sprintf("  %-*s %s %d\n",
			labelWidth, row.Label,
			emeraldStyle.Render(strings.Repeat("█", filled)),
			row.Value))
	}
	return s.String()
}

// renderAlertLine formats one stock alert the way the action list shows
// it: status badge, product, stock and runway.
func renderAlertLine(alert models.StockAlert) string {
	var badge string
	switch alert.Status {
	case models.StatusCritical:
		badge = dangerStyle.Render(fmt.Sprintf("RESTOCK NOW (%.0fd)", alert.DaysLeft))
	case models.StatusWarning:
		badge = warnStyle.Render(fmt.Sprintf("%.0f days left", alert.DaysLeft))
	default:
		badge = emeraldStyle.Render("Safe")
	}
	return fmt.Sprintf("  %-24s stock %-6d rop %-6.0f %s",
		truncate(alert.Product, 24), alert.CurrentStock, alert.ReorderPoint, badge)
}

// downsample keeps the chart readable on narrow terminals by thinning
// the series to at most n points.
func downsample(points []models.ChartPoint, n int) []models.ChartPoint {
	if len(points) <= n || n <= 0 {
		return points
	}
	out := make([]models.ChartPoint, 0, n)
	step := float64(len(points)) / float64(n)
	for i := 0; i < n; i++ {
		out = append(out, points[int(float64(i)*step)])
	}
	return out
}
