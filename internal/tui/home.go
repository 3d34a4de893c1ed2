package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gudangops/wardeck/pkg/models"
)

// deadstockRow is placeholder data for the losers card; real deadstock
// detection needs a last-sold date the upload format does not carry yet.
type deadstockRow struct {
	Name        string
	Stock       int
	DaysDormant int
}

var deadstockPlaceholder = []deadstockRow{
	{Name: "Binder Clips (Old)", Stock: 850, DaysDormant: 90},
	{Name: "CD-R Spindle", Stock: 120, DaysDormant: 120},
}

func (m model) handleHomeKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "g":
		return m.enterPage(pageForecaster)
	case "s":
		// Hand the clearance-strategy draft off to the assistant page,
		// which consumes it on entry.
		m.deps.Handoff.SetPendingPrompt(clearancePrompt(deadstockPlaceholder))
		return m.enterPage(pageAssistant)
	}
	return m, nil
}

func clearancePrompt(rows []deadstockRow) string {
	items := make([]string, 0, len(rows))
	for _, row := range rows {
		items = append(items, fmt.Sprintf("%s (%d units, dormant %d days)", row.Name, row.Stock, row.DaysDormant))
	}
	return "I need a deadstock clearance strategy for these items: " +
		strings.Join(items, ", ") +
		". Recommend discounts, bundling, or marketing moves to clear them within 30 days."
}

func (m model) renderHome() string {
	data := m.deps.Forecast.Data()
	var s strings.Builder

	s.WriteString(sectionTitleStyle.Render("Command Center") + "\n")
	if data.HasData {
		s.WriteString(dimStyle.Render("System live. Monitoring 24/7.") + "\n\n")
	} else {
		s.WriteString(dimStyle.Render("Waiting for data. Upload a CSV in the Intelligence Engine.") + "\n\n")
		s.WriteString("  No operational data yet.\n")
		s.WriteString("  The command center needs historical sales to produce insights.\n\n")
		s.WriteString("  " + emeraldStyle.Render("g") + " open the Intelligence Engine\n")
		return s.String()
	}

	// Winners
	s.WriteString(sectionTitleStyle.Render("Top Performers / Winners") + "\n")
	winners := data.BestSellers
	if len(winners) > 3 {
		winners = winners[:3]
	}
	if len(winners) == 0 {
		s.WriteString(dimStyle.Render("  no product data") + "\n")
	}
	for _, w := range winners {
		s.WriteString(fmt.Sprintf("  %-28s %s\n", truncate(w.Name, 28), emeraldStyle.Render(fmt.Sprintf("%d", w.Qty))))
	}
	s.WriteString("\n")

	// Losers (placeholder rows, see deadstockPlaceholder)
	s.WriteString(sectionTitleStyle.Render("Deadstock / Losers") + "\n")
	for _, row := range deadstockPlaceholder {
		s.WriteString(fmt.Sprintf("  %-28s %s  %s\n",
			truncate(row.Name, 28),
			dangerStyle.Render(fmt.Sprintf("%d", row.Stock)),
			dimStyle.Render(fmt.Sprintf("zero movement (%dd)", row.DaysDormant))))
	}
	s.WriteString("  " + emeraldStyle.Render("s") + dimStyle.Render(" draft a clearance strategy with the assistant") + "\n\n")

	// One-year projection
	s.WriteString(sectionTitleStyle.Render("Strategic Projection — 1 Year Horizon") + "\n")
	s.WriteString(renderBarChart(downsample(data.Chart, 12), m.width))
	s.WriteString("\n")

	// Action list from the stock alerts
	actions := pendingActions(data.StockAlerts)
	s.WriteString(sectionTitleStyle.Render(fmt.Sprintf("Action List — %d pending", len(actions))) + "\n")
	if len(actions) == 0 {
		s.WriteString(emeraldStyle.Render("  All operations nominal.") + dimStyle.Render(" No critical actions needed.") + "\n")
	}
	for _, alert := range actions {
		s.WriteString(renderAlertLine(alert) + "\n")
	}

	if data.LastUpdated != nil {
		s.WriteString("\n" + dimStyle.Render("last updated "+data.LastUpdated.Format(time.RFC822)) + "\n")
	}
	return s.String()
}

// pendingActions orders alerts critical-first and drops safe products,
// matching the command center's action list.
func pendingActions(alerts []models.StockAlert) []models.StockAlert {
	var critical, warning []models.StockAlert
	for _, alert := range alerts {
		switch alert.Status {
		case models.StatusCritical:
			critical = append(critical, alert)
		case models.StatusWarning:
			warning = append(warning, alert)
		}
	}
	return append(critical, warning...)
}
