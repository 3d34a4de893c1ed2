package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m model) handleForecasterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	data := m.deps.Forecast.Data()

	if data.HasData {
		if msg.String() == "r" {
			// Reset clears the view; the run itself stays recorded in
			// History server-side.
			m.deps.Forecast.Reset()
			m.pickerInit = true
			return m, m.csvPicker.Init()
		}
		return m, nil
	}

	if m.uploading {
		return m, nil
	}

	var cmd tea.Cmd
	m.csvPicker, cmd = m.csvPicker.Update(msg)
	if ok, path := m.csvPicker.DidSelectFile(msg); ok {
		m.uploading = true
		return m, tea.Batch(cmd, uploadForecastCmd(m.ctx, m.deps.API, path))
	}
	return m, cmd
}

func (m model) renderForecaster() string {
	data := m.deps.Forecast.Data()
	var s strings.Builder

	s.WriteString(sectionTitleStyle.Render("Intelligence Engine") + "\n")
	s.WriteString(dimStyle.Render("Supply Chain Decision Support System") + "\n\n")

	if m.uploading {
		s.WriteString("  " + m.loading.View() + "\n")
		s.WriteString(dimStyle.Render("  Decomposing sales data... historical analysis • stock velocity • forecasting") + "\n")
		return s.String()
	}

	if !data.HasData {
		s.WriteString("  Select a sales CSV to analyze (auto-detected columns:\n")
		s.WriteString(dimStyle.Render("  date/tanggal, sales/qty/terjual, product/nama/item, stock/sisa/stok") + ")\n\n")
		s.WriteString(m.csvPicker.View())
		return s.String()
	}

	s.WriteString(sectionTitleStyle.Render("Market Trajectory — 1 Year") + "\n")
	s.WriteString(renderBarChart(downsample(data.Chart, 12), m.width))
	s.WriteString("\n")

	s.WriteString(sectionTitleStyle.Render("Top Performers") + "\n")
	if len(data.BestSellers) == 0 {
		s.WriteString(dimStyle.Render("  no product data") + "\n")
	}
	top := data.BestSellers
	if len(top) > 8 {
		top = top[:8]
	}
	maxQty := 1
	for _, b := range top {
		if b.Qty > maxQty {
			maxQty = b.Qty
		}
	}
	for i, b := range top {
		bar := strings.Repeat("█", scaleTo(b.Qty, maxQty, 20))
		style := dimStyle
		if i < 3 {
			style = emeraldStyle
		}
		s.WriteString(fmt.Sprintf("  %-24s %s %d\n", truncate(b.Name, 24), style.Render(bar), b.Qty))
	}
	s.WriteString("\n")

	s.WriteString(sectionTitleStyle.Render("Stock Velocity Analysis") + "\n")
	if len(data.StockAlerts) == 0 {
		s.WriteString(dimStyle.Render("  No stock data available in the CSV. Include product and stock columns.") + "\n")
	}
	for _, alert := range data.StockAlerts {
		s.WriteString(renderAlertLine(alert) + "\n")
	}

	return s.String()
}

func scaleTo(value, max, width int) int {
	if max <= 0 || value <= 0 {
		return 0
	}
	scaled := value * width / max
	if scaled < 1 {
		return 1
	}
	return scaled
}
