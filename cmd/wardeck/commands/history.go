package commands

import (
	"context"
	"fmt"

	"github.com/gudangops/wardeck/pkg/models"
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history [item-id]",
		Short: "Show the activity timeline without the TUI",
		Long: `Show the recorded activity timeline in a non-interactive format.
Without arguments: lists all recorded forecast runs and consultations
With an item ID: shows the full detail for that record`,
		RunE: runHistory,
	}
}

func runHistory(cmd *cobra.Command, args []string) error {
	app, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer app.Close()

	switch len(args) {
	case 0:
		return showTimeline(cmd.Context(), app)
	case 1:
		return showHistoryItem(cmd.Context(), app, args[0])
	default:
		return fmt.Errorf("too many arguments. Usage: wardeck history [item-id]")
	}
}

func showTimeline(ctx context.Context, app *app) error {
	items, err := app.api.Timeline(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch timeline: %w", err)
	}

	if len(items) == 0 {
		fmt.Println("No history records found")
		return nil
	}

	fmt.Println("Activity timeline:")
	fmt.Println("==================")
	for i, item := range items {
		fmt.Printf("%d. [%s] %s\n", i+1, item.Kind, item.Title)
		fmt.Printf("   ID: %s\n", item.ID)
		fmt.Printf("   When: %s\n", item.Timestamp.Format("2006-01-02 15:04"))
		fmt.Printf("   Status: %s\n", item.Status)
		if item.Description != "" {
			fmt.Printf("   %s\n", item.Description)
		}
		fmt.Println()
	}

	stats, err := app.api.Stats(ctx)
	if err == nil {
		fmt.Printf("Totals: %d predictions, %d consultations, accuracy %s, response time %s\n",
			stats.TotalPredictions, stats.TotalConsultations, stats.AvgAccuracy, stats.ResponseTime)
	}
	return nil
}

func showHistoryItem(ctx context.Context, app *app, id string) error {
	// The timeline carries the kind; detail endpoints are per-kind.
	items, err := app.api.Timeline(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch timeline: %w", err)
	}

	var target *models.HistoryItem
	for i := range items {
		if items[i].ID == id {
			target = &items[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("history item '%s' not found", id)
	}

	fmt.Printf("%s (%s)\n", target.Title, target.Kind)
	fmt.Printf("Recorded: %s\n", target.Timestamp.Format("2006-01-02 15:04"))
	fmt.Println("==========================================")

	if target.Kind == models.HistoryChat {
		detail, err := app.api.ChatDetail(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to fetch consultation detail: %w", err)
		}
		fmt.Printf("\nQuestion:\n%s\n\nAnswer:\n%s\n", detail.Question, detail.Answer)
		return nil
	}

	detail, err := app.api.ForecastDetail(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch forecast detail: %w", err)
	}
	fmt.Printf("\nFilename: %s\n", detail.Filename)
	fmt.Printf("Recorded points: %d\n", len(detail.PlotData.Chart))
	for i, p := range detail.PlotData.Chart {
		if i >= 10 {
			fmt.Printf("... and %d more points\n", len(detail.PlotData.Chart)-10)
			break
		}
		fmt.Printf("  %s  %.1f\n", p.DS, p.Yhat)
	}
	return nil
}
