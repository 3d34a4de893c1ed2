package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/gudangops/wardeck/pkg/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Export the activity timeline to a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
}

// exportDocument is the on-disk shape of an export.
type exportDocument struct {
	ExportedAt time.Time            `yaml:"exported_at"`
	Stats      *models.HistoryStats `yaml:"stats,omitempty"`
	Items      []models.HistoryItem `yaml:"items"`
}

func runExport(cmd *cobra.Command, args []string) error {
	app, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	items, err := app.api.Timeline(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch timeline: %w", err)
	}

	doc := exportDocument{ExportedAt: time.Now(), Items: items}
	// Stats are nice to have; the export still succeeds without them.
	if stats, err := app.api.Stats(ctx); err == nil {
		doc.Stats = stats
	}

	raw, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize export: %w", err)
	}
	if err := os.WriteFile(args[0], raw, 0o644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	fmt.Printf("Exported %d records to %s\n", len(items), args[0])
	return nil
}
