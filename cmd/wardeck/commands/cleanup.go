package commands

import (
	"fmt"
	"time"

	"github.com/gudangops/wardeck/internal/state"
	"github.com/spf13/cobra"
)

var cleanupForce bool

// NewCleanupCommand creates the cleanup command
func NewCleanupCommand() *cobra.Command {
	cleanupCmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Purge stale local data",
		Long: `Run the local maintenance purge: the cached forecast result is
removed and chat turns older than one year are dropped. Without --force
the purge only runs when it is due (every 30 days).`,
		RunE: runCleanup,
	}
	cleanupCmd.Flags().BoolVar(&cleanupForce, "force", false, "Run the purge even if it is not due yet")
	return cleanupCmd
}

func runCleanup(cmd *cobra.Command, args []string) error {
	app, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer app.Close()

	chat := state.NewChat(app.store, app.logger)
	maintenance := state.NewMaintenance(app.store, chat, app.logger)

	now := time.Now()
	if !cleanupForce && !maintenance.Check(now) {
		fmt.Println("Cleanup not due yet. Use --force to run anyway.")
		return nil
	}

	maintenance.Run(now)
	fmt.Println("Cleanup complete: forecast cache purged, chat history trimmed to one year.")
	return nil
}
