package commands

import (
	"fmt"
	"os"

	"github.com/gudangops/wardeck/internal/tui"
	"github.com/spf13/cobra"
)

var (
	configPath string
	startPage  string
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wardeck",
		Short: "Terminal command center for warehouse forecasting and SOP consultation",
		Long: `wardeck is a terminal dashboard for the warehouse intelligence backend:
demand forecasting from sales CSVs, an SOP document assistant, and the
strategic activity history, all behind a signed-in session.`,
		RunE: runDashboard,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: user config dir)")
	rootCmd.Flags().StringVar(&startPage, "page", "home", "Start page: home, forecaster, assistant, history")
	rootCmd.AddCommand(NewLoginCommand())
	rootCmd.AddCommand(NewLogoutCommand())
	rootCmd.AddCommand(NewHistoryCommand())
	rootCmd.AddCommand(NewExportCommand())
	rootCmd.AddCommand(NewCleanupCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runDashboard(cmd *cobra.Command, args []string) error {
	app, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer app.Close()

	return tui.Run(cmd.Context(), app.Deps(), startPage)
}
