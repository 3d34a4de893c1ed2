package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCommand creates the logout command
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the local session token",
		RunE:  runLogout,
	}
}

func runLogout(cmd *cobra.Command, args []string) error {
	app, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.tokens.Delete(); err != nil {
		return fmt.Errorf("failed to remove session token: %w", err)
	}
	fmt.Println("Signed out.")
	return nil
}
