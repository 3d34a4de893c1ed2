package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/gudangops/wardeck/internal/session"
	"github.com/spf13/cobra"
)

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in to the warehouse backend",
		Long: `Sign in using the out-of-band OAuth flow: open the printed URL in a
browser, authorize, and paste the code back here. The session token is
stored locally and the dashboard picks it up automatically.`,
		RunE: runLogin,
	}
}

func runLogin(cmd *cobra.Command, args []string) error {
	app, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer app.Close()

	oauth := session.OAuthConfig(app.cfg.Auth.URL, app.cfg.Auth.ClientID)

	fmt.Println("Open this URL in your browser and authorize wardeck:")
	fmt.Println()
	fmt.Println("  " + oauth.AuthCodeURL(""))
	fmt.Println()
	fmt.Print("Paste the authorization code: ")

	reader := bufio.NewReader(os.Stdin)
	code, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read authorization code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("no authorization code provided")
	}

	if err := session.Exchange(cmd.Context(), oauth, app.tokens, code); err != nil {
		return err
	}

	snap := app.session.Resolve(cmd.Context())
	if snap.User == nil {
		return fmt.Errorf("signed in, but the session could not be verified; try again")
	}
	fmt.Printf("Signed in as %s.\n", snap.User.Name)
	return nil
}
