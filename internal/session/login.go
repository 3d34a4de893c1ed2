package session

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// OAuthConfig builds the code-exchange configuration for the auth
// provider. The CLI cannot receive a browser redirect, so it uses the
// out-of-band flow: the user opens the URL, signs in, and pastes the
// code back.
func OAuthConfig(authURL, clientID string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:    clientID,
		RedirectURL: "urn:ietf:wg:oauth:2.0:oob",
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL + "/authorize",
			TokenURL: authURL + "/token",
		},
	}
}

// Exchange trades an authorization code for a token and persists it.
func Exchange(ctx context.Context, cfg *oauth2.Config, tokens *TokenStore, code string) error {
	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("code exchange failed: %w", err)
	}
	if err := tokens.Save(token); err != nil {
		return fmt.Errorf("failed to persist session token: %w", err)
	}
	return nil
}
