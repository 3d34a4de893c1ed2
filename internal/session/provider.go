package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gudangops/wardeck/internal/store"
	"github.com/gudangops/wardeck/pkg/models"
	"golang.org/x/oauth2"
)

// HTTPProvider resolves the session against the auth service using the
// locally stored bearer token. No token means signed out.
type HTTPProvider struct {
	authURL    string
	tokens     *TokenStore
	httpClient *http.Client
}

func NewHTTPProvider(authURL string, tokens *TokenStore) *HTTPProvider {
	return &HTTPProvider{
		authURL:    strings.TrimRight(authURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{},
	}
}

// authUser is the provider's wire shape for the signed-in identity.
type authUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Metadata struct {
		FullName  string `json:"full_name"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
		Picture   string `json:"picture"`
	} `json:"user_metadata"`
}

func (p *HTTPProvider) CurrentUser(ctx context.Context) (*models.User, error) {
	token, err := p.tokens.Load()
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.authURL+"/user", nil)
	if err != nil {
		return nil, err
	}
	token.SetAuthHeader(req)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// An expired or revoked token is simply a signed-out session.
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth provider returned status %d", resp.StatusCode)
	}

	var wire authUser
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("failed to decode auth user: %w", err)
	}
	return mapUser(wire), nil
}

func mapUser(wire authUser) *models.User {
	name := wire.Metadata.FullName
	if name == "" {
		name = wire.Metadata.Name
	}
	if name == "" && wire.Email != "" {
		name = strings.SplitN(wire.Email, "@", 2)[0]
	}
	if name == "" {
		name = "User"
	}
	avatar := wire.Metadata.AvatarURL
	if avatar == "" {
		avatar = wire.Metadata.Picture
	}
	return &models.User{ID: wire.ID, Name: name, AvatarURL: avatar}
}

// TokenStore persists the OAuth token in the shared key-value store.
type TokenStore struct {
	store store.Store
}

func NewTokenStore(s store.Store) *TokenStore {
	return &TokenStore{store: s}
}

func (t *TokenStore) Load() (*oauth2.Token, error) {
	raw, ok, err := t.store.Get(store.KeySession)
	if err != nil || !ok {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal(raw, &token); err != nil {
		// Corrupt token record is treated as signed out.
		return nil, nil
	}
	return &token, nil
}

func (t *TokenStore) Save(token *oauth2.Token) error {
	raw, err := json.Marshal(token)
	if err != nil {
		return err
	}
	return t.store.Set(store.KeySession, raw)
}

func (t *TokenStore) Delete() error {
	return t.store.Delete(store.KeySession)
}
