// Package oauth wraps the Google OpenID Connect login flow used for
// federated authentication.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"fittrack/internal/config"
)

const userInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// UserInfo is the subset of OpenID claims the identity service needs.
type UserInfo struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Provider abstracts the redirect dance so handlers can be tested without
// talking to Google.
type Provider interface {
	// AuthURL returns the authorization URL the browser is sent to.
	AuthURL(state string) string
	// Exchange trades the callback code for the user's identity claims.
	Exchange(ctx context.Context, code string) (*UserInfo, error)
}

type googleProvider struct {
	cfg *oauth2.Config
}

// NewGoogleProvider builds a Provider from the OAuth client credentials.
func NewGoogleProvider(cfg config.OAuthConfig) Provider {
	return &googleProvider{
		cfg: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (p *googleProvider) AuthURL(state string) string {
	return p.cfg.AuthCodeURL(state)
}

func (p *googleProvider) Exchange(ctx context.Context, code string) (*UserInfo, error) {
	tok, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	resp, err := p.cfg.Client(ctx, tok).Get(userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch userinfo: unexpected status %d", resp.StatusCode)
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if info.Sub == "" {
		return nil, fmt.Errorf("userinfo missing subject")
	}
	return &info, nil
}
