// Package identity talks to the OAuth provider that vouches for sign-ins.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"vpcs-backend/internal/config"
	"vpcs-backend/internal/core/domain"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

var ErrUnverifiedEmail = errors.New("email address is not verified")

// GoogleProvider runs the authorization code flow against Google
type GoogleProvider struct {
	conf        *oauth2.Config
	userInfoURL string
}

// NewGoogleProvider creates a provider from the OAuth config
func NewGoogleProvider(cfg config.OAuthConfig) *GoogleProvider {
	return newProvider(&oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}, googleUserInfoURL)
}

func newProvider(conf *oauth2.Config, userInfoURL string) *GoogleProvider {
	return &GoogleProvider{conf: conf, userInfoURL: userInfoURL}
}

// AuthCodeURL returns the consent page URL carrying state
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Exchange trades the authorization code for the account identity
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*domain.Identity, error) {
	token, err := p.conf.Exchange(ctx, code)
	if err != nil {
		config.LogError(config.GetLogger(), "identity", "Exchange", "Error exchanging code", nil, err)
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.conf.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info returned status %d", resp.StatusCode)
	}

	var id domain.Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	if !id.EmailVerified {
		return nil, ErrUnverifiedEmail
	}
	id.Email = strings.ToLower(strings.TrimSpace(id.Email))

	return &id, nil
}
