// Package oauth wraps the Google authorization-code flow: building the
// consent URL, exchanging the code, and fetching the user's profile.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Profile is the subset of the Google userinfo response the account
// layer needs.
type Profile struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Provider verifies authorization codes against Google and returns the
// asserted identity.
type Provider interface {
	AuthURL() string
	Exchange(ctx context.Context, code string) (*Profile, error)
}

const userinfoEndpoint = "https://www.googleapis.com/oauth2/v3/userinfo"

type GoogleProvider struct {
	config      *oauth2.Config
	userinfoURL string
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
		},
		userinfoURL: userinfoEndpoint,
	}
}

func (p *GoogleProvider) AuthURL() string {
	return p.config.AuthCodeURL("", oauth2.AccessTypeOffline)
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*Profile, error) {

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange error: %w", err)
	}

	client := p.config.Client(ctx, token)
	resp, err := client.Get(p.userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("userinfo request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request failed: status %d", resp.StatusCode)
	}

	profile := &Profile{}
	if err := json.NewDecoder(resp.Body).Decode(profile); err != nil {
		return nil, fmt.Errorf("userinfo decode error: %w", err)
	}

	if profile.Email == "" {
		return nil, fmt.Errorf("userinfo response missing email")
	}

	return profile, nil
}
