// Package googleauth turns a stored Google OAuth token into an HTTP client
// and reports refreshed tokens back to the caller.
package googleauth

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/itsprade/good-morning/pkg/logger"
)

// TokenUpdateFunc is called with a token after the oauth2 library refreshed it.
type TokenUpdateFunc func(*oauth2.Token) error

// Credentials is what the credential provider hands to the Google clients.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
	OnRefresh    TokenUpdateFunc
}

type Client struct {
	config *oauth2.Config
}

func NewClient(clientID, clientSecret string) *Client {
	return &Client{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
		},
	}
}

type notifyTokenSource struct {
	mu       sync.Mutex
	src      oauth2.TokenSource
	current  string
	callback TokenUpdateFunc
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.callback != nil && s.current != t.AccessToken {
		s.current = t.AccessToken
		if err := s.callback(t); err != nil {
			logger.Named("googleauth").Warn("failed to persist refreshed token", zap.Error(err))
		}
	}
	return t, nil
}

// HTTPClient returns a client authorized with creds. A token without a known
// expiry is refreshed on first use when a refresh token is available.
func (c *Client) HTTPClient(ctx context.Context, creds Credentials) *http.Client {
	token := &oauth2.Token{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       creds.Expiry,
	}
	if creds.RefreshToken != "" && token.Expiry.IsZero() {
		token.Expiry = time.Now()
	}

	src := &notifyTokenSource{
		src:      c.config.TokenSource(ctx, token),
		current:  creds.AccessToken,
		callback: creds.OnRefresh,
	}
	return oauth2.NewClient(ctx, src)
}
