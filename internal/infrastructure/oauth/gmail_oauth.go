package oauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flightlog-service/pkg/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
)

// ErrMissingCredentials is returned when client ID, secret or refresh token is empty
var ErrMissingCredentials = errors.New("gmail oauth credentials are not configured")

// GmailOAuth handles read-only OAuth access to a Gmail mailbox
type GmailOAuth struct {
	config       *oauth2.Config
	refreshToken string
	logger       logger.Logger
}

// NewGmailOAuth creates a new Gmail OAuth handler
func NewGmailOAuth(clientID, clientSecret, refreshToken, redirectURL string, logger logger.Logger) *GmailOAuth {
	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gmail.GmailReadonlyScope},
	}

	return &GmailOAuth{
		config:       config,
		refreshToken: refreshToken,
		logger:       logger,
	}
}

// Validate reports whether a token source can be built
func (o *GmailOAuth) Validate() error {
	if o.config.ClientID == "" || o.config.ClientSecret == "" || o.refreshToken == "" {
		return ErrMissingCredentials
	}
	return nil
}

// GetTokenSource returns a token source that refreshes from the stored refresh token
func (o *GmailOAuth) GetTokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	token := &oauth2.Token{
		RefreshToken: o.refreshToken,
		Expiry:       time.Now(), // Force refresh
	}

	return o.config.TokenSource(ctx, token), nil
}

// GenerateAuthURL generates a URL for the user to authorize the application
func (o *GmailOAuth) GenerateAuthURL(state string) string {
	return o.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// ExchangeCode exchanges an authorization code for a token
func (o *GmailOAuth) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := o.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	if token.RefreshToken == "" {
		o.logger.Warn("No refresh token returned; revoke access and authorize again")
	}

	return token, nil
}
