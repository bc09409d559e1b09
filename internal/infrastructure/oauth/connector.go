package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/pulseboard/pulseboard/internal/domain/connection"
	"github.com/pulseboard/pulseboard/internal/shared/biztime"
)

// Connector performs the authorization code flow against one platform.
type Connector struct {
	spec            ProviderSpec
	creds           Credentials
	config          *oauth2.Config
	httpClient      *http.Client
	exchangeTimeout time.Duration
	profileTimeout  time.Duration
	now             biztime.Clock
}

func (c *Connector) Platform() connection.Platform {
	return c.spec.Platform
}

// RedirectURL is the callback registered with the provider. Start and exchange use the same value.
func (c *Connector) RedirectURL() string {
	return c.config.RedirectURL
}

// RequireClientID fails when the client id variable is empty.
func (c *Connector) RequireClientID() error {
	if c.creds.ClientID == "" {
		return &MissingCredentialError{EnvName: ClientIDEnv(c.spec.Platform)}
	}
	return nil
}

// RequireCredentials fails when either the client id or the client secret is empty.
func (c *Connector) RequireCredentials() error {
	if err := c.RequireClientID(); err != nil {
		return err
	}
	if c.creds.ClientSecret == "" {
		return &MissingCredentialError{EnvName: ClientSecretEnv(c.spec.Platform)}
	}
	return nil
}

// AuthCodeURL builds the consent screen URL carrying state and the platform's extra parameters.
func (c *Connector) AuthCodeURL(state string) string {
	opts := make([]oauth2.AuthCodeOption, 0, len(c.spec.AuthParams))
	for key, value := range c.spec.AuthParams {
		opts = append(opts, oauth2.SetAuthURLParam(key, value))
	}
	return c.config.AuthCodeURL(state, opts...)
}

// Exchange trades an authorization code for tokens. It makes exactly one request.
func (c *Connector) Exchange(ctx context.Context, code string) (connection.TokenGrant, error) {
	ctx, cancel := context.WithTimeout(c.withClient(ctx), c.exchangeTimeout)
	defer cancel()

	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return connection.TokenGrant{}, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return grantFromToken(token, c.now()), nil
}

// Refresh redeems a stored refresh token for a new access token.
func (c *Connector) Refresh(ctx context.Context, refreshToken string) (connection.TokenGrant, error) {
	ctx, cancel := context.WithTimeout(c.withClient(ctx), c.exchangeTimeout)
	defer cancel()

	expired := &oauth2.Token{RefreshToken: refreshToken, Expiry: time.Unix(1, 0)}
	token, err := c.config.TokenSource(ctx, expired).Token()
	if err != nil {
		return connection.TokenGrant{}, fmt.Errorf("failed to refresh token: %w", err)
	}
	return grantFromToken(token, c.now()), nil
}

// FetchHandle asks the platform for a display name within the profile timeout.
func (c *Connector) FetchHandle(ctx context.Context, accessToken string) (string, error) {
	if c.spec.Profile == nil {
		return "", ErrEmptyHandle
	}
	ctx, cancel := context.WithTimeout(ctx, c.profileTimeout)
	defer cancel()

	return c.spec.Profile.FetchHandle(ctx, c.httpClient, accessToken)
}

// Revoke invalidates accessToken upstream, or returns ErrRevocationUnsupported.
func (c *Connector) Revoke(ctx context.Context, accessToken string) error {
	if c.spec.Revoker == nil {
		return ErrRevocationUnsupported
	}
	ctx, cancel := context.WithTimeout(ctx, c.exchangeTimeout)
	defer cancel()

	return c.spec.Revoker.Revoke(ctx, c.httpClient, c.creds, accessToken)
}

func (c *Connector) withClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

// grantFromToken converts expires_in relative to now so the stored expiry follows our clock.
func grantFromToken(token *oauth2.Token, now time.Time) connection.TokenGrant {
	grant := connection.TokenGrant{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    biztime.ExpiryFromSeconds(now, extraInt(token.Extra("expires_in"))),
		Scope:        extraScope(token.Extra("scope")),
	}
	if grant.ExpiresAt == nil && !token.Expiry.IsZero() {
		expiry := token.Expiry.UTC()
		grant.ExpiresAt = &expiry
	}
	return grant
}

func extraInt(v interface{}) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()
		return i
	case string:
		i, _ := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i
	default:
		return 0
	}
}

// extraScope accepts the space separated string most providers return, or a JSON array.
func extraScope(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case []interface{}:
		parts := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				parts = append(parts, str)
			}
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}
