package oauth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Revoker invalidates an access token at the provider.
type Revoker interface {
	Revoke(ctx context.Context, client *http.Client, creds Credentials, accessToken string) error
}

// FormRevoker posts the token to an RFC 7009 style endpoint.
type FormRevoker struct {
	URL string
	// SendClientCredentials adds client_id and client_secret to the form.
	SendClientCredentials bool
}

func (r *FormRevoker) Revoke(ctx context.Context, client *http.Client, creds Credentials, accessToken string) error {
	form := url.Values{}
	form.Set("token", accessToken)
	if r.SendClientCredentials {
		form.Set("client_id", creds.ClientID)
		form.Set("client_secret", creds.ClientSecret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create revoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return doRevoke(client, req)
}

// GraphPermissionsRevoker removes every granted permission through the Graph API.
type GraphPermissionsRevoker struct {
	URL string
}

func (r *GraphPermissionsRevoker) Revoke(ctx context.Context, client *http.Client, _ Credentials, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, r.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to create revoke request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	return doRevoke(client, req)
}

func doRevoke(client *http.Client, req *http.Request) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("failed to revoke token: status %d", resp.StatusCode)
	}
	return nil
}
