package oauth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
)

var (
	ErrRevocationUnsupported = errors.New("provider does not support token revocation")
	ErrEmptyHandle           = errors.New("profile response has no usable name")
)

// MissingCredentialError names the absent variable. It never carries a value.
type MissingCredentialError struct {
	EnvName string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("%s is not configured", e.EnvName)
}

// ProviderErrorDescription extracts a user presentable reason from a token endpoint failure.
// It returns an empty string when the failure carries nothing worth showing.
func ProviderErrorDescription(err error) string {
	if err == nil {
		return ""
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		if retrieveErr.ErrorDescription != "" {
			return retrieveErr.ErrorDescription
		}
		if retrieveErr.ErrorCode != "" {
			return retrieveErr.ErrorCode
		}
		if retrieveErr.Response != nil {
			return fmt.Sprintf("provider returned status %d", retrieveErr.Response.StatusCode)
		}
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "the provider did not respond in time"
	}
	if strings.Contains(err.Error(), "missing access_token") {
		return "the provider response did not include an access token"
	}
	return ""
}

// IsInvalidGrant reports whether the provider rejected a refresh token.
func IsInvalidGrant(err error) bool {
	var retrieveErr *oauth2.RetrieveError
	return errors.As(err, &retrieveErr) && retrieveErr.ErrorCode == "invalid_grant"
}
