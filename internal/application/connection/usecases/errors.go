package usecases

import (
	"errors"
	"strings"

	"github.com/pulseboard/pulseboard/internal/domain/connection"
	"github.com/pulseboard/pulseboard/internal/infrastructure/oauth"
	"github.com/pulseboard/pulseboard/internal/shared/constants"
	apperrors "github.com/pulseboard/pulseboard/internal/shared/errors"
	"github.com/pulseboard/pulseboard/internal/shared/utils"
)

const outcomeConnected = "connected"

const reasonProviderError = "provider_error"

func protocolError(code constants.OAuthErrorCode) *apperrors.ConnectionError {
	return apperrors.NewProtocolError(string(code), constants.GetOAuthErrorMessage(code))
}

// credentialError maps a missing client id or secret to a configuration error naming the variable.
func credentialError(err error) *apperrors.ConnectionError {
	var missing *oauth.MissingCredentialError
	if !errors.As(err, &missing) {
		return apperrors.NewConfigurationError(
			string(constants.OAuthErrorMissingClientID),
			constants.GetOAuthErrorMessage(constants.OAuthErrorMissingClientID),
		)
	}

	code := constants.OAuthErrorMissingClientID
	if strings.HasSuffix(missing.EnvName, "_CLIENT_SECRET") {
		code = constants.OAuthErrorMissingClientSecret
	}
	return apperrors.NewConfigurationError(string(code), constants.MissingConfigMessage(missing.EnvName))
}

// providerCallbackError describes an error=... redirect from the provider.
func providerCallbackError(code, description string) *apperrors.ConnectionError {
	if _, known := constants.OAuthErrorMessages[constants.OAuthErrorCode(code)]; known {
		return protocolError(constants.OAuthErrorCode(code))
	}

	detail := utils.SanitizeMessage(description)
	if detail == "" {
		detail = utils.SanitizeMessage(code)
	}
	return apperrors.NewProtocolError(reasonProviderError, "The provider returned an error: "+detail)
}

func exchangeError(err error) *apperrors.ConnectionError {
	return apperrors.NewProviderError(
		string(constants.OAuthErrorExchangeFailed),
		constants.WithDetail(constants.OAuthErrorExchangeFailed, utils.SanitizeMessage(oauth.ProviderErrorDescription(err))),
	)
}

func refreshError(err error) *apperrors.ConnectionError {
	return apperrors.NewProviderError(
		string(constants.OAuthErrorRefreshFailed),
		constants.WithDetail(constants.OAuthErrorRefreshFailed, utils.SanitizeMessage(oauth.ProviderErrorDescription(err))),
	)
}

func persistError(err error) *apperrors.ConnectionError {
	return apperrors.NewPersistenceError(
		string(constants.OAuthErrorPersistFailed),
		constants.WithDetail(constants.OAuthErrorPersistFailed, utils.SanitizeMessage(err.Error())),
	)
}

func notAuthenticatedError() *apperrors.ConnectionError {
	return apperrors.NewAuthenticationError(
		string(constants.OAuthErrorNotAuthenticated),
		constants.GetOAuthErrorMessage(constants.OAuthErrorNotAuthenticated),
	)
}

func parsePlatform(raw string) (connection.Platform, error) {
	p, err := connection.ParsePlatform(raw)
	if err != nil {
		return "", protocolError(constants.OAuthErrorUnknownPlatform)
	}
	return p, nil
}

// outcomeOf is the metrics label for err.
func outcomeOf(err error) string {
	if connErr := apperrors.GetConnectionError(err); connErr != nil {
		return connErr.Reason
	}
	return "error"
}

// platformLabel bounds metric label values to the supported platforms.
func platformLabel(raw string) string {
	if connection.Platform(raw).IsValid() {
		return raw
	}
	return "unknown"
}
