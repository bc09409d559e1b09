package constants

import "fmt"

// OAuthErrorCode represents OAuth error codes
type OAuthErrorCode string

const (
	// OAuth provider errors (from callback)
	OAuthErrorAccessDenied       OAuthErrorCode = "access_denied"
	OAuthErrorInvalidRequest     OAuthErrorCode = "invalid_request"
	OAuthErrorUnauthorizedClient OAuthErrorCode = "unauthorized_client"
	OAuthErrorServerError        OAuthErrorCode = "server_error"
	OAuthErrorInvalidScope       OAuthErrorCode = "invalid_scope"

	// Internal errors
	OAuthErrorUnknownPlatform     OAuthErrorCode = "unknown_platform"
	OAuthErrorMissingCode         OAuthErrorCode = "missing_code"
	OAuthErrorMissingState        OAuthErrorCode = "missing_state"
	OAuthErrorInvalidState        OAuthErrorCode = "invalid_state"
	OAuthErrorExpiredState        OAuthErrorCode = "expired_state"
	OAuthErrorMissingClientID     OAuthErrorCode = "missing_client_id"
	OAuthErrorMissingClientSecret OAuthErrorCode = "missing_client_secret"
	OAuthErrorExchangeFailed      OAuthErrorCode = "exchange_failed"
	OAuthErrorNotAuthenticated    OAuthErrorCode = "not_authenticated"
	OAuthErrorPersistFailed       OAuthErrorCode = "persist_failed"
	OAuthErrorRefreshFailed       OAuthErrorCode = "refresh_failed"
	OAuthErrorNoRefreshToken      OAuthErrorCode = "no_refresh_token"
	OAuthErrorNotConnected        OAuthErrorCode = "not_connected"
)

// OAuthErrorMessages maps error codes to user-friendly messages
var OAuthErrorMessages = map[OAuthErrorCode]string{
	OAuthErrorAccessDenied:       "You declined the authorization request.",
	OAuthErrorInvalidRequest:     "The provider rejected the authorization request.",
	OAuthErrorUnauthorizedClient: "This application is not authorized with the provider. Please contact support.",
	OAuthErrorServerError:        "The provider encountered an error. Please try again later.",
	OAuthErrorInvalidScope:       "The requested permissions are not available for this account.",

	OAuthErrorUnknownPlatform:  "Unsupported platform.",
	OAuthErrorMissingCode:      "Authorization code is missing. Please try connecting again.",
	OAuthErrorMissingState:     "Security token is missing. Please try connecting again.",
	OAuthErrorInvalidState:     "Security check failed: the state token did not match. Please try connecting again.",
	OAuthErrorExpiredState:     "Your connection attempt expired or was already used. Please try connecting again.",
	OAuthErrorExchangeFailed:   "Token exchange failed.",
	OAuthErrorNotAuthenticated: "Not authenticated.",
	OAuthErrorPersistFailed:    "Failed to save connection.",
	OAuthErrorRefreshFailed:    "Token refresh failed.",
	OAuthErrorNoRefreshToken:   "This connection has no refresh token. Please reconnect.",
	OAuthErrorNotConnected:     "This platform is not connected. Please connect it first.",
}

// GetOAuthErrorMessage returns a user-friendly error message
func GetOAuthErrorMessage(code OAuthErrorCode) string {
	if msg, ok := OAuthErrorMessages[code]; ok {
		return msg
	}
	return "An unexpected error occurred while connecting. Please try again."
}

// MissingConfigMessage names the absent variable without revealing any value.
func MissingConfigMessage(envName string) string {
	return fmt.Sprintf("Server configuration error: %s is not set.", envName)
}

// WithDetail appends provider or storage detail to the message for code.
func WithDetail(code OAuthErrorCode, detail string) string {
	msg := GetOAuthErrorMessage(code)
	if detail == "" {
		return msg
	}
	return msg + " " + detail
}
