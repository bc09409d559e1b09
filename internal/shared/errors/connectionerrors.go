package errors

import (
	stderrors "errors"
	"net/http"
)

// ErrorKind classifies a connection flow failure.
type ErrorKind string

const (
	KindConfiguration  ErrorKind = "configuration"
	KindProtocol       ErrorKind = "protocol"
	KindAuthentication ErrorKind = "authentication"
	KindUpstream       ErrorKind = "upstream"
	KindPersistence    ErrorKind = "persistence"
)

// ConnectionError is returned by the OAuth connection flow. Message is safe to show to the user.
type ConnectionError struct {
	*AppError
	Kind ErrorKind
	// Reason is the machine readable code, e.g. "invalid_state".
	Reason string
}

func (e *ConnectionError) Error() string {
	return e.AppError.Error()
}

func (e *ConnectionError) Unwrap() error {
	return e.AppError
}

func newConnectionError(kind ErrorKind, t ErrorType, code int, reason, message string) *ConnectionError {
	return &ConnectionError{
		AppError: &AppError{
			Type:    t,
			Message: message,
			Code:    code,
		},
		Kind:   kind,
		Reason: reason,
	}
}

// NewConfigurationError reports a missing or unknown server side setting.
func NewConfigurationError(reason, message string) *ConnectionError {
	return newConnectionError(KindConfiguration, ErrorTypeInternal, http.StatusInternalServerError, reason, message)
}

// NewProtocolError reports an invalid or forged provider response.
func NewProtocolError(reason, message string) *ConnectionError {
	return newConnectionError(KindProtocol, ErrorTypeBadRequest, http.StatusBadRequest, reason, message)
}

func NewAuthenticationError(reason, message string) *ConnectionError {
	return newConnectionError(KindAuthentication, ErrorTypeUnauthorized, http.StatusUnauthorized, reason, message)
}

// NewProviderError reports a failed token endpoint or revocation call.
func NewProviderError(reason, message string) *ConnectionError {
	return newConnectionError(KindUpstream, ErrorTypeUpstream, http.StatusBadGateway, reason, message)
}

func NewPersistenceError(reason, message string) *ConnectionError {
	return newConnectionError(KindPersistence, ErrorTypeInternal, http.StatusInternalServerError, reason, message)
}

// GetConnectionError extracts a ConnectionError from err.
func GetConnectionError(err error) *ConnectionError {
	var connErr *ConnectionError
	if stderrors.As(err, &connErr) {
		return connErr
	}
	return nil
}
