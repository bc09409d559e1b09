package connection

import "errors"

var (
	ErrUnknownPlatform    = errors.New("unknown platform")
	ErrUserIDRequired     = errors.New("user id is required")
	ErrAccessTokenMissing = errors.New("access token is required")
	ErrNotConnected       = errors.New("platform is not connected")
)
