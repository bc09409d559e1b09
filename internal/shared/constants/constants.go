package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"

	// Query parameters on the connections page
	QueryConnected = "connected"
	QueryError     = "error"

	// StateCookiePrefix is followed by the platform id.
	StateCookiePrefix = "oauth_state_"
)
