package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pulseboard/pulseboard/internal/shared/config"
	"github.com/pulseboard/pulseboard/internal/shared/constants"
)

// StateCookieName returns the CSRF state cookie name for a platform.
func StateCookieName(platform string) string {
	return constants.StateCookiePrefix + platform
}

// StateCookiePath scopes the state cookie to the platform's OAuth routes.
func StateCookiePath(platform string) string {
	return "/api/oauth/" + platform
}

// SetStateCookie stores the OAuth state as an HttpOnly cookie.
func SetStateCookie(c *gin.Context, cookieConfig config.CookieConfig, secure bool, platform, state string, maxAge int) {
	c.SetSameSite(parseSameSite(cookieConfig.SameSite))
	c.SetCookie(
		StateCookieName(platform),
		state,
		maxAge,
		StateCookiePath(platform),
		cookieConfig.Domain,
		secure || cookieConfig.Secure,
		true, // HttpOnly
	)
}

// ClearStateCookie expires the OAuth state cookie.
func ClearStateCookie(c *gin.Context, cookieConfig config.CookieConfig, secure bool, platform string) {
	c.SetSameSite(parseSameSite(cookieConfig.SameSite))
	c.SetCookie(
		StateCookieName(platform),
		"",
		-1,
		StateCookiePath(platform),
		cookieConfig.Domain,
		secure || cookieConfig.Secure,
		true, // HttpOnly
	)
}

// GetTokenFromCookie returns the cookie value or an empty string.
func GetTokenFromCookie(c *gin.Context, cookieName string) string {
	token, err := c.Cookie(cookieName)
	if err == nil && token != "" {
		return token
	}
	return ""
}

// parseSameSite converts string to http.SameSite
func parseSameSite(sameSite string) http.SameSite {
	switch sameSite {
	case "Strict":
		return http.SameSiteStrictMode
	case "None":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
