package utils

// MaskToken keeps the last four characters of a credential.
// Example: "EAAGm0PX4ZCpsBA" -> "***psBA"
func MaskToken(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return "***" + token[len(token)-4:]
}
