package utils

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const maxMessageLength = 300

var strictPolicy = bluemonday.StrictPolicy()

var angleStripper = strings.NewReplacer("<", "", ">", "")

// SanitizeMessage turns untrusted provider or storage text into plain text fit for a redirect URL.
func SanitizeMessage(s string) string {
	text := html.UnescapeString(strictPolicy.Sanitize(s))
	text = angleStripper.Replace(text)
	text = strings.Join(strings.Fields(text), " ")

	if utf8.RuneCountInString(text) > maxMessageLength {
		runes := []rune(text)
		text = string(runes[:maxMessageLength]) + "..."
	}
	return text
}
