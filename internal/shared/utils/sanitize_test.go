package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeMessage(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Code was already redeemed.", "Code was already redeemed."},
		{"apostrophe survives", "User didn't grant access", "User didn't grant access"},
		{"tags removed", `<script>alert(1)</script>Bad <b>code</b>`, "Bad code"},
		{"encoded tags stripped", "&lt;img src=x&gt;oops", "img src=xoops"},
		{"whitespace collapsed", "  too \n many\tspaces ", "too many spaces"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeMessage(tt.in))
		})
	}
}

func TestSanitizeMessage_Truncates(t *testing.T) {
	out := SanitizeMessage(strings.Repeat("a", 500))
	assert.Equal(t, maxMessageLength+3, len(out))
	assert.True(t, strings.HasSuffix(out, "..."))
}
