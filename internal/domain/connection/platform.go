package connection

import (
	"fmt"
	"strings"
)

// Platform identifies an external social network.
type Platform string

const (
	Instagram Platform = "instagram"
	Facebook  Platform = "facebook"
	LinkedIn  Platform = "linkedin"
	YouTube   Platform = "youtube"
)

var supportedPlatforms = []Platform{Instagram, Facebook, LinkedIn, YouTube}

// Platforms returns every supported platform in display order.
func Platforms() []Platform {
	out := make([]Platform, len(supportedPlatforms))
	copy(out, supportedPlatforms)
	return out
}

// ParsePlatform validates a path parameter against the supported set.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(s)
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, s)
	}
	return p, nil
}

func (p Platform) IsValid() bool {
	for _, supported := range supportedPlatforms {
		if p == supported {
			return true
		}
	}
	return false
}

func (p Platform) String() string {
	return string(p)
}

// EnvPrefix is the prefix of the platform's credential variables, e.g. LINKEDIN.
func (p Platform) EnvPrefix() string {
	return strings.ToUpper(string(p))
}

// FallbackHandle is stored when the profile lookup fails.
func (p Platform) FallbackHandle() string {
	return "@" + string(p) + "_user"
}

// Display is the presentation metadata stored with a connection row.
type Display struct {
	Name        string
	Color       string
	IconName    string
	Description string
}

var defaultDisplays = map[Platform]Display{
	Instagram: {
		Name:        "Instagram",
		Color:       "#E4405F",
		IconName:    "instagram",
		Description: "Share photos, reels and stories with your followers",
	},
	Facebook: {
		Name:        "Facebook",
		Color:       "#1877F2",
		IconName:    "facebook",
		Description: "Publish posts to your Facebook pages",
	},
	LinkedIn: {
		Name:        "LinkedIn",
		Color:       "#0A66C2",
		IconName:    "linkedin",
		Description: "Reach your professional network",
	},
	YouTube: {
		Name:        "YouTube",
		Color:       "#FF0000",
		IconName:    "youtube",
		Description: "Manage your channel and video analytics",
	},
}

// DefaultDisplay returns the metadata written when a platform is connected for the first time.
func (p Platform) DefaultDisplay() Display {
	return defaultDisplays[p]
}
