package oauth

import (
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/instagram"
	"golang.org/x/oauth2/linkedin"
	"google.golang.org/api/youtube/v3"

	"github.com/pulseboard/pulseboard/internal/domain/connection"
)

const graphAPIVersion = "v19.0"

// ProviderSpec is the static configuration of one platform's authorization server.
type ProviderSpec struct {
	Platform connection.Platform
	Endpoint oauth2.Endpoint
	Scopes   []string
	// ScopeSeparator joins Scopes into the single scope parameter.
	ScopeSeparator string
	// AuthParams are extra authorization URL parameters, e.g. offline access.
	AuthParams map[string]string
	Profile    ProfileFetcher
	// Revoker is nil for providers without a revocation endpoint.
	Revoker Revoker
}

func (s ProviderSpec) scopeParam() []string {
	if len(s.Scopes) == 0 {
		return nil
	}
	sep := s.ScopeSeparator
	if sep == "" {
		sep = " "
	}
	return []string{strings.Join(s.Scopes, sep)}
}

// withParamsStyle sends client_id and client_secret in the token request body.
func withParamsStyle(e oauth2.Endpoint) oauth2.Endpoint {
	e.AuthStyle = oauth2.AuthStyleInParams
	return e
}

// DefaultProviderSpecs returns the production configuration for every supported platform.
func DefaultProviderSpecs() map[connection.Platform]ProviderSpec {
	graphBase := "https://graph.facebook.com/" + graphAPIVersion

	return map[connection.Platform]ProviderSpec{
		connection.Instagram: {
			Platform: connection.Instagram,
			Endpoint: withParamsStyle(instagram.Endpoint),
			Scopes: []string{
				"instagram_business_basic",
				"instagram_business_content_publish",
			},
			ScopeSeparator: ",",
			Profile:        &InstagramProfileFetcher{URL: "https://graph.instagram.com/me"},
		},
		connection.Facebook: {
			Platform: connection.Facebook,
			Endpoint: withParamsStyle(oauth2.Endpoint{
				AuthURL:  "https://www.facebook.com/" + graphAPIVersion + "/dialog/oauth",
				TokenURL: graphBase + "/oauth/access_token",
			}),
			Scopes: []string{
				"public_profile",
				"pages_show_list",
				"pages_read_engagement",
				"pages_manage_posts",
			},
			ScopeSeparator: ",",
			Profile:        &FacebookProfileFetcher{URL: graphBase + "/me"},
			Revoker:        &GraphPermissionsRevoker{URL: graphBase + "/me/permissions"},
		},
		connection.LinkedIn: {
			Platform: connection.LinkedIn,
			Endpoint: withParamsStyle(linkedin.Endpoint),
			Scopes:   []string{"r_liteprofile", "w_member_social"},
			Profile:  &LinkedInProfileFetcher{URL: "https://api.linkedin.com/v2/me"},
			Revoker:  &FormRevoker{URL: "https://www.linkedin.com/oauth/v2/revoke", SendClientCredentials: true},
		},
		connection.YouTube: {
			Platform: connection.YouTube,
			Endpoint: withParamsStyle(google.Endpoint),
			Scopes: []string{
				youtube.YoutubeReadonlyScope,
				youtube.YoutubeUploadScope,
			},
			AuthParams: map[string]string{
				"access_type": "offline",
				"prompt":      "consent",
			},
			Profile: &YouTubeProfileFetcher{},
			Revoker: &FormRevoker{URL: "https://oauth2.googleapis.com/revoke"},
		},
	}
}
