package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/go-querystring/query"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const maxProfileBody = 1 << 20

// ProfileFetcher resolves a human readable handle for a freshly issued access token.
type ProfileFetcher interface {
	FetchHandle(ctx context.Context, client *http.Client, accessToken string) (string, error)
}

type graphFields struct {
	Fields string `url:"fields"`
}

// getJSON issues an authenticated GET and decodes the JSON body into out.
func getJSON(ctx context.Context, client *http.Client, endpoint, accessToken string, params interface{}, out interface{}) error {
	if params != nil {
		values, err := query.Values(params)
		if err != nil {
			return fmt.Errorf("failed to encode query: %w", err)
		}
		endpoint += "?" + values.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to get profile: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProfileBody))
	if err != nil {
		return fmt.Errorf("failed to read profile response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to get profile: status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode profile: %w", err)
	}
	return nil
}

// FacebookProfileFetcher reads the Graph API user name.
type FacebookProfileFetcher struct {
	URL string
}

type facebookProfile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (f *FacebookProfileFetcher) FetchHandle(ctx context.Context, client *http.Client, accessToken string) (string, error) {
	var profile facebookProfile
	if err := getJSON(ctx, client, f.URL, accessToken, graphFields{Fields: "id,name"}, &profile); err != nil {
		return "", err
	}
	return facebookHandle(profile)
}

// facebookHandle picks the display name from a Graph user.
func facebookHandle(p facebookProfile) (string, error) {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name, nil
	}
	return "", ErrEmptyHandle
}

// InstagramProfileFetcher reads the Instagram user, preferring the username.
type InstagramProfileFetcher struct {
	URL string
}

type instagramProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

func (f *InstagramProfileFetcher) FetchHandle(ctx context.Context, client *http.Client, accessToken string) (string, error) {
	var profile instagramProfile
	if err := getJSON(ctx, client, f.URL, accessToken, graphFields{Fields: "id,username,name"}, &profile); err != nil {
		return "", err
	}
	return instagramHandle(profile)
}

func instagramHandle(p instagramProfile) (string, error) {
	if username := strings.TrimSpace(p.Username); username != "" {
		return username, nil
	}
	if name := strings.TrimSpace(p.Name); name != "" {
		return name, nil
	}
	return "", ErrEmptyHandle
}

// LinkedInProfileFetcher reads the lite profile and joins first and last name.
type LinkedInProfileFetcher struct {
	URL string
}

type linkedInProfile struct {
	ID                 string `json:"id"`
	LocalizedFirstName string `json:"localizedFirstName"`
	LocalizedLastName  string `json:"localizedLastName"`
}

func (f *LinkedInProfileFetcher) FetchHandle(ctx context.Context, client *http.Client, accessToken string) (string, error) {
	var profile linkedInProfile
	if err := getJSON(ctx, client, f.URL, accessToken, nil, &profile); err != nil {
		return "", err
	}
	return linkedInHandle(profile)
}

func linkedInHandle(p linkedInProfile) (string, error) {
	name := strings.TrimSpace(strings.TrimSpace(p.LocalizedFirstName) + " " + strings.TrimSpace(p.LocalizedLastName))
	if name == "" {
		return "", ErrEmptyHandle
	}
	return name, nil
}

// YouTubeProfileFetcher reads the authenticated user's channel title through the Data API.
type YouTubeProfileFetcher struct {
	// Endpoint overrides the API base URL. Empty uses the production endpoint.
	Endpoint string
}

func (f *YouTubeProfileFetcher) FetchHandle(ctx context.Context, client *http.Client, accessToken string) (string, error) {
	authed := oauth2.NewClient(
		context.WithValue(ctx, oauth2.HTTPClient, client),
		oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}),
	)

	opts := []option.ClientOption{option.WithHTTPClient(authed)}
	if f.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(f.Endpoint))
	}

	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create youtube service: %w", err)
	}

	resp, err := svc.Channels.List([]string{"snippet"}).Mine(true).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to list youtube channels: %w", err)
	}
	return youTubeHandle(resp)
}

// youTubeHandle returns items[0].snippet.title.
func youTubeHandle(resp *youtube.ChannelListResponse) (string, error) {
	if resp == nil || len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return "", ErrEmptyHandle
	}
	title := strings.TrimSpace(resp.Items[0].Snippet.Title)
	if title == "" {
		return "", ErrEmptyHandle
	}
	return title, nil
}
