// Package spotify talks to the external music-search API. The rest of the
// server only sees opaque SpotifyTrack values.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mm-mmFrank/TheAudioApp/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	defaultTokenURL  = "https://accounts.spotify.com/api/token"
	defaultSearchURL = "https://api.spotify.com/v1/search"

	searchLimit = 10
)

type SearchResult struct {
	Tracks  []domain.SpotifyTrack `json:"tracks"`
	Message string                `json:"message,omitempty"`
}

type Client struct {
	clientID     string
	clientSecret string
	http         *http.Client

	// Overridable in tests.
	TokenURL  string
	SearchURL string
}

func New(clientID, clientSecret string) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		http:         &http.Client{Timeout: 10 * time.Second},
		TokenURL:     defaultTokenURL,
		SearchURL:    defaultSearchURL,
	}
}

// Configured reports whether real credentials are present. When they are
// not, Search serves the fixed demo result set instead of failing.
func (c *Client) Configured() bool {
	return c.clientID != "" && c.clientSecret != ""
}

// DemoTracks is the fallback catalog used while the collaborator is
// unconfigured.
func DemoTracks() []domain.SpotifyTrack {
	return []domain.SpotifyTrack{
		{
			ID:         "1",
			Name:       "Sample Track 1",
			Artist:     "Demo Artist",
			Album:      "Demo Album",
			DurationMs: 210000,
		},
		{
			ID:         "2",
			Name:       "Sample Track 2",
			Artist:     "Another Artist",
			Album:      "Another Album",
			DurationMs: 185000,
		},
	}
}

func (c *Client) Search(ctx context.Context, query string) (*SearchResult, error) {
	if !c.Configured() {
		return &SearchResult{
			Tracks:  DemoTracks(),
			Message: "Spotify not configured. Showing demo tracks.",
		}, nil
	}

	token, err := c.token(ctx)
	if err != nil {
		return nil, fmt.Errorf("spotify token: %w", err)
	}

	u, _ := url.Parse(c.SearchURL)
	q := u.Query()
	q.Set("q", query)
	q.Set("type", "track")
	q.Set("limit", fmt.Sprintf("%d", searchLimit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("spotify search: status %d", resp.StatusCode)
	}

	var result struct {
		Tracks struct {
			Items []struct {
				ID      string `json:"id"`
				Name    string `json:"name"`
				Artists []struct {
					Name string `json:"name"`
				} `json:"artists"`
				Album struct {
					Name   string `json:"name"`
					Images []struct {
						URL string `json:"url"`
					} `json:"images"`
				} `json:"album"`
				DurationMs int64   `json:"duration_ms"`
				PreviewURL *string `json:"preview_url"`
			} `json:"items"`
		} `json:"tracks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	tracks := make([]domain.SpotifyTrack, 0, len(result.Tracks.Items))
	for _, item := range result.Tracks.Items {
		names := make([]string, 0, len(item.Artists))
		for _, a := range item.Artists {
			names = append(names, a.Name)
		}
		albumArt := ""
		if len(item.Album.Images) > 0 {
			albumArt = item.Album.Images[0].URL
		}
		tracks = append(tracks, domain.SpotifyTrack{
			ID:         item.ID,
			Name:       item.Name,
			Artist:     strings.Join(names, ", "),
			Album:      item.Album.Name,
			AlbumArt:   albumArt,
			DurationMs: item.DurationMs,
			PreviewURL: item.PreviewURL,
		})
	}

	log.Debug().Str("module", "spotify").Str("query", query).Int("tracks", len(tracks)).Msg("search done")
	return &SearchResult{Tracks: tracks}, nil
}

// token performs the client-credentials grant.
func (c *Client) token(ctx context.Context) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.clientID, c.clientSecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("empty access token")
	}
	return body.AccessToken, nil
}
