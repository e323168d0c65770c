// Package lrclib provides a client for the LRCLIB lyrics API.
package lrclib

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

const userAgent = "vibe-on/1.0 (https://github.com/vibe-on)"

// ErrNotFound indicates no lyrics exist for the requested identity.
var ErrNotFound = errors.New("lyrics not found")

// Response represents an LRCLIB lyrics record.
type Response struct {
	ID           int64   `json:"id"`
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	Duration     float64 `json:"duration"`
	Instrumental bool    `json:"instrumental"`
	PlainLyrics  string  `json:"plainLyrics"`
	SyncedLyrics string  `json:"syncedLyrics"`
}

// Config represents LRCLIB client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is an LRCLIB API client with an identity-keyed cache.
type Client struct {
	baseURL    string
	httpClient *http.Client

	cache   map[string]*Response
	cacheMu sync.RWMutex
}

// New creates a new LRCLIB client.
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://lrclib.net"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		cache:      make(map[string]*Response),
	}
}

// Get retrieves lyrics for the (artist, title, duration) identity. An
// exact match is tried first; on a miss the search endpoint is used,
// preferring results with synced lyrics.
func (c *Client) Get(ctx context.Context, artist, title string, durationSecs int) (*Response, error) {
	if artist == "" && title == "" {
		return nil, errors.New("artist or title is required")
	}

	key := fmt.Sprintf("%s|%s|%d", artist, title, durationSecs)

	c.cacheMu.RLock()
	if cached, ok := c.cache[key]; ok {
		c.cacheMu.RUnlock()
		return cached, nil
	}
	c.cacheMu.RUnlock()

	result, err := c.get(ctx, artist, title, durationSecs)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		// Exact match failed; the search endpoint sometimes works better
		// without the duration constraint.
		zlog.Debug().Msgf("lrclib: exact match miss, searching: %s - %s", artist, title)
		result, err = c.search(ctx, artist, title)
		if err != nil {
			return nil, err
		}
	}

	c.cacheMu.Lock()
	c.cache[key] = result
	c.cacheMu.Unlock()

	return result, nil
}

func (c *Client) get(ctx context.Context, artist, title string, durationSecs int) (*Response, error) {
	params := url.Values{}
	params.Set("artist_name", artist)
	params.Set("track_name", title)
	params.Set("duration", fmt.Sprintf("%d", durationSecs))

	body, status, err := c.doRequest(ctx, "/api/get?"+params.Encode())
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if status != http.StatusOK {
		return nil, errors.Newf("lrclib get returned status %d", status)
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to parse lyrics response")
	}
	return &resp, nil
}

func (c *Client) search(ctx context.Context, artist, title string) (*Response, error) {
	params := url.Values{}
	params.Set("artist_name", artist)
	params.Set("track_name", title)

	body, status, err := c.doRequest(ctx, "/api/search?"+params.Encode())
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, errors.Newf("lrclib search returned status %d", status)
	}

	var results []Response
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, errors.Wrap(err, "failed to parse search response")
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}

	// Prefer a result that carries synced lyrics.
	for i := range results {
		if results[i].SyncedLyrics != "" {
			return &results[i], nil
		}
	}
	return &results[0], nil
}

func (c *Client) doRequest(ctx context.Context, path string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, errors.Wrap(err, "lrclib request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to read response body")
	}
	return body, resp.StatusCode, nil
}
