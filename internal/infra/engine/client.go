// Package engine provides a client for the native playback engine's local
// HTTP API. The engine owns the audio pipeline; this client only issues
// commands and reads back status snapshots.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/MemestaVedas/vibe-on-sub002/internal/domain/player"
	"github.com/MemestaVedas/vibe-on-sub002/internal/domain/track"
	"github.com/MemestaVedas/vibe-on-sub002/internal/infra/config"
)

// Client is a playback engine API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// trackDTO is the wire representation of a loaded track.
type trackDTO struct {
	Path         string  `json:"path"`
	Title        string  `json:"title"`
	Artist       string  `json:"artist"`
	Album        string  `json:"album"`
	DurationSecs float64 `json:"duration_secs"`
	CoverURL     string  `json:"cover_url,omitempty"`
}

// statusResponse is the wire representation of the engine status.
type statusResponse struct {
	State        string    `json:"state"`
	Track        *trackDTO `json:"track"`
	PositionSecs float64   `json:"position_secs"`
	Volume       float64   `json:"volume"`
}

// engineError is an error payload returned by the engine API.
type engineError struct {
	Error string `json:"error"`
}

// New creates a new engine client.
func New(cfg config.EngineConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("engine base URL is required")
	}

	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Play instructs the engine to load and play the given file.
func (c *Client) Play(ctx context.Context, path string) error {
	if path == "" {
		return errors.New("track path is required")
	}
	return c.post(ctx, "/play", map[string]any{"path": path})
}

// Pause pauses playback.
func (c *Client) Pause(ctx context.Context) error {
	return c.post(ctx, "/pause", nil)
}

// Resume resumes paused playback.
func (c *Client) Resume(ctx context.Context) error {
	return c.post(ctx, "/resume", nil)
}

// Seek moves the playback position to the given offset.
func (c *Client) Seek(ctx context.Context, seconds float64) error {
	return c.post(ctx, "/seek", map[string]any{"position_secs": seconds})
}

// SetVolume sets the engine volume in the range [0, 1].
func (c *Client) SetVolume(ctx context.Context, volume float64) error {
	return c.post(ctx, "/volume", map[string]any{"volume": volume})
}

// Status retrieves the current engine playback status.
func (c *Client) Status(ctx context.Context) (player.Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status", nil)
	if err != nil {
		return player.Status{}, errors.Wrap(err, "failed to create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return player.Status{}, errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return player.Status{}, errors.Wrap(err, "failed to read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return player.Status{}, apiError(resp.StatusCode, body)
	}

	var dto statusResponse
	if err := json.Unmarshal(body, &dto); err != nil {
		return player.Status{}, errors.Wrap(err, "failed to parse status response")
	}

	st := player.Status{
		State:        player.ParseState(dto.State),
		PositionSecs: dto.PositionSecs,
		Volume:       dto.Volume,
	}
	if dto.Track != nil {
		st.Track = &track.Track{
			Path:         dto.Track.Path,
			Title:        dto.Track.Title,
			Artist:       dto.Track.Artist,
			Album:        dto.Track.Album,
			DurationSecs: dto.Track.DurationSecs,
			CoverURL:     dto.Track.CoverURL,
		}
	}
	return st, nil
}

// post issues a command to the engine and checks for an API error.
func (c *Client) post(ctx context.Context, path string, payload map[string]any) error {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "failed to encode request body")
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return apiError(resp.StatusCode, body)
	}
	return nil
}

func apiError(statusCode int, body []byte) error {
	var apiErr engineError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return errors.Errorf("engine API error: %s", apiErr.Error)
	}
	return errors.Errorf("engine API returned status %d", statusCode)
}
