package lyricsync

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/MemestaVedas/vibe-on-sub002/internal/domain/lyrics"
	"github.com/MemestaVedas/vibe-on-sub002/internal/infra/lrclib"
)

// LrclibProviderConfig holds the lrclib provider settings.
type LrclibProviderConfig struct {
	BaseURL   string `yaml:"base_url" mapstructure:"base_url" default:"https://lrclib.net" validate:"required,url"`
	TimeoutMs int    `yaml:"timeout_ms" mapstructure:"timeout_ms" default:"5000" validate:"gte=100,lte=60000"`
}

// LrclibProvider retrieves synced lyrics from the LRCLIB API.
type LrclibProvider struct {
	client *lrclib.Client
}

// NewLrclibProvider creates a new LrclibProvider from settings.
func NewLrclibProvider(settings map[string]any) (*LrclibProvider, error) {
	var cfg LrclibProviderConfig
	if err := mapstructure.Decode(settings, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode lrclib settings")
	}
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set lrclib defaults")
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid lrclib settings")
	}

	return &LrclibProvider{
		client: lrclib.New(lrclib.Config{
			BaseURL: cfg.BaseURL,
			Timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond,
		}),
	}, nil
}

// FetchLyrics implements Provider. Instrumental tracks and plain-only
// results yield an empty set rather than an error.
func (p *LrclibProvider) FetchLyrics(ctx context.Context, id lyrics.Identity) (lyrics.Set, error) {
	resp, err := p.client.Get(ctx, id.Artist, id.Title, int(id.DurationSecs))
	if err != nil {
		return lyrics.Set{}, err
	}

	set := lyrics.Set{Identity: id}
	if resp.SyncedLyrics != "" {
		set.Lines = lyrics.ParseLRC(resp.SyncedLyrics)
	}
	return set, nil
}

// Name implements Provider.
func (p *LrclibProvider) Name() string {
	return "lrclib"
}
