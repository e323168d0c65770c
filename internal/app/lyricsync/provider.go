package lyricsync

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/MemestaVedas/vibe-on-sub002/internal/domain/lyrics"
)

// Provider is the interface for lyric retrieval strategies.
type Provider interface {
	// FetchLyrics retrieves the lyric set for the given identity.
	FetchLyrics(ctx context.Context, id lyrics.Identity) (lyrics.Set, error)

	// Name returns the provider name (used in config).
	Name() string
}

// ProviderWithMetadata wraps a provider with its metadata.
type ProviderWithMetadata struct {
	Provider    Provider
	DisplayName string
}

// ProviderChain tries providers in order until one returns timed lines.
type ProviderChain struct {
	providers []ProviderWithMetadata
}

// NewProviderChain creates a new provider chain.
func NewProviderChain(providers []ProviderWithMetadata) *ProviderChain {
	return &ProviderChain{providers: providers}
}

// FetchLyrics implements Fetcher. Providers are tried in configured
// order; the first one returning timed lines wins. A provider returning
// an untimed (empty) set is kept as a fallback result.
func (c *ProviderChain) FetchLyrics(ctx context.Context, id lyrics.Identity) (lyrics.Set, error) {
	var fallback *lyrics.Set

	for i, pm := range c.providers {
		if ctx.Err() != nil {
			return lyrics.Set{}, ctx.Err()
		}

		set, err := pm.Provider.FetchLyrics(ctx, id)
		if err != nil {
			zlog.Debug().Msgf("lyricsync: provider %s (%d/%d) failed: %v",
				pm.DisplayName, i+1, len(c.providers), err)
			continue
		}

		if len(set.Lines) > 0 {
			zlog.Debug().Msgf("lyricsync: provider %s returned %d lines", pm.DisplayName, len(set.Lines))
			return set, nil
		}
		if fallback == nil {
			s := set
			fallback = &s
		}
	}

	if fallback != nil {
		return *fallback, nil
	}
	return lyrics.Set{}, errors.Newf("no provider returned lyrics for %s - %s", id.Artist, id.Title)
}

// Name returns the chain name.
func (c *ProviderChain) Name() string {
	return "provider_chain"
}
