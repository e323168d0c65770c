package lyricsync

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/MemestaVedas/vibe-on-sub002/internal/infra/config"
)

// NewProviderChainFromConfig creates a provider chain from configuration.
// With no providers configured, a default lrclib provider is used.
func NewProviderChainFromConfig(cfg *config.Config) (*ProviderChain, error) {
	provisions := cfg.Lyrics.Providers
	if len(provisions) == 0 {
		provisions = []config.ProviderConfig{{Type: "lrclib", DisplayName: "LRCLIB"}}
	}

	var providers []ProviderWithMetadata

	for i, pcfg := range provisions {
		var provider Provider
		var err error
		zlog.Debug().Msgf("creating lyrics provider: index=%d type=%s", i+1, pcfg.Type)
		switch pcfg.Type {
		case "lrclib":
			provider, err = NewLrclibProvider(pcfg.Settings)

		case "sidecar":
			provider, err = NewSidecarProvider(pcfg.Settings)

		default:
			return nil, errors.Newf("unsupported provider type: %s (provider index %d)", pcfg.Type, i)
		}

		if err != nil {
			return nil, errors.Wrapf(err, "failed to create provider (index %d, type %s)", i, pcfg.Type)
		}

		displayName := pcfg.DisplayName
		if displayName == "" {
			displayName = provider.Name()
		}
		providers = append(providers, ProviderWithMetadata{
			Provider:    provider,
			DisplayName: displayName,
		})

		zlog.Info().Msgf("registered lyrics provider: index=%d type=%s display_name=%s", i+1, pcfg.Type, displayName)
	}

	return NewProviderChain(providers), nil
}
