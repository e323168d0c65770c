package lyricsync

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/mitchellh/mapstructure"

	"github.com/MemestaVedas/vibe-on-sub002/internal/domain/lyrics"
)

// SidecarProviderConfig holds the sidecar provider settings.
type SidecarProviderConfig struct {
	Extension       string `yaml:"extension" mapstructure:"extension" default:".lrc"`
	RomajiExtension string `yaml:"romaji_extension" mapstructure:"romaji_extension" default:".romaji.lrc"`
}

// SidecarProvider reads LRC files stored next to the audio file:
// "album/song.mp3" resolves to "album/song.lrc", with an optional
// "album/song.romaji.lrc" merged in as romaji text.
type SidecarProvider struct {
	config SidecarProviderConfig
}

// NewSidecarProvider creates a new SidecarProvider from settings.
func NewSidecarProvider(settings map[string]any) (*SidecarProvider, error) {
	var cfg SidecarProviderConfig
	if err := mapstructure.Decode(settings, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode sidecar settings")
	}
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set sidecar defaults")
	}
	return &SidecarProvider{config: cfg}, nil
}

// FetchLyrics implements Provider.
func (p *SidecarProvider) FetchLyrics(ctx context.Context, id lyrics.Identity) (lyrics.Set, error) {
	if id.Path == "" {
		return lyrics.Set{}, errors.New("track path is required")
	}
	if err := ctx.Err(); err != nil {
		return lyrics.Set{}, err
	}

	base := strings.TrimSuffix(id.Path, filepath.Ext(id.Path))

	main, err := os.ReadFile(base + p.config.Extension)
	if err != nil {
		return lyrics.Set{}, errors.Wrap(err, "no sidecar lyrics file")
	}

	set := lyrics.Set{Identity: id}
	if romaji, err := os.ReadFile(base + p.config.RomajiExtension); err == nil {
		set.Lines = lyrics.MergeRomaji(string(main), string(romaji))
	} else {
		set.Lines = lyrics.ParseLRC(string(main))
	}
	return set, nil
}

// Name implements Provider.
func (p *SidecarProvider) Name() string {
	return "sidecar"
}
