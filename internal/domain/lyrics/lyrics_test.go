package lyrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActiveIndex(t *testing.T) {
	lines := []Line{
		{Time: 0, Text: "first"},
		{Time: 10, Text: "second"},
		{Time: 20, Text: "third"},
	}

	tests := []struct {
		name     string
		lines    []Line
		position float64
		expected int
	}{
		{
			name:     "before second line",
			lines:    lines,
			position: 9.9,
			expected: 0,
		},
		{
			name:     "exactly at second line",
			lines:    lines,
			position: 10.0,
			expected: 1,
		},
		{
			name:     "past last line",
			lines:    lines,
			position: 25,
			expected: 2,
		},
		{
			name:     "at first line",
			lines:    lines,
			position: 0,
			expected: 0,
		},
		{
			name:     "before all lines",
			lines:    []Line{{Time: 5}, {Time: 10}},
			position: 2,
			expected: -1,
		},
		{
			name:     "empty set",
			lines:    nil,
			position: 10,
			expected: -1,
		},
		{
			name:     "duplicate timestamps pick the later line",
			lines:    []Line{{Time: 0}, {Time: 10}, {Time: 10}, {Time: 20}},
			position: 12,
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ActiveIndex(tt.lines, tt.position))
		})
	}
}

func TestActiveIndex_MonotoneInPosition(t *testing.T) {
	lines := []Line{
		{Time: 0}, {Time: 3.5}, {Time: 3.5}, {Time: 7}, {Time: 12.25}, {Time: 30},
	}

	prev := -1
	for pos := 0.0; pos <= 35.0; pos += 0.25 {
		idx := ActiveIndex(lines, pos)
		assert.GreaterOrEqual(t, idx, prev, "active index regressed at position %v", pos)
		prev = idx
	}
}

func TestIdentity_Equal(t *testing.T) {
	base := Identity{Artist: "Artist", Title: "Title", DurationSecs: 180, Path: "C:/Music/a.mp3"}

	same := base
	same.Path = `c:\music\a.mp3`
	assert.True(t, base.Equal(same), "normalized path should compare equal")

	other := base
	other.Title = "Other"
	assert.False(t, base.Equal(other))
}

func TestDisplayMode_Cycle(t *testing.T) {
	mode := ModeOriginal
	mode = mode.Cycle()
	assert.Equal(t, ModeRomaji, mode)
	mode = mode.Cycle()
	assert.Equal(t, ModeBoth, mode)
	mode = mode.Cycle()
	assert.Equal(t, ModeOriginal, mode)
}

func TestLine_Render(t *testing.T) {
	tests := []struct {
		name     string
		line     Line
		mode     DisplayMode
		expected string
	}{
		{
			name:     "original",
			line:     Line{Text: "Hello", Romaji: "Konnichiwa"},
			mode:     ModeOriginal,
			expected: "Hello",
		},
		{
			name:     "romaji",
			line:     Line{Text: "Hello", Romaji: "Konnichiwa"},
			mode:     ModeRomaji,
			expected: "Konnichiwa",
		},
		{
			name:     "romaji falls back to original",
			line:     Line{Text: "Hello"},
			mode:     ModeRomaji,
			expected: "Hello",
		},
		{
			name:     "both",
			line:     Line{Text: "Hello", Romaji: "Konnichiwa"},
			mode:     ModeBoth,
			expected: "Hello / Konnichiwa",
		},
		{
			name:     "both without romaji",
			line:     Line{Text: "Hello"},
			mode:     ModeBoth,
			expected: "Hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.line.Render(tt.mode))
		})
	}
}
