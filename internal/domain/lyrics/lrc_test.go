package lyrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestampMS(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
		ok       bool
	}{
		{
			name:     "centisecond precision",
			input:    "[00:01.00]",
			expected: 1000,
			ok:       true,
		},
		{
			name:     "millisecond precision",
			input:    "[00:01.000]",
			expected: 1000,
			ok:       true,
		},
		{
			name:     "minutes and fraction",
			input:    "[02:35.48]",
			expected: 2*60000 + 35000 + 480,
			ok:       true,
		},
		{
			name:     "extra fraction digits truncated",
			input:    "[00:01.23456]",
			expected: 1234,
			ok:       true,
		},
		{
			name:  "no fraction",
			input: "[00:01]",
			ok:    false,
		},
		{
			name:  "not a timestamp",
			input: "[ti:Song Title]",
			ok:    false,
		},
		{
			name:  "missing brackets",
			input: "00:01.00",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms, ok := parseTimestampMS(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, ms)
			}
		})
	}
}

func TestParseLRC(t *testing.T) {
	content := "[ti:Title]\n[00:12.00] First line\n[00:05.50] Early line\nno timestamp here\n[01:00.000] Last line\n"

	lines := ParseLRC(content)
	require.Len(t, lines, 3)

	// Sorted ascending by time.
	assert.Equal(t, 5.5, lines[0].Time)
	assert.Equal(t, "Early line", lines[0].Text)
	assert.Equal(t, 12.0, lines[1].Time)
	assert.Equal(t, "First line", lines[1].Text)
	assert.Equal(t, 60.0, lines[2].Time)
	assert.Equal(t, "Last line", lines[2].Text)
}

func TestParseLRC_Empty(t *testing.T) {
	assert.Empty(t, ParseLRC(""))
	assert.Empty(t, ParseLRC("just some plain lyrics\nwithout timestamps"))
}

func TestMergeRomaji(t *testing.T) {
	main := "[00:01.00] Hello\n[00:05.00] World"
	romaji := "[00:01.00] Konnichiwa\n[00:05.00] Sekai"

	lines := MergeRomaji(main, romaji)
	require.Len(t, lines, 2)
	assert.Equal(t, "Hello", lines[0].Text)
	assert.Equal(t, "Konnichiwa", lines[0].Romaji)
	assert.Equal(t, "Sekai", lines[1].Romaji)
}

func TestMergeRomaji_PrecisionMismatch(t *testing.T) {
	// Centisecond main document, millisecond romaji document. Both
	// normalize to the same millisecond key.
	main := "[00:01.00] Hello"
	romaji := "[00:01.000] Konnichiwa"

	lines := MergeRomaji(main, romaji)
	require.Len(t, lines, 1)
	assert.Equal(t, "Konnichiwa", lines[0].Romaji)
}

func TestMergeRomaji_UnmatchedLines(t *testing.T) {
	main := "[00:01.00] Hello\n[00:09.00] Unmatched"
	romaji := "[00:01.00] Konnichiwa\n[00:30.00] Orphan"

	lines := MergeRomaji(main, romaji)
	require.Len(t, lines, 2)
	assert.Equal(t, "Konnichiwa", lines[0].Romaji)
	assert.Equal(t, "", lines[1].Romaji, "unmatched main line keeps empty romaji")
}
