package queue

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MemestaVedas/vibe-on-sub002/internal/domain/track"
)

func makeTracks(paths ...string) []track.Track {
	tracks := make([]track.Track, len(paths))
	for i, p := range paths {
		tracks[i] = track.Track{Path: p, Title: p}
	}
	return tracks
}

func paths(tracks []track.Track) []string {
	result := make([]string, len(tracks))
	for i, t := range tracks {
		result[i] = t.Path
	}
	return result
}

func TestManager_Reorder(t *testing.T) {
	tests := []struct {
		name     string
		initial  []string
		from     int
		to       int
		expected []string
	}{
		{
			name:     "move first to last",
			initial:  []string{"A", "B", "C"},
			from:     0,
			to:       2,
			expected: []string{"B", "C", "A"},
		},
		{
			name:     "move last to first",
			initial:  []string{"A", "B", "C"},
			from:     2,
			to:       0,
			expected: []string{"C", "A", "B"},
		},
		{
			name:     "move middle forward",
			initial:  []string{"A", "B", "C", "D"},
			from:     1,
			to:       2,
			expected: []string{"A", "C", "B", "D"},
		},
		{
			name:     "same index is a no-op",
			initial:  []string{"A", "B", "C"},
			from:     1,
			to:       1,
			expected: []string{"A", "B", "C"},
		},
		{
			name:     "negative from is a no-op",
			initial:  []string{"A", "B", "C"},
			from:     -1,
			to:       1,
			expected: []string{"A", "B", "C"},
		},
		{
			name:     "negative to is a no-op",
			initial:  []string{"A", "B", "C"},
			from:     1,
			to:       -1,
			expected: []string{"A", "B", "C"},
		},
		{
			name:     "from past end is a no-op",
			initial:  []string{"A", "B", "C"},
			from:     3,
			to:       0,
			expected: []string{"A", "B", "C"},
		},
		{
			name:     "to past end is a no-op",
			initial:  []string{"A", "B", "C"},
			from:     0,
			to:       3,
			expected: []string{"A", "B", "C"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager()
			m.Set(makeTracks(tt.initial...))

			m.Reorder(tt.from, tt.to)
			assert.Equal(t, tt.expected, paths(m.Tracks()))
		})
	}
}

func TestManager_Reorder_PreservesMultiset(t *testing.T) {
	initial := []string{"A", "B", "A", "C", "B"}

	for from := 0; from < len(initial); from++ {
		for to := 0; to < len(initial); to++ {
			if from == to {
				continue
			}

			m := NewManager()
			m.Set(makeTracks(initial...))
			m.Reorder(from, to)

			result := paths(m.Tracks())
			require.Len(t, result, len(initial))

			// The moved element ends up exactly at index to.
			assert.Equal(t, initial[from], result[to], "reorder(%d,%d)", from, to)

			// Same multiset of elements.
			sortedInitial := append([]string(nil), initial...)
			sortedResult := append([]string(nil), result...)
			sort.Strings(sortedInitial)
			sort.Strings(sortedResult)
			assert.Equal(t, sortedInitial, sortedResult, "reorder(%d,%d)", from, to)
		}
	}
}

func TestManager_Remove(t *testing.T) {
	tests := []struct {
		name     string
		initial  []string
		index    int
		expected []string
	}{
		{
			name:     "remove middle",
			initial:  []string{"B", "C", "A"},
			index:    1,
			expected: []string{"B", "A"},
		},
		{
			name:     "remove first",
			initial:  []string{"A", "B"},
			index:    0,
			expected: []string{"B"},
		},
		{
			name:     "negative index is a no-op",
			initial:  []string{"A", "B"},
			index:    -1,
			expected: []string{"A", "B"},
		},
		{
			name:     "index past end is a no-op",
			initial:  []string{"A", "B"},
			index:    2,
			expected: []string{"A", "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager()
			m.Set(makeTracks(tt.initial...))

			m.Remove(tt.index)
			assert.Equal(t, tt.expected, paths(m.Tracks()))
		})
	}
}

func TestManager_ReorderThenRemove(t *testing.T) {
	m := NewManager()
	m.Set(makeTracks("A", "B", "C"))

	m.Reorder(0, 2)
	assert.Equal(t, []string{"B", "C", "A"}, paths(m.Tracks()))

	m.Remove(1)
	assert.Equal(t, []string{"B", "A"}, paths(m.Tracks()))
}

func TestManager_Clear(t *testing.T) {
	m := NewManager()
	m.Set(makeTracks("A", "B"))

	m.Clear()
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.Tracks())
}

func TestManager_ResolveActive(t *testing.T) {
	tests := []struct {
		name       string
		queued     []string
		activePath string
		expected   int
	}{
		{
			name:       "exact match",
			queued:     []string{"C:/Music/a.mp3", "C:/Music/b.mp3"},
			activePath: "C:/Music/b.mp3",
			expected:   1,
		},
		{
			name:       "backslash separators match forward slashes",
			queued:     []string{"C:/Music/a.mp3"},
			activePath: `C:\Music\a.mp3`,
			expected:   0,
		},
		{
			name:       "case-insensitive match",
			queued:     []string{"C:/Music/a.mp3"},
			activePath: `c:\music\a.mp3`,
			expected:   0,
		},
		{
			name:       "absent path",
			queued:     []string{"C:/Music/a.mp3"},
			activePath: "C:/Music/z.mp3",
			expected:   -1,
		},
		{
			name:       "empty active path",
			queued:     []string{"C:/Music/a.mp3"},
			activePath: "",
			expected:   -1,
		},
		{
			name:       "empty queue",
			queued:     nil,
			activePath: "C:/Music/a.mp3",
			expected:   -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager()
			m.Set(makeTracks(tt.queued...))

			assert.Equal(t, tt.expected, m.ResolveActive(tt.activePath))
		})
	}
}

func TestManager_SnapshotIsNotAliased(t *testing.T) {
	m := NewManager()
	m.Set(makeTracks("A", "B", "C"))

	snapshot := m.Tracks()
	m.Reorder(0, 2)

	assert.Equal(t, []string{"A", "B", "C"}, paths(snapshot), "earlier snapshot must not observe later mutations")
}

func TestManager_VersionIncrementsOnMutation(t *testing.T) {
	m := NewManager()
	v0 := m.Version()

	m.Append(track.Track{Path: "a"})
	v1 := m.Version()
	assert.Greater(t, v1, v0)

	// No-op mutations do not bump the version.
	m.Reorder(0, 0)
	m.Remove(5)
	assert.Equal(t, v1, m.Version())
}
