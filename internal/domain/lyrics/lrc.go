package lyrics

import (
	"sort"
	"strconv"
	"strings"
)

// parseTimestampMS parses an LRC timestamp "[MM:SS.xx]" or "[MM:SS.xxx]"
// into milliseconds. Centisecond and millisecond fractions are both
// normalized to milliseconds so documents of different precision can be
// matched against each other.
func parseTimestampMS(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return 0, false
	}
	content := s[1 : len(s)-1]

	parts := strings.Split(content, ":")
	if len(parts) != 2 {
		return 0, false
	}
	min, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || min < 0 {
		return 0, false
	}

	secParts := strings.Split(parts[1], ".")
	if len(secParts) != 2 {
		return 0, false
	}
	sec, err := strconv.ParseInt(secParts[0], 10, 64)
	if err != nil || sec < 0 {
		return 0, false
	}

	frac := secParts[1]
	var ms int64
	switch {
	case len(frac) == 2:
		v, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, false
		}
		ms = v * 10
	case len(frac) >= 3:
		v, err := strconv.ParseInt(frac[:3], 10, 64)
		if err != nil {
			return 0, false
		}
		ms = v
	default:
		v, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, false
		}
		ms = v
	}

	return min*60000 + sec*1000 + ms, true
}

// splitLRCLine extracts the timestamp milliseconds and trimmed text from a
// raw LRC line. Lines without a parsable timestamp are rejected.
func splitLRCLine(line string) (int64, string, bool) {
	start := strings.Index(line, "[")
	if start < 0 {
		return 0, "", false
	}
	end := strings.Index(line, "]")
	if end <= start {
		return 0, "", false
	}
	ms, ok := parseTimestampMS(line[start : end+1])
	if !ok {
		return 0, "", false
	}
	return ms, strings.TrimSpace(line[end+1:]), true
}

// ParseLRC parses an LRC document into timed lines, ascending by time.
// Metadata tags and lines without a timestamp are skipped. The sort is
// stable so duplicate timestamps keep document order.
func ParseLRC(content string) []Line {
	var lines []Line
	for _, raw := range strings.Split(content, "\n") {
		ms, text, ok := splitLRCLine(raw)
		if !ok {
			continue
		}
		lines = append(lines, Line{
			Time: float64(ms) / 1000.0,
			Text: text,
		})
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Time < lines[j].Time
	})
	return lines
}

// MergeRomaji parses the main LRC document and attaches romaji text from a
// second document, matching lines by timestamp milliseconds. Precision
// differences between the documents ("[00:01.00]" vs "[00:01.000]") do not
// break matching because both normalize to milliseconds.
func MergeRomaji(main, romaji string) []Line {
	romajiByMS := make(map[int64]string)
	for _, raw := range strings.Split(romaji, "\n") {
		ms, text, ok := splitLRCLine(raw)
		if !ok || text == "" {
			continue
		}
		romajiByMS[ms] = text
	}

	var lines []Line
	for _, raw := range strings.Split(main, "\n") {
		ms, text, ok := splitLRCLine(raw)
		if !ok {
			continue
		}
		lines = append(lines, Line{
			Time:   float64(ms) / 1000.0,
			Text:   text,
			Romaji: romajiByMS[ms],
		})
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Time < lines[j].Time
	})
	return lines
}
