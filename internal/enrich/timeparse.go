package enrich

import (
	"fmt"
	"strings"
	"time"
)

// timestampLayouts are tried in order when parsing leg timestamps. Upstream
// documents usually carry zone-qualified ISO 8601, but the fallback path in
// the parser stamps plain RFC 3339 and older feeds omit the zone entirely.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp parses s with the first matching layout.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
