package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the canonical storage representation of a game's
// start time: UTC, second precision.
const TimestampLayout = "2006-01-02 15:04:05"

// DateLayout is the day-granularity form used by date filters.
const DateLayout = "2006-01-02"

// startLayouts are the formats the upstream has been observed to emit,
// plus the canonical form itself so stored values round-trip.
var startLayouts = []string{
	time.RFC3339,
	TimestampLayout,
	DateLayout,
}

// ParseStart parses an upstream start timestamp and normalizes it to
// UTC at second precision.
func ParseStart(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty start date")
	}
	for _, layout := range startLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Truncate(time.Second), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized start date %q", raw)
}

// SanitizeDate reduces a date string to YYYY-MM-DD, or "" if it cannot
// be parsed.
func SanitizeDate(raw string) string {
	t, err := ParseStart(raw)
	if err != nil {
		return ""
	}
	return t.Format(DateLayout)
}

// MarshalJSON emits date_start in the canonical storage form instead of
// RFC 3339 so API consumers see exactly what the store holds.
func (s GameSummary) MarshalJSON() ([]byte, error) {
	type alias GameSummary
	return json.Marshal(struct {
		alias
		DateStart string `json:"date_start"`
	}{
		alias:     alias(s),
		DateStart: s.DateStart.UTC().Format(TimestampLayout),
	})
}
