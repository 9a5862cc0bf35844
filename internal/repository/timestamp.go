package repository

import (
	"strings"
	"time"
)

// timestampLayout is what we write.  The tickets.ts column is text
// because older rows were written as "2006-01-02 15:04:05.999999" in
// the venue's local time; those layouts are still accepted on read and
// are interpreted in the location the repository was built with.
const timestampLayout = time.RFC3339Nano

var legacyLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.999999999",
}

func formatTimestamp(ts *time.Time) any {
	if ts == nil {
		return nil
	}
	return ts.UTC().Format(timestampLayout)
}

// parseTimestamp returns nil for empty or unparseable values so that a
// bad cell never blocks a load.
func parseTimestamp(raw string, legacy *time.Location) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "none") || strings.EqualFold(s, "nat") {
		return nil
	}
	if ts, err := time.Parse(timestampLayout, s); err == nil {
		return &ts
	}
	if legacy == nil {
		legacy = time.Local
	}
	for _, layout := range legacyLayouts {
		if ts, err := time.ParseInLocation(layout, s, legacy); err == nil {
			return &ts
		}
	}
	return nil
}
