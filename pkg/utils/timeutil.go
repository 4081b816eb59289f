// Package utils provides small shared helpers: time normalization and
// stable record identifiers.
package utils

import (
	"strconv"
	"strings"
	"time"
)

// DateFormat is the calendar-date layout used for article dates.
const DateFormat = "2006-01-02"

// TodayUTC returns the current UTC calendar date as YYYY-MM-DD.
func TodayUTC() string {
	return time.Now().UTC().Format(DateFormat)
}

// NowRFC3339 returns the current UTC time in RFC3339.
func NowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// DateFromISO converts an ISO8601/RFC3339 timestamp to a UTC YYYY-MM-DD date.
// Malformed input yields today's date so a bad provider timestamp never
// produces an unsortable record.
func DateFromISO(iso string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", DateFormat} {
		if t, err := time.Parse(layout, strings.TrimSpace(iso)); err == nil {
			return t.UTC().Format(DateFormat)
		}
	}
	return TodayUTC()
}

// DateFromUnix converts unix seconds to a UTC YYYY-MM-DD date.
func DateFromUnix(sec int64) string {
	if sec <= 0 {
		return TodayUTC()
	}
	return time.Unix(sec, 0).UTC().Format(DateFormat)
}

// DateFromCompact parses compact timestamps like "20250811T130000Z" used by
// some news feeds. Falls back to today's date when the prefix is not a date.
func DateFromCompact(ts string) string {
	ts = strings.TrimSuffix(strings.TrimSpace(ts), "Z")
	if len(ts) >= 8 {
		if _, err := strconv.Atoi(ts[:8]); err == nil {
			return ts[:4] + "-" + ts[4:6] + "-" + ts[6:8]
		}
	}
	return TodayUTC()
}

// ISOFromTime formats a time as RFC3339 UTC.
func ISOFromTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseISO parses an ISO8601 timestamp, accepting a trailing "Z" or offset.
// Returns the current time when parsing fails.
func ParseISO(iso string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, strings.TrimSpace(iso)); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}
