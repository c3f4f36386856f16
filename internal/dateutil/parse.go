package dateutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// maxEpochMillis bounds epoch values to ±100,000,000 days around 1970-01-01.
const maxEpochMillis = 8_640_000_000_000_000

// dateTimeLayouts are tried in order for zone-less date-time strings.
var dateTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseDateTime parses an RFC3339-like date-time string.
//
// Strings with an offset ("2024-06-01T23:00:00Z", "...+02:00") keep that
// instant and are converted to loc. Strings without an offset are read as
// wall-clock time in loc. A bare date is midnight in loc. A nil loc means UTC.
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	value := strings.TrimSpace(s)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateTime, s)
	}

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.In(loc), nil
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}

	if t, err := time.ParseInLocation(DateLayout, value, loc); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateTime, s)
}

// ParseClock parses "HH:MM" or "HH:MM:SS" into the offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	limits := []int{23, 59, 59}
	units := []time.Duration{time.Hour, time.Minute, time.Second}

	var d time.Duration
	for i, p := range parts {
		if len(p) != 2 || !isDigits(p) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
		n, _ := strconv.Atoi(p)
		if n > limits[i] {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
		d += time.Duration(n) * units[i]
	}
	return d, nil
}

// FromEpochMillis converts milliseconds since the Unix epoch into an instant in loc.
func FromEpochMillis(ms int64, loc *time.Location) (time.Time, error) {
	if ms > maxEpochMillis || ms < -maxEpochMillis {
		return time.Time{}, fmt.Errorf("%w: %d", ErrEpochOutOfRange, ms)
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.UnixMilli(ms).In(loc), nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
