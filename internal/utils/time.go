package utils

import (
	"fmt"
	"strings"
	"time"
)

const (
	layoutDateTimeLocal = "2006-01-02T15:04"
	layoutDateTimeSec   = "2006-01-02T15:04:05"
	layoutDateTime      = "2006-01-02 15:04:05"
)

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ParseSessionDateTime accepts the forms the dashboards and the remote API
// use for sessionDateTime: RFC 3339, "YYYY-MM-DDTHH:MM[:SS]" and
// "YYYY-MM-DD HH:MM:SS". Zoneless values are read in local time.
func ParseSessionDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date time")
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{layoutDateTimeSec, layoutDateTimeLocal, layoutDateTime} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date time %q", s)
}
