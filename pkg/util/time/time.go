package time

import (
	"time"
)

const (
	// LogTimeFormat is the timestamp layout of log section headers, eg. "Mon Apr 13 11:00:00 +0800 2020"
	LogTimeFormat = "Mon Jan 02 15:04:05 -0700 2006"
)

// Format return t in LogTimeFormat, empty for the zero time
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(LogTimeFormat)
}

// FormatMillis format a unix epoch in milliseconds, as reported by the yarn rest apis
func FormatMillis(ms int64) string {
	if ms <= 0 {
		return "N/A"
	}
	return Format(time.Unix(ms/1000, (ms%1000)*int64(time.Millisecond)))
}
