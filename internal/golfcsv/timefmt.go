package golfcsv

import (
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	isoLayout  = "2006-01-02T15:04:05.000Z"
)

// zone-less layouts are interpreted in the flattener's location
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	dateLayout,
}

// parseTimestamp accepts epoch milliseconds (as a number or numeric string)
// and ISO-8601 strings with or without a zone.
func parseTimestamp(v Value, loc *time.Location) (time.Time, bool) {
	if v.IsEmpty() {
		return time.Time{}, false
	}
	text := strings.TrimSpace(v.String())
	if text == "" {
		return time.Time{}, false
	}

	if ms, err := strconv.ParseInt(text, 10, 64); err == nil {
		return time.UnixMilli(ms), true
	}
	if v.kind == kindLiteral {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(f)), true
	}

	if t, err := time.Parse(time.RFC3339Nano, text); err == nil {
		return t, true
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func formatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateLayout)
}

func formatISO(t time.Time) string {
	return t.UTC().Format(isoLayout)
}
