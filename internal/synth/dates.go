package synth

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxSprintNameLength is the longest sprint name the tracker accepts
const MaxSprintNameLength = 30

const isoLayout = "2006-01-02T15:04:05.000Z"

var durationPrefix = regexp.MustCompile(`^.* - `)

var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"02-01-2006",
	"2006/01/02",
	"02/01/06",
}

// TruncateSprintName shortens names longer than MaxSprintNameLength to
// 27 characters followed by an ellipsis.
func TruncateSprintName(name string) string {
	if utf8.RuneCountInString(name) <= MaxSprintNameLength {
		return name
	}
	runes := []rune(name)
	return string(runes[:MaxSprintNameLength-3]) + "..."
}

// ToISODate normalises a loosely written date to ISO-8601 at UTC midnight.
// Values that cannot be parsed become now.
func ToISODate(value string, now time.Time) string {
	t, ok := ParseLooseDate(value)
	if !ok {
		t = now
	}
	return t.UTC().Format(isoLayout)
}

// ParseLooseDate reads DD/MM/YYYY after dropping any "<duration> - " prefix,
// falling back to a handful of common layouts.
func ParseLooseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(durationPrefix.ReplaceAllString(strings.TrimSpace(value), ""))
	if value == "" {
		return time.Time{}, false
	}

	if parts := strings.Split(value, "/"); len(parts) == 3 {
		day, errD := strconv.Atoi(strings.TrimSpace(parts[0]))
		month, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
		year, errY := strconv.Atoi(strings.TrimSpace(parts[2]))
		if errD == nil && errM == nil && errY == nil {
			t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			if t.Day() == day && int(t.Month()) == month {
				return t, true
			}
		}
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
