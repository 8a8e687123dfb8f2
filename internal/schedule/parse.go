// Package schedule implements the recurring-schedule notation used to plan
// meetings: "<anchor>/<duration>", where the anchor is either a UTC instant
// ("2020-04-02T17:00:00Z") or a civil timestamp with a bracketed IANA zone
// ("2020-04-02T17:00:00[America/Chicago]") and the duration is an ISO-8601
// calendar duration ("P28D", "P2W"). Occurrences repeat by adding the
// duration to the anchor in the schedule's own timezone, so wall-clock times
// survive daylight-saving transitions.
package schedule

import (
	"regexp"
	"strings"
	"time"
)

// Schedule is one parsed recurrence. The anchor is always an unambiguous
// absolute instant; no civil-time ambiguity survives parsing.
type Schedule struct {
	Anchor   time.Time
	Zone     string // IANA identifier, or "UTC" for Z anchors
	Location *time.Location
	Every    Duration
}

var (
	// offsetPattern matches numeric UTC offsets such as "+05:30" or "-0600".
	// Offsets are rejected outright: an explicit offset is redundant next to
	// a zone identifier and ambiguous under DST on its own.
	offsetPattern = regexp.MustCompile(`[+-]\d{2}:?\d{2}`)
	zonePattern   = regexp.MustCompile(`\[([^\]]+)\]$`)
)

// civil timestamp layouts accepted inside a zoned anchor.
var civilLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Parse parses one schedule string. The string is split on its last '/',
// since zone identifiers such as America/Chicago contain slashes themselves.
func Parse(s string) (Schedule, error) {
	anchorStr, durStr := splitSchedule(s)

	every, err := ParseDuration(durStr)
	if err != nil {
		return Schedule{}, err
	}

	anchor, zone, loc, err := parseAnchor(anchorStr)
	if err != nil {
		return Schedule{}, err
	}

	return Schedule{Anchor: anchor, Zone: zone, Location: loc, Every: every}, nil
}

func splitSchedule(s string) (anchor, duration string) {
	i := strings.LastIndexByte(s, '/')
	if i < 0 {
		return "", s
	}
	return s[:i], s[i+1:]
}

func parseAnchor(s string) (time.Time, string, *time.Location, error) {
	if offsetPattern.MatchString(s) {
		return time.Time{}, "", nil, &FormatError{
			Input:  s,
			Reason: "offset usage is not allowed because it's ambiguous",
		}
	}

	zm := zonePattern.FindStringSubmatch(s)
	hasUTC := strings.HasSuffix(s, "Z")

	switch {
	case zm != nil:
		civil := s[:len(s)-len(zm[0])]
		loc, err := time.LoadLocation(zm[1])
		if err != nil {
			return time.Time{}, "", nil, &FormatError{Input: s, Reason: "unknown timezone " + zm[1]}
		}
		for _, layout := range civilLayouts {
			if t, err := time.ParseInLocation(layout, civil, loc); err == nil {
				return t, zm[1], loc, nil
			}
		}
		return time.Time{}, "", nil, &FormatError{Input: s, Reason: "malformed timestamp"}

	case hasUTC:
		for _, layout := range civilLayouts {
			if t, err := time.ParseInLocation(layout+"Z", s, time.UTC); err == nil {
				return t, "UTC", time.UTC, nil
			}
		}
		return time.Time{}, "", nil, &FormatError{Input: s, Reason: "malformed timestamp"}

	case strings.Contains(s, "["):
		return time.Time{}, "", nil, &FormatError{Input: s, Reason: "malformed timezone brackets"}

	default:
		// Bare civil time with neither a zone nor 'Z' is ambiguous.
		return time.Time{}, "", nil, &FormatError{Input: s}
	}
}

// DefaultFor builds the fallback schedule for a missing or empty entry:
// a 7-day cadence anchored at the supplied now.
func DefaultFor(now time.Time) string {
	return now.UTC().Format("2006-01-02T15:04:05Z") + "/P7D"
}
