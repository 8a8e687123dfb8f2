package schedule

import (
	"strconv"
	"strings"
	"time"
)

// Duration is an ISO-8601 calendar duration. Calendar units (years, months,
// weeks, days) are kept separate from the clock part because they must be
// added at the civil level: adding P1D across a DST transition preserves the
// local wall-clock hour, which a flat time.Duration cannot express.
type Duration struct {
	Years  int
	Months int
	Weeks  int
	Days   int
	Clock  time.Duration // the T part: hours, minutes, seconds
}

// ParseDuration parses an ISO-8601 duration such as "P28D", "P2W" or
// "P1DT12H". At least one component is required, and the total must be
// positive: a zero or negative duration would spin the occurrence advancer
// forever, so it is rejected here rather than guarded at every call site.
func ParseDuration(s string) (Duration, error) {
	var d Duration

	if s == "" {
		return d, &DurationError{Input: s, Reason: "duration is empty"}
	}
	if strings.HasPrefix(s, "-") {
		return d, &DurationError{Input: s, Reason: "negative durations are not allowed"}
	}
	rest, ok := strings.CutPrefix(s, "P")
	if !ok {
		return d, &DurationError{Input: s, Reason: "duration must start with 'P'"}
	}
	if rest == "" {
		return d, &DurationError{Input: s, Reason: "duration has no components"}
	}

	datePart := rest
	timePart := ""
	if i := strings.IndexByte(rest, 'T'); i >= 0 {
		datePart, timePart = rest[:i], rest[i+1:]
		if timePart == "" {
			return d, &DurationError{Input: s, Reason: "'T' must be followed by a time component"}
		}
	}

	seen := false
	for datePart != "" {
		n, unit, tail, err := cutComponent(datePart)
		if err != nil {
			return d, &DurationError{Input: s, Reason: err.Error()}
		}
		switch unit {
		case 'Y':
			d.Years = n
		case 'M':
			d.Months = n
		case 'W':
			d.Weeks = n
		case 'D':
			d.Days = n
		default:
			return d, &DurationError{Input: s, Reason: "unknown date unit '" + string(unit) + "'"}
		}
		seen = true
		datePart = tail
	}

	for timePart != "" {
		n, unit, tail, err := cutComponent(timePart)
		if err != nil {
			return d, &DurationError{Input: s, Reason: err.Error()}
		}
		switch unit {
		case 'H':
			d.Clock += time.Duration(n) * time.Hour
		case 'M':
			d.Clock += time.Duration(n) * time.Minute
		case 'S':
			d.Clock += time.Duration(n) * time.Second
		default:
			return d, &DurationError{Input: s, Reason: "unknown time unit '" + string(unit) + "'"}
		}
		seen = true
		timePart = tail
	}

	if !seen {
		return d, &DurationError{Input: s, Reason: "duration has no components"}
	}
	if !d.Positive() {
		return d, &DurationError{Input: s, Reason: "duration must be positive"}
	}
	return d, nil
}

// cutComponent splits one leading "<digits><unit>" pair off s.
func cutComponent(s string) (n int, unit byte, tail string, err error) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		n = n*10 + int(s[i]-'0')
		i++
	}
	if i == 0 {
		return 0, 0, "", errDurationDigits(s)
	}
	if i == len(s) {
		return 0, 0, "", errDurationUnit(s)
	}
	return n, s[i], s[i+1:], nil
}

type durationScanError string

func (e durationScanError) Error() string { return string(e) }

func errDurationDigits(at string) error {
	return durationScanError("expected digits at " + quoteTail(at))
}

func errDurationUnit(at string) error {
	return durationScanError("missing unit after digits at " + quoteTail(at))
}

func quoteTail(s string) string {
	if len(s) > 8 {
		s = s[:8]
	}
	return "'" + s + "'"
}

// Positive reports whether the duration advances time at all. Components are
// never negative after parsing, so any non-zero component suffices.
func (d Duration) Positive() bool {
	return d.Years > 0 || d.Months > 0 || d.Weeks > 0 || d.Days > 0 || d.Clock > 0
}

// AddTo adds the duration to t at the civil level in loc. Calendar units go
// through AddDate, which normalizes against the zone database, so a nominal
// day across a spring-forward or fall-back transition keeps its wall-clock
// hour. The clock part is exact elapsed time and is added as-is.
func (d Duration) AddTo(t time.Time, loc *time.Location) time.Time {
	next := t.In(loc).AddDate(d.Years, d.Months, d.Weeks*7+d.Days)
	if d.Clock != 0 {
		next = next.Add(d.Clock)
	}
	return next
}

func (d Duration) String() string {
	var b strings.Builder
	b.WriteByte('P')
	writeUnit := func(n int, u byte) {
		if n > 0 {
			b.WriteString(strconv.Itoa(n))
			b.WriteByte(u)
		}
	}
	writeUnit(d.Years, 'Y')
	writeUnit(d.Months, 'M')
	writeUnit(d.Weeks, 'W')
	writeUnit(d.Days, 'D')
	if d.Clock > 0 {
		b.WriteByte('T')
		c := d.Clock
		writeUnit(int(c/time.Hour), 'H')
		c %= time.Hour
		writeUnit(int(c/time.Minute), 'M')
		c %= time.Minute
		writeUnit(int(c/time.Second), 'S')
	}
	if b.Len() == 1 {
		return "P0D"
	}
	return b.String()
}
