package schedule

import "fmt"

// guidance is appended to every format error so users can see the two
// accepted anchor forms side by side.
const guidance = "use either a timezone identifier (e.g., 2020-04-02T17:00:00[America/Chicago]) or UTC (e.g., 2020-04-02T17:00:00Z)"

// FormatError reports a malformed schedule anchor: a missing or unknown
// timezone, a disallowed numeric offset, or a malformed bracket.
type FormatError struct {
	Input  string // the offending anchor substring
	Reason string
}

func (e *FormatError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid schedule format %q: %s", e.Input, guidance)
	}
	return fmt.Sprintf("invalid schedule format %q: %s. %s", e.Input, e.Reason, guidance)
}

// DurationError reports a missing, malformed, or non-positive duration
// segment of a schedule string.
type DurationError struct {
	Input  string // the offending duration substring
	Reason string
}

func (e *DurationError) Error() string {
	return fmt.Sprintf("invalid schedule duration %q: %s", e.Input, e.Reason)
}
