package schedule

import (
	"fmt"
	"time"
)

// maxAdvanceSteps caps the advancement loop so a pathological anchor far in
// the past cannot spin unbounded. A daily cadence anchored 250 years back
// still fits under the cap.
const maxAdvanceSteps = 100_000

// Next returns the schedule's first occurrence strictly after now: the
// anchor plus the smallest non-negative whole number of repeats that lands
// past now. Each repeat is added in the schedule's timezone, so the
// occurrence keeps its local wall-clock time across DST transitions.
func (s Schedule) Next(now time.Time) (time.Time, error) {
	if !s.Every.Positive() {
		return time.Time{}, &DurationError{Input: s.Every.String(), Reason: "duration must be positive"}
	}

	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}

	next := s.Anchor
	for steps := 0; !next.After(now); steps++ {
		if steps >= maxAdvanceSteps {
			return time.Time{}, fmt.Errorf("schedule %s anchored at %s needs more than %d repeats to reach %s",
				s.Every, s.Anchor.Format(time.RFC3339), maxAdvanceSteps, now.Format(time.RFC3339))
		}
		next = s.Every.AddTo(next, loc)
	}
	return next, nil
}
