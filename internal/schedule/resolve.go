package schedule

import "time"

// Resolve maps every schedule string to its next occurrence after now and
// returns the earliest one. Empty entries (and an empty list) fall back to
// DefaultFor(now). Any malformed entry fails the whole resolution with that
// entry's error; no partial result is produced. On an exact tie the earlier
// entry in input order wins.
func Resolve(entries []string, now time.Time) (time.Time, error) {
	if len(entries) == 0 {
		entries = []string{DefaultFor(now)}
	}

	var earliest time.Time
	for _, entry := range entries {
		if entry == "" {
			entry = DefaultFor(now)
		}
		sc, err := Parse(entry)
		if err != nil {
			return time.Time{}, err
		}
		occ, err := sc.Next(now)
		if err != nil {
			return time.Time{}, err
		}
		if earliest.IsZero() || occ.Before(earliest) {
			earliest = occ
		}
	}
	return earliest, nil
}
