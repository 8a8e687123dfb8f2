package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseZonedAnchor(t *testing.T) {
	sc, err := Parse("2020-04-02T17:00:00[America/Chicago]/P28D")
	require.NoError(t, err)

	assert.Equal(t, "America/Chicago", sc.Zone)
	// April 2nd 2020 is CDT, UTC-5.
	assert.Equal(t, time.Date(2020, 4, 2, 22, 0, 0, 0, time.UTC), sc.Anchor.UTC())
	assert.Equal(t, Duration{Days: 28}, sc.Every)
}

func TestParseUTCAnchor(t *testing.T) {
	sc, err := Parse("2020-04-02T17:00:00Z/P2W")
	require.NoError(t, err)

	assert.Equal(t, "UTC", sc.Zone)
	assert.Equal(t, time.Date(2020, 4, 2, 17, 0, 0, 0, time.UTC), sc.Anchor.UTC())
	assert.Equal(t, Duration{Weeks: 2}, sc.Every)
}

func TestParseRejectsOffsets(t *testing.T) {
	inputs := []string{
		"2020-04-02T17:00:00+05:30/P7D",
		"2020-04-02T17:00:00-0600/P7D",
		"2020-04-02T17:00:00+02:00[Europe/Amsterdam]/P7D",
	}
	for _, in := range inputs {
		_, err := Parse(in)
		var fe *FormatError
		require.ErrorAs(t, err, &fe, "input %q", in)
		assert.Contains(t, fe.Error(), "offset usage is not allowed")
		assert.Contains(t, fe.Error(), "America/Chicago", "guidance text should show the zoned form")
	}
}

func TestParseRejectsAmbiguousCivilTime(t *testing.T) {
	_, err := Parse("2020-04-02T17:00:00/P7D")
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Error(), "2020-04-02T17:00:00")
}

func TestParseRejectsMalformedBrackets(t *testing.T) {
	_, err := Parse("2020-04-02T17:00:00[America/Chicago/P7D")
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
}

func TestParseRejectsUnknownZone(t *testing.T) {
	_, err := Parse("2020-04-02T17:00:00[Mars/Olympus_Mons]/P7D")
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Error(), "Mars/Olympus_Mons")
}

func TestParseRejectsMissingDuration(t *testing.T) {
	// No '/' means the whole string lands in the duration slot.
	_, err := Parse("2020-04-02T17:00:00Z")
	var de *DurationError
	require.ErrorAs(t, err, &de)

	_, err = Parse("2020-04-02T17:00:00Z/")
	require.ErrorAs(t, err, &de)
}

func TestDefaultFor(t *testing.T) {
	now := time.Date(2020, 4, 3, 13, 0, 0, 0, time.UTC)
	sc, err := Parse(DefaultFor(now))
	require.NoError(t, err)
	assert.True(t, sc.Anchor.Equal(now))
	assert.Equal(t, Duration{Days: 7}, sc.Every)
}
