package template

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetbot/internal/tracker"
)

func testContext() Context {
	return Context{
		Title:       "Weekly Meeting 2020-04-16",
		Date:        time.Date(2020, 4, 16, 13, 0, 0, 0, time.UTC),
		Owner:       "acme",
		Repo:        "widgets",
		AgendaLabel: "meeting-agenda",
		Agenda: []tracker.Item{
			{URL: "https://github.com/acme/widgets/issues/12"},
			{URL: "https://github.com/acme/widgets/pull/34"},
		},
		MeetingLink: "https://example.com/join",
		NotesLink:   "https://hackmd.io/abc",
		IssueNumber: 99,
	}
}

func TestBuiltinIssueTemplate(t *testing.T) {
	body, err := Builtin().Render(testContext())
	require.NoError(t, err)

	assert.Contains(t, body, "| America/Chicago | Thu, Apr 16, 2020, 08:00 AM |")
	assert.Contains(t, body, "| Asia/Tokyo | Thu, Apr 16, 2020, 10:00 PM |")
	assert.Contains(t, body, "https://www.timeanddate.com/worldclock/?iso=2020-04-16T13:00:00")
	assert.Contains(t, body, "**meeting-agenda** labelled issues")
	assert.Contains(t, body, "* https://github.com/acme/widgets/issues/12")
	assert.Contains(t, body, "* Minutes: https://hackmd.io/abc")
	assert.Contains(t, body, "* link for participants: https://example.com/join")
	assert.NotContains(t, body, "Calendar invite", "no invite section without ICS content")
}

func TestBuiltinIssueTemplateWithInvite(t *testing.T) {
	ctx := testContext()
	ctx.InviteICS = "BEGIN:VCALENDAR\nEND:VCALENDAR"

	body, err := Builtin().Render(ctx)
	require.NoError(t, err)
	assert.Contains(t, body, "Calendar invite (.ics)")
	assert.Contains(t, body, "BEGIN:VCALENDAR")
}

func TestBuiltinNotesTemplate(t *testing.T) {
	body, err := BuiltinNotes().Render(testContext())
	require.NoError(t, err)

	assert.Contains(t, body, "# Weekly Meeting 2020-04-16")
	assert.Contains(t, body, "https://github.com/acme/widgets/issues/99")
	assert.Contains(t, body, "* https://github.com/acme/widgets/pull/34")
}

func TestStaticMarkerSubstitution(t *testing.T) {
	raw := Static("# <!-- title -->\n\nAgenda (<!-- agenda label -->):\n<!-- agenda -->\n\nJoin: <!-- meeting link -->\n")
	body, err := raw.Render(testContext())
	require.NoError(t, err)

	assert.Contains(t, body, "# Weekly Meeting 2020-04-16")
	assert.Contains(t, body, "Agenda (meeting-agenda):")
	assert.Contains(t, body, "* https://github.com/acme/widgets/issues/12\n* https://github.com/acme/widgets/pull/34")
	assert.Contains(t, body, "Join: https://example.com/join")
}

func TestStaticLeavesPlainMarkdownAlone(t *testing.T) {
	raw := Static("no markers here")
	body, err := raw.Render(testContext())
	require.NoError(t, err)
	assert.Equal(t, "no markers here", body)
}

func TestTitle(t *testing.T) {
	date := time.Date(2020, 4, 16, 13, 0, 0, 0, time.UTC)

	assert.Equal(t, "Weekly Meeting 2020-04-16",
		Title(`Weekly Meeting {{ .Date.Format "2006-01-02" }}`, date))
	assert.Equal(t, "Team Sync", Title("Team Sync", date))
	// Broken patterns fall back to the literal string.
	assert.Equal(t, "Meeting {{ .Date.Format", Title("Meeting {{ .Date.Format", date))
}
