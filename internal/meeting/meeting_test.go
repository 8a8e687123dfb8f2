package meeting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetbot/internal/schedule"
	"meetbot/internal/template"
	"meetbot/internal/tracker"
)

type fakeTracker struct {
	open    []tracker.Issue
	created []tracker.Issue
	updated map[int]string
	listErr error
}

func (f *fakeTracker) ListOpenIssues(context.Context, string, string, []string) ([]tracker.Issue, error) {
	return f.open, f.listErr
}

func (f *fakeTracker) CreateIssue(_ context.Context, _, _ string, title, body string, labels []string) (tracker.Issue, error) {
	issue := tracker.Issue{Number: len(f.created) + 1, Title: title, State: "open", Labels: labels}
	f.created = append(f.created, issue)
	return issue, nil
}

func (f *fakeTracker) UpdateIssueBody(_ context.Context, _, _ string, number int, body string) (tracker.Issue, error) {
	if f.updated == nil {
		f.updated = make(map[int]string)
	}
	f.updated[number] = body
	return tracker.Issue{Number: number, State: "open"}, nil
}

func baseOptions(now time.Time) Options {
	return Options{
		Owner:         "acme",
		Repo:          "widgets",
		Schedules:     []string{"2020-04-02T17:00:00Z/P28D"},
		CreateWithin:  schedule.Duration{Days: 1},
		MeetingLabels: []string{"meeting"},
		AgendaLabel:   "meeting-agenda",
		TitlePattern:  `Weekly Meeting {{ .Date.Format "2006-01-02" }}`,
		Now:           now,
	}
}

func TestDecideNotDue(t *testing.T) {
	// Next occurrence is 2020-04-30; two weeks out with a one-day window.
	now := time.Date(2020, 4, 16, 0, 0, 0, 0, time.UTC)
	ft := &fakeTracker{}

	d, err := Decide(context.Background(), ft, baseOptions(now))
	require.NoError(t, err)
	assert.Equal(t, NotDue, d.Status)
	assert.Equal(t, time.Date(2020, 4, 30, 17, 0, 0, 0, time.UTC), d.Next.UTC())
	assert.Nil(t, d.Draft)
}

func TestDecideDueNew(t *testing.T) {
	now := time.Date(2020, 4, 30, 0, 0, 0, 0, time.UTC)
	ft := &fakeTracker{}

	d, err := Decide(context.Background(), ft, baseOptions(now))
	require.NoError(t, err)
	assert.Equal(t, DueNew, d.Status)
	require.NotNil(t, d.Draft)
	assert.Equal(t, "Weekly Meeting 2020-04-30", d.Draft.Title)
	assert.Equal(t, "acme", d.Draft.Owner)
	assert.Equal(t, []string{"meeting"}, d.Draft.Labels)
	assert.Equal(t, time.Date(2020, 4, 30, 17, 0, 0, 0, time.UTC), d.Draft.Date.UTC())
}

func TestDecideDueExistsIsIdempotent(t *testing.T) {
	now := time.Date(2020, 4, 30, 0, 0, 0, 0, time.UTC)
	ft := &fakeTracker{open: []tracker.Issue{
		{Number: 7, Title: "Weekly Meeting 2020-04-30", State: "open"},
	}}

	d, err := Decide(context.Background(), ft, baseOptions(now))
	require.NoError(t, err)
	assert.Equal(t, DueExists, d.Status)
	require.NotNil(t, d.Existing)
	assert.Equal(t, 7, d.Existing.Number)
	assert.Nil(t, d.Draft)
}

func TestDecideTitleMatchIsExact(t *testing.T) {
	now := time.Date(2020, 4, 30, 0, 0, 0, 0, time.UTC)
	ft := &fakeTracker{open: []tracker.Issue{
		{Number: 7, Title: "weekly meeting 2020-04-30", State: "open"},
	}}

	d, err := Decide(context.Background(), ft, baseOptions(now))
	require.NoError(t, err)
	assert.Equal(t, DueNew, d.Status, "matching is exact, not fuzzy")
}

func TestDecidePropagatesScheduleErrors(t *testing.T) {
	now := time.Date(2020, 4, 30, 0, 0, 0, 0, time.UTC)
	opts := baseOptions(now)
	opts.Schedules = []string{"2020-04-02T17:00:00+05:00/P28D"}

	_, err := Decide(context.Background(), &fakeTracker{}, opts)
	var fe *schedule.FormatError
	require.ErrorAs(t, err, &fe)
}

func TestCreateAndFinalize(t *testing.T) {
	now := time.Date(2020, 4, 30, 0, 0, 0, 0, time.UTC)
	ft := &fakeTracker{}

	d, err := Decide(context.Background(), ft, baseOptions(now))
	require.NoError(t, err)
	require.Equal(t, DueNew, d.Status)

	issue, err := Create(context.Background(), ft, *d.Draft)
	require.NoError(t, err)
	require.Len(t, ft.created, 1)

	_, err = Finalize(context.Background(), ft, template.Builtin(), *d.Draft, issue, "https://hackmd.io/xyz", "")
	require.NoError(t, err)

	body := ft.updated[issue.Number]
	assert.Contains(t, body, "* Minutes: https://hackmd.io/xyz")
	assert.Contains(t, body, "## Date/Time")
}
