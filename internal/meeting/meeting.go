// Package meeting decides whether the next meeting-tracking issue is due
// and assembles the issue to create. The decision itself performs no
// writes, so it is safe to call for dry runs; creation is the caller's
// explicit second step.
package meeting

import (
	"context"
	"time"

	"meetbot/internal/log"
	"meetbot/internal/schedule"
	"meetbot/internal/template"
	"meetbot/internal/tracker"
)

// Tracker is the slice of the issue repository the decision and creation
// steps need.
type Tracker interface {
	ListOpenIssues(ctx context.Context, owner, repo string, labels []string) ([]tracker.Issue, error)
	CreateIssue(ctx context.Context, owner, repo, title, body string, labels []string) (tracker.Issue, error)
	UpdateIssueBody(ctx context.Context, owner, repo string, number int, body string) (tracker.Issue, error)
}

// Status is the outcome of the due decision.
type Status int

const (
	// NotDue: the next occurrence is further out than the look-ahead
	// window; nothing to do yet.
	NotDue Status = iota
	// DueExists: a meeting is due but an open issue with the exact
	// computed title already exists; nothing to do. Exact title match is
	// the sole duplicate-prevention mechanism.
	DueExists
	// DueNew: a meeting is due and no issue exists yet.
	DueNew
)

func (s Status) String() string {
	switch s {
	case NotDue:
		return "not-due"
	case DueExists:
		return "due-exists"
	case DueNew:
		return "due-new"
	default:
		return "unknown"
	}
}

// Options parameterizes one decision.
type Options struct {
	Owner         string
	Repo          string
	Schedules     []string
	CreateWithin  schedule.Duration // how far ahead of due-time to act
	MeetingLabels []string
	AgendaLabel   string
	TitlePattern  string
	MeetingLink   string
	Agenda        []tracker.Item
	Now           time.Time // zero means time.Now()
}

// Decision is the result of Decide.
type Decision struct {
	Status   Status
	Next     time.Time      // resolved next occurrence
	Title    string         // computed issue title
	Existing *tracker.Issue // set when Status == DueExists
	Draft    *Draft         // set when Status == DueNew
}

// Draft is a fully populated issue ready for creation.
type Draft struct {
	Owner       string
	Repo        string
	Title       string
	Date        time.Time
	Labels      []string
	AgendaLabel string
	Agenda      []tracker.Item
	MeetingLink string
}

// Decide resolves the next occurrence across the configured schedules and
// runs the due/duplicate checks against the tracker.
func Decide(ctx context.Context, t Tracker, opts Options) (Decision, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	next, err := schedule.Resolve(opts.Schedules, now)
	if err != nil {
		return Decision{}, err
	}
	title := template.Title(opts.TitlePattern, next)
	decision := Decision{Next: next, Title: title}

	deadline := opts.CreateWithin.AddTo(now, time.UTC)
	if next.After(deadline) {
		decision.Status = NotDue
		log.Info("next meeting is outside the creation window",
			"next", next.Format(time.RFC3339), "deadline", deadline.Format(time.RFC3339))
		return decision, nil
	}

	open, err := t.ListOpenIssues(ctx, opts.Owner, opts.Repo, opts.MeetingLabels)
	if err != nil {
		return Decision{}, err
	}
	log.Debug("checking for existing meeting issue", "title", title, "open", len(open))
	for _, issue := range open {
		if issue.Title == title {
			decision.Status = DueExists
			existing := issue
			decision.Existing = &existing
			log.Info("meeting issue already exists", "number", issue.Number, "title", issue.Title)
			return decision, nil
		}
	}

	decision.Status = DueNew
	decision.Draft = &Draft{
		Owner:       opts.Owner,
		Repo:        opts.Repo,
		Title:       title,
		Date:        next,
		Labels:      opts.MeetingLabels,
		AgendaLabel: opts.AgendaLabel,
		Agenda:      opts.Agenda,
		MeetingLink: opts.MeetingLink,
	}
	return decision, nil
}

// Create opens the issue for a draft with a placeholder body. The final
// body is rendered afterwards, once the issue number and notes link exist,
// and applied with Finalize.
func Create(ctx context.Context, t Tracker, d Draft) (tracker.Issue, error) {
	return t.CreateIssue(ctx, d.Owner, d.Repo, d.Title, "", d.Labels)
}

// Finalize renders the body for a created issue and writes it back.
func Finalize(ctx context.Context, t Tracker, tmpl template.Template, d Draft, issue tracker.Issue, notesLink, inviteICS string) (tracker.Issue, error) {
	body, err := tmpl.Render(d.TemplateContext(issue.Number, notesLink, inviteICS))
	if err != nil {
		return tracker.Issue{}, err
	}
	return t.UpdateIssueBody(ctx, d.Owner, d.Repo, issue.Number, body)
}

// TemplateContext builds the render context for a draft.
func (d Draft) TemplateContext(issueNumber int, notesLink, inviteICS string) template.Context {
	return template.Context{
		Title:       d.Title,
		Date:        d.Date,
		Owner:       d.Owner,
		Repo:        d.Repo,
		AgendaLabel: d.AgendaLabel,
		Agenda:      d.Agenda,
		MeetingLink: d.MeetingLink,
		NotesLink:   notesLink,
		IssueNumber: issueNumber,
		InviteICS:   inviteICS,
	}
}
