package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"meetbot/internal/agenda"
	"meetbot/internal/config"
	"meetbot/internal/invite"
	"meetbot/internal/log"
	"meetbot/internal/meeting"
	"meetbot/internal/notes"
	"meetbot/internal/schedule"
	"meetbot/internal/template"
	"meetbot/internal/tracker"
)

func newRunCmd(flags *rootFlags) *cobra.Command {
	var (
		dryRun bool
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Create the next meeting issue if one is due",
		Long: `Resolves the configured schedules, assembles the agenda, and creates the
next meeting-tracking issue when its occurrence falls inside the creation
window. Runs once and exits; with --watch it re-runs on the configured cron
expression instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			if !watch {
				return runOnce(ctx, cfg, dryRun)
			}
			return runWatch(ctx, cfg, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Decide and report, but create nothing")
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep running on the configured cron expression")

	return cmd
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// runWatch re-runs the pipeline on the config's cron expression until the
// context is cancelled. A failed run logs and waits for the next tick.
func runWatch(ctx context.Context, cfg *config.Config, dryRun bool) error {
	if err := runOnce(ctx, cfg, dryRun); err != nil {
		log.Error("run failed, waiting for next tick", err)
	}

	c := cron.New()
	_, err := c.AddFunc(cfg.Watch, func() {
		if err := runOnce(ctx, cfg, dryRun); err != nil {
			log.Error("run failed, waiting for next tick", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid watch expression %q: %w", cfg.Watch, err)
	}

	log.Info("watching", "cron", cfg.Watch)
	c.Start()
	<-ctx.Done()

	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
	}
	log.Info("meetbot exiting")
	return nil
}

// runOnce executes one full pipeline pass: agenda, decision, creation.
func runOnce(ctx context.Context, cfg *config.Config, dryRun bool) error {
	repo, ok := cfg.MeetingRepo()
	if !ok {
		return errors.New("no repositories configured")
	}
	if cfg.GitHub.Token == "" {
		return errors.New("no GitHub token configured (set GITHUB_TOKEN)")
	}

	client, err := tracker.New(ctx, cfg.GitHub.Token, cfg.GitHub.BaseURL)
	if err != nil {
		return err
	}

	createWithin, err := schedule.ParseDuration(cfg.CreateWithin)
	if err != nil {
		return fmt.Errorf("create_within: %w", err)
	}

	items, err := agenda.Collect(ctx, client, agenda.Options{
		Repos:       sourceRepos(cfg),
		Orgs:        cfg.Orgs,
		Label:       cfg.AgendaLabel,
		Discussions: cfg.Discussions,
	})
	if err != nil {
		return err
	}

	decision, err := meeting.Decide(ctx, client, meeting.Options{
		Owner:         repo.Owner,
		Repo:          repo.Name,
		Schedules:     cfg.Schedules,
		CreateWithin:  createWithin,
		MeetingLabels: cfg.MeetingLabels,
		AgendaLabel:   cfg.AgendaLabel,
		TitlePattern:  cfg.IssueTitle,
		MeetingLink:   cfg.MeetingLink,
		Agenda:        items,
	})
	if err != nil {
		return err
	}

	switch decision.Status {
	case meeting.NotDue, meeting.DueExists:
		log.Info("no issues to create", "status", decision.Status.String(),
			"next", decision.Next.Format(time.RFC3339), "title", decision.Title)
		return nil
	case meeting.DueNew:
		if dryRun {
			log.Info("dry run: would create issue", "title", decision.Draft.Title,
				"repo", repo.Owner+"/"+repo.Name, "agenda_items", len(decision.Draft.Agenda))
			return nil
		}
		return createMeeting(ctx, cfg, client, *decision.Draft)
	default:
		return fmt.Errorf("unexpected decision status %d", decision.Status)
	}
}

// createMeeting creates the issue, then fills in the body once the issue
// number and notes link exist.
func createMeeting(ctx context.Context, cfg *config.Config, client *tracker.Client, draft meeting.Draft) error {
	issue, err := meeting.Create(ctx, client, draft)
	if err != nil {
		return err
	}

	notesLink := ""
	if cfg.Notes.Create {
		notesLink = createNotes(ctx, cfg, client, draft, issue)
	}

	inviteICS := ""
	if cfg.Invite {
		ics, err := invite.Build(draft.Title, draft.Date, mustCadence(cfg.Schedules, draft.Date), cfg.MeetingLink)
		if err != nil {
			log.Error("continuing without calendar invite", err)
		} else {
			inviteICS = ics
		}
	}

	tmpl := issueTemplate(ctx, cfg, client, draft)
	updated, err := meeting.Finalize(ctx, client, tmpl, draft, issue, notesLink, inviteICS)
	if err != nil {
		// The compile taxonomy is handled inside issueTemplate; a render
		// failure here with the built-in template is a bug, not user input.
		return err
	}

	log.Info("issue created", "number", updated.Number, "title", issue.Title, "url", issue.URL)
	fmt.Printf("Issue created: (#%d) %s\n", issue.Number, issue.Title)
	return nil
}

// issueTemplate returns the user-configured template, falling back to the
// built-in one when the file is missing or unusable.
func issueTemplate(ctx context.Context, cfg *config.Config, client *tracker.Client, draft meeting.Draft) template.Template {
	if cfg.IssueTemplate == "" {
		return template.Builtin()
	}
	raw, err := client.FileContent(ctx, draft.Owner, draft.Repo, ".github/ISSUE_TEMPLATE/"+cfg.IssueTemplate, "")
	if err != nil {
		cerr := &template.CompileError{Name: cfg.IssueTemplate, Err: err}
		log.Error("falling back to built-in issue template", cerr)
		return template.Builtin()
	}
	return template.Static(raw)
}

// createNotes renders the notes skeleton and posts it, best-effort.
func createNotes(ctx context.Context, cfg *config.Config, client *tracker.Client, draft meeting.Draft, issue tracker.Issue) string {
	tmpl := template.Template(template.BuiltinNotes())
	if cfg.Notes.Template != "" {
		raw, err := client.FileContent(ctx, draft.Owner, draft.Repo, ".github/meet/"+cfg.Notes.Template, "")
		if err != nil {
			cerr := &template.CompileError{Name: cfg.Notes.Template, Err: err}
			log.Error("falling back to built-in notes template", cerr)
		} else {
			tmpl = template.Static(raw)
		}
	}

	body, err := tmpl.Render(draft.TemplateContext(issue.Number, "", ""))
	if err != nil {
		log.Error("continuing without a notes document", err)
		return ""
	}
	return notes.New(cfg.Notes.BaseURL).CreateBestEffort(ctx, body)
}

// mustCadence recovers the duration of the schedule that produced the
// resolved date, for the invite's recurrence rule. Falls back to the first
// parsable schedule's cadence.
func mustCadence(schedules []string, date time.Time) schedule.Duration {
	var fallback schedule.Duration
	for _, entry := range schedules {
		sc, err := schedule.Parse(entry)
		if err != nil {
			continue
		}
		if fallback == (schedule.Duration{}) {
			fallback = sc.Every
		}
		if next, err := sc.Next(date.Add(-time.Second)); err == nil && next.Equal(date) {
			return sc.Every
		}
	}
	if fallback == (schedule.Duration{}) {
		fallback = schedule.Duration{Days: 7}
	}
	return fallback
}

func sourceRepos(cfg *config.Config) []tracker.Repo {
	repos := make([]tracker.Repo, 0, len(cfg.Repos))
	for _, r := range cfg.Repos {
		repos = append(repos, tracker.Repo{Owner: r.Owner, Name: r.Name})
	}
	return repos
}
