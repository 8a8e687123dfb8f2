// Package template renders meeting issue and notes bodies. Templates come
// in two explicit flavors: Static text rendered as-is with marker
// substitution, and Dynamic functions of the render context. The built-in
// issue and notes templates are Dynamic.
package template

import (
	"fmt"
	"strings"
	"time"

	"meetbot/internal/tracker"
)

// Context carries everything a template may reference.
type Context struct {
	Title       string
	Date        time.Time
	Owner       string
	Repo        string
	AgendaLabel string
	Agenda      []tracker.Item
	MeetingLink string
	NotesLink   string
	IssueNumber int
	InviteICS   string // optional serialized calendar invite
}

// Template produces a body from a render context.
type Template interface {
	Render(Context) (string, error)
}

// CompileError reports a user-supplied template that could not be loaded or
// parsed. Callers recover by falling back to the built-in template.
type CompileError struct {
	Name string
	Err  error
}

func (e *CompileError) Error() string { return fmt.Sprintf("template %s: %v", e.Name, e.Err) }

func (e *CompileError) Unwrap() error { return e.Err }

// Static is a fixed body with marker substitution: occurrences of
// "<!-- title -->", "<!-- agenda label -->", "<!-- agenda -->",
// "<!-- meeting link -->" and "<!-- notes -->" are replaced with the
// corresponding context values. Markers that are absent are simply left
// alone, so any markdown file is a valid Static template.
type Static string

func (s Static) Render(ctx Context) (string, error) {
	replacer := strings.NewReplacer(
		"<!-- title -->", ctx.Title,
		"<!-- agenda label -->", ctx.AgendaLabel,
		"<!-- agenda -->", agendaList(ctx.Agenda),
		"<!-- meeting link -->", ctx.MeetingLink,
		"<!-- notes -->", ctx.NotesLink,
	)
	return replacer.Replace(string(s)), nil
}

// Dynamic renders by calling a function.
type Dynamic func(Context) (string, error)

func (d Dynamic) Render(ctx Context) (string, error) { return d(ctx) }

func agendaList(items []tracker.Item) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "* "+item.URL)
	}
	return strings.Join(lines, "\n")
}
