package template

import (
	"strings"
	texttemplate "text/template"
	"time"

	"meetbot/internal/log"
)

// displayZones is the fixed set of timezones shown in the issue's date
// table, west to east.
var displayZones = []string{
	"America/Los_Angeles",
	"America/Denver",
	"America/Chicago",
	"America/New_York",
	"Europe/London",
	"Europe/Amsterdam",
	"Europe/Moscow",
	"Asia/Kolkata",
	"Asia/Shanghai",
	"Asia/Tokyo",
	"Australia/Sydney",
}

const issueBody = `## Date/Time

| Timezone | Date/Time |
|----------|-----------|
{{- range .Rows }}
| {{ .Zone }} | {{ .When }} |
{{- end }}

Or in your local time:

* https://www.timeanddate.com/worldclock/?iso={{ .ISO }}

## Agenda

Extracted from **{{ .AgendaLabel }}** labelled issues and pull requests from **{{ .Owner }}/{{ .Repo }}** prior to the meeting.

{{ range .Agenda }}* {{ .URL }}
{{ end }}
## Links

* Minutes: {{ .NotesLink }}

## Joining the meeting

* link for participants: {{ .MeetingLink }}
{{ if .InviteICS }}
<details>
<summary>Calendar invite (.ics)</summary>

` + "```" + `
{{ .InviteICS }}
` + "```" + `

</details>
{{ end }}
---

Please use the following emoji reactions in this post to indicate your
availability.

* 👍 - Attending
* 👎 - Not attending
* 😕 - Not sure yet
`

const notesBody = `# {{ .Title }}

## Links

  * **Recording**:
  * **GitHub Issue**: https://github.com/{{ .Owner }}/{{ .Repo }}/issues/{{ .IssueNumber }}

## Present

  *

## Agenda

{{ range .Agenda }}* {{ .URL }}
{{ end }}
## Announcements
`

var (
	issueTmpl = texttemplate.Must(texttemplate.New("issue").Parse(issueBody))
	notesTmpl = texttemplate.Must(texttemplate.New("notes").Parse(notesBody))
)

type zoneRow struct {
	Zone string
	When string
}

type issueView struct {
	Context
	Rows []zoneRow
	ISO  string
}

// Builtin is the default meeting issue template.
func Builtin() Template {
	return Dynamic(func(ctx Context) (string, error) {
		view := issueView{
			Context: ctx,
			Rows:    zoneRows(ctx.Date),
			ISO:     ctx.Date.UTC().Format("2006-01-02T15:04:05"),
		}
		var b strings.Builder
		if err := issueTmpl.Execute(&b, view); err != nil {
			return "", err
		}
		return b.String(), nil
	})
}

// BuiltinNotes is the default collaborative-notes skeleton.
func BuiltinNotes() Template {
	return Dynamic(func(ctx Context) (string, error) {
		var b strings.Builder
		if err := notesTmpl.Execute(&b, ctx); err != nil {
			return "", err
		}
		return b.String(), nil
	})
}

func zoneRows(date time.Time) []zoneRow {
	rows := make([]zoneRow, 0, len(displayZones))
	for _, zone := range displayZones {
		loc, err := time.LoadLocation(zone)
		if err != nil {
			// Zone database entries can disappear between tzdata
			// versions; skip the row rather than fail the render.
			log.Error("skipping unknown display zone", err, "zone", zone)
			continue
		}
		rows = append(rows, zoneRow{
			Zone: zone,
			When: date.In(loc).Format("Mon, Jan 02, 2006, 03:04 PM"),
		})
	}
	return rows
}
