package template

import (
	"strings"
	texttemplate "text/template"
	"time"

	"meetbot/internal/log"
)

// titleData is what a title pattern may reference, e.g.
// `Weekly Meeting {{ .Date.Format "2006-01-02" }}`.
type titleData struct {
	Date time.Time
}

// Title renders an issue title from a pattern and the resolved meeting
// date. A pattern that fails to parse or execute is used literally; a bad
// title pattern should never block issue creation.
func Title(pattern string, date time.Time) string {
	tmpl, err := texttemplate.New("title").Parse(pattern)
	if err != nil {
		log.Debug("title pattern is not a template, using it literally", "pattern", pattern)
		return pattern
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, titleData{Date: date}); err != nil {
		log.Debug("title pattern failed to execute, using it literally", "pattern", pattern)
		return pattern
	}
	return b.String()
}
