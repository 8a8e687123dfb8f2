// Package tracker talks to the GitHub issue tracker: meeting issues, agenda
// items, template files, and repository discussions. All other packages
// consume it through small interfaces of their own, so tests never need a
// live tracker.
package tracker

import (
	"errors"
	"fmt"
)

// Issue is a tracker issue in the shape the rest of the system cares about.
type Issue struct {
	Number int
	Title  string
	State  string
	URL    string
	Labels []string
}

// Item is an agenda candidate: a labelled issue, pull request, or
// discussion. Identity is the URL.
type Item struct {
	URL    string
	Title  string
	Labels []string
}

// Repo identifies one source repository.
type Repo struct {
	Owner string
	Name  string
}

func (r Repo) String() string { return r.Owner + "/" + r.Name }

// ErrNotFound reports a missing file or resource, distinct from transport
// and auth failures so callers can fall back instead of aborting.
var ErrNotFound = errors.New("tracker: not found")

// AccessError wraps a tracker failure (network, auth, unexpected status).
// It is fatal for the run: no step recovers from it.
type AccessError struct {
	Op  string
	Err error
}

func (e *AccessError) Error() string { return fmt.Sprintf("tracker: %s: %v", e.Op, e.Err) }

func (e *AccessError) Unwrap() error { return e.Err }
