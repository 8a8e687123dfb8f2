package tracker

import (
	"errors"
	"net/http"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessErrorWraps(t *testing.T) {
	cause := errors.New("boom")
	err := &AccessError{Op: "list issues", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "list issues")
}

func TestClassify(t *testing.T) {
	cause := errors.New("status")
	resp := func(code int) *github.Response {
		return &github.Response{Response: &http.Response{StatusCode: code}}
	}

	// Client errors are permanent: retrying a 404 or 422 never helps.
	var perm *backoff.PermanentError
	require.ErrorAs(t, classify(resp(http.StatusNotFound), cause), &perm)
	require.ErrorAs(t, classify(resp(http.StatusUnprocessableEntity), cause), &perm)

	// Server errors, rate limits, and transport failures stay retryable.
	assert.NotErrorAs(t, classify(resp(http.StatusBadGateway), cause), &perm)
	assert.NotErrorAs(t, classify(resp(http.StatusForbidden), cause), &perm)
	assert.NotErrorAs(t, classify(resp(http.StatusTooManyRequests), cause), &perm)
	assert.NotErrorAs(t, classify(nil, cause), &perm)
}

func TestFromIssue(t *testing.T) {
	issue := &github.Issue{
		Number:  github.Int(41),
		Title:   github.String("Weekly Meeting 2020-04-30"),
		State:   github.String("open"),
		HTMLURL: github.String("https://github.com/acme/widgets/issues/41"),
		Labels:  []*github.Label{{Name: github.String("meeting")}},
	}

	got := fromIssue(issue)
	assert.Equal(t, Issue{
		Number: 41,
		Title:  "Weekly Meeting 2020-04-30",
		State:  "open",
		URL:    "https://github.com/acme/widgets/issues/41",
		Labels: []string{"meeting"},
	}, got)
}
