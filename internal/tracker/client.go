package tracker

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/go-github/v66/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"meetbot/internal/log"
)

const perPage = 100

// Client implements the issue-repository operations on top of the GitHub
// REST and GraphQL APIs. Discussions only exist in GraphQL, everything else
// goes through REST.
type Client struct {
	rest *github.Client
	gql  *githubv4.Client
}

// New builds a Client authenticated with the given token. baseURL overrides
// the API endpoint for GitHub Enterprise; leave it empty for github.com.
func New(ctx context.Context, token, baseURL string) (*Client, error) {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	hc := oauth2.NewClient(ctx, src)
	hc.Timeout = 30 * time.Second

	rest := github.NewClient(hc)
	gql := githubv4.NewClient(hc)
	if baseURL != "" {
		var err error
		rest, err = rest.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, &AccessError{Op: "configure enterprise endpoint", Err: err}
		}
		gql = githubv4.NewEnterpriseClient(strings.TrimSuffix(baseURL, "/")+"/api/graphql", hc)
	}

	return &Client{rest: rest, gql: gql}, nil
}

// CreateIssue opens a new issue and returns it.
func (c *Client) CreateIssue(ctx context.Context, owner, repo, title, body string, labels []string) (Issue, error) {
	log.Info("creating issue", "repo", owner+"/"+repo, "title", title, "labels", strings.Join(labels, ","))

	var created *github.Issue
	err := c.retry(ctx, func() error {
		issue, resp, err := c.rest.Issues.Create(ctx, owner, repo, &github.IssueRequest{
			Title:  github.String(title),
			Body:   github.String(body),
			Labels: &labels,
		})
		if err != nil {
			return classify(resp, err)
		}
		created = issue
		return nil
	})
	if err != nil {
		return Issue{}, &AccessError{Op: fmt.Sprintf("create issue in %s/%s", owner, repo), Err: err}
	}
	return fromIssue(created), nil
}

// UpdateIssueBody replaces an issue's body.
func (c *Client) UpdateIssueBody(ctx context.Context, owner, repo string, number int, body string) (Issue, error) {
	var updated *github.Issue
	err := c.retry(ctx, func() error {
		issue, resp, err := c.rest.Issues.Edit(ctx, owner, repo, number, &github.IssueRequest{
			Body: github.String(body),
		})
		if err != nil {
			return classify(resp, err)
		}
		updated = issue
		return nil
	})
	if err != nil {
		return Issue{}, &AccessError{Op: fmt.Sprintf("update issue %s/%s#%d", owner, repo, number), Err: err}
	}
	return fromIssue(updated), nil
}

// CloseIssue closes an issue.
func (c *Client) CloseIssue(ctx context.Context, owner, repo string, number int) (Issue, error) {
	var closed *github.Issue
	err := c.retry(ctx, func() error {
		issue, resp, err := c.rest.Issues.Edit(ctx, owner, repo, number, &github.IssueRequest{
			State: github.String("closed"),
		})
		if err != nil {
			return classify(resp, err)
		}
		closed = issue
		return nil
	})
	if err != nil {
		return Issue{}, &AccessError{Op: fmt.Sprintf("close issue %s/%s#%d", owner, repo, number), Err: err}
	}
	return fromIssue(closed), nil
}

// ListOpenIssues returns all open issues carrying every given label,
// following pagination. The issues endpoint also returns pull requests;
// those are kept, matching the tracker's own view of "issues".
func (c *Client) ListOpenIssues(ctx context.Context, owner, repo string, labels []string) ([]Issue, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "open",
		Labels:      labels,
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var out []Issue
	for {
		issues, resp, err := c.rest.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, &AccessError{Op: fmt.Sprintf("list issues in %s/%s", owner, repo), Err: err}
		}
		for _, issue := range issues {
			out = append(out, fromIssue(issue))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

// FileContent fetches a file from a repository at the given ref. A missing
// file reports ErrNotFound so callers can fall back to built-in defaults.
func (c *Client) FileContent(ctx context.Context, owner, repo, path, ref string) ([]byte, error) {
	file, _, resp, err := c.rest.Repositories.GetContents(ctx, owner, repo, path, &github.RepositoryContentGetOptions{Ref: ref})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s/%s:%s", ErrNotFound, owner, repo, path)
		}
		return nil, &AccessError{Op: fmt.Sprintf("fetch %s from %s/%s", path, owner, repo), Err: err}
	}
	if file == nil {
		return nil, fmt.Errorf("%w: %s/%s:%s is not a file", ErrNotFound, owner, repo, path)
	}
	content, err := file.GetContent()
	if err != nil {
		return nil, &AccessError{Op: fmt.Sprintf("decode %s from %s/%s", path, owner, repo), Err: err}
	}
	return []byte(content), nil
}

// ListAgendaItems returns the open issues and open pull requests in a repo
// that carry the agenda label. The issue listing is returned as-is; the PR
// listing is filtered to PRs actually labelled, because the tracker's label
// filter is not applied on the pulls endpoint. Callers de-duplicate by URL
// across the two sets: the issues endpoint is known to sometimes include
// pull requests.
func (c *Client) ListAgendaItems(ctx context.Context, owner, repo, label string) (issues, prs []Item, err error) {
	open, err := c.ListOpenIssues(ctx, owner, repo, []string{label})
	if err != nil {
		return nil, nil, err
	}
	for _, issue := range open {
		issues = append(issues, Item{URL: issue.URL, Title: issue.Title, Labels: issue.Labels})
	}

	opts := &github.PullRequestListOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	for {
		page, resp, err := c.rest.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, nil, &AccessError{Op: fmt.Sprintf("list pull requests in %s/%s", owner, repo), Err: err}
		}
		for _, pr := range page {
			item := Item{URL: pr.GetHTMLURL(), Title: pr.GetTitle()}
			for _, l := range pr.Labels {
				item.Labels = append(item.Labels, l.GetName())
			}
			prs = append(prs, item)
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return issues, prs, nil
}

// ListOrgRepos lists all repositories of an organization, for org-wide
// agenda discovery.
func (c *Client) ListOrgRepos(ctx context.Context, org string) ([]Repo, error) {
	opts := &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var out []Repo
	for {
		repos, resp, err := c.rest.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			return nil, &AccessError{Op: "list repositories of " + org, Err: err}
		}
		for _, r := range repos {
			out = append(out, Repo{Owner: org, Name: r.GetName()})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

// retry wraps tracker writes in exponential backoff. Reads are not retried:
// a failed read fails the run anyway, and re-listing hundreds of issues on a
// flaky connection only stretches the failure out.
func (c *Client) retry(ctx context.Context, op func() error) error {
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	return backoff.Retry(op, policy)
}

// classify marks client-side errors permanent so backoff gives up
// immediately; everything else (transport errors, 5xx, rate limits) stays
// retryable.
func classify(resp *github.Response, err error) error {
	if resp != nil && resp.StatusCode >= 400 && resp.StatusCode < 500 &&
		resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode != http.StatusForbidden {
		return backoff.Permanent(err)
	}
	return err
}

func fromIssue(issue *github.Issue) Issue {
	out := Issue{
		Number: issue.GetNumber(),
		Title:  issue.GetTitle(),
		State:  issue.GetState(),
		URL:    issue.GetHTMLURL(),
	}
	for _, l := range issue.Labels {
		out.Labels = append(out.Labels, l.GetName())
	}
	return out
}
