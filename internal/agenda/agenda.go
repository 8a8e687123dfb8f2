// Package agenda collects labelled issues, pull requests, and discussions
// across the configured repositories into one de-duplicated agenda list.
package agenda

import (
	"context"

	"meetbot/internal/log"
	"meetbot/internal/tracker"
)

// Source is the slice of the tracker the aggregator needs.
type Source interface {
	ListAgendaItems(ctx context.Context, owner, repo, label string) (issues, prs []tracker.Item, err error)
	ListDiscussions(ctx context.Context, owner, repo string) ([]tracker.Item, error)
	ListOrgRepos(ctx context.Context, org string) ([]tracker.Repo, error)
}

// Options selects where agenda items come from.
type Options struct {
	Repos []tracker.Repo
	Orgs  []string // expanded to every repository of the org
	Label string
	// Discussions toggles the discussion listing, which needs GraphQL
	// access some tokens lack.
	Discussions bool
}

// Collect fetches agenda items repo by repo, in configuration order, and
// de-duplicates them by URL. Pull requests that do not actually carry the
// label are dropped: the tracker's pagination sometimes misattributes issue
// results as pull requests, so the PR list is treated as untrusted input.
func Collect(ctx context.Context, src Source, opts Options) ([]tracker.Item, error) {
	repos, err := expandRepos(ctx, src, opts)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var items []tracker.Item
	add := func(item tracker.Item) {
		if item.URL == "" || seen[item.URL] {
			return
		}
		seen[item.URL] = true
		items = append(items, item)
	}

	for _, repo := range repos {
		issues, prs, err := src.ListAgendaItems(ctx, repo.Owner, repo.Name, opts.Label)
		if err != nil {
			return nil, err
		}
		log.Info("fetched agenda candidates", "repo", repo.String(), "issues", len(issues), "prs", len(prs))

		for _, issue := range issues {
			add(issue)
		}
		for _, pr := range prs {
			if hasLabel(pr, opts.Label) {
				add(pr)
			}
		}

		if !opts.Discussions {
			continue
		}
		discussions, err := src.ListDiscussions(ctx, repo.Owner, repo.Name)
		if err != nil {
			return nil, err
		}
		for _, d := range discussions {
			if hasLabel(d, opts.Label) {
				add(d)
			}
		}
	}

	log.Info("agenda assembled", "items", len(items))
	return items, nil
}

// expandRepos resolves org-wide discovery and drops duplicate repositories
// while preserving configuration order.
func expandRepos(ctx context.Context, src Source, opts Options) ([]tracker.Repo, error) {
	var repos []tracker.Repo
	repos = append(repos, opts.Repos...)
	for _, org := range opts.Orgs {
		orgRepos, err := src.ListOrgRepos(ctx, org)
		if err != nil {
			return nil, err
		}
		repos = append(repos, orgRepos...)
	}

	seen := make(map[string]bool)
	unique := repos[:0]
	for _, r := range repos {
		key := r.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, r)
	}
	return unique, nil
}

func hasLabel(item tracker.Item, label string) bool {
	for _, l := range item.Labels {
		if l == label {
			return true
		}
	}
	return false
}
