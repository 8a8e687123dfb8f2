package tracker

import (
	"context"
	"fmt"

	"github.com/shurcooL/githubv4"
)

// discussionsQuery pages through a repository's discussions. Repository
// discussions are only exposed through the GraphQL API.
type discussionsQuery struct {
	Repository struct {
		Discussions struct {
			Nodes []struct {
				Title  githubv4.String
				URL    githubv4.URI
				Labels struct {
					Nodes []struct {
						Name githubv4.String
					}
				} `graphql:"labels(first: 20)"`
			}
			PageInfo struct {
				EndCursor   githubv4.String
				HasNextPage githubv4.Boolean
			}
		} `graphql:"discussions(first: 100, after: $cursor)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// ListDiscussions returns all discussions of a repository, following cursor
// pagination. Label filtering happens client-side in the agenda aggregator.
func (c *Client) ListDiscussions(ctx context.Context, owner, repo string) ([]Item, error) {
	vars := map[string]interface{}{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(repo),
		"cursor": (*githubv4.String)(nil),
	}

	var out []Item
	for {
		var q discussionsQuery
		if err := c.gql.Query(ctx, &q, vars); err != nil {
			return nil, &AccessError{Op: fmt.Sprintf("list discussions in %s/%s", owner, repo), Err: err}
		}
		for _, node := range q.Repository.Discussions.Nodes {
			item := Item{Title: string(node.Title)}
			if node.URL.URL != nil {
				item.URL = node.URL.String()
			}
			for _, l := range node.Labels.Nodes {
				item.Labels = append(item.Labels, string(l.Name))
			}
			out = append(out, item)
		}
		if !q.Repository.Discussions.PageInfo.HasNextPage {
			break
		}
		vars["cursor"] = githubv4.NewString(q.Repository.Discussions.PageInfo.EndCursor)
	}
	return out, nil
}
