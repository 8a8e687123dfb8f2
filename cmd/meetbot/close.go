package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"meetbot/internal/log"
	"meetbot/internal/tracker"
)

func newCloseCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "close [issue-number]",
		Short: "Close the open meeting issue(s)",
		Long: `Closes open issues carrying the configured meeting labels, typically run
after the meeting happened. With an explicit issue number only that issue is
closed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			repo, ok := cfg.MeetingRepo()
			if !ok {
				return errors.New("no repositories configured")
			}
			if cfg.GitHub.Token == "" {
				return errors.New("no GitHub token configured (set GITHUB_TOKEN)")
			}

			ctx := cmd.Context()
			client, err := tracker.New(ctx, cfg.GitHub.Token, cfg.GitHub.BaseURL)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				number, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid issue number %q", args[0])
				}
				closed, err := client.CloseIssue(ctx, repo.Owner, repo.Name, number)
				if err != nil {
					return err
				}
				log.Info("issue closed", "number", closed.Number, "title", closed.Title)
				return nil
			}

			open, err := client.ListOpenIssues(ctx, repo.Owner, repo.Name, cfg.MeetingLabels)
			if err != nil {
				return err
			}
			if len(open) == 0 {
				log.Info("no open meeting issues")
				return nil
			}
			for _, issue := range open {
				closed, err := client.CloseIssue(ctx, repo.Owner, repo.Name, issue.Number)
				if err != nil {
					return err
				}
				log.Info("issue closed", "number", closed.Number, "title", closed.Title)
			}
			return nil
		},
	}

	return cmd
}
