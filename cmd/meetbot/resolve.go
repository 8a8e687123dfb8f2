package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"meetbot/internal/schedule"
)

func newResolveCmd(flags *rootFlags) *cobra.Command {
	var nowStr string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the next occurrence of each configured schedule",
		Long: `Resolves every configured schedule against "now" (or --now) and prints
each next occurrence plus the earliest one overall. Useful for checking a
schedule string before committing it to the config.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			now := time.Now()
			if nowStr != "" {
				now, err = time.Parse(time.RFC3339, nowStr)
				if err != nil {
					return fmt.Errorf("invalid --now value %q: %w", nowStr, err)
				}
			}

			display := time.UTC
			if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
				display = loc
			}

			entries := cfg.Schedules
			if len(entries) == 0 {
				entries = []string{schedule.DefaultFor(now)}
			}
			for _, entry := range entries {
				if entry == "" {
					entry = schedule.DefaultFor(now)
				}
				sc, err := schedule.Parse(entry)
				if err != nil {
					return err
				}
				next, err := sc.Next(now)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n  next: %s (%s)\n",
					entry, next.In(display).Format(time.RFC3339), next.UTC().Format(time.RFC3339))
			}

			earliest, err := schedule.Resolve(entries, now)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "earliest: %s\n", earliest.In(display).Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&nowStr, "now", "", "Resolve against this RFC3339 instant instead of the current time")

	return cmd
}
