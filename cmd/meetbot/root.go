package main

import (
	"github.com/spf13/cobra"

	"meetbot/internal/config"
	"meetbot/internal/log"
)

type rootFlags struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "meetbot",
		Short:         "Automates recurring meeting issues: schedules, agendas, notes",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "meetbot.yaml", "Path to config file")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, error (overrides config)")

	cmd.AddCommand(newRunCmd(flags))
	cmd.AddCommand(newResolveCmd(flags))
	cmd.AddCommand(newCloseCmd(flags))

	return cmd
}

// loadConfig loads the config file and applies flag overrides.
func loadConfig(flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		log.Error("failed to load config", err, "config_path", flags.configPath)
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	log.SetLevel(cfg.LogLevel)
	return cfg, nil
}
