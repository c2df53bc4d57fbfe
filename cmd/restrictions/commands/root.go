package commands

import (
	"github.com/composite9239/additional-user-restrictions/internal/config"
	"github.com/spf13/cobra"
)

var (
	logLevelOverride string
	configPath       string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restrictions",
		Short: "Restriction policy module tooling",
		Long: `restrictions validates and dry-runs the homeserver restriction module:
local users may not leave restricted rooms and may not deactivate their own accounts.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "init" || cmd.Name() == "version" {
				return configureLogger(config.DefaultFile(), logLevelOverride)
			}
			file, err := config.LoadFile(configPath)
			if err != nil {
				return err
			}
			return configureLogger(file, logLevelOverride)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the config file (yaml, json or toml)")
	cmd.PersistentFlags().StringVar(&logLevelOverride, "log-level", "", "Override log level (debug|info|warn|error)")

	cmd.AddCommand(
		NewInitCmd(),
		NewValidateCmd(),
		NewCheckCmd(),
		NewDeactivateCmd(),
		NewVersionCmd(),
	)

	return cmd
}

func loadConfigFile() (*config.File, error) {
	return config.LoadFile(configPath)
}
