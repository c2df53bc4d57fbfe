package commands

import (
	"fmt"
	"os"

	"github.com/composite9239/additional-user-restrictions/internal/config"
	"github.com/spf13/cobra"
)

func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample restriction module config",
		RunE:  runInit,
	}
	cmd.Flags().String("domain", "example.com", "Local server domain to put in the sample")
	cmd.Flags().Bool("force", false, "Overwrite an existing config file")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	domain, _ := cmd.Flags().GetString("domain")
	force, _ := cmd.Flags().GetBool("force")

	if _, err := os.Stat(configPath); err == nil && !force {
		fmt.Printf("Config already exists: %s\n", configPath)
		return nil
	}

	data, err := config.SampleYAML(domain)
	if err != nil {
		return fmt.Errorf("render sample config: %w", err)
	}
	if err := config.Save(configPath, data); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Config written: %s\n", configPath)
	fmt.Printf("\nNext steps:\n")
	fmt.Printf("1. Edit %s to list your restricted rooms\n", configPath)
	fmt.Printf("2. Run 'restrictions validate' to check it\n")
	return nil
}
