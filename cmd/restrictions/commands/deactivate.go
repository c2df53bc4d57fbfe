package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/composite9239/additional-user-restrictions/internal/matrix"
	"github.com/spf13/cobra"
)

func NewDeactivateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deactivate",
		Short: "Dry-run an account deactivation request",
		RunE:  runDeactivate,
	}
	cmd.Flags().String("user", "", "User ID whose account would be deactivated")
	cmd.Flags().Bool("admin", false, "The request is made by a server administrator")
	return cmd
}

func runDeactivate(cmd *cobra.Command, args []string) error {
	userID, _ := cmd.Flags().GetString("user")
	byAdmin, _ := cmd.Flags().GetBool("admin")
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("--user is required")
	}
	if _, _, err := matrix.SplitUserID(userID); err != nil {
		return fmt.Errorf("invalid --user: %w", err)
	}

	file, err := loadConfigFile()
	if err != nil {
		return err
	}
	m, err := newModule(file)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	allowed, err := m.CheckCanDeactivateUser(ctx, userID, byAdmin)
	if err != nil {
		return err
	}

	fmt.Println(renderDeactivation(userID, byAdmin, allowed))
	return nil
}
