package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the config file and show the effective module settings",
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	file, err := loadConfigFile()
	if err != nil {
		return err
	}

	rooms := file.Module.RestrictedRooms()
	roomList := "none"
	if len(rooms) > 0 {
		roomList = strings.Join(rooms, ", ")
	}
	auditDir := strings.TrimSpace(file.Audit.Dir)
	if auditDir == "" {
		auditDir = "disabled"
	}

	fmt.Printf("Config OK: %s\n", configPath)
	fmt.Printf("  local_domain: %s\n", file.Module.LocalDomain())
	fmt.Printf("  restricted_rooms (%d): %s\n", len(rooms), roomList)
	fmt.Printf("  leave_error_message: %q\n", file.Module.LeaveErrorMessage())
	fmt.Printf("  audit: %s\n", auditDir)
	return nil
}
