package commands

import (
	"fmt"
	"runtime"

	"github.com/composite9239/additional-user-restrictions/internal/version"
	"github.com/spf13/cobra"
)

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of restrictions",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("restrictions %s %s/%s\n", version.Version, runtime.GOOS, runtime.GOARCH)
		},
	}
}
