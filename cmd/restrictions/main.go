package main

import (
	"os"

	"github.com/composite9239/additional-user-restrictions/cmd/restrictions/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
