package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/electodo/electodo/internal/cli/commands"
)

// Version will be set during build with ldflags
var Version = "1.0.0"

func main() {
	root := &cobra.Command{
		Use:     "electodo",
		Short:   "Personal task manager with tags, due dates and a kanban board",
		Version: Version,
	}

	root.AddCommand(
		commands.NewLoginCmd(),
		commands.NewLogoutCmd(),
		commands.NewTaskCmd(),
		commands.NewTagCmd(),
		commands.NewKanbanCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
