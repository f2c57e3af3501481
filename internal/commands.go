package internal

import (
	"github.com/MrSnakeDoc/hoist/internal/middleware"
	"github.com/spf13/cobra"
)

var defaultCommands = []middleware.CommandFactory{
	middleware.UseMiddlewareChain(middleware.RequireConfig)(NewStage1Cmd),
	middleware.UseMiddlewareChain(middleware.RequireConfig)(NewStage2Cmd),
	middleware.UseMiddlewareChain(middleware.RequireConfig)(NewPrefetchCmd),
	middleware.UseMiddlewareChain(middleware.RequireConfig)(NewStatusCmd),
}

func RegisterSubCommands(cmd *cobra.Command) {
	for _, factory := range defaultCommands {
		cmd.AddCommand(factory())
	}
}
