package internal

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/MrSnakeDoc/hoist/internal/checker"
	"github.com/MrSnakeDoc/hoist/internal/errs"
	"github.com/MrSnakeDoc/hoist/internal/logger"
	"github.com/MrSnakeDoc/hoist/internal/middleware"

	"github.com/spf13/cobra"
)

const appName = "hoist"

// Flags are parsed before initializers run, and argument validation
// errors are logged before any PreRun hook.
func init() {
	cobra.OnInitialize(func() { logger.ConfigureLoggerFromFlags("") })
}

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName + " <directive>",
		Short: "Two-stage self-updater",
		Long: `Hoist replaces the installed application with the latest release.

stage1 runs as the user: it checks for a newer release, obtains the installer,
closes the application and relaunches itself elevated. stage2 runs the
installer with administrative rights and records the result.`,
		Example: `hoist stage1
hoist prefetch
hoist status --output yaml`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				checker.PrintVersion(cmd.OutOrStdout())
				return nil
			}
			if len(args) == 0 {
				return middleware.InvocationError(errs.MissingDirective, appName)
			}
			return middleware.InvocationError(errs.UnknownDirective, appName, args[0])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().BoolP("version", "v", false, "Print version information")
	cmd.PersistentFlags().String("config", "", "Config file (default ~/.config/hoist/config.yml)")
	cmd.PersistentFlags().StringArray("set", nil, "Override a config key (key=value, repeatable)")
	cmd.PersistentFlags().CountVarP(&logger.FlagVerboseCount, "verbose", "V", "Increase verbosity")
	cmd.PersistentFlags().BoolVarP(&logger.FlagQuiet, "quiet", "q", false, "Only print errors")
	cmd.PersistentFlags().BoolVarP(&logger.FlagSilent, "silent", "s", false, "Print nothing")
	cmd.PersistentFlags().BoolVar(&logger.FlagJSON, "json", false, "JSON console output")
	cmd.PersistentFlags().StringVar(&logger.FlagLogFile, "log-file", "", "Override the rotating log file path")

	RegisterSubCommands(cmd)

	// help and completion are not directives
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{
		Use:    "help",
		Hidden: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return middleware.InvocationError(errs.UnknownDirective, appName, "help")
		},
	})

	return cmd
}

// Execute runs the command tree with a context cancelled on SIGINT/SIGTERM.
func Execute() error {
	root := NewRootCmd()

	if os.Getenv("COMP_LINE") != "" ||
		(len(os.Args) > 1 && strings.HasPrefix(os.Args[1], "__complete")) {
		return root.Execute()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		logger.Debug("Failed to execute root command: %v", err)
		return err
	}
	return nil
}
