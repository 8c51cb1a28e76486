package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/hanoi/pkg/buildinfo"
	"github.com/matzehuels/hanoi/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Its PersistentPreRunE attaches the CLI logger to the command context and,
// at debug level, registers logging observability hooks. main wraps it to
// apply --verbose first.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Hanoi solves the Towers of Hanoi",
		Long:         `Hanoi moves a tower of rings between pegs with the classic recursive strategy, verifies the result and reports the number of moves.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.Logger.GetLevel() <= LogDebug {
				h := logHooks{logger: c.Logger}
				observability.SetSolveHooks(h)
				observability.SetCacheHooks(h)
				observability.SetHTTPHooks(h)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/hanoi/config.toml)")

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
