package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hanoi/internal/config"
	errs "github.com/matzehuels/hanoi/pkg/errors"
	"github.com/matzehuels/hanoi/pkg/hanoi"
	"github.com/matzehuels/hanoi/pkg/pipeline"
)

// solveOpts holds the solve command's flags.
type solveOpts struct {
	rings    int
	pegs     int
	from     int
	to       int
	trace    bool
	progress bool
	noCache  bool
	refresh  bool
	json     bool
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var opts solveOpts

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Move a tower between pegs and verify the result",
		Long: `Solve builds a tower of rings on the source peg, moves it to the destination
peg with the recursive strategy and verifies that every ring arrived in order
using exactly 2^n - 1 moves.

Settings come from the config file and HANOI_* environment variables; flags
override both.`,
		Example: `  # The default 32-ring run (4,294,967,295 moves)
  hanoi solve

  # A small tower, printing every move
  hanoi solve --rings 4 --trace

  # Four pegs, tower from peg 1 to peg 3
  hanoi solve --rings 10 --pegs 4 --from 1 --to 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolve(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.rings, "rings", "n", pipeline.DefaultRings, "number of rings in the tower")
	cmd.Flags().IntVar(&opts.pegs, "pegs", pipeline.DefaultPegs, "number of pegs")
	cmd.Flags().IntVar(&opts.from, "from", pipeline.DefaultSource, "source peg index")
	cmd.Flags().IntVar(&opts.to, "to", pipeline.DefaultDestination, "destination peg index")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "print every move")
	cmd.Flags().BoolVar(&opts.progress, "progress", false, "show a live move counter")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results and solve again")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")
	cmd.MarkFlagsMutuallyExclusive("trace", "progress")

	return cmd
}

func (c *CLI) runSolve(cmd *cobra.Command, opts solveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := cmd.OutOrStdout()

	cfg, err := c.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applySolveFlags(cmd, &cfg, opts)

	runner, store, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	popts := cfg.Options()
	popts.Refresh = opts.refresh
	popts.Logger = logger

	if opts.trace {
		if popts.Rings > traceWarnRings {
			logger.Warn("tracing a large tower", "rings", popts.Rings)
		}
		popts.Observer = traceMoves(out)
	}

	prog := newProgress(logger)
	var res *pipeline.Result
	if opts.progress {
		res, err = runWithProgress(ctx, runner, popts, cmd.ErrOrStderr())
	} else {
		res, err = runner.Solve(ctx, popts)
	}
	if err != nil {
		if errs.Is(err, errs.ErrCodeInvalidConfiguration) {
			return fmt.Errorf("unable to solve this configuration: %w", err)
		}
		return fmt.Errorf("solve: %w", err)
	}
	prog.done(fmt.Sprintf("Solved %d rings", res.Rings))

	if opts.json {
		return writeJSON(out, res)
	}
	printResult(out, res)
	return nil
}

// applySolveFlags overrides config values with flags the user set.
func applySolveFlags(cmd *cobra.Command, cfg *config.Config, opts solveOpts) {
	flags := cmd.Flags()
	if flags.Changed("rings") {
		cfg.Rings = opts.rings
	}
	if flags.Changed("pegs") {
		cfg.Pegs = opts.pegs
	}
	if flags.Changed("from") {
		cfg.Source = opts.from
	}
	if flags.Changed("to") {
		cfg.Destination = opts.to
	}
}

// traceMoves returns an observer printing each move to w.
func traceMoves(w io.Writer) func(hanoi.Move[int]) {
	return func(m hanoi.Move[int]) {
		fmt.Fprintf(w, "move ring %d from peg %d to peg %d\n", m.Ring, m.From, m.To)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
