package roll

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vtmroll/vtmroll/cmd/vtmroll/internal"
	"github.com/vtmroll/vtmroll/pkg/command"
	"github.com/vtmroll/vtmroll/pkg/dice"
	"github.com/vtmroll/vtmroll/pkg/render"
)

type options struct {
	seed  uint64
	plain bool
}

func NewRollCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:     "roll <pool> <hunger> <difficulty>",
		Aliases: []string{"r"},
		Short:   "Roll a pool locally and print the result",
		Example: "vtmroll roll 5 2 3",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var source dice.Source
			if cmd.Flags().Changed("seed") {
				source = dice.NewSeededSource(opts.seed)
			} else {
				rs, err := dice.NewRandSource()
				if err != nil {
					return err
				}
				source = rs
			}
			return runRoll(cmd.OutOrStdout(), args, source, opts)
		},
	}

	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "Seed the dice for a reproducible roll")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "Disable colors and strikethrough")

	return cmd
}

func runRoll(w io.Writer, args []string, source dice.Source, opts options) error {
	cfg, err := internal.LoadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	parser, err := command.NewParser(cfg.Bot.Prefix, cfg.Limits())
	if err != nil {
		return err
	}

	req, err := parser.ParseArgs(args[0], args[1], args[2])
	if err != nil {
		return fmt.Errorf("invalid roll %v: %w", args, err)
	}

	result := dice.Resolve(req, source)
	_, err = fmt.Fprintln(w, render.Terminal{Plain: opts.plain}.Result(result))
	return err
}
