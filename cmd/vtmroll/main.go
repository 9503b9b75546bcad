package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vtmroll/vtmroll/cmd/vtmroll/internal"
	"github.com/vtmroll/vtmroll/cmd/vtmroll/internal/gateway"
	"github.com/vtmroll/vtmroll/cmd/vtmroll/internal/onboard"
	"github.com/vtmroll/vtmroll/cmd/vtmroll/internal/roll"
	"github.com/vtmroll/vtmroll/cmd/vtmroll/internal/version"
)

func NewVtmrollCommand() *cobra.Command {
	short := fmt.Sprintf("%s vtmroll - Vampire: the Masquerade 5e dice roller v%s", internal.Logo, internal.GetVersion())

	cmd := &cobra.Command{
		Use:           "vtmroll",
		Short:         short,
		Example:       "vtmroll roll 5 2 3",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&internal.ConfigPath, "config", "c", "", "Path to config.json (default ~/.vtmroll/config.json)")

	cmd.AddCommand(
		gateway.NewGatewayCommand(),
		onboard.NewOnboardCommand(),
		roll.NewRollCommand(),
		version.NewVersionCommand(),
	)

	return cmd
}

func main() {
	if err := NewVtmrollCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
