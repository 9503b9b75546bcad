package onboard

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vtmroll/vtmroll/cmd/vtmroll/internal"
	"github.com/vtmroll/vtmroll/pkg/config"
)

func NewOnboardCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "onboard",
		Aliases: []string{"o"},
		Short:   "Initialize vtmroll configuration",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return onboard(cmd.OutOrStdout(), internal.GetConfigPath(), force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")

	return cmd
}

// onboard writes the default config. Tokens stay in the environment and are
// never written to disk.
func onboard(w io.Writer, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}

	if err := config.SaveConfig(path, config.DefaultConfig()); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}

	fmt.Fprintf(w, "%s vtmroll is ready!\n", internal.Logo)
	fmt.Fprintf(w, "  Config: %s\n", path)
	fmt.Fprintln(w, "\nNext steps:")
	fmt.Fprintln(w, "  1. Export DISCORD_TOKEN (and TELEGRAM_TOKEN to enable Telegram)")
	fmt.Fprintln(w, "  2. Run: vtmroll gateway")
	return nil
}
