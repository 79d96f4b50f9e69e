// internal/cli/setup.go
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arc-language/venvod"
	"github.com/arc-language/venvod/pkg/requirements"
)

var (
	setupVersion string
	setupForce   bool
)

var setupCmd = &cobra.Command{
	Use:   "setup PARENT NAME [package...]",
	Short: "Create or update a persistent environment",
	Long: `Create the environment PARENT/NAME, or reuse it when it already exists.

Packages are installed into an existing environment only when --force is
given or --version is higher than the version recorded in it.

Examples:
  venvod setup /srv/app venv requests --version 1.2.0
  venvod setup /srv/app venv requests --force`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().StringVar(&setupVersion, "version", "", "version of the package set")
	setupCmd.Flags().BoolVar(&setupForce, "force", false, "install packages even if the environment is up to date")
}

func runSetup(cmd *cobra.Command, args []string) error {
	c, err := newCoordinator()
	if err != nil {
		return err
	}

	var pkgs requirements.Packages
	if len(args) > 2 {
		pkgs = requirements.List(args[2:])
	}

	var opts []venvod.SetupOption
	if setupVersion != "" {
		opts = append(opts, venvod.WithVersion(setupVersion))
	}
	if setupForce {
		opts = append(opts, venvod.WithForceInstall())
	}

	d, err := c.SetupAndActivate(context.Background(), args[0], args[1], pkgs, opts...)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is ready (python %s)\n", d.Root(), d.PythonVersion())
	return nil
}
