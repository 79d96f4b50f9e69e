// internal/cli/ensure.go
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arc-language/venvod"
)

var (
	ensurePackage string
	ensureEnv     string
)

var ensureCmd = &cobra.Command{
	Use:   "ensure MODULE",
	Short: "Resolve a module, installing its package if needed",
	Long: `Resolve a module against the search path. When it is missing, its package
is installed into the global environment and resolution is retried.

Without --env a temporary environment is built and removed on exit.

Examples:
  venvod ensure yaml
  venvod ensure jose.jwt --package "python-jose[cryptography]"
  venvod ensure requests --env /srv/app/venv`,
	Args: cobra.ExactArgs(1),
	RunE: runEnsure,
}

func init() {
	ensureCmd.Flags().StringVar(&ensurePackage, "package", "", "package to install instead of the registry lookup")
	ensureCmd.Flags().StringVar(&ensureEnv, "env", "", "environment directory or managed environment name")
}

func runEnsure(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	c, err := newCoordinator()
	if err != nil {
		return err
	}
	defer c.Close()

	if ensureEnv != "" {
		if err := c.SetGlobalEnvironmentPath(resolveEnvDir(ensureEnv), true); err != nil {
			return err
		}
	} else if err := c.Enable(ctx, venvod.WithImmediateSetup()); err != nil {
		return err
	}

	var opts []venvod.ImportOption
	if ensurePackage != "" {
		opts = append(opts, venvod.WithPackageName(ensurePackage))
	}
	stdout, stderr := packageOutput(cmd)
	opts = append(opts, venvod.WithOutput(stdout, stderr))

	m, err := c.EnsureImportGlobal(ctx, args[0], opts...)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "✗ %s\n", args[0])
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s -> %s\n", m.Name, m.File)
	return nil
}
