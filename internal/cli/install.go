// internal/cli/install.go
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arc-language/venvod/pkg/core"
	"github.com/arc-language/venvod/pkg/env"
	"github.com/arc-language/venvod/pkg/installer"
	"github.com/arc-language/venvod/pkg/requirements"
)

var (
	installEnv          string
	installRequirements string
)

var installCmd = &cobra.Command{
	Use:   "install --env DIR [package...]",
	Short: "Install packages into an environment",
	Long: `Install packages into an existing environment.

Examples:
  venvod install --env /srv/app/venv requests
  venvod install --env analysis "numpy>=1.26" pandas
  venvod install --env analysis -r requirements.txt`,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installEnv, "env", "", "environment directory or managed environment name")
	installCmd.Flags().StringVarP(&installRequirements, "requirements", "r", "", "requirements file")
	installCmd.MarkFlagRequired("env")
}

func runInstall(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var pkgs requirements.Packages
	switch {
	case installRequirements != "":
		data, err := os.ReadFile(installRequirements)
		if err != nil {
			return fmt.Errorf("reading requirements: %w", err)
		}
		pkgs = requirements.Raw(data)
	case len(args) > 0:
		pkgs = requirements.List(args)
	default:
		return fmt.Errorf("nothing to install: pass packages or --requirements")
	}

	d, err := env.Discover(resolveEnvDir(installEnv))
	if err != nil {
		return err
	}

	inst := installer.New(&installer.Config{
		Backend: installer.Backend(config.Installer),
		Debug:   config.Debug,
	})

	stdout, stderr := packageOutput(cmd)
	text, err := inst.Install(ctx, pkgs, d, &core.InstallOptions{Stdout: stdout, Stderr: stderr})
	if err != nil {
		return err
	}

	for _, name := range requirements.Names(text) {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Installed %s\n", name)
	}
	return nil
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return nil
}
