// internal/cli/create.go
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arc-language/venvod/pkg/core"
	"github.com/arc-language/venvod/pkg/requirements"
)

var (
	createParent string
	createName   string
)

var createCmd = &cobra.Command{
	Use:   "create [package...]",
	Short: "Create a virtual environment",
	Long: `Create a Python virtual environment and install packages into it.

Named environments without --parent are created in the envs directory
and show up in "venvod envs list".

Examples:
  venvod create
  venvod create requests pyyaml --parent /srv/app
  venvod create --name analysis numpy pandas`,
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createParent, "parent", "", "directory to create the environment in")
	createCmd.Flags().StringVar(&createName, "name", "", "environment directory name (random if empty)")
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	c, err := newCoordinator()
	if err != nil {
		return err
	}

	parent := createParent
	managed := parent == "" && createName != ""
	if managed {
		parent = config.EnvsDir
		if err := ensureDir(parent); err != nil {
			return err
		}
	} else if parent == "" {
		parent = config.TempDir
	}

	var pkgs requirements.Packages
	if len(args) > 0 {
		pkgs = requirements.List(args)
	}

	stdout, stderr := packageOutput(cmd)
	d, err := c.CreateEnv(ctx, &core.BuildRequest{
		ParentDir: parent,
		Name:      createName,
		Packages:  pkgs,
		Stdout:    stdout,
		Stderr:    stderr,
	})
	if err != nil {
		return err
	}

	if managed {
		text, _ := requirements.Render(pkgs)
		if err := envManager().Save(envManager().Record(createName, d, text, "")); err != nil {
			return fmt.Errorf("saving environment metadata: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Created %s (python %s)\n", d.Root(), d.PythonVersion())
	if len(args) > 0 {
		fmt.Fprintf(out, "  Installed: %s\n", strings.Join(args, ", "))
	}
	return nil
}
