// internal/cli/info.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arc-language/venvod/pkg/env"
	"github.com/arc-language/venvod/pkg/snapshot"
)

var infoHash bool

var infoCmd = &cobra.Command{
	Use:   "info DIR|NAME",
	Short: "Show information about an environment",
	Long: `Show the layout, Python version and recorded metadata of an environment.

Examples:
  venvod info /srv/app/venv
  venvod info analysis --hash`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&infoHash, "hash", false, "compute the content hash of the environment")
}

func runInfo(cmd *cobra.Command, args []string) error {
	root := resolveEnvDir(args[0])

	d, err := env.Discover(root)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Environment: %s\n", d.Root())
	fmt.Fprintf(out, "  Python:       %s\n", d.PythonVersion())
	fmt.Fprintf(out, "  Interpreter:  %s\n", d.Python())
	fmt.Fprintf(out, "  Packages:     %s\n", d.PackageDir())

	if v, err := env.ReadMarker(d); err == nil && v != "" {
		fmt.Fprintf(out, "  Version:      %s\n", v)
	}

	if spec, err := envManager().Load(args[0]); err == nil && spec.Root == d.Root() {
		fmt.Fprintf(out, "  Name:         %s\n", spec.Name)
		fmt.Fprintf(out, "  Created:      %s\n", spec.CreatedAt)
		if spec.Hash != "" {
			fmt.Fprintf(out, "  Snapshot:     %s\n", spec.Hash)
		}
	}

	if infoHash {
		sum, err := snapshot.Hash(d.Root())
		if err != nil {
			return fmt.Errorf("hashing environment: %w", err)
		}
		fmt.Fprintf(out, "  Hash:         %s\n", sum)
	}
	return nil
}
