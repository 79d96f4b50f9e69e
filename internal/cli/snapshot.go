// internal/cli/snapshot.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arc-language/venvod/pkg/env"
	"github.com/arc-language/venvod/pkg/snapshot"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Export and restore environment archives",
	Long: `Environments are archived as NAR streams, compressed according to the
archive extension (.nar, .nar.xz or .nar.zst). A restored archive can seed
new environments through the "template" config setting.`,
}

var snapshotExportCmd = &cobra.Command{
	Use:   "export DIR|NAME ARCHIVE",
	Short: "Archive an environment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := env.Discover(resolveEnvDir(args[0]))
		if err != nil {
			return err
		}
		if err := snapshot.ExportFile(d.Root(), args[1]); err != nil {
			return err
		}

		sum, err := snapshot.Hash(d.Root())
		if err != nil {
			return err
		}
		if spec, err := envManager().Load(args[0]); err == nil {
			spec.Hash = sum
			if err := envManager().Save(spec); err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %s to %s (%s)\n", d.Root(), args[1], sum)
		return nil
	},
}

var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore ARCHIVE DIR",
	Short: "Restore an environment archive",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := snapshot.RestoreFile(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Restored %d files to %s\n", n, args[1])
		return nil
	},
}

var snapshotHashCmd = &cobra.Command{
	Use:   "hash DIR",
	Short: "Print the content hash of a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sum, err := snapshot.Hash(resolveEnvDir(args[0]))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), sum)
		return nil
	},
}

func init() {
	snapshotCmd.AddCommand(snapshotExportCmd)
	snapshotCmd.AddCommand(snapshotRestoreCmd)
	snapshotCmd.AddCommand(snapshotHashCmd)
}
