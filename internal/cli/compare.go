// internal/cli/compare.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arc-language/venvod/pkg/version"
)

var compareCmd = &cobra.Command{
	Use:   "compare V1 V2",
	Short: "Compare two version strings",
	Long: `Compare two version strings and print -1, 0 or 1.

Examples:
  venvod compare 1.2.10 1.2.9
  venvod compare 1.0rc1 1.0`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Compare(args[0], args[1]))
	},
}
