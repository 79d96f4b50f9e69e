// internal/cli/version.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the build version, set with -ldflags "-X".
var Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "venvod version %s\n", Version)
		fmt.Fprintln(out, "Python virtual environments on demand")
		fmt.Fprintln(out, "https://github.com/arc-language/venvod")
	},
}
