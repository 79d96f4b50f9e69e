// internal/cli/list.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arc-language/venvod/pkg/platform"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available environment backends",
	Long:  `List all environment backends available on this system.`,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	plat, err := platform.Detect()
	if err != nil {
		return fmt.Errorf("detecting platform: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Platform: %s/%s\n", plat.OS, plat.Arch)
	if plat.Python != "" {
		fmt.Fprintf(out, "Python: %s\n", plat.Python)
	}
	fmt.Fprintln(out)

	selected, _ := platform.ResolveBackend(plat, config)

	fmt.Fprintln(out, "Available environment backends:")
	for _, b := range []string{platform.BackendUV, platform.BackendVenv, platform.BackendVirtualenv} {
		status := "✗"
		for _, avail := range plat.Available {
			if avail == b {
				status = "✓"
				break
			}
		}

		marker := ""
		if b == selected {
			marker = " (selected)"
		}

		fmt.Fprintf(out, "  %s %s%s\n", status, b, marker)
	}
	return nil
}
