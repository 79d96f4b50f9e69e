// internal/cli/envs.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var envsCmd = &cobra.Command{
	Use:   "envs",
	Short: "Manage named environments",
}

var envsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List named environments",
	RunE: func(cmd *cobra.Command, args []string) error {
		specs, err := envManager().List()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(specs) == 0 {
			fmt.Fprintf(out, "No environments in %s\n", envManager().RootDir())
			return nil
		}

		fmt.Fprintf(out, "Environments in %s:\n", envManager().RootDir())
		for _, s := range specs {
			fmt.Fprintf(out, "  %-20s python %-8s %s\n", s.Name, s.PythonVersion, s.CreatedAt)
		}
		return nil
	},
}

var envsRemoveCmd = &cobra.Command{
	Use:   "remove NAME",
	Short: "Remove a named environment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := envManager().Remove(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %s\n", args[0])
		return nil
	},
}

func init() {
	envsCmd.AddCommand(envsListCmd)
	envsCmd.AddCommand(envsRemoveCmd)
}
