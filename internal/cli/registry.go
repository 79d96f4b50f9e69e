// internal/cli/registry.go
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arc-language/venvod/pkg/registry"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect and update the import-name alias registry",
}

var registryResolveCmd = &cobra.Command{
	Use:   "resolve MODULE...",
	Short: "Print the package installed for a missing module",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		for _, name := range args {
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", name, reg.Resolve(name))
		}
		return nil
	},
}

var registrySyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch the alias registry from its git repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.Registry.URL == "" {
			return fmt.Errorf("registry.url is not configured")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Syncing %s (%s)...\n", config.Registry.URL, config.Registry.Branch)
		var progress = cmd.ErrOrStderr()
		if !verbose {
			progress = nil
		}
		if err := registry.Sync(context.Background(), config.CacheDir, config.Registry.URL, config.Registry.Branch, progress); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Registry saved to %s\n", registry.CachePath(config.CacheDir))
		return nil
	},
}

func init() {
	registryCmd.AddCommand(registryResolveCmd)
	registryCmd.AddCommand(registrySyncCmd)
}

func loadRegistry() (*registry.Registry, error) {
	path := config.Registry.Path
	if path == "" && config.CacheDir != "" {
		path = registry.CachePath(config.CacheDir)
	}
	return registry.Load(path)
}
