// internal/cli/root.go
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arc-language/venvod"
	"github.com/arc-language/venvod/pkg/core"
	"github.com/arc-language/venvod/pkg/env"
)

var (
	cfgFile string
	debug   bool
	verbose bool
	config  *core.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "venvod",
	Short: "Python virtual environments on demand",
	Long: `venvod - Python virtual environments on demand

Create, reuse and snapshot Python virtual environments, and install
missing packages the moment an import needs them.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/venvod/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "stream package manager output")

	// Add commands
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(ensureCmd)
	rootCmd.AddCommand(envsCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(registryCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	var err error
	config, err = core.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		config = core.DefaultConfig()
	}

	// Override config with flags
	if debug {
		config.Debug = true
	}
}

// newCoordinator builds a coordinator from the loaded configuration.
func newCoordinator() (*venvod.Coordinator, error) {
	return venvod.New(config)
}

// packageOutput returns where package manager output goes: the terminal when
// verbose or interactive, nowhere otherwise.
func packageOutput(cmd *cobra.Command) (io.Writer, io.Writer) {
	if verbose || term.IsTerminal(int(os.Stdout.Fd())) {
		return cmd.OutOrStdout(), cmd.ErrOrStderr()
	}
	return nil, nil
}

func envManager() *env.Manager {
	return env.NewManager(config.EnvsDir)
}

// resolveEnvDir accepts an environment directory or the name of a managed
// environment.
func resolveEnvDir(arg string) string {
	if fi, err := os.Stat(arg); err == nil && fi.IsDir() {
		return arg
	}
	return envManager().Path(arg)
}
