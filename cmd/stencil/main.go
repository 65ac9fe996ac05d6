package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"stencil/internal/builtin"
	"stencil/internal/registry"
	"stencil/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "stencil",
	Short: "Stencil token-stream generation toolkit",
	Long:  `Stencil runs registered generation routines over token streams and folds their diagnostics back into the output`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(entriesCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the --color mode against the stream's terminal status.
func useColor(cmd *cobra.Command, f *os.File) bool {
	mode, _ := cmd.Root().PersistentFlags().GetString("color")
	return mode == "on" || (mode == "auto" && isTerminal(f))
}

func quiet(cmd *cobra.Command) bool {
	q, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	return q
}

func showTimings(cmd *cobra.Command) bool {
	t, _ := cmd.Root().PersistentFlags().GetBool("timings")
	return t
}

func maxDiagnostics(cmd *cobra.Command) int {
	n, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	return n
}

// loadRegistry registers the builtin entries, applying the nearest
// stencil.toml manifest when one exists above the working directory.
func loadRegistry() (*registry.Registry, *registry.Manifest, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, nil, err
	}
	manifest, _, err := registry.LoadManifest(cwd)
	if err != nil {
		return nil, nil, fmt.Errorf("loading manifest: %w", err)
	}
	reg := registry.New()
	if err := builtin.RegisterAll(reg, manifest); err != nil {
		return nil, nil, err
	}
	return reg, manifest, nil
}
