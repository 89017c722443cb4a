// Package cmd implements the tenint CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tenable/tenint/pipeline"
)

var (
	manifestPath  string
	verbose       bool
	outputDir     string
	themeOverride string

	appVersion = "dev"
)

var rootCmd = &cobra.Command{
	Use:           "tenint",
	Short:         "Tenint — scaffold, build, and package marketplace connectors",
	Long:          "Tenint initializes connector projects, runs the gated build pipeline, and packages connectors into sandboxed runtime images for the marketplace.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&manifestPath, "manifest", "connector.yaml", "connector manifest path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output-dir", "o", "dist", "build output directory")
	rootCmd.PersistentFlags().StringVar(&themeOverride, "theme", "", "TUI color theme: dark, light, or auto")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(marketplaceCmd)
}

// SetVersionInfo sets the version and commit for display.
func SetVersionInfo(version, commit string) {
	appVersion = version
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("tenint %s (commit: %s)\n", version, commit))
}

// Execute runs the root command. Pipeline failures exit with the failing
// gate's code; everything else exits 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(pipeline.ExitCode(err))
	}
}
