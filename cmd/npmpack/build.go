// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"npmpack/internal/builder"
	"npmpack/internal/config"
	"npmpack/internal/execx"
)

var (
	// buildName overrides the configured package name
	buildName string
	// buildPkgVersion overrides the configured package version
	buildPkgVersion string
	// buildSrcDir overrides the configured source directory
	buildSrcDir string
	// buildOutDir overrides the configured output directory
	buildOutDir string
	// buildDryRun stages and generates manifests but skips subprocesses
	buildDryRun bool

	// buildCmd runs the build pipeline
	buildCmd = &cobra.Command{
		Use:   "build",
		Short: "Build the npm package",
		Long: `Build the npm package described by the configuration.

The pipeline resets the output directory, stages the TypeScript sources,
copies root assets, rewrites .ts import specifiers to .js, generates
tsconfig.json and package.json, installs dependencies, compiles with tsc,
and deletes the intermediates. Any failure aborts the build; subprocess
failures carry the captured output of the failed tool.

Examples:
  npmpack build
  npmpack build --name @scope/pkg --pkg-version 1.2.0
  npmpack build --dry-run`,
		RunE: runBuild,
	}
)

func init() {
	buildCmd.Flags().StringVar(&buildName, "name", "", "package name (overrides config)")
	buildCmd.Flags().StringVar(&buildPkgVersion, "pkg-version", "", "package version (overrides config)")
	buildCmd.Flags().StringVar(&buildSrcDir, "src", "", "source directory (overrides config)")
	buildCmd.Flags().StringVar(&buildOutDir, "out", "", "output directory (overrides config)")
	buildCmd.Flags().BoolVar(&buildDryRun, "dry-run", false, "stage sources and generate manifests, but skip install, compile and cleanup")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	applyBuildFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	b := builder.New(cfg, builder.Options{
		Logger: logger,
		DryRun: buildDryRun,
	})
	if err := b.Build(cmd.Context()); err != nil {
		// Let a failed tool's exit code become our own.
		var cmdErr *execx.CommandError
		if errors.As(err, &cmdErr) && cmdErr.ExitCode > 0 {
			return &ExitError{Code: cmdErr.ExitCode, Err: err}
		}
		return err
	}

	if buildDryRun {
		fmt.Printf("%s Dry run: staged %s into %s\n", SuccessStyle.Render("✓"),
			CmdStyle.Render(cfg.Name), PathStyle.Render(cfg.OutDir))
		return nil
	}
	fmt.Printf("%s Built %s into %s\n", SuccessStyle.Render("✓"),
		CmdStyle.Render(cfg.Name+"@"+cfg.Version), PathStyle.Render(cfg.OutDir))
	return nil
}

// applyBuildFlags overlays non-empty flag values onto the loaded config.
// Flags win over the config file and environment.
func applyBuildFlags(cfg *config.Config) {
	if buildName != "" {
		cfg.Name = buildName
	}
	if buildPkgVersion != "" {
		cfg.Version = buildPkgVersion
	}
	if buildSrcDir != "" {
		cfg.SrcDir = buildSrcDir
	}
	if buildOutDir != "" {
		cfg.OutDir = buildOutDir
	}
}
