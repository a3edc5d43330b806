// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for npmpack.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug-level build logging
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "npmpack",
		Short: "Build npm packages from Deno-style TypeScript sources",
		Long: TitleStyle.Render("npmpack") + SubtitleStyle.Render(" - Build npm packages from Deno-style TypeScript sources") + `

npmpack repackages a directory of TypeScript sources written against the
Deno module convention (explicit .ts import specifiers) as a publishable
npm package: it stages the sources, rewrites import extensions to .js,
generates tsconfig.json and package.json, runs npm / jsr / tsc, and
removes the intermediates.

Configuration lives in an ` + CmdStyle.Render("npmpack.toml") + ` file in the project root
(yaml and json work too). Only name and version are mandatory; everything
else has working defaults.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Run 'npmpack init' to scaffold an npmpack.toml
  2. Set the package name and version
  3. Run 'npmpack build'

` + SubtitleStyle.Render("Examples:") + `
  npmpack build                 Build the package into .npm-dist
  npmpack build --dry-run       Stage and generate manifests only
  npmpack config show           Show the effective configuration
  npmpack init                  Create a starter npmpack.toml`,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./npmpack.{toml,yaml,json})")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(docsCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
