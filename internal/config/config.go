// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "npmpack"

	// DefaultSrcDir is the source directory staged into the package.
	DefaultSrcDir = "src"
	// DefaultOutDir is the output directory the package is built into.
	DefaultOutDir = ".npm-dist"
	// DefaultAuthor is the package author when none is configured.
	DefaultAuthor = "Marian Meres"
	// DefaultLicense is the package license when none is configured.
	DefaultLicense = "MIT"
	// DefaultEntryPoint is the canonical entry-point module name.
	DefaultEntryPoint = "mod"
)

// ErrInvalidConfig is the sentinel error wrapped by every configuration
// validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

type (
	// Hooks holds optional POSIX shell snippets run around the build.
	// Scripts execute in the embedded shell interpreter, so they behave
	// identically on every platform.
	Hooks struct {
		// PreBuild runs in the project root before the output directory
		// is reset.
		PreBuild string `mapstructure:"pre_build" toml:"pre_build,omitempty"`
		// PostBuild runs in the output directory after cleanup.
		PostBuild string `mapstructure:"post_build" toml:"post_build,omitempty"`
	}

	// Config describes one package build. Name and Version are mandatory
	// and never defaulted; every other field has a working default.
	Config struct {
		// Name is the npm package name (e.g. "@scope/pkg").
		Name string `mapstructure:"name" toml:"name"`
		// Version is the package semantic version.
		Version string `mapstructure:"version" toml:"version"`

		// SrcDir is the directory containing the TypeScript sources.
		SrcDir string `mapstructure:"src_dir" toml:"src_dir"`
		// OutDir is the directory the package is assembled into. It is
		// emptied at the start of every build.
		OutDir string `mapstructure:"out_dir" toml:"out_dir"`

		Author  string `mapstructure:"author" toml:"author"`
		License string `mapstructure:"license" toml:"license"`
		// Repository is an "owner/repo" GitHub reference. When set, the
		// generated package manifest gains repository and bugs URLs.
		Repository string `mapstructure:"repository" toml:"repository,omitempty"`

		// SourceFiles optionally restricts staging to exactly these files,
		// relative to SrcDir. Empty means: stage every file under SrcDir.
		SourceFiles []string `mapstructure:"source_files" toml:"source_files,omitempty"`
		// RootFiles are top-level files or directories copied verbatim into
		// the package root. Missing entries are tolerated with a warning.
		RootFiles []string `mapstructure:"root_files" toml:"root_files"`

		// Dependencies are npm package specs installed into the output
		// directory via `npm install`.
		Dependencies []string `mapstructure:"dependencies" toml:"dependencies,omitempty"`
		// JSRDependencies are jsr.io package specs added via `npx jsr add`.
		JSRDependencies []string `mapstructure:"jsr_dependencies" toml:"jsr_dependencies,omitempty"`

		// TSConfig is deep-merged over the generated tsconfig.json.
		TSConfig map[string]any `mapstructure:"tsconfig" toml:"tsconfig,omitempty"`
		// EntryPoints are the module names exposed by the package export
		// map. The entry named "mod" maps to the bare "." export key.
		EntryPoints []string `mapstructure:"entry_points" toml:"entry_points"`
		// PackageJSON is deep-merged over the generated package.json.
		PackageJSON map[string]any `mapstructure:"package_json" toml:"package_json,omitempty"`

		Hooks Hooks `mapstructure:"hooks" toml:"hooks,omitempty"`
	}
)

// Default returns a Config with every optional field at its default value.
// Name and Version are intentionally left empty.
func Default() *Config {
	return &Config{
		SrcDir:      DefaultSrcDir,
		OutDir:      DefaultOutDir,
		Author:      DefaultAuthor,
		License:     DefaultLicense,
		RootFiles:   []string{"README.md", "LICENSE", ".npmignore"},
		EntryPoints: []string{DefaultEntryPoint},
	}
}

// Validate checks the invariants the build pipeline depends on.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Name) == "" {
		problems = append(problems, "name is required")
	}
	if strings.TrimSpace(c.Version) == "" {
		problems = append(problems, "version is required")
	}
	if c.SrcDir == "" {
		problems = append(problems, "src_dir must not be empty")
	}
	if c.OutDir == "" {
		problems = append(problems, "out_dir must not be empty")
	}
	if len(c.EntryPoints) == 0 {
		problems = append(problems, "entry_points must name at least one entry")
	}
	for _, e := range c.EntryPoints {
		if strings.TrimSpace(e) == "" {
			problems = append(problems, "entry_points must not contain empty names")
			break
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
