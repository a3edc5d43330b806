// SPDX-License-Identifier: MPL-2.0

package builder

import (
	"fmt"

	"dario.cat/mergo"

	"npmpack/internal/config"
)

const (
	// tsconfigFileName is the generated compiler manifest, deleted after the
	// compile stage.
	tsconfigFileName = "tsconfig.json"
	// packageManifestName is the generated package descriptor, the build's
	// primary deliverable.
	packageManifestName = "package.json"
	// stagedSrcDir is the transient source subtree inside the output
	// directory.
	stagedSrcDir = "src"
	// distDir is where tsc emits compiled output, relative to the output
	// directory.
	distDir = "dist"
)

// deepMerge merges override onto base and returns base. Nested maps are
// merged key-wise; any other value, arrays included, is replaced wholesale
// by the override.
func deepMerge(base, override map[string]any) (map[string]any, error) {
	if len(override) == 0 {
		return base, nil
	}
	if err := mergo.Merge(&base, override, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("failed to merge overrides: %w", err)
	}
	return base, nil
}

// tsconfigManifest builds the compiler manifest: fixed defaults for a
// package boundary, with the configuration's overrides deep-merged on top.
func tsconfigManifest(cfg *config.Config) (map[string]any, error) {
	base := map[string]any{
		"compilerOptions": map[string]any{
			"target":                           "esnext",
			"module":                           "esnext",
			"strict":                           false,
			"declaration":                      true,
			"forceConsistentCasingInFileNames": true,
			"skipLibCheck":                     true,
			"rootDir":                          stagedSrcDir,
			"outDir":                           distDir,
			"moduleResolution":                 "bundler",
		},
		"include": []any{stagedSrcDir + "/**/*"},
	}
	return deepMerge(base, cfg.TSConfig)
}

// entryExports builds the package export map: the entry named "mod" claims
// the bare "." key, every other entry a "./<name>" sub-path, each pointing
// at its compiled declaration and module files under dist/.
func entryExports(entryPoints []string) map[string]any {
	exports := make(map[string]any, len(entryPoints))
	for _, entry := range entryPoints {
		key := "."
		if entry != config.DefaultEntryPoint {
			key = "./" + entry
		}
		exports[key] = map[string]any{
			"types":  "./" + distDir + "/" + entry + ".d.ts",
			"import": "./" + distDir + "/" + entry + ".js",
		}
	}
	return exports
}

// packageManifest assembles the package.json contents. The first entry point
// provides the top-level main/types pair; a configured repository reference
// adds repository and bugs URLs; the configuration's package_json overrides
// are deep-merged last, so they win everywhere.
func packageManifest(cfg *config.Config) (map[string]any, error) {
	first := cfg.EntryPoints[0]
	base := map[string]any{
		"name":         cfg.Name,
		"version":      cfg.Version,
		"type":         "module",
		"main":         "./" + distDir + "/" + first + ".js",
		"types":        "./" + distDir + "/" + first + ".d.ts",
		"exports":      entryExports(cfg.EntryPoints),
		"author":       cfg.Author,
		"license":      cfg.License,
		"dependencies": map[string]any{},
	}
	if cfg.Repository != "" {
		base["repository"] = map[string]any{
			"type": "git",
			"url":  "git+https://github.com/" + cfg.Repository + ".git",
		}
		base["bugs"] = map[string]any{
			"url": "https://github.com/" + cfg.Repository + "/issues",
		}
	}
	return deepMerge(base, cfg.PackageJSON)
}
