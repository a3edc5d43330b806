// SPDX-License-Identifier: MPL-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment variable overrides
// (e.g. NPMPACK_OUT_DIR).
const EnvPrefix = "NPMPACK"

// Load reads the build configuration. When path is empty, an
// npmpack.{toml,yaml,json} file in the current directory is used if present,
// falling back to defaults and environment variables; an explicit path that
// cannot be read is an error.
//
// The merged settings are schema-validated before being decoded, so typos
// and type mismatches in the config file fail fast with a CUE error path.
func Load(path string) (*Config, error) {
	v := viper.New()

	d := Default()
	v.SetDefault("src_dir", d.SrcDir)
	v.SetDefault("out_dir", d.OutDir)
	v.SetDefault("author", d.Author)
	v.SetDefault("license", d.License)
	v.SetDefault("root_files", d.RootFiles)
	v.SetDefault("entry_points", d.EntryPoints)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigFileName)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about, so every
	// key without a default is bound explicitly; otherwise NPMPACK_NAME and
	// friends never reach the decoded config when there is no config file.
	// The free-form tsconfig/package_json maps stay file-only.
	for _, key := range []string{
		"name", "version", "src_dir", "out_dir", "author", "license",
		"repository", "source_files", "root_files", "dependencies",
		"jsr_dependencies", "entry_points", "hooks.pre_build", "hooks.post_build",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file at all is fine; mandatory fields may still arrive
		// via environment variables or flags.
	}

	if err := ValidateSchema(v.AllSettings()); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if used := v.ConfigFileUsed(); used != "" {
		if err := reloadCaseSensitiveSections(used, &cfg); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// reloadCaseSensitiveSections re-reads the two free-form override maps from
// the config file with a case-preserving parser. Viper lowercases every key
// it touches, which would corrupt tsconfig and package.json keys such as
// compilerOptions or outDir.
func reloadCaseSensitiveSections(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to re-read config %s: %w", path, err)
	}

	var raw struct {
		TSConfig    map[string]any `toml:"tsconfig" yaml:"tsconfig" json:"tsconfig"`
		PackageJSON map[string]any `toml:"package_json" yaml:"package_json" json:"package_json"`
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".json":
		err = json.Unmarshal(data, &raw)
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.TSConfig = raw.TSConfig
	cfg.PackageJSON = raw.PackageJSON
	return nil
}
