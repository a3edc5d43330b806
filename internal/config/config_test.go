// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	d := Default()

	if d.Name != "" || d.Version != "" {
		t.Error("Default() must not invent a name or version")
	}
	if d.SrcDir != "src" {
		t.Errorf("SrcDir = %q, want %q", d.SrcDir, "src")
	}
	if d.OutDir != ".npm-dist" {
		t.Errorf("OutDir = %q, want %q", d.OutDir, ".npm-dist")
	}
	if d.Author != "Marian Meres" {
		t.Errorf("Author = %q, want %q", d.Author, "Marian Meres")
	}
	if d.License != "MIT" {
		t.Errorf("License = %q, want %q", d.License, "MIT")
	}
	if !reflect.DeepEqual(d.EntryPoints, []string{"mod"}) {
		t.Errorf("EntryPoints = %v, want [mod]", d.EntryPoints)
	}
	if !reflect.DeepEqual(d.RootFiles, []string{"README.md", "LICENSE", ".npmignore"}) {
		t.Errorf("RootFiles = %v", d.RootFiles)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		c := Default()
		c.Name = "@ex/pkg"
		c.Version = "1.0.0"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing name", mutate: func(c *Config) { c.Name = "" }, wantErr: "name is required"},
		{name: "missing version", mutate: func(c *Config) { c.Version = " " }, wantErr: "version is required"},
		{name: "empty src dir", mutate: func(c *Config) { c.SrcDir = "" }, wantErr: "src_dir"},
		{name: "empty out dir", mutate: func(c *Config) { c.OutDir = "" }, wantErr: "out_dir"},
		{name: "no entry points", mutate: func(c *Config) { c.EntryPoints = nil }, wantErr: "entry_points"},
		{name: "blank entry point", mutate: func(c *Config) { c.EntryPoints = []string{"mod", ""} }, wantErr: "empty names"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error does not wrap ErrInvalidConfig: %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_TOMLFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "npmpack.toml")
	content := `
name = "@ex/pkg"
version = "1.0.0"
repository = "ex/pkg"
dependencies = ["kleur"]
entry_points = ["mod", "utils"]

[tsconfig.compilerOptions]
strict = true

[hooks]
pre_build = "echo pre"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Name != "@ex/pkg" || cfg.Version != "1.0.0" {
		t.Errorf("identity = %q %q", cfg.Name, cfg.Version)
	}
	if cfg.Repository != "ex/pkg" {
		t.Errorf("Repository = %q", cfg.Repository)
	}
	// Defaults must survive a partial config file.
	if cfg.SrcDir != "src" || cfg.OutDir != ".npm-dist" {
		t.Errorf("defaults lost: src=%q out=%q", cfg.SrcDir, cfg.OutDir)
	}
	if !reflect.DeepEqual(cfg.EntryPoints, []string{"mod", "utils"}) {
		t.Errorf("EntryPoints = %v", cfg.EntryPoints)
	}
	if !reflect.DeepEqual(cfg.Dependencies, []string{"kleur"}) {
		t.Errorf("Dependencies = %v", cfg.Dependencies)
	}
	if cfg.Hooks.PreBuild != "echo pre" {
		t.Errorf("Hooks.PreBuild = %q", cfg.Hooks.PreBuild)
	}
	co, ok := cfg.TSConfig["compilerOptions"].(map[string]any)
	if !ok || co["strict"] != true {
		t.Errorf("tsconfig override not decoded: %#v", cfg.TSConfig)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on loaded config = %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	// No t.Parallel: t.Setenv and t.Chdir forbid it.
	t.Chdir(t.TempDir())

	t.Setenv("NPMPACK_NAME", "@env/pkg")
	t.Setenv("NPMPACK_VERSION", "2.0.0")
	t.Setenv("NPMPACK_OUT_DIR", "env-dist")

	// Mandatory fields must be satisfiable from the environment alone,
	// with no config file present.
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Name != "@env/pkg" || cfg.Version != "2.0.0" {
		t.Errorf("identity from env = %q %q", cfg.Name, cfg.Version)
	}
	if cfg.OutDir != "env-dist" {
		t.Errorf("OutDir = %q, want env override to beat the default", cfg.OutDir)
	}
	if cfg.SrcDir != "src" {
		t.Errorf("SrcDir = %q, untouched defaults must survive", cfg.SrcDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on env-only config = %v", err)
	}
}

func TestLoad_EnvBeatsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "npmpack.toml")
	content := "name = \"@file/pkg\"\nversion = \"1.0.0\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("NPMPACK_VERSION", "9.9.9")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Name != "@file/pkg" {
		t.Errorf("Name = %q, want the file value", cfg.Name)
	}
	if cfg.Version != "9.9.9" {
		t.Errorf("Version = %q, want the env override", cfg.Version)
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("Load() with missing explicit path succeeded, want error")
	}
}

func TestLoad_SchemaRejectsBadTypes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "npmpack.toml")
	// dependencies must be a list of strings
	content := "name = \"@ex/pkg\"\nversion = \"1.0.0\"\ndependencies = [1, 2]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() accepted ill-typed dependencies, want error")
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() error does not wrap ErrInvalidConfig: %v", err)
	}
}

func TestValidateSchema(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		settings map[string]any
		wantErr  bool
	}{
		{
			name: "minimal valid",
			settings: map[string]any{
				"name":    "@ex/pkg",
				"version": "1.0.0",
			},
		},
		{
			name: "empty version rejected",
			settings: map[string]any{
				"name":    "@ex/pkg",
				"version": "",
			},
			wantErr: true,
		},
		{
			name: "nested tsconfig accepted",
			settings: map[string]any{
				"name":     "@ex/pkg",
				"version":  "1.0.0",
				"tsconfig": map[string]any{"compilerOptions": map[string]any{"strict": true}},
			},
		},
		{
			name: "unknown key rejected",
			settings: map[string]any{
				"name":      "@ex/pkg",
				"version":   "1.0.0",
				"entry_pts": []string{"mod"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateSchema(tt.settings)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSchema() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
