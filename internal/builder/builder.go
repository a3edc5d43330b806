// SPDX-License-Identifier: MPL-2.0

package builder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"npmpack/internal/config"
	"npmpack/internal/execx"
	"npmpack/pkg/fsutil"
)

type (
	// Builder runs the build pipeline for a single configuration. A Builder
	// is single-use per Build call but holds no per-build state, so reusing
	// one across invocations is safe; each build is fully independent and
	// overwrites the output directory.
	Builder struct {
		cfg    *config.Config
		runner execx.Runner
		logger *log.Logger
		stdout io.Writer
		stderr io.Writer
		dryRun bool
	}

	// Options defines the injection points for building a Builder. Nil
	// fields are replaced with production defaults by New; tests supply a
	// fake Runner to exercise the pipeline without npm or tsc installed.
	Options struct {
		Runner execx.Runner
		Logger *log.Logger
		Stdout io.Writer
		Stderr io.Writer
		// DryRun stages files and generates both manifests but skips hooks,
		// dependency installation, compilation, and cleanup, leaving the
		// staged tree behind for inspection.
		DryRun bool
	}
)

// New creates a Builder for cfg.
func New(cfg *config.Config, opts Options) *Builder {
	if opts.Runner == nil {
		opts.Runner = execx.NewProcessRunner()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &Builder{
		cfg:    cfg,
		runner: opts.Runner,
		logger: opts.Logger,
		stdout: opts.Stdout,
		stderr: opts.Stderr,
		dryRun: opts.DryRun,
	}
}

// Build runs the whole pipeline. On success the output directory contains
// package.json, compiled output under dist/, and the copied root assets;
// tsconfig.json and the staged src/ subtree are gone. Any failure other
// than a missing optional root asset aborts the build.
func (b *Builder) Build(ctx context.Context) error {
	if err := b.cfg.Validate(); err != nil {
		return err
	}

	if !b.dryRun && b.cfg.Hooks.PreBuild != "" {
		b.logger.Debug("running pre_build hook")
		if err := runHook(ctx, "pre_build", b.cfg.Hooks.PreBuild, ".", b.stdout, b.stderr); err != nil {
			return err
		}
	}

	b.logger.Debug("resetting output directory", "dir", b.cfg.OutDir)
	if err := fsutil.EmptyDir(b.cfg.OutDir); err != nil {
		return err
	}
	if err := b.stageSources(); err != nil {
		return err
	}
	if err := b.stageRootAssets(); err != nil {
		return err
	}

	b.logger.Debug("rewriting import specifiers")
	if err := rewriteTree(filepath.Join(b.cfg.OutDir, stagedSrcDir)); err != nil {
		return fmt.Errorf("failed to rewrite import specifiers: %w", err)
	}

	if err := b.writeTSConfig(); err != nil {
		return err
	}
	if err := b.writePackageJSON(); err != nil {
		return err
	}

	if b.dryRun {
		b.logger.Info("dry run: skipping install, compile and cleanup",
			"would-run", strings.Join(b.plannedCommands(), " && "))
		return nil
	}

	if err := b.installDependencies(ctx); err != nil {
		return err
	}
	if err := b.compile(ctx); err != nil {
		return err
	}
	if err := b.cleanup(); err != nil {
		return err
	}

	if b.cfg.Hooks.PostBuild != "" {
		b.logger.Debug("running post_build hook")
		if err := runHook(ctx, "post_build", b.cfg.Hooks.PostBuild, b.cfg.OutDir, b.stdout, b.stderr); err != nil {
			return err
		}
	}
	return nil
}

// stageSources copies the configured source files (or the full srcDir tree)
// into the staged src/ subtree, preserving relative paths.
func (b *Builder) stageSources() error {
	dest := filepath.Join(b.cfg.OutDir, stagedSrcDir)

	// Materialize the staging root even when there is nothing to copy, so
	// the rewrite stage can walk it.
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}

	if len(b.cfg.SourceFiles) > 0 {
		b.logger.Debug("staging explicit source files", "count", len(b.cfg.SourceFiles))
		for _, f := range b.cfg.SourceFiles {
			if err := fsutil.CopyFile(filepath.Join(b.cfg.SrcDir, f), filepath.Join(dest, f)); err != nil {
				return fmt.Errorf("failed to stage %s: %w", f, err)
			}
		}
		return nil
	}

	b.logger.Debug("staging source tree", "dir", b.cfg.SrcDir)
	if err := fsutil.CopyDir(b.cfg.SrcDir, dest); err != nil {
		return fmt.Errorf("failed to stage %s: %w", b.cfg.SrcDir, err)
	}
	return nil
}

// stageRootAssets copies the configured root files and directories into the
// output directory root. A missing asset is tolerated with a warning; any
// other failure is fatal.
func (b *Builder) stageRootAssets() error {
	for _, name := range b.cfg.RootFiles {
		info, err := os.Stat(name)
		if errors.Is(err, fs.ErrNotExist) {
			b.logger.Warn("root asset not found, skipping", "asset", name)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to stat root asset %s: %w", name, err)
		}

		dst := filepath.Join(b.cfg.OutDir, name)
		if info.IsDir() {
			err = fsutil.CopyDir(name, dst)
		} else {
			err = fsutil.CopyFile(name, dst)
		}
		if err != nil {
			return fmt.Errorf("failed to copy root asset %s: %w", name, err)
		}
	}
	return nil
}

func (b *Builder) writeTSConfig() error {
	manifest, err := tsconfigManifest(b.cfg)
	if err != nil {
		return err
	}
	return b.writeJSON(tsconfigFileName, manifest)
}

func (b *Builder) writePackageJSON() error {
	manifest, err := packageManifest(b.cfg)
	if err != nil {
		return err
	}
	keys := maps.Keys(manifest)
	slices.Sort(keys)
	b.logger.Debug("generated package manifest", "fields", strings.Join(keys, ", "))
	return b.writeJSON(packageManifestName, manifest)
}

// writeJSON serializes v with indentation into the output directory.
func (b *Builder) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", name, err)
	}
	data = append(data, '\n')
	path := filepath.Join(b.cfg.OutDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// installDependencies runs npm and jsr installs inside the output directory.
// Each is invoked only when its dependency list is non-empty; a non-zero
// exit aborts the build with the captured output attached.
func (b *Builder) installDependencies(ctx context.Context) error {
	if len(b.cfg.Dependencies) > 0 {
		b.logger.Info("installing npm dependencies", "deps", strings.Join(b.cfg.Dependencies, ", "))
		args := append([]string{"install"}, b.cfg.Dependencies...)
		if _, err := b.runner.Run(ctx, b.cfg.OutDir, "npm", args...); err != nil {
			return fmt.Errorf("npm install failed: %w", err)
		}
	}
	if len(b.cfg.JSRDependencies) > 0 {
		b.logger.Info("adding jsr dependencies", "deps", strings.Join(b.cfg.JSRDependencies, ", "))
		args := append([]string{"jsr", "add"}, b.cfg.JSRDependencies...)
		if _, err := b.runner.Run(ctx, b.cfg.OutDir, "npx", args...); err != nil {
			return fmt.Errorf("jsr add failed: %w", err)
		}
	}
	return nil
}

// compile invokes tsc against the generated manifest from inside the output
// directory. The working directory is restored on every exit path, so the
// caller's environment is never left pointing at the output directory even
// when compilation fails.
func (b *Builder) compile(ctx context.Context) (err error) {
	restore, err := pushd(b.cfg.OutDir)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := restore(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	b.logger.Info("compiling", "manifest", tsconfigFileName)
	if _, err = b.runner.Run(ctx, "", "tsc", "-p", tsconfigFileName); err != nil {
		return fmt.Errorf("tsc failed: %w", err)
	}
	return nil
}

// cleanup deletes the compiler manifest and the staged source subtree,
// leaving only compiled output, the package manifest, and root assets.
func (b *Builder) cleanup() error {
	if err := os.Remove(filepath.Join(b.cfg.OutDir, tsconfigFileName)); err != nil {
		return fmt.Errorf("failed to remove %s: %w", tsconfigFileName, err)
	}
	if err := os.RemoveAll(filepath.Join(b.cfg.OutDir, stagedSrcDir)); err != nil {
		return fmt.Errorf("failed to remove staged sources: %w", err)
	}
	return nil
}

// plannedCommands lists the subprocess invocations a real build would make,
// for dry-run reporting.
func (b *Builder) plannedCommands() []string {
	var cmds []string
	if len(b.cfg.Dependencies) > 0 {
		cmds = append(cmds, "npm install "+strings.Join(b.cfg.Dependencies, " "))
	}
	if len(b.cfg.JSRDependencies) > 0 {
		cmds = append(cmds, "npx jsr add "+strings.Join(b.cfg.JSRDependencies, " "))
	}
	cmds = append(cmds, "tsc -p "+tsconfigFileName)
	return cmds
}
