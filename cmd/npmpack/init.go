// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"npmpack/internal/config"
)

var (
	initForce bool

	// initCmd creates a new npmpack.toml
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Create a new npmpack.toml in the current directory",
		Long: `Create a starter npmpack.toml with every default spelled out.

Only name and version need editing before the first build; everything
else can stay as generated.`,
		RunE: runInit,
	}
)

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing npmpack.toml")
}

func runInit(cmd *cobra.Command, args []string) error {
	filename := config.ConfigFileName + ".toml"
	if len(args) > 0 {
		filename = args[0]
	}

	if _, err := os.Stat(filename); err == nil && !initForce {
		return fmt.Errorf("file '%s' already exists. Use --force to overwrite", filename)
	}

	content, err := scaffoldConfig()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, content, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	absPath, _ := filepath.Abs(filename)
	fmt.Printf("%s Created %s\n", SuccessStyle.Render("✓"), PathStyle.Render(absPath))
	fmt.Println()
	fmt.Println(SubtitleStyle.Render("Next steps:"))
	fmt.Println("  1. Set the package name and version")
	fmt.Println("  2. Run 'npmpack build' to build the package")

	return nil
}

// scaffoldConfig renders the default configuration as TOML with placeholder
// identity fields.
func scaffoldConfig() ([]byte, error) {
	scaffold := config.Default()
	scaffold.Name = "@scope/package"
	scaffold.Version = "0.1.0"

	body, err := toml.Marshal(scaffold)
	if err != nil {
		return nil, fmt.Errorf("failed to render config: %w", err)
	}

	header := "# npmpack build configuration.\n" +
		"# name and version are mandatory; everything else has working defaults.\n\n"
	return append([]byte(header), body...), nil
}
