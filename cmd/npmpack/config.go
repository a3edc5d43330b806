// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"npmpack/internal/config"
)

var (
	// configCmd is the parent for configuration inspection commands
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect the npmpack configuration",
	}

	// configShowCmd prints the effective configuration
	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Show the configuration the build would run with: file values,
environment overrides, and defaults, merged.`,
		RunE: runConfigShow,
	}
)

func init() {
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	out, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}

	fmt.Println(TitleStyle.Render("Effective configuration"))
	fmt.Println()
	fmt.Print(string(out))
	return nil
}
