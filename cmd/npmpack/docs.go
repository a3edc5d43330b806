// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

//go:embed usage.md
var usageMarkdown string

// docsCmd renders the embedded guide
var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Show the npmpack guide",
	Long:  "Render the built-in guide describing the build pipeline, configuration, and hooks.",
	RunE:  runDocs,
}

func runDocs(cmd *cobra.Command, args []string) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := renderer.Render(usageMarkdown)
	if err != nil {
		return fmt.Errorf("failed to render guide: %w", err)
	}
	fmt.Print(out)
	return nil
}
