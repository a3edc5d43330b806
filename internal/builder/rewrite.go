// SPDX-License-Identifier: MPL-2.0

package builder

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// sourceExt is the import-specifier extension found in Deno-style sources.
	sourceExt = ".ts"
	// targetExt is the extension Node's ESM resolver expects.
	targetExt = ".js"
)

// The rewrite is purely lexical and deliberately narrow: exactly two import
// shapes are recognized, a static "from" specifier and a dynamic import()
// call. Each quote character is captured on its own, which preserves the
// original quote style per occurrence, and the trailing semicolon or closing
// paren is carried through unchanged. Multi-line specifiers and paths built
// from expressions are out of scope.
var (
	fromSpecifierRE = regexp.MustCompile(`(from\s+)(["'])([^"']*)\.ts(["'])(;?)`)
	dynamicImportRE = regexp.MustCompile(`(import\()(["'])([^"']*)\.ts(["'])(\))`)
)

const specifierReplacement = `${1}${2}${3}` + targetExt + `${4}${5}`

// RewriteSpecifiers rewrites the .ts suffix inside static and dynamic import
// specifiers to .js. Text with no matching shape is returned unchanged, so
// the rewrite is idempotent on already-converted sources.
func RewriteSpecifiers(text string) string {
	text = fromSpecifierRE.ReplaceAllString(text, specifierReplacement)
	return dynamicImportRE.ReplaceAllString(text, specifierReplacement)
}

// rewriteTree applies RewriteSpecifiers in place to every *.ts file under
// root. Files are only written back when the rewrite changed something.
func rewriteTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), sourceExt) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		rewritten := RewriteSpecifiers(string(data))
		if rewritten == string(data) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if err := os.WriteFile(path, []byte(rewritten), info.Mode().Perm()); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		return nil
	})
}
