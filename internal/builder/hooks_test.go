// SPDX-License-Identifier: MPL-2.0

package builder

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunHook(t *testing.T) {
	t.Parallel()

	t.Run("runs in the given directory with captured output", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		var stdout, stderr bytes.Buffer

		err := runHook(context.Background(), "pre_build", "echo hello; touch marker.txt", dir, &stdout, &stderr)
		if err != nil {
			t.Fatalf("runHook() error = %v", err)
		}
		if !strings.Contains(stdout.String(), "hello") {
			t.Errorf("stdout = %q, want to contain hello", stdout.String())
		}
		if _, err := os.Stat(filepath.Join(dir, "marker.txt")); err != nil {
			t.Errorf("hook did not run in %s: %v", dir, err)
		}
	})

	t.Run("non-zero exit is an error carrying the status", func(t *testing.T) {
		t.Parallel()
		var stdout, stderr bytes.Buffer
		err := runHook(context.Background(), "post_build", "exit 3", t.TempDir(), &stdout, &stderr)
		if err == nil {
			t.Fatal("runHook() = nil, want error")
		}
		if !strings.Contains(err.Error(), "post_build") || !strings.Contains(err.Error(), "3") {
			t.Errorf("error = %q, want hook name and exit status", err)
		}
	})

	t.Run("unparsable script is an error", func(t *testing.T) {
		t.Parallel()
		var stdout, stderr bytes.Buffer
		err := runHook(context.Background(), "pre_build", "if then fi (", t.TempDir(), &stdout, &stderr)
		if err == nil {
			t.Fatal("runHook() accepted an unparsable script")
		}
		if !strings.Contains(err.Error(), "parse") {
			t.Errorf("error = %q, want parse failure", err)
		}
	})
}
