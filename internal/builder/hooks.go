// SPDX-License-Identifier: MPL-2.0

package builder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// runHook executes a hook script in the embedded POSIX shell interpreter
// with dir as its working directory. Hook output streams to the builder's
// stdout/stderr; a non-zero exit status fails the build.
func runHook(ctx context.Context, name, script, dir string, stdout, stderr io.Writer) error {
	prog, err := syntax.NewParser().Parse(strings.NewReader(script), name)
	if err != nil {
		return fmt.Errorf("failed to parse %s hook: %w", name, err)
	}

	runner, err := interp.New(
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(nil, stdout, stderr),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s hook interpreter: %w", name, err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return fmt.Errorf("%s hook exited with status %d", name, int(exitStatus))
		}
		return fmt.Errorf("%s hook failed: %w", name, err)
	}
	return nil
}
