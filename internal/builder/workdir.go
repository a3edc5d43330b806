// SPDX-License-Identifier: MPL-2.0

package builder

import (
	"fmt"
	"os"
)

// pushd changes the process working directory to dir and returns a restore
// function. The working directory is the one piece of process-wide state the
// pipeline touches; callers must defer the restore immediately so it runs on
// every exit path, including a failing compile.
func pushd(dir string) (restore func() error, err error) {
	prev, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}
	if err := os.Chdir(dir); err != nil {
		return nil, fmt.Errorf("failed to enter %s: %w", dir, err)
	}
	return func() error {
		if err := os.Chdir(prev); err != nil {
			return fmt.Errorf("failed to restore working directory %s: %w", prev, err)
		}
		return nil
	}, nil
}
