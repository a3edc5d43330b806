// SPDX-License-Identifier: MPL-2.0

// Package execx runs external tools (the npm installer, the jsr registry
// client, the TypeScript compiler) as subprocesses with both output streams
// captured. A non-zero exit surfaces as a *CommandError carrying the exit
// code and everything the process wrote, so callers can hand the user a
// complete diagnostic without re-running anything.
package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Output holds the captured streams of a finished subprocess.
type Output struct {
	Stdout string
	Stderr string
}

// CommandError reports a subprocess that exited non-zero (or failed to
// start). The message embeds the exit code and both captured streams.
type CommandError struct {
	// Command is the full command line that was invoked.
	Command string
	// ExitCode is the process exit status, or -1 if it never ran.
	ExitCode int
	// Stdout and Stderr are the captured streams at the time of failure.
	Stdout string
	Stderr string
	// Err is the underlying error from os/exec, if any.
	Err error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "command %q failed with exit code %d", e.Command, e.ExitCode)
	if e.Err != nil && e.ExitCode == -1 {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	if out := strings.TrimSpace(e.Stdout); out != "" {
		fmt.Fprintf(&sb, "\nstdout:\n%s", out)
	}
	if errOut := strings.TrimSpace(e.Stderr); errOut != "" {
		fmt.Fprintf(&sb, "\nstderr:\n%s", errOut)
	}
	return sb.String()
}

// Unwrap returns the underlying os/exec error, if any.
func (e *CommandError) Unwrap() error { return e.Err }

// Runner abstracts subprocess invocation so the build pipeline can be
// exercised in tests without npm or tsc installed.
type Runner interface {
	// Run executes name with args, with the child's working directory set to
	// dir (empty dir means: inherit the process working directory). Both
	// streams are always returned, even on failure.
	Run(ctx context.Context, dir string, name string, args ...string) (Output, error)
}

// ProcessRunner is the production Runner backed by os/exec.
type ProcessRunner struct{}

// NewProcessRunner creates a Runner that spawns real subprocesses.
func NewProcessRunner() *ProcessRunner {
	return &ProcessRunner{}
}

// Run implements Runner.
func (r *ProcessRunner) Run(ctx context.Context, dir string, name string, args ...string) (Output, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return out, nil
	}

	cmdLine := strings.Join(append([]string{name}, args...), " ")
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return out, &CommandError{
			Command:  cmdLine,
			ExitCode: exitErr.ExitCode(),
			Stdout:   out.Stdout,
			Stderr:   out.Stderr,
		}
	}
	// The process never ran (binary not found, permission denied, ...).
	return out, &CommandError{
		Command:  cmdLine,
		ExitCode: -1,
		Stdout:   out.Stdout,
		Stderr:   out.Stderr,
		Err:      err,
	}
}
