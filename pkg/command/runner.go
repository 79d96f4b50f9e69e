// Package command is the subprocess boundary used to create environments and
// run package managers.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// WaitDelay is the time to wait for a cancelled command's I/O to drain before
// it is killed.
const WaitDelay = 5 * time.Second

// Cmd describes a single command invocation.
type Cmd struct {
	Name   string
	Args   []string
	Dir    string
	Env    []string // nil inherits the current process environment
	Stdout io.Writer
	Stderr io.Writer
}

// String returns the command line for diagnostics.
func (c *Cmd) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Runner runs commands. It blocks until the command exits.
type Runner interface {
	Run(ctx context.Context, cmd *Cmd) error
}

// ExecRunner runs commands with os/exec.
//
// When a Cmd has no Stdout and Stderr the output is captured and attached to
// the returned error, so failures stay debuggable when output is discarded.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, c *Cmd) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.WaitDelay = WaitDelay

	if c.Stdout != nil || c.Stderr != nil {
		cmd.Stdout = orDiscard(c.Stdout)
		cmd.Stderr = orDiscard(c.Stderr)
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("%s: %w", c, err)
		}
		return nil
	}

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if err := cmd.Run(); err != nil {
		return &ExitError{Code: exitCodeOf(err), Output: buf.String(), Err: fmt.Errorf("%s: %w", c, err)}
	}
	return nil
}

// ExitError reports a command that ran but exited unsuccessfully.
type ExitError struct {
	Code   int
	Output string
	Err    error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("exit status %d", e.Code)
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Output != "" {
		msg += "\n" + e.Output
	}
	return msg
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the command's exit status.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// ExitCode extracts the exit status carried by err. It returns 0 for a nil
// error and -1 when err does not carry an exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	return -1
}

func exitCodeOf(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
