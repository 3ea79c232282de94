// Package shell runs registry-native client binaries (npm, pip, twine).
//
// Backends never call os/exec directly; they describe a [Command] and hand
// it to a [Runner]. Tests substitute a fake Runner that records commands and
// returns canned output, so no real subprocess is spawned.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Command describes one invocation of an external binary.
type Command struct {
	Name string   // binary name, resolved through PATH
	Args []string // arguments, never passed through a shell
	Dir  string   // working directory (current directory if empty)
	Env  []string // extra KEY=VALUE pairs appended to the process environment
}

// String renders the command line for logging. Callers are responsible for
// redacting secrets; backends keep secrets out of Args by staging them in
// files.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Result is the captured outcome of a finished command.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Success reports whether the command exited with status 0.
func (r *Result) Success() bool { return r.ExitCode == 0 }

// Diagnostic returns the trimmed stderr, falling back to stdout, for use in
// error messages.
func (r *Result) Diagnostic() string {
	if s := strings.TrimSpace(string(r.Stderr)); s != "" {
		return s
	}
	if s := strings.TrimSpace(string(r.Stdout)); s != "" {
		return s
	}
	return fmt.Sprintf("exit status %d", r.ExitCode)
}

// Runner executes commands.
//
// A non-zero exit status is not an error: it is reported through
// [Result.ExitCode] so callers can inspect stderr. Run returns an error only
// when the command could not be started or was interrupted.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// ExecRunner runs commands as child processes.
type ExecRunner struct{}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() *ExecRunner { return &ExecRunner{} }

// Run starts cmd, waits for it and captures its output.
func (ExecRunner) Run(ctx context.Context, cmd Command) (*Result, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	res := &Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return res, nil
	case ctx.Err() != nil:
		return res, ctx.Err()
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	default:
		return res, fmt.Errorf("run %s: %w", cmd.Name, err)
	}
}

// Ensure ExecRunner implements Runner.
var _ Runner = ExecRunner{}
