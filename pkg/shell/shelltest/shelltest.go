// Package shelltest provides a recording [shell.Runner] for tests.
package shelltest

import (
	"context"
	"sync"

	"github.com/matzehuels/pkgporter/pkg/shell"
)

// HandlerFunc produces the result for one command.
type HandlerFunc func(cmd shell.Command) (*shell.Result, error)

// Runner records every command and answers with Handler. A nil Handler
// makes every command succeed with empty output.
type Runner struct {
	Handler HandlerFunc

	mu    sync.Mutex
	calls []shell.Command
}

// New returns a Runner that answers with h.
func New(h HandlerFunc) *Runner { return &Runner{Handler: h} }

// Run implements [shell.Runner].
func (r *Runner) Run(ctx context.Context, cmd shell.Command) (*shell.Result, error) {
	r.mu.Lock()
	r.calls = append(r.calls, cmd)
	r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.Handler == nil {
		return &shell.Result{}, nil
	}
	return r.Handler(cmd)
}

// Calls returns a copy of the recorded commands.
func (r *Runner) Calls() []shell.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]shell.Command(nil), r.calls...)
}

// Ok returns a successful result with the given stdout.
func Ok(stdout string) *shell.Result {
	return &shell.Result{Stdout: []byte(stdout)}
}

// Fail returns a result with exit status 1 and the given stderr.
func Fail(stderr string) *shell.Result {
	return &shell.Result{Stderr: []byte(stderr), ExitCode: 1}
}

// Flag returns the value following name in args, or "" if absent.
func Flag(args []string, name string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == name {
			return args[i+1]
		}
	}
	return ""
}

var _ shell.Runner = (*Runner)(nil)
