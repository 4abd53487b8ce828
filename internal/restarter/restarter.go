// Package restarter recreates the browser container through docker compose
// so a new launch argument takes effect.
package restarter

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/indaco/crxsync/internal/core"
)

// CommandRunner runs an external command and returns its combined output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner implements CommandRunner with os/exec.
type ExecRunner struct{}

// Run executes name with args.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Restarter brings a compose project down and up again.
type Restarter struct {
	composeFile string
	runner      CommandRunner
	timeout     time.Duration
}

// New creates a Restarter for composeFile. A nil runner uses ExecRunner.
func New(composeFile string, runner CommandRunner) *Restarter {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Restarter{
		composeFile: composeFile,
		runner:      runner,
		timeout:     core.TimeoutRestart,
	}
}

// Restart runs "docker compose -f <file> down" followed by "up -d".
func (r *Restarter) Restart(ctx context.Context) error {
	if r.composeFile == "" {
		return errors.New("no compose file configured")
	}
	steps := [][]string{
		{"compose", "-f", r.composeFile, "down"},
		{"compose", "-f", r.composeFile, "up", "-d"},
	}
	for _, args := range steps {
		if err := r.run(ctx, args); err != nil {
			return err
		}
	}
	return nil
}

func (r *Restarter) run(ctx context.Context, args []string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	output, err := r.runner.Run(ctx, "docker", args...)
	if err == nil {
		return nil
	}
	cmdline := "docker " + strings.Join(args, " ")
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s timeout after %v: %w\noutput: %s", cmdline, r.timeout, err, string(output))
	}
	return fmt.Errorf("%s failed: %w\noutput: %s", cmdline, err, string(output))
}
