package dbt

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/pkg/errors"
	"github.com/spycner/brix/pkg/consts"
)

type (
	// Runner executes a dbt invocation. The interface exists so commands can
	// be tested against a recording fake instead of a real binary.
	Runner interface {
		// Run executes dbt with args in dir, inheriting the runner's stdio.
		// A non-zero child exit surfaces as *ExitError.
		Run(ctx context.Context, dir string, args []string) error
	}

	// ExitError carries the child process exit code so the CLI can mirror it.
	ExitError struct {
		Code int
	}

	// ExecRunner runs a real dbt binary via os/exec.
	ExecRunner struct {
		Binary string
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}
)

func (e *ExitError) Error() string {
	return fmt.Sprintf("dbt exited with code %d", e.Code)
}

// NewRunner returns a runner for the configured dbt binary (BRIX_DBT_BIN,
// falling back to "dbt" on PATH) wired to the process stdio.
func NewRunner() Runner {
	binary := os.Getenv(consts.EnvDbtBinary)
	if binary == "" {
		binary = consts.DefaultDbtBinary
	}
	return &ExecRunner{
		Binary: binary,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func (r *ExecRunner) Run(ctx context.Context, dir string, args []string) error {
	cmd := exec.CommandContext(ctx, r.Binary, args...)
	cmd.Dir = dir
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode()}
	}
	if errors.Is(err, exec.ErrNotFound) {
		return errors.Errorf("dbt binary %q not found; install dbt or set %s", r.Binary, consts.EnvDbtBinary)
	}
	return errors.Wrapf(err, "failed to run %s", r.Binary)
}
