// pkg/runner/runner.go
package runner

import (
	"context"
	"errors"
	"io"
	"os/exec"

	"github.com/hashicorp/go-hclog"

	"github.com/microsoft/WorldLockingTools-Unreal/pkg/logging"
)

// Interface runs a command to completion and reports its exit code
type Interface interface {
	Run(ctx context.Context, command []string, stdout, stderr io.Writer) (int, error)
}

// Runner runs commands as local subprocesses
type Runner struct {
	// Dir is the working directory of the subprocesses; if unspecified, that
	// of the current process will be used.
	Dir string

	// Env is the environment of the subprocess, following the usual
	// convention of "<name>=<value>" strings. Empty inherits the current one.
	Env []string

	Logger hclog.Logger
}

// Run runs a command until completion or until ctx is canceled, in which
// case the subprocess is killed. A command that could not be started is
// reported as an error; a command that ran returns its exit code with a nil
// error, whatever that code is.
func (r *Runner) Run(ctx context.Context, command []string, stdout, stderr io.Writer) (int, error) {
	if len(command) == 0 {
		return -1, errors.New("empty command")
	}
	logger := logging.OrNull(r.Logger)

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Dir = r.Dir
	if len(r.Env) > 0 {
		cmd.Env = r.Env
		logger.Trace("environment of subprocess", "env", r.Env)
	}

	logger.Debug("starting", "args", cmd.Args)
	err := cmd.Run()
	if ctx.Err() != nil {
		return -1, ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}
