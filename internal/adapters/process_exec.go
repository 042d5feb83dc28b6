package adapters

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"cgt-buildtools/internal/ports"
)

var execCommandContext = exec.CommandContext

// ExecProcessAdapter runs tools as local subprocesses.
type ExecProcessAdapter struct {
	// Env is appended to the current process environment.
	Env []string
}

func NewExecProcessAdapter() ExecProcessAdapter {
	return ExecProcessAdapter{}
}

func (a ExecProcessAdapter) Run(ctx context.Context, req ports.ProcessRequest) (ports.ProcessResult, error) {
	if len(req.Args) == 0 {
		return ports.ProcessResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("empty command line")
	}
	cmd := execCommandContext(ctx, req.Args[0], req.Args[1:]...)
	cmd.Dir = req.Dir
	if len(a.Env) > 0 || len(req.Env) > 0 {
		cmd.Env = append(append(os.Environ(), a.Env...), req.Env...)
	}
	if req.Stdin != nil {
		cmd.Stdin = bytes.NewReader(req.Stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	result := ports.ProcessResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return result, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, err
	}
	result.ExitCode = -1
	return result, errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg("failed to start " + req.Args[0]).
		WithCause(err)
}

var _ ports.ProcessRunnerPort = ExecProcessAdapter{}
