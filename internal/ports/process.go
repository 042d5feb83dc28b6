package ports

import "context"

type ProcessRequest struct {
	Args  []string
	Dir   string
	Env   []string
	Stdin []byte
}

type ProcessResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// ProcessRunnerPort executes external tools (compiler, linker, git, conda,
// black). A non-zero exit code is reported through ProcessResult together
// with a non-nil error.
type ProcessRunnerPort interface {
	Run(ctx context.Context, req ProcessRequest) (ProcessResult, error)
}
