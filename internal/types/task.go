package types

import "context"

// TaskAction implements tasks that are not plain command lines.
type TaskAction func(ctx context.Context, task Task) error

// Task is one planned build step.
type Task struct {
	Name    string
	Kind    TaskKind
	Stage   Stage
	Inputs  []string
	Outputs []string
	// Run is a command template expanded against the task environment.
	Run string
	// Action replaces Run for tasks implemented in Go.
	Action TaskAction
	// Vars lists env keys whose values are part of the task signature.
	Vars []string
	// Deps lists files (for example headers) that affect the signature
	// without being command inputs.
	Deps []string
	// DepFile is a make-style dependency listing written by an earlier run.
	// Its prerequisites extend Deps when present.
	DepFile string
	// NoCache forces the task to run on every build.
	NoCache bool
	// RemoveOutputsFirst deletes stale outputs before running.
	RemoveOutputsFirst bool
	// CaptureStdout writes the tool's standard output to Outputs[0].
	CaptureStdout bool
	// PullConfig is set on link tasks with a declared pull table.
	PullConfig string
	Env        Env
	Dir        string
}

// TaskResult describes the outcome of a single task.
type TaskResult struct {
	Name    string
	Kind    TaskKind
	Skipped bool
	Stdout  string
	Stderr  string
}
