package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"cgt-buildtools/internal/ports"
	"cgt-buildtools/internal/types"
)

// LinkVerificationPrefix starts the message of errors raised when the
// linker pulled symbols from unexpected objects.
const LinkVerificationPrefix = "linker pull verification failed"

// TaskRunner executes planned tasks stage by stage. Tasks of one stage run
// on a pool of Workers goroutines; the first failure cancels the stage.
type TaskRunner struct {
	process    ports.ProcessRunnerPort
	signatures ports.SignatureStorePort
	pulls      ports.PullConfigPort
	Workers    int
	// ObjDir is the directory pulled-from paths in linker output are
	// relative to.
	ObjDir string
}

func NewTaskRunner(process ports.ProcessRunnerPort, signatures ports.SignatureStorePort, pulls ports.PullConfigPort, workers int) TaskRunner {
	if workers <= 0 {
		workers = 1
	}
	return TaskRunner{process: process, signatures: signatures, pulls: pulls, Workers: workers}
}

// Run executes tasks in stage order and returns one result per executed or
// skipped task. Signatures of successful tasks are flushed even when a later
// task fails.
func (r TaskRunner) Run(ctx context.Context, tasks []types.Task) ([]types.TaskResult, error) {
	byStage := map[types.Stage][]types.Task{}
	for _, task := range tasks {
		byStage[task.Stage] = append(byStage[task.Stage], task)
	}
	var results []types.TaskResult
	var runErr error
	for _, stage := range types.Stages {
		stageTasks := byStage[stage]
		if len(stageTasks) == 0 {
			continue
		}
		log.Ctx(ctx).Debug().
			Str("stage", stage.String()).
			Int("tasks", len(stageTasks)).
			Msg("running stage")
		stageResults, err := r.runStage(ctx, stageTasks)
		results = append(results, stageResults...)
		if err != nil {
			runErr = err
			break
		}
	}
	if err := r.signatures.Flush(); err != nil && runErr == nil {
		runErr = err
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results, runErr
}

type taskOutcome struct {
	result types.TaskResult
	err    error
}

func (r TaskRunner) runStage(ctx context.Context, tasks []types.Task) ([]types.TaskResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var firstErr error
	workerCount := r.Workers
	if len(tasks) < workerCount {
		workerCount = len(tasks)
	}
	queue := make(chan types.Task)
	outcomes := make(chan taskOutcome, len(tasks))
	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range queue {
				if ctx.Err() != nil {
					outcomes <- taskOutcome{err: ctx.Err()}
					continue
				}
				result, err := r.runTask(ctx, task)
				outcomes <- taskOutcome{result: result, err: err}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(outcomes)
	}()
	for _, task := range tasks {
		queue <- task
	}
	close(queue)

	var results []types.TaskResult
	for outcome := range outcomes {
		if outcome.err != nil {
			if firstErr == nil || (errors.Is(firstErr, context.Canceled) && !errors.Is(outcome.err, context.Canceled)) {
				firstErr = outcome.err
			}
			cancel()
			continue
		}
		results = append(results, outcome.result)
	}
	return results, firstErr
}

func (r TaskRunner) runTask(ctx context.Context, task types.Task) (types.TaskResult, error) {
	logger := log.Ctx(ctx).With().Str("task", task.Name).Logger()
	result := types.TaskResult{Name: task.Name, Kind: task.Kind}

	var args []string
	if task.Action == nil {
		expanded, err := ExpandCommand(task.Run, task.Env, task.Inputs, task.Outputs)
		if err != nil {
			return result, err
		}
		if len(expanded) == 0 {
			return result, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("%s: command expands to nothing", task.Name))
		}
		args = expanded
	}

	signature, err := TaskSignature(task, args)
	if err != nil {
		return result, err
	}
	if !task.NoCache && allExist(task.Outputs) {
		if stored, ok := r.signatures.Get(task.Name); ok && stored == signature {
			logger.Debug().Msg("up to date")
			result.Skipped = true
			return result, nil
		}
	}

	if task.RemoveOutputsFirst {
		removeOutputs(task.Outputs)
	}
	for _, output := range task.Outputs {
		if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
			return result, ioError("create directory for", output, err)
		}
	}

	logger.Info().Str("kind", string(task.Kind)).Msg("running")
	if task.Action != nil {
		err = task.Action(ctx, task)
	} else {
		err = r.runProcess(ctx, task, args, &result)
	}
	if err == nil && task.Kind == types.TaskKindProgram {
		err = r.verifyLink(ctx, task, result.Stdout)
	}
	if err != nil {
		removeOutputs(task.Outputs)
		r.signatures.Delete(task.Name)
		return result, err
	}
	if len(task.Outputs) == 0 {
		// in-place tools (black) rewrite their inputs
		if updated, err := TaskSignature(task, args); err == nil {
			signature = updated
		}
	}
	r.signatures.Put(task.Name, signature)
	return result, nil
}

func (r TaskRunner) runProcess(ctx context.Context, task types.Task, args []string, result *types.TaskResult) error {
	res, err := r.process.Run(ctx, ports.ProcessRequest{Args: args, Dir: task.Dir})
	result.Stdout = res.Stdout
	result.Stderr = res.Stderr
	if !task.CaptureStdout {
		LogToolOutput(ctx, task.Name, res.Stdout)
	}
	LogToolOutput(ctx, task.Name, res.Stderr)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("%s failed (exit code %d): %s", task.Name, res.ExitCode, strings.Join(args, " "))).
			WithCause(err)
	}
	if task.CaptureStdout {
		if err := os.WriteFile(task.Outputs[0], []byte(res.Stdout), 0o644); err != nil {
			return ioError("write", task.Outputs[0], err)
		}
	}
	return nil
}

// verifyLink checks the linker output against the declared pull table.
func (r TaskRunner) verifyLink(ctx context.Context, task types.Task, stdout string) error {
	logger := log.Ctx(ctx)
	if task.PullConfig == "" {
		logger.Warn().Str("task", task.Name).Msg("No pull file specified. Check linker output!")
		return nil
	}
	expected, err := r.pulls.LoadPulls(task.PullConfig)
	if err != nil {
		return err
	}
	objDir := r.ObjDir
	if objDir == "" {
		objDir = task.Dir
	}
	report := VerifyPulls(ctx, expected, objDir, stdout)
	for _, hit := range report.Hits {
		logger.Debug().Str("task", task.Name).Msg(hit)
	}
	if !report.Failed() {
		return nil
	}
	logger.Error().
		Str("task", task.Name).
		Msg("Removing binary as the following errors occurred after linkage:\n" + strings.Join(report.Errors, "\n"))
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("%s: %d error(s) in %s", LinkVerificationPrefix, len(report.Errors), task.Name))
}

// TaskSignature hashes everything that influences a task's outputs: the
// command line, the content of inputs and dependencies, and the values of
// the task's signature variables.
func TaskSignature(task types.Task, args []string) (string, error) {
	hasher := sha256.New()
	fmt.Fprintf(hasher, "kind=%s\n", task.Kind)
	for _, arg := range args {
		fmt.Fprintf(hasher, "arg=%s\n", arg)
	}
	for _, output := range task.Outputs {
		fmt.Fprintf(hasher, "out=%s\n", output)
	}
	for _, input := range task.Inputs {
		sum, err := hashFile(input)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(hasher, "in=%s:%s\n", input, sum)
	}
	for _, dep := range signatureDeps(task) {
		sum, err := hashFile(dep)
		if err != nil {
			// headers listed by an older run may be gone
			fmt.Fprintf(hasher, "dep=%s:missing\n", dep)
			continue
		}
		fmt.Fprintf(hasher, "dep=%s:%s\n", dep, sum)
	}
	for _, key := range task.Vars {
		fmt.Fprintf(hasher, "var=%s:%s\n", key, strings.Join(task.Env.Get(key), "\x00"))
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func signatureDeps(task types.Task) []string {
	deps := append([]string(nil), task.Deps...)
	if task.DepFile == "" {
		return deps
	}
	data, err := os.ReadFile(task.DepFile)
	if err != nil {
		return deps
	}
	for _, dep := range ParseDependencyListing(string(data)) {
		if !filepath.IsAbs(dep) && task.Dir != "" {
			dep = filepath.Join(task.Dir, dep)
		}
		deps = append(deps, dep)
	}
	return deps
}

func allExist(paths []string) bool {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return false
		}
	}
	return true
}

func removeOutputs(paths []string) {
	for _, path := range paths {
		_ = os.Remove(path)
	}
}
