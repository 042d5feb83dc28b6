package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/require"

	"cgt-buildtools/internal/adapters"
	"cgt-buildtools/internal/ports"
	"cgt-buildtools/internal/types"
)

const compilerVersionOutput = "TI ARM C/C++ Compiler                   v20.2.6.LTS\n" +
	"Tools Copyright (c) 1996-2018 Texas Instruments Incorporated\n"

// recordingProcess answers compiler queries and records every command.
// Arguments naming a missing file below outputRoot are created, the way
// the tools would produce their outputs.
type recordingProcess struct {
	mu         sync.Mutex
	calls      [][]string
	fail       string
	outputs    map[string]string
	outputRoot string
}

var outputFlags = []string{"--output_file=", "--output=", "--map_file=", "--xml_link_info=", "--map="}

func (p *recordingProcess) createOutputs(args []string) error {
	if p.outputRoot == "" {
		return nil
	}
	for _, arg := range args[1:] {
		for _, flag := range outputFlags {
			arg = strings.TrimPrefix(arg, flag)
		}
		if !strings.HasPrefix(arg, p.outputRoot) || filepath.Ext(arg) == "" {
			continue
		}
		if _, err := os.Stat(arg); err == nil {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(arg), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(arg, []byte("out\n"), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func (p *recordingProcess) Run(_ context.Context, req ports.ProcessRequest) (ports.ProcessResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, req.Args)
	name := filepath.Base(req.Args[0])
	if name == p.fail {
		return ports.ProcessResult{Stderr: name + ": fatal error", ExitCode: 1}, errors.New("exit status 1")
	}
	if len(req.Args) > 1 {
		switch req.Args[1] {
		case "--compiler_revision":
			return ports.ProcessResult{Stdout: "20.2.6.LTS\n"}, nil
		case "-version":
			return ports.ProcessResult{Stdout: compilerVersionOutput}, nil
		}
	}
	if err := p.createOutputs(req.Args); err != nil {
		return ports.ProcessResult{}, err
	}
	return ports.ProcessResult{Stdout: p.outputs[name]}, nil
}

func (p *recordingProcess) programs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.calls))
	for _, call := range p.calls {
		names = append(names, filepath.Base(call[0]))
	}
	return names
}

// toolDir pretends every program lives in one directory.
type toolDir struct {
	dir     string
	missing map[string]bool
}

func (f toolDir) Find(names []string, _ []string) (string, error) {
	for _, name := range names {
		if !f.missing[name] {
			return filepath.Join(f.dir, name), nil
		}
	}
	return "", errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg("Could not find the program " + strings.Join(names, ","))
}

type fakeSourceControl struct {
	repository bool
	describe   string
	remote     string
	dirty      bool
}

func (f fakeSourceControl) IsRepository(context.Context, string) bool { return f.repository }

func (f fakeSourceControl) Describe(context.Context, string) (string, error) {
	return f.describe, nil
}

func (f fakeSourceControl) PushRemote(context.Context, string) (string, error) {
	if f.remote == "" {
		return "", errors.New("no such remote 'origin'")
	}
	return f.remote, nil
}

func (f fakeSourceControl) IsDirty(context.Context, string) (bool, error) { return f.dirty, nil }

type fakeConda struct {
	envs   []string
	export []byte
}

func (f fakeConda) ListEnvs(context.Context, string) (types.CondaEnvList, error) {
	return types.CondaEnvList{Envs: f.envs}, nil
}

func (f fakeConda) Export(context.Context, string, string) ([]byte, error) {
	return f.export, nil
}

type memorySignatures struct {
	mu     sync.Mutex
	values map[string]string
}

func (m *memorySignatures) Get(task string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[task]
	return value, ok
}

func (m *memorySignatures) Put(task string, signature string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[task] = signature
}

func (m *memorySignatures) Delete(task string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, task)
}

func (m *memorySignatures) Flush() error { return nil }

func fixturesDir(t *testing.T) string {
	t.Helper()
	root, err := filepath.Abs(filepath.Join("..", "..", "fixtures"))
	require.NoError(t, err)
	return root
}

// testService wires the file adapters to fakes for every external program.
func testService(t *testing.T, process *recordingProcess, tools string) Service {
	t.Helper()
	signatures := &memorySignatures{values: map[string]string{}}
	return Service{
		Process:       process,
		SourceControl: fakeSourceControl{},
		Programs:      toolDir{dir: tools},
		CCOptions:     adapters.NewCCOptionsFileAdapter(),
		Builds:        adapters.NewBuildFileAdapter(),
		EnvStore:      adapters.NewEnvFileAdapter(),
		Pulls:         adapters.NewPullConfigFileAdapter(),
		PyProject:     adapters.NewPyProjectFileAdapter(),
		Glob:          adapters.NewSourceGlobAdapter(),
		Conda:         fakeConda{},
		CondaSpecs:    adapters.NewCondaSpecFileAdapter(),
		Pragmas:       adapters.NewTreeSitterPragmaScanner(),
		Signatures: func(string) (ports.SignatureStorePort, error) {
			return signatures, nil
		},
		Platform: "linux",
		Workers:  runtime.NumCPU(),
	}
}
