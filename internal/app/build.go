package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"cgt-buildtools/internal/core"
	"cgt-buildtools/internal/types"
)

// Build plans every library and program of the build file and runs the
// resulting tasks. Libraries are archived before programs link.
func (s Service) Build(ctx context.Context, req BuildRequest) (BuildResult, error) {
	root := defaultRoot(req.Root)
	buildDir := buildDirPath(root, req.BuildDir)
	desc, err := s.Builds.LoadBuildDescription(buildFilePath(root, req.BuildFile))
	if err != nil {
		return BuildResult{}, err
	}
	env, err := s.EnvStore.LoadEnv(envPath(buildDir))
	if err != nil {
		return BuildResult{}, err
	}
	programs, libraries, err := selectTargets(desc, req.Targets)
	if err != nil {
		return BuildResult{}, err
	}

	opts := core.PlanOptions{Root: root, BuildDir: buildDir}
	if needsVersion(programs) {
		opts.Version, err = s.versionDescriptor(ctx, root, desc.Version, true)
		if err != nil {
			return BuildResult{}, err
		}
	}

	var tasks []types.Task
	for _, lib := range libraries {
		planned, err := core.PlanLibrary(ctx, lib, env, opts)
		if err != nil {
			return BuildResult{}, err
		}
		tasks = append(tasks, planned...)
	}
	for _, program := range programs {
		planned, err := core.PlanProgram(ctx, program, env, opts)
		if err != nil {
			return BuildResult{}, err
		}
		tasks = append(tasks, planned...)
	}
	log.Ctx(ctx).Debug().
		Int("programs", len(programs)).
		Int("libraries", len(libraries)).
		Int("tasks", len(tasks)).
		Msg("build planned")

	results, err := s.runTasks(ctx, buildDir, tasks)
	return BuildResult{Version: opts.Version, Results: results}, err
}

func (s Service) runTasks(ctx context.Context, buildDir string, tasks []types.Task) ([]types.TaskResult, error) {
	signatures, err := s.Signatures(buildDir)
	if err != nil {
		return nil, err
	}
	runner := core.NewTaskRunner(s.Process, signatures, s.Pulls, s.Workers)
	return runner.Run(ctx, tasks)
}

func needsVersion(programs []types.ProgramDef) bool {
	for _, program := range programs {
		if !program.NoVersion {
			return true
		}
	}
	return false
}

// selectTargets keeps the named targets, or all of them when none are named.
func selectTargets(desc types.BuildDescription, targets []string) ([]types.ProgramDef, []types.LibraryDef, error) {
	if len(targets) == 0 {
		return desc.Programs, desc.Libraries, nil
	}
	wanted := map[string]bool{}
	for _, target := range targets {
		wanted[strings.TrimSpace(target)] = false
	}
	var programs []types.ProgramDef
	for _, program := range desc.Programs {
		if _, ok := wanted[program.Target]; ok {
			programs = append(programs, program)
			wanted[program.Target] = true
		}
	}
	var libraries []types.LibraryDef
	for _, lib := range desc.Libraries {
		if _, ok := wanted[lib.Target]; ok {
			libraries = append(libraries, lib)
			wanted[lib.Target] = true
		}
	}
	for _, target := range targets {
		if !wanted[strings.TrimSpace(target)] {
			return nil, nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("unknown target %s", target))
		}
	}
	return programs, libraries, nil
}
