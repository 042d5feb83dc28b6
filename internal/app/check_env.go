package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"cgt-buildtools/internal/core"
)

// CheckEnv verifies that the conda development environment named in the
// spec file is active and carries every declared conda and pip package.
// The result lists all issues even when an error is returned.
func (s Service) CheckEnv(ctx context.Context, req CheckEnvRequest) (CheckEnvResult, error) {
	logger := log.Ctx(ctx)
	root := defaultRoot(req.Root)
	buildDir := buildDirPath(root, req.BuildDir)
	spec, err := s.CondaSpecs.LoadCondaSpec(projectPath(root, req.SpecPath, defaultCondaSpec(s.platform())))
	if err != nil {
		return CheckEnvResult{}, err
	}
	result := CheckEnvResult{EnvName: spec.Name}

	conda := req.Conda
	if conda == "" {
		conda, err = s.Programs.Find([]string{"conda"}, condaSearchPath(req.BaseEnvs, s.platform()))
		if err != nil {
			return result, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("A conda base installation is required at %v. "+
					"Alternatively you can specify an installed conda base environment by passing it via '--conda-base-env'.",
					req.BaseEnvs)).
				WithCause(err)
		}
	}
	envs, err := s.Conda.ListEnvs(ctx, conda)
	if err != nil {
		return result, err
	}
	result.EnvPath, err = core.FindDevelEnv(envs.Envs, spec.Name)
	if err != nil {
		return result, err
	}

	active, err := s.Programs.Find([]string{"python"}, nil)
	if err != nil {
		return result, err
	}
	python := req.Python
	if python == "" {
		python = active
	}
	if err := core.CheckActiveInterpreter(spec.Name, active, python, result.EnvPath, s.platform() == "win32"); err != nil {
		return result, err
	}

	data, err := s.Conda.Export(ctx, conda, spec.Name)
	if err != nil {
		return result, err
	}
	if err := os.MkdirAll(buildDir, 0o755); err == nil {
		exportPath := filepath.Join(buildDir, spec.Name+"_environment.yaml")
		if err := os.WriteFile(exportPath, data, 0o644); err != nil {
			logger.Warn().Err(err).Str("path", exportPath).Msg("could not store environment export")
		}
	}
	exported, err := s.CondaSpecs.ParseCondaSpec(data)
	if err != nil {
		return result, err
	}
	result.Issues = core.CheckEnvironment(ctx, spec, exported)
	if len(result.Issues) > 0 {
		return result, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("There are package errors (%d).", len(result.Issues)))
	}
	logger.Info().Str("env", result.EnvPath).Msg("development environment is up to date")
	return result, nil
}

func (s Service) platform() string {
	if s.Platform != "" {
		return s.Platform
	}
	return HostPlatform()
}

func defaultCondaSpec(platform string) string {
	return filepath.Join("conf", "env", fmt.Sprintf("conda_env_%s.yaml", platform))
}

// condaSearchPath lists the program directories of the base installations.
func condaSearchPath(baseEnvs []string, platform string) []string {
	sub := "bin"
	if platform == "win32" {
		sub = "Scripts"
	}
	dirs := make([]string, 0, len(baseEnvs))
	for _, base := range baseEnvs {
		dirs = append(dirs, filepath.Join(base, sub))
	}
	return dirs
}
