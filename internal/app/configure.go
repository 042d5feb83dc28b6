package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"cgt-buildtools/internal/core"
	"cgt-buildtools/internal/ports"
	"cgt-buildtools/internal/shared"
	"cgt-buildtools/internal/types"
)

// Configure locates the TI ARM code generation tools, merges the cc options
// and persists the resulting flag environment in the build directory.
func (s Service) Configure(ctx context.Context, req ConfigureRequest) (ConfigureResult, error) {
	logger := log.Ctx(ctx)
	root := defaultRoot(req.Root)
	buildDir := buildDirPath(root, req.BuildDir)
	platform := s.Platform
	if platform == "" {
		platform = HostPlatform()
	}

	opts, err := s.CCOptions.LoadCCOptions(projectPath(root, req.CCOptionsPath, DefaultCCOptions))
	if err != nil {
		return ConfigureResult{}, err
	}
	if err := core.ValidateCCOptions(ctx, opts, platform); err != nil {
		return ConfigureResult{}, err
	}
	env := types.NewEnv()
	core.ApplyCCOptions(env, opts, platform)

	if req.CondaEnvFile != "" && !req.IgnoreEnvCheck {
		check, err := s.CheckEnv(ctx, CheckEnvRequest{
			Root:     root,
			BuildDir: buildDir,
			SpecPath: req.CondaEnvFile,
			BaseEnvs: req.CondaBaseEnvs,
		})
		if err != nil {
			return ConfigureResult{}, err
		}
		env.Set("CONDA_DEVEL_ENV", check.EnvName)
		env.Set("ENV_CHECK", "true")
	} else {
		env.Set("ENV_CHECK", "false")
	}

	cc, err := s.Programs.Find([]string{"armcl"}, req.ToolPaths)
	if err != nil {
		return ConfigureResult{}, err
	}
	env.Set("CC", cc)
	env.Set("LINK_CC", cc)
	env.Set("CC_NAME", "cgt")
	revision, err := s.compilerQuery(ctx, cc, "--compiler_revision")
	if err != nil {
		return ConfigureResult{}, err
	}
	env.Set("CC_VERSION", strings.TrimSpace(revision))
	versionOutput, err := s.compilerQuery(ctx, cc, "-version")
	if err != nil {
		return ConfigureResult{}, err
	}
	fullVersion, err := core.ParseCompilerVersion(versionOutput)
	if err != nil {
		return ConfigureResult{}, err
	}
	env.Set("CC_VERSION_FULL", fullVersion)

	ar, err := s.Programs.Find([]string{"armar"}, req.ToolPaths)
	if err != nil {
		return ConfigureResult{}, err
	}
	env.Set("AR", ar)
	for _, tool := range core.RequiredTools(platform) {
		path, err := s.Programs.Find(tool.Names, req.ToolPaths)
		if err != nil {
			return ConfigureResult{}, err
		}
		env.Set(tool.EnvKey(), path)
	}
	env.Set("OBJCOPY_OPTS", core.ObjcopyOptions...)
	if black, err := s.Programs.Find([]string{"black"}, nil); err == nil {
		env.Set("BLACK", black)
	} else {
		logger.Debug().Err(err).Msg("black not found, format will look it up again")
	}

	core.ApplyCGTFlags(env)
	core.ApplyToolchainLayout(env, cc)
	env.Set("DEST_OS", "EMBEDDED")
	env.Set("COMPILER_CC", "ti_arm_cgt")

	path := envPath(buildDir)
	if err := s.EnvStore.SaveEnv(path, env); err != nil {
		return ConfigureResult{}, err
	}
	logger.Info().
		Str("compiler", cc).
		Str("version", fullVersion).
		Str("env", path).
		Msg("Checking for TI ARM CGT compiler and tools")
	return ConfigureResult{EnvPath: path, Compiler: cc, CompilerVersion: fullVersion}, nil
}

func (s Service) compilerQuery(ctx context.Context, cc string, flag string) (string, error) {
	res, err := s.Process.Run(ctx, ports.ProcessRequest{Args: []string{cc, flag}})
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("Could not successfully run '%s' on %s", flag, cc)).
			WithCause(shared.CommandError([]byte(res.Stderr), err))
	}
	return res.Stdout, nil
}
