package app

import (
	"context"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"cgt-buildtools/internal/core"
	"cgt-buildtools/internal/types"
)

// Format runs black on every file matched by the requested patterns.
// Unchanged files are not formatted again.
func (s Service) Format(ctx context.Context, req FormatRequest) (FormatResult, error) {
	root := defaultRoot(req.Root)
	buildDir := buildDirPath(root, req.BuildDir)
	patterns := req.Patterns
	options := append([]string(nil), req.Options...)
	if len(patterns) == 0 {
		desc, err := s.Builds.LoadBuildDescription(buildFilePath(root, req.BuildFile))
		if err != nil {
			return FormatResult{}, err
		}
		if desc.Format == nil {
			return FormatResult{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("no files to format: pass patterns or add a format section to the build file")
		}
		patterns = desc.Format.Files
		options = append(options, desc.Format.Options...)
	}

	files, err := s.Glob.Expand(root, patterns)
	if err != nil {
		return FormatResult{}, err
	}
	derived, err := s.PyProject.BlackOptions(projectPath(root, req.PyProject, DefaultPyProject))
	if err != nil {
		return FormatResult{}, err
	}
	options = append(options, derived...)

	black := req.Black
	if black == "" {
		black, err = s.Programs.Find([]string{"black"}, nil)
		if err != nil {
			return FormatResult{}, err
		}
	}
	env := types.NewEnv()
	env.Set("BLACK", black)
	env.Set("BLACK_OPTIONS", options...)

	tasks, err := core.PlanFormat(files, env, root)
	if err != nil {
		return FormatResult{}, err
	}
	log.Ctx(ctx).Debug().
		Int("files", len(files)).
		Strs("options", options).
		Msg("formatting")
	results, err := s.runTasks(ctx, buildDir, tasks)
	return FormatResult{Files: files, Results: results}, err
}
