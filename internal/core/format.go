package core

import (
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"cgt-buildtools/internal/types"
)

const runBlack = "${BLACK} ${BLACK_OPTIONS} ${SRC[0]}"

// PlanFormat creates one black task per file. Files are formatted in place.
func PlanFormat(files []string, env types.Env, dir string) ([]types.Task, error) {
	if len(files) == 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("No files given.")
	}
	tasks := make([]types.Task, 0, len(files))
	for _, file := range files {
		rel, err := filepath.Rel(dir, file)
		if err != nil {
			rel = file
		}
		tasks = append(tasks, types.Task{
			Name:   "black " + filepath.ToSlash(rel),
			Kind:   types.TaskKindBlack,
			Stage:  types.StageCompile,
			Inputs: []string{file},
			Run:    runBlack,
			Vars:   []string{"BLACK_OPTIONS"},
			Env:    env,
			Dir:    dir,
		})
	}
	return tasks, nil
}
