package adapters

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"cgt-buildtools/internal/ports"
)

// ProgramFinderAdapter searches the given directories first and falls back
// to PATH.
type ProgramFinderAdapter struct {
	// Extensions tried for each name; defaults to ".exe" on Windows.
	Extensions []string
}

func NewProgramFinderAdapter() ProgramFinderAdapter {
	adapter := ProgramFinderAdapter{Extensions: []string{""}}
	if runtime.GOOS == "windows" {
		adapter.Extensions = []string{".exe", ".bat", ".cmd", ""}
	}
	return adapter
}

func (a ProgramFinderAdapter) Find(names []string, pathList []string) (string, error) {
	extensions := a.Extensions
	if len(extensions) == 0 {
		extensions = []string{""}
	}
	for _, name := range names {
		for _, dir := range pathList {
			for _, ext := range extensions {
				candidate := filepath.Join(dir, name+ext)
				if isExecutable(candidate) {
					return candidate, nil
				}
			}
		}
	}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			if abs, err := filepath.Abs(path); err == nil {
				return abs, nil
			}
			return path, nil
		}
	}
	return "", errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("Could not find the program %v", names))
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}

var _ ports.ProgramFinderPort = ProgramFinderAdapter{}
