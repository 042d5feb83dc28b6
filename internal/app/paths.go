package app

import (
	"path/filepath"
	"strings"

	"cgt-buildtools/internal/adapters"
)

const (
	DefaultBuildDir  = "build"
	DefaultBuildFile = "build.yaml"
	DefaultCCOptions = "conf/cc/cc-options.yaml"
	DefaultPyProject = "pyproject.toml"
)

func defaultRoot(root string) string {
	root = strings.TrimSpace(root)
	if root == "" {
		root = "."
	}
	if abs, err := filepath.Abs(root); err == nil {
		return abs
	}
	return root
}

// projectPath resolves path against root, falling back to def when empty.
func projectPath(root string, path string, def string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = def
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, filepath.FromSlash(path))
}

func buildDirPath(root string, buildDir string) string {
	return projectPath(root, buildDir, DefaultBuildDir)
}

func buildFilePath(root string, buildFile string) string {
	return projectPath(root, buildFile, DefaultBuildFile)
}

func envPath(buildDir string) string {
	return filepath.Join(buildDir, adapters.EnvFileName)
}

func signaturePath(buildDir string) string {
	return filepath.Join(buildDir, adapters.SignatureFileName)
}
