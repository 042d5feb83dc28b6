package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPyProjectBlackOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pyproject.toml")
	content := `[project]
name = "foxbms"

[tool.black]
line-length = 88
target-version = ["py38", "py39"]
skip-string-normalization = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	options, err := NewPyProjectFileAdapter().BlackOptions(path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"--line-length", "88",
		"--target-version", "py38",
		"--target-version", "py39",
		"--skip-string-normalization",
	}, options)
}

func TestPyProjectBlackOptionsWithoutSection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pyproject.toml")
	require.NoError(t, os.WriteFile(path, []byte("[tool.isort]\nprofile = \"black\"\n"), 0o644))

	options, err := NewPyProjectFileAdapter().BlackOptions(path)
	require.NoError(t, err)
	assert.Empty(t, options)

	options, err = NewPyProjectFileAdapter().BlackOptions(filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)
	assert.Nil(t, options)
}

func TestPyProjectBlackOptionsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pyproject.toml")
	require.NoError(t, os.WriteFile(path, []byte("[tool.black\n"), 0o644))
	_, err := NewPyProjectFileAdapter().BlackOptions(path)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
