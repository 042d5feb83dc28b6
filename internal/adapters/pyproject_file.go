package adapters

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/ZanzyTHEbar/errbuilder-go"

	"cgt-buildtools/internal/ports"
)

type pyprojectFile struct {
	Tool struct {
		Black struct {
			LineLength              int      `toml:"line-length"`
			TargetVersion           []string `toml:"target-version"`
			SkipStringNormalization bool     `toml:"skip-string-normalization"`
			Include                 string   `toml:"include"`
			Exclude                 string   `toml:"exclude"`
		} `toml:"black"`
	} `toml:"tool"`
}

// PyProjectFileAdapter turns [tool.black] of pyproject.toml into black
// command line options. A missing file yields no options.
type PyProjectFileAdapter struct{}

func NewPyProjectFileAdapter() PyProjectFileAdapter {
	return PyProjectFileAdapter{}
}

func (a PyProjectFileAdapter) BlackOptions(path string) ([]string, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	var raw pyprojectFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse pyproject.toml").
			WithCause(err)
	}
	black := raw.Tool.Black
	var options []string
	if meta.IsDefined("tool", "black", "line-length") {
		options = append(options, "--line-length", strconv.Itoa(black.LineLength))
	}
	if meta.IsDefined("tool", "black", "target-version") {
		for _, version := range black.TargetVersion {
			options = append(options, "--target-version", version)
		}
	}
	if meta.IsDefined("tool", "black", "skip-string-normalization") && black.SkipStringNormalization {
		options = append(options, "--skip-string-normalization")
	}
	if meta.IsDefined("tool", "black", "include") {
		options = append(options, "--include", black.Include)
	}
	if meta.IsDefined("tool", "black", "exclude") {
		options = append(options, "--exclude", black.Exclude)
	}
	return options, nil
}

var _ ports.PyProjectPort = PyProjectFileAdapter{}
