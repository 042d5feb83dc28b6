package adapters

import (
	"fmt"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"cgt-buildtools/internal/ports"
	"cgt-buildtools/internal/types"
)

type CCOptionsFileAdapter struct{}

func NewCCOptionsFileAdapter() CCOptionsFileAdapter {
	return CCOptionsFileAdapter{}
}

func (a CCOptionsFileAdapter) LoadCCOptions(path string) (types.CCOptions, error) {
	var opts types.CCOptions
	if err := loadYAML(path, "cc options", &opts); err != nil {
		return types.CCOptions{}, err
	}
	return opts, nil
}

// loadYAML reads path into out. what names the file kind in errors.
func loadYAML(path string, what string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("%s file not found: %s", what, path)).
			WithCause(err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to parse %s yaml", what)).
			WithCause(err)
	}
	return nil
}

var _ ports.CCOptionsPort = CCOptionsFileAdapter{}
