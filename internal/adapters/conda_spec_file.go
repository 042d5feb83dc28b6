package adapters

import (
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"cgt-buildtools/internal/ports"
	"cgt-buildtools/internal/types"
)

type CondaSpecFileAdapter struct{}

func NewCondaSpecFileAdapter() CondaSpecFileAdapter {
	return CondaSpecFileAdapter{}
}

func (a CondaSpecFileAdapter) LoadCondaSpec(path string) (types.CondaSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.CondaSpec{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("conda environment file not found").
			WithCause(err)
	}
	return a.ParseCondaSpec(data)
}

func (a CondaSpecFileAdapter) ParseCondaSpec(data []byte) (types.CondaSpec, error) {
	var spec types.CondaSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return types.CondaSpec{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse conda environment yaml").
			WithCause(err)
	}
	if spec.Name == "" {
		return types.CondaSpec{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("conda environment has no name")
	}
	return spec, nil
}

var _ ports.CondaSpecPort = CondaSpecFileAdapter{}
