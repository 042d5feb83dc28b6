package adapters

import (
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"cgt-buildtools/internal/ports"
	"cgt-buildtools/internal/types"
)

// EnvFileName is the configured environment below the build directory.
const EnvFileName = "cgt-env.yaml"

type EnvFileAdapter struct{}

func NewEnvFileAdapter() EnvFileAdapter {
	return EnvFileAdapter{}
}

func (a EnvFileAdapter) SaveEnv(path string, env types.Env) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create build directory").
			WithCause(err)
	}
	data, err := yaml.Marshal(map[string][]string(env))
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode environment").
			WithCause(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write environment").
			WithCause(err)
	}
	return nil
}

func (a EnvFileAdapter) LoadEnv(path string) (types.Env, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("project is not configured, run configure first").
			WithCause(err)
	}
	values := map[string][]string{}
	if err := loadYAML(path, "environment", &values); err != nil {
		return nil, err
	}
	return types.Env(values), nil
}

var _ ports.EnvStorePort = EnvFileAdapter{}
