package adapters

import (
	"context"
	"encoding/json"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"cgt-buildtools/internal/ports"
	"cgt-buildtools/internal/shared"
	"cgt-buildtools/internal/types"
)

type CondaCLIAdapter struct {
	process ports.ProcessRunnerPort
}

func NewCondaCLIAdapter(process ports.ProcessRunnerPort) CondaCLIAdapter {
	return CondaCLIAdapter{process: process}
}

func (a CondaCLIAdapter) ListEnvs(ctx context.Context, conda string) (types.CondaEnvList, error) {
	res, err := a.process.Run(ctx, ports.ProcessRequest{Args: []string{conda, "env", "list", "--json"}})
	if err != nil {
		return types.CondaEnvList{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("Searching for conda environments failed.").
			WithCause(shared.CommandError([]byte(res.Stderr), err))
	}
	var envs types.CondaEnvList
	if err := json.Unmarshal([]byte(res.Stdout), &envs); err != nil {
		return types.CondaEnvList{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to parse conda environment list").
			WithCause(err)
	}
	return envs, nil
}

func (a CondaCLIAdapter) Export(ctx context.Context, conda string, envName string) ([]byte, error) {
	res, err := a.process.Run(ctx, ports.ProcessRequest{
		Args:  []string{conda, "env", "export", "-n", envName},
		Stdin: []byte("\n"),
	})
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("Could not export dependencies from environment " + envName).
			WithCause(shared.CommandError([]byte(res.Stderr), err))
	}
	return []byte(res.Stdout), nil
}

var _ ports.CondaPort = CondaCLIAdapter{}
