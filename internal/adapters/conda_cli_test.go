package adapters

import (
	"context"
	"errors"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cgt-buildtools/internal/ports"
)

type scriptedProcess struct {
	requests []ports.ProcessRequest
	result   ports.ProcessResult
	err      error
}

func (p *scriptedProcess) Run(_ context.Context, req ports.ProcessRequest) (ports.ProcessResult, error) {
	p.requests = append(p.requests, req)
	return p.result, p.err
}

func TestCondaCLIAdapterListEnvs(t *testing.T) {
	process := &scriptedProcess{result: ports.ProcessResult{
		Stdout: `{"envs": ["/opt/miniconda3", "/opt/miniconda3/envs/2024-06-foxbms-env"]}`,
	}}
	adapter := NewCondaCLIAdapter(process)

	envs, err := adapter.ListEnvs(context.Background(), "/opt/miniconda3/bin/conda")
	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/miniconda3", "/opt/miniconda3/envs/2024-06-foxbms-env"}, envs.Envs)
	require.Len(t, process.requests, 1)
	assert.Equal(t, []string{"/opt/miniconda3/bin/conda", "env", "list", "--json"}, process.requests[0].Args)
}

func TestCondaCLIAdapterErrors(t *testing.T) {
	t.Run("list fails", func(t *testing.T) {
		process := &scriptedProcess{
			result: ports.ProcessResult{Stderr: "conda: command failed", ExitCode: 1},
			err:    errors.New("exit status 1"),
		}
		_, err := NewCondaCLIAdapter(process).ListEnvs(context.Background(), "conda")
		require.Error(t, err)
		assert.Equal(t, errbuilder.CodeInternal, errbuilder.CodeOf(err))
		assert.Contains(t, err.Error(), "Searching for conda environments failed.")
	})

	t.Run("list is not json", func(t *testing.T) {
		process := &scriptedProcess{result: ports.ProcessResult{Stdout: "envs: none"}}
		_, err := NewCondaCLIAdapter(process).ListEnvs(context.Background(), "conda")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse conda environment list")
	})

	t.Run("export fails", func(t *testing.T) {
		process := &scriptedProcess{
			result: ports.ProcessResult{ExitCode: 1},
			err:    errors.New("exit status 1"),
		}
		_, err := NewCondaCLIAdapter(process).Export(context.Background(), "conda", "foxbms")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Could not export dependencies from environment foxbms")
	})
}

func TestCondaCLIAdapterExport(t *testing.T) {
	process := &scriptedProcess{result: ports.ProcessResult{Stdout: "name: foxbms\n"}}
	data, err := NewCondaCLIAdapter(process).Export(context.Background(), "conda", "foxbms")
	require.NoError(t, err)
	assert.Equal(t, "name: foxbms\n", string(data))
	assert.Equal(t, []string{"conda", "env", "export", "-n", "foxbms"}, process.requests[0].Args)
	assert.Equal(t, []byte("\n"), process.requests[0].Stdin)
}
