package core

import (
	"context"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cgt-buildtools/internal/types"
)

func TestCheckEnvironment(t *testing.T) {
	spec := types.CondaSpec{
		Name: "2025-01-pale",
		Dependencies: []types.CondaDependency{
			{Package: "python=3.8.5"},
			{Package: "black=22.3.0=py38"},
			{Package: "graphviz"},
			{Package: "numpy=1.2*"},
			{Package: "doxygen=1.9.1"},
			{Pip: []string{"gitpython==3.1.24", "Sphinx_RTD_theme>=1.0", "missing-pkg==1.0", "pyyaml<6"}},
		},
	}
	exported := types.CondaSpec{
		Name: "2025-01-pale",
		Dependencies: []types.CondaDependency{
			{Package: "python=3.8.5=h12345"},
			{Package: "black=22.3.0=py39"},
			{Package: "graphviz=2.50=h1"},
			{Package: "numpy=1.21.0=abc"},
			{Package: "doxygen=1.9.2=h0"},
			{Pip: []string{"gitpython==3.1.24", "sphinx-rtd-theme==1.2.0", "pyyaml==6.0"}},
		},
	}

	issues := CheckEnvironment(context.Background(), spec, exported)
	want := []types.PackageIssue{
		{Source: types.PackageSourceConda, Package: "black=22.3.0=py38", Reason: "black: build py39 installed, py38 required"},
		{Source: types.PackageSourceConda, Package: "doxygen=1.9.1", Reason: "doxygen: version 1.9.2 installed, 1.9.1 required"},
		{Source: types.PackageSourcePip, Package: "missing-pkg==1.0", Reason: "Could not find missing-pkg"},
		{Source: types.PackageSourcePip, Package: "pyyaml<6", Reason: "pyyaml: version 6.0 installed, <6 required"},
	}
	if diff := cmp.Diff(want, issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckEnvironmentSatisfied(t *testing.T) {
	spec := types.CondaSpec{Dependencies: []types.CondaDependency{{Package: "python=3.8"}}}
	exported := types.CondaSpec{Dependencies: []types.CondaDependency{{Package: "python=3.8=h1"}}}
	assert.Empty(t, CheckEnvironment(context.Background(), spec, exported))

	missing := CheckEnvironment(context.Background(), spec, types.CondaSpec{})
	require.Len(t, missing, 1)
	assert.Equal(t, "Could not find python", missing[0].Reason)
}

func TestFindDevelEnv(t *testing.T) {
	envs := []string{"/opt/miniconda3", "/opt/miniconda3/envs/2025-01-pale"}
	env, err := FindDevelEnv(envs, "2025-01-pale")
	require.NoError(t, err)
	assert.Equal(t, "/opt/miniconda3/envs/2025-01-pale", env)

	_, err = FindDevelEnv(envs, "other")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
	assert.Equal(t, "Development environment 'other' not found.", errMessage(err))
}

func TestCheckActiveInterpreter(t *testing.T) {
	env := "/opt/miniconda3/envs/pale"
	require.NoError(t, CheckActiveInterpreter("pale", env+"/python", env+"/python", env, false))

	err := CheckActiveInterpreter("pale", "/usr/bin/python3", "/usr/bin/python3", env, false)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
	assert.Contains(t, errMessage(err), "Run 'conda activate pale'")
}
