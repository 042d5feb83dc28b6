package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cgt-buildtools/internal/core"
	"cgt-buildtools/internal/types"
)

func intPtr(v int) *int { return &v }

func TestVersion(t *testing.T) {
	root := filepath.Join(fixturesDir(t), "project")
	tests := []struct {
		name   string
		vcs    fakeSourceControl
		req    VersionRequest
		expect types.VersionDescriptor
	}{
		{
			name: "no repository",
			req:  VersionRequest{Root: root},
			expect: types.VersionDescriptor{
				DerivedVersion: types.DerivedVersion{Version: "no-vcs-1.5.2-dirty", Tag: "1.5.2", Dirty: true},
				IsDirty:        true,
				RemoteURL:      core.NoRemote,
			},
		},
		{
			name: "tagged commit",
			vcs:  fakeSourceControl{repository: true, describe: "v1.5.2-3-gabc1234", remote: "https://github.com/foxBMS/foxbms-2.git"},
			req:  VersionRequest{Root: root},
			expect: types.VersionDescriptor{
				DerivedVersion:      types.DerivedVersion{Version: "1.5.2-3-abc1234", Tag: "1.5.2", Distance: intPtr(3), CommitID: "abc1234"},
				UnderVersionControl: true,
				RemoteURL:           "https://github.com/foxBMS/foxbms-2.git",
			},
		},
		{
			name: "untagged dirty commit without remote",
			vcs:  fakeSourceControl{repository: true, describe: "abc1234-dirty", dirty: true},
			req:  VersionRequest{Root: root, Version: "2.0.0"},
			expect: types.VersionDescriptor{
				DerivedVersion:      types.DerivedVersion{Version: "unreleased-abc1234-dirty", Tag: "unreleased", CommitID: "abc1234", Dirty: true},
				UnderVersionControl: true,
				IsDirty:             true,
				RemoteURL:           core.NoRemote,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := testService(t, &recordingProcess{}, t.TempDir())
			service.SourceControl = tt.vcs
			result, err := service.Version(t.Context(), tt.req)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.expect, result.Descriptor); diff != "" {
				t.Fatalf("descriptor mismatch (-want +got):\n%s", diff)
			}
			assert.Empty(t, result.Files)
		})
	}
}

func TestVersionWritesSources(t *testing.T) {
	out := t.TempDir()
	service := testService(t, &recordingProcess{}, t.TempDir())
	service.SourceControl = fakeSourceControl{repository: true, describe: "v1.5.2-0-g1234567"}

	result, err := service.Version(t.Context(), VersionRequest{
		Root:      filepath.Join(fixturesDir(t), "project"),
		OutputDir: out,
	})
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(out, core.VersionSourceName),
		filepath.Join(out, core.VersionHeaderName),
	}, result.Files)
	header, err := os.ReadFile(result.Files[1])
	require.NoError(t, err)
	assert.Contains(t, string(header), "    char version[15u];\r\n")
	assert.Contains(t, string(header), "#ifndef VERSION_CFG_H_\r\n")
}
