package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cgt-buildtools/internal/app"
	"cgt-buildtools/tests/testutil"
)

// noRepository makes version derivation independent of the checkout the
// tests run in.
type noRepository struct{}

func (noRepository) IsRepository(context.Context, string) bool { return false }

func (noRepository) Describe(context.Context, string) (string, error) { return "", nil }

func (noRepository) PushRemote(context.Context, string) (string, error) { return "", nil }

func (noRepository) IsDirty(context.Context, string) (bool, error) { return true, nil }

func fixtureService() app.Service {
	service := app.NewService()
	service.SourceControl = noRepository{}
	service.Platform = "linux"
	service.Workers = 1
	return service
}

// TestGoldenOutputs generates the SWI report and the version sources of the
// sample project and compares them against committed golden files. Missing
// golden files are written so they can be committed.
//
// To update golden files after an intentional change, delete the
// testdata/golden/ directory and re-run the test.
func TestGoldenOutputs(t *testing.T) {
	root := testutil.RepoRoot(t)
	project := filepath.Join(root, "fixtures", "project")
	goldenDir := filepath.Join(root, "tests", "integration", "testdata", "golden")
	service := fixtureService()

	buildDir := t.TempDir()
	swi, err := service.SearchSWI(t.Context(), app.SWIRequest{Root: project, BuildDir: buildDir})
	require.NoError(t, err)

	versionDir := t.TempDir()
	version, err := service.Version(t.Context(), app.VersionRequest{Root: project, OutputDir: versionDir})
	require.NoError(t, err)
	require.Len(t, version.Files, 2)

	goldenFiles := map[string]string{
		"swi.json":      swi.Output,
		"version_cfg.c": version.Files[0],
		"version_cfg.h": version.Files[1],
	}
	for name, actualPath := range goldenFiles {
		t.Run(name, func(t *testing.T) {
			actual, err := os.ReadFile(actualPath)
			require.NoError(t, err)

			goldenPath := filepath.Join(goldenDir, name)
			if _, statErr := os.Stat(goldenPath); os.IsNotExist(statErr) {
				require.NoError(t, os.MkdirAll(goldenDir, 0o755))
				require.NoError(t, os.WriteFile(goldenPath, actual, 0o644))
				t.Logf("golden file written: %s (commit it)", goldenPath)
				return
			}

			expected, err := os.ReadFile(goldenPath)
			require.NoError(t, err)
			assert.Equal(t, string(expected), string(actual),
				"golden mismatch for %s -- delete testdata/golden/ and re-run to regenerate", name)
		})
	}
}

// TestGoldenVersionStructure checks the derived version of the sample
// project independent of the exact file layout.
func TestGoldenVersionStructure(t *testing.T) {
	root := testutil.RepoRoot(t)
	service := fixtureService()

	result, err := service.Version(t.Context(), app.VersionRequest{Root: filepath.Join(root, "fixtures", "project")})
	require.NoError(t, err)
	descriptor := result.Descriptor
	assert.True(t, descriptor.IsDirty)
	assert.Equal(t, "No remote", descriptor.RemoteURL)
	assert.False(t, descriptor.UnderVersionControl)
	assert.Equal(t, "1.5.2", descriptor.Tag)
	assert.True(t, descriptor.Dirty)
	assert.Contains(t, descriptor.Version, "1.5.2")
}

func TestVerifyPullsFixture(t *testing.T) {
	root := testutil.RepoRoot(t)
	service := fixtureService()

	t.Run("pulls match", func(t *testing.T) {
		result, err := service.VerifyPulls(t.Context(), app.VerifyPullsRequest{
			PullFile: filepath.Join(root, "fixtures", "project", "src", "app", "app_pulls.json"),
			LinkLog:  filepath.Join(root, "fixtures", "linker_output.log"),
		})
		require.NoError(t, err)
		assert.False(t, result.Report.Failed())
		assert.Len(t, result.Report.Hits, 2)
	})

	t.Run("wrong source", func(t *testing.T) {
		pulls := filepath.Join(t.TempDir(), "pulls.json")
		require.NoError(t, os.WriteFile(pulls, []byte(`{"FSYS_RaisePrivilege": "src/os/fsys.c.1.obj"}`), 0o644))
		result, err := service.VerifyPulls(t.Context(), app.VerifyPullsRequest{
			PullFile: pulls,
			LinkLog:  filepath.Join(root, "fixtures", "linker_output.log"),
		})
		require.Error(t, err)
		assert.True(t, result.Report.Failed())
	})
}
