package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"cgt-buildtools/internal/types"
)

func TestHeaderGuard(t *testing.T) {
	assert.Equal(t, "VERSION_CFG_H_", HeaderGuard("build/bin/version_cfg.h"))
	assert.Equal(t, "INFO_H_", HeaderGuard("info.h"))
}

func TestRenderVersionHeader(t *testing.T) {
	desc := types.VersionDescriptor{
		DerivedVersion:      types.DerivedVersion{Version: "1.2.3-4-abc1234"},
		UnderVersionControl: true,
		RemoteURL:           "git@example.com:fw.git",
	}
	header := RenderVersionHeader(desc, VersionHeaderName)

	assert.True(t, strings.HasPrefix(header, "#ifndef VERSION_CFG_H_\r\n#define VERSION_CFG_H_\r\n"))
	assert.Contains(t, header, "    char version[15u];\r\n")
	assert.Contains(t, header, "    char git_remote[22u];\r\n")
	assert.Contains(t, header, "extern const VERSION_s f_version_info;\r\n")
	assert.True(t, strings.HasSuffix(header, "#endif /* VERSION_CFG_H_ */\r\n"))
}

func TestRenderVersionSource(t *testing.T) {
	desc := types.VersionDescriptor{
		DerivedVersion: types.DerivedVersion{Version: "no-vcs-1.2.3-dirty"},
		IsDirty:        true,
	}
	source := RenderVersionSource(desc, VersionHeaderName)

	want := "#include \"version_cfg.h\"\r\n" +
		"#pragma RETAIN(f_version_info)\r\n" +
		"const VERSION_s f_version_info = {\r\n" +
		"    .under_version_control = false,\r\n" +
		"    .is_dirty = true,\r\n" +
		"    .version = \"no-vcs-1.2.3-dirty\",\r\n" +
		"    .git_remote = \"No remote\",\r\n" +
		"};\r\n"
	assert.Equal(t, want, source)
}

func TestRenderVersionHeaderDefaultRemote(t *testing.T) {
	header := RenderVersionHeader(types.VersionDescriptor{}, VersionHeaderName)
	assert.Contains(t, header, "    char version[0u];\r\n")
	assert.Contains(t, header, "    char git_remote[9u];\r\n")
	assert.Len(t, NoRemote, 9)

	source := RenderVersionSource(types.VersionDescriptor{RemoteURL: "  "}, VersionHeaderName)
	assert.Contains(t, source, ".git_remote = \""+NoRemote+"\",")
}
