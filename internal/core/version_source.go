package core

import (
	"fmt"
	"path/filepath"
	"strings"

	"cgt-buildtools/internal/types"
)

const (
	VersionSourceName = "version_cfg.c"
	VersionHeaderName = "version_cfg.h"
	// NoRemote stands in for the push remote when none is configured.
	NoRemote = "No remote"
)

// HeaderGuard derives the include guard from the header file name.
func HeaderGuard(headerName string) string {
	base := filepath.Base(headerName)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ToUpper(stem) + "_H_"
}

func cBool(value bool) string {
	if value {
		return "true"
	}
	return "false"
}

// RenderVersionSource returns the C definition of the version structure.
func RenderVersionSource(desc types.VersionDescriptor, headerName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#include \"%s\"\r\n", filepath.Base(headerName))
	b.WriteString("#pragma RETAIN(f_version_info)\r\n")
	b.WriteString("const VERSION_s f_version_info = {\r\n")
	fmt.Fprintf(&b, "    .under_version_control = %s,\r\n", cBool(desc.UnderVersionControl))
	fmt.Fprintf(&b, "    .is_dirty = %s,\r\n", cBool(desc.IsDirty))
	fmt.Fprintf(&b, "    .version = \"%s\",\r\n", desc.Version)
	fmt.Fprintf(&b, "    .git_remote = \"%s\",\r\n", remoteOrDefault(desc.RemoteURL))
	b.WriteString("};\r\n")
	return b.String()
}

// RenderVersionHeader returns the declaration of the version structure. The
// character arrays are sized to the exact string lengths.
func RenderVersionHeader(desc types.VersionDescriptor, headerName string) string {
	guard := HeaderGuard(headerName)
	remote := remoteOrDefault(desc.RemoteURL)
	var b strings.Builder
	fmt.Fprintf(&b, "#ifndef %s\r\n", guard)
	fmt.Fprintf(&b, "#define %s\r\n", guard)
	b.WriteString("#include \"general.h\"\r\n")
	b.WriteString("typedef struct VERSION {\r\n")
	b.WriteString("    bool under_version_control;\r\n")
	b.WriteString("    bool is_dirty;\r\n")
	fmt.Fprintf(&b, "    char version[%du];\r\n", len(desc.Version))
	fmt.Fprintf(&b, "    char git_remote[%du];\r\n", len(remote))
	b.WriteString("} VERSION_s;\r\n")
	b.WriteString("extern const VERSION_s f_version_info;\r\n")
	fmt.Fprintf(&b, "#endif /* %s */\r\n", guard)
	return b.String()
}

func remoteOrDefault(remote string) string {
	remote = strings.TrimSpace(remote)
	if remote == "" {
		return NoRemote
	}
	return remote
}
