package core

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"cgt-buildtools/internal/types"
)

var compilerVersionPattern = regexp.MustCompile(`(v\d+\.\d+\.\d+\.(LTS|STS))`)

// ToolSpec describes one program looked up during configure. Var is the
// env key receiving the path; an empty Var stores it under the upper-cased
// program name.
type ToolSpec struct {
	Names []string
	Var   string
}

// ObjcopyOptions are passed to armsize for berkeley style totals.
var ObjcopyOptions = []string{"--common", "--arch=arm", "--format=berkeley", "--totals"}

// RequiredTools lists the CGT programs (besides armcl and armar) needed by
// the planned tasks.
func RequiredTools(platform string) []ToolSpec {
	names := []string{
		"armabs", "armacpia", "armadv", "armasm", "armcg", "armclist",
		"armdem", "armdis", "armembed", "armilk", "armlibinfo", "armlnk",
		"armnm", "armopt", "armpdd", "armpprof", "armstrip",
		"armhex", "tiobj2bin", "mkhex4bin", "armofd",
		"mklib", "sh", "unzip",
	}
	tools := make([]ToolSpec, 0, len(names)+6)
	for _, name := range names {
		tools = append(tools, ToolSpec{Names: []string{name}})
	}
	tools = append(tools,
		ToolSpec{Names: []string{"armobjcopy"}, Var: "OBJCOPY"},
		ToolSpec{Names: []string{"armobjdump"}, Var: "OBJDUMP"},
		ToolSpec{Names: []string{"armreadelf"}, Var: "READELF"},
		ToolSpec{Names: []string{"armsize"}, Var: "SIZE"},
	)
	if platform == "win32" {
		tools = append(tools,
			ToolSpec{Names: []string{"gmake"}, Var: "MAKE"},
			ToolSpec{Names: []string{"gmake"}, Var: "GMAKE"})
	} else {
		tools = append(tools, ToolSpec{Names: []string{"make"}, Var: "MAKE"})
	}
	return tools
}

// EnvKey returns the env key the tool path is stored under.
func (t ToolSpec) EnvKey() string {
	if t.Var != "" {
		return t.Var
	}
	return strings.ToUpper(t.Names[0])
}

// ApplyToolchainLayout adds the compiler's bundled include and library
// directories. ccPath is the absolute path of armcl (<root>/bin/armcl).
func ApplyToolchainLayout(env types.Env, ccPath string) {
	root := filepath.Dir(filepath.Dir(ccPath))
	env.AppendUnique("INCLUDES", filepath.Join(root, "include"))
	env.AppendUnique("STLIBPATH", filepath.Join(root, "lib"))
}

// ParseCompilerVersion extracts the full version (for example
// v20.2.5.LTS) from `armcl -version` output.
func ParseCompilerVersion(output string) (string, error) {
	for _, line := range strings.Split(output, "\n") {
		if match := compilerVersionPattern.FindStringSubmatch(line); match != nil {
			return match[1], nil
		}
	}
	return "", errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg("could not determine compiler version")
}
