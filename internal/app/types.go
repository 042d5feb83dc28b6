package app

import "cgt-buildtools/internal/types"

type ConfigureRequest struct {
	Root          string
	BuildDir      string
	CCOptionsPath string
	// ToolPaths are searched for the CGT programs before PATH.
	ToolPaths []string
	// CondaEnvFile enables the development environment check when set.
	CondaEnvFile   string
	CondaBaseEnvs  []string
	IgnoreEnvCheck bool
}

type ConfigureResult struct {
	EnvPath         string
	Compiler        string
	CompilerVersion string
}

type BuildRequest struct {
	Root      string
	BuildDir  string
	BuildFile string
	// Targets restricts the build to the named programs and libraries.
	Targets []string
}

type BuildResult struct {
	Version types.VersionDescriptor
	Results []types.TaskResult
}

// Executed counts the tasks that were not up to date.
func (r BuildResult) Executed() int {
	n := 0
	for _, result := range r.Results {
		if !result.Skipped {
			n++
		}
	}
	return n
}

type FormatRequest struct {
	Root     string
	BuildDir string
	// BuildFile supplies patterns and options when Patterns is empty.
	BuildFile string
	Patterns  []string
	// Options are passed to black before those derived from pyproject.toml.
	Options   []string
	PyProject string
	Black     string
}

type FormatResult struct {
	Files   []string
	Results []types.TaskResult
}

type CheckEnvRequest struct {
	Root     string
	BuildDir string
	SpecPath string
	// BaseEnvs are conda base installations searched for the conda program.
	BaseEnvs []string
	Conda    string
	// Python is the configured interpreter; it defaults to the active one.
	Python string
}

type CheckEnvResult struct {
	EnvName string
	EnvPath string
	Issues  []types.PackageIssue
}

type VersionRequest struct {
	Root      string
	BuildFile string
	// Version overrides the version of the build file.
	Version string
	// OutputDir receives version_cfg.c and version_cfg.h when set.
	OutputDir string
}

type VersionResult struct {
	Descriptor types.VersionDescriptor
	Files      []string
}

type VerifyPullsRequest struct {
	PullFile string
	LinkLog  string
	ObjDir   string
}

type VerifyPullsResult struct {
	Report types.PullReport
}

type SWIRequest struct {
	Root     string
	BuildDir string
	// BuildFile supplies the swi section when Files is empty.
	BuildFile string
	Files     []string
	JumpTable string
	Output    string
}

type SWIResult struct {
	Output  string
	Reports []types.SWIFileReport
}
