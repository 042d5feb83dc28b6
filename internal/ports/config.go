package ports

import "cgt-buildtools/internal/types"

type CCOptionsPort interface {
	LoadCCOptions(path string) (types.CCOptions, error)
}

type BuildDescriptionPort interface {
	LoadBuildDescription(path string) (types.BuildDescription, error)
}

// EnvStorePort persists the configured flag environment between the
// configure and build commands.
type EnvStorePort interface {
	SaveEnv(path string, env types.Env) error
	LoadEnv(path string) (types.Env, error)
}

type PullConfigPort interface {
	LoadPulls(path string) (types.LinkerPulls, error)
}

type PyProjectPort interface {
	// BlackOptions returns command line options derived from [tool.black].
	BlackOptions(path string) ([]string, error)
}

type SourceGlobPort interface {
	Expand(root string, patterns []string) ([]string, error)
}
