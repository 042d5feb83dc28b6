package types

// CCOptions mirrors conf/cc/cc-options.yaml.
type CCOptions struct {
	IncludePaths map[string][]string `yaml:"INCLUDE_PATHS"`
	LibraryPaths map[string][]string `yaml:"LIBRARY_PATHS"`
	Libraries    CCLibraries         `yaml:"LIBRARIES"`
	CFlags       CCFlags             `yaml:"CFLAGS"`
	LinkFlags    []string            `yaml:"LINKFLAGS"`
	HexGenFlags  []string            `yaml:"HEXGENFLAGS"`
	NmFlags      []string            `yaml:"NMFLAGS"`
}

type CCLibraries struct {
	Static []string `yaml:"ST"`
	Target []string `yaml:"TARGET"`
}

type CCFlags struct {
	Common            []string `yaml:"common"`
	CommonCompileOnly []string `yaml:"common_compile_only"`
	Foxbms            []string `yaml:"foxbms"`
	HAL               []string `yaml:"hal"`
	OperatingSystem   []string `yaml:"operating_system"`
}
