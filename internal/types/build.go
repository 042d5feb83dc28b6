package types

// BuildDescription is the project build file (build.yaml).
type BuildDescription struct {
	Version   string       `yaml:"version"`
	Programs  []ProgramDef `yaml:"programs,omitempty"`
	Libraries []LibraryDef `yaml:"libraries,omitempty"`
	SWI       *SWIDef      `yaml:"swi,omitempty"`
	Format    *FormatDef   `yaml:"format,omitempty"`
}

type ProgramDef struct {
	Target          string   `yaml:"target"`
	Sources         []string `yaml:"sources"`
	Includes        []string `yaml:"includes,omitempty"`
	Defines         []string `yaml:"defines,omitempty"`
	CFlags          []string `yaml:"cflags,omitempty"`
	LinkFlags       []string `yaml:"linkflags,omitempty"`
	CmdFiles        []string `yaml:"cmd_files,omitempty"`
	Use             []string `yaml:"use,omitempty"`
	LinkerScript    string   `yaml:"linker_script"`
	LinkerScriptHex string   `yaml:"linker_script_hex,omitempty"`
	LinkerPulls     string   `yaml:"linker_pulls,omitempty"`
	NoVersion       bool     `yaml:"no_version,omitempty"`
	Idx             int      `yaml:"idx,omitempty"`
}

type LibraryDef struct {
	Target   string   `yaml:"target"`
	Sources  []string `yaml:"sources"`
	Includes []string `yaml:"includes,omitempty"`
	Defines  []string `yaml:"defines,omitempty"`
	CFlags   []string `yaml:"cflags,omitempty"`
	CmdFiles []string `yaml:"cmd_files,omitempty"`
	Idx      int      `yaml:"idx,omitempty"`
}

type SWIDef struct {
	Files     []string `yaml:"files"`
	JumpTable string   `yaml:"jump_table"`
	Output    string   `yaml:"output,omitempty"`
}

type FormatDef struct {
	Files   []string `yaml:"files"`
	Options []string `yaml:"options,omitempty"`
}
