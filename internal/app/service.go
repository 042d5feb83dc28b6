package app

import (
	"runtime"

	"cgt-buildtools/internal/adapters"
	"cgt-buildtools/internal/ports"
)

type Service struct {
	Process       ports.ProcessRunnerPort
	SourceControl ports.SourceControlPort
	Programs      ports.ProgramFinderPort
	CCOptions     ports.CCOptionsPort
	Builds        ports.BuildDescriptionPort
	EnvStore      ports.EnvStorePort
	Pulls         ports.PullConfigPort
	PyProject     ports.PyProjectPort
	Glob          ports.SourceGlobPort
	Conda         ports.CondaPort
	CondaSpecs    ports.CondaSpecPort
	Pragmas       ports.PragmaScannerPort
	// Signatures opens the task signature store of a build directory.
	Signatures func(buildDir string) (ports.SignatureStorePort, error)
	Platform   string
	Workers    int
}

func NewService() Service {
	process := adapters.NewExecProcessAdapter()
	return Service{
		Process:       process,
		SourceControl: adapters.NewGitCLIAdapter(process),
		Programs:      adapters.NewProgramFinderAdapter(),
		CCOptions:     adapters.NewCCOptionsFileAdapter(),
		Builds:        adapters.NewBuildFileAdapter(),
		EnvStore:      adapters.NewEnvFileAdapter(),
		Pulls:         adapters.NewPullConfigFileAdapter(),
		PyProject:     adapters.NewPyProjectFileAdapter(),
		Glob:          adapters.NewSourceGlobAdapter(),
		Conda:         adapters.NewCondaCLIAdapter(process),
		CondaSpecs:    adapters.NewCondaSpecFileAdapter(),
		Pragmas:       adapters.NewTreeSitterPragmaScanner(),
		Signatures:    openSignatureStore,
		Platform:      HostPlatform(),
		Workers:       runtime.NumCPU(),
	}
}

// HostPlatform names the running platform the way cc-options files key
// their per-platform sections.
func HostPlatform() string {
	if runtime.GOOS == "windows" {
		return "win32"
	}
	return runtime.GOOS
}

func openSignatureStore(buildDir string) (ports.SignatureStorePort, error) {
	return adapters.NewSignatureFileStore(signaturePath(buildDir))
}
