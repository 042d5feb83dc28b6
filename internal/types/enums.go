package types

type TaskKind string

const (
	TaskKindAsm           TaskKind = "asm"
	TaskKindC             TaskKind = "c"
	TaskKindCPP           TaskKind = "c_pp"
	TaskKindCPPI          TaskKind = "c_ppi"
	TaskKindCPPD          TaskKind = "c_ppd"
	TaskKindCPPM          TaskKind = "c_ppm"
	TaskKindCleanPP       TaskKind = "clean_pp_file"
	TaskKindProgram       TaskKind = "cprogram"
	TaskKindStaticLib     TaskKind = "cstlib"
	TaskKindCopyElf       TaskKind = "copy_elf"
	TaskKindHexGen        TaskKind = "hexgen"
	TaskKindBinGen        TaskKind = "bingen"
	TaskKindSize          TaskKind = "size"
	TaskKindNm            TaskKind = "nm"
	TaskKindVersionSource TaskKind = "create_version_source"
	TaskKindBlack         TaskKind = "black"
	TaskKindSearchSWI     TaskKind = "search_swi"
	TaskKindPrintSWI      TaskKind = "print_swi"
)

// Stage orders tasks for the runner. Tasks inside one stage are independent.
type Stage int

const (
	StageGenerate Stage = iota
	StageCompile
	StagePostCompile
	StageArchive
	StageLink
	StagePostLink
)

// Stages lists all stages in execution order.
var Stages = []Stage{StageGenerate, StageCompile, StagePostCompile, StageArchive, StageLink, StagePostLink}

func (s Stage) String() string {
	switch s {
	case StageGenerate:
		return "generate"
	case StageCompile:
		return "compile"
	case StagePostCompile:
		return "post-compile"
	case StageArchive:
		return "archive"
	case StageLink:
		return "link"
	case StagePostLink:
		return "post-link"
	default:
		return "unknown"
	}
}

type PullStatus string

const (
	PullStatusUnresolved       PullStatus = "unresolved"
	PullStatusFoundAsExpected  PullStatus = "found-as-expected"
	PullStatusFoundWrongSource PullStatus = "found-wrong-source"
	PullStatusNotFound         PullStatus = "not-found"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type PackageSource string

const (
	PackageSourceConda PackageSource = "conda"
	PackageSourcePip   PackageSource = "pip"
)
