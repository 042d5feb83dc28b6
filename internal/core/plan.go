package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"cgt-buildtools/internal/shared"
	"cgt-buildtools/internal/types"
)

const (
	runAsm = "${CC} ${CFLAGS} ${CC_COMPILE_ONLY} ${ASM_DIRECTORY}${TGT[0].parent} " +
		"${CPPPATH_ST:INCPATHS} ${DEFINES_ST:DEFINES} ${SRC} ${CC_TGT_F}${TGT[0]}"
	runC = "${CC} ${CFLAGS} ${CMD_FILES_ST:CMD_FILES} ${CFLAGS_COMPILE_ONLY} ${CC_COMPILE_ONLY} " +
		"${OBJ_DIRECTORY}${TGT[0].parent} ${CPPPATH_ST:INCPATHS} " +
		"${DEFINES_ST:DEFINES} ${SRC[0]} ${CC_TGT_F}${TGT[0]}"
	// %s is the preprocessor mode key (PPO, PPI, PPD, PPM).
	runPreprocess = "${CC} ${CFLAGS} ${CMD_FILES_ST:CMD_FILES} ${%s} ${CC_TGT_F}${TGT[0]} " +
		"${CPPPATH_ST:INCPATHS} ${DEFINES_ST:DEFINES} ${SRC[0]}"
	runLink = "${LINK_CC} ${CFLAGS} ${CMD_FILES_ST:CMD_FILES} ${RUN_LINKER} " +
		"${LINKFLAGS} ${MAP_FILE}${TGT[2]} " +
		"${XML_LINK_INFO}${TGT[1]} ${CCLINK_TGT_F}${TGT[0]} " +
		"${SRC} ${LINKER_SCRIPT} ${LIBPATH_ST:LIBPATH} ${STLIBPATH_ST:STLIBPATH} " +
		"${LIB_ST:LIB} ${STLIB_ST:STLIB} ${TARGETLIB_ST:TARGETLIB} ${LDFLAGS}"
	runArchive = "${AR} ${ARFLAGS} ${AR_TGT_F} ${TGT[0]} ${SRC}"
	runHexGen  = "${ARMHEX} -q ${HEXGENFLAGS} --map=${TGT[1]} ${LINKER_SCRIPT_HEX} ${SRC[0]} -o ${TGT[0]}"
	runBinGen  = "${TIOBJ2BIN} ${SRC[0]} ${TGT[0]} ${ARMOFD} ${ARMHEX} ${MKHEX4BIN}"
	runSize    = "${SIZE} ${OBJCOPY_OPTS} ${SRC[0]}"
	runNm      = "${ARMNM} ${NMFLAGS} --output=${TGT} ${SRC}"

	scanLibrariesFlag = "--scan_libraries"
)

var compileVars = []string{"CCDEPS", "CMD_FILES_HASH"}

// PlanOptions carries the project layout shared by all planned targets.
type PlanOptions struct {
	// Root is the project directory relative paths resolve against.
	Root     string
	BuildDir string
	Version  types.VersionDescriptor
	// IsDir reports whether an include directory exists.
	IsDir func(string) bool
}

func (o PlanOptions) abs(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(o.Root, path)
}

func (o PlanOptions) isDir(path string) bool {
	if o.IsDir != nil {
		return o.IsDir(path)
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// objectDir mirrors the source location below the target's build directory.
func (o PlanOptions) objectDir(outDir string, source string) string {
	rel, err := filepath.Rel(o.Root, source)
	if err != nil || strings.HasPrefix(rel, "..") {
		return outDir
	}
	return filepath.Join(outDir, filepath.Dir(rel))
}

type compileUnit struct {
	target   string
	idx      int
	outDir   string
	env      types.Env
	tasks    []types.Task
	linkable []string
}

// PlanProgram plans every task that builds an executable: compilation of all
// sources, linking, the post-link artefacts and the version source.
func PlanProgram(ctx context.Context, def types.ProgramDef, env types.Env, opts PlanOptions) ([]types.Task, error) {
	if strings.TrimSpace(def.Target) == "" {
		def.Target = "out"
	}
	if strings.TrimSpace(def.LinkerScript) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("%s: linker script missing", def.Target))
	}
	linkFlags := append(append([]string(nil), env.Get("LINKFLAGS")...), def.LinkFlags...)
	if def.LinkerPulls != "" && !containsString(linkFlags, scanLibrariesFlag) {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("%s: 'linker_pulls' was specified without linker flag '%s'.", def.Target, scanLibrariesFlag))
	}
	linkerScript := opts.abs(def.LinkerScript)
	linkerScriptHex := opts.abs(def.LinkerScriptHex)
	if linkerScriptHex != "" {
		if err := CheckHexLinkerScript(linkerScript, linkerScriptHex); err != nil {
			return nil, err
		}
	}

	outDir := filepath.Join(opts.BuildDir, def.Target)
	sources := make([]string, 0, len(def.Sources)+1)
	for _, source := range def.Sources {
		sources = append(sources, opts.abs(source))
	}
	includes := def.Includes
	var tasks []types.Task
	if !def.NoVersion {
		version := planVersionSource(outDir, opts)
		tasks = append(tasks, version)
		sources = append(sources, version.Outputs[0])
	}

	unit, err := planCompile(ctx, compileRequest{
		target:   def.Target,
		idx:      def.Idx,
		sources:  sources,
		includes: includes,
		defines:  def.Defines,
		cflags:   def.CFlags,
		cmdFiles: def.CmdFiles,
		extraInc: versionIncludes(def.NoVersion, outDir),
	}, env, opts)
	if err != nil {
		return nil, err
	}
	tasks = append(tasks, unit.tasks...)

	linkEnv := unit.env.Clone()
	linkEnv.Append("LINKFLAGS", def.LinkFlags...)
	linkEnv.Set("LINKER_SCRIPT", linkerScript)
	if linkerScriptHex != "" {
		linkEnv.Set("LINKER_SCRIPT_HEX", linkerScriptHex)
	}

	linkInputs := append([]string(nil), unit.linkable...)
	for _, lib := range def.Use {
		linkInputs = append(linkInputs, LibraryPath(opts.BuildDir, lib, env))
	}

	binFmt := env.First("DEST_BIN_FMT")
	if binFmt == "" {
		binFmt = "elf"
	}
	elf := filepath.Join(outDir, def.Target+"."+binFmt)
	linkDeps := []string{linkerScript}
	if linkerScriptHex != "" {
		linkDeps = append(linkDeps, linkerScriptHex)
	}
	pullConfig := ""
	if def.LinkerPulls != "" {
		pullConfig = opts.abs(def.LinkerPulls)
		linkDeps = append(linkDeps, pullConfig)
	}
	tasks = append(tasks, types.Task{
		Name:       taskName(types.TaskKindProgram, opts.BuildDir, elf),
		Kind:       types.TaskKindProgram,
		Stage:      types.StageLink,
		Inputs:     linkInputs,
		Outputs:    []string{elf, elf + ".xml", elf + ".map"},
		Run:        runLink,
		Vars:       []string{"LINKDEPS", "CMD_FILES_HASH"},
		Deps:       linkDeps,
		PullConfig: pullConfig,
		Env:        linkEnv,
		Dir:        opts.BuildDir,
	})

	if filepath.Clean(outDir) != filepath.Clean(opts.BuildDir) {
		copied := filepath.Join(opts.BuildDir, filepath.Base(elf))
		tasks = append(tasks, types.Task{
			Name:    taskName(types.TaskKindCopyElf, opts.BuildDir, copied),
			Kind:    types.TaskKindCopyElf,
			Stage:   types.StagePostLink,
			Inputs:  []string{elf},
			Outputs: []string{copied},
			Action:  CopyFileAction,
			Env:     linkEnv,
			Dir:     opts.BuildDir,
		})
	}
	if linkerScriptHex != "" {
		hexOut := shared.ChangeExt(elf, ".hex")
		tasks = append(tasks, postLinkTask(types.TaskKindHexGen, runHexGen, elf, []string{hexOut, shared.ChangeExt(elf, ".hex.map")}, linkEnv, opts))
	}
	tasks = append(tasks, postLinkTask(types.TaskKindBinGen, runBinGen, elf, []string{shared.ChangeExt(elf, ".bin")}, linkEnv, opts))
	// archives of used libraries are inspected by their own plan
	inspected := append(append([]string(nil), unit.linkable...), elf)
	tasks = append(tasks, inspectionTasks(inspected, linkEnv, opts)...)

	log.Ctx(ctx).Debug().
		Str("target", def.Target).
		Int("tasks", len(tasks)).
		Msg("program planned")
	return tasks, nil
}

// PlanLibrary plans the compilation and archiving of a static library.
func PlanLibrary(ctx context.Context, def types.LibraryDef, env types.Env, opts PlanOptions) ([]types.Task, error) {
	if strings.TrimSpace(def.Target) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("library target name is required")
	}
	sources := make([]string, 0, len(def.Sources))
	for _, source := range def.Sources {
		sources = append(sources, opts.abs(source))
	}
	unit, err := planCompile(ctx, compileRequest{
		target:   def.Target,
		idx:      def.Idx,
		sources:  sources,
		includes: def.Includes,
		defines:  def.Defines,
		cflags:   def.CFlags,
		cmdFiles: def.CmdFiles,
	}, env, opts)
	if err != nil {
		return nil, err
	}
	tasks := unit.tasks
	archive := LibraryPath(opts.BuildDir, def.Target, env)
	tasks = append(tasks, types.Task{
		Name:               taskName(types.TaskKindStaticLib, opts.BuildDir, archive),
		Kind:               types.TaskKindStaticLib,
		Stage:              types.StageArchive,
		Inputs:             unit.linkable,
		Outputs:            []string{archive},
		Run:                runArchive,
		Vars:               []string{"LINKDEPS"},
		RemoveOutputsFirst: true,
		Env:                unit.env,
		Dir:                opts.BuildDir,
	})
	tasks = append(tasks, inspectionTasks(append(append([]string(nil), unit.linkable...), archive), unit.env, opts)...)
	log.Ctx(ctx).Debug().
		Str("target", def.Target).
		Int("tasks", len(tasks)).
		Msg("library planned")
	return tasks, nil
}

// LibraryPath returns the archive produced for a library target.
func LibraryPath(buildDir string, target string, env types.Env) string {
	pattern := env.First("cstlib_PATTERN")
	if pattern == "" {
		pattern = "lib%s.a"
	}
	return filepath.Join(buildDir, target, strings.ReplaceAll(pattern, "%s", target))
}

type compileRequest struct {
	target   string
	idx      int
	sources  []string
	includes []string
	defines  []string
	cflags   []string
	cmdFiles []string
	// extraInc holds generated include directories that do not exist yet.
	extraInc []string
}

func planCompile(ctx context.Context, req compileRequest, env types.Env, opts PlanOptions) (compileUnit, error) {
	if req.idx <= 0 {
		req.idx = 1
	}
	outDir := filepath.Join(opts.BuildDir, req.target)
	includes := make([]string, 0, len(req.includes)+len(env.Get("INCLUDES")))
	for _, inc := range req.includes {
		includes = append(includes, opts.abs(inc))
	}
	includes = append(includes, env.Get("INCLUDES")...)
	if err := CheckIncludes(req.target, req.sources, includes, opts.isDir); err != nil {
		return compileUnit{}, err
	}

	cmdFiles := append(append([]string(nil), req.cmdFiles...), env.Get("CMD_FILES")...)
	hashes, err := HashCmdFiles(cmdFiles)
	if err != nil {
		return compileUnit{}, err
	}

	taskEnv := env.Clone()
	taskEnv.Append("CFLAGS", req.cflags...)
	taskEnv.Set("DEFINES", req.defines...)
	taskEnv.Set("INCPATHS", AbsoluteVendorIncludes(append(includes, req.extraInc...))...)
	taskEnv.Set("CMD_FILES", cmdFiles...)
	taskEnv.AppendUnique("CMD_FILES_HASH", hashes...)

	unit := compileUnit{target: req.target, idx: req.idx, outDir: outDir, env: taskEnv}
	for _, source := range req.sources {
		switch filepath.Ext(source) {
		case ".asm":
			obj := filepath.Join(opts.objectDir(outDir, source), fmt.Sprintf("%s.%d.obj", filepath.Base(source), req.idx))
			unit.tasks = append(unit.tasks, types.Task{
				Name:    taskName(types.TaskKindAsm, opts.BuildDir, obj),
				Kind:    types.TaskKindAsm,
				Stage:   types.StageCompile,
				Inputs:  []string{source},
				Outputs: []string{obj},
				Run:     runAsm,
				Vars:    []string{"CCDEPS"},
				Env:     taskEnv,
				Dir:     opts.BuildDir,
			})
			unit.linkable = append(unit.linkable, obj)
		case ".c":
			unit.planC(ctx, source, opts)
		default:
			return compileUnit{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("%s: unsupported source file %s", req.target, source))
		}
	}
	return unit, nil
}

func (u *compileUnit) planC(ctx context.Context, source string, opts PlanOptions) {
	if u.idx > 1 {
		log.Ctx(ctx).Warn().
			Str("source", source).
			Msg("Consistency of .aux, .crl and .rl output files can not be guaranteed.")
	}
	dir := opts.objectDir(u.outDir, source)
	name := filepath.Base(source)
	stem, _, _ := strings.Cut(name, ".")
	obj := filepath.Join(dir, fmt.Sprintf("%s.%d.obj", name, u.idx))
	ppd := filepath.Join(dir, fmt.Sprintf("%s.%d.ppd", name, u.idx))
	u.tasks = append(u.tasks, types.Task{
		Name:   taskName(types.TaskKindC, opts.BuildDir, obj),
		Kind:   types.TaskKindC,
		Stage:  types.StageCompile,
		Inputs: []string{source},
		Outputs: []string{
			obj,
			filepath.Join(dir, stem+".aux"),
			filepath.Join(dir, stem+".crl"),
			filepath.Join(dir, stem+".rl"),
		},
		Run:     runC,
		Vars:    compileVars,
		DepFile: ppd,
		Env:     u.env,
		Dir:     opts.BuildDir,
	})
	u.linkable = append(u.linkable, obj)

	modes := []struct {
		kind types.TaskKind
		key  string
		ext  string
	}{
		{types.TaskKindCPP, "PPO", "pp"},
		{types.TaskKindCPPI, "PPI", "ppi"},
		{types.TaskKindCPPD, "PPD", "ppd"},
		{types.TaskKindCPPM, "PPM", "ppm"},
	}
	for _, mode := range modes {
		out := filepath.Join(dir, fmt.Sprintf("%s.%d.%s", name, u.idx, mode.ext))
		u.tasks = append(u.tasks, types.Task{
			Name:    taskName(mode.kind, opts.BuildDir, out),
			Kind:    mode.kind,
			Stage:   types.StageCompile,
			Inputs:  []string{source},
			Outputs: []string{out},
			Run:     fmt.Sprintf(runPreprocess, mode.key),
			Vars:    compileVars,
			DepFile: ppd,
			Env:     u.env,
			Dir:     opts.BuildDir,
		})
		if mode.kind != types.TaskKindCPP {
			continue
		}
		ppr := shared.ChangeExt(out, ".ppr")
		u.tasks = append(u.tasks, types.Task{
			Name:    taskName(types.TaskKindCleanPP, opts.BuildDir, ppr),
			Kind:    types.TaskKindCleanPP,
			Stage:   types.StagePostCompile,
			Inputs:  []string{out},
			Outputs: []string{ppr, shared.ChangeExt(out, ".pprs")},
			Action:  CleanPreprocessedAction,
			Env:     u.env,
			Dir:     opts.BuildDir,
		})
	}
}

func planVersionSource(outDir string, opts PlanOptions) types.Task {
	source := filepath.Join(outDir, VersionSourceName)
	return types.Task{
		Name:    taskName(types.TaskKindVersionSource, opts.BuildDir, source),
		Kind:    types.TaskKindVersionSource,
		Stage:   types.StageGenerate,
		Outputs: []string{source, filepath.Join(outDir, VersionHeaderName)},
		Action:  VersionSourceAction(opts.Version),
		NoCache: true,
		Dir:     opts.BuildDir,
	}
}

func versionIncludes(noVersion bool, outDir string) []string {
	if noVersion {
		return nil
	}
	return []string{outDir}
}

func postLinkTask(kind types.TaskKind, run string, elf string, outputs []string, env types.Env, opts PlanOptions) types.Task {
	return types.Task{
		Name:    taskName(kind, opts.BuildDir, outputs[0]),
		Kind:    kind,
		Stage:   types.StagePostLink,
		Inputs:  []string{elf},
		Outputs: outputs,
		Run:     run,
		Env:     env,
		Dir:     opts.BuildDir,
	}
}

// inspectionTasks runs size and nm on every object and on the final binary.
func inspectionTasks(files []string, env types.Env, opts PlanOptions) []types.Task {
	tasks := make([]types.Task, 0, 2*len(files))
	for _, file := range files {
		sizeLog := shared.ChangeExt(file, ".size.log")
		tasks = append(tasks, types.Task{
			Name:          taskName(types.TaskKindSize, opts.BuildDir, sizeLog),
			Kind:          types.TaskKindSize,
			Stage:         types.StagePostLink,
			Inputs:        []string{file},
			Outputs:       []string{sizeLog},
			Run:           runSize,
			Vars:          []string{"SIZE", "OBJCOPY_OPTS"},
			CaptureStdout: true,
			Env:           env,
			Dir:           opts.BuildDir,
		})
		nmLog := shared.ChangeExt(file, ".nm.log")
		tasks = append(tasks, types.Task{
			Name:    taskName(types.TaskKindNm, opts.BuildDir, nmLog),
			Kind:    types.TaskKindNm,
			Stage:   types.StagePostLink,
			Inputs:  []string{file},
			Outputs: []string{nmLog},
			Run:     runNm,
			Env:     env,
			Dir:     opts.BuildDir,
		})
	}
	return tasks
}

func taskName(kind types.TaskKind, buildDir string, output string) string {
	rel, err := filepath.Rel(buildDir, output)
	if err != nil {
		rel = output
	}
	return string(kind) + " " + filepath.ToSlash(rel)
}

func containsString(values []string, want string) bool {
	for _, value := range values {
		if value == want {
			return true
		}
	}
	return false
}
