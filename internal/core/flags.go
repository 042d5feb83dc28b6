package core

import (
	"context"
	"fmt"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"cgt-buildtools/internal/types"
)

// ListingFlags are always passed in compile-only mode so that the aux, crl
// and rl files exist for every object.
var ListingFlags = []string{
	"--gen_cross_reference_listing",
	"--gen_func_info_listing",
	"--gen_preprocessor_listing",
}

// ApplyCGTFlags sets the command line conventions of armcl/armar.
func ApplyCGTFlags(env types.Env) {
	env.Set("DEST_BIN_FMT", "elf")
	env.Set("AR_TGT_F", "rq")
	env.Set("CC_COMPILE_ONLY", "--compile_only")
	env.Set("CC_TGT_F", "--output_file=")
	env.Set("CCLINK_TGT_F", "--output_file=")
	env.Set("RUN_LINKER", "-qq", "--run_linker")
	env.Set("DEFINES_ST", "-D%s")
	env.Set("CMD_FILES_ST", "--cmd_file=%s")
	env.Set("LIB_ST", "--library=lib%s.a")
	env.Set("TARGETLIB_ST", "--library=%s.lib")
	env.Set("LIBPATH_ST", "--search_path=%s")
	env.Set("STLIB_ST", "--library=lib%s.a")
	env.Set("STLIBPATH_ST", "--search_path=%s")
	env.Set("CPPPATH_ST", "--include_path=%s")
	env.Set("cprogram_PATTERN", "%s")
	env.Set("cstlib_PATTERN", "lib%s.a")
	env.Set("MAP_FILE", "--map_file=")
	env.Set("XML_LINK_INFO", "--xml_link_info=")
	env.Set("OBJ_DIRECTORY", "--obj_directory=")
	env.Set("ASM_DIRECTORY", "--asm_directory=")
	env.Set("PPO", "--preproc_only")
	env.Set("PPA", "--preproc_with_compile")
	env.Set("PPM", "--preproc_macros")
	env.Set("PPI", "--preproc_includes")
	env.Set("PPD", "--preproc_dependency")
}

// ApplyCCOptions merges the cc-options file into env for the given
// platform ("linux", "win32", ...).
func ApplyCCOptions(env types.Env, opts types.CCOptions, platform string) {
	env.AppendUnique("LINKFLAGS", opts.LinkFlags...)
	env.AppendUnique("HEXGENFLAGS", opts.HexGenFlags...)
	env.AppendUnique("NMFLAGS", opts.NmFlags...)
	env.AppendUnique("INCLUDES", opts.IncludePaths[platform]...)
	env.AppendUnique("STLIBPATH", opts.LibraryPaths[platform]...)
	env.AppendUnique("STLIB", opts.Libraries.Static...)
	env.AppendUnique("TARGETLIB", opts.Libraries.Target...)
	env.AppendUnique("CFLAGS", opts.CFlags.Common...)
	env.AppendUnique("CFLAGS_COMPILE_ONLY", opts.CFlags.CommonCompileOnly...)
	env.AppendUnique("CFLAGS_COMPILE_ONLY", ListingFlags...)
	env.AppendUnique("CFLAGS_FOXBMS", opts.CFlags.Foxbms...)
	env.AppendUnique("CFLAGS_HAL", opts.CFlags.HAL...)
	env.AppendUnique("CFLAGS_OS", opts.CFlags.OperatingSystem...)
}

// ValidateCCOptions checks that the options file carries the sections the
// build depends on.
func ValidateCCOptions(ctx context.Context, opts types.CCOptions, platform string) error {
	assert.NotEmpty(ctx, platform, "platform must be set")
	if len(opts.CFlags.Common) == 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("cc options: CFLAGS.common must not be empty")
	}
	if _, ok := opts.IncludePaths[platform]; !ok {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("cc options: INCLUDE_PATHS has no entry for platform %s", platform))
	}
	if _, ok := opts.LibraryPaths[platform]; !ok {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("cc options: LIBRARY_PATHS has no entry for platform %s", platform))
	}
	for _, lib := range opts.Libraries.Static {
		assert.NotEmpty(ctx, lib, "LIBRARIES.ST entries must not be empty")
	}
	for _, lib := range opts.Libraries.Target {
		assert.NotEmpty(ctx, lib, "LIBRARIES.TARGET entries must not be empty")
	}
	log.Ctx(ctx).Debug().Str("platform", platform).Msg("cc options validated")
	return nil
}
