package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"cgt-buildtools/internal/core"
	"cgt-buildtools/internal/types"
)

const swiReportName = "swi.json"

// SearchSWI collects the SWI_ALIAS pragmas of the given sources, writes one
// report per source and a combined report resolved against the jump table.
func (s Service) SearchSWI(ctx context.Context, req SWIRequest) (SWIResult, error) {
	root := defaultRoot(req.Root)
	buildDir := buildDirPath(root, req.BuildDir)
	patterns, jumpTable, output := req.Files, req.JumpTable, req.Output
	if len(patterns) == 0 {
		desc, err := s.Builds.LoadBuildDescription(buildFilePath(root, req.BuildFile))
		if err != nil {
			return SWIResult{}, err
		}
		if desc.SWI == nil {
			return SWIResult{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("no sources to search: pass files or add a swi section to the build file")
		}
		patterns = desc.SWI.Files
		if jumpTable == "" {
			jumpTable = desc.SWI.JumpTable
		}
		if output == "" {
			output = desc.SWI.Output
		}
	}
	if jumpTable == "" {
		return SWIResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("jump table file is required")
	}
	files, err := s.Glob.Expand(root, patterns)
	if err != nil {
		return SWIResult{}, err
	}

	reports := make([]types.SWIFileReport, 0, len(files))
	for _, file := range files {
		pragmas, err := s.Pragmas.ScanPragmas(file)
		if err != nil {
			return SWIResult{}, err
		}
		rel := relativeTo(root, file)
		report := types.SWIFileReport{File: rel, Functions: core.SWIAliases(pragmas)}
		if err := writeJSONReport(filepath.Join(buildDir, filepath.FromSlash(rel)+".swi.json"), report); err != nil {
			return SWIResult{}, err
		}
		log.Ctx(ctx).Debug().Str("file", rel).Int("aliases", len(report.Functions)).Msg("Searching for swi aliases")
		reports = append(reports, report)
	}

	asm, err := os.ReadFile(projectPath(root, jumpTable, ""))
	if err != nil {
		return SWIResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read jump table " + jumpTable).
			WithCause(err)
	}
	merged, err := core.MergeSWI(core.ParseJumpTable(string(asm)), reports)
	if err != nil {
		return SWIResult{}, err
	}
	outPath := projectPath(buildDir, output, swiReportName)
	if err := writeJSONReport(outPath, merged); err != nil {
		return SWIResult{}, err
	}
	return SWIResult{Output: outPath, Reports: merged}, nil
}

// writeJSONReport writes v indented by four spaces with a CRLF terminator.
func writeJSONReport(path string, v any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(v); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode " + path).
			WithCause(err)
	}
	data := append(bytes.TrimSuffix(buf.Bytes(), []byte("\n")), '\r', '\n')
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create directory for " + path).
			WithCause(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write " + path).
			WithCause(err)
	}
	return nil
}

func relativeTo(root string, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
