package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"cgt-buildtools/internal/types"
)

var (
	swiAliasPattern = regexp.MustCompile(`^\s*SWI_ALIAS\s*\(\s*([a-zA-Z0-9_]*)\s*,\s*(\d)\s*\)`)
	asmWordPattern  = regexp.MustCompile(`^(\.word)\s+([a-zA-Z0-9_]*)(.*)`)
)

// ParseSWIPragma parses the argument of a `#pragma` directive.
func ParseSWIPragma(argument string) (types.SWIFunction, bool) {
	match := swiAliasPattern.FindStringSubmatch(argument)
	if match == nil {
		return types.SWIFunction{}, false
	}
	return types.SWIFunction{CName: match[1], Entry: match[2]}, true
}

// SWIAliases filters SWI aliases out of pragma arguments.
func SWIAliases(pragmas []string) []types.SWIFunction {
	functions := []types.SWIFunction{}
	for _, pragma := range pragmas {
		if fn, ok := ParseSWIPragma(pragma); ok {
			functions = append(functions, fn)
		}
	}
	return functions
}

// ParseJumpTable reads the `.word` entries between the `jumpTable` label
// and `.endasmfunc` of the SWI assembler file.
func ParseJumpTable(asm string) []types.JumpTableEntry {
	var table []types.JumpTableEntry
	found := false
	for _, line := range strings.Split(asm, "\n") {
		line = strings.TrimSpace(line)
		if line == "jumpTable" {
			found = true
			continue
		}
		if !found {
			continue
		}
		if line == ".endasmfunc" {
			break
		}
		if match := asmWordPattern.FindStringSubmatch(line); match != nil {
			table = append(table, types.JumpTableEntry{Index: len(table), Symbol: match[2]})
		}
	}
	return table
}

// MergeSWI attaches the assembler function of each jump table entry to the
// aliases found in the sources. Files without aliases are dropped.
func MergeSWI(table []types.JumpTableEntry, reports []types.SWIFileReport) ([]types.SWIFileReport, error) {
	merged := []types.SWIFileReport{}
	for _, report := range reports {
		if len(report.Functions) == 0 {
			continue
		}
		out := types.SWIFileReport{File: report.File}
		for _, fn := range report.Functions {
			entry, err := strconv.Atoi(fn.Entry)
			if err != nil || entry < 0 || entry >= len(table) {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("%s: SWI alias %s uses entry %s outside the jump table (%d entries)",
						report.File, fn.CName, fn.Entry, len(table)))
			}
			fn.AsmFunction = table[entry].Symbol
			out.Functions = append(out.Functions, fn)
		}
		merged = append(merged, out)
	}
	return merged, nil
}
