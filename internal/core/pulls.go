package core

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"cgt-buildtools/internal/types"
)

// PullMarker is the linker remark that reports which object a symbol was
// pulled from.
const PullMarker = "#10252"

var pulledFromPattern = regexp.MustCompile(`\(pulled from "(\S*)"\)`)

// pullState tracks one expected symbol while the linker output is scanned.
type pullState struct {
	symbol   string
	expected string
	actual   string
	status   types.PullStatus
	mention  *regexp.Regexp
	strict   *regexp.Regexp
}

func newPullState(symbol string, expected string) *pullState {
	quotedSymbol := regexp.QuoteMeta(symbol)
	return &pullState{
		symbol:   symbol,
		expected: expected,
		status:   types.PullStatusUnresolved,
		mention:  regexp.MustCompile(fmt.Sprintf(`Symbol "(%s)"`, quotedSymbol)),
		strict: regexp.MustCompile(fmt.Sprintf(`Symbol "%s" \(pulled from "%s"\)`,
			quotedSymbol, regexp.QuoteMeta(expected))),
	}
}

// observe classifies the symbol against one marker line. Resolved symbols
// are never re-examined.
func (s *pullState) observe(line string) {
	if s.status != types.PullStatusUnresolved {
		return
	}
	if !s.mention.MatchString(line) {
		return
	}
	if s.strict.MatchString(line) {
		s.status = types.PullStatusFoundAsExpected
		return
	}
	match := pulledFromPattern.FindStringSubmatch(line)
	if match == nil {
		return
	}
	s.actual = match[1]
	s.status = types.PullStatusFoundWrongSource
}

// VerifyPulls checks the linker output against the declared pull table.
// Verification is opt-in: an empty table, an empty output or an output
// without the pull remark yields an empty report.
func VerifyPulls(ctx context.Context, expected types.LinkerPulls, objDir string, output string) types.PullReport {
	if len(expected) == 0 || output == "" || !strings.Contains(output, PullMarker) {
		return types.PullReport{}
	}

	symbols := make([]string, 0, len(expected))
	for symbol := range expected {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	states := make([]*pullState, 0, len(symbols))
	for _, symbol := range symbols {
		states = append(states, newPullState(symbol, filepath.Clean(expected[symbol])))
	}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if !strings.Contains(line, PullMarker) {
			continue
		}
		for _, state := range states {
			state.observe(line)
		}
	}

	report := types.PullReport{Results: make([]types.PullResult, 0, len(states))}
	for _, state := range states {
		result := types.PullResult{
			Symbol:       state.symbol,
			ExpectedPath: state.expected,
			ActualPath:   state.actual,
			Status:       state.status,
		}
		switch state.status {
		case types.PullStatusFoundAsExpected:
			report.Hits = append(report.Hits,
				fmt.Sprintf("Found '%s' as expected in '%s'.", state.symbol, objectPath(objDir, state.expected)))
		case types.PullStatusFoundWrongSource:
			report.Errors = append(report.Errors,
				fmt.Sprintf("Did not find '%s' where it was expected ('%s').", state.symbol, objectPath(objDir, state.expected)),
				fmt.Sprintf("Instead it was found in '%s'.", objectPath(objDir, state.actual)))
		default:
			result.Status = types.PullStatusNotFound
			report.Errors = append(report.Errors, fmt.Sprintf("Did not find the symbol '%s'.", state.symbol))
		}
		report.Results = append(report.Results, result)
	}
	log.Ctx(ctx).Debug().
		Int("symbols", len(states)).
		Int("hits", len(report.Hits)).
		Int("errors", len(report.Errors)).
		Msg("linker pulls verified")
	return report
}

// objectPath places a relative object path below objDir. Absolute paths are
// reported as they are.
func objectPath(objDir string, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(objDir, path)
}
