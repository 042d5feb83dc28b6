package core

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"cgt-buildtools/internal/types"
)

var (
	warningIndicators = []string{"warning #", ": warning", ": remark", "remark #"}
	errorIndicators   = []string{"error #", ": error", ": fatal error", "catastrophic error"}
)

// ClassifyLine maps one line of armcl output to a severity.
func ClassifyLine(line string) types.Severity {
	for _, indicator := range warningIndicators {
		if strings.Contains(line, indicator) {
			return types.SeverityWarning
		}
	}
	for _, indicator := range errorIndicators {
		if strings.Contains(line, indicator) {
			return types.SeverityError
		}
	}
	return types.SeverityInfo
}

// LogToolOutput writes tool output line by line at the level matching each
// line. Plain lines are logged at debug level.
func LogToolOutput(ctx context.Context, task string, output string) {
	logger := log.Ctx(ctx)
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		switch ClassifyLine(line) {
		case types.SeverityWarning:
			logger.Warn().Str("task", task).Msg(line)
		case types.SeverityError:
			logger.Error().Str("task", task).Msg(line)
		default:
			logger.Debug().Str("task", task).Msg(line)
		}
	}
}
