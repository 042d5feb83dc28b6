package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"cgt-buildtools/internal/core"
)

// VerifyPulls checks a captured linker log against a pull file without
// running the linker.
func (s Service) VerifyPulls(ctx context.Context, req VerifyPullsRequest) (VerifyPullsResult, error) {
	if strings.TrimSpace(req.PullFile) == "" || strings.TrimSpace(req.LinkLog) == "" {
		return VerifyPullsResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("pull file and linker log are required")
	}
	expected, err := s.Pulls.LoadPulls(req.PullFile)
	if err != nil {
		return VerifyPullsResult{}, err
	}
	output, err := os.ReadFile(req.LinkLog)
	if err != nil {
		return VerifyPullsResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read linker log").
			WithCause(err)
	}
	objDir := req.ObjDir
	if objDir == "" {
		objDir = filepath.Dir(req.LinkLog)
	}
	report := core.VerifyPulls(ctx, expected, objDir, string(output))
	result := VerifyPullsResult{Report: report}
	if report.Failed() {
		return result, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(core.LinkVerificationPrefix + ": " + strings.Join(report.Errors, " "))
	}
	return result, nil
}
