package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"cgt-buildtools/internal/types"
)

const (
	unreleasedTag = "unreleased"
	dirtySuffix   = "-dirty"
	noVCSPrefix   = "no-vcs"
)

// DeriveVersion turns `git describe --dirty --tags --long --always` output
// into a version string and the tag it is based on. An empty describe
// output means that no repository is available.
//
// Tags are expected to be free of '-': the two right-most hyphens separate
// distance and commit id.
func DeriveVersion(describe string, fallback string) (types.DerivedVersion, error) {
	describe = strings.TrimSpace(describe)
	if describe == "" {
		describe = fmt.Sprintf("%s-%s%s", noVCSPrefix, fallback, dirtySuffix)
	}

	derived := types.DerivedVersion{Tag: unreleasedTag}
	if strings.HasSuffix(describe, dirtySuffix) {
		derived.Dirty = true
		describe = strings.TrimSuffix(describe, dirtySuffix)
	}

	switch {
	case strings.HasPrefix(describe, "v"):
		parts := rsplit(strings.TrimPrefix(describe, "v"), "-", 2)
		if len(parts) != 3 {
			return types.DerivedVersion{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("malformed describe output: %s", describe))
		}
		tag, distance, commit := parts[0], parts[1], strings.TrimPrefix(parts[2], "g")
		derived.Tag = tag
		derived.CommitID = commit
		if n, err := strconv.Atoi(distance); err == nil {
			derived.Distance = &n
		}
		derived.Version = fmt.Sprintf("%s-%s-%s", tag, distance, commit)
	case strings.HasPrefix(describe, noVCSPrefix):
		derived.Version = describe
		derived.Tag = fallback
	default:
		derived.CommitID = describe
		derived.Version = fmt.Sprintf("%s-%s", unreleasedTag, describe)
	}

	if derived.Dirty {
		derived.Version += dirtySuffix
	}

	if derived.Tag != unreleasedTag && derived.Tag != fallback {
		return types.DerivedVersion{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("extracted version from git repo (%s) does not match version defined in configuration (%s)",
				derived.Tag, fallback))
	}
	return derived, nil
}

// rsplit splits s at the last n occurrences of sep.
func rsplit(s string, sep string, n int) []string {
	var tail []string
	for len(tail) < n {
		idx := strings.LastIndex(s, sep)
		if idx < 0 {
			break
		}
		tail = append([]string{s[idx+len(sep):]}, tail...)
		s = s[:idx]
	}
	return append([]string{s}, tail...)
}
