package adapters

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/bmatcuk/doublestar/v4"

	"cgt-buildtools/internal/ports"
)

// SourceGlobAdapter expands `**` patterns relative to a root directory.
// Patterns prefixed with "!" remove matches.
type SourceGlobAdapter struct{}

func NewSourceGlobAdapter() SourceGlobAdapter {
	return SourceGlobAdapter{}
}

func (a SourceGlobAdapter) Expand(root string, patterns []string) ([]string, error) {
	included := map[string]struct{}{}
	var excludes []string
	for _, pattern := range patterns {
		if len(pattern) > 0 && pattern[0] == '!' {
			excludes = append(excludes, pattern[1:])
			continue
		}
		full := pattern
		if !filepath.IsAbs(full) {
			full = filepath.Join(root, pattern)
		}
		matches, err := doublestar.FilepathGlob(full, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid glob pattern %s", pattern)).
				WithCause(err)
		}
		for _, match := range matches {
			included[match] = struct{}{}
		}
	}
	files := make([]string, 0, len(included))
	for file := range included {
		excluded, err := matchesAny(root, file, excludes)
		if err != nil {
			return nil, err
		}
		if !excluded {
			files = append(files, file)
		}
	}
	sort.Strings(files)
	return files, nil
}

func matchesAny(root string, file string, patterns []string) (bool, error) {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		rel = file
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		ok, err := doublestar.Match(pattern, rel)
		if err != nil {
			return false, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid exclude pattern %s", pattern)).
				WithCause(err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

var _ ports.SourceGlobPort = SourceGlobAdapter{}
