package core

import (
	"strings"
)

// ParseDependencyListing parses make-style dependency output produced with
// --preproc_dependency and returns the prerequisites in order of appearance
// without duplicates.
func ParseDependencyListing(text string) []string {
	joined := strings.ReplaceAll(text, "\r\n", "\n")
	joined = strings.ReplaceAll(joined, "\\\n", " ")
	seen := map[string]struct{}{}
	var deps []string
	for _, line := range strings.Split(joined, "\n") {
		_, prereqs, ok := cutRule(line)
		if !ok {
			continue
		}
		for _, dep := range strings.Fields(prereqs) {
			if _, dup := seen[dep]; dup {
				continue
			}
			seen[dep] = struct{}{}
			deps = append(deps, dep)
		}
	}
	return deps
}

// cutRule splits "target: prerequisites". Drive letters (C:\...) are not
// rule separators.
func cutRule(line string) (string, string, bool) {
	for i := 0; i < len(line); i++ {
		if line[i] != ':' {
			continue
		}
		if i == 1 && i+1 < len(line) && (line[i+1] == '\\' || line[i+1] == '/') {
			continue
		}
		if i+1 < len(line) && line[i+1] != ' ' && line[i+1] != '\t' {
			continue
		}
		return strings.TrimSpace(line[:i]), line[i+1:], true
	}
	return "", "", false
}
