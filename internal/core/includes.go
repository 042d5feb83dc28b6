package core

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// CheckIncludes rejects include directories that do not exist or that are
// listed more than once. Duplicates inside the build tree are generated
// directories and are not reported by name.
func CheckIncludes(target string, sources []string, includes []string, isDir func(string) bool) error {
	var missing []string
	seen := map[string]int{}
	var duplicates []string
	for _, inc := range includes {
		abs, err := filepath.Abs(inc)
		if err != nil {
			abs = inc
		}
		if !isDir(abs) {
			missing = append(missing, abs)
		}
		seen[abs]++
		if seen[abs] == 2 {
			duplicates = append(duplicates, abs)
		}
	}
	if len(missing) == 0 && len(duplicates) == 0 {
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "There are include errors when building '%s' from sources %v.\n", target, sources)
	if len(missing) > 0 {
		fmt.Fprintf(&b, "Not existing include directories are: %v\n", missing)
	}
	if len(duplicates) > 0 {
		buildDir := string(os.PathSeparator) + "build" + string(os.PathSeparator)
		var reported []string
		for _, dup := range duplicates {
			if !strings.Contains(dup, buildDir) {
				reported = append(reported, dup)
			}
		}
		sort.Strings(reported)
		fmt.Fprintf(&b, "Duplicate include directories are: %v\n", reported)
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(strings.TrimSpace(b.String()))
}

// AbsoluteVendorIncludes makes vendor (TI) include paths absolute.
func AbsoluteVendorIncludes(includes []string) []string {
	marker := string(os.PathSeparator) + "ti" + string(os.PathSeparator)
	out := make([]string, 0, len(includes))
	for _, inc := range includes {
		if strings.Contains(inc, marker) {
			if abs, err := filepath.Abs(inc); err == nil {
				inc = abs
			}
		}
		out = append(out, inc)
	}
	return out
}
