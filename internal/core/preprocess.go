package core

import (
	"regexp"
	"strings"
)

var (
	ppRemovePrefixes = []string{"#define", "#pragma", "# pragma", "_Pragma"}
	ppAttribute      = regexp.MustCompile(`__attribute__\(.*\)`)
)

// CleanPreprocessed post-processes compiler preprocessor output. The first
// result drops empty lines and trailing whitespace; the second additionally
// drops macro and pragma lines and strips __attribute__ annotations.
func CleanPreprocessed(text string) (string, string) {
	var kept []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			continue
		}
		kept = append(kept, line)
	}
	ppr := strings.Join(kept, "\n") + "\n"

	var stripped []string
	for _, line := range strings.Split(ppr, "\n") {
		if hasAnyPrefix(line, ppRemovePrefixes) {
			continue
		}
		stripped = append(stripped, ppAttribute.ReplaceAllString(line, ""))
	}
	return ppr, strings.Join(stripped, "\n")
}

func hasAnyPrefix(value string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}
