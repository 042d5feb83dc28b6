// Package shared provides small helpers used by the core, adapters and
// application layers.
package shared

import (
	"fmt"
	"strings"
)

// NormalizePipName lowercases a Python package name and replaces
// underscores and dots with hyphens, following PEP 503 normalization.
func NormalizePipName(value string) string {
	lower := strings.ToLower(strings.TrimSpace(value))
	replacer := strings.NewReplacer("_", "-", ".", "-")
	return replacer.Replace(lower)
}

// CommandError wraps a command execution error with its trimmed output
// for cleaner error messages.
func CommandError(output []byte, err error) error {
	trimmed := strings.TrimSpace(string(output))
	if trimmed == "" {
		return err
	}
	return fmt.Errorf("%s: %w", trimmed, err)
}

// ChangeExt replaces the last extension of the base name of path.
func ChangeExt(path string, ext string) string {
	slash := strings.LastIndexAny(path, `/\`)
	dot := strings.LastIndex(path, ".")
	if dot <= slash {
		return path + ext
	}
	return path[:dot] + ext
}
