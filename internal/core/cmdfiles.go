package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// HashCmdFiles returns the content hash of every command file. Command
// files are passed to armcl via --cmd_file and must be absolute paths.
func HashCmdFiles(files []string) ([]string, error) {
	hashes := make([]string, 0, len(files))
	for _, file := range files {
		if !filepath.IsAbs(file) {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("command file %s must be an absolute path", file))
		}
		sum, err := hashFile(file)
		if err != nil {
			return nil, err
		}
		hashes = append(hashes, sum)
	}
	return hashes, nil
}

func hashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("failed to open %s", path)).
			WithCause(err)
	}
	defer file.Close()
	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to hash %s", path)).
			WithCause(err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
