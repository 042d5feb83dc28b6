package core

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

var hexScriptHashPattern = regexp.MustCompile(`/\*(.*)\*/`)

// CheckHexLinkerScript verifies that the first line of the hex linker
// script records the md5 of the elf linker script as a C comment.
func CheckHexLinkerScript(elfScript string, hexScript string) error {
	elfData, err := os.ReadFile(elfScript)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("failed to read linker script %s", elfScript)).
			WithCause(err)
	}
	hexData, err := os.ReadFile(hexScript)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("failed to read hex linker script %s", hexScript)).
			WithCause(err)
	}
	sum := md5.Sum(elfData)
	actual := hex.EncodeToString(sum[:])

	firstLine, _, _ := strings.Cut(strings.TrimSpace(string(hexData)), "\n")
	match := hexScriptHashPattern.FindStringSubmatch(firstLine)
	if match == nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("hashing error: %s does not start with a /* <hash> */ comment", hexScript))
	}
	known := strings.TrimSpace(match[1])
	if known != actual {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("The hash of %s has changed from %s to %s. Reflect the changes of "+
				"the elf file linker script in the hex file linker script and update the file hash "+
				"of the elf linker script in the hex file linker script.", elfScript, known, actual))
	}
	return nil
}
