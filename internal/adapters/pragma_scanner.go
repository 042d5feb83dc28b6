package adapters

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"

	"cgt-buildtools/internal/ports"
)

const pragmaQuery = `(preproc_call directive: (preproc_directive) @directive argument: (preproc_arg) @argument)`

// TreeSitterPragmaScanner finds `#pragma` directives with the tree-sitter C
// grammar.
type TreeSitterPragmaScanner struct{}

func NewTreeSitterPragmaScanner() TreeSitterPragmaScanner {
	return TreeSitterPragmaScanner{}
}

func (s TreeSitterPragmaScanner) ScanPragmas(path string) ([]string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("failed to read %s", path)).
			WithCause(err)
	}
	return scanPragmas(source)
}

func scanPragmas(source []byte) ([]string, error) {
	lang := c.GetLanguage()
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse C source").
			WithCause(err)
	}
	query, err := sitter.NewQuery([]byte(pragmaQuery), lang)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to compile pragma query").
			WithCause(err)
	}
	qc := sitter.NewQueryCursor()
	qc.Exec(query, tree.RootNode())

	var pragmas []string
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		var directive, argument string
		for _, capture := range m.Captures {
			switch query.CaptureNameForId(capture.Index) {
			case "directive":
				directive = capture.Node.Content(source)
			case "argument":
				argument = capture.Node.Content(source)
			}
		}
		if !isPragmaDirective(directive) {
			continue
		}
		pragmas = append(pragmas, strings.TrimSpace(argument))
	}
	return pragmas, nil
}

// isPragmaDirective accepts "#pragma" and "# pragma".
func isPragmaDirective(directive string) bool {
	name := strings.TrimSpace(strings.TrimPrefix(directive, "#"))
	return name == "pragma"
}

var _ ports.PragmaScannerPort = TreeSitterPragmaScanner{}
