package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cgt-buildtools/internal/types"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want types.Severity
	}{
		{`"src/main.c", line 12: warning #225-D: function declared implicitly`, types.SeverityWarning},
		{`remark #10252-D: Symbol "main" (pulled from "main.obj")`, types.SeverityWarning},
		{`"src/main.c", line 3: error #20: identifier "x" is undefined`, types.SeverityError},
		{`>> Compilation failure`, types.SeverityInfo},
		{`"src/main.c", line 1: fatal error #1965: cannot open source file`, types.SeverityError},
		{`catastrophic error: out of memory`, types.SeverityError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyLine(tt.line), tt.line)
	}
}
