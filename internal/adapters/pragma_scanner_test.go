package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const swiSource = `#include "fsys.h"

/* #pragma SWI_ALIAS(FSYS_Commented, 3) */
#pragma SWI_ALIAS(FSYS_SwitchToPrivilege, 1);
#  pragma SWI_ALIAS(FSYS_Leave, 2)
#pragma RETAIN(f_version_info)

void FSYS_Dummy(void) {
}
`

func TestTreeSitterPragmaScanner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fsys.c")
	require.NoError(t, os.WriteFile(path, []byte(swiSource), 0o644))

	pragmas, err := NewTreeSitterPragmaScanner().ScanPragmas(path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"SWI_ALIAS(FSYS_SwitchToPrivilege, 1);",
		"SWI_ALIAS(FSYS_Leave, 2)",
		"RETAIN(f_version_info)",
	}, pragmas)
}

func TestTreeSitterPragmaScannerMissingFile(t *testing.T) {
	_, err := NewTreeSitterPragmaScanner().ScanPragmas(filepath.Join(t.TempDir(), "missing.c"))
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}
