package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cgt-buildtools/internal/types"
)

const jumpTableAsm = `
        .sect ".text"
jumpTable
        .word kickoff
        .word swiPortDisableInterrupts   ; 1
        .word swiPortEnableInterrupts    ; 2
        .endasmfunc
        .word ignored
`

func TestParseJumpTable(t *testing.T) {
	table := ParseJumpTable(jumpTableAsm)
	want := []types.JumpTableEntry{
		{Index: 0, Symbol: "kickoff"},
		{Index: 1, Symbol: "swiPortDisableInterrupts"},
		{Index: 2, Symbol: "swiPortEnableInterrupts"},
	}
	if diff := cmp.Diff(want, table); diff != "" {
		t.Fatalf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSWIPragma(t *testing.T) {
	fn, ok := ParseSWIPragma("SWI_ALIAS( FSYS_SwitchToPrivilege , 1 )")
	require.True(t, ok)
	assert.Equal(t, types.SWIFunction{CName: "FSYS_SwitchToPrivilege", Entry: "1"}, fn)

	_, ok = ParseSWIPragma("RETAIN(f_version_info)")
	assert.False(t, ok)
}

func TestSWIAliases(t *testing.T) {
	pragmas := []string{"RETAIN(f_version_info)", "SWI_ALIAS(OS_EnterPrivilege, 1);", " SWI_ALIAS (OS_Leave,2)"}
	got := SWIAliases(pragmas)
	want := []types.SWIFunction{
		{CName: "OS_EnterPrivilege", Entry: "1"},
		{CName: "OS_Leave", Entry: "2"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("aliases mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, SWIAliases(nil))
}

func TestMergeSWI(t *testing.T) {
	table := ParseJumpTable(jumpTableAsm)
	reports := []types.SWIFileReport{
		{File: "src/os/os.c", Functions: []types.SWIFunction{{CName: "OS_Enter", Entry: "1"}}},
		{File: "src/app/main.c", Functions: []types.SWIFunction{}},
	}
	merged, err := MergeSWI(table, reports)
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "swiPortDisableInterrupts", merged[0].Functions[0].AsmFunction)

	reports[0].Functions[0].Entry = "7"
	_, err = MergeSWI(table, reports)
	require.Error(t, err)
}
