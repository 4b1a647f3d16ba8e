package vm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRuntimeErrorFormatsTraceInnermostFirst(t *testing.T) {
	err := newRuntimeError("Undefined variable 'a'.", []StackFrame{
		{FunctionName: "script", Line: 1},
		{FunctionName: "outer()", Line: 3},
		{FunctionName: "inner()", Line: 5},
	})

	want := "Undefined variable 'a'.\n" +
		"[line 5] in inner()\n" +
		"[line 3] in outer()\n" +
		"[line 1] in script"
	require.Equal(t, want, err.Error())
}

func TestRuntimeErrorWithNoFrames(t *testing.T) {
	err := newRuntimeError("boom", nil)
	require.Equal(t, "boom", err.Error())
}
