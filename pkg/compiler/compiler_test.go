package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kristofer/lox/pkg/bytecode"
	"github.com/kristofer/lox/pkg/value"
)

// fakeHeap is a minimal Heap standing in for the VM during compiler tests:
// it interns strings in its own table and allocates bare functions, with no
// GC bookkeeping since these tests never allocate enough to matter.
type fakeHeap struct {
	strings *value.Table
}

func newFakeHeap() *fakeHeap {
	return &fakeHeap{strings: value.NewTable()}
}

func (h *fakeHeap) InternString(s string) *value.ObjString {
	hash := value.HashString(s)
	if interned := h.strings.FindString(s, hash); interned != nil {
		return interned
	}
	obj := &value.ObjString{Chars: s, Hash: hash}
	h.strings.Set(obj, value.Nil)
	return obj
}

func (h *fakeHeap) NewFunction() *value.ObjFunction             { return value.NewFunction() }
func (h *fakeHeap) TrackCompilerRoots(current func() *Compiler) {}
func (h *fakeHeap) UntrackCompilerRoots()                       {}

func compile(t *testing.T, source string) (*value.ObjFunction, error) {
	t.Helper()
	return Compile(source, newFakeHeap())
}

func TestCompileSimpleExpressionStatement(t *testing.T) {
	fn, err := compile(t, "1 + 2;")
	require.NoError(t, err)
	require.Contains(t, fn.Chunk.Code, byte(bytecode.OpAdd))
	require.Contains(t, fn.Chunk.Code, byte(bytecode.OpPop))
}

func TestCompileSyntaxErrorReturnsCompileError(t *testing.T) {
	_, err := compile(t, "var = 1;")
	require.Error(t, err)
	ce, ok := err.(*CompileError)
	require.True(t, ok, "expected a *CompileError")
	require.NotEmpty(t, ce.Errors)
	require.Contains(t, ce.Error(), "compile error")
}

func TestCompileRecoversAndReportsMultipleErrors(t *testing.T) {
	_, err := compile(t, "var = 1; var = 2;")
	ce, ok := err.(*CompileError)
	require.True(t, ok)
	require.GreaterOrEqual(t, len(ce.Errors), 2, "panic-mode recovery should let both errors surface in one pass")
}

func TestLocalSelfReferenceInInitializerIsAnError(t *testing.T) {
	_, err := compile(t, "{ var a = a; }")
	require.Error(t, err)
	ce := err.(*CompileError)
	found := false
	for _, e := range ce.Errors {
		if strings.Contains(e, "Can't read local variable in its own initializer.") {
			found = true
		}
	}
	require.True(t, found, "errors: %v", ce.Errors)
}

func TestClosureCapturesEnclosingLocalAsUpvalue(t *testing.T) {
	fn, err := compile(t, `
		fun outer() {
			var x = 1;
			fun inner() {
				return x;
			}
			return inner;
		}
	`)
	require.NoError(t, err)
	require.Contains(t, fn.Chunk.Code, byte(bytecode.OpClosure))

	var outer, inner *value.ObjFunction
	for _, c := range fn.Chunk.Constants {
		if f, ok := c.AsObj().(*value.ObjFunction); ok {
			outer = f
		}
	}
	require.NotNil(t, outer)
	for _, c := range outer.Chunk.Constants {
		if f, ok := c.AsObj().(*value.ObjFunction); ok {
			inner = f
		}
	}
	require.NotNil(t, inner)
	require.Equal(t, 1, inner.UpvalueCount)
}

func TestTopLevelReturnIsAnError(t *testing.T) {
	_, err := compile(t, "return 1;")
	require.Error(t, err)
	ce := err.(*CompileError)
	require.True(t, strings.Contains(ce.Errors[0], "Can't return from top-level code."))
}

func TestTooManyArgumentsIsAnError(t *testing.T) {
	args := ""
	for i := 0; i < 256; i++ {
		if i > 0 {
			args += ", "
		}
		args += "1"
	}
	_, err := compile(t, "fun f() {} f("+args+");")
	require.Error(t, err)
}
