package debug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kristofer/lox/pkg/bytecode"
	"github.com/kristofer/lox/pkg/value"
)

func TestDisassembleSimpleInstruction(t *testing.T) {
	c := value.NewChunk()
	c.WriteOp(bytecode.OpReturn, 1)

	offset, line := DisassembleInstruction(c, 0)
	require.Equal(t, 1, offset)
	require.Contains(t, line, "OP_RETURN")
}

func TestDisassembleConstantInstruction(t *testing.T) {
	c := value.NewChunk()
	idx, err := c.AddConstant(value.Number(42))
	require.NoError(t, err)
	c.WriteOp(bytecode.OpConstant, 1)
	c.Write(byte(idx), 1)

	offset, line := DisassembleInstruction(c, 0)
	require.Equal(t, 2, offset)
	require.Contains(t, line, "OP_CONSTANT")
	require.Contains(t, line, "42")
}

func TestDisassembleJumpInstructionShowsTarget(t *testing.T) {
	c := value.NewChunk()
	c.WriteOp(bytecode.OpJump, 1)
	enc := bytecode.EncodeUint16(2)
	c.Write(enc[0], 1)
	c.Write(enc[1], 1)
	c.WriteOp(bytecode.OpNil, 1)
	c.WriteOp(bytecode.OpPop, 1)

	_, line := DisassembleInstruction(c, 0)
	require.Contains(t, line, "OP_JUMP")
	require.Contains(t, line, "-> 5")
}

func TestDisassembleChunkRunsOverMinimalChunk(t *testing.T) {
	c := value.NewChunk()
	c.WriteOp(bytecode.OpReturn, 1)

	// DisassembleChunk writes to stdout; this just confirms it runs to
	// completion over a minimal chunk without panicking on bounds.
	DisassembleChunk(c, "test")
}

func TestFormatConstantFallsBackToSpewForFunctions(t *testing.T) {
	fn := value.NewFunction()
	fn.Name = &value.ObjString{Chars: "demo"}
	s := formatConstant(value.FromObj(fn))
	require.True(t, strings.Contains(s, "demo") || strings.Contains(s, "ObjFunction"))
}

func TestFormatConstantStringIsBareChars(t *testing.T) {
	s := formatConstant(value.FromObj(&value.ObjString{Chars: "hello"}))
	require.Equal(t, "hello", s)
}
