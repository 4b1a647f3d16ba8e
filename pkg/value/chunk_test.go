package value

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kristofer/lox/pkg/bytecode"
)

func TestChunkWriteTracksLines(t *testing.T) {
	c := NewChunk()
	c.WriteOp(bytecode.OpNil, 1)
	c.Write(0xFF, 1)
	c.WriteOp(bytecode.OpReturn, 2)

	require.Equal(t, []byte{byte(bytecode.OpNil), 0xFF, byte(bytecode.OpReturn)}, c.Code)
	require.Equal(t, []int{1, 1, 2}, c.Lines)
}

func TestAddConstantReturnsIndexAndEnforcesCap(t *testing.T) {
	c := NewChunk()
	idx, err := c.AddConstant(Number(1))
	require.NoError(t, err)
	require.Equal(t, 0, idx)

	idx, err = c.AddConstant(Number(2))
	require.NoError(t, err)
	require.Equal(t, 1, idx)

	for i := 0; i < maxConstants-2; i++ {
		_, err := c.AddConstant(Number(float64(i)))
		require.NoError(t, err)
	}
	require.Len(t, c.Constants, maxConstants)

	_, err = c.AddConstant(Number(999))
	require.Error(t, err)
}
