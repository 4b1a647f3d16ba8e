package bytecode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpCodeStringer(t *testing.T) {
	require.Equal(t, "OP_RETURN", OpReturn.String())
	require.Equal(t, "OP_UNKNOWN", OpCode(255).String())
}

func TestUint16RoundTrip(t *testing.T) {
	for _, v := range []uint16{0, 1, 255, 256, 65535} {
		enc := EncodeUint16(v)
		got := DecodeUint16(enc[0], enc[1])
		require.Equal(t, v, got)
	}
}
