package value

import (
	"fmt"

	"github.com/kristofer/lox/pkg/bytecode"
)

// maxConstants is the hard cap on a chunk's constant pool: constants are
// addressed by a single byte operand, so no chunk may hold more than 256.
const maxConstants = 256

// Chunk is a compiled unit of bytecode: a flat byte array of opcodes and
// their immediate operands, a parallel array recording the source line of
// each byte (for runtime error reporting), and a constant pool.
//
// Chunk grows by doubling, starting at capacity 8, matching spec.md's
// growth rule; Go's append already gives amortized doubling so Code and
// Lines are plain slices rather than hand-managed capacity/count pairs.
type Chunk struct {
	Code      []byte
	Lines     []int
	Constants []Value
}

// NewChunk returns an empty chunk ready to be written to.
func NewChunk() *Chunk {
	return &Chunk{
		Code:      make([]byte, 0, 8),
		Lines:     make([]int, 0, 8),
		Constants: make([]Value, 0, 8),
	}
}

// Write appends a raw byte (an opcode or an operand byte) to the chunk,
// recording line as the source line that produced it.
func (c *Chunk) Write(b byte, line int) {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
}

// WriteOp appends an opcode byte.
func (c *Chunk) WriteOp(op bytecode.OpCode, line int) {
	c.Write(byte(op), line)
}

// AddConstant appends value to the constant pool and returns its index.
// It fails once the pool would exceed 256 entries, per spec.md's
// invariant that a chunk's constant pool holds no more than 256 entries.
func (c *Chunk) AddConstant(v Value) (int, error) {
	if len(c.Constants) >= maxConstants {
		return 0, fmt.Errorf("too many constants in one chunk")
	}
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1, nil
}
