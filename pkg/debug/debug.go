// Package debug implements the bytecode disassembler: it renders a Chunk's
// instructions as human-readable text. The VM's trace mode uses
// DisassembleInstruction; nothing in the interpreter calls DisassembleChunk,
// so compiled chunks are not disassembled after compilation.
package debug

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/kristofer/lox/pkg/bytecode"
	"github.com/kristofer/lox/pkg/value"
)

// DisassembleChunk prints every instruction in chunk under a banner naming
// it, matching the reference interpreter's `debugDumpChunk` diagnostic.
func DisassembleChunk(chunk *value.Chunk, name string) {
	fmt.Printf("== %s ==\n", name)
	for offset := 0; offset < len(chunk.Code); {
		var line string
		offset, line = DisassembleInstruction(chunk, offset)
		fmt.Println(line)
	}
}

// DisassembleInstruction formats the single instruction at offset and
// returns the offset of the instruction that follows it.
func DisassembleInstruction(chunk *value.Chunk, offset int) (int, string) {
	var b strings.Builder
	fmt.Fprintf(&b, "%04d ", offset)

	if offset > 0 && chunk.Lines[offset] == chunk.Lines[offset-1] {
		b.WriteString("   | ")
	} else {
		fmt.Fprintf(&b, "%4d ", chunk.Lines[offset])
	}

	op := bytecode.OpCode(chunk.Code[offset])
	switch op {
	case bytecode.OpConstant, bytecode.OpGetGlobal, bytecode.OpDefineGlobal,
		bytecode.OpSetGlobal, bytecode.OpGetProperty, bytecode.OpSetProperty,
		bytecode.OpGetSuper, bytecode.OpClass, bytecode.OpMethod:
		return constantInstruction(op, chunk, offset, &b)
	case bytecode.OpGetLocal, bytecode.OpSetLocal, bytecode.OpGetUpvalue,
		bytecode.OpSetUpvalue, bytecode.OpCall:
		return byteInstruction(op, chunk, offset, &b)
	case bytecode.OpJump, bytecode.OpJumpIfFalse:
		return jumpInstruction(op, 1, chunk, offset, &b)
	case bytecode.OpLoop:
		return jumpInstruction(op, -1, chunk, offset, &b)
	case bytecode.OpInvoke, bytecode.OpSuperInvoke:
		return invokeInstruction(op, chunk, offset, &b)
	case bytecode.OpClosure:
		return closureInstruction(chunk, offset, &b)
	default:
		fmt.Fprintf(&b, "%s", op)
		return offset + 1, b.String()
	}
}

func constantInstruction(op bytecode.OpCode, chunk *value.Chunk, offset int, b *strings.Builder) (int, string) {
	constant := chunk.Code[offset+1]
	fmt.Fprintf(b, "%-16s %4d '%s'", op, constant, formatConstant(chunk.Constants[constant]))
	return offset + 2, b.String()
}

func byteInstruction(op bytecode.OpCode, chunk *value.Chunk, offset int, b *strings.Builder) (int, string) {
	slot := chunk.Code[offset+1]
	fmt.Fprintf(b, "%-16s %4d", op, slot)
	return offset + 2, b.String()
}

func jumpInstruction(op bytecode.OpCode, sign int, chunk *value.Chunk, offset int, b *strings.Builder) (int, string) {
	jump := bytecode.DecodeUint16(chunk.Code[offset+1], chunk.Code[offset+2])
	target := offset + 3 + sign*int(jump)
	fmt.Fprintf(b, "%-16s %4d -> %d", op, offset, target)
	return offset + 3, b.String()
}

func invokeInstruction(op bytecode.OpCode, chunk *value.Chunk, offset int, b *strings.Builder) (int, string) {
	constant := chunk.Code[offset+1]
	argCount := chunk.Code[offset+2]
	fmt.Fprintf(b, "%-16s (%d args) %4d '%s'", op, argCount, constant, formatConstant(chunk.Constants[constant]))
	return offset + 3, b.String()
}

func closureInstruction(chunk *value.Chunk, offset int, b *strings.Builder) (int, string) {
	offset++
	constant := chunk.Code[offset]
	offset++
	fmt.Fprintf(b, "%-16s %4d '%s'", bytecode.OpClosure, constant, formatConstant(chunk.Constants[constant]))

	fn, ok := chunk.Constants[constant].AsObj().(*value.ObjFunction)
	if !ok {
		return offset, b.String()
	}
	for i := 0; i < fn.UpvalueCount; i++ {
		isLocal := chunk.Code[offset]
		index := chunk.Code[offset+1]
		offset += 2
		kind := "upvalue"
		if isLocal != 0 {
			kind = "local"
		}
		fmt.Fprintf(b, "\n%04d      |                     %s %d", offset-2, kind, index)
	}
	return offset, b.String()
}

// formatConstant renders a constant pool entry for disassembly output.
// Function constants go through go-spew's %v verb; go-spew calls a value's
// String method when it has one, so they print as `<fn name>` rather than
// as a struct dump. Other objects use their own String().
func formatConstant(v value.Value) string {
	if !v.IsObj() {
		return v.String()
	}
	switch obj := v.AsObj().(type) {
	case *value.ObjString:
		return obj.Chars
	case *value.ObjFunction:
		return spew.Sprintf("%v", obj)
	default:
		return v.String()
	}
}
