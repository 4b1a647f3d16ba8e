// Package bytecode defines the opcode set executed by the lox virtual
// machine.
//
// Instructions are a single opcode byte optionally followed by fixed-size
// immediate operands (one or two bytes, big-endian). The opcode set is
// stack-oriented: most instructions pop their operands off the value stack
// and push a single result.
package bytecode

// OpCode identifies a single VM instruction. Opcodes are single bytes so
// that a compiled Chunk is just a flat byte slice.
type OpCode byte

const (
	// Stack & literals.

	OpConstant OpCode = iota // operand: 1-byte constant index
	OpNil
	OpTrue
	OpFalse
	OpPop

	// Local, global, and upvalue access.

	OpGetLocal    // operand: 1-byte slot
	OpSetLocal    // operand: 1-byte slot
	OpGetGlobal   // operand: 1-byte constant index (name)
	OpDefineGlobal
	OpSetGlobal
	OpGetUpvalue // operand: 1-byte slot
	OpSetUpvalue

	// Properties and classes.

	OpGetProperty // operand: 1-byte constant index (name)
	OpSetProperty
	OpGetSuper

	// Comparisons and arithmetic.

	OpEqual
	OpGreater
	OpLess
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpNot
	OpNegate

	// Statements.

	OpPrint

	// Control flow. Jump operands are 2-byte big-endian relative offsets.

	OpJump
	OpJumpIfFalse
	OpLoop

	// Calls.

	OpCall       // operand: 1-byte arg count
	OpInvoke     // operands: 1-byte constant index (name), 1-byte arg count
	OpSuperInvoke

	// Closures and upvalue lifetime.

	OpClosure // operand: 1-byte constant index, then one (isLocal, index) pair per upvalue
	OpCloseUpvalue
	OpReturn

	// Classes.

	OpClass
	OpInherit
	OpMethod
)

var opNames = [...]string{
	OpConstant:     "OP_CONSTANT",
	OpNil:          "OP_NIL",
	OpTrue:         "OP_TRUE",
	OpFalse:        "OP_FALSE",
	OpPop:          "OP_POP",
	OpGetLocal:     "OP_GET_LOCAL",
	OpSetLocal:     "OP_SET_LOCAL",
	OpGetGlobal:    "OP_GET_GLOBAL",
	OpDefineGlobal: "OP_DEFINE_GLOBAL",
	OpSetGlobal:    "OP_SET_GLOBAL",
	OpGetUpvalue:   "OP_GET_UPVALUE",
	OpSetUpvalue:   "OP_SET_UPVALUE",
	OpGetProperty:  "OP_GET_PROPERTY",
	OpSetProperty:  "OP_SET_PROPERTY",
	OpGetSuper:     "OP_GET_SUPER",
	OpEqual:        "OP_EQUAL",
	OpGreater:      "OP_GREATER",
	OpLess:         "OP_LESS",
	OpAdd:          "OP_ADD",
	OpSubtract:     "OP_SUBTRACT",
	OpMultiply:     "OP_MULTIPLY",
	OpDivide:       "OP_DIVIDE",
	OpNot:          "OP_NOT",
	OpNegate:       "OP_NEGATE",
	OpPrint:        "OP_PRINT",
	OpJump:         "OP_JUMP",
	OpJumpIfFalse:  "OP_JUMP_IF_FALSE",
	OpLoop:         "OP_LOOP",
	OpCall:         "OP_CALL",
	OpInvoke:       "OP_INVOKE",
	OpSuperInvoke:  "OP_SUPER_INVOKE",
	OpClosure:      "OP_CLOSURE",
	OpCloseUpvalue: "OP_CLOSE_UPVALUE",
	OpReturn:       "OP_RETURN",
	OpClass:        "OP_CLASS",
	OpInherit:      "OP_INHERIT",
	OpMethod:       "OP_METHOD",
}

// String returns the canonical opcode mnemonic, used by the disassembler
// and by trace-mode diagnostics.
func (op OpCode) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return "OP_UNKNOWN"
}

// EncodeUint16 packs v into a big-endian two-byte immediate, the format
// used by jump offsets.
func EncodeUint16(v uint16) [2]byte {
	return [2]byte{byte(v >> 8), byte(v)}
}

// DecodeUint16 reads a big-endian two-byte immediate produced by EncodeUint16.
func DecodeUint16(hi, lo byte) uint16 {
	return uint16(hi)<<8 | uint16(lo)
}
