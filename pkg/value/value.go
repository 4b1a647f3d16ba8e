// Package value implements lox's tagged Value representation together with
// its heap object graph (strings, functions, closures, classes...), the
// bytecode Chunk that stores compiled functions, and the open-addressed
// hash table used for globals, string interning, and instance state.
//
// These four concerns live in one package rather than four because they are
// mutually recursive in the same way clox's value.h/object.h/chunk.h/
// table.h are: a Function owns a Chunk, a Chunk's constant pool holds
// Values, a Value can hold a Function, and a Class's method table is a
// Table keyed by the same interned strings a Value can wrap. C resolves the
// cycle with forward-declared pointers across headers; Go's package-level
// import graph has no equivalent, so the four concerns are split across
// value.go, object.go, chunk.go, and table.go within a single package
// instead.
package value

import "fmt"

// Type tags the payload a Value currently holds.
type Type int

const (
	TypeNil Type = iota
	TypeBool
	TypeNumber
	TypeObj
)

// Value is lox's tagged union: nil, boolean, double, or a reference to a
// heap Obj. This is the "tagged union" baseline layout spec.md calls for;
// NaN-boxing is an optional alternate encoding of the same four cases and
// is not implemented here.
type Value struct {
	typ    Type
	boolean bool
	number  float64
	obj     Obj
}

// Nil is the singleton nil value.
var Nil = Value{typ: TypeNil}

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{typ: TypeBool, boolean: b} }

// Number wraps a float64.
func Number(n float64) Value { return Value{typ: TypeNumber, number: n} }

// FromObj wraps a heap object reference.
func FromObj(o Obj) Value { return Value{typ: TypeObj, obj: o} }

// IsNil reports whether v holds nil.
func (v Value) IsNil() bool { return v.typ == TypeNil }

// IsBool reports whether v holds a boolean.
func (v Value) IsBool() bool { return v.typ == TypeBool }

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool { return v.typ == TypeNumber }

// IsObj reports whether v holds a heap object reference.
func (v Value) IsObj() bool { return v.typ == TypeObj }

// AsBool returns the boolean payload. Callers must check IsBool first.
func (v Value) AsBool() bool { return v.boolean }

// AsNumber returns the number payload. Callers must check IsNumber first.
func (v Value) AsNumber() float64 { return v.number }

// AsObj returns the object payload. Callers must check IsObj first.
func (v Value) AsObj() Obj { return v.obj }

// IsFalsey implements lox's truthiness rule: nil and false are falsey,
// everything else (including 0 and "") is truthy.
func (v Value) IsFalsey() bool {
	return v.IsNil() || (v.IsBool() && !v.AsBool())
}

// Equal implements lox's `==`. Primitive cases compare structurally; object
// cases compare by reference, which is safe for strings because the VM's
// intern pool guarantees at most one ObjString per distinct byte sequence.
func Equal(a, b Value) bool {
	if a.typ != b.typ {
		return false
	}
	switch a.typ {
	case TypeNil:
		return true
	case TypeBool:
		return a.boolean == b.boolean
	case TypeNumber:
		return a.number == b.number
	case TypeObj:
		return a.obj == b.obj
	default:
		return false
	}
}

// String renders v for `print` and for runtime error messages. It never
// recurses into GC state; it is purely a formatter.
func (v Value) String() string {
	switch v.typ {
	case TypeNil:
		return "nil"
	case TypeBool:
		if v.boolean {
			return "true"
		}
		return "false"
	case TypeNumber:
		return formatNumber(v.number)
	case TypeObj:
		return v.obj.String()
	default:
		return "<invalid value>"
	}
}

func formatNumber(n float64) string {
	// Lox numbers are doubles but print without a trailing ".0" fractional
	// part when the value is integral, matching the reference interpreter.
	if n == float64(int64(n)) {
		return fmt.Sprintf("%d", int64(n))
	}
	return fmt.Sprintf("%g", n)
}

// TypeName returns a short description of v's runtime type: "nil",
// "boolean", "number", or the object kind. The VM's type error messages and
// the disassembler do not use it.
func (v Value) TypeName() string {
	switch v.typ {
	case TypeNil:
		return "nil"
	case TypeBool:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeObj:
		return v.obj.Type().String()
	default:
		return "unknown"
	}
}
