package value

import "fmt"

// ObjType discriminates the heap object variants.
type ObjType int

const (
	ObjTypeString ObjType = iota
	ObjTypeFunction
	ObjTypeNative
	ObjTypeClosure
	ObjTypeUpvalue
	ObjTypeClass
	ObjTypeInstance
	ObjTypeBoundMethod
)

func (t ObjType) String() string {
	switch t {
	case ObjTypeString:
		return "string"
	case ObjTypeFunction:
		return "function"
	case ObjTypeNative:
		return "native function"
	case ObjTypeClosure:
		return "function"
	case ObjTypeUpvalue:
		return "upvalue"
	case ObjTypeClass:
		return "class"
	case ObjTypeInstance:
		return "instance"
	case ObjTypeBoundMethod:
		return "bound method"
	default:
		return "object"
	}
}

// Obj is the common interface every heap object variant implements. It
// corresponds to clox's Obj header: a type tag, a mark bit for the
// collector, and a next-pointer threading every live object into the VM's
// intrusive allocation list.
type Obj interface {
	Type() ObjType
	Marked() bool
	SetMarked(bool)
	Next() Obj
	SetNext(Obj)
	String() string
}

// header is embedded by every concrete Obj variant. Its methods are
// promoted, so embedding it is sufficient to satisfy everything in Obj
// except Type() and String(), which each variant provides itself.
type header struct {
	marked bool
	next   Obj
}

func (h *header) Marked() bool    { return h.marked }
func (h *header) SetMarked(m bool) { h.marked = m }
func (h *header) Next() Obj       { return h.next }
func (h *header) SetNext(o Obj)   { h.next = o }

// ObjString is an interned, immutable byte string.
type ObjString struct {
	header
	Chars string
	Hash  uint32
}

func (s *ObjString) Type() ObjType  { return ObjTypeString }
func (s *ObjString) String() string { return s.Chars }

// HashString computes the 32-bit FNV-1a hash of s. spec.md calls out a bug
// in the reference implementation where the loop always rereads key[0];
// the correct fold iterates every byte.
func HashString(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

// ObjFunction is a compiled function body: its arity, how many upvalues its
// closures must capture, its bytecode Chunk, and an optional name (nil for
// the implicit top-level script function).
type ObjFunction struct {
	header
	Arity        int
	UpvalueCount int
	Chunk        *Chunk
	Name         *ObjString
}

func (f *ObjFunction) Type() ObjType { return ObjTypeFunction }
func (f *ObjFunction) String() string {
	if f.Name == nil {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name.Chars)
}

// NewFunction allocates a detached ObjFunction with a fresh empty Chunk.
// It does not register the function with any heap/GC bookkeeping; callers
// (the VM's allocator) are responsible for that and for object-list/mark
// bookkeeping.
func NewFunction() *ObjFunction {
	return &ObjFunction{Chunk: NewChunk()}
}

// NativeFn is the signature a native (host) function must implement.
// args stands in for the embedder API's `(argCount, pointer-to-args)`
// calling convention: it is a slice view into the VM's value stack whose
// length is the argument count.
type NativeFn func(args []Value) (Value, error)

// ObjNative wraps a host function exposed to lox code via defineNative.
type ObjNative struct {
	header
	Name     string
	Arity    int
	Function NativeFn
}

func (n *ObjNative) Type() ObjType  { return ObjTypeNative }
func (n *ObjNative) String() string { return fmt.Sprintf("<native fn %s>", n.Name) }

// ObjUpvalue indirects access to a captured variable. While Location points
// into a live stack slot the upvalue is "open"; closeUpvalues copies the
// slot's value into Closed and redirects Location at it, making it
// "closed". Next_ threads every open upvalue into the VM's single sorted
// list.
type ObjUpvalue struct {
	header
	Location *Value
	Closed   Value
	Slot     int // stack index Location points at while open; used to keep the open list sorted
	Next_    *ObjUpvalue
}

func (u *ObjUpvalue) Type() ObjType  { return ObjTypeUpvalue }
func (u *ObjUpvalue) String() string { return "<upvalue>" }

// ObjClosure pairs a Function with the upvalues its definition captured.
type ObjClosure struct {
	header
	Function *ObjFunction
	Upvalues []*ObjUpvalue
}

func (c *ObjClosure) Type() ObjType  { return ObjTypeClosure }
func (c *ObjClosure) String() string { return c.Function.String() }

// ObjClass is a lox class: a name and a method table mapping selector name
// to the ObjClosure implementing it. Inheritance is implemented by copying
// the superclass's method table into the subclass at OP_INHERIT time, so a
// class's own Methods already contains every inherited method it hasn't
// overridden.
type ObjClass struct {
	header
	Name    *ObjString
	Methods *Table
}

func NewClass(name *ObjString) *ObjClass {
	return &ObjClass{Name: name, Methods: NewTable()}
}

func (c *ObjClass) Type() ObjType  { return ObjTypeClass }
func (c *ObjClass) String() string { return c.Name.Chars }

// ObjInstance is a runtime instance of a class, with its own per-instance
// field table.
type ObjInstance struct {
	header
	Class  *ObjClass
	Fields *Table
}

func NewInstance(class *ObjClass) *ObjInstance {
	return &ObjInstance{Class: class, Fields: NewTable()}
}

func (i *ObjInstance) Type() ObjType  { return ObjTypeInstance }
func (i *ObjInstance) String() string { return fmt.Sprintf("%s instance", i.Class.Name.Chars) }

// ObjBoundMethod pairs a receiver with the method closure invoked when the
// bound method is called; it exists so `var m = obj.method; m()` calls
// method with obj correctly bound as `this` without re-resolving the
// property lookup.
type ObjBoundMethod struct {
	header
	Receiver Value
	Method   *ObjClosure
}

func (b *ObjBoundMethod) Type() ObjType  { return ObjTypeBoundMethod }
func (b *ObjBoundMethod) String() string { return b.Method.String() }
