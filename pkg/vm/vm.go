package vm

import (
	"fmt"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/kristofer/lox/pkg/bytecode"
	"github.com/kristofer/lox/pkg/compiler"
	"github.com/kristofer/lox/pkg/debug"
	"github.com/kristofer/lox/pkg/value"
)

const (
	framesMax = 64
	stackMax  = framesMax * 256

	// gcHeapGrowFactor mirrors clox's collector: after a collection the
	// next one doesn't trigger again until the live heap has doubled.
	gcHeapGrowFactor = 2
)

// InterpretResult reports how a top-level Interpret call ended.
type InterpretResult int

const (
	InterpretOK InterpretResult = iota
	InterpretCompileError
	InterpretRuntimeError
)

// CallFrame is one active function call: the closure being executed, the
// instruction pointer into its chunk, and the base index into the VM's
// value stack where its locals (parameters first) begin.
type CallFrame struct {
	closure *value.ObjClosure
	ip      int
	slots   int
}

// VM is lox's bytecode interpreter: a fixed-capacity value stack, a
// fixed-capacity call-frame stack, the global variable table, the string
// intern pool, and the intrusive object list the collector sweeps.
//
// The value stack is a fixed-size array rather than a slice so that
// ObjUpvalue.Location pointers into live stack slots stay valid for the
// upvalue's whole open lifetime; a slice could reallocate on growth and
// silently invalidate them.
type VM struct {
	stack    [stackMax]value.Value
	stackTop int

	frames     [framesMax]CallFrame
	frameCount int

	openUpvalues *value.ObjUpvalue

	globals *value.Table
	strings *value.Table

	objects value.Obj

	bytesAllocated int
	nextGC         int

	compilerRoots func() *compiler.Compiler

	initString *value.ObjString

	// Debug flags, set by the embedder (typically the CLI) before calling
	// Interpret. They correspond to clox's compile-time DEBUG_* macros,
	// exposed here as runtime switches since Go has no preprocessor.
	TraceExecution bool
	StressGC       bool
	GCLog          bool
}

// New returns a freshly initialized VM with its native functions defined.
func New() *VM {
	vm := &VM{
		globals: value.NewTable(),
		strings: value.NewTable(),
		nextGC:  1024 * 1024,
	}
	vm.initString = vm.InternString("init")
	vm.defineNative("clock", 0, nativeClock)
	return vm
}

// --- value stack -----------------------------------------------------------

func (vm *VM) resetStack() {
	vm.stackTop = 0
	vm.frameCount = 0
	vm.openUpvalues = nil
}

func (vm *VM) push(v value.Value) {
	vm.stack[vm.stackTop] = v
	vm.stackTop++
}

func (vm *VM) pop() value.Value {
	vm.stackTop--
	return vm.stack[vm.stackTop]
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.stackTop-1-distance]
}

// --- allocation: compiler.Heap ----------------------------------------------

// InternString returns the canonical *ObjString for s, allocating and
// registering a new one only if s hasn't been seen before. This is the
// single chokepoint that makes reference equality a valid string-equality
// test everywhere else in the VM.
func (vm *VM) InternString(s string) *value.ObjString {
	hash := value.HashString(s)
	if interned := vm.strings.FindString(s, hash); interned != nil {
		return interned
	}
	str := &value.ObjString{Chars: s, Hash: hash}
	vm.registerObject(str)
	// Pushed so the string is a GC root for the duration of the table
	// insert, in case inserting itself triggers a collection.
	vm.push(value.FromObj(str))
	vm.strings.Set(str, value.Nil)
	vm.pop()
	return str
}

// NewFunction allocates and registers an empty ObjFunction for the
// compiler to fill in.
func (vm *VM) NewFunction() *value.ObjFunction {
	fn := value.NewFunction()
	vm.registerObject(fn)
	return fn
}

// TrackCompilerRoots records how to reach the Compiler currently
// allocating, so a collection triggered mid-compile can mark its
// in-progress function(s).
func (vm *VM) TrackCompilerRoots(current func() *compiler.Compiler) {
	vm.compilerRoots = current
}

// UntrackCompilerRoots clears the hook installed by TrackCompilerRoots once
// compilation has finished.
func (vm *VM) UntrackCompilerRoots() {
	vm.compilerRoots = nil
}

// --- allocation: VM-internal -------------------------------------------------

func (vm *VM) newClosure(fn *value.ObjFunction) *value.ObjClosure {
	c := &value.ObjClosure{Function: fn, Upvalues: make([]*value.ObjUpvalue, fn.UpvalueCount)}
	vm.registerObject(c)
	return c
}

func (vm *VM) newClass(name *value.ObjString) *value.ObjClass {
	c := value.NewClass(name)
	vm.registerObject(c)
	return c
}

func (vm *VM) newInstance(class *value.ObjClass) *value.ObjInstance {
	i := value.NewInstance(class)
	vm.registerObject(i)
	return i
}

func (vm *VM) newBoundMethod(receiver value.Value, method *value.ObjClosure) *value.ObjBoundMethod {
	b := &value.ObjBoundMethod{Receiver: receiver, Method: method}
	vm.registerObject(b)
	return b
}

func (vm *VM) newUpvalue(slot int) *value.ObjUpvalue {
	u := &value.ObjUpvalue{Location: &vm.stack[slot], Slot: slot}
	vm.registerObject(u)
	return u
}

func (vm *VM) newNative(name string, arity int, fn value.NativeFn) *value.ObjNative {
	n := &value.ObjNative{Name: name, Arity: arity, Function: fn}
	vm.registerObject(n)
	return n
}

func (vm *VM) defineNative(name string, arity int, fn value.NativeFn) {
	nameStr := vm.InternString(name)
	native := vm.newNative(name, arity, fn)
	// Pushed/popped around the globals insert for the same reason
	// InternString pushes the string it's about to register.
	vm.push(value.FromObj(nameStr))
	vm.push(value.FromObj(native))
	vm.globals.Set(nameStr, vm.stack[vm.stackTop-1])
	vm.pop()
	vm.pop()
}

// registerObject runs the collector if the allocation pressure calls for
// it, then links o into the intrusive object list every heap value is
// threaded through. Collecting first means the collection can neither
// sweep o, which nothing references yet, nor mark it outside the list.
func (vm *VM) registerObject(o value.Obj) {
	vm.bytesAllocated += objectSize(o)

	if vm.StressGC || vm.bytesAllocated > vm.nextGC {
		vm.collectGarbage()
	}

	o.SetNext(vm.objects)
	vm.objects = o
}

// objectSize is a coarse per-kind estimate used only to drive the
// grow-when-doubled heuristic; it need not be exact.
func objectSize(o value.Obj) int {
	switch o.(type) {
	case *value.ObjString:
		return 40
	case *value.ObjUpvalue:
		return 32
	case *value.ObjBoundMethod:
		return 24
	default:
		return 64
	}
}

// --- garbage collection ------------------------------------------------------

// collectGarbage runs one full mark-sweep cycle: mark every root, trace the
// grey worklist to blacken everything reachable, drop now-unreachable weak
// string-pool references, then sweep the intrusive object list.
func (vm *VM) collectGarbage() {
	var before int
	if vm.GCLog {
		before = vm.bytesAllocated
		fmt.Fprintln(os.Stderr, "-- gc begin")
	}

	var grey []value.Obj
	mark := func(o value.Obj) {
		if o == nil || o.Marked() {
			return
		}
		o.SetMarked(true)
		grey = append(grey, o)
	}

	vm.markRoots(mark)
	for len(grey) > 0 {
		o := grey[len(grey)-1]
		grey = grey[:len(grey)-1]
		if vm.GCLog {
			spew.Fdump(os.Stderr, o)
		}
		vm.blacken(o, mark)
	}

	vm.strings.RemoveUnmarked()
	vm.sweep()

	vm.nextGC = vm.bytesAllocated * gcHeapGrowFactor
	if vm.nextGC < 1024*1024 {
		vm.nextGC = 1024 * 1024
	}

	if vm.GCLog {
		fmt.Fprintf(os.Stderr, "-- gc end (%d -> %d bytes)\n", before, vm.bytesAllocated)
	}
}

func (vm *VM) markRoots(mark func(value.Obj)) {
	for i := 0; i < vm.stackTop; i++ {
		if vm.stack[i].IsObj() {
			mark(vm.stack[i].AsObj())
		}
	}
	for i := 0; i < vm.frameCount; i++ {
		mark(vm.frames[i].closure)
	}
	for u := vm.openUpvalues; u != nil; u = u.Next_ {
		mark(u)
	}
	vm.globals.Each(func(key *value.ObjString, v value.Value) {
		mark(key)
		if v.IsObj() {
			mark(v.AsObj())
		}
	})
	if vm.initString != nil {
		mark(vm.initString)
	}
	if vm.compilerRoots != nil {
		if c := vm.compilerRoots(); c != nil {
			c.MarkCompilerRoots(mark)
		}
	}
}

// blacken marks every object o references directly. mark appends anything
// newly greyed to the collector's worklist itself, so blacken need not
// thread it through.
func (vm *VM) blacken(o value.Obj, mark func(value.Obj)) {
	switch obj := o.(type) {
	case *value.ObjString, *value.ObjNative:
		// no outgoing references
	case *value.ObjUpvalue:
		if obj.Location != nil && obj.Location.IsObj() {
			mark(obj.Location.AsObj())
		}
	case *value.ObjFunction:
		if obj.Name != nil {
			mark(obj.Name)
		}
		for _, c := range obj.Chunk.Constants {
			if c.IsObj() {
				mark(c.AsObj())
			}
		}
	case *value.ObjClosure:
		mark(obj.Function)
		for _, u := range obj.Upvalues {
			mark(u)
		}
	case *value.ObjClass:
		mark(obj.Name)
		obj.Methods.Each(func(key *value.ObjString, v value.Value) {
			mark(key)
			if v.IsObj() {
				mark(v.AsObj())
			}
		})
	case *value.ObjInstance:
		mark(obj.Class)
		obj.Fields.Each(func(key *value.ObjString, v value.Value) {
			mark(key)
			if v.IsObj() {
				mark(v.AsObj())
			}
		})
	case *value.ObjBoundMethod:
		if obj.Receiver.IsObj() {
			mark(obj.Receiver.AsObj())
		}
		mark(obj.Method)
	}
}

func (vm *VM) sweep() {
	var prev value.Obj
	obj := vm.objects
	for obj != nil {
		if obj.Marked() {
			obj.SetMarked(false)
			prev = obj
			obj = obj.Next()
			continue
		}
		unreached := obj
		obj = obj.Next()
		if prev == nil {
			vm.objects = obj
		} else {
			prev.SetNext(obj)
		}
		vm.bytesAllocated -= objectSize(unreached)
	}
}

// --- upvalues ----------------------------------------------------------------

// captureUpvalue returns the open upvalue for stack slot, reusing an
// existing one if the slot is already captured. The open list is kept
// sorted by descending Slot so closeUpvalues can stop at the first entry
// below its cutoff.
func (vm *VM) captureUpvalue(slot int) *value.ObjUpvalue {
	var prev *value.ObjUpvalue
	u := vm.openUpvalues
	for u != nil && u.Slot > slot {
		prev = u
		u = u.Next_
	}
	if u != nil && u.Slot == slot {
		return u
	}

	created := vm.newUpvalue(slot)
	created.Next_ = u
	if prev == nil {
		vm.openUpvalues = created
	} else {
		prev.Next_ = created
	}
	return created
}

// closeUpvalues closes every open upvalue at or above fromSlot: it copies
// the stack slot's current value into the upvalue's own storage and
// repoints Location there, so the variable survives its stack frame ending.
func (vm *VM) closeUpvalues(fromSlot int) {
	for vm.openUpvalues != nil && vm.openUpvalues.Slot >= fromSlot {
		u := vm.openUpvalues
		u.Closed = *u.Location
		u.Location = &u.Closed
		vm.openUpvalues = u.Next_
	}
}

// --- calls -------------------------------------------------------------------

func (vm *VM) call(closure *value.ObjClosure, argCount int) bool {
	if argCount != closure.Function.Arity {
		vm.runtimeError("Expected %d arguments but got %d.", closure.Function.Arity, argCount)
		return false
	}
	if vm.frameCount == framesMax {
		vm.runtimeError("Stack overflow.")
		return false
	}

	frame := &vm.frames[vm.frameCount]
	vm.frameCount++
	frame.closure = closure
	frame.ip = 0
	frame.slots = vm.stackTop - argCount - 1
	return true
}

func (vm *VM) callValue(callee value.Value, argCount int) bool {
	if callee.IsObj() {
		switch obj := callee.AsObj().(type) {
		case *value.ObjBoundMethod:
			vm.stack[vm.stackTop-argCount-1] = obj.Receiver
			return vm.call(obj.Method, argCount)
		case *value.ObjClass:
			vm.stack[vm.stackTop-argCount-1] = value.FromObj(vm.newInstance(obj))
			if initializer, ok := obj.Methods.Get(vm.initString); ok {
				return vm.call(initializer.AsObj().(*value.ObjClosure), argCount)
			} else if argCount != 0 {
				vm.runtimeError("Expected 0 arguments but got %d.", argCount)
				return false
			}
			return true
		case *value.ObjClosure:
			return vm.call(obj, argCount)
		case *value.ObjNative:
			if argCount != obj.Arity {
				vm.runtimeError("Expected %d arguments but got %d.", obj.Arity, argCount)
				return false
			}
			args := vm.stack[vm.stackTop-argCount : vm.stackTop]
			result, err := obj.Function(args)
			if err != nil {
				vm.runtimeError("%s", err.Error())
				return false
			}
			vm.stackTop -= argCount + 1
			vm.push(result)
			return true
		}
	}
	vm.runtimeError("Can only call functions and classes.")
	return false
}

func (vm *VM) invokeFromClass(class *value.ObjClass, name *value.ObjString, argCount int) bool {
	method, ok := class.Methods.Get(name)
	if !ok {
		vm.runtimeError("Undefined property '%s'.", name.Chars)
		return false
	}
	return vm.call(method.AsObj().(*value.ObjClosure), argCount)
}

func (vm *VM) invoke(name *value.ObjString, argCount int) bool {
	receiver := vm.peek(argCount)
	instance, ok := receiver.AsObj().(*value.ObjInstance)
	if !receiver.IsObj() || !ok {
		vm.runtimeError("Only instances have methods.")
		return false
	}

	if field, ok := instance.Fields.Get(name); ok {
		vm.stack[vm.stackTop-argCount-1] = field
		return vm.callValue(field, argCount)
	}

	return vm.invokeFromClass(instance.Class, name, argCount)
}

func (vm *VM) bindMethod(class *value.ObjClass, name *value.ObjString) bool {
	method, ok := class.Methods.Get(name)
	if !ok {
		vm.runtimeError("Undefined property '%s'.", name.Chars)
		return false
	}
	bound := vm.newBoundMethod(vm.peek(0), method.AsObj().(*value.ObjClosure))
	vm.pop()
	vm.push(value.FromObj(bound))
	return true
}

// --- native functions ---------------------------------------------------------

func nativeClock(args []value.Value) (value.Value, error) {
	return value.Number(float64(time.Now().UnixNano()) / float64(time.Second)), nil
}

// --- interpreting --------------------------------------------------------------

// Interpret compiles and runs source as a new top-level script.
func (vm *VM) Interpret(source string) InterpretResult {
	fn, err := compiler.Compile(source, vm)
	if err != nil {
		return InterpretCompileError
	}

	vm.push(value.FromObj(fn))
	closure := vm.newClosure(fn)
	vm.pop()
	vm.push(value.FromObj(closure))
	vm.call(closure, 0)

	return vm.run()
}

func (vm *VM) runtimeError(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	trace := make([]StackFrame, 0, vm.frameCount)
	for i := 0; i < vm.frameCount; i++ {
		frame := &vm.frames[i]
		fn := frame.closure.Function
		line := 0
		// ip has already advanced past the instruction that failed.
		if frame.ip-1 >= 0 && frame.ip-1 < len(fn.Chunk.Lines) {
			line = fn.Chunk.Lines[frame.ip-1]
		}
		name := "script"
		if fn.Name != nil {
			name = fn.Name.Chars + "()"
		}
		trace = append(trace, StackFrame{FunctionName: name, Line: line})
	}

	fmt.Fprintln(os.Stderr, newRuntimeError(message, trace).Error())
	vm.resetStack()
}

// traceInstruction prints the current stack contents followed by the
// disassembly of the instruction about to execute, matching clox's
// DEBUG_TRACE_EXECUTION output.
func (vm *VM) traceInstruction(frame *CallFrame) {
	fmt.Fprint(os.Stderr, "          ")
	for i := 0; i < vm.stackTop; i++ {
		fmt.Fprintf(os.Stderr, "[ %s ]", vm.stack[i].String())
	}
	fmt.Fprintln(os.Stderr)
	_, line := debug.DisassembleInstruction(frame.closure.Function.Chunk, frame.ip)
	fmt.Fprintln(os.Stderr, line)
}

func isFalsey(v value.Value) bool { return v.IsFalsey() }

func valuesEqual(a, b value.Value) bool { return value.Equal(a, b) }

// run executes bytecode starting from the current top call frame until it
// returns out of the bottommost one, or a runtime error stops it first.
func (vm *VM) run() InterpretResult {
	frame := &vm.frames[vm.frameCount-1]

	readByte := func() byte {
		b := frame.closure.Function.Chunk.Code[frame.ip]
		frame.ip++
		return b
	}
	readShort := func() uint16 {
		hi := readByte()
		lo := readByte()
		return bytecode.DecodeUint16(hi, lo)
	}
	readConstant := func() value.Value {
		return frame.closure.Function.Chunk.Constants[readByte()]
	}
	readString := func() *value.ObjString {
		return readConstant().AsObj().(*value.ObjString)
	}

	for {
		if vm.TraceExecution {
			vm.traceInstruction(frame)
		}

		op := bytecode.OpCode(readByte())
		switch op {
		case bytecode.OpConstant:
			vm.push(readConstant())

		case bytecode.OpNil:
			vm.push(value.Nil)
		case bytecode.OpTrue:
			vm.push(value.Bool(true))
		case bytecode.OpFalse:
			vm.push(value.Bool(false))
		case bytecode.OpPop:
			vm.pop()

		case bytecode.OpGetLocal:
			slot := int(readByte())
			vm.push(vm.stack[frame.slots+slot])
		case bytecode.OpSetLocal:
			slot := int(readByte())
			vm.stack[frame.slots+slot] = vm.peek(0)

		case bytecode.OpGetGlobal:
			name := readString()
			v, ok := vm.globals.Get(name)
			if !ok {
				vm.runtimeError("Undefined variable '%s'.", name.Chars)
				return InterpretRuntimeError
			}
			vm.push(v)
		case bytecode.OpDefineGlobal:
			name := readString()
			vm.globals.Set(name, vm.peek(0))
			vm.pop()
		case bytecode.OpSetGlobal:
			name := readString()
			if vm.globals.Set(name, vm.peek(0)) {
				vm.globals.Delete(name)
				vm.runtimeError("Undefined variable '%s'.", name.Chars)
				return InterpretRuntimeError
			}

		case bytecode.OpGetUpvalue:
			slot := int(readByte())
			vm.push(*frame.closure.Upvalues[slot].Location)
		case bytecode.OpSetUpvalue:
			slot := int(readByte())
			*frame.closure.Upvalues[slot].Location = vm.peek(0)

		case bytecode.OpGetProperty:
			if !vm.peek(0).IsObj() {
				vm.runtimeError("Only instances have properties.")
				return InterpretRuntimeError
			}
			instance, ok := vm.peek(0).AsObj().(*value.ObjInstance)
			if !ok {
				vm.runtimeError("Only instances have properties.")
				return InterpretRuntimeError
			}
			name := readString()
			if v, ok := instance.Fields.Get(name); ok {
				vm.pop()
				vm.push(v)
				break
			}
			if !vm.bindMethod(instance.Class, name) {
				return InterpretRuntimeError
			}
		case bytecode.OpSetProperty:
			if !vm.peek(1).IsObj() {
				vm.runtimeError("Only instances have fields.")
				return InterpretRuntimeError
			}
			instance, ok := vm.peek(1).AsObj().(*value.ObjInstance)
			if !ok {
				vm.runtimeError("Only instances have fields.")
				return InterpretRuntimeError
			}
			name := readString()
			instance.Fields.Set(name, vm.peek(0))
			v := vm.pop()
			vm.pop()
			vm.push(v)
		case bytecode.OpGetSuper:
			name := readString()
			superclass := vm.pop().AsObj().(*value.ObjClass)
			if !vm.bindMethod(superclass, name) {
				return InterpretRuntimeError
			}

		case bytecode.OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.Bool(valuesEqual(a, b)))
		case bytecode.OpGreater:
			if !vm.binaryNumberOp(func(a, b float64) value.Value { return value.Bool(a > b) }) {
				return InterpretRuntimeError
			}
		case bytecode.OpLess:
			if !vm.binaryNumberOp(func(a, b float64) value.Value { return value.Bool(a < b) }) {
				return InterpretRuntimeError
			}
		case bytecode.OpAdd:
			if !vm.add() {
				return InterpretRuntimeError
			}
		case bytecode.OpSubtract:
			if !vm.binaryNumberOp(func(a, b float64) value.Value { return value.Number(a - b) }) {
				return InterpretRuntimeError
			}
		case bytecode.OpMultiply:
			if !vm.binaryNumberOp(func(a, b float64) value.Value { return value.Number(a * b) }) {
				return InterpretRuntimeError
			}
		case bytecode.OpDivide:
			if !vm.binaryNumberOp(func(a, b float64) value.Value { return value.Number(a / b) }) {
				return InterpretRuntimeError
			}
		case bytecode.OpNot:
			vm.push(value.Bool(isFalsey(vm.pop())))
		case bytecode.OpNegate:
			if !vm.peek(0).IsNumber() {
				vm.runtimeError("Operand must be a number.")
				return InterpretRuntimeError
			}
			vm.push(value.Number(-vm.pop().AsNumber()))

		case bytecode.OpPrint:
			fmt.Println(vm.pop().String())

		case bytecode.OpJump:
			offset := readShort()
			frame.ip += int(offset)
		case bytecode.OpJumpIfFalse:
			offset := readShort()
			if isFalsey(vm.peek(0)) {
				frame.ip += int(offset)
			}
		case bytecode.OpLoop:
			offset := readShort()
			frame.ip -= int(offset)

		case bytecode.OpCall:
			argCount := int(readByte())
			if !vm.callValue(vm.peek(argCount), argCount) {
				return InterpretRuntimeError
			}
			frame = &vm.frames[vm.frameCount-1]
		case bytecode.OpInvoke:
			method := readString()
			argCount := int(readByte())
			if !vm.invoke(method, argCount) {
				return InterpretRuntimeError
			}
			frame = &vm.frames[vm.frameCount-1]
		case bytecode.OpSuperInvoke:
			method := readString()
			argCount := int(readByte())
			superclass := vm.pop().AsObj().(*value.ObjClass)
			if !vm.invokeFromClass(superclass, method, argCount) {
				return InterpretRuntimeError
			}
			frame = &vm.frames[vm.frameCount-1]

		case bytecode.OpClosure:
			fn := readConstant().AsObj().(*value.ObjFunction)
			closure := vm.newClosure(fn)
			vm.push(value.FromObj(closure))
			for i := 0; i < fn.UpvalueCount; i++ {
				isLocal := readByte()
				index := int(readByte())
				if isLocal != 0 {
					closure.Upvalues[i] = vm.captureUpvalue(frame.slots + index)
				} else {
					closure.Upvalues[i] = frame.closure.Upvalues[index]
				}
			}
		case bytecode.OpCloseUpvalue:
			vm.closeUpvalues(vm.stackTop - 1)
			vm.pop()
		case bytecode.OpReturn:
			result := vm.pop()
			vm.closeUpvalues(frame.slots)
			vm.frameCount--
			if vm.frameCount == 0 {
				vm.pop()
				return InterpretOK
			}
			vm.stackTop = frame.slots
			vm.push(result)
			frame = &vm.frames[vm.frameCount-1]

		case bytecode.OpClass:
			vm.push(value.FromObj(vm.newClass(readString())))
		case bytecode.OpInherit:
			superValue := vm.peek(1)
			superclass, ok := superValue.AsObj().(*value.ObjClass)
			if !superValue.IsObj() || !ok {
				vm.runtimeError("Superclass must be a class.")
				return InterpretRuntimeError
			}
			subclass := vm.peek(0).AsObj().(*value.ObjClass)
			superclass.Methods.AddAll(subclass.Methods)
			vm.pop()
		case bytecode.OpMethod:
			vm.defineMethod(readString())

		default:
			vm.runtimeError("Unknown opcode %d.", byte(op))
			return InterpretRuntimeError
		}
	}
}

func (vm *VM) binaryNumberOp(op func(a, b float64) value.Value) bool {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		vm.runtimeError("Operands must be numbers.")
		return false
	}
	b := vm.pop().AsNumber()
	a := vm.pop().AsNumber()
	vm.push(op(a, b))
	return true
}

func (vm *VM) add() bool {
	_, aStr := vm.peek(1).AsObj().(*value.ObjString)
	_, bStr := vm.peek(0).AsObj().(*value.ObjString)
	if aStr && bStr {
		b := vm.pop().AsObj().(*value.ObjString)
		a := vm.pop().AsObj().(*value.ObjString)
		vm.push(value.FromObj(vm.InternString(a.Chars + b.Chars)))
		return true
	}
	if vm.peek(0).IsNumber() && vm.peek(1).IsNumber() {
		b := vm.pop().AsNumber()
		a := vm.pop().AsNumber()
		vm.push(value.Number(a + b))
		return true
	}
	vm.runtimeError("Operands must be two numbers or two strings.")
	return false
}

func (vm *VM) defineMethod(name *value.ObjString) {
	method := vm.peek(0)
	class := vm.peek(1).AsObj().(*value.ObjClass)
	class.Methods.Set(name, method)
	vm.pop()
}
