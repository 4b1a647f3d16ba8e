// Package vm implements the lox bytecode virtual machine: value stack,
// call frames, the garbage collector, and the opcode dispatch loop.
package vm

import (
	"fmt"
	"strings"
)

// StackFrame records one call frame's identity for a runtime error's stack
// trace: which function was executing and at what source line.
type StackFrame struct {
	FunctionName string
	Line         int
}

// RuntimeError describes a failure of lox code at runtime: a type error, an
// undefined variable, an arity mismatch, and so on. The VM prints its Error
// string to stderr and Interpret reports InterpretRuntimeError. Its Error
// string reproduces the reference interpreter's trace format: the
// message line, then one "[line N] in <function>" line per frame, innermost
// first.
type RuntimeError struct {
	Message    string
	StackTrace []StackFrame
}

func (e *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	for i := len(e.StackTrace) - 1; i >= 0; i-- {
		frame := e.StackTrace[i]
		b.WriteString(fmt.Sprintf("\n[line %d] in %s", frame.Line, frame.FunctionName))
	}
	return b.String()
}

func newRuntimeError(message string, stack []StackFrame) *RuntimeError {
	return &RuntimeError{Message: message, StackTrace: stack}
}
