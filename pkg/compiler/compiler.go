// Package compiler implements lox's single-pass Pratt compiler: it parses
// tokens and emits bytecode directly, with no intermediate AST. One
// Compiler exists per function body (including the implicit top-level
// script), linked through an enclosing chain that backs closure analysis.
package compiler

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kristofer/lox/pkg/bytecode"
	"github.com/kristofer/lox/pkg/lexer"
	"github.com/kristofer/lox/pkg/value"
)

// maxLocals and maxUpvalues mirror the 256-entry cap on local-variable
// slots and upvalue-capture entries: each is addressed by a single byte
// operand.
const (
	maxLocals    = 256
	maxUpvalues  = 256
	maxParams    = 255
	maxJumpRange = 1<<16 - 1
)

// Heap is the allocation surface the compiler needs from its host: string
// interning (so identical literals and identifiers share one ObjString,
// satisfying the interning invariant even at compile time) and function
// allocation. The VM implements this; the compiler never imports the vm
// package, so the dependency runs one way only.
type Heap interface {
	InternString(s string) *value.ObjString
	NewFunction() *value.ObjFunction

	// TrackCompilerRoots and UntrackCompilerRoots let the host collector
	// find the function(s) under construction if an allocation this
	// compile performs triggers a collection. current always returns the
	// innermost active Compiler, which changes as nested function bodies
	// are entered and left.
	TrackCompilerRoots(current func() *Compiler)
	UntrackCompilerRoots()
}

// FunctionType tags what kind of body a Compiler is compiling, since
// methods, initializers, and the top-level script each have slightly
// different rules for slot 0, bare `return`, and `this`.
type FunctionType int

const (
	TypeFunction FunctionType = iota
	TypeInitializer
	TypeMethod
	TypeScript
)

type local struct {
	name       string
	depth      int
	isCaptured bool
}

type upvalueRef struct {
	index   uint8
	isLocal bool
}

// Compiler holds the compile-time state for one function body: the
// in-progress Function, its locals and their scope depths, the upvalues it
// must capture from enclosing functions, and the enclosing Compiler (nil
// for the top-level script).
type Compiler struct {
	enclosing *Compiler
	function  *value.ObjFunction
	fnType    FunctionType

	locals     []local
	upvalues   []upvalueRef
	scopeDepth int
}

// MarkCompilerRoots marks every in-progress Function reachable from this
// Compiler and its enclosing chain. The host VM calls this during any
// collection triggered while compilation is allocating, so a function
// under construction is never swept out from under the compiler.
func (c *Compiler) MarkCompilerRoots(mark func(value.Obj)) {
	for cc := c; cc != nil; cc = cc.enclosing {
		mark(cc.function)
	}
}

type classCompiler struct {
	enclosing     *classCompiler
	hasSuperclass bool
}

// Precedence is the Pratt parser's binding-power ladder, low to high.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

type parseFn func(p *Parser, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

// Parser drives the single-pass compile: it owns the token stream, the
// current innermost Compiler, and panic-mode error recovery state.
type Parser struct {
	heap Heap

	lex      *lexer.Lexer
	current  lexer.Token
	previous lexer.Token

	hadError  bool
	panicMode bool
	errors    []string

	compiler *Compiler
	class    *classCompiler
}

// CompileError aggregates every error a single Compile call accumulated in
// panic-mode recovery, so an embedder can inspect them individually instead
// of scraping stderr.
type CompileError struct {
	Errors []string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%d compile error(s):\n%s", len(e.Errors), strings.Join(e.Errors, "\n"))
}

// Compile compiles source into a top-level script function. It keeps
// parsing after the first error (panic-mode recovery resynchronizes at the
// next statement boundary) so one pass can surface more than one problem;
// it returns a non-nil error if any were found.
func Compile(source string, heap Heap) (*value.ObjFunction, error) {
	p := &Parser{heap: heap, lex: lexer.New(source)}
	p.compiler = newCompiler(nil, heap, TypeScript, "")
	heap.TrackCompilerRoots(func() *Compiler { return p.compiler })
	defer heap.UntrackCompilerRoots()

	p.advance()
	for !p.match(lexer.TokenEOF) {
		p.declaration()
	}

	fn := p.endCompiler()
	if p.hadError {
		return nil, &CompileError{Errors: p.errors}
	}
	return fn, nil
}

func newCompiler(enclosing *Compiler, heap Heap, fnType FunctionType, name string) *Compiler {
	// The name is interned before the function is allocated, so no
	// collection runs while fn exists without a Compiler holding it.
	var fnName *value.ObjString
	if name != "" {
		fnName = heap.InternString(name)
	}
	fn := heap.NewFunction()
	fn.Name = fnName
	c := &Compiler{enclosing: enclosing, function: fn, fnType: fnType}
	// Slot 0 is reserved: "this" for methods, initializers, and the
	// top-level script (where 'this' is rejected before it is resolved),
	// anonymous for plain functions. Either way it must never be resolved
	// as a user local.
	slotName := ""
	if fnType != TypeFunction {
		slotName = "this"
	}
	c.locals = append(c.locals, local{name: slotName, depth: 0})
	return c
}

// --- token stream ---------------------------------------------------------

func (p *Parser) advance() {
	p.previous = p.current
	for {
		p.current = p.lex.NextToken()
		if p.current.Type != lexer.TokenError {
			break
		}
		p.errorAtCurrent(p.current.Lexeme)
	}
}

func (p *Parser) consume(tt lexer.TokenType, msg string) {
	if p.current.Type == tt {
		p.advance()
		return
	}
	p.errorAtCurrent(msg)
}

func (p *Parser) check(tt lexer.TokenType) bool { return p.current.Type == tt }

func (p *Parser) match(tt lexer.TokenType) bool {
	if !p.check(tt) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) errorAtCurrent(msg string) { p.errorAt(p.current, msg) }
func (p *Parser) error(msg string)          { p.errorAt(p.previous, msg) }

func (p *Parser) errorAt(tok lexer.Token, msg string) {
	if p.panicMode {
		return
	}
	p.panicMode = true

	var b strings.Builder
	fmt.Fprintf(&b, "[line %d] Error", tok.Line)
	switch tok.Type {
	case lexer.TokenEOF:
		b.WriteString(" at end")
	case lexer.TokenError:
		// no lexeme worth pointing at
	default:
		fmt.Fprintf(&b, " at '%s'", tok.Lexeme)
	}
	fmt.Fprintf(&b, ": %s", msg)

	fmt.Fprintln(os.Stderr, b.String())
	p.errors = append(p.errors, b.String())
	p.hadError = true
}

func (p *Parser) synchronize() {
	p.panicMode = false
	for p.current.Type != lexer.TokenEOF {
		if p.previous.Type == lexer.TokenSemicolon {
			return
		}
		switch p.current.Type {
		case lexer.TokenClass, lexer.TokenFun, lexer.TokenVar, lexer.TokenFor,
			lexer.TokenIf, lexer.TokenWhile, lexer.TokenPrint, lexer.TokenReturn:
			return
		}
		p.advance()
	}
}

// --- bytecode emission -----------------------------------------------------

func (p *Parser) chunk() *value.Chunk { return p.compiler.function.Chunk }

func (p *Parser) emitByte(b byte) { p.chunk().Write(b, p.previous.Line) }

func (p *Parser) emitOp(op bytecode.OpCode) { p.chunk().WriteOp(op, p.previous.Line) }

func (p *Parser) emitOpByte(op bytecode.OpCode, b byte) {
	p.emitOp(op)
	p.emitByte(b)
}

func (p *Parser) emitLoop(loopStart int) {
	p.emitOp(bytecode.OpLoop)
	offset := len(p.chunk().Code) - loopStart + 2
	if offset > maxJumpRange {
		p.error("Loop body too large.")
	}
	enc := bytecode.EncodeUint16(uint16(offset))
	p.emitByte(enc[0])
	p.emitByte(enc[1])
}

func (p *Parser) emitJump(op bytecode.OpCode) int {
	p.emitOp(op)
	p.emitByte(0xff)
	p.emitByte(0xff)
	return len(p.chunk().Code) - 2
}

func (p *Parser) patchJump(offset int) {
	jump := len(p.chunk().Code) - offset - 2
	if jump > maxJumpRange {
		p.error("Too much code to jump over.")
	}
	enc := bytecode.EncodeUint16(uint16(jump))
	p.chunk().Code[offset] = enc[0]
	p.chunk().Code[offset+1] = enc[1]
}

func (p *Parser) emitReturn() {
	if p.compiler.fnType == TypeInitializer {
		p.emitOpByte(bytecode.OpGetLocal, 0)
	} else {
		p.emitOp(bytecode.OpNil)
	}
	p.emitOp(bytecode.OpReturn)
}

func (p *Parser) makeConstant(v value.Value) byte {
	idx, err := p.chunk().AddConstant(v)
	if err != nil {
		p.error("Too many constants in one chunk.")
		return 0
	}
	return byte(idx)
}

func (p *Parser) emitConstant(v value.Value) {
	p.emitOpByte(bytecode.OpConstant, p.makeConstant(v))
}

func (p *Parser) endCompiler() *value.ObjFunction {
	p.emitReturn()
	fn := p.compiler.function
	p.compiler = p.compiler.enclosing
	return fn
}

// --- scopes and variables ---------------------------------------------------

func (p *Parser) beginScope() { p.compiler.scopeDepth++ }

func (p *Parser) endScope() {
	p.compiler.scopeDepth--
	c := p.compiler
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		if c.locals[len(c.locals)-1].isCaptured {
			p.emitOp(bytecode.OpCloseUpvalue)
		} else {
			p.emitOp(bytecode.OpPop)
		}
		c.locals = c.locals[:len(c.locals)-1]
	}
}

func (p *Parser) identifierConstant(tok lexer.Token) byte {
	return p.makeConstant(value.FromObj(p.heap.InternString(tok.Lexeme)))
}

func tokensEqual(a, b lexer.Token) bool { return a.Lexeme == b.Lexeme }

func (p *Parser) resolveLocal(c *Compiler, name lexer.Token) int {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name.Lexeme {
			if c.locals[i].depth == -1 {
				p.error("Can't read local variable in its own initializer.")
			}
			return i
		}
	}
	return -1
}

func (p *Parser) addUpvalue(c *Compiler, index uint8, isLocal bool) int {
	for i, uv := range c.upvalues {
		if uv.index == index && uv.isLocal == isLocal {
			return i
		}
	}
	if len(c.upvalues) >= maxUpvalues {
		p.error("Too many closure variables in function.")
		return 0
	}
	c.upvalues = append(c.upvalues, upvalueRef{index: index, isLocal: isLocal})
	c.function.UpvalueCount = len(c.upvalues)
	return len(c.upvalues) - 1
}

func (p *Parser) resolveUpvalue(c *Compiler, name lexer.Token) int {
	if c.enclosing == nil {
		return -1
	}
	if loc := p.resolveLocal(c.enclosing, name); loc != -1 {
		c.enclosing.locals[loc].isCaptured = true
		return p.addUpvalue(c, uint8(loc), true)
	}
	if uv := p.resolveUpvalue(c.enclosing, name); uv != -1 {
		return p.addUpvalue(c, uint8(uv), false)
	}
	return -1
}

func (p *Parser) addLocal(name lexer.Token) {
	if len(p.compiler.locals) >= maxLocals {
		p.error("Too many local variables in function.")
		return
	}
	p.compiler.locals = append(p.compiler.locals, local{name: name.Lexeme, depth: -1})
}

func (p *Parser) declareVariable() {
	if p.compiler.scopeDepth == 0 {
		return
	}
	name := p.previous
	for i := len(p.compiler.locals) - 1; i >= 0; i-- {
		l := p.compiler.locals[i]
		if l.depth != -1 && l.depth < p.compiler.scopeDepth {
			break
		}
		if l.name == name.Lexeme {
			p.error("Already a variable with this name in this scope.")
		}
	}
	p.addLocal(name)
}

func (p *Parser) parseVariable(errMsg string) byte {
	p.consume(lexer.TokenIdentifier, errMsg)
	p.declareVariable()
	if p.compiler.scopeDepth > 0 {
		return 0
	}
	return p.identifierConstant(p.previous)
}

func (p *Parser) markInitialized() {
	if p.compiler.scopeDepth == 0 {
		return
	}
	p.compiler.locals[len(p.compiler.locals)-1].depth = p.compiler.scopeDepth
}

func (p *Parser) defineVariable(global byte) {
	if p.compiler.scopeDepth > 0 {
		p.markInitialized()
		return
	}
	p.emitOpByte(bytecode.OpDefineGlobal, global)
}

func (p *Parser) argumentList() byte {
	count := 0
	if !p.check(lexer.TokenRightParen) {
		for {
			p.expression()
			if count == 255 {
				p.error("Can't have more than 255 arguments.")
			}
			count++
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	p.consume(lexer.TokenRightParen, "Expect ')' after arguments.")
	return byte(count)
}

func (p *Parser) namedVariable(name lexer.Token, canAssign bool) {
	var getOp, setOp bytecode.OpCode
	arg := p.resolveLocal(p.compiler, name)
	if arg != -1 {
		getOp, setOp = bytecode.OpGetLocal, bytecode.OpSetLocal
	} else if arg = p.resolveUpvalue(p.compiler, name); arg != -1 {
		getOp, setOp = bytecode.OpGetUpvalue, bytecode.OpSetUpvalue
	} else {
		arg = int(p.identifierConstant(name))
		getOp, setOp = bytecode.OpGetGlobal, bytecode.OpSetGlobal
	}

	if canAssign && p.match(lexer.TokenEqual) {
		p.expression()
		p.emitOpByte(setOp, byte(arg))
	} else {
		p.emitOpByte(getOp, byte(arg))
	}
}

// --- declarations & statements ----------------------------------------------

func (p *Parser) declaration() {
	switch {
	case p.match(lexer.TokenClass):
		p.classDeclaration()
	case p.match(lexer.TokenFun):
		p.funDeclaration()
	case p.match(lexer.TokenVar):
		p.varDeclaration()
	default:
		p.statement()
	}
	if p.panicMode {
		p.synchronize()
	}
}

func (p *Parser) classDeclaration() {
	p.consume(lexer.TokenIdentifier, "Expect class name.")
	nameTok := p.previous
	nameConstant := p.identifierConstant(nameTok)
	p.declareVariable()

	p.emitOpByte(bytecode.OpClass, nameConstant)
	p.defineVariable(nameConstant)

	cc := &classCompiler{enclosing: p.class}
	p.class = cc

	if p.match(lexer.TokenLess) {
		p.consume(lexer.TokenIdentifier, "Expect superclass name.")
		variableExpr(p, false)
		if tokensEqual(nameTok, p.previous) {
			p.error("A class can't inherit from itself.")
		}

		p.beginScope()
		p.addLocal(syntheticToken("super"))
		p.defineVariable(0)

		p.namedVariable(nameTok, false)
		p.emitOp(bytecode.OpInherit)
		cc.hasSuperclass = true
	}

	p.namedVariable(nameTok, false)
	p.consume(lexer.TokenLeftBrace, "Expect '{' before class body.")
	for !p.check(lexer.TokenRightBrace) && !p.check(lexer.TokenEOF) {
		p.method()
	}
	p.consume(lexer.TokenRightBrace, "Expect '}' after class body.")
	p.emitOp(bytecode.OpPop)

	if cc.hasSuperclass {
		p.endScope()
	}
	p.class = p.class.enclosing
}

func syntheticToken(text string) lexer.Token {
	return lexer.Token{Type: lexer.TokenIdentifier, Lexeme: text}
}

func (p *Parser) method() {
	p.consume(lexer.TokenIdentifier, "Expect method name.")
	nameTok := p.previous
	nameConstant := p.identifierConstant(nameTok)

	fnType := TypeMethod
	if nameTok.Lexeme == "init" {
		fnType = TypeInitializer
	}
	p.function(fnType, nameTok.Lexeme)
	p.emitOpByte(bytecode.OpMethod, nameConstant)
}

func (p *Parser) funDeclaration() {
	global := p.parseVariable("Expect function name.")
	p.markInitialized()
	p.function(TypeFunction, p.previous.Lexeme)
	p.defineVariable(global)
}

func (p *Parser) function(fnType FunctionType, name string) {
	p.compiler = newCompiler(p.compiler, p.heap, fnType, name)
	p.beginScope()

	p.consume(lexer.TokenLeftParen, "Expect '(' after function name.")
	if !p.check(lexer.TokenRightParen) {
		for {
			if p.compiler.function.Arity == maxParams {
				p.errorAtCurrent("Can't have more than 255 parameters.")
			}
			p.compiler.function.Arity++
			constant := p.parseVariable("Expect parameter name.")
			p.defineVariable(constant)
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	p.consume(lexer.TokenRightParen, "Expect ')' after parameters.")
	p.consume(lexer.TokenLeftBrace, "Expect '{' before function body.")
	p.block()

	upvalues := p.compiler.upvalues
	fn := p.endCompiler()

	p.emitOpByte(bytecode.OpClosure, p.makeConstant(value.FromObj(fn)))
	for _, uv := range upvalues {
		isLocal := byte(0)
		if uv.isLocal {
			isLocal = 1
		}
		p.emitByte(isLocal)
		p.emitByte(uv.index)
	}
}

func (p *Parser) varDeclaration() {
	global := p.parseVariable("Expect variable name.")
	if p.match(lexer.TokenEqual) {
		p.expression()
	} else {
		p.emitOp(bytecode.OpNil)
	}
	p.consume(lexer.TokenSemicolon, "Expect ';' after variable declaration.")
	p.defineVariable(global)
}

func (p *Parser) statement() {
	switch {
	case p.match(lexer.TokenPrint):
		p.printStatement()
	case p.match(lexer.TokenIf):
		p.ifStatement()
	case p.match(lexer.TokenReturn):
		p.returnStatement()
	case p.match(lexer.TokenWhile):
		p.whileStatement()
	case p.match(lexer.TokenFor):
		p.forStatement()
	case p.match(lexer.TokenLeftBrace):
		p.beginScope()
		p.block()
		p.endScope()
	default:
		p.expressionStatement()
	}
}

func (p *Parser) block() {
	for !p.check(lexer.TokenRightBrace) && !p.check(lexer.TokenEOF) {
		p.declaration()
	}
	p.consume(lexer.TokenRightBrace, "Expect '}' after block.")
}

func (p *Parser) printStatement() {
	p.expression()
	p.consume(lexer.TokenSemicolon, "Expect ';' after value.")
	p.emitOp(bytecode.OpPrint)
}

func (p *Parser) expressionStatement() {
	p.expression()
	p.consume(lexer.TokenSemicolon, "Expect ';' after expression.")
	p.emitOp(bytecode.OpPop)
}

func (p *Parser) ifStatement() {
	p.consume(lexer.TokenLeftParen, "Expect '(' after 'if'.")
	p.expression()
	p.consume(lexer.TokenRightParen, "Expect ')' after condition.")

	thenJump := p.emitJump(bytecode.OpJumpIfFalse)
	p.emitOp(bytecode.OpPop)
	p.statement()

	elseJump := p.emitJump(bytecode.OpJump)
	p.patchJump(thenJump)
	p.emitOp(bytecode.OpPop)

	if p.match(lexer.TokenElse) {
		p.statement()
	}
	p.patchJump(elseJump)
}

func (p *Parser) whileStatement() {
	loopStart := len(p.chunk().Code)
	p.consume(lexer.TokenLeftParen, "Expect '(' after 'while'.")
	p.expression()
	p.consume(lexer.TokenRightParen, "Expect ')' after condition.")

	exitJump := p.emitJump(bytecode.OpJumpIfFalse)
	p.emitOp(bytecode.OpPop)
	p.statement()
	p.emitLoop(loopStart)

	p.patchJump(exitJump)
	p.emitOp(bytecode.OpPop)
}

func (p *Parser) forStatement() {
	p.beginScope()
	p.consume(lexer.TokenLeftParen, "Expect '(' after 'for'.")

	switch {
	case p.match(lexer.TokenSemicolon):
		// no initializer
	case p.match(lexer.TokenVar):
		p.varDeclaration()
	default:
		p.expressionStatement()
	}

	loopStart := len(p.chunk().Code)
	exitJump := -1
	if !p.match(lexer.TokenSemicolon) {
		p.expression()
		p.consume(lexer.TokenSemicolon, "Expect ';' after loop condition.")
		exitJump = p.emitJump(bytecode.OpJumpIfFalse)
		p.emitOp(bytecode.OpPop)
	}

	if !p.match(lexer.TokenRightParen) {
		bodyJump := p.emitJump(bytecode.OpJump)
		incrementStart := len(p.chunk().Code)
		p.expression()
		p.emitOp(bytecode.OpPop)
		p.consume(lexer.TokenRightParen, "Expect ')' after for clauses.")

		p.emitLoop(loopStart)
		loopStart = incrementStart
		p.patchJump(bodyJump)
	}

	p.statement()
	p.emitLoop(loopStart)

	if exitJump != -1 {
		p.patchJump(exitJump)
		p.emitOp(bytecode.OpPop)
	}
	p.endScope()
}

func (p *Parser) returnStatement() {
	if p.compiler.fnType == TypeScript {
		p.error("Can't return from top-level code.")
	}
	if p.match(lexer.TokenSemicolon) {
		p.emitReturn()
		return
	}
	if p.compiler.fnType == TypeInitializer {
		p.error("Can't return a value from an initializer.")
	}
	p.expression()
	p.consume(lexer.TokenSemicolon, "Expect ';' after return value.")
	p.emitOp(bytecode.OpReturn)
}

// --- expressions -------------------------------------------------------------

func (p *Parser) expression() { p.parsePrecedence(PrecAssignment) }

func (p *Parser) parsePrecedence(prec Precedence) {
	p.advance()
	rule := rules[p.previous.Type]
	if rule.prefix == nil {
		p.error("Expect expression.")
		return
	}
	canAssign := prec <= PrecAssignment
	rule.prefix(p, canAssign)

	for prec <= rules[p.current.Type].precedence {
		p.advance()
		infix := rules[p.previous.Type].infix
		infix(p, canAssign)
	}

	if canAssign && p.match(lexer.TokenEqual) {
		p.error("Invalid assignment target.")
	}
}

func grouping(p *Parser, _ bool) {
	p.expression()
	p.consume(lexer.TokenRightParen, "Expect ')' after expression.")
}

func number(p *Parser, _ bool) {
	n, err := strconv.ParseFloat(p.previous.Lexeme, 64)
	if err != nil {
		p.error("Invalid number literal.")
		return
	}
	p.emitConstant(value.Number(n))
}

func stringLiteral(p *Parser, _ bool) {
	raw := p.previous.Lexeme
	s := raw[1 : len(raw)-1]
	p.emitConstant(value.FromObj(p.heap.InternString(s)))
}

func variableExpr(p *Parser, canAssign bool) { p.namedVariable(p.previous, canAssign) }

func this_(p *Parser, _ bool) {
	if p.class == nil {
		p.error("Can't use 'this' outside of a class.")
		return
	}
	variableExpr(p, false)
}

func super_(p *Parser, _ bool) {
	if p.class == nil {
		p.error("Can't use 'super' outside of a class.")
	} else if !p.class.hasSuperclass {
		p.error("Can't use 'super' in a class with no superclass.")
	}

	p.consume(lexer.TokenDot, "Expect '.' after 'super'.")
	p.consume(lexer.TokenIdentifier, "Expect superclass method name.")
	name := p.identifierConstant(p.previous)

	p.namedVariable(syntheticToken("this"), false)
	if p.match(lexer.TokenLeftParen) {
		argCount := p.argumentList()
		p.namedVariable(syntheticToken("super"), false)
		p.emitOpByte(bytecode.OpSuperInvoke, name)
		p.emitByte(argCount)
	} else {
		p.namedVariable(syntheticToken("super"), false)
		p.emitOpByte(bytecode.OpGetSuper, name)
	}
}

func literal(p *Parser, _ bool) {
	switch p.previous.Type {
	case lexer.TokenFalse:
		p.emitOp(bytecode.OpFalse)
	case lexer.TokenNil:
		p.emitOp(bytecode.OpNil)
	case lexer.TokenTrue:
		p.emitOp(bytecode.OpTrue)
	}
}

func unary(p *Parser, _ bool) {
	opType := p.previous.Type
	p.parsePrecedence(PrecUnary)
	switch opType {
	case lexer.TokenBang:
		p.emitOp(bytecode.OpNot)
	case lexer.TokenMinus:
		p.emitOp(bytecode.OpNegate)
	}
}

func binary(p *Parser, _ bool) {
	opType := p.previous.Type
	rule := rules[opType]
	p.parsePrecedence(rule.precedence + 1)

	switch opType {
	case lexer.TokenBangEqual:
		p.emitOp(bytecode.OpEqual)
		p.emitOp(bytecode.OpNot)
	case lexer.TokenEqualEqual:
		p.emitOp(bytecode.OpEqual)
	case lexer.TokenGreater:
		p.emitOp(bytecode.OpGreater)
	case lexer.TokenGreaterEqual:
		p.emitOp(bytecode.OpLess)
		p.emitOp(bytecode.OpNot)
	case lexer.TokenLess:
		p.emitOp(bytecode.OpLess)
	case lexer.TokenLessEqual:
		p.emitOp(bytecode.OpGreater)
		p.emitOp(bytecode.OpNot)
	case lexer.TokenPlus:
		p.emitOp(bytecode.OpAdd)
	case lexer.TokenMinus:
		p.emitOp(bytecode.OpSubtract)
	case lexer.TokenStar:
		p.emitOp(bytecode.OpMultiply)
	case lexer.TokenSlash:
		p.emitOp(bytecode.OpDivide)
	}
}

func call(p *Parser, _ bool) {
	argCount := p.argumentList()
	p.emitOpByte(bytecode.OpCall, argCount)
}

func dot(p *Parser, canAssign bool) {
	p.consume(lexer.TokenIdentifier, "Expect property name after '.'.")
	name := p.identifierConstant(p.previous)

	switch {
	case canAssign && p.match(lexer.TokenEqual):
		p.expression()
		p.emitOpByte(bytecode.OpSetProperty, name)
	case p.match(lexer.TokenLeftParen):
		argCount := p.argumentList()
		p.emitOpByte(bytecode.OpInvoke, name)
		p.emitByte(argCount)
	default:
		p.emitOpByte(bytecode.OpGetProperty, name)
	}
}

func and_(p *Parser, _ bool) {
	endJump := p.emitJump(bytecode.OpJumpIfFalse)
	p.emitOp(bytecode.OpPop)
	p.parsePrecedence(PrecAnd)
	p.patchJump(endJump)
}

func or_(p *Parser, _ bool) {
	elseJump := p.emitJump(bytecode.OpJumpIfFalse)
	endJump := p.emitJump(bytecode.OpJump)
	p.patchJump(elseJump)
	p.emitOp(bytecode.OpPop)
	p.parsePrecedence(PrecOr)
	p.patchJump(endJump)
}

var rules map[lexer.TokenType]parseRule

func init() {
	rules = map[lexer.TokenType]parseRule{
		lexer.TokenLeftParen:    {grouping, call, PrecCall},
		lexer.TokenDot:          {nil, dot, PrecCall},
		lexer.TokenMinus:        {unary, binary, PrecTerm},
		lexer.TokenPlus:         {nil, binary, PrecTerm},
		lexer.TokenSlash:        {nil, binary, PrecFactor},
		lexer.TokenStar:         {nil, binary, PrecFactor},
		lexer.TokenBang:         {unary, nil, PrecNone},
		lexer.TokenBangEqual:    {nil, binary, PrecEquality},
		lexer.TokenEqualEqual:   {nil, binary, PrecEquality},
		lexer.TokenGreater:      {nil, binary, PrecComparison},
		lexer.TokenGreaterEqual: {nil, binary, PrecComparison},
		lexer.TokenLess:         {nil, binary, PrecComparison},
		lexer.TokenLessEqual:    {nil, binary, PrecComparison},
		lexer.TokenIdentifier:   {variableExpr, nil, PrecNone},
		lexer.TokenString:       {stringLiteral, nil, PrecNone},
		lexer.TokenNumber:       {number, nil, PrecNone},
		lexer.TokenAnd:          {nil, and_, PrecAnd},
		lexer.TokenOr:           {nil, or_, PrecOr},
		lexer.TokenFalse:        {literal, nil, PrecNone},
		lexer.TokenNil:          {literal, nil, PrecNone},
		lexer.TokenTrue:         {literal, nil, PrecNone},
		lexer.TokenThis:         {this_, nil, PrecNone},
		lexer.TokenSuper:        {super_, nil, PrecNone},
	}
}
