// Command lox is the CLI front end for the lox bytecode interpreter: a
// REPL when run with no arguments, a file runner when given a source
// file.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"

	"github.com/kristofer/lox/pkg/vm"
)

const version = "0.1.0"

func main() {
	trace := flag.Bool("trace", false, "trace each instruction as it executes")
	gclog := flag.Bool("gclog", false, "log garbage collection cycles")
	stressgc := flag.Bool("stressgc", false, "collect garbage before every allocation")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("lox %s\n", version)
		return
	}

	v := vm.New()
	v.TraceExecution = *trace
	v.GCLog = *gclog
	v.StressGC = *stressgc

	switch flag.NArg() {
	case 0:
		runREPL(v)
	case 1:
		runFile(v, flag.Arg(0))
	default:
		fmt.Fprintln(os.Stderr, "Usage: lox [-trace] [-gclog] [-stressgc] [script]")
		os.Exit(64)
	}
}

// runFile reads and interprets a single source file, exiting with the
// status code spec'd for the embedder: 0 on success, 65 on compile error,
// 70 on runtime error, 74 if the file can't be read.
func runFile(v *vm.VM, path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(74)
	}

	switch v.Interpret(string(source)) {
	case vm.InterpretCompileError:
		os.Exit(65)
	case vm.InterpretRuntimeError:
		os.Exit(70)
	}
}

// runREPL reads lines from stdin until EOF, interpreting each with a
// persistent VM so globals declared in one line stay visible to the next.
// A bare expression statement does not auto-print; lox requires an
// explicit print statement, matching the reference interpreter.
func runREPL(v *vm.VM) {
	rl, err := readline.New("lox> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting REPL: %v\n", err)
		os.Exit(74)
	}
	defer rl.Close()

	fmt.Printf("lox %s\n", version)
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
			return
		}
		if line == "" {
			continue
		}
		v.Interpret(line)
	}
}
