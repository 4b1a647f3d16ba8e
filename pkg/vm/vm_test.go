package vm

import (
	"bufio"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// captureStdout redirects os.Stdout for the duration of fn and returns
// everything `print` wrote, since OP_PRINT writes straight to os.Stdout via
// fmt.Println rather than through an injectable writer.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	require.NoError(t, w.Close())
	var sb strings.Builder
	_, err = io.Copy(&sb, bufio.NewReader(r))
	require.NoError(t, err)
	return sb.String()
}

func runAndCapture(t *testing.T, source string) (string, InterpretResult) {
	t.Helper()
	v := New()
	var result InterpretResult
	out := captureStdout(t, func() {
		result = v.Interpret(source)
	})
	return out, result
}

func TestArithmeticAndPrint(t *testing.T) {
	out, result := runAndCapture(t, `print 1 + 2 * 3;`)
	require.Equal(t, InterpretOK, result)
	require.Equal(t, "7\n", out)
}

func TestStringConcatenation(t *testing.T) {
	out, result := runAndCapture(t, `print "foo" + "bar";`)
	require.Equal(t, InterpretOK, result)
	require.Equal(t, "foobar\n", out)
}

func TestGlobalsAndAssignment(t *testing.T) {
	out, result := runAndCapture(t, `
		var a = 1;
		a = a + 1;
		print a;
	`)
	require.Equal(t, InterpretOK, result)
	require.Equal(t, "2\n", out)
}

func TestUndefinedGlobalIsRuntimeError(t *testing.T) {
	out, result := runAndCapture(t, `print a;`)
	require.Equal(t, InterpretRuntimeError, result)
	require.Empty(t, out, "a failed print must not emit partial output")
}

func TestIfElseControlFlow(t *testing.T) {
	out, result := runAndCapture(t, `
		if (1 < 2) { print "yes"; } else { print "no"; }
	`)
	require.Equal(t, InterpretOK, result)
	require.Equal(t, "yes\n", out)
}

func TestWhileLoop(t *testing.T) {
	out, result := runAndCapture(t, `
		var i = 0;
		while (i < 3) {
			print i;
			i = i + 1;
		}
	`)
	require.Equal(t, InterpretOK, result)
	require.Equal(t, "0\n1\n2\n", out)
}

func TestForLoop(t *testing.T) {
	out, result := runAndCapture(t, `
		for (var i = 0; i < 3; i = i + 1) {
			print i;
		}
	`)
	require.Equal(t, InterpretOK, result)
	require.Equal(t, "0\n1\n2\n", out)
}

func TestFunctionCallAndReturn(t *testing.T) {
	out, result := runAndCapture(t, `
		fun add(a, b) {
			return a + b;
		}
		print add(1, 2);
	`)
	require.Equal(t, InterpretOK, result)
	require.Equal(t, "3\n", out)
}

func TestClosureCapturesOuterLocal(t *testing.T) {
	out, result := runAndCapture(t, `
		fun makeCounter() {
			var count = 0;
			fun counter() {
				count = count + 1;
				return count;
			}
			return counter;
		}
		var c = makeCounter();
		print c();
		print c();
	`)
	require.Equal(t, InterpretOK, result)
	require.Equal(t, "1\n2\n", out)
}

func TestClassInstanceFieldsAndMethods(t *testing.T) {
	out, result := runAndCapture(t, `
		class Counter {
			init(start) {
				this.value = start;
			}
			increment() {
				this.value = this.value + 1;
				return this.value;
			}
		}
		var c = Counter(10);
		print c.increment();
		print c.increment();
	`)
	require.Equal(t, InterpretOK, result)
	require.Equal(t, "11\n12\n", out)
}

func TestInheritanceAndSuper(t *testing.T) {
	out, result := runAndCapture(t, `
		class Animal {
			speak() {
				return "...";
			}
		}
		class Dog < Animal {
			speak() {
				return "Woof (was " + super.speak() + ")";
			}
		}
		print Dog().speak();
	`)
	require.Equal(t, InterpretOK, result)
	require.Equal(t, "Woof (was ...)\n", out)
}

func TestTypeErrorOnBadOperand(t *testing.T) {
	_, result := runAndCapture(t, `print -"not a number";`)
	require.Equal(t, InterpretRuntimeError, result)
}

func TestArityMismatchIsRuntimeError(t *testing.T) {
	_, result := runAndCapture(t, `
		fun f(a, b) { return a + b; }
		f(1);
	`)
	require.Equal(t, InterpretRuntimeError, result)
}

func TestNativeClockIsCallable(t *testing.T) {
	out, result := runAndCapture(t, `print clock() > 0;`)
	require.Equal(t, InterpretOK, result)
	require.Equal(t, "true\n", out)
}

func TestCompileErrorShortCircuitsBeforeRunning(t *testing.T) {
	out, result := runAndCapture(t, `var = 1;`)
	require.Equal(t, InterpretCompileError, result)
	require.Empty(t, out)
}

func TestInstanceEqualityIsByReference(t *testing.T) {
	out, result := runAndCapture(t, `
		class Box {}
		var a = Box();
		var b = Box();
		print a == a;
		print a == b;
	`)
	require.Equal(t, InterpretOK, result)
	require.Equal(t, "true\nfalse\n", out)
}
