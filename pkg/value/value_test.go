package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValuePredicatesAndAccessors(t *testing.T) {
	require.True(t, Nil.IsNil())
	require.True(t, Bool(true).IsBool())
	require.True(t, Bool(true).AsBool())
	require.True(t, Number(3.5).IsNumber())
	require.Equal(t, 3.5, Number(3.5).AsNumber())

	s := &ObjString{Chars: "hi"}
	v := FromObj(s)
	require.True(t, v.IsObj())
	require.Same(t, s, v.AsObj())
}

func TestIsFalseyRule(t *testing.T) {
	require.True(t, Nil.IsFalsey())
	require.True(t, Bool(false).IsFalsey())
	require.False(t, Bool(true).IsFalsey())
	require.False(t, Number(0).IsFalsey())
	require.False(t, FromObj(&ObjString{Chars: ""}).IsFalsey())
}

func TestEqualComparesStructurallyForPrimitives(t *testing.T) {
	require.True(t, Equal(Nil, Nil))
	require.True(t, Equal(Number(1), Number(1)))
	require.False(t, Equal(Number(1), Number(2)))
	require.False(t, Equal(Bool(true), Number(1)))
}

func TestEqualComparesObjectsByReference(t *testing.T) {
	a := &ObjString{Chars: "same"}
	b := &ObjString{Chars: "same"}
	require.False(t, Equal(FromObj(a), FromObj(b)), "distinct allocations must not compare equal even with identical content")
	require.True(t, Equal(FromObj(a), FromObj(a)))
}

func TestNumberFormattingDropsTrailingZeroFraction(t *testing.T) {
	require.Equal(t, "3", Number(3).String())
	require.Equal(t, "3.5", Number(3.5).String())
	require.Equal(t, "-2", Number(-2).String())
}

func TestTypeName(t *testing.T) {
	require.Equal(t, "nil", Nil.TypeName())
	require.Equal(t, "boolean", Bool(false).TypeName())
	require.Equal(t, "number", Number(1).TypeName())
	require.Equal(t, "string", FromObj(&ObjString{Chars: "x"}).TypeName())
}

func TestHashStringCoversEveryByte(t *testing.T) {
	// A hash that only ever reread byte zero would collide every string
	// sharing a first character; the fix must not.
	h1 := HashString("aaaa")
	h2 := HashString("aaab")
	require.NotEqual(t, h1, h2)
}
