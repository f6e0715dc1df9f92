package value

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruthy(t *testing.T) {
	assert.False(t, Nil().Truthy())
	assert.False(t, Bool(false).Truthy())
	assert.True(t, Bool(true).Truthy())
	assert.True(t, Number(0).Truthy())
	assert.True(t, List(nil).Truthy())
}

func TestAccessorsWrongKind(t *testing.T) {
	_, err := Number(1).AsSymbol()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrongKind)
}

func TestEqualListVectorCrossTag(t *testing.T) {
	l := List([]Value{Number(1), Number(2)})
	v := Vector([]Value{Number(1), Number(2)})
	assert.True(t, Equal(l, v), "List and Vector with same elements must compare equal")
}

func TestEqualHashMapKeySetOrderIndependent(t *testing.T) {
	a := HashMap([]Value{Keyword(":a"), Keyword(":b")}, []Value{Number(1), Number(2)})
	b := HashMap([]Value{Keyword(":b"), Keyword(":a")}, []Value{Number(2), Number(1)})
	assert.True(t, Equal(a, b))
}

func TestEqualHashMapDiffers(t *testing.T) {
	a := HashMap([]Value{Keyword(":a")}, []Value{Number(1)})
	b := HashMap([]Value{Keyword(":a")}, []Value{Number(2)})
	assert.False(t, Equal(a, b))
}

func TestPrStrReadableString(t *testing.T) {
	s := String("a\n\"b\"\\c")
	assert.Equal(t, `"a\n\"b\"\\c"`, PrStr(s, true))
	assert.Equal(t, "a\n\"b\"\\c", PrStr(s, false))
}

func TestPrStrListAndNested(t *testing.T) {
	v := List([]Value{Symbol("+"), Number(1), List([]Value{Symbol("*"), Number(2), Number(3)})})
	assert.Equal(t, "(+ 1 (* 2 3))", PrStr(v, true))
}

func TestPrStrStructuralDiff(t *testing.T) {
	got := List([]Value{Number(1), Number(2)})
	want := List([]Value{Number(1), Number(2)})
	if diff := cmp.Diff(PrStr(want, true), PrStr(got, true)); diff != "" {
		t.Errorf("unexpected pr-str diff (-want +got):\n%s", diff)
	}
}

func TestHashMapGet(t *testing.T) {
	m := HashMap([]Value{String("x")}, []Value{Number(42)})
	v, ok := m.HashMapGet(String("x"))
	require.True(t, ok)
	n, err := v.AsNumber()
	require.NoError(t, err)
	assert.EqualValues(t, 42, n)

	_, ok = m.HashMapGet(String("y"))
	assert.False(t, ok)
}
