package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basilisk-lang/lisp/internal/value"
)

func TestGetWalksOuterChain(t *testing.T) {
	outer := New(nil)
	outer.Set("x", value.Number(1))
	inner := New(outer)

	v, ok := inner.Get("x")
	require.True(t, ok)
	n, err := v.AsNumber()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestSetAlwaysWritesInnermost(t *testing.T) {
	outer := New(nil)
	outer.Set("x", value.Number(1))
	inner := New(outer)
	inner.Set("x", value.Number(2))

	v, _ := inner.Get("x")
	n, _ := v.AsNumber()
	assert.EqualValues(t, 2, n)

	ov, _ := outer.Get("x")
	on, _ := ov.AsNumber()
	assert.EqualValues(t, 1, on, "outer binding must be unaffected by a shadowing inner set")
}

func TestBindExactArity(t *testing.T) {
	e := New(nil)
	err := e.Bind([]string{"a", "b"}, false, []value.Value{value.Number(1), value.Number(2)})
	require.NoError(t, err)

	err = e.Bind([]string{"a", "b"}, false, []value.Value{value.Number(1)})
	assert.Error(t, err)
}

func TestBindVariadic(t *testing.T) {
	e := New(nil)
	err := e.Bind([]string{"a", "&", "rest"}, false, nil) // not variadic path, ignore "&"
	_ = err

	e2 := New(nil)
	err = e2.Bind([]string{"a", "rest"}, true, []value.Value{value.Number(1), value.Number(2), value.Number(3)})
	require.NoError(t, err)

	restV, ok := e2.Get("rest")
	require.True(t, ok)
	items, err := restV.AsItems()
	require.NoError(t, err)
	assert.Len(t, items, 2)

	e3 := New(nil)
	err = e3.Bind([]string{"a", "rest"}, true, []value.Value{value.Number(1)})
	require.NoError(t, err, "variadic rest may be empty")
	restV, _ = e3.Get("rest")
	items, _ = restV.AsItems()
	assert.Len(t, items, 0)

	e4 := New(nil)
	err = e4.Bind([]string{"a", "rest"}, true, nil)
	assert.Error(t, err, "variadic requires at least n-1 args")
}

func TestClosureCycleBreaksOnRedefinition(t *testing.T) {
	root := New(nil)
	closureEnv := New(root)

	fn := value.NewUserFn([]string{}, false, value.Symbol("closureEnv"), closureEnv)
	closureEnv.Set("f", fn) // f's closure is closureEnv itself: a direct cycle

	assert.True(t, closureEnv.Alive())
	assert.Equal(t, 1, closureEnv.Cycles(), "binding f into its own closure frame registers one cycle")

	// Redefining f to a non-closure value must release the cyclic reference.
	closureEnv.Set("f", value.Number(42))
	assert.Equal(t, 0, closureEnv.Cycles())
}

func TestContains(t *testing.T) {
	outer := New(nil)
	outer.Set("x", value.Number(1))
	inner := New(outer)
	assert.True(t, inner.Contains("x"))
	assert.False(t, inner.Contains("y"))
}
