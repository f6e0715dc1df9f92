package core

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basilisk-lang/lisp/internal/env"
	"github.com/basilisk-lang/lisp/internal/eval"
	"github.com/basilisk-lang/lisp/internal/reader"
	"github.com/basilisk-lang/lisp/internal/value"
)

func newInterp(t *testing.T) (*eval.Interp, *env.Env, *bytes.Buffer) {
	t.Helper()
	var stdout bytes.Buffer
	root := env.New(nil)
	it := eval.New(nil)
	require.NoError(t, New(it, root, &stdout))
	return it, root, &stdout
}

func run(t *testing.T, it *eval.Interp, e *env.Env, src string) value.Value {
	t.Helper()
	form, err := reader.Read(src)
	require.NoError(t, err)
	v, err := it.Eval(form, e)
	require.NoError(t, err)
	return v
}

func TestEndToEndScenarios(t *testing.T) {
	it, e, _ := newInterp(t)

	cases := []struct {
		src  string
		want string
	}{
		{"(+ 1 2)", "3"},
		{"(if (> 2 1) \"yes\" \"no\")", `"yes"`},
		{"((fn* (a b) (+ a b)) 3 4)", "7"},
		{"(let* (p (+ 2 3) q (+ 2 p)) (* p q))", "35"},
	}
	for _, c := range cases {
		v := run(t, it, e, c.src)
		assert.Equal(t, c.want, value.PrStr(v, true), c.src)
	}

	run(t, it, e, "(def! a 6)")
	v := run(t, it, e, "(* a a)")
	assert.Equal(t, "36", value.PrStr(v, true))
}

func TestAtomSwapAppliesFunction(t *testing.T) {
	it, e, _ := newInterp(t)
	v := run(t, it, e, "(do (def! c (atom 2)) (swap! c (fn* (v) (* v v))) (deref c))")
	assert.Equal(t, "4", value.PrStr(v, true))
}

func TestSwapUsesDefiningEnvNotCallSite(t *testing.T) {
	it, e, _ := newInterp(t)
	run(t, it, e, "(def! k 100)")
	run(t, it, e, "(def! adder (let* (k 1) (fn* (x) (+ x k))))")
	run(t, it, e, "(def! a (atom 0))")
	v := run(t, it, e, "(swap! a adder)")
	// adder's closure binds k=1 (the let* env), not the call site's k=100.
	assert.Equal(t, "1", value.PrStr(v, true))
}

func TestPrStrAndStr(t *testing.T) {
	it, e, _ := newInterp(t)
	v := run(t, it, e, `(pr-str 1 "two" 3)`)
	s, _ := v.AsString()
	assert.Equal(t, `1 "two" 3`, s)

	v = run(t, it, e, `(str 1 "two" 3)`)
	s, _ = v.AsString()
	assert.Equal(t, "1two3", s)
}

func TestPrnWritesToStdout(t *testing.T) {
	it, e, stdout := newInterp(t)
	run(t, it, e, `(prn "hi")`)
	assert.Equal(t, "\"hi\"\n", stdout.String())
}

func TestReadStringAndEvalReinjection(t *testing.T) {
	it, e, _ := newInterp(t)
	run(t, it, e, `(def! x 9)`)
	v := run(t, it, e, `(eval (read-string "(* x x)"))`)
	n, _ := v.AsNumber()
	assert.EqualValues(t, 81, n)
}

func TestNotBootstrap(t *testing.T) {
	it, e, _ := newInterp(t)
	v := run(t, it, e, "(not false)")
	b, _ := v.AsBool()
	assert.True(t, b)
	v = run(t, it, e, "(not 1)")
	b, _ = v.AsBool()
	assert.False(t, b)
}

func TestListOps(t *testing.T) {
	it, e, _ := newInterp(t)
	v := run(t, it, e, "(count (list 1 2 3))")
	n, _ := v.AsNumber()
	assert.EqualValues(t, 3, n)

	v = run(t, it, e, "(empty? (list))")
	b, _ := v.AsBool()
	assert.True(t, b)

	v = run(t, it, e, "(cons 0 (list 1 2))")
	items, _ := v.AsItems()
	assert.Len(t, items, 3)

	v = run(t, it, e, "(concat (list 1 2) (list 3 4))")
	items, _ = v.AsItems()
	assert.Len(t, items, 4)
}

func TestDivisionByZero(t *testing.T) {
	it, e, _ := newInterp(t)
	form, err := reader.Read("(/ 1 0)")
	require.NoError(t, err)
	_, err = it.Eval(form, e)
	require.Error(t, err)
	var re *eval.RuntimeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, eval.KindDomain, re.Kind)
}
