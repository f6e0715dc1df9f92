// Package env implements a chained, lexically scoped environment: a mapping
// from symbol name to Value plus an optional outer-environment pointer, with
// explicit arity-checked parameter binding and cycle-aware reference
// counting.
package env

import (
	"fmt"

	"github.com/basilisk-lang/lisp/internal/refcount"
	"github.com/basilisk-lang/lisp/internal/value"
)

// Env is a single lexical frame: a flat association table plus a pointer to
// the enclosing (outer) frame.
type Env struct {
	vars  map[string]value.Value
	outer *Env
	rc    *refcount.Counter
}

// New creates a fresh, empty frame. outer may be nil for the root
// environment.
func New(outer *Env) *Env {
	e := &Env{
		vars:  make(map[string]value.Value),
		outer: outer,
		rc:    refcount.NewCounter(),
	}
	if outer != nil {
		outer.rc.Retain()
	}
	return e
}

// Set overwrites or inserts name into the innermost (this) frame. If the
// bound value is a UserFn whose closure is this frame or one of its
// ancestors, the closure's cycle count is adjusted so that the resulting
// def!-into-its-own-closure cycle can be recognized as collectible once no
// external strong reference remains.
func (e *Env) Set(name string, v value.Value) {
	if old, existed := e.vars[name]; existed {
		e.releaseClosureOf(old)
	}
	e.vars[name] = v
	e.retainClosureOf(v)
}

// Get looks up name by walking the outer chain.
func (e *Env) Get(name string) (value.Value, bool) {
	for cur := e; cur != nil; cur = cur.outer {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return value.Nil(), false
}

// Contains reports whether name is bound anywhere in the outer chain.
func (e *Env) Contains(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// Bind populates a fresh frame with params bound to args: for a
// non-variadic n-arity function len(args) must equal n; for variadic,
// len(args) must be at least n-1 and the last formal binds a List of the
// remainder (possibly empty).
func (e *Env) Bind(params []string, variadic bool, args []value.Value) error {
	if variadic {
		n := len(params) - 1
		if n < 0 {
			return fmt.Errorf("variadic function must have at least one formal")
		}
		if len(args) < n {
			return fmt.Errorf("arity mismatch: expected at least %d args, got %d", n, len(args))
		}
		for i := 0; i < n; i++ {
			e.Set(params[i], args[i])
		}
		rest := append([]value.Value(nil), args[n:]...)
		e.Set(params[n], value.List(rest))
		return nil
	}
	if len(args) != len(params) {
		return fmt.Errorf("arity mismatch: expected %d args, got %d", len(params), len(args))
	}
	for i, p := range params {
		e.Set(p, args[i])
	}
	return nil
}

// Retain registers an additional strong reference to e (e.g. a UserFn Value
// capturing e as its closure).
func (e *Env) Retain() { e.rc.Retain() }

// Release drops a strong reference to e, propagating the release up the
// outer chain when e becomes externally unreachable.
func (e *Env) Release() {
	if e.rc.Release() && e.outer != nil {
		e.outer.Release()
	}
}

// Alive reports whether e is still externally reachable (for tests of the
// cycle-breaking bookkeeping; Go's GC manages actual memory regardless).
func (e *Env) Alive() bool { return !e.rc.Dead() }

// Strong and Cycles expose the raw counters, for tests.
func (e *Env) Strong() int { return e.rc.Strong() }
func (e *Env) Cycles() int { return e.rc.Cycles() }

func (e *Env) retainClosureOf(v value.Value) {
	fn, ok := closureEnvOf(v)
	if !ok {
		return
	}
	fn.Retain()
	if ancestorOrSelf(fn, e) {
		fn.rc.AddCycle()
	}
}

func (e *Env) releaseClosureOf(v value.Value) {
	fn, ok := closureEnvOf(v)
	if !ok {
		return
	}
	if ancestorOrSelf(fn, e) {
		fn.rc.RemoveCycle()
	}
	fn.Release()
}

// closureEnvOf extracts the captured *Env of a UserFn Value, if any.
func closureEnvOf(v value.Value) (*Env, bool) {
	if !v.IsFn() {
		return nil, false
	}
	fn, err := v.AsFn()
	if err != nil || fn.Kind != value.UserFn || fn.Closure == nil {
		return nil, false
	}
	closure, ok := fn.Closure.(*Env)
	if !ok {
		return nil, false
	}
	return closure, true
}

// ancestorOrSelf reports whether target is e itself or reachable by walking
// e's outer chain.
func ancestorOrSelf(target, e *Env) bool {
	for cur := e; cur != nil; cur = cur.outer {
		if cur == target {
			return true
		}
	}
	return false
}
