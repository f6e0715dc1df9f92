// Package eval implements a trampolined, special-form-aware evaluator:
// Eval(value, env) -> value | RuntimeError, looping instead of recursing
// so that tail positions (let*, do, if, and user-function application) do
// not grow the host call stack.
package eval

import (
	"fmt"
	"io"
	"os"

	"github.com/basilisk-lang/lisp/internal/env"
	"github.com/basilisk-lang/lisp/internal/value"
)

// Interp holds the capabilities builtins need injected rather than leaking
// "which env is root" into every builtin signature: where to write the
// DEBUG-EVAL trace, and (via Eval and Apply) a way to re-enter the
// trampoline for eval/swap! reinjection.
type Interp struct {
	Stderr io.Writer
}

// New returns an Interp; a nil stderr defaults to os.Stderr.
func New(stderr io.Writer) *Interp {
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Interp{Stderr: stderr}
}

// Eval repeatedly rewrites (v, e) instead of recursing for tail positions,
// so deep tail recursion runs in bounded host stack space.
func (it *Interp) Eval(v value.Value, e *env.Env) (value.Value, error) {
	for {
		if dbg, ok := e.Get("DEBUG-EVAL"); ok && dbg.Truthy() {
			fmt.Fprintf(it.Stderr, "EVAL: %s\n", value.PrStr(v, true))
		}

		switch v.Kind() {
		case value.KindSymbol:
			name, _ := v.AsSymbol()
			resolved, ok := e.Get(name)
			if !ok {
				return value.Nil(), newErr(KindNotFound, "'%s' not found", name)
			}
			return resolved, nil

		case value.KindList:
			items, _ := v.AsItems()
			if len(items) == 0 {
				return v, nil
			}

			if items[0].IsSymbol() {
				headSym, _ := items[0].AsSymbol()
				switch headSym {
				case "def!":
					if len(items) != 3 {
						return value.Nil(), newErr(KindArity, "def!: expected 2 args, got %d", len(items)-1)
					}
					name, err := items[1].AsSymbol()
					if err != nil {
						return value.Nil(), newErr(KindTypeMismatch, "def!: expected symbol at position 1")
					}
					resVal, err := it.Eval(items[2], e)
					if err != nil {
						return value.Nil(), err
					}
					e.Set(name, resVal)
					return resVal, nil

				case "let*":
					if len(items) != 3 {
						return value.Nil(), newErr(KindArity, "let*: expected 2 args, got %d", len(items)-1)
					}
					pairs, err := items[1].AsItems()
					if err != nil {
						return value.Nil(), newErr(KindTypeMismatch, "let*: expected list or vector of bindings")
					}
					if len(pairs)%2 != 0 {
						return value.Nil(), newErr(KindArity, "let*: binding list must have an even number of forms")
					}
					child := env.New(e)
					for i := 0; i < len(pairs); i += 2 {
						keyName, err := pairs[i].AsSymbol()
						if err != nil {
							return value.Nil(), newErr(KindTypeMismatch, "let*: binding name must be a symbol")
						}
						val, err := it.Eval(pairs[i+1], child)
						if err != nil {
							return value.Nil(), err
						}
						child.Set(keyName, val)
					}
					v, e = items[2], child
					continue

				case "do":
					if len(items) < 2 {
						return value.Nil(), newErr(KindArity, "do: expected at least 1 arg, got 0")
					}
					for i := 1; i < len(items)-1; i++ {
						if _, err := it.Eval(items[i], e); err != nil {
							return value.Nil(), err
						}
					}
					v = items[len(items)-1]
					continue

				case "if":
					if len(items) != 3 && len(items) != 4 {
						return value.Nil(), newErr(KindArity, "if: expected 2 or 3 args, got %d", len(items)-1)
					}
					cond, err := it.Eval(items[1], e)
					if err != nil {
						return value.Nil(), err
					}
					if cond.Truthy() {
						v = items[2]
						continue
					}
					if len(items) == 4 {
						v = items[3]
						continue
					}
					return value.Nil(), nil

				case "fn*":
					if len(items) != 3 {
						return value.Nil(), newErr(KindArity, "fn*: expected 2 args, got %d", len(items)-1)
					}
					formals, err := items[1].AsItems()
					if err != nil {
						return value.Nil(), newErr(KindTypeMismatch, "fn*: expected list or vector of formals")
					}
					params := make([]string, 0, len(formals))
					variadic := false
					for _, f := range formals {
						name, err := f.AsSymbol()
						if err != nil {
							return value.Nil(), newErr(KindTypeMismatch, "fn*: formal parameters must be symbols")
						}
						if name == "&" {
							variadic = true
							continue
						}
						params = append(params, name)
					}
					return value.NewUserFn(params, variadic, items[2], e), nil

				case "quote":
					if len(items) != 2 {
						return value.Nil(), newErr(KindArity, "quote: expected 1 arg, got %d", len(items)-1)
					}
					return items[1], nil

				case "quasiquote":
					if len(items) != 2 {
						return value.Nil(), newErr(KindArity, "quasiquote: expected 1 arg, got %d", len(items)-1)
					}
					v = quasiquote(items[1])
					continue
				}
			}

			// Ordinary application: eager, left-to-right argument evaluation.
			fnVal, err := it.Eval(items[0], e)
			if err != nil {
				return value.Nil(), err
			}
			args := make([]value.Value, len(items)-1)
			for i := 1; i < len(items); i++ {
				arg, err := it.Eval(items[i], e)
				if err != nil {
					return value.Nil(), err
				}
				args[i-1] = arg
			}
			fn, err := fnVal.AsFn()
			if err != nil {
				return value.Nil(), newErr(KindNotAFunction, "not a function: %s", value.PrStr(fnVal, true))
			}
			switch fn.Kind {
			case value.BuiltinFn:
				return fn.Builtin(args, e)
			case value.UserFn:
				closureEnv, ok := fn.Closure.(*env.Env)
				if !ok {
					return value.Nil(), newErr(KindCustom, "function has no valid closure environment")
				}
				callEnv := env.New(closureEnv)
				if err := callEnv.Bind(fn.Params, fn.Variadic, args); err != nil {
					return value.Nil(), newErr(KindArity, "%v", err)
				}
				v, e = fn.Body, callEnv
				continue
			}
			return value.Nil(), newErr(KindCustom, "unknown function kind")

		default:
			return v, nil
		}
	}
}

// Apply invokes fn with args outside of tail position, so a UserFn
// argument executes under its own captured closure env rather than the
// caller's — used by builtins like swap! that reinject into the evaluator.
func (it *Interp) Apply(fn value.Value, args []value.Value) (value.Value, error) {
	f, err := fn.AsFn()
	if err != nil {
		return value.Nil(), newErr(KindNotAFunction, "not a function: %s", value.PrStr(fn, true))
	}
	switch f.Kind {
	case value.BuiltinFn:
		var callerEnv value.Environment
		if f.Closure != nil {
			callerEnv = f.Closure
		}
		return f.Builtin(args, callerEnv)
	case value.UserFn:
		closureEnv, ok := f.Closure.(*env.Env)
		if !ok {
			return value.Nil(), newErr(KindCustom, "function has no valid closure environment")
		}
		callEnv := env.New(closureEnv)
		if err := callEnv.Bind(f.Params, f.Variadic, args); err != nil {
			return value.Nil(), newErr(KindArity, "%v", err)
		}
		return it.Eval(f.Body, callEnv)
	}
	return value.Nil(), newErr(KindCustom, "unknown function kind")
}
