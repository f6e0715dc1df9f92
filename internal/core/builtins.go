// Package core implements the builtin function table: arithmetic,
// comparison, list operations, atoms, printing, I/O, and the eval/swap!
// reinjection hooks.
package core

import (
	"fmt"
	"io"
	"os"

	"github.com/basilisk-lang/lisp/internal/env"
	"github.com/basilisk-lang/lisp/internal/eval"
	"github.com/basilisk-lang/lisp/internal/reader"
	"github.com/basilisk-lang/lisp/internal/value"
)

// New populates root with every builtin name, then evaluates the two
// bootstrapped definitions (not, load-file) in root. it supplies the eval
// reinjection capability (for `eval` and `swap!`) without leaking which
// environment is "root" into individual builtin signatures.
func New(it *eval.Interp, root *env.Env, stdout io.Writer) error {
	if stdout == nil {
		stdout = os.Stdout
	}
	install(root, it, stdout)

	bootstraps := []string{
		`(def! not (fn* (a) (if a false true)))`,
		`(def! load-file (fn* (f) (eval (read-string (str "(do " (slurp f) "\nnil)")))))`,
	}
	for _, src := range bootstraps {
		form, err := reader.Read(src)
		if err != nil {
			return err
		}
		if _, err := it.Eval(form, root); err != nil {
			return err
		}
	}
	return nil
}

func install(root *env.Env, it *eval.Interp, stdout io.Writer) {
	def := func(name string, fn func(args []value.Value, e value.Environment) (value.Value, error)) {
		root.Set(name, value.NewBuiltin(name, nil, fn))
	}

	def("+", arithOp("+", func(a, b int64) int64 { return a + b }))
	def("-", arithOp("-", func(a, b int64) int64 { return a - b }))
	def("*", arithOp("*", func(a, b int64) int64 { return a * b }))
	def("/", func(args []value.Value, _ value.Environment) (value.Value, error) {
		a, b, err := twoNumbers("/", args)
		if err != nil {
			return value.Nil(), err
		}
		if b == 0 {
			return value.Nil(), eval.NewRuntimeError(eval.KindDomain, "/: division by zero")
		}
		return value.Number(a / b), nil
	})

	def("=", func(args []value.Value, _ value.Environment) (value.Value, error) {
		if err := checkArity("=", args, 2); err != nil {
			return value.Nil(), err
		}
		return value.Bool(value.Equal(args[0], args[1])), nil
	})
	def("<", cmpOp("<", func(a, b int64) bool { return a < b }))
	def("<=", cmpOp("<=", func(a, b int64) bool { return a <= b }))
	def(">", cmpOp(">", func(a, b int64) bool { return a > b }))
	def(">=", cmpOp(">=", func(a, b int64) bool { return a >= b }))

	def("list", func(args []value.Value, _ value.Environment) (value.Value, error) {
		return value.List(append([]value.Value(nil), args...)), nil
	})
	def("list?", func(args []value.Value, _ value.Environment) (value.Value, error) {
		if err := checkArity("list?", args, 1); err != nil {
			return value.Nil(), err
		}
		return value.Bool(args[0].IsList()), nil
	})
	def("empty?", func(args []value.Value, _ value.Environment) (value.Value, error) {
		if err := checkArity("empty?", args, 1); err != nil {
			return value.Nil(), err
		}
		items, err := mustList("empty?", args[0], 1)
		if err != nil {
			return value.Nil(), err
		}
		return value.Bool(len(items) == 0), nil
	})
	def("count", func(args []value.Value, _ value.Environment) (value.Value, error) {
		if err := checkArity("count", args, 1); err != nil {
			return value.Nil(), err
		}
		if args[0].IsNil() {
			return value.Number(0), nil
		}
		// count accepts List or Vector (widened beyond plain List, since a
		// caller has no other way to ask a Vector its length).
		items, err := args[0].AsItems()
		if err != nil {
			return value.Nil(), eval.NewRuntimeError(eval.KindTypeMismatch, "count: expected list, vector or nil at position 1")
		}
		return value.Number(int64(len(items))), nil
	})
	def("cons", func(args []value.Value, _ value.Environment) (value.Value, error) {
		if err := checkArity("cons", args, 2); err != nil {
			return value.Nil(), err
		}
		rest, err := mustList("cons", args[1], 2)
		if err != nil {
			return value.Nil(), err
		}
		out := make([]value.Value, 0, len(rest)+1)
		out = append(out, args[0])
		out = append(out, rest...)
		return value.List(out), nil
	})
	def("concat", func(args []value.Value, _ value.Environment) (value.Value, error) {
		// Check each argument's type exactly once and report the first
		// failure; do not re-validate an already-accepted argument.
		out := []value.Value{}
		for i, a := range args {
			items, err := mustList("concat", a, i+1)
			if err != nil {
				return value.Nil(), err
			}
			out = append(out, items...)
		}
		return value.List(out), nil
	})

	def("atom", func(args []value.Value, _ value.Environment) (value.Value, error) {
		if err := checkArity("atom", args, 1); err != nil {
			return value.Nil(), err
		}
		return value.NewAtom(args[0]), nil
	})
	def("atom?", func(args []value.Value, _ value.Environment) (value.Value, error) {
		if err := checkArity("atom?", args, 1); err != nil {
			return value.Nil(), err
		}
		return value.Bool(args[0].IsAtom()), nil
	})
	def("deref", func(args []value.Value, _ value.Environment) (value.Value, error) {
		if err := checkArity("deref", args, 1); err != nil {
			return value.Nil(), err
		}
		a, err := args[0].AsAtom()
		if err != nil {
			return value.Nil(), eval.NewRuntimeError(eval.KindTypeMismatch, "deref: expected atom at position 1")
		}
		return a.Deref(), nil
	})
	def("reset!", func(args []value.Value, _ value.Environment) (value.Value, error) {
		if err := checkArity("reset!", args, 2); err != nil {
			return value.Nil(), err
		}
		a, err := args[0].AsAtom()
		if err != nil {
			return value.Nil(), eval.NewRuntimeError(eval.KindTypeMismatch, "reset!: expected atom at position 1")
		}
		return a.Reset(args[1]), nil
	})
	def("swap!", func(args []value.Value, _ value.Environment) (value.Value, error) {
		if err := checkArityMin("swap!", args, 2); err != nil {
			return value.Nil(), err
		}
		a, err := args[0].AsAtom()
		if err != nil {
			return value.Nil(), eval.NewRuntimeError(eval.KindTypeMismatch, "swap!: expected atom at position 1")
		}
		fnArgs := append([]value.Value{a.Deref()}, args[2:]...)
		// Reinjected through the trampoline so a UserFn argument executes
		// under its own captured closure env, not the call site's.
		res, err := it.Apply(args[1], fnArgs)
		if err != nil {
			return value.Nil(), err
		}
		return a.Reset(res), nil
	})

	def("pr-str", func(args []value.Value, _ value.Environment) (value.Value, error) {
		return value.String(joinPr(args, " ", true)), nil
	})
	def("str", func(args []value.Value, _ value.Environment) (value.Value, error) {
		return value.String(joinPr(args, "", false)), nil
	})
	def("prn", func(args []value.Value, _ value.Environment) (value.Value, error) {
		fmt.Fprintln(stdout, joinPr(args, " ", true))
		return value.Nil(), nil
	})
	def("println", func(args []value.Value, _ value.Environment) (value.Value, error) {
		fmt.Fprintln(stdout, joinPr(args, " ", false))
		return value.Nil(), nil
	})

	def("read-string", func(args []value.Value, _ value.Environment) (value.Value, error) {
		if err := checkArity("read-string", args, 1); err != nil {
			return value.Nil(), err
		}
		s, err := args[0].AsString()
		if err != nil {
			return value.Nil(), eval.NewRuntimeError(eval.KindTypeMismatch, "read-string: expected string at position 1")
		}
		v, err := reader.Read(s)
		if err != nil {
			return value.Nil(), eval.NewRuntimeError(eval.KindCustom, "read-string: %v", err)
		}
		return v, nil
	})
	def("slurp", func(args []value.Value, _ value.Environment) (value.Value, error) {
		if err := checkArity("slurp", args, 1); err != nil {
			return value.Nil(), err
		}
		path, err := args[0].AsString()
		if err != nil {
			return value.Nil(), eval.NewRuntimeError(eval.KindTypeMismatch, "slurp: expected string at position 1")
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return value.Nil(), eval.NewRuntimeError(eval.KindCustom, "slurp: %v", err)
		}
		return value.String(string(data)), nil
	})

	def("eval", func(args []value.Value, _ value.Environment) (value.Value, error) {
		if err := checkArity("eval", args, 1); err != nil {
			return value.Nil(), err
		}
		// Run in the root environment, not the caller's, so top-level
		// defines from a loaded file are visible afterward.
		return it.Eval(args[0], root)
	})
}

func joinPr(xs []value.Value, sep string, readable bool) string {
	out := ""
	for i, x := range xs {
		if i > 0 {
			out += sep
		}
		out += value.PrStr(x, readable)
	}
	return out
}

func checkArity(name string, args []value.Value, n int) error {
	if len(args) != n {
		return eval.NewRuntimeError(eval.KindArity, "%s: expected %d args, got %d", name, n, len(args))
	}
	return nil
}

// mustList requires v to be a List specifically (not a Vector): empty?,
// cons, and concat are defined over List arguments only.
func mustList(name string, v value.Value, pos int) ([]value.Value, error) {
	if !v.IsList() {
		return nil, eval.NewRuntimeError(eval.KindTypeMismatch, "%s: expected list at position %d", name, pos)
	}
	items, _ := v.AsItems()
	return items, nil
}

func checkArityMin(name string, args []value.Value, n int) error {
	if len(args) < n {
		return eval.NewRuntimeError(eval.KindArity, "%s: expected at least %d args, got %d", name, n, len(args))
	}
	return nil
}

func twoNumbers(name string, args []value.Value) (int64, int64, error) {
	if err := checkArity(name, args, 2); err != nil {
		return 0, 0, err
	}
	a, err := args[0].AsNumber()
	if err != nil {
		return 0, 0, eval.NewRuntimeError(eval.KindTypeMismatch, "%s: expected number at position 1", name)
	}
	b, err := args[1].AsNumber()
	if err != nil {
		return 0, 0, eval.NewRuntimeError(eval.KindTypeMismatch, "%s: expected number at position 2", name)
	}
	return a, b, nil
}

func arithOp(name string, op func(a, b int64) int64) func([]value.Value, value.Environment) (value.Value, error) {
	return func(args []value.Value, _ value.Environment) (value.Value, error) {
		a, b, err := twoNumbers(name, args)
		if err != nil {
			return value.Nil(), err
		}
		return value.Number(op(a, b)), nil
	}
}

func cmpOp(name string, op func(a, b int64) bool) func([]value.Value, value.Environment) (value.Value, error) {
	return func(args []value.Value, _ value.Environment) (value.Value, error) {
		a, b, err := twoNumbers(name, args)
		if err != nil {
			return value.Nil(), err
		}
		return value.Bool(op(a, b)), nil
	}
}
