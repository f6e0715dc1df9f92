package eval

import "github.com/basilisk-lang/lisp/internal/value"

// quasiquote is a fixed, non-macro transform from a quasiquoted form into
// an equivalent cons/concat expression, evaluated like any other form. It
// recognizes unquote and splice-unquote but does not introduce a general
// macro-expansion facility.
func quasiquote(ast value.Value) value.Value {
	if !isPair(ast) {
		return value.List([]value.Value{value.Symbol("quote"), ast})
	}
	items, _ := ast.AsItems()
	if sym, err := items[0].AsSymbol(); err == nil && sym == "unquote" {
		return items[1]
	}
	if isPair(items[0]) {
		headItems, _ := items[0].AsItems()
		if sym, err := headItems[0].AsSymbol(); err == nil && sym == "splice-unquote" {
			rest := value.List(append([]value.Value(nil), items[1:]...))
			return value.List([]value.Value{value.Symbol("concat"), headItems[1], quasiquote(rest)})
		}
	}
	rest := value.List(append([]value.Value(nil), items[1:]...))
	return value.List([]value.Value{value.Symbol("cons"), quasiquote(items[0]), quasiquote(rest)})
}

func isPair(v value.Value) bool {
	if !v.IsSequential() {
		return false
	}
	items, _ := v.AsItems()
	return len(items) > 0
}
