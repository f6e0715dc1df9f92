package value

import (
	"strconv"
	"strings"
)

// PrStr produces the printed representation of v. When readable is true,
// String values are quoted and escaped; child forms of List/Vector/HashMap
// are always printed readable regardless of the top-level flag.
func PrStr(v Value, readable bool) string {
	var b strings.Builder
	prStr(&b, v, readable)
	return b.String()
}

func prStr(b *strings.Builder, v Value, readable bool) {
	switch v.kind {
	case KindNil:
		b.WriteString("nil")
	case KindBool:
		if v.boolean {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case KindNumber:
		b.WriteString(strconv.FormatInt(v.num, 10))
	case KindSymbol, KindKeyword:
		b.WriteString(v.str)
	case KindString:
		if readable {
			b.WriteByte('"')
			for _, c := range []byte(v.str) {
				switch c {
				case '\\':
					b.WriteString(`\\`)
				case '"':
					b.WriteString(`\"`)
				case '\n':
					b.WriteString(`\n`)
				default:
					b.WriteByte(c)
				}
			}
			b.WriteByte('"')
		} else {
			b.WriteString(v.str)
		}
	case KindList:
		b.WriteByte('(')
		printSeq(b, v.items)
		b.WriteByte(')')
	case KindVector:
		b.WriteByte('[')
		printSeq(b, v.items)
		b.WriteByte(']')
	case KindHashMap:
		b.WriteByte('{')
		for i, k := range v.keys {
			if i > 0 {
				b.WriteByte(' ')
			}
			prStr(b, k, true)
			b.WriteByte(' ')
			prStr(b, v.vals[i], true)
		}
		b.WriteByte('}')
	case KindFn:
		if v.fn.Kind == BuiltinFn {
			b.WriteString("#<builtin:")
			b.WriteString(v.fn.Name)
			b.WriteByte('>')
		} else {
			b.WriteString("#<function>")
		}
	case KindAtom:
		b.WriteString("(atom ")
		prStr(b, v.atom.val, true)
		b.WriteByte(')')
	}
}

func printSeq(b *strings.Builder, items []Value) {
	for i, it := range items {
		if i > 0 {
			b.WriteByte(' ')
		}
		prStr(b, it, true)
	}
}
