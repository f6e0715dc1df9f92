package reader

// tokenize implements the lexical grammar: whitespace is any byte <= 0x20
// or a comma; a comment begins with ';' and extends to end of line and
// produces no token; (){}[]'`~^@ are single-byte tokens; ~@ is a two-byte
// token; a string literal runs from an unescaped '"' to the next unescaped
// '"'; anything else is a maximal run of non-special, non-whitespace bytes.
func tokenize(src string) ([]string, error) {
	var toks []string
	i := 0
	n := len(src)
	for i < n {
		c := src[i]
		switch {
		case c <= ' ' || c == ',':
			i++
		case c == ';':
			for i < n && src[i] != '\n' {
				i++
			}
		case c == '~' && i+1 < n && src[i+1] == '@':
			toks = append(toks, "~@")
			i += 2
		case isOneByteToken(c):
			toks = append(toks, string(c))
			i++
		case c == '"':
			tok, end, err := scanString(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			i = end
		default:
			start := i
			for i < n && !isSpecial(src[i]) {
				i++
			}
			toks = append(toks, src[start:i])
		}
	}
	return toks, nil
}

func isOneByteToken(c byte) bool {
	switch c {
	case '(', ')', '[', ']', '{', '}', '\'', '`', '~', '^', '@':
		return true
	}
	return false
}

func isSpecial(c byte) bool {
	if c <= ' ' || c == ',' || c == ';' || c == '"' {
		return true
	}
	return isOneByteToken(c)
}

// scanString scans a string literal token starting at src[start] == '"',
// returning the raw token text (including both quotes) and the index just
// past the closing quote.
func scanString(src string, start int) (string, int, error) {
	n := len(src)
	i := start + 1
	for i < n {
		switch src[i] {
		case '\\':
			i += 2 // also skip the escaped byte
			continue
		case '"':
			return src[start : i+1], i + 1, nil
		}
		i++
	}
	return "", 0, newErr(KindEOFInString, "EOF reading string literal starting at byte %d", start)
}
