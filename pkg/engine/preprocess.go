package engine

// kwPrefix marks keyword names rewritten by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites kerf source into something zygomys accepts:
//
//   - `:face` becomes the string literal "__kw_face", so keywords never
//     collide with user variables of the same name.
//   - `my-rect` becomes `my_rect`; zygomys reads a bare hyphen as minus.
//   - `;` line comments become `//` comments.
//
// String literals (double-quoted and backtick) pass through untouched.
func preprocessSource(source string) string {
	b := []byte(source)
	out := make([]byte, 0, len(b)+len(b)/4)
	for i := 0; i < len(b); {
		switch c := b[i]; {
		case c == '"':
			out, i = copyQuoted(out, b, i, '"', true)
		case c == '`':
			out, i = copyQuoted(out, b, i, '`', false)
		case c == ';':
			out, i = rewriteComment(out, b, i)
		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			out = append(out, ':', '=')
			i += 2
		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out = append(out, '"')
			out = append(out, kwPrefix...)
			out = append(out, b[i+1:j]...)
			out = append(out, '"')
			i = j
		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out = append(out, '_')
			i++
		default:
			out = append(out, c)
			i++
		}
	}
	return string(out)
}

// copyQuoted copies the literal opening at b[i] through its closing quote.
func copyQuoted(out, b []byte, i int, quote byte, escapes bool) ([]byte, int) {
	out = append(out, b[i])
	i++
	for i < len(b) && b[i] != quote {
		if escapes && b[i] == '\\' && i+1 < len(b) {
			out = append(out, b[i], b[i+1])
			i += 2
			continue
		}
		out = append(out, b[i])
		i++
	}
	if i < len(b) {
		out = append(out, b[i])
		i++
	}
	return out, i
}

// rewriteComment turns a run of semicolons into // and copies the rest of
// the line.
func rewriteComment(out, b []byte, i int) ([]byte, int) {
	out = append(out, '/', '/')
	for i < len(b) && b[i] == ';' {
		i++
	}
	for i < len(b) && b[i] != '\n' {
		out = append(out, b[i])
		i++
	}
	return out, i
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isIdentChar(c) || c == '-'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
