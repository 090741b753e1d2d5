package engine

import "strings"

const cssPunct = "{}:;,>()"

// minifyCSS strips comments, collapses whitespace around punctuation and
// drops the semicolon before a closing brace.
func minifyCSS(src string) string {
	var out strings.Builder
	out.Grow(len(src))

	var last byte
	space := false
	semi := false
	i, n := 0, len(src)

	emit := func(c byte) {
		if semi {
			if c != '}' && c != ';' {
				out.WriteByte(';')
				last = ';'
			}
			if c == ';' {
				semi = true
				space = false
				return
			}
			semi = false
		}
		if c == ';' {
			semi = true
			space = false
			return
		}
		if space {
			if last != 0 && !isPunct(last, cssPunct) && !isPunct(c, cssPunct) {
				out.WriteByte(' ')
			}
			space = false
		}
		out.WriteByte(c)
		last = c
	}

	for i < n {
		c := src[i]
		switch {
		case c == '/' && i+1 < n && src[i+1] == '*':
			i += 2
			for i+1 < n && !(src[i] == '*' && src[i+1] == '/') {
				i++
			}
			if i+1 < n {
				i += 2
			} else {
				i = n
			}
			space = true
		case c == '"' || c == '\'':
			emit(c)
			i++
			for i < n {
				emit(src[i])
				if src[i] == '\\' && i+1 < n {
					i++
					emit(src[i])
				} else if src[i] == c {
					i++
					break
				}
				i++
			}
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			space = true
			i++
		default:
			emit(c)
			i++
		}
	}
	return out.String()
}
