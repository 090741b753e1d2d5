package engine

import "strings"

const jsPunct = "(){}[];,<>=+-*/%&|!?:^~"

// minifyJS strips comments and insignificant whitespace from a script.
// It respects string and template literals but is not a full parser;
// regex literals containing "//" can confuse it.
func minifyJS(src string) string {
	var out strings.Builder
	out.Grow(len(src))

	var last byte
	space := false
	i, n := 0, len(src)

	emit := func(c byte) {
		if space {
			if last != 0 && !isPunct(last, jsPunct) && !isPunct(c, jsPunct) {
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
		case c == '/' && i+1 < n && src[i+1] == '/':
			for i < n && src[i] != '\n' {
				i++
			}
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
		case c == '"' || c == '\'' || c == '`':
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

func isPunct(c byte, set string) bool {
	return strings.IndexByte(set, c) >= 0
}
