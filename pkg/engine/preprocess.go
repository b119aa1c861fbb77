package engine

import "strings"

// kwPrefix marks string literals that stand for :keywords.
const kwPrefix = "__kw_"

// preprocessSource rewrites level source into something zygomys accepts:
//
//   - :keyword becomes the string literal "__kw_keyword", so keywords need no
//     global symbol registration.
//   - kebab-case identifiers become snake_case (star-segs -> star_segs); a
//     hyphen only counts as part of a name when a letter or digit precedes it
//     and a letter follows it, so (- 10 5) and -150 are untouched.
//   - ; line comments become // comments.
//
// String literals (double-quoted and backtick) are copied through verbatim.
func preprocessSource(source string) string {
	var out strings.Builder
	out.Grow(len(source) + len(source)/4)
	b := []byte(source)

	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == '"':
			j := skipQuoted(b, i)
			out.Write(b[i:j])
			i = j

		case c == '`':
			j := i + 1
			for j < len(b) && b[j] != '`' {
				j++
			}
			if j < len(b) {
				j++
			}
			out.Write(b[i:j])
			i = j

		case c == ';':
			out.WriteString("//")
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				out.WriteByte(b[i])
				i++
			}

		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			out.WriteString(":=")
			i += 2

		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out.WriteByte('"')
			out.WriteString(kwPrefix)
			out.Write(b[i+1 : j])
			out.WriteByte('"')
			i = j

		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out.WriteByte('_')
			i++

		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// skipQuoted returns the index just past the double-quoted literal starting
// at b[i], honouring backslash escapes.
func skipQuoted(b []byte, i int) int {
	j := i + 1
	for j < len(b) && b[j] != '"' {
		if b[j] == '\\' && j+1 < len(b) {
			j++
		}
		j++
	}
	if j < len(b) {
		j++
	}
	return j
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isKWChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}
