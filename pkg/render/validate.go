package render

import (
	"fmt"
	"strings"
)

// ValidateEscaped scans text for conformance with the strict chat dialect:
// every reserved character must be backslash-escaped unless it forms part
// of a recognized markup span, and every opened span must close. It shares
// no state with the Escaped renderer so it can double-check its output.
func ValidateEscaped(text string) (bool, []string) {
	v := escapedValidator{src: text}
	v.scan()
	return len(v.violations) == 0, v.violations
}

type escapedValidator struct {
	src        string
	violations []string

	// open emphasis spans, keyed by delimiter
	open map[byte]int
}

func (v *escapedValidator) scan() {
	v.open = map[byte]int{}
	lineStart := true
	inLink := false

	i := 0
	for i < len(v.src) {
		c := v.src[i]
		switch c {
		case '\\':
			if i+1 >= len(v.src) {
				v.report(i, "dangling backslash at end of input")
				i++
				break
			}
			i += 2

		case '\n':
			lineStart = true
			i++
			continue

		case '`':
			i = v.scanCode(i)

		case '*', '_', '~':
			v.open[c]++
			i++

		case '[':
			if inLink {
				v.report(i, "nested '[' inside link")
			}
			inLink = true
			i++

		case ']':
			if !inLink {
				v.report(i, "unescaped ']'")
				i++
				break
			}
			inLink = false
			if i+1 >= len(v.src) || v.src[i+1] != '(' {
				v.report(i, "link text not followed by '('")
				i++
				break
			}
			i = v.scanDestination(i + 1)

		case '>':
			if !lineStart {
				v.report(i, "unescaped '>'")
				i++
				break
			}
			// nested quotes prefix a full run of markers
			i++
			continue

		default:
			if strings.IndexByte(escapedReserved, c) >= 0 {
				v.report(i, fmt.Sprintf("unescaped %q", string(c)))
			}
			i++
		}
		lineStart = false
	}

	if inLink {
		v.report(len(v.src), "unterminated link")
	}
	for _, d := range []byte{'*', '_', '~'} {
		if v.open[d]%2 != 0 {
			v.violations = append(v.violations,
				fmt.Sprintf("unbalanced %q span", string(d)))
		}
	}
}

// scanCode skips a code span or fenced block. The delimiter is the run of
// backticks at i; content up to the matching run is opaque except that a
// lone backslash must still escape something.
func (v *escapedValidator) scanCode(i int) int {
	n := 0
	for i+n < len(v.src) && v.src[i+n] == '`' {
		n++
	}
	rest := v.src[i+n:]
	delim := strings.Repeat("`", n)
	for off := 0; off < len(rest); {
		idx := strings.Index(rest[off:], delim)
		if idx < 0 {
			break
		}
		pos := off + idx
		// A delimiter is consumed by an escape only when the backslash
		// run before it has odd length; escaped backslashes come doubled.
		backslashes := 0
		for p := pos - 1; p >= 0 && rest[p] == '\\'; p-- {
			backslashes++
		}
		if backslashes%2 == 1 {
			off = pos + 1
			continue
		}
		return i + n + pos + n
	}
	v.report(i, "unbalanced '`' span")
	return i + n
}

// scanDestination validates a link destination starting at the '(' and
// returns the index past the closing ')'.
func (v *escapedValidator) scanDestination(open int) int {
	i := open + 1
	for i < len(v.src) {
		switch v.src[i] {
		case '\\':
			i += 2
		case ')':
			return i + 1
		case '\n':
			v.report(open, "link destination spans line break")
			return i
		default:
			i++
		}
	}
	v.report(open, "unterminated link destination")
	return i
}

func (v *escapedValidator) report(offset int, msg string) {
	v.violations = append(v.violations, fmt.Sprintf("offset %d: %s", offset, msg))
}
