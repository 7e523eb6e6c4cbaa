package parser

import (
	"regexp"
	"strings"

	"github.com/yaklabco/markwire/pkg/mdast"
)

// maxInlineDepth bounds recursion through nested emphasis and link display
// content.
const maxInlineDepth = 32

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// parseInlines resolves inline spans inside a block's raw text.
//
// Precedence, highest first: code spans, links/images, autolinks, emphasis,
// escaped punctuation, plain text. Unmatched opening delimiters degrade to
// literal text with a non-fatal diagnostic.
func parseInlines(text string, opts Options, diags *[]Diagnostic, line, col int) []mdast.Inline {
	if text == "" {
		return nil
	}
	ip := &inlineParser{opts: opts, diags: diags, line: line, col: col}
	return ip.run(text, 0)
}

type inlineParser struct {
	opts  Options
	diags *[]Diagnostic
	line  int
	col   int
}

func (ip *inlineParser) diag(code, message string) {
	*ip.diags = append(*ip.diags, Diagnostic{
		Code:    code,
		Message: message,
		Line:    ip.line,
		Column:  ip.col,
	})
}

//nolint:gocyclo // The dispatch loop mirrors the precedence table directly.
func (ip *inlineParser) run(s string, depth int) []mdast.Inline {
	if depth >= maxInlineDepth {
		return []mdast.Inline{&mdast.Text{Literal: s}}
	}

	var out []mdast.Inline

	appendText := func(t string) {
		if t == "" {
			return
		}
		if len(out) > 0 {
			if last, ok := out[len(out)-1].(*mdast.Text); ok {
				last.Literal += t
				return
			}
		}
		out = append(out, &mdast.Text{Literal: t})
	}

	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '\\':
			if i+1 < len(s) && isPunctuation(s[i+1]) {
				appendText(string(s[i+1]))
				i += 2
			} else {
				appendText("\\")
				i++
			}

		case c == '\n':
			hard := i >= 2 && s[i-1] == ' ' && s[i-2] == ' '
			trimTrailingSpaces(out)
			switch {
			case hard:
				out = append(out, &mdast.LineBreak{Hard: true})
			case ip.opts.PreserveSoftLineBreaks:
				out = append(out, &mdast.LineBreak{Hard: false})
			default:
				appendText(" ")
			}
			i++

		case c == '`':
			n := runLength(s, i, '`')
			if close, ok := findBacktickClose(s, i+n, n); ok {
				out = append(out, &mdast.CodeSpan{Literal: s[i+n : close]})
				i = close + n
			} else {
				ip.diag(CodeUnmatchedDelimiter, "unmatched backtick run")
				appendText(s[i : i+n])
				i += n
			}

		case c == '!' && i+1 < len(s) && s[i+1] == '[':
			if img, next, ok := ip.tryImage(s, i, depth); ok {
				out = append(out, img)
				i = next
			} else {
				appendText("!")
				i++
			}

		case c == '[':
			if link, next, ok := ip.tryLink(s, i, depth); ok {
				out = append(out, link)
				i = next
			} else {
				appendText("[")
				i++
			}

		case c == '*' || c == '_':
			node, next, ok := ip.tryEmphasis(s, i, depth)
			if ok {
				out = append(out, node)
				i = next
			} else {
				n := runLength(s, i, c)
				appendText(s[i : i+n])
				i += n
			}

		case c == '~':
			if runLength(s, i, '~') >= 2 {
				node, next, ok := ip.tryEmphasis(s, i, depth)
				if ok {
					out = append(out, node)
					i = next
					break
				}
				n := runLength(s, i, '~')
				appendText(s[i : i+n])
				i += n
			} else {
				appendText("~")
				i++
			}

		case c == ' ' || c == '\t':
			j := i
			for j < len(s) && (s[j] == ' ' || s[j] == '\t') {
				j++
			}
			appendText(s[i:j])
			i = j

		default:
			if isWordStart(s, i) {
				if target, next, ok := tryURL(s, i); ok {
					out = append(out, &mdast.Autolink{Target: target})
					i = next
					break
				}
				if m := emailPattern.FindString(s[i:]); m != "" {
					out = append(out, &mdast.Autolink{Target: m, Email: true})
					i += len(m)
					break
				}
			}
			j := i + 1
			for j < len(s) && !isInlineSpecial(s[j]) {
				j++
			}
			appendText(s[i:j])
			i = j
		}
	}

	trimEmptyText(&out)
	return out
}

// tryEmphasis parses an emphasis span starting at i. The opener must be
// followed by a non-space; the closer is the nearest same-marker delimiter
// preceded by a non-space.
func (ip *inlineParser) tryEmphasis(s string, i int, depth int) (mdast.Inline, int, bool) {
	marker := s[i]
	n := runLength(s, i, marker)

	width := 1
	if n >= 2 {
		width = 2
	}
	if marker == '~' && n < 2 {
		return nil, 0, false
	}
	if marker == '~' {
		width = 2
	}
	delim := s[i : i+width]

	if i+width >= len(s) || isSpaceByte(s[i+width]) {
		return nil, 0, false
	}

	close, ok := findEmphasisClose(s, i+width, delim)
	if !ok {
		ip.diag(CodeUnmatchedDelimiter, "unmatched emphasis delimiter "+strings.Repeat(string(marker), width))
		return nil, 0, false
	}

	var kind mdast.EmphasisKind
	switch {
	case marker == '~':
		kind = mdast.EmphasisStrike
	case width == 2:
		kind = mdast.EmphasisStrong
	default:
		kind = mdast.EmphasisItalic
	}

	children := ip.run(s[i+width:close], depth+1)
	return &mdast.Emphasis{Kind: kind, Children: children}, close + width, true
}

// findEmphasisClose finds the nearest valid closing delimiter, skipping
// escaped characters and code spans.
func findEmphasisClose(s string, from int, delim string) (int, bool) {
	marker := delim[0]
	i := from
	for i < len(s) {
		switch s[i] {
		case '\\':
			i += 2
			continue
		case '`':
			n := runLength(s, i, '`')
			if close, ok := findBacktickClose(s, i+n, n); ok {
				i = close + n
			} else {
				i += n
			}
			continue
		}

		if strings.HasPrefix(s[i:], delim) {
			precededBySpace := i == from || isSpaceByte(s[i-1]) || s[i-1] == '\n'
			if !precededBySpace {
				if len(delim) == 1 {
					partOfRun := s[i-1] == marker || (i+1 < len(s) && s[i+1] == marker)
					if !partOfRun {
						return i, true
					}
				} else {
					return i, true
				}
			}
			i += runLength(s, i, marker)
			continue
		}
		i++
	}
	return 0, false
}

// findBacktickClose finds the next backtick run of exactly n backticks.
func findBacktickClose(s string, from, n int) (int, bool) {
	i := from
	for i < len(s) {
		if s[i] == '`' {
			r := runLength(s, i, '`')
			if r == n {
				return i, true
			}
			i += r
			continue
		}
		i++
	}
	return 0, false
}

// tryLink parses an inline link [text](url "title") starting at i.
// The display text is recursively inline-parsed; the URL is not.
func (ip *inlineParser) tryLink(s string, i int, depth int) (mdast.Inline, int, bool) {
	label, after, ok := matchBrackets(s, i)
	if !ok {
		return nil, 0, false
	}
	dest, title, next, ok := matchDestination(s, after)
	if !ok {
		if after < len(s) && s[after] == '(' {
			ip.diag(CodeMalformedLink, "link destination never closes")
		}
		return nil, 0, false
	}
	return &mdast.Link{
		Children:    ip.run(label, depth+1),
		Destination: dest,
		Title:       title,
	}, next, true
}

// tryImage parses ![alt](url) starting at the '!'.
func (ip *inlineParser) tryImage(s string, i int, depth int) (mdast.Inline, int, bool) {
	label, after, ok := matchBrackets(s, i+1)
	if !ok {
		return nil, 0, false
	}
	dest, _, next, ok := matchDestination(s, after)
	if !ok {
		if after < len(s) && s[after] == '(' {
			ip.diag(CodeMalformedLink, "image destination never closes")
		}
		return nil, 0, false
	}
	alt := mdast.PlainText(ip.run(label, depth+1))
	return &mdast.Image{Alt: alt, Destination: dest}, next, true
}

// matchBrackets matches a bracketed span starting at s[i] == '[', honoring
// escapes and nested brackets. Returns the label and the index just past ']'.
func matchBrackets(s string, i int) (string, int, bool) {
	if i >= len(s) || s[i] != '[' {
		return "", 0, false
	}
	nesting := 1
	j := i + 1
	for j < len(s) {
		switch s[j] {
		case '\\':
			j++
		case '[':
			nesting++
		case ']':
			nesting--
			if nesting == 0 {
				return s[i+1 : j], j + 1, true
			}
		case '\n':
			return "", 0, false
		}
		j++
	}
	return "", 0, false
}

// matchDestination matches (url "title") starting at s[i] == '('.
func matchDestination(s string, i int) (dest, title string, next int, ok bool) {
	if i >= len(s) || s[i] != '(' {
		return "", "", 0, false
	}
	nesting := 1
	j := i + 1
	for j < len(s) {
		switch s[j] {
		case '\\':
			j++
		case '(':
			nesting++
		case ')':
			nesting--
			if nesting == 0 {
				dest, title = splitDestination(s[i+1 : j])
				return dest, title, j + 1, true
			}
		case '\n':
			return "", "", 0, false
		}
		j++
	}
	return "", "", 0, false
}

// splitDestination separates the URL from an optional quoted title.
func splitDestination(inner string) (string, string) {
	inner = strings.TrimSpace(inner)
	sp := strings.IndexAny(inner, " \t")
	if sp < 0 {
		return inner, ""
	}
	dest := inner[:sp]
	rest := strings.TrimSpace(inner[sp:])
	if len(rest) >= 2 && rest[0] == '"' && rest[len(rest)-1] == '"' {
		return dest, rest[1 : len(rest)-1]
	}
	return dest, rest
}

// tryURL consumes a bare http(s) URL starting at i.
func tryURL(s string, i int) (string, int, bool) {
	rest := s[i:]
	if !strings.HasPrefix(rest, "http://") && !strings.HasPrefix(rest, "https://") {
		return "", 0, false
	}

	j := i
	for j < len(s) {
		switch s[j] {
		case ' ', '\t', '\n', '<', '>', '"', '`':
			goto done
		}
		j++
	}
done:
	url := s[i:j]

	// Trailing sentence punctuation does not belong to the URL. A closing
	// paren is kept only when balanced by an open paren inside the URL.
	for len(url) > 0 {
		last := url[len(url)-1]
		if strings.IndexByte(".,;:!?", last) >= 0 {
			url = url[:len(url)-1]
			continue
		}
		if last == ')' && strings.Count(url, ")") > strings.Count(url, "(") {
			url = url[:len(url)-1]
			continue
		}
		break
	}

	if len(url) <= len("https://") {
		return "", 0, false
	}
	return url, i + len(url), true
}

func runLength(s string, i int, c byte) int {
	n := 0
	for i+n < len(s) && s[i+n] == c {
		n++
	}
	return n
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n'
}

func isWordStart(s string, i int) bool {
	if i == 0 {
		return true
	}
	prev := s[i-1]
	return !(prev >= 'a' && prev <= 'z' || prev >= 'A' && prev <= 'Z' || prev >= '0' && prev <= '9')
}

func isInlineSpecial(b byte) bool {
	switch b {
	case '\\', '`', '*', '_', '~', '[', '!', '\n', ' ', '\t':
		return true
	default:
		return false
	}
}

// trimTrailingSpaces removes trailing spaces from the last text node,
// dropping the node if it becomes empty.
func trimTrailingSpaces(out []mdast.Inline) {
	if len(out) == 0 {
		return
	}
	if last, ok := out[len(out)-1].(*mdast.Text); ok {
		last.Literal = strings.TrimRight(last.Literal, " \t")
	}
}

// trimEmptyText drops empty text nodes left by trimming.
func trimEmptyText(out *[]mdast.Inline) {
	seq := *out
	kept := seq[:0]
	for _, in := range seq {
		if t, ok := in.(*mdast.Text); ok && t.Literal == "" {
			continue
		}
		kept = append(kept, in)
	}
	*out = kept
}
