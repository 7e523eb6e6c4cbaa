package render

import (
	"strconv"
	"strings"

	"github.com/yaklabco/markwire/pkg/mdast"
)

// Canonical re-serializes the document back into the markup dialect it was
// parsed from. Its output re-parses to the same tree, which makes it the
// round-trip/idempotence backend and the normalizer: indented code blocks
// come back fenced, ordered items are renumbered from the list start, and
// emphasis markers are normalized to * and ~~.
func Canonical(doc *mdast.Document, opts Options) string {
	if len(doc.Blocks) == 0 {
		return ""
	}
	parts := make([]string, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		parts = append(parts, canonicalBlock(b, opts))
	}
	return strings.Join(parts, "\n\n") + "\n"
}

func canonicalBlocks(blocks []mdast.Block, opts Options) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, canonicalBlock(b, opts))
	}
	return strings.Join(parts, "\n\n")
}

func canonicalBlock(b mdast.Block, opts Options) string {
	switch t := b.(type) {
	case *mdast.Paragraph:
		return escapeLineStarts(canonicalInlines(t.Children))

	case *mdast.Heading:
		return strings.Repeat("#", t.Level) + " " + canonicalInlines(t.Children)

	case *mdast.CodeBlock:
		return canonicalFence(t)

	case *mdast.BlockQuote:
		return prefixLines(canonicalBlocks(t.Blocks, opts), "> ", ">")

	case *mdast.List:
		return canonicalList(t, opts)

	case *mdast.ListItem:
		return canonicalBlocks(t.Blocks, opts)

	case *mdast.ThematicBreak:
		return "---"

	default:
		unhandledNode("canonical", b)
		return ""
	}
}

// canonicalFence serializes code content behind a fence long enough that
// backtick runs inside the literal cannot close it. Indented code blocks
// are re-serialized fenced so the output re-parses identically under
// default options.
func canonicalFence(t *mdast.CodeBlock) string {
	fenceLen := 3
	if run := longestRun(t.Literal, '`'); run >= fenceLen {
		fenceLen = run + 1
	}
	fence := strings.Repeat("`", fenceLen)

	var sb strings.Builder
	sb.WriteString(fence)
	if t.Kind == mdast.FencedCode {
		sb.WriteString(t.Language)
	}
	sb.WriteByte('\n')
	if t.Literal != "" {
		sb.WriteString(t.Literal)
		sb.WriteByte('\n')
	}
	sb.WriteString(fence)
	return sb.String()
}

func canonicalList(t *mdast.List, opts Options) string {
	var lines []string
	for i, item := range t.Items {
		marker := "- "
		if t.Ordered {
			marker = strconv.Itoa(t.Start+i) + ". "
		}
		content := canonicalBlocks(item.Blocks, opts)
		pad := strings.Repeat(" ", len(marker))
		for j, line := range strings.Split(content, "\n") {
			switch {
			case j == 0:
				lines = append(lines, marker+line)
			case line == "":
				lines = append(lines, "")
			default:
				lines = append(lines, pad+line)
			}
		}
	}
	return strings.Join(lines, "\n")
}

// inlineTail records how a serialized inline run ends: the final raw byte,
// and the delimiter marker when that byte is a live (unescaped) delimiter.
// Delimiter choice for the next emphasis span depends on both, because the
// parser rejects emphasis closers that touch a same-marker run.
type inlineTail struct {
	raw  byte
	live byte
}

func canonicalInlines(inlines []mdast.Inline) string {
	s, _ := canonicalInlineSeq(inlines)
	return s
}

func canonicalInlineSeq(inlines []mdast.Inline) (string, inlineTail) {
	var sb strings.Builder
	var prev inlineTail
	for _, in := range inlines {
		part, tail := canonicalInline(in, prev)
		sb.WriteString(part)
		if part != "" {
			prev = tail
		}
	}
	return sb.String(), prev
}

func canonicalInline(in mdast.Inline, prev inlineTail) (string, inlineTail) {
	switch t := in.(type) {
	case *mdast.Text:
		s := escapeCanonicalText(t.Literal)
		return s, inlineTail{raw: lastByte(s)}

	case *mdast.Emphasis:
		return canonicalEmphasis(t, prev)

	case *mdast.CodeSpan:
		return canonicalCodeSpan(t.Literal), inlineTail{raw: '`'}

	case *mdast.Link:
		dest := t.Destination
		if t.Title != "" {
			dest += " \"" + t.Title + "\""
		}
		return "[" + canonicalInlines(t.Children) + "](" + dest + ")", inlineTail{raw: ')'}

	case *mdast.Image:
		return "![" + escapeCanonicalText(t.Alt) + "](" + t.Destination + ")", inlineTail{raw: ')'}

	case *mdast.Autolink:
		last := lastByte(t.Target)
		tail := inlineTail{raw: last}
		if last == '*' || last == '_' || last == '~' {
			tail.live = last
		}
		return t.Target, tail

	case *mdast.LineBreak:
		if t.Hard {
			return "  \n", inlineTail{raw: '\n'}
		}
		return "\n", inlineTail{raw: '\n'}

	default:
		unhandledNode("canonical", in)
		return "", inlineTail{}
	}
}

// canonicalEmphasis picks a delimiter that cannot merge into an adjacent
// run. Strong spans switch from ** to __ when the content ends in a live
// star or the previous span closed with one; italic switches between * and
// _ under the stricter single-marker rules (a closer next to any same raw
// byte, escaped or not, is rejected as part of a run). Without the switch,
// __*mixed*__ would serialize to ***mixed*** and re-parse differently.
func canonicalEmphasis(t *mdast.Emphasis, prev inlineTail) (string, inlineTail) {
	inner, innerTail := canonicalInlineSeq(t.Children)

	var delim string
	switch t.Kind {
	case mdast.EmphasisStrong:
		delim = "**"
		if innerTail.live == '*' || prev.live == '*' {
			delim = "__"
		}

	case mdast.EmphasisItalic:
		safe := func(m byte) bool {
			return firstByte(inner) != m && innerTail.raw != m && prev.live != m
		}
		switch {
		case safe('*'):
			delim = "*"
		case safe('_'):
			delim = "_"
		default:
			delim = "*"
		}

	case mdast.EmphasisStrike:
		delim = "~~"

	default:
		unhandledNode("canonical", t.Kind)
	}

	return delim + inner + delim, inlineTail{raw: delim[len(delim)-1], live: delim[0]}
}

func firstByte(s string) byte {
	if s == "" {
		return 0
	}
	return s[0]
}

func lastByte(s string) byte {
	if s == "" {
		return 0
	}
	return s[len(s)-1]
}

// canonicalCodeSpan picks a backtick delimiter longer than any run inside
// the literal, padding with spaces when the content itself starts or ends
// with a backtick.
func canonicalCodeSpan(literal string) string {
	delim := strings.Repeat("`", longestRun(literal, '`')+1)
	if strings.HasPrefix(literal, "`") || strings.HasSuffix(literal, "`") {
		literal = " " + literal + " "
	}
	return delim + literal + delim
}

// escapeCanonicalText backslash-escapes characters that would otherwise be
// re-parsed as inline markup.
func escapeCanonicalText(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', '`', '*', '_', '~', '[', ']':
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// escapeLineStarts neutralizes block-start patterns at the beginning of
// paragraph lines so the serialized text re-parses as the same paragraph.
func escapeLineStarts(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if startsBlockConstruct(line) {
			lines[i] = "\\" + line
		}
	}
	return strings.Join(lines, "\n")
}

func startsBlockConstruct(line string) bool {
	trimmed := strings.TrimLeft(line, " ")
	if trimmed == "" {
		return false
	}
	switch trimmed[0] {
	case '#':
		n := 0
		for n < len(trimmed) && trimmed[n] == '#' {
			n++
		}
		return n <= 6 && (n == len(trimmed) || trimmed[n] == ' ')
	case '>':
		return true
	case '-', '+':
		return len(trimmed) > 1 && trimmed[1] == ' ' || isRuleLine(trimmed)
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		n := 0
		for n < len(trimmed) && trimmed[n] >= '0' && trimmed[n] <= '9' {
			n++
		}
		return n < len(trimmed)-1 && (trimmed[n] == '.' || trimmed[n] == ')') && trimmed[n+1] == ' '
	}
	return isRuleLine(trimmed)
}

func isRuleLine(line string) bool {
	marker := byte(0)
	count := 0
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == ' ' || c == '\t' {
			continue
		}
		if c != '-' && c != '*' && c != '_' {
			return false
		}
		if marker == 0 {
			marker = c
		}
		if c != marker {
			return false
		}
		count++
	}
	return count >= 3
}

func longestRun(s string, c byte) int {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}

func prefixLines(text, prefix, blankPrefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = blankPrefix
		} else {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
