package render

import (
	"strconv"
	"strings"

	"github.com/yaklabco/markwire/pkg/mdast"
)

// escapedReserved is the full reserved set of the strict chat dialect.
// Every occurrence in regular text must be backslash-escaped; inside code
// spans and fences only backtick and backslash are reserved, inside link
// destinations only the closing paren and backslash.
const escapedReserved = "_*[]()~`>#+-=|{}.!"

// Escaped renders the document in the strict chat dialect: every reserved
// character outside a markup span is backslash-escaped, emphasis uses
// single-character delimiters, and block structure is flattened to what
// the dialect can express (headings become bold lines, thematic breaks
// become escaped dashes).
func Escaped(doc *mdast.Document, opts Options) string {
	parts := make([]string, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		parts = append(parts, escapedBlock(b, 0, opts))
	}
	return strings.Join(parts, "\n\n")
}

func escapedBlock(b mdast.Block, depth int, opts Options) string {
	switch t := b.(type) {
	case *mdast.Paragraph:
		return escapedInlines(t.Children)

	case *mdast.Heading:
		return "*" + escapedInlines(t.Children) + "*"

	case *mdast.CodeBlock:
		var sb strings.Builder
		sb.WriteString("```")
		sb.WriteString(t.Language)
		sb.WriteByte('\n')
		sb.WriteString(escapeInCode(t.Literal))
		sb.WriteString("\n```")
		return sb.String()

	case *mdast.BlockQuote:
		inner := make([]string, 0, len(t.Blocks))
		for _, inb := range t.Blocks {
			inner = append(inner, escapedBlock(inb, depth, opts))
		}
		return prefixLines(strings.Join(inner, "\n"), ">", ">")

	case *mdast.List:
		return escapedList(t, depth, opts)

	case *mdast.ListItem:
		inner := make([]string, 0, len(t.Blocks))
		for _, inb := range t.Blocks {
			inner = append(inner, escapedBlock(inb, depth, opts))
		}
		return strings.Join(inner, "\n")

	case *mdast.ThematicBreak:
		return `\-\-\-`

	default:
		unhandledNode("escaped", b)
		return ""
	}
}

func escapedList(t *mdast.List, depth int, opts Options) string {
	indent := strings.Repeat(" ", depth*opts.listIndent())
	var lines []string
	for i, item := range t.Items {
		marker := `\- `
		if t.Ordered {
			marker = strconv.Itoa(t.Start+i) + `\. `
		}
		content := escapedItemContent(item, depth, opts)
		for j, line := range strings.Split(content, "\n") {
			switch {
			case j == 0:
				lines = append(lines, indent+marker+line)
			case line == "":
				lines = append(lines, "")
			case strings.HasPrefix(line, " "):
				// nested list lines carry their own absolute indent
				lines = append(lines, line)
			default:
				lines = append(lines, indent+strings.Repeat(" ", 2)+line)
			}
		}
	}
	return strings.Join(lines, "\n")
}

func escapedItemContent(item *mdast.ListItem, depth int, opts Options) string {
	parts := make([]string, 0, len(item.Blocks))
	for _, b := range item.Blocks {
		if _, nested := b.(*mdast.List); nested {
			parts = append(parts, escapedBlock(b, depth+1, opts))
		} else {
			parts = append(parts, escapedBlock(b, depth, opts))
		}
	}
	return strings.Join(parts, "\n")
}

func escapedInlines(inlines []mdast.Inline) string {
	var sb strings.Builder
	for _, in := range inlines {
		sb.WriteString(escapedInline(in))
	}
	return sb.String()
}

func escapedInline(in mdast.Inline) string {
	switch t := in.(type) {
	case *mdast.Text:
		return escapeInText(t.Literal)

	case *mdast.Emphasis:
		inner := escapedInlines(t.Children)
		switch t.Kind {
		case mdast.EmphasisStrong:
			return "*" + inner + "*"
		case mdast.EmphasisItalic:
			return "_" + inner + "_"
		case mdast.EmphasisStrike:
			return "~" + inner + "~"
		default:
			unhandledNode("escaped", t.Kind)
			return ""
		}

	case *mdast.CodeSpan:
		return "`" + escapeInCode(t.Literal) + "`"

	case *mdast.Link:
		return "[" + escapedInlines(t.Children) + "](" + escapeInURL(t.Destination) + ")"

	case *mdast.Image:
		return "[" + escapeInText(t.Alt) + "](" + escapeInURL(t.Destination) + ")"

	case *mdast.Autolink:
		target := t.Target
		if t.Email {
			target = "mailto:" + target
		}
		return "[" + escapeInText(t.Target) + "](" + escapeInURL(target) + ")"

	case *mdast.LineBreak:
		return "\n"

	default:
		unhandledNode("escaped", in)
		return ""
	}
}

// escapeInText escapes every reserved character for the general text
// context.
func escapeInText(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + len(s)/4)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' || strings.IndexByte(escapedReserved, c) >= 0 {
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// escapeInCode escapes the code-context reserved set: backtick and
// backslash only.
func escapeInCode(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' || c == '`' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// escapeInURL escapes the destination-context reserved set: closing paren
// and backslash only.
func escapeInURL(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' || c == ')' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
