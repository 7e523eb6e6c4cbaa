// Package parser implements the markwire parsing pipeline: a total
// tokenizer, a recursive-descent block parser, and an inline span parser.
//
// Parsing never fails on user input. Malformed constructs degrade to
// literal text and are reported as non-fatal diagnostics. Each call to
// Parse allocates fresh state, so concurrent calls are safe.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/markwire/pkg/langdetect"
	"github.com/yaklabco/markwire/pkg/mdast"
)

// maxNestingDepth bounds block recursion (lists in quotes in lists) so
// adversarial input cannot exhaust the stack. Past the limit the nested
// content degrades to a plain paragraph with a diagnostic.
const maxNestingDepth = 64

// Options controls block and inline parsing behavior.
type Options struct {
	// PreserveLeadingSpaces keeps a paragraph's leading and trailing
	// whitespace instead of trimming it.
	PreserveLeadingSpaces bool

	// PreserveSoftLineBreaks keeps internal newlines inside a paragraph as
	// soft LineBreak nodes instead of collapsing them to spaces.
	PreserveSoftLineBreaks bool

	// IndentedCodeBlocks enables recognition of 4-space-indented code
	// blocks. Off by default: indented text parses as a paragraph.
	IndentedCodeBlocks bool
}

// Parse parses content into a document plus non-fatal diagnostics.
// It is total: every input produces a document.
func Parse(content []byte, opts Options) (*mdast.Document, []Diagnostic) {
	tokens, diags := scanTokens(content)
	p := &blockParser{
		src:   content,
		toks:  tokens,
		opts:  opts,
		diags: diags,
	}
	doc := &mdast.Document{Blocks: p.parseBlocks()}
	return doc, p.diags
}

type blockParser struct {
	src   []byte
	toks  []mdast.Token
	pos   int
	opts  Options
	diags []Diagnostic
	depth int
}

func (p *blockParser) eof() bool {
	return p.pos >= len(p.toks)
}

// isLineStart reports whether every token between the previous newline and
// index i is whitespace. This is the logical line-start test: both the
// top-level loop and every nested sub-parse rely on it, never on raw token
// position, so same-indent list markers always group as siblings.
func (p *blockParser) isLineStart(i int) bool {
	for j := i - 1; j >= 0; j-- {
		switch p.toks[j].Kind {
		case mdast.TokNewline:
			return true
		case mdast.TokWhitespace:
			continue
		default:
			return false
		}
	}
	return true
}

// lineHead returns the index of the first non-whitespace token on the
// current line and the indentation width before it. p.pos must be at a
// line boundary.
func (p *blockParser) lineHead() (int, int) {
	i := p.pos
	indent := 0
	for i < len(p.toks) && p.toks[i].Kind == mdast.TokWhitespace && p.isLineStart(i) {
		indent += indentWidth(p.toks[i].Text(p.src))
		i++
	}
	return i, indent
}

// indentWidth measures whitespace in columns, counting tabs as 4.
func indentWidth(ws []byte) int {
	w := 0
	for _, b := range ws {
		if b == '\t' {
			w += 4
		} else {
			w++
		}
	}
	return w
}

// blankLineEnd returns the index just past the newline if the line starting
// at token i is blank (whitespace only).
func (p *blockParser) blankLineEnd(i int) (int, bool) {
	for i < len(p.toks) {
		switch p.toks[i].Kind {
		case mdast.TokWhitespace:
			i++
		case mdast.TokNewline:
			return i + 1, true
		default:
			return 0, false
		}
	}
	// Trailing whitespace at end of input counts as a blank line.
	return i, true
}

func (p *blockParser) skipBlankLines() {
	for !p.eof() {
		end, blank := p.blankLineEnd(p.pos)
		if !blank || end == p.pos {
			return
		}
		p.pos = end
	}
}

// isBlockStartKind reports whether a token kind opens a block when it
// appears at a logical line start.
func isBlockStartKind(kind mdast.TokenKind) bool {
	switch kind {
	case mdast.TokHeadingMarker, mdast.TokListBullet, mdast.TokListNumber,
		mdast.TokBlockquoteMarker, mdast.TokCodeFence, mdast.TokThematicBreak:
		return true
	default:
		return false
	}
}

// isBlockStartAt applies the shared line-start predicate to token i.
func (p *blockParser) isBlockStartAt(i int) bool {
	if i >= len(p.toks) {
		return false
	}
	return isBlockStartKind(p.toks[i].Kind) && p.isLineStart(i)
}

func (p *blockParser) parseBlocks() []mdast.Block {
	var blocks []mdast.Block
	for !p.eof() {
		before := p.pos
		p.skipBlankLines()
		if p.eof() {
			break
		}
		if b := p.parseBlock(); b != nil {
			blocks = append(blocks, b)
		}
		if p.pos == before {
			// Guard against a stuck position; consume one token as text.
			p.pos++
		}
	}
	return blocks
}

func (p *blockParser) parseBlock() mdast.Block {
	head, indent := p.lineHead()
	if head >= len(p.toks) {
		p.pos = head
		return nil
	}

	switch p.toks[head].Kind {
	case mdast.TokHeadingMarker:
		return p.parseHeading(head)
	case mdast.TokThematicBreak:
		p.pos = head + 1
		p.consumeNewlineToken()
		return &mdast.ThematicBreak{}
	case mdast.TokBlockquoteMarker:
		return p.parseBlockQuote()
	case mdast.TokListBullet, mdast.TokListNumber:
		return p.parseList(head, indent)
	case mdast.TokCodeFence:
		return p.parseFencedCode(head)
	default:
		if p.opts.IndentedCodeBlocks && indent >= 4 {
			return p.parseIndentedCode()
		}
		return p.parseParagraph()
	}
}

func (p *blockParser) consumeNewlineToken() {
	if !p.eof() && p.toks[p.pos].Kind == mdast.TokNewline {
		p.pos++
	}
}

// restOfLineText returns the raw source from the current token to the end
// of the line and consumes through the newline.
func (p *blockParser) restOfLineText() string {
	if p.eof() {
		return ""
	}
	start := p.toks[p.pos].StartOffset
	end := start
	for !p.eof() && p.toks[p.pos].Kind != mdast.TokNewline {
		end = p.toks[p.pos].EndOffset
		p.pos++
	}
	p.consumeNewlineToken()
	return string(p.src[start:end])
}

// lineTextStripped returns the current line with up to cols leading columns
// of whitespace removed and consumes through the newline.
func (p *blockParser) lineTextStripped(cols int) string {
	if p.eof() {
		return ""
	}
	lineStart := p.toks[p.pos].StartOffset
	end := lineStart
	for !p.eof() && p.toks[p.pos].Kind != mdast.TokNewline {
		end = p.toks[p.pos].EndOffset
		p.pos++
	}
	p.consumeNewlineToken()

	line := p.src[lineStart:end]
	i, w := 0, 0
	for i < len(line) && w < cols {
		switch line[i] {
		case ' ':
			w++
		case '\t':
			w += 4
		default:
			return string(line[i:])
		}
		i++
	}
	return string(line[i:])
}

func (p *blockParser) parseHeading(head int) mdast.Block {
	marker := p.toks[head]
	level := marker.Len()
	p.pos = head + 1
	text := strings.TrimSpace(p.restOfLineText())
	text = trimClosingHashes(text)
	children := parseInlines(text, p.opts, &p.diags, marker.Line, marker.Column)
	return &mdast.Heading{Level: level, Children: children}
}

// trimClosingHashes removes an ATX closing sequence (" ###") if present.
func trimClosingHashes(text string) string {
	trimmed := strings.TrimRight(text, "#")
	if trimmed != text && strings.HasSuffix(trimmed, " ") {
		return strings.TrimRight(trimmed, " ")
	}
	return text
}

func (p *blockParser) parseBlockQuote() mdast.Block {
	var inner strings.Builder
	baseLine := 0

	for !p.eof() {
		save := p.pos
		head, indent := p.lineHead()
		if head >= len(p.toks) || indent > 3 || p.toks[head].Kind != mdast.TokBlockquoteMarker {
			p.pos = save
			break
		}
		if baseLine == 0 {
			baseLine = p.toks[head].Line
		}
		// Skip the marker and its optional single space.
		p.pos = head + 1
		if !p.eof() && p.toks[p.pos].Kind == mdast.TokWhitespace &&
			p.toks[p.pos].StartOffset == p.toks[head].EndOffset && p.toks[p.pos].Len() == 1 {
			p.pos++
		}
		inner.WriteString(p.restOfLineText())
		inner.WriteByte('\n')
	}

	return &mdast.BlockQuote{Blocks: p.parseNested(inner.String(), baseLine)}
}

func (p *blockParser) parseList(head, indent int) mdast.Block {
	markerKind := p.toks[head].Kind
	list := &mdast.List{Ordered: markerKind == mdast.TokListNumber}
	if list.Ordered {
		list.Start = orderedStart(p.toks[head].Text(p.src))
	}

	for !p.eof() {
		save := p.pos
		p.skipBlankLines()
		itemHead, itemIndent := p.lineHead()
		if itemHead >= len(p.toks) || p.toks[itemHead].Kind != markerKind || itemIndent != indent {
			p.pos = save
			break
		}
		list.Items = append(list.Items, p.parseListItem(itemHead, indent))
	}

	return list
}

// orderedStart extracts the leading number of an ordered list marker.
func orderedStart(marker []byte) int {
	digits := marker[:len(marker)-1]
	n, err := strconv.Atoi(string(digits))
	if err != nil || n < 0 {
		return 1
	}
	return n
}

// parseListItem collects the item's first line plus all continuation lines
// (indented past the marker), strips the item's content indentation, and
// recursively parses what remains. Nested markers at greater indentation
// become nested lists through that recursive parse, which applies the same
// block-start predicate as the top level.
func (p *blockParser) parseListItem(head, indent int) *mdast.ListItem {
	marker := p.toks[head]
	contentIndent := indent + marker.Len() + 1

	p.pos = head + 1
	if !p.eof() && p.toks[p.pos].Kind == mdast.TokWhitespace &&
		p.toks[p.pos].StartOffset == marker.EndOffset && p.toks[p.pos].Len() == 1 {
		p.pos++
	}

	lines := []string{p.restOfLineText()}

	for !p.eof() {
		save := p.pos
		if end, blank := p.blankLineEnd(p.pos); blank {
			p.pos = end
			// A blank line stays inside the item only when followed by
			// further continuation content.
			if cont, ok := p.continuationFollows(indent); ok && cont {
				lines = append(lines, "")
				continue
			}
			p.pos = save
			break
		}
		_, lineIndent := p.lineHead()
		if lineIndent <= indent {
			p.pos = save
			break
		}
		lines = append(lines, p.lineTextStripped(min(contentIndent, lineIndent)))
	}

	blocks := p.parseNested(strings.Join(lines, "\n")+"\n", marker.Line)
	return &mdast.ListItem{Blocks: blocks}
}

// continuationFollows reports whether the next non-blank line is indented
// past the given indent. The second return is false at end of input.
func (p *blockParser) continuationFollows(indent int) (bool, bool) {
	i := p.pos
	for i < len(p.toks) {
		save := i
		if end, blank := p.blankAtIndex(i); blank {
			i = end
			if end == save {
				return false, false
			}
			continue
		}
		head, w := p.lineHeadAt(i)
		if head >= len(p.toks) {
			return false, false
		}
		return w > indent, true
	}
	return false, false
}

func (p *blockParser) blankAtIndex(i int) (int, bool) {
	for i < len(p.toks) {
		switch p.toks[i].Kind {
		case mdast.TokWhitespace:
			i++
		case mdast.TokNewline:
			return i + 1, true
		default:
			return 0, false
		}
	}
	return i, true
}

func (p *blockParser) lineHeadAt(i int) (int, int) {
	indent := 0
	for i < len(p.toks) && p.toks[i].Kind == mdast.TokWhitespace {
		indent += indentWidth(p.toks[i].Text(p.src))
		i++
	}
	return i, indent
}

func (p *blockParser) parseFencedCode(head int) mdast.Block {
	fence := p.toks[head]
	p.pos = head + 1

	info := ""
	if !p.eof() && p.toks[p.pos].Kind == mdast.TokCodeFenceInfo {
		info = string(p.toks[p.pos].Text(p.src))
		p.pos++
	}

	// Malformed open fence closed on its own line: the info text becomes
	// the literal content (the tokenizer already recorded the diagnostic).
	if !p.eof() && p.toks[p.pos].Kind == mdast.TokCodeFence {
		p.pos++
		p.consumeNewlineToken()
		return &mdast.CodeBlock{Kind: mdast.FencedCode, Literal: strings.TrimSpace(info)}
	}

	p.consumeNewlineToken()

	var literal strings.Builder
body:
	for !p.eof() {
		tok := p.toks[p.pos]
		switch tok.Kind {
		case mdast.TokCodeLine:
			literal.Write(tok.Text(p.src))
			p.pos++
		case mdast.TokNewline:
			literal.WriteByte('\n')
			p.pos++
		case mdast.TokWhitespace:
			// Indentation before the closing fence.
			p.pos++
		case mdast.TokCodeFence:
			p.pos++
			p.consumeTrailingFenceLine()
			break body
		default:
			// Unterminated fence: the next block begins here.
			break body
		}
	}

	lang := fenceLanguage(info)
	if lang != "" {
		if _, known := langdetect.KnownAlias(lang); !known {
			p.diags = append(p.diags, Diagnostic{
				Code:    CodeUnknownLanguage,
				Message: fmt.Sprintf("unknown code block language %q", lang),
				Line:    fence.Line,
				Column:  fence.Column,
			})
		}
	}

	return &mdast.CodeBlock{
		Kind:     mdast.FencedCode,
		Language: lang,
		Literal:  strings.TrimSuffix(literal.String(), "\n"),
	}
}

func (p *blockParser) consumeTrailingFenceLine() {
	for !p.eof() && p.toks[p.pos].Kind == mdast.TokWhitespace {
		p.pos++
	}
	p.consumeNewlineToken()
}

// fenceLanguage extracts the language tag: the first field of the info string.
func fenceLanguage(info string) string {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func (p *blockParser) parseIndentedCode() mdast.Block {
	var lines []string
	for !p.eof() {
		save := p.pos
		if end, blank := p.blankLineEnd(p.pos); blank {
			p.pos = end
			if cont, ok := p.continuationFollows(3); ok && cont {
				lines = append(lines, "")
				continue
			}
			p.pos = save
			break
		}
		_, indent := p.lineHead()
		if indent < 4 {
			p.pos = save
			break
		}
		lines = append(lines, p.lineTextStripped(4))
	}
	return &mdast.CodeBlock{Kind: mdast.IndentedCode, Literal: strings.Join(lines, "\n")}
}

func (p *blockParser) parseParagraph() mdast.Block {
	startTok := p.toks[p.pos]
	var lines []string
	var hard []bool

	for !p.eof() {
		if _, blank := p.blankLineEnd(p.pos); blank {
			break
		}
		head, _ := p.lineHead()
		if len(lines) > 0 && p.isBlockStartAt(head) {
			break
		}
		raw := p.restOfLineText()
		hard = append(hard, strings.HasSuffix(raw, "  "))
		if !p.opts.PreserveLeadingSpaces {
			raw = strings.TrimSpace(raw)
		}
		lines = append(lines, raw)
	}

	var text strings.Builder
	for i, line := range lines {
		text.WriteString(line)
		if i < len(lines)-1 {
			if hard[i] && !p.opts.PreserveLeadingSpaces {
				// Keep the hard-break marker the trim removed.
				text.WriteString("  ")
			}
			text.WriteByte('\n')
		}
	}

	children := parseInlines(text.String(), p.opts, &p.diags, startTok.Line, startTok.Column)
	return &mdast.Paragraph{Children: children}
}

// parseNested re-parses extracted nested content (quote bodies, list item
// content) with the same options and block-start predicate, bounded by the
// nesting depth guard. Diagnostics from the nested parse are re-based onto
// this parser's line numbering.
func (p *blockParser) parseNested(text string, baseLine int) []mdast.Block {
	trimmed := strings.TrimRight(text, "\n")
	if trimmed == "" {
		return nil
	}

	if p.depth+1 >= maxNestingDepth {
		p.diags = append(p.diags, Diagnostic{
			Code:    CodeNestingTooDeep,
			Message: fmt.Sprintf("block nesting exceeds %d levels; content degraded to text", maxNestingDepth),
			Line:    baseLine,
			Column:  1,
		})
		return []mdast.Block{&mdast.Paragraph{
			Children: []mdast.Inline{&mdast.Text{Literal: strings.TrimSpace(text)}},
		}}
	}

	content := []byte(text)
	tokens, diags := scanTokens(content)
	sub := &blockParser{
		src:   content,
		toks:  tokens,
		opts:  p.opts,
		diags: diags,
		depth: p.depth + 1,
	}
	blocks := sub.parseBlocks()

	for _, d := range sub.diags {
		d.Line += baseLine - 1
		p.diags = append(p.diags, d)
	}
	return blocks
}
