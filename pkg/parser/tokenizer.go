package parser

import (
	"fmt"

	"github.com/yaklabco/markwire/pkg/mdast"
)

// tokenizer performs a single-pass tokenization of markup content.
// It produces a contiguous, non-overlapping token stream covering
// [0, len(content)). Tokenization is total: no input fails.
type tokenizer struct {
	content []byte
	tokens  []mdast.Token
	pos     int
	diags   []Diagnostic
}

// Tokenize tokenizes the given content. The returned tokens are contiguous,
// non-overlapping, and cover [0, len(content)).
func Tokenize(content []byte) []mdast.Token {
	tokens, _ := scanTokens(content)
	return tokens
}

// scanTokens tokenizes content and reports recoverable anomalies found at
// the lexical level (unterminated or malformed fences).
func scanTokens(content []byte) ([]mdast.Token, []Diagnostic) {
	if len(content) == 0 {
		return nil, nil
	}

	const initialCapacityDivisor = 4
	t := &tokenizer{
		content: content,
		tokens:  make([]mdast.Token, 0, len(content)/initialCapacityDivisor+1),
	}

	for t.pos < len(t.content) {
		t.tokenizeLine()
	}

	t.fillPositions()

	return t.tokens, t.diags
}

// fillPositions assigns 1-based line/column positions to every token.
func (t *tokenizer) fillPositions() {
	index := mdast.BuildLineIndex(t.content)
	for i := range t.tokens {
		t.tokens[i].Line, t.tokens[i].Column = index.At(t.tokens[i].StartOffset)
	}
}

// tokenizeLine tokenizes a single line, handling line-start constructs first.
func (t *tokenizer) tokenizeLine() {
	t.consumeIndentation()

	if t.pos < len(t.content) {
		switch t.content[t.pos] {
		case '#':
			if t.tryHeadingMarker() {
				t.tokenizeInlineContent()
				return
			}
		case '>':
			t.emitBlockquoteMarker()
			t.tokenizeInlineContent()
			return
		case '-', '+', '*':
			if t.isThematicBreak(t.content[t.pos]) {
				t.consumeThematicBreak()
				return
			}
			if t.tryListBullet() {
				t.tokenizeInlineContent()
				return
			}
		case '_':
			if t.isThematicBreak('_') {
				t.consumeThematicBreak()
				return
			}
		case '~', '`':
			if t.tryCodeFence() {
				return
			}
		}

		if isDigit(t.content[t.pos]) {
			if t.tryOrderedListMarker() {
				t.tokenizeInlineContent()
				return
			}
		}
	}

	t.tokenizeInlineContent()
}

// consumeIndentation consumes leading whitespace and emits it as TokWhitespace.
func (t *tokenizer) consumeIndentation() {
	start := t.pos
	for t.pos < len(t.content) && (t.content[t.pos] == ' ' || t.content[t.pos] == '\t') {
		t.pos++
	}
	if t.pos > start {
		t.emit(mdast.TokWhitespace, start, t.pos)
	}
}

// tryHeadingMarker attempts to parse an ATX heading marker (# through ######).
func (t *tokenizer) tryHeadingMarker() bool {
	start := t.pos
	count := 0

	for t.pos < len(t.content) && t.content[t.pos] == '#' && count < 7 {
		t.pos++
		count++
	}

	// 1-6 '#' characters followed by space, tab, or end of line.
	if count >= 1 && count <= 6 {
		if t.pos >= len(t.content) || t.content[t.pos] == ' ' || t.content[t.pos] == '\t' ||
			t.content[t.pos] == '\n' || t.content[t.pos] == '\r' {
			t.emit(mdast.TokHeadingMarker, start, t.pos)
			if t.pos < len(t.content) && (t.content[t.pos] == ' ' || t.content[t.pos] == '\t') {
				wsStart := t.pos
				t.pos++
				t.emit(mdast.TokWhitespace, wsStart, t.pos)
			}
			return true
		}
	}

	t.pos = start
	return false
}

// emitBlockquoteMarker emits a blockquote marker (>) plus its optional space.
func (t *tokenizer) emitBlockquoteMarker() {
	start := t.pos
	t.pos++
	t.emit(mdast.TokBlockquoteMarker, start, t.pos)

	if t.pos < len(t.content) && t.content[t.pos] == ' ' {
		wsStart := t.pos
		t.pos++
		t.emit(mdast.TokWhitespace, wsStart, t.pos)
	}
}

// tryListBullet attempts to parse a bullet list marker (-, +, * plus space).
func (t *tokenizer) tryListBullet() bool {
	start := t.pos
	t.pos++
	if t.pos < len(t.content) && (t.content[t.pos] == ' ' || t.content[t.pos] == '\t') {
		t.emit(mdast.TokListBullet, start, t.pos)
		wsStart := t.pos
		t.pos++
		t.emit(mdast.TokWhitespace, wsStart, t.pos)
		return true
	}

	t.pos = start
	return false
}

// tryOrderedListMarker attempts to parse an ordered list marker (1., 2), etc.).
func (t *tokenizer) tryOrderedListMarker() bool {
	start := t.pos

	for t.pos < len(t.content) && isDigit(t.content[t.pos]) {
		t.pos++
	}
	if t.pos == start {
		return false
	}

	if t.pos >= len(t.content) || (t.content[t.pos] != '.' && t.content[t.pos] != ')') {
		t.pos = start
		return false
	}
	t.pos++

	if t.pos >= len(t.content) || (t.content[t.pos] != ' ' && t.content[t.pos] != '\t') {
		t.pos = start
		return false
	}

	t.emit(mdast.TokListNumber, start, t.pos)

	wsStart := t.pos
	t.pos++
	t.emit(mdast.TokWhitespace, wsStart, t.pos)

	return true
}

// isThematicBreak checks if the current line is a thematic break made of the
// given marker: at least 3 of the same character with optional spaces.
func (t *tokenizer) isThematicBreak(marker byte) bool {
	return isThematicBreakAt(t.content, t.pos, marker)
}

func isThematicBreakAt(content []byte, pos int, marker byte) bool {
	count := 0
	for pos < len(content) && content[pos] != '\n' && content[pos] != '\r' {
		ch := content[pos]
		switch {
		case ch == marker:
			count++
		case ch != ' ' && ch != '\t':
			return false
		}
		pos++
	}
	return count >= 3
}

// consumeThematicBreak consumes a thematic break line.
func (t *tokenizer) consumeThematicBreak() {
	start := t.pos
	for t.pos < len(t.content) && t.content[t.pos] != '\n' && t.content[t.pos] != '\r' {
		t.pos++
	}
	t.emit(mdast.TokThematicBreak, start, t.pos)
	t.consumeNewline()
}

// tryCodeFence attempts to parse a fenced code block.
//
// If the info string itself embeds a closing fence run (malformed author
// input, e.g. "```go```"), the fence closes on its own line: the text before
// the embedded run becomes the literal content and a diagnostic is recorded.
//
// Otherwise the body is consumed up to a matching close fence found by
// lookahead. Header/list/quote markers inside an open fence are never
// treated as block starts. When no close exists, consumption degrades:
// it stops at the next fence-looking or thematic-break line (or end of
// input), with a diagnostic, rather than swallowing the whole document.
func (t *tokenizer) tryCodeFence() bool {
	start := t.pos
	fenceChar := t.content[t.pos]
	count := 0

	for t.pos < len(t.content) && t.content[t.pos] == fenceChar {
		t.pos++
		count++
	}

	if count < 3 {
		t.pos = start
		return false
	}

	t.emit(mdast.TokCodeFence, start, t.pos)

	// Info string: rest of the opening line.
	infoStart := t.pos
	for t.pos < len(t.content) && t.content[t.pos] != '\n' && t.content[t.pos] != '\r' {
		t.pos++
	}
	infoEnd := t.pos

	// Malformed: the info string embeds a closing run of the same fence
	// character. Close the block right there.
	if embeddedAt, ok := findFenceRun(t.content, infoStart, infoEnd, fenceChar, count); ok {
		if embeddedAt > infoStart {
			t.emit(mdast.TokCodeFenceInfo, infoStart, embeddedAt)
		}
		runEnd := embeddedAt
		for runEnd < infoEnd && t.content[runEnd] == fenceChar {
			runEnd++
		}
		t.emit(mdast.TokCodeFence, embeddedAt, runEnd)
		if runEnd < infoEnd {
			t.pos = runEnd
			t.tokenizeInlineContent()
		} else {
			t.consumeNewline()
		}
		t.addDiag(CodeMalformedFenceInfo, start,
			"code fence info string contains a closing fence")
		return true
	}

	if infoEnd > infoStart {
		t.emit(mdast.TokCodeFenceInfo, infoStart, infoEnd)
	}
	t.consumeNewline()

	// Lookahead for the matching close fence.
	closeStart, found := t.findClosingFence(fenceChar, count)

	if found {
		t.consumeFenceBody(closeStart)
		t.consumeClosingFence(fenceChar)
		return true
	}

	// No close anywhere ahead: consume literal lines, but stop at the next
	// fence-looking or thematic-break line so consumption stays bounded.
	t.addDiag(CodeUnterminatedFence, start, "unterminated code fence")
	for t.pos < len(t.content) {
		if t.lineTerminatesOpenFence() {
			break
		}
		t.consumeCodeLine()
	}
	return true
}

// findClosingFence scans forward line by line for a closing fence of the
// same character with equal or greater length. Returns the offset of the
// line holding the close.
func (t *tokenizer) findClosingFence(fenceChar byte, fenceLen int) (int, bool) {
	pos := t.pos
	for pos < len(t.content) {
		lineStart := pos
		lineEnd := pos
		for lineEnd < len(t.content) && t.content[lineEnd] != '\n' {
			lineEnd++
		}

		if isClosingFenceLine(t.content[lineStart:lineEnd], fenceChar, fenceLen) {
			return lineStart, true
		}

		pos = lineEnd + 1
	}
	return 0, false
}

// isClosingFenceLine reports whether line (without its newline) is a valid
// closing fence: up to 3 leading spaces, a run of fenceChar at least
// fenceLen long, and trailing whitespace only.
func isClosingFenceLine(line []byte, fenceChar byte, fenceLen int) bool {
	i := 0
	for i < len(line) && line[i] == ' ' && i < 3 {
		i++
	}
	count := 0
	for i < len(line) && line[i] == fenceChar {
		i++
		count++
	}
	if count < fenceLen {
		return false
	}
	for i < len(line) {
		if line[i] != ' ' && line[i] != '\t' && line[i] != '\r' {
			return false
		}
		i++
	}
	return true
}

// consumeFenceBody consumes literal code lines up to (not including) the
// close fence line at closeStart.
func (t *tokenizer) consumeFenceBody(closeStart int) {
	for t.pos < closeStart {
		t.consumeCodeLine()
	}
}

// consumeClosingFence consumes the closing fence line the lookahead found.
func (t *tokenizer) consumeClosingFence(fenceChar byte) {
	start := t.pos
	for t.pos < len(t.content) && t.content[t.pos] == ' ' {
		t.pos++
	}
	if t.pos > start {
		t.emit(mdast.TokWhitespace, start, t.pos)
	}

	runStart := t.pos
	for t.pos < len(t.content) && t.content[t.pos] == fenceChar {
		t.pos++
	}
	t.emit(mdast.TokCodeFence, runStart, t.pos)

	trailStart := t.pos
	for t.pos < len(t.content) && t.content[t.pos] != '\n' && t.content[t.pos] != '\r' {
		t.pos++
	}
	if t.pos > trailStart {
		t.emit(mdast.TokWhitespace, trailStart, t.pos)
	}
	t.consumeNewline()
}

// lineTerminatesOpenFence reports whether the line at the current position
// should end consumption of an unterminated fence: any fence-looking line
// or a thematic break.
func (t *tokenizer) lineTerminatesOpenFence() bool {
	pos := t.pos
	for pos < len(t.content) && t.content[pos] == ' ' && pos-t.pos < 3 {
		pos++
	}
	if pos >= len(t.content) {
		return false
	}

	switch t.content[pos] {
	case '`', '~':
		count := 0
		for i := pos; i < len(t.content) && t.content[i] == t.content[pos]; i++ {
			count++
		}
		if count >= 3 {
			return true
		}
	case '-', '*', '_':
		if isThematicBreakAt(t.content, pos, t.content[pos]) {
			return true
		}
	}
	return false
}

// consumeCodeLine consumes one full line of fenced code content, including
// its leading whitespace, as a single literal token.
func (t *tokenizer) consumeCodeLine() {
	start := t.pos
	for t.pos < len(t.content) && t.content[t.pos] != '\n' && t.content[t.pos] != '\r' {
		t.pos++
	}
	if t.pos > start {
		t.emit(mdast.TokCodeLine, start, t.pos)
	}
	t.consumeNewline()
}

// tokenizeInlineContent tokenizes inline content until end of line.
func (t *tokenizer) tokenizeInlineContent() {
	for t.pos < len(t.content) {
		ch := t.content[t.pos]

		if ch == '\n' || ch == '\r' {
			t.consumeNewline()
			return
		}

		switch ch {
		case '\\':
			t.consumeEscapedChar()
		case '`':
			t.consumeBacktickRun()
		case '*', '_', '~':
			t.consumeEmphasisMarker()
		case '[':
			t.emitSingle(mdast.TokLinkOpen)
		case ']':
			t.emitSingle(mdast.TokLinkClose)
		case '(':
			t.emitSingle(mdast.TokParenOpen)
		case ')':
			t.emitSingle(mdast.TokParenClose)
		case '!':
			t.emitSingle(mdast.TokImageMarker)
		case ' ', '\t':
			t.consumeInlineWhitespace()
		default:
			t.consumeText()
		}
	}
}

// consumeEscapedChar consumes a backslash escape sequence.
func (t *tokenizer) consumeEscapedChar() {
	start := t.pos
	t.pos++

	if t.pos < len(t.content) && isPunctuation(t.content[t.pos]) {
		t.pos++
		t.emit(mdast.TokEscapedChar, start, t.pos)
	} else {
		t.emit(mdast.TokText, start, t.pos)
	}
}

// consumeBacktickRun consumes a run of backticks.
func (t *tokenizer) consumeBacktickRun() {
	start := t.pos
	for t.pos < len(t.content) && t.content[t.pos] == '`' {
		t.pos++
	}
	t.emit(mdast.TokBacktick, start, t.pos)
}

// consumeEmphasisMarker consumes a run of emphasis markers (*, _, ~).
func (t *tokenizer) consumeEmphasisMarker() {
	start := t.pos
	marker := t.content[t.pos]
	for t.pos < len(t.content) && t.content[t.pos] == marker {
		t.pos++
	}
	t.emit(mdast.TokEmphasisMarker, start, t.pos)
}

// consumeInlineWhitespace consumes mid-line whitespace.
func (t *tokenizer) consumeInlineWhitespace() {
	start := t.pos
	for t.pos < len(t.content) && (t.content[t.pos] == ' ' || t.content[t.pos] == '\t') {
		t.pos++
	}
	t.emit(mdast.TokWhitespace, start, t.pos)
}

// consumeText consumes a plain text run up to the next special character.
func (t *tokenizer) consumeText() {
	start := t.pos
	for t.pos < len(t.content) {
		switch t.content[t.pos] {
		case '\\', '`', '*', '_', '~', '[', ']', '(', ')', '!', ' ', '\t', '\n', '\r':
			if t.pos > start {
				t.emit(mdast.TokText, start, t.pos)
			}
			return
		}
		t.pos++
	}
	if t.pos > start {
		t.emit(mdast.TokText, start, t.pos)
	}
}

// consumeNewline consumes a newline (LF or CRLF).
func (t *tokenizer) consumeNewline() {
	if t.pos >= len(t.content) {
		return
	}

	start := t.pos
	switch t.content[t.pos] {
	case '\r':
		t.pos++
		if t.pos < len(t.content) && t.content[t.pos] == '\n' {
			t.pos++
		}
	case '\n':
		t.pos++
	default:
		return
	}
	t.emit(mdast.TokNewline, start, t.pos)
}

// findFenceRun searches [from, to) for a run of fenceChar at least fenceLen
// long, returning the start offset of the first such run.
func findFenceRun(content []byte, from, to int, fenceChar byte, fenceLen int) (int, bool) {
	run := 0
	for i := from; i < to; i++ {
		if content[i] == fenceChar {
			run++
			if run == fenceLen {
				return i - fenceLen + 1, true
			}
		} else {
			run = 0
		}
	}
	return 0, false
}

func (t *tokenizer) emit(kind mdast.TokenKind, start, end int) {
	t.tokens = append(t.tokens, mdast.Token{
		Kind:        kind,
		StartOffset: start,
		EndOffset:   end,
	})
}

func (t *tokenizer) emitSingle(kind mdast.TokenKind) {
	t.emit(kind, t.pos, t.pos+1)
	t.pos++
}

func (t *tokenizer) addDiag(code string, offset int, format string, args ...any) {
	index := mdast.BuildLineIndex(t.content)
	line, col := index.At(offset)
	t.diags = append(t.diags, Diagnostic{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Column:  col,
	})
}

// isDigit returns true if the byte is an ASCII digit.
func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// isPunctuation returns true if the byte is ASCII punctuation (escapable).
func isPunctuation(b byte) bool {
	switch b {
	case '!', '"', '#', '$', '%', '&', '\'', '(', ')', '*', '+', ',', '-', '.', '/',
		':', ';', '<', '=', '>', '?', '@', '[', '\\', ']', '^', '_', '`', '{', '|', '}', '~':
		return true
	default:
		return false
	}
}
