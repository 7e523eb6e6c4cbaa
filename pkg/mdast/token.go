package mdast

// TokenKind classifies the type of a token in the markup source.
type TokenKind uint16

// Token kinds cover every byte in the source. Line-start constructs
// (heading markers, list markers, blockquote markers, fences, thematic
// breaks) are classified distinctly from the same characters mid-line.
const (
	TokText TokenKind = iota
	TokWhitespace
	TokNewline

	TokHeadingMarker    // '#' through '######' at line start
	TokListBullet       // '-', '+', '*' at line start
	TokListNumber       // '1.', '2)', etc. at line start
	TokBlockquoteMarker // '>' at line start
	TokCodeFence        // ``` or ~~~ run opening or closing a fence
	TokCodeFenceInfo    // info string after an opening fence
	TokCodeLine         // literal line inside a fenced code block
	TokThematicBreak    // '---', '***', '___'
	TokEmphasisMarker   // runs of '*', '_', '~'
	TokBacktick         // inline code backtick runs
	TokEscapedChar      // '\' + punctuation
	TokLinkOpen         // '['
	TokLinkClose        // ']'
	TokParenOpen        // '('
	TokParenClose       // ')'
	TokImageMarker      // '!'
)

// String returns a human-readable name for the token kind.
func (k TokenKind) String() string {
	switch k {
	case TokText:
		return "Text"
	case TokWhitespace:
		return "Whitespace"
	case TokNewline:
		return "Newline"
	case TokHeadingMarker:
		return "HeadingMarker"
	case TokListBullet:
		return "ListBullet"
	case TokListNumber:
		return "ListNumber"
	case TokBlockquoteMarker:
		return "BlockquoteMarker"
	case TokCodeFence:
		return "CodeFence"
	case TokCodeFenceInfo:
		return "CodeFenceInfo"
	case TokCodeLine:
		return "CodeLine"
	case TokThematicBreak:
		return "ThematicBreak"
	case TokEmphasisMarker:
		return "EmphasisMarker"
	case TokBacktick:
		return "Backtick"
	case TokEscapedChar:
		return "EscapedChar"
	case TokLinkOpen:
		return "LinkOpen"
	case TokLinkClose:
		return "LinkClose"
	case TokParenOpen:
		return "ParenOpen"
	case TokParenClose:
		return "ParenClose"
	case TokImageMarker:
		return "ImageMarker"
	default:
		return "Unknown"
	}
}

// Token represents a classified span of bytes in the markup source.
// Tokens are contiguous and non-overlapping, covering [0, len(content)).
type Token struct {
	// Kind classifies what this token represents.
	Kind TokenKind

	// StartOffset is the byte index where this token begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where this token ends (exclusive).
	EndOffset int

	// Line and Column are the 1-based position of StartOffset.
	Line   int
	Column int
}

// Text returns the source text of this token from the given content.
func (t Token) Text(content []byte) []byte {
	if t.StartOffset < 0 || t.EndOffset > len(content) || t.StartOffset > t.EndOffset {
		return nil
	}
	return content[t.StartOffset:t.EndOffset]
}

// Len returns the length of this token in bytes.
func (t Token) Len() int {
	return t.EndOffset - t.StartOffset
}

// IsEmpty returns true if this token has zero length.
func (t Token) IsEmpty() bool {
	return t.StartOffset == t.EndOffset
}

// ValidateTokens checks that a token slice is contiguous, non-overlapping,
// and covers the full content range [0, contentLen).
func ValidateTokens(tokens []Token, contentLen int) bool {
	if len(tokens) == 0 {
		return contentLen == 0
	}

	if tokens[0].StartOffset != 0 {
		return false
	}

	if tokens[len(tokens)-1].EndOffset != contentLen {
		return false
	}

	for i := 1; i < len(tokens); i++ {
		if tokens[i].StartOffset != tokens[i-1].EndOffset {
			return false
		}
	}

	return true
}
