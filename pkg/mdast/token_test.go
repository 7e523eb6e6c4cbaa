package mdast_test

import (
	"testing"

	"github.com/yaklabco/markwire/pkg/mdast"
)

func TestTokenKindString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind     mdast.TokenKind
		expected string
	}{
		{mdast.TokText, "Text"},
		{mdast.TokWhitespace, "Whitespace"},
		{mdast.TokNewline, "Newline"},
		{mdast.TokHeadingMarker, "HeadingMarker"},
		{mdast.TokListBullet, "ListBullet"},
		{mdast.TokListNumber, "ListNumber"},
		{mdast.TokBlockquoteMarker, "BlockquoteMarker"},
		{mdast.TokCodeFence, "CodeFence"},
		{mdast.TokCodeFenceInfo, "CodeFenceInfo"},
		{mdast.TokCodeLine, "CodeLine"},
		{mdast.TokThematicBreak, "ThematicBreak"},
		{mdast.TokEmphasisMarker, "EmphasisMarker"},
		{mdast.TokBacktick, "Backtick"},
		{mdast.TokEscapedChar, "EscapedChar"},
		{mdast.TokLinkOpen, "LinkOpen"},
		{mdast.TokLinkClose, "LinkClose"},
		{mdast.TokParenOpen, "ParenOpen"},
		{mdast.TokParenClose, "ParenClose"},
		{mdast.TokImageMarker, "ImageMarker"},
		{mdast.TokenKind(999), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.expected {
			t.Errorf("TokenKind(%d).String() = %q, want %q", tt.kind, got, tt.expected)
		}
	}
}

func TestTokenText(t *testing.T) {
	t.Parallel()

	content := []byte("hello world")

	tok := mdast.Token{Kind: mdast.TokText, StartOffset: 0, EndOffset: 5}
	if got := string(tok.Text(content)); got != "hello" {
		t.Errorf("Text() = %q, want %q", got, "hello")
	}

	// Out-of-range offsets return nil rather than panicking.
	bad := mdast.Token{StartOffset: 8, EndOffset: 20}
	if got := bad.Text(content); got != nil {
		t.Errorf("Text() with bad offsets = %q, want nil", got)
	}

	reversed := mdast.Token{StartOffset: 5, EndOffset: 2}
	if got := reversed.Text(content); got != nil {
		t.Errorf("Text() with reversed offsets = %q, want nil", got)
	}
}

func TestTokenLen(t *testing.T) {
	t.Parallel()

	tok := mdast.Token{StartOffset: 3, EndOffset: 7}
	if tok.Len() != 4 {
		t.Errorf("Len() = %d, want 4", tok.Len())
	}
	if tok.IsEmpty() {
		t.Error("IsEmpty() = true for non-empty token")
	}

	empty := mdast.Token{StartOffset: 3, EndOffset: 3}
	if !empty.IsEmpty() {
		t.Error("IsEmpty() = false for empty token")
	}
}

func TestValidateTokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		tokens     []mdast.Token
		contentLen int
		expected   bool
	}{
		{
			name:       "empty tokens empty content",
			tokens:     nil,
			contentLen: 0,
			expected:   true,
		},
		{
			name:       "empty tokens non-empty content",
			tokens:     nil,
			contentLen: 5,
			expected:   false,
		},
		{
			name: "contiguous coverage",
			tokens: []mdast.Token{
				{StartOffset: 0, EndOffset: 3},
				{StartOffset: 3, EndOffset: 5},
			},
			contentLen: 5,
			expected:   true,
		},
		{
			name: "gap between tokens",
			tokens: []mdast.Token{
				{StartOffset: 0, EndOffset: 2},
				{StartOffset: 3, EndOffset: 5},
			},
			contentLen: 5,
			expected:   false,
		},
		{
			name: "does not start at zero",
			tokens: []mdast.Token{
				{StartOffset: 1, EndOffset: 5},
			},
			contentLen: 5,
			expected:   false,
		},
		{
			name: "does not cover full content",
			tokens: []mdast.Token{
				{StartOffset: 0, EndOffset: 4},
			},
			contentLen: 5,
			expected:   false,
		},
		{
			name: "overlapping tokens",
			tokens: []mdast.Token{
				{StartOffset: 0, EndOffset: 3},
				{StartOffset: 2, EndOffset: 5},
			},
			contentLen: 5,
			expected:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := mdast.ValidateTokens(tt.tokens, tt.contentLen); got != tt.expected {
				t.Errorf("ValidateTokens() = %v, want %v", got, tt.expected)
			}
		})
	}
}
