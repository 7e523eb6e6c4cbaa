package render_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/markwire/pkg/render"
)

func TestValidateEscapedAccepts(t *testing.T) {
	t.Parallel()

	valid := []string{
		"",
		"plain words",
		`escaped \. \( \) \# \- \+ \= \| \{ \} \! \>`,
		"*bold* _italic_ ~strike~",
		"*bold with _nested_ span*",
		"`code with . and ( inside`",
		"```\nfenced ( code ) with . anything\n```",
		"[label](https://example.com)",
		`[dest with paren](https://e.com/a(1\))`,
		">quote line\n>another",
		">outer\n>>nested\n>>>deeper",
		"\\- escaped list marker",
		"1\\. escaped ordinal",
		`back\\slash pair`,
		"`code ending in x\\\\`",
		"`\\\\\\\\` and more\\.",
	}

	for _, text := range valid {
		ok, violations := render.ValidateEscaped(text)
		if !ok {
			t.Errorf("ValidateEscaped(%q) = invalid, violations: %v", text, violations)
		}
	}
}

func TestValidateEscapedRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"unescaped dot", "version 1.2", "unescaped"},
		{"unescaped paren", "call (me)", "unescaped"},
		{"unescaped dash", "a - b", "unescaped"},
		{"unescaped bang", "wow!", "unescaped"},
		{"unbalanced star", "*open", "unbalanced '*'"},
		{"unbalanced underscore", "a _b", "unbalanced '_'"},
		{"unbalanced tilde", "~x", "unbalanced '~'"},
		{"unclosed backtick", "`code", "unbalanced '`'"},
		{"bracket without destination", "[text] more", "not followed by '('"},
		{"stray close bracket", "a ] b", "unescaped ']'"},
		{"unterminated destination", "[x](https://e", "unterminated link destination"},
		{"unterminated link", "[never closed", "unterminated link"},
		{"mid-line quote marker", "a > b", "unescaped '>'"},
		{"quote marker after text on line", ">ok\nbad > here", "unescaped '>'"},
		{"code span closer consumed by escape", "`x\\`", "unbalanced '`'"},
		{"dangling backslash", `tail\`, "dangling backslash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ok, violations := render.ValidateEscaped(tt.text)
			if ok {
				t.Fatalf("ValidateEscaped(%q) = valid, want violation containing %q", tt.text, tt.want)
			}
			found := false
			for _, v := range violations {
				if strings.Contains(v, tt.want) {
					found = true
				}
			}
			if !found {
				t.Errorf("violations %v, want one containing %q", violations, tt.want)
			}
		})
	}
}

func TestValidateEscapedReportsOffsets(t *testing.T) {
	t.Parallel()

	_, violations := render.ValidateEscaped("ab.cd")
	if len(violations) != 1 {
		t.Fatalf("got %d violations, want 1: %v", len(violations), violations)
	}
	if !strings.HasPrefix(violations[0], "offset 2:") {
		t.Errorf("violation = %q, want offset 2 prefix", violations[0])
	}
}

func TestValidateEscapedCodeSpansAreOpaque(t *testing.T) {
	t.Parallel()

	// Reserved characters inside a balanced backtick span are fine; the
	// same characters outside are not.
	ok, _ := render.ValidateEscaped("`a.b`")
	if !ok {
		t.Error("reserved char inside code span flagged")
	}

	ok, _ = render.ValidateEscaped("`a.b` c.d")
	if ok {
		t.Error("reserved char outside code span not flagged")
	}
}

func TestValidateEscapedMultipleViolations(t *testing.T) {
	t.Parallel()

	_, violations := render.ValidateEscaped("a.b (c)")
	if len(violations) != 3 {
		t.Errorf("got %d violations, want 3: %v", len(violations), violations)
	}
}
