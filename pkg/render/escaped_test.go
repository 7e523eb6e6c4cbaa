package render_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/markwire/pkg/parser"
	"github.com/yaklabco/markwire/pkg/render"
)

func renderEscaped(t *testing.T, input string) string {
	t.Helper()
	doc, _ := parser.Parse([]byte(input), parser.Options{
		PreserveLeadingSpaces:  true,
		PreserveSoftLineBreaks: true,
	})
	return render.Escaped(doc, render.DefaultOptions())
}

func TestEscapedText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "reserved characters escaped",
			input:    "price 3.50 (tax incl.)\n",
			expected: `price 3\.50 \(tax incl\.\)`,
		},
		{
			name:     "hash and dash",
			input:    "see item #4 - revised\n",
			expected: `see item \#4 \- revised`,
		},
		{
			name:     "plain words untouched",
			input:    "hello world\n",
			expected: "hello world",
		},
		{
			name:     "emphasis uses single delimiters",
			input:    "*i* **b** ~~s~~\n",
			expected: `_i_ *b* ~s~`,
		},
		{
			name:     "literal stars escaped",
			input:    "2*3\n",
			expected: `2\*3`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := renderEscaped(t, tt.input); got != tt.expected {
				t.Errorf("Escaped = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestEscapedBlocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "heading becomes bold line",
			input:    "# Release Notes\n",
			expected: "*Release Notes*",
		},
		{
			name:     "thematic break",
			input:    "---\n",
			expected: `\-\-\-`,
		},
		{
			name:     "blockquote",
			input:    "> wise words\n",
			expected: ">wise words",
		},
		{
			name:     "code block keeps fence",
			input:    "```go\nx := 1\n```\n",
			expected: "```go\nx := 1\n```",
		},
		{
			name:     "bullet list markers escaped",
			input:    "- one\n- two\n",
			expected: "\\- one\n\\- two",
		},
		{
			name:     "ordered list markers escaped",
			input:    "1. one\n2. two\n",
			expected: "1\\. one\n2\\. two",
		},
		{
			name:     "paragraphs separated by blank line",
			input:    "a\n\nb\n",
			expected: "a\n\nb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := renderEscaped(t, tt.input); got != tt.expected {
				t.Errorf("Escaped = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestEscapedNestedListIndent(t *testing.T) {
	t.Parallel()

	got := renderEscaped(t, "- outer\n  - inner\n")
	want := "\\- outer\n    \\- inner"
	if got != want {
		t.Errorf("Escaped = %q, want %q", got, want)
	}
}

func TestEscapedListIndentOption(t *testing.T) {
	t.Parallel()

	doc, _ := parser.Parse([]byte("- a\n  - b\n"), parser.Options{})
	got := render.Escaped(doc, render.Options{ListIndent: 2})
	want := "\\- a\n  \\- b"
	if got != want {
		t.Errorf("Escaped = %q, want %q", got, want)
	}
}

func TestEscapedInlineSpans(t *testing.T) {
	t.Parallel()

	t.Run("code span escapes backtick and backslash only", func(t *testing.T) {
		t.Parallel()

		got := renderEscaped(t, "`a.b(c)`\n")
		want := "`a.b(c)`"
		if got != want {
			t.Errorf("Escaped = %q, want %q", got, want)
		}
	})

	t.Run("link url escapes closing paren only", func(t *testing.T) {
		t.Parallel()

		got := renderEscaped(t, "[x](https://e.com/a(1))\n")
		want := `[x](https://e.com/a(1\))`
		if got != want {
			t.Errorf("Escaped = %q, want %q", got, want)
		}
	})

	t.Run("link label text escaped", func(t *testing.T) {
		t.Parallel()

		got := renderEscaped(t, "[v1.2](https://e.com)\n")
		want := `[v1\.2](https://e.com)`
		if got != want {
			t.Errorf("Escaped = %q, want %q", got, want)
		}
	})

	t.Run("autolink becomes explicit link", func(t *testing.T) {
		t.Parallel()

		got := renderEscaped(t, "https://go.dev\n")
		want := `[https://go\.dev](https://go.dev)`
		if got != want {
			t.Errorf("Escaped = %q, want %q", got, want)
		}
	})

	t.Run("email autolink uses mailto", func(t *testing.T) {
		t.Parallel()

		got := renderEscaped(t, "me@example.com\n")
		want := `[me@example\.com](mailto:me@example.com)`
		if got != want {
			t.Errorf("Escaped = %q, want %q", got, want)
		}
	})

	t.Run("image becomes link form", func(t *testing.T) {
		t.Parallel()

		got := renderEscaped(t, "![a pic](x.png)\n")
		want := `[a pic](x.png)`
		if got != want {
			t.Errorf("Escaped = %q, want %q", got, want)
		}
	})
}

// TestEscapedOutputValidates is the soundness property: everything the
// escaped backend emits passes the strict validator.
func TestEscapedOutputValidates(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"plain text with 3.50 and #tags (parens) {braces} a+b=c | x!\n",
		"# Heading with *emphasis* and `code`\n",
		"**bold** _italic_ ~~strike~~\n",
		"[link](https://example.com/path(1)) and https://go.dev.\n",
		"![image alt](https://example.com/i.png)\n",
		"- item one\n- item 2.5\n  - nested!\n",
		"1. first\n2. second\n",
		"> quoted > text\n",
		"```python\nprint(1 > 0)\n```\n",
		"code with `ticks` and \\` escapes\n",
		"code span `x\\` ending in a backslash\n",
		"> outer\n> > nested quote\n",
		"---\n",
		"multi\n\nparagraph\n\ndocument.\n",
		"mail me@example.com or visit https://example.com!\n",
	}

	for _, input := range inputs {
		out := renderEscaped(t, input)
		ok, violations := render.ValidateEscaped(out)
		if !ok {
			t.Errorf("escaped output of %q fails validation:\noutput: %q\nviolations: %v",
				input, out, violations)
		}
	}
}

func TestEscapedSoftBreaksKept(t *testing.T) {
	t.Parallel()

	got := renderEscaped(t, "line one\nline two\n")
	if !strings.Contains(got, "line one\nline two") {
		t.Errorf("soft break not preserved: %q", got)
	}
}
