package parser_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/markwire/pkg/mdast"
	"github.com/yaklabco/markwire/pkg/parser"
)

func parse(t *testing.T, input string) (*mdast.Document, []parser.Diagnostic) {
	t.Helper()
	return parser.Parse([]byte(input), parser.Options{})
}

func paragraphText(t *testing.T, b mdast.Block) string {
	t.Helper()
	para, ok := b.(*mdast.Paragraph)
	if !ok {
		t.Fatalf("block is %T, want *mdast.Paragraph", b)
	}
	return mdast.PlainText(para.Children)
}

func TestParseHeadings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantLevel int
		wantText  string
	}{
		{"h1", "# Title\n", 1, "Title"},
		{"h3", "### Deep\n", 3, "Deep"},
		{"h6", "###### Deepest\n", 6, "Deepest"},
		{"closing hashes trimmed", "## Title ##\n", 2, "Title"},
		{"interior hashes kept", "# a#b\n", 1, "a#b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, diags := parse(t, tt.input)
			if len(diags) != 0 {
				t.Fatalf("unexpected diagnostics: %v", diags)
			}
			if len(doc.Blocks) != 1 {
				t.Fatalf("got %d blocks, want 1", len(doc.Blocks))
			}
			h, ok := doc.Blocks[0].(*mdast.Heading)
			if !ok {
				t.Fatalf("block is %T, want *mdast.Heading", doc.Blocks[0])
			}
			if h.Level != tt.wantLevel {
				t.Errorf("level = %d, want %d", h.Level, tt.wantLevel)
			}
			if got := mdast.PlainText(h.Children); got != tt.wantText {
				t.Errorf("text = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestParseSevenHashesIsParagraph(t *testing.T) {
	t.Parallel()

	doc, _ := parse(t, "####### too deep\n")
	if len(doc.Blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(doc.Blocks))
	}
	if _, ok := doc.Blocks[0].(*mdast.Paragraph); !ok {
		t.Errorf("block is %T, want *mdast.Paragraph", doc.Blocks[0])
	}
}

func TestParseParagraphJoining(t *testing.T) {
	t.Parallel()

	t.Run("soft breaks collapse to spaces", func(t *testing.T) {
		t.Parallel()

		doc, _ := parse(t, "one\ntwo\nthree\n")
		if got := paragraphText(t, doc.Blocks[0]); got != "one two three" {
			t.Errorf("text = %q, want %q", got, "one two three")
		}
	})

	t.Run("blank line splits paragraphs", func(t *testing.T) {
		t.Parallel()

		doc, _ := parse(t, "one\n\ntwo\n")
		if len(doc.Blocks) != 2 {
			t.Fatalf("got %d blocks, want 2", len(doc.Blocks))
		}
	})

	t.Run("two trailing spaces make a hard break", func(t *testing.T) {
		t.Parallel()

		doc, _ := parse(t, "one  \ntwo\n")
		para := doc.Blocks[0].(*mdast.Paragraph)
		if len(para.Children) != 3 {
			t.Fatalf("got %d children, want 3: %#v", len(para.Children), para.Children)
		}
		br, ok := para.Children[1].(*mdast.LineBreak)
		if !ok || !br.Hard {
			t.Errorf("children[1] = %#v, want hard LineBreak", para.Children[1])
		}
	})

	t.Run("preserve soft line breaks option", func(t *testing.T) {
		t.Parallel()

		doc, _ := parser.Parse([]byte("one\ntwo\n"),
			parser.Options{PreserveSoftLineBreaks: true})
		para := doc.Blocks[0].(*mdast.Paragraph)
		br, ok := para.Children[1].(*mdast.LineBreak)
		if !ok || br.Hard {
			t.Errorf("children[1] = %#v, want soft LineBreak", para.Children[1])
		}
	})

	t.Run("a block start interrupts a paragraph", func(t *testing.T) {
		t.Parallel()

		doc, _ := parse(t, "text\n# Heading\n")
		if len(doc.Blocks) != 2 {
			t.Fatalf("got %d blocks, want 2", len(doc.Blocks))
		}
		if _, ok := doc.Blocks[1].(*mdast.Heading); !ok {
			t.Errorf("second block is %T, want *mdast.Heading", doc.Blocks[1])
		}
	})
}

func TestParseThematicBreak(t *testing.T) {
	t.Parallel()

	doc, _ := parse(t, "before\n\n---\n\nafter\n")
	if len(doc.Blocks) != 3 {
		t.Fatalf("got %d blocks, want 3", len(doc.Blocks))
	}
	if _, ok := doc.Blocks[1].(*mdast.ThematicBreak); !ok {
		t.Errorf("middle block is %T, want *mdast.ThematicBreak", doc.Blocks[1])
	}
}

func TestParseBlockQuote(t *testing.T) {
	t.Parallel()

	t.Run("multi-line quote", func(t *testing.T) {
		t.Parallel()

		doc, _ := parse(t, "> hello\n> world\n")
		q, ok := doc.Blocks[0].(*mdast.BlockQuote)
		if !ok {
			t.Fatalf("block is %T, want *mdast.BlockQuote", doc.Blocks[0])
		}
		if got := paragraphText(t, q.Blocks[0]); got != "hello world" {
			t.Errorf("quote text = %q, want %q", got, "hello world")
		}
	})

	t.Run("nested quote", func(t *testing.T) {
		t.Parallel()

		doc, _ := parse(t, "> > inner\n")
		outer := doc.Blocks[0].(*mdast.BlockQuote)
		inner, ok := outer.Blocks[0].(*mdast.BlockQuote)
		if !ok {
			t.Fatalf("inner block is %T, want *mdast.BlockQuote", outer.Blocks[0])
		}
		if got := paragraphText(t, inner.Blocks[0]); got != "inner" {
			t.Errorf("inner text = %q, want %q", got, "inner")
		}
	})

	t.Run("quote containing heading", func(t *testing.T) {
		t.Parallel()

		doc, _ := parse(t, "> # Quoted title\n")
		q := doc.Blocks[0].(*mdast.BlockQuote)
		if _, ok := q.Blocks[0].(*mdast.Heading); !ok {
			t.Errorf("quoted block is %T, want *mdast.Heading", q.Blocks[0])
		}
	})
}

func TestParseLists(t *testing.T) {
	t.Parallel()

	t.Run("same-indent markers group as siblings", func(t *testing.T) {
		t.Parallel()

		doc, _ := parse(t, "- one\n- two\n- three\n")
		if len(doc.Blocks) != 1 {
			t.Fatalf("got %d blocks, want 1 list", len(doc.Blocks))
		}
		list := doc.Blocks[0].(*mdast.List)
		if list.Ordered {
			t.Error("list marked ordered")
		}
		if len(list.Items) != 3 {
			t.Fatalf("got %d items, want 3", len(list.Items))
		}
	})

	t.Run("deeper indent nests", func(t *testing.T) {
		t.Parallel()

		doc, _ := parse(t, "- outer\n  - inner\n")
		if len(doc.Blocks) != 1 {
			t.Fatalf("got %d blocks, want 1", len(doc.Blocks))
		}
		list := doc.Blocks[0].(*mdast.List)
		if len(list.Items) != 1 {
			t.Fatalf("got %d outer items, want 1", len(list.Items))
		}
		item := list.Items[0]
		if len(item.Blocks) != 2 {
			t.Fatalf("item has %d blocks, want paragraph + nested list: %#v",
				len(item.Blocks), item.Blocks)
		}
		nested, ok := item.Blocks[1].(*mdast.List)
		if !ok {
			t.Fatalf("second item block is %T, want *mdast.List", item.Blocks[1])
		}
		if got := paragraphText(t, nested.Items[0].Blocks[0]); got != "inner" {
			t.Errorf("nested item text = %q, want %q", got, "inner")
		}
	})

	t.Run("ordered list keeps its start", func(t *testing.T) {
		t.Parallel()

		doc, _ := parse(t, "3. three\n4. four\n")
		list := doc.Blocks[0].(*mdast.List)
		if !list.Ordered {
			t.Fatal("list not marked ordered")
		}
		if list.Start != 3 {
			t.Errorf("start = %d, want 3", list.Start)
		}
		if len(list.Items) != 2 {
			t.Errorf("got %d items, want 2", len(list.Items))
		}
	})

	t.Run("marker kinds do not mix", func(t *testing.T) {
		t.Parallel()

		doc, _ := parse(t, "- bullet\n1. ordered\n")
		if len(doc.Blocks) != 2 {
			t.Fatalf("got %d blocks, want 2 separate lists", len(doc.Blocks))
		}
	})

	t.Run("continuation line joins the item", func(t *testing.T) {
		t.Parallel()

		doc, _ := parse(t, "- first line\n  continued\n")
		list := doc.Blocks[0].(*mdast.List)
		if got := paragraphText(t, list.Items[0].Blocks[0]); got != "first line continued" {
			t.Errorf("item text = %q, want %q", got, "first line continued")
		}
	})

	t.Run("blank line inside item with continuation", func(t *testing.T) {
		t.Parallel()

		doc, _ := parse(t, "- first\n\n  second\n")
		list := doc.Blocks[0].(*mdast.List)
		if len(list.Items) != 1 {
			t.Fatalf("got %d items, want 1", len(list.Items))
		}
		if len(list.Items[0].Blocks) != 2 {
			t.Errorf("item has %d blocks, want 2 paragraphs", len(list.Items[0].Blocks))
		}
	})
}

func TestParseFencedCode(t *testing.T) {
	t.Parallel()

	t.Run("closed fence with language", func(t *testing.T) {
		t.Parallel()

		doc, diags := parse(t, "```go\nfmt.Println(1)\n```\n")
		if len(diags) != 0 {
			t.Fatalf("unexpected diagnostics: %v", diags)
		}
		cb := doc.Blocks[0].(*mdast.CodeBlock)
		if cb.Kind != mdast.FencedCode {
			t.Errorf("kind = %v, want FencedCode", cb.Kind)
		}
		if cb.Language != "go" {
			t.Errorf("language = %q, want %q", cb.Language, "go")
		}
		if cb.Literal != "fmt.Println(1)" {
			t.Errorf("literal = %q, want %q", cb.Literal, "fmt.Println(1)")
		}
	})

	t.Run("content is opaque", func(t *testing.T) {
		t.Parallel()

		doc, _ := parse(t, "```\n# not a heading\n> not a quote\n- not a list\n```\n")
		cb := doc.Blocks[0].(*mdast.CodeBlock)
		want := "# not a heading\n> not a quote\n- not a list"
		if cb.Literal != want {
			t.Errorf("literal = %q, want %q", cb.Literal, want)
		}
	})

	t.Run("unterminated fence degrades with diagnostic", func(t *testing.T) {
		t.Parallel()

		doc, diags := parse(t, "```go\ncode here\n")
		cb := doc.Blocks[0].(*mdast.CodeBlock)
		if cb.Literal != "code here" {
			t.Errorf("literal = %q, want %q", cb.Literal, "code here")
		}
		if !hasDiag(diags, parser.CodeUnterminatedFence) {
			t.Errorf("diagnostics = %v, want %s", diags, parser.CodeUnterminatedFence)
		}
	})

	t.Run("unterminated fence stops at thematic break", func(t *testing.T) {
		t.Parallel()

		doc, diags := parse(t, "```\ncode\n---\nafter\n")
		if !hasDiag(diags, parser.CodeUnterminatedFence) {
			t.Fatalf("diagnostics = %v, want %s", diags, parser.CodeUnterminatedFence)
		}
		if len(doc.Blocks) != 3 {
			t.Fatalf("got %d blocks, want code + break + paragraph: %#v",
				len(doc.Blocks), doc.Blocks)
		}
		if _, ok := doc.Blocks[1].(*mdast.ThematicBreak); !ok {
			t.Errorf("second block is %T, want *mdast.ThematicBreak", doc.Blocks[1])
		}
	})

	t.Run("close run embedded in info string", func(t *testing.T) {
		t.Parallel()

		doc, diags := parse(t, "```go```\nplain\n")
		cb, ok := doc.Blocks[0].(*mdast.CodeBlock)
		if !ok {
			t.Fatalf("block is %T, want *mdast.CodeBlock", doc.Blocks[0])
		}
		if cb.Literal != "go" {
			t.Errorf("literal = %q, want %q", cb.Literal, "go")
		}
		if !hasDiag(diags, parser.CodeMalformedFenceInfo) {
			t.Errorf("diagnostics = %v, want %s", diags, parser.CodeMalformedFenceInfo)
		}
		if len(doc.Blocks) != 2 {
			t.Fatalf("got %d blocks, want 2", len(doc.Blocks))
		}
		if got := paragraphText(t, doc.Blocks[1]); got != "plain" {
			t.Errorf("following paragraph = %q, want %q", got, "plain")
		}
	})

	t.Run("unknown language is flagged", func(t *testing.T) {
		t.Parallel()

		_, diags := parse(t, "```notalanguage\nx\n```\n")
		if !hasDiag(diags, parser.CodeUnknownLanguage) {
			t.Errorf("diagnostics = %v, want %s", diags, parser.CodeUnknownLanguage)
		}
	})

	t.Run("longer close fence matches", func(t *testing.T) {
		t.Parallel()

		doc, diags := parse(t, "```\nx\n````\n")
		if len(diags) != 0 {
			t.Fatalf("unexpected diagnostics: %v", diags)
		}
		cb := doc.Blocks[0].(*mdast.CodeBlock)
		if cb.Literal != "x" {
			t.Errorf("literal = %q, want %q", cb.Literal, "x")
		}
	})
}

func TestParseIndentedCode(t *testing.T) {
	t.Parallel()

	t.Run("disabled by default", func(t *testing.T) {
		t.Parallel()

		doc, _ := parse(t, "    indented\n")
		if _, ok := doc.Blocks[0].(*mdast.Paragraph); !ok {
			t.Errorf("block is %T, want *mdast.Paragraph", doc.Blocks[0])
		}
	})

	t.Run("enabled via option", func(t *testing.T) {
		t.Parallel()

		doc, _ := parser.Parse([]byte("    indented\n    more\n"),
			parser.Options{IndentedCodeBlocks: true})
		cb, ok := doc.Blocks[0].(*mdast.CodeBlock)
		if !ok {
			t.Fatalf("block is %T, want *mdast.CodeBlock", doc.Blocks[0])
		}
		if cb.Kind != mdast.IndentedCode {
			t.Errorf("kind = %v, want IndentedCode", cb.Kind)
		}
		if cb.Literal != "indented\nmore" {
			t.Errorf("literal = %q, want %q", cb.Literal, "indented\nmore")
		}
	})
}

func TestParsePreserveLeadingSpaces(t *testing.T) {
	t.Parallel()

	doc, _ := parser.Parse([]byte("  padded\n"),
		parser.Options{PreserveLeadingSpaces: true, PreserveSoftLineBreaks: true})
	para := doc.Blocks[0].(*mdast.Paragraph)
	txt := para.Children[0].(*mdast.Text)
	if !strings.HasPrefix(txt.Literal, "  ") {
		t.Errorf("literal = %q, want leading spaces preserved", txt.Literal)
	}
}

func TestParseDeepNestingDegrades(t *testing.T) {
	t.Parallel()

	input := strings.Repeat("> ", 80) + "deep\n"
	doc, diags := parse(t, input)
	if !hasDiag(diags, parser.CodeNestingTooDeep) {
		t.Errorf("diagnostics = %v, want %s", diags, parser.CodeNestingTooDeep)
	}
	if len(doc.Blocks) == 0 {
		t.Error("document has no blocks")
	}
}

func TestParseNeverReturnsNilDocument(t *testing.T) {
	t.Parallel()

	inputs := []string{"", "\n\n\n", "   ", "\t", "```", ">", "- ", "\\"}
	for _, input := range inputs {
		doc, _ := parse(t, input)
		if doc == nil {
			t.Errorf("Parse(%q) returned nil document", input)
		}
	}
}

func hasDiag(diags []parser.Diagnostic, code string) bool {
	for _, d := range diags {
		if d.Code == code {
			return true
		}
	}
	return false
}
