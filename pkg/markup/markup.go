// Package markup is the single entry point for parsing the markup dialect
// and rendering it to HTML, canonical markup, or the strict-escaping chat
// dialect. It wraps the parser and render packages behind one options
// struct so callers never deal with tokens or backend knobs directly.
package markup

import (
	"github.com/yaklabco/markwire/pkg/mdast"
	"github.com/yaklabco/markwire/pkg/parser"
	"github.com/yaklabco/markwire/pkg/render"
)

// Options controls parsing behavior. The zero value is not the default;
// use DefaultOptions.
type Options struct {
	// PreserveLeadingSpaces keeps leading whitespace on paragraph
	// continuation lines instead of trimming it.
	PreserveLeadingSpaces bool

	// PreserveSoftLineBreaks keeps single newlines inside paragraphs as
	// soft line breaks instead of collapsing them to spaces.
	PreserveSoftLineBreaks bool

	// IgnoreIndentedCodeBlocks treats four-space-indented lines as
	// ordinary paragraph text. On by default: chat-sourced text is full
	// of accidental indentation.
	IgnoreIndentedCodeBlocks bool

	// StrictMode marks the result as degraded whenever the parser had to
	// recover from malformed input.
	StrictMode bool

	// ListIndent is the number of spaces per nesting level in escaped
	// output. Zero means the renderer default.
	ListIndent int

	// LanguageClasses controls whether HTML output carries a language-*
	// class on fenced code blocks with a recognized tag.
	LanguageClasses bool
}

// DefaultOptions returns the options used by the package-level one-shot
// helpers.
func DefaultOptions() Options {
	return Options{IgnoreIndentedCodeBlocks: true, LanguageClasses: true}
}

func (o Options) parserOptions() parser.Options {
	return parser.Options{
		PreserveLeadingSpaces:  o.PreserveLeadingSpaces,
		PreserveSoftLineBreaks: o.PreserveSoftLineBreaks,
		IndentedCodeBlocks:     !o.IgnoreIndentedCodeBlocks,
	}
}

func (o Options) renderOptions() render.Options {
	return render.Options{
		ListIndent:      o.ListIndent,
		LanguageClasses: o.LanguageClasses,
	}
}

// Result is a parse outcome: the document, every recovery diagnostic the
// parser emitted, and whether strict mode considers the parse degraded.
type Result struct {
	Doc         *mdast.Document
	Diagnostics []parser.Diagnostic
	Degraded    bool
}

// Parse parses text into a document. It never fails: malformed constructs
// degrade to literal text and surface as diagnostics.
func Parse(text string, opts Options) (*mdast.Document, []parser.Diagnostic) {
	return parser.Parse([]byte(text), opts.parserOptions())
}

// ParseChecked parses text and applies the strict-mode policy from opts.
func ParseChecked(text string, opts Options) Result {
	doc, diags := Parse(text, opts)
	return Result{
		Doc:         doc,
		Diagnostics: diags,
		Degraded:    opts.StrictMode && len(diags) > 0,
	}
}

// RenderHTML renders a parsed document as an HTML fragment.
func RenderHTML(doc *mdast.Document, opts Options) string {
	return render.HTML(doc, opts.renderOptions())
}

// RenderCanonical re-serializes a parsed document to canonical markup.
func RenderCanonical(doc *mdast.Document, opts Options) string {
	return render.Canonical(doc, opts.renderOptions())
}

// RenderEscaped renders a parsed document in the strict chat dialect.
func RenderEscaped(doc *mdast.Document, opts Options) string {
	return render.Escaped(doc, opts.renderOptions())
}

// ValidateEscaped reports whether text conforms to the strict chat
// dialect, with one human-readable violation per offense.
func ValidateEscaped(text string) (bool, []string) {
	return render.ValidateEscaped(text)
}

// ToHTML parses text with default options and renders it as HTML.
func ToHTML(text string) string {
	doc, _ := Parse(text, DefaultOptions())
	return RenderHTML(doc, DefaultOptions())
}

// Normalize parses text with default options and re-serializes it to
// canonical markup. Normalize is idempotent: feeding its output back in
// returns the same string.
func Normalize(text string) string {
	doc, _ := Parse(text, DefaultOptions())
	return RenderCanonical(doc, DefaultOptions())
}

// ToEscapedMarkup converts text to the strict chat dialect. Leading
// spaces and soft line breaks are preserved so the escaped output keeps
// the author's layout.
func ToEscapedMarkup(text string) string {
	opts := DefaultOptions()
	opts.PreserveLeadingSpaces = true
	opts.PreserveSoftLineBreaks = true
	doc, _ := Parse(text, opts)
	return RenderEscaped(doc, opts)
}
