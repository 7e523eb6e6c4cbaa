// Package mdast defines the token stream and the abstract syntax tree for
// the markwire parsing pipeline.
//
// The node set is closed: Block and Inline are sealed interfaces whose
// implementations all live in this package. Renderers type-switch over the
// full variant set and treat an unknown variant as a programming error, so
// adding a variant here forces every renderer to grow a matching case.
//
// A Document is built once per parse call and never mutated afterwards.
// Nodes own their children exclusively and hold no references back into
// tokenizer or parser state.
package mdast

// Block is a block-level node: one of Paragraph, Heading, CodeBlock,
// BlockQuote, List, ListItem, or ThematicBreak.
type Block interface {
	block()
}

// Inline is an inline-level node: one of Text, Emphasis, CodeSpan, Link,
// Image, Autolink, or LineBreak.
type Inline interface {
	inline()
}

// Document is the root of a parsed tree. Its children are an ordered
// sequence of blocks.
type Document struct {
	Blocks []Block
}

// Paragraph is a run of inline content.
type Paragraph struct {
	Children []Inline
}

// Heading is an ATX heading with level 1-6.
type Heading struct {
	Level    int
	Children []Inline
}

// CodeBlockKind distinguishes fenced from indented code blocks.
type CodeBlockKind uint8

const (
	// FencedCode is a code block delimited by ``` or ~~~ fences.
	FencedCode CodeBlockKind = iota

	// IndentedCode is a code block formed by 4-space indentation.
	IndentedCode
)

// CodeBlock holds literal code content. The content is opaque: it is never
// re-tokenized, and structural markers inside it carry no meaning.
type CodeBlock struct {
	Kind     CodeBlockKind
	Language string
	Literal  string
}

// BlockQuote wraps nested block content.
type BlockQuote struct {
	Blocks []Block
}

// List is an ordered or unordered list of items.
type List struct {
	Ordered bool

	// Start is the first ordinal of an ordered list. Zero for unordered.
	Start int

	Items []*ListItem
}

// ListItem holds the nested block content of a single item, which may
// include further List nodes.
type ListItem struct {
	Blocks []Block
}

// ThematicBreak is a horizontal rule.
type ThematicBreak struct{}

func (*Paragraph) block()     {}
func (*Heading) block()       {}
func (*CodeBlock) block()     {}
func (*BlockQuote) block()    {}
func (*List) block()          {}
func (*ListItem) block()      {}
func (*ThematicBreak) block() {}

// Text is a literal text run. Adjacent runs are merged during parsing.
type Text struct {
	Literal string
}

// EmphasisKind classifies an emphasis span.
type EmphasisKind uint8

const (
	// EmphasisStrong is ** or __ emphasis.
	EmphasisStrong EmphasisKind = iota

	// EmphasisItalic is * or _ emphasis.
	EmphasisItalic

	// EmphasisStrike is ~~ strikethrough.
	EmphasisStrike
)

// String returns a human-readable name for the emphasis kind.
func (k EmphasisKind) String() string {
	switch k {
	case EmphasisStrong:
		return "strong"
	case EmphasisItalic:
		return "italic"
	case EmphasisStrike:
		return "strike"
	default:
		return "unknown"
	}
}

// Emphasis is a strong, italic, or strikethrough span with nested inline
// children.
type Emphasis struct {
	Kind     EmphasisKind
	Children []Inline
}

// CodeSpan holds literal inline code. Like CodeBlock content, it is closed
// to further inline parsing.
type CodeSpan struct {
	Literal string
}

// Link is an inline link. Children carry the display content; the
// destination and title are never parsed for emphasis.
type Link struct {
	Children    []Inline
	Destination string
	Title       string
}

// Image is an inline image with plain alt text.
type Image struct {
	Alt         string
	Destination string
}

// Autolink is a bare URL or email address recognized in plain text.
type Autolink struct {
	Target string

	// Email is true when Target is an email address rather than a URL.
	Email bool
}

// LineBreak separates lines within a paragraph. Hard breaks come from a
// trailing double space; soft breaks are plain newlines kept when the
// PreserveSoftLineBreaks option is set.
type LineBreak struct {
	Hard bool
}

func (*Text) inline()      {}
func (*Emphasis) inline()  {}
func (*CodeSpan) inline()  {}
func (*Link) inline()      {}
func (*Image) inline()     {}
func (*Autolink) inline()  {}
func (*LineBreak) inline() {}
