package render

import (
	"strconv"
	"strings"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/yaklabco/markwire/pkg/langdetect"
	"github.com/yaklabco/markwire/pkg/mdast"
)

// HTML renders the document as semantic HTML. Text content is
// entity-escaped by the gomponents text nodes; code content is escaped but
// never re-parsed. Top-level blocks are separated by newlines.
func HTML(doc *mdast.Document, opts Options) string {
	var parts []string
	for _, b := range doc.Blocks {
		var sb strings.Builder
		// These node trees contain no Raw nodes, so rendering cannot fail.
		_ = htmlBlock(b, opts).Render(&sb)
		parts = append(parts, sb.String())
	}
	return strings.Join(parts, "\n")
}

// htmlBlock lowers a block node to a gomponents element tree.
func htmlBlock(b mdast.Block, opts Options) g.Node {
	switch t := b.(type) {
	case *mdast.Paragraph:
		return h.P(htmlInlines(t.Children)...)

	case *mdast.Heading:
		return htmlHeading(t)

	case *mdast.CodeBlock:
		code := []g.Node{g.Text(t.Literal)}
		if opts.LanguageClasses && t.Language != "" {
			if tag, known := langdetect.KnownAlias(t.Language); known {
				code = append([]g.Node{h.Class("language-" + tag)}, code...)
			}
		}
		return h.Pre(h.Code(code...))

	case *mdast.BlockQuote:
		var children []g.Node
		for _, inner := range t.Blocks {
			children = append(children, htmlBlock(inner, opts))
		}
		return h.BlockQuote(children...)

	case *mdast.List:
		items := make([]g.Node, 0, len(t.Items))
		for _, item := range t.Items {
			items = append(items, htmlBlock(item, opts))
		}
		if t.Ordered {
			if t.Start != 1 {
				items = append([]g.Node{g.Attr("start", strconv.Itoa(t.Start))}, items...)
			}
			return h.Ol(items...)
		}
		return h.Ul(items...)

	case *mdast.ListItem:
		return h.Li(htmlListItemContent(t, opts)...)

	case *mdast.ThematicBreak:
		return h.Hr()

	default:
		unhandledNode("html", b)
		return nil
	}
}

// htmlListItemContent renders item content tightly: paragraphs directly
// inside a list item are unwrapped to their inline children.
func htmlListItemContent(item *mdast.ListItem, opts Options) []g.Node {
	var out []g.Node
	for _, b := range item.Blocks {
		if para, ok := b.(*mdast.Paragraph); ok {
			out = append(out, htmlInlines(para.Children)...)
			continue
		}
		out = append(out, htmlBlock(b, opts))
	}
	return out
}

func htmlHeading(t *mdast.Heading) g.Node {
	children := htmlInlines(t.Children)
	switch t.Level {
	case 1:
		return h.H1(children...)
	case 2:
		return h.H2(children...)
	case 3:
		return h.H3(children...)
	case 4:
		return h.H4(children...)
	case 5:
		return h.H5(children...)
	default:
		return h.H6(children...)
	}
}

func htmlInlines(inlines []mdast.Inline) []g.Node {
	out := make([]g.Node, 0, len(inlines))
	for _, in := range inlines {
		out = append(out, htmlInline(in))
	}
	return out
}

func htmlInline(in mdast.Inline) g.Node {
	switch t := in.(type) {
	case *mdast.Text:
		return g.Text(t.Literal)

	case *mdast.Emphasis:
		children := htmlInlines(t.Children)
		switch t.Kind {
		case mdast.EmphasisStrong:
			return h.Strong(children...)
		case mdast.EmphasisItalic:
			return h.Em(children...)
		case mdast.EmphasisStrike:
			return h.Del(children...)
		default:
			unhandledNode("html", t.Kind)
			return nil
		}

	case *mdast.CodeSpan:
		return h.Code(g.Text(t.Literal))

	case *mdast.Link:
		nodes := []g.Node{h.Href(t.Destination)}
		if t.Title != "" {
			nodes = append(nodes, h.TitleAttr(t.Title))
		}
		nodes = append(nodes, htmlInlines(t.Children)...)
		return h.A(nodes...)

	case *mdast.Image:
		return h.Img(h.Src(t.Destination), h.Alt(t.Alt))

	case *mdast.Autolink:
		href := t.Target
		if t.Email {
			href = "mailto:" + t.Target
		}
		return h.A(h.Href(href), g.Text(t.Target))

	case *mdast.LineBreak:
		if t.Hard {
			return h.Br()
		}
		return g.Text("\n")

	default:
		unhandledNode("html", in)
		return nil
	}
}
