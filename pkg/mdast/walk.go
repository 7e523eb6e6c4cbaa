package mdast

// BlockWalkFunc is the callback signature for WalkBlocks.
// Return a non-nil error to stop the walk.
type BlockWalkFunc func(b Block) error

// InlineWalkFunc is the callback signature for WalkInlines.
type InlineWalkFunc func(in Inline) error

// WalkBlocks performs a pre-order traversal of all block nodes in the
// document, descending into quotes, lists, and list items.
func WalkBlocks(doc *Document, fn BlockWalkFunc) error {
	if doc == nil {
		return nil
	}
	return walkBlockSeq(doc.Blocks, fn)
}

func walkBlockSeq(blocks []Block, fn BlockWalkFunc) error {
	for _, b := range blocks {
		if err := fn(b); err != nil {
			return err
		}
		switch t := b.(type) {
		case *BlockQuote:
			if err := walkBlockSeq(t.Blocks, fn); err != nil {
				return err
			}
		case *List:
			for _, item := range t.Items {
				if err := fn(item); err != nil {
					return err
				}
				if err := walkBlockSeq(item.Blocks, fn); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// WalkInlines performs a pre-order traversal of every inline node reachable
// from the document, descending into emphasis spans and link display
// content.
func WalkInlines(doc *Document, fn InlineWalkFunc) error {
	return WalkBlocks(doc, func(b Block) error {
		switch t := b.(type) {
		case *Paragraph:
			return walkInlineSeq(t.Children, fn)
		case *Heading:
			return walkInlineSeq(t.Children, fn)
		}
		return nil
	})
}

func walkInlineSeq(inlines []Inline, fn InlineWalkFunc) error {
	for _, in := range inlines {
		if err := fn(in); err != nil {
			return err
		}
		switch t := in.(type) {
		case *Emphasis:
			if err := walkInlineSeq(t.Children, fn); err != nil {
				return err
			}
		case *Link:
			if err := walkInlineSeq(t.Children, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// PlainText concatenates the literal content of all Text, CodeSpan, and
// Autolink nodes in the sequence. Useful for alt-text style flattening.
func PlainText(inlines []Inline) string {
	var out []byte
	var visit func([]Inline)
	visit = func(seq []Inline) {
		for _, in := range seq {
			switch t := in.(type) {
			case *Text:
				out = append(out, t.Literal...)
			case *CodeSpan:
				out = append(out, t.Literal...)
			case *Autolink:
				out = append(out, t.Target...)
			case *Emphasis:
				visit(t.Children)
			case *Link:
				visit(t.Children)
			case *Image:
				out = append(out, t.Alt...)
			case *LineBreak:
				out = append(out, ' ')
			}
		}
	}
	visit(inlines)
	return string(out)
}
