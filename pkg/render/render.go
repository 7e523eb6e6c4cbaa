// Package render provides the three markwire renderer backends: semantic
// HTML, canonical re-serialization, and platform-safe escaped markup.
//
// Every backend type-switches exhaustively over the closed mdast node set.
// An unknown variant is a programming error, not a user-input error, and
// panics; user input can never produce one.
package render

import "fmt"

// Options controls renderer output details.
type Options struct {
	// ListIndent is the number of spaces per nesting level in escaped
	// output. Zero means the default of 4.
	ListIndent int

	// LanguageClasses controls whether the HTML backend emits a
	// language-* class on fenced code blocks with a recognized tag.
	LanguageClasses bool
}

// DefaultOptions returns the renderer defaults.
func DefaultOptions() Options {
	return Options{ListIndent: 4, LanguageClasses: true}
}

func (o Options) listIndent() int {
	if o.ListIndent <= 0 {
		return 4
	}
	return o.ListIndent
}

// unhandledNode panics for an AST variant a renderer has no case for.
// Reaching it means a new node type was added without updating the backend.
func unhandledNode(backend string, n any) {
	panic(fmt.Sprintf("render: %s backend cannot handle node type %T", backend, n))
}
