package mdast

import "sort"

// LineIndex maps byte offsets to 1-based line and column numbers.
// It holds the start offset of every line in the content it was built from.
type LineIndex struct {
	starts []int
	length int
}

// BuildLineIndex constructs a line index for the given content.
// It handles both LF and CRLF line endings ('\n' always ends a line).
func BuildLineIndex(content []byte) *LineIndex {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts, length: len(content)}
}

// At converts a byte offset to 1-based line and column numbers.
// Column counts bytes, not runes. Offsets at or past the end of content
// map to a position on the last line.
func (ix *LineIndex) At(offset int) (line, col int) {
	if offset < 0 {
		return 0, 0
	}
	if offset > ix.length {
		offset = ix.length
	}

	// Find the last line start <= offset.
	i := sort.Search(len(ix.starts), func(i int) bool {
		return ix.starts[i] > offset
	}) - 1

	return i + 1, offset - ix.starts[i] + 1
}

// LineCount returns the number of lines in the indexed content.
func (ix *LineIndex) LineCount() int {
	return len(ix.starts)
}
