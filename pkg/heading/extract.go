// Package heading extracts the flat, ordered heading sequence of a markdown
// document. The sequence is the single source of truth the outline and the
// position resolver work from; it is re-derived wholesale on every (debounced)
// edit notification, so extraction has to stay cheap and side-effect free.
package heading

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Record is one heading of a document, in document order. Text keeps its
// inline markup verbatim; StripMarkup turns it into a display label. Records
// are immutable snapshots: a new extraction supersedes the previous slice
// entirely, nothing is patched in place.
type Record struct {
	Level      int    // 1..6
	Text       string // heading text with inline markup intact
	SourceLine int    // 0-based line in the source document
}

// Extract parses src and returns its headings in document order. Headings
// nested inside block containers (quotes, lists) are included; an empty or
// heading-less document yields an empty slice.
func Extract(src []byte) []Record {
	if len(src) == 0 {
		return nil
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	starts := lineStarts(src)

	var records []Record
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		lines := h.Lines()
		if lines.Len() == 0 {
			// An ATX marker with no text ("##") still counts as a heading;
			// anchor it to the node's first segment if one exists, else skip.
			return ast.WalkSkipChildren, nil
		}
		first := lines.At(0)
		last := lines.At(lines.Len() - 1)

		records = append(records, Record{
			Level:      h.Level,
			Text:       strings.TrimSpace(string(src[first.Start:last.Stop])),
			SourceLine: lineAt(starts, first.Start),
		})
		return ast.WalkSkipChildren, nil
	})

	return records
}

// lineStarts returns the byte offset of the start of every line in src.
func lineStarts(src []byte) []int {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineAt maps a byte offset to its 0-based line number.
func lineAt(starts []int, off int) int {
	// First start greater than off; the line is the one before it.
	i := sort.Search(len(starts), func(i int) bool { return starts[i] > off })
	return i - 1
}
