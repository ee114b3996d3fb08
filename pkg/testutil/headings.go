// Package testutil provides shared builders and assertions for tests.
package testutil

import (
	"testing"

	"github.com/vanderheijden86/mdoutline/pkg/heading"
	"github.com/vanderheijden86/mdoutline/pkg/outline"
)

// H builds a heading record.
func H(level int, text string, line int) heading.Record {
	return heading.Record{Level: level, Text: text, SourceLine: line}
}

// Headings builds a record sequence from (level, text, line) triples via H.
func Headings(records ...heading.Record) []heading.Record {
	return records
}

// AssertActiveIndex verifies the outline's active entry index.
func AssertActiveIndex(t *testing.T, m *outline.Model, want int) {
	t.Helper()
	if got := m.ActiveIndex(); got != want {
		t.Errorf("active index = %d, want %d", got, want)
	}
}

// AssertMarks verifies the active/ancestor marks across all entries.
// want holds one rune per entry: 'a' active, 'A' ancestor, '.' neither.
func AssertMarks(t *testing.T, m *outline.Model, want string) {
	t.Helper()
	entries := m.Entries()
	if len(entries) != len(want) {
		t.Fatalf("outline has %d entries, want marks for %d", len(entries), len(want))
	}
	for i, e := range entries {
		var got byte
		switch {
		case e.Node().Active():
			got = 'a'
		case e.Node().Ancestor():
			got = 'A'
		default:
			got = '.'
		}
		if got != want[i] {
			t.Errorf("entry %d (%q): mark = %c, want %c", i, e.Label, got, want[i])
		}
	}
}

// Nodes returns the render handles of all entries, for identity checks.
func Nodes(m *outline.Model) []*outline.Node {
	entries := m.Entries()
	nodes := make([]*outline.Node, len(entries))
	for i, e := range entries {
		nodes[i] = e.Node()
	}
	return nodes
}
