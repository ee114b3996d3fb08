// Package outline holds the document outline shown in the side panel: an
// ordered sequence of entries mirroring the document's headings, with one
// entry highlighted as the current reading position and its ancestors kept
// visible for context.
//
// The model supports two update paths. When an edit leaves the heading
// structure intact (same levels, same labels), only source lines are patched
// in place and entry identity survives. Any structural change tears the
// whole outline down and rebuilds it, because index correspondence with the
// previous outline is no longer guaranteed.
package outline

import (
	"errors"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/vanderheijden86/mdoutline/pkg/debug"
	"github.com/vanderheijden86/mdoutline/pkg/heading"
)

// ErrStructuralMismatch is returned by PatchPositions when the new records
// do not structurally match the current baseline.
var ErrStructuralMismatch = errors.New("outline: records differ structurally from baseline")

// Node is the render handle of a single entry. Nodes are exclusively owned
// by the Model: created on Rebuild, detached on the next Rebuild, reused by
// PatchPositions. Operations on a detached node are skipped (the panel it
// belonged to is gone).
type Node struct {
	id       int
	detached bool
	active   bool
	ancestor bool
}

// Active reports whether this node is marked as the current reading position.
func (n *Node) Active() bool { return n.active }

// Ancestor reports whether this node is marked as an ancestor of the active
// entry.
func (n *Node) Ancestor() bool { return n.ancestor }

// Detached reports whether this node belongs to a torn-down outline.
func (n *Node) Detached() bool { return n.detached }

// Entry is one outline row: a heading's level, its markup-stripped label,
// its current source line, and the render handle.
type Entry struct {
	Level      int
	Label      string
	SourceLine int

	node *Node
}

// Node returns the entry's render handle.
func (e *Entry) Node() *Node { return e.node }

// Model is the outline state plus its panel viewport.
type Model struct {
	entries  []*Entry
	baseline []heading.Record

	activeIndex int
	nextNodeID  int

	vp      viewport.Model
	styles  Styles
	compact bool
	width   int
	height  int

	activate func(index int)
}

// New returns an empty outline model rendered with the given styles.
func New(styles Styles) *Model {
	return &Model{
		activeIndex: -1,
		vp:          viewport.New(0, 0),
		styles:      styles,
	}
}

// SetActivateFunc registers the callback invoked when an entry is clicked.
// Rebuild binds it to every fresh entry node.
func (m *Model) SetActivateFunc(fn func(index int)) { m.activate = fn }

// Len returns the number of entries.
func (m *Model) Len() int { return len(m.entries) }

// Entries returns the ordered entry sequence. Callers must not reorder it.
func (m *Model) Entries() []*Entry { return m.entries }

// ActiveIndex returns the currently active entry index, or -1.
func (m *Model) ActiveIndex() int { return m.activeIndex }

// Baseline returns the heading records the outline was last built or patched
// from.
func (m *Model) Baseline() []heading.Record { return m.baseline }

// StructurallyEqual reports whether two heading sequences describe the same
// outline structure: same length and pairwise equal level and stripped
// label. Source lines are ignored; they shift on every edit without changing
// what the outline looks like.
func StructurallyEqual(a, b []heading.Record) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Level != b[i].Level {
			return false
		}
		if heading.StripMarkup(a[i].Text) != heading.StripMarkup(b[i].Text) {
			return false
		}
	}
	return true
}

// Diff reports whether next is structurally equal to the current baseline.
// This is the decision point between the cheap PatchPositions path and a
// full Rebuild.
func (m *Model) Diff(next []heading.Record) bool {
	return StructurallyEqual(m.baseline, next)
}

// Rebuild tears the outline down and recreates it from records: every
// existing node is detached, fresh nodes are created in document order, and
// records become the new baseline for future diffs. The active marker is
// cleared; resetting resolver state is the caller's responsibility since the
// model does not own it.
func (m *Model) Rebuild(records []heading.Record) {
	for _, e := range m.entries {
		e.node.detached = true
	}

	m.entries = make([]*Entry, 0, len(records))
	for _, r := range records {
		m.nextNodeID++
		m.entries = append(m.entries, &Entry{
			Level:      r.Level,
			Label:      heading.StripMarkup(r.Text),
			SourceLine: r.SourceLine,
			node:       &Node{id: m.nextNodeID},
		})
	}

	m.baseline = append([]heading.Record(nil), records...)
	m.activeIndex = -1
	m.refresh()
	m.vp.GotoTop()
	debug.Log("outline: rebuilt with %d entries", len(records))
}

// PatchPositions updates only the source line of each entry in place. It
// requires records to be structurally equal to the baseline; labels, levels,
// and node identity are untouched.
func (m *Model) PatchPositions(records []heading.Record) error {
	if !m.Diff(records) {
		return ErrStructuralMismatch
	}
	for i, r := range records {
		m.entries[i].SourceLine = r.SourceLine
		m.baseline[i].SourceLine = r.SourceLine
	}
	return nil
}

// SetActive marks the entry at index as the current reading position and
// reconstructs its ancestor chain from the flat, level-tagged sequence:
// walking backward, the nearest entry at each strictly smaller level is
// marked, stopping once a level-1 entry has been marked. An out-of-range
// index (including -1) clears all marks. The panel viewport is scrolled to
// keep the active entry visible, centered when space allows.
func (m *Model) SetActive(index int) {
	for _, e := range m.entries {
		if e.node.detached {
			continue
		}
		e.node.active = false
		e.node.ancestor = false
	}

	if index < 0 || index >= len(m.entries) {
		m.activeIndex = -1
		m.refresh()
		return
	}

	m.activeIndex = index
	m.entries[index].node.active = true

	need := m.entries[index].Level
	for i := index - 1; i >= 0 && need > 1; i-- {
		if m.entries[i].Level < need {
			m.entries[i].node.ancestor = true
			need = m.entries[i].Level
		}
	}

	m.refresh()
	m.scrollToActive()
}

// Click resolves a panel-local row to an entry and fires the activate
// callback. Rows outside the entry range or clicks on detached outlines are
// ignored.
func (m *Model) Click(row int) {
	index := m.IndexAtRow(row)
	if index < 0 || m.activate == nil {
		return
	}
	m.activate(index)
}

// IndexAtRow maps a visible panel row to an entry index, accounting for the
// panel's scroll offset. Returns -1 when the row is past the last entry.
func (m *Model) IndexAtRow(row int) int {
	index := row + m.vp.YOffset
	if index < 0 || index >= len(m.entries) {
		return -1
	}
	return index
}

// scrollToActive keeps the active entry visible in the panel viewport,
// centered when the outline is taller than the panel.
func (m *Model) scrollToActive() {
	if m.activeIndex < 0 || m.vp.Height <= 0 {
		return
	}
	if len(m.entries) <= m.vp.Height {
		m.vp.GotoTop()
		return
	}
	off := m.activeIndex - m.vp.Height/2
	if off < 0 {
		off = 0
	}
	if max := len(m.entries) - m.vp.Height; off > max {
		off = max
	}
	m.vp.SetYOffset(off)
}
