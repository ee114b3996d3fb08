package session

import (
	"github.com/vanderheijden86/mdoutline/pkg/heading"
	"github.com/vanderheijden86/mdoutline/pkg/resolver"
)

// Mode is the rendering mode of a document view.
type Mode int

const (
	ModeRaw      Mode = iota // editable/plain source text
	ModeRendered             // fully rendered output
)

// String returns a human-readable mode label.
func (m Mode) String() string {
	if m == ModeRaw {
		return "raw"
	}
	return "rendered"
}

// Rect is a viewport-space rectangle.
type Rect struct {
	Left, Top, Width, Height int
}

// Right returns the rectangle's right edge.
func (r Rect) Right() int { return r.Left + r.Width }

// DocumentView is the port through which the session observes and drives
// one document view. The ui package implements it over the terminal viewer;
// tests implement fakes. Every accessor may report unavailability — a
// routine transient state (focus elsewhere, content not laid out yet) that
// no-ops the cycle, never an error.
type DocumentView interface {
	// Mode returns the view's current rendering mode.
	Mode() Mode

	// Headings returns the document's current heading index, or false if no
	// index is available.
	Headings() ([]heading.Record, bool)

	// Scroll returns the viewport's scroll offset and height, or false when
	// the view has no scroll state yet.
	Scroll() (top, height int, ok bool)

	// ViewportRect returns the full viewport rectangle.
	ViewportRect() (Rect, bool)

	// ContentRect returns the content area rectangle within the viewport.
	ContentRect() (Rect, bool)

	// OffsetToLine maps a viewport offset to a source line (raw mode only).
	OffsetToLine(offset int) (line int, ok bool)

	// CursorLine returns the current cursor line (raw mode only).
	CursorLine() (line int, ok bool)

	// VisibleHeadings returns the heading elements currently present in the
	// rendered output. Content may be virtualized: headings far from the
	// viewport can be absent.
	VisibleHeadings() []resolver.RenderedHeading

	// NavigateTo scrolls/jumps the document to the given source line in the
	// given mode. Asynchronous; completion is not reported.
	NavigateTo(sourceLine int, mode Mode)
}
