// Package resolver maps the viewport's scroll state to the outline entry the
// user is currently reading. Two mutually exclusive strategies exist, picked
// by the document's rendering mode: raw mode resolves by source position,
// rendered mode resolves by matching the visible text of rendered headings
// (rendered content may be virtualized, so source-line bookkeeping is
// unreliable there).
package resolver

import (
	"github.com/vanderheijden86/mdoutline/pkg/debug"
	"github.com/vanderheijden86/mdoutline/pkg/outline"
)

// Tuning defaults. The top threshold and divisors are in the same units the
// host viewport reports (terminal rows here); hosts with finer-grained
// coordinates configure their own values.
const (
	// DefaultTopThreshold is how close to the document top the viewport must
	// be for the first entry to be force-selected, regardless of heading
	// positions. Handles leading content before the first heading.
	DefaultTopThreshold = 2

	// rawOffsetDivisor places the raw-mode target line a small fraction of
	// the viewport height below the top edge: raw-mode users track their
	// cursor, not a reading line, so the trigger sits near the top.
	rawOffsetDivisor = 10

	// readingDivisor places the rendered-mode target line a third of the
	// viewport down, a comfortable look-ahead rather than a literal
	// top-of-viewport trigger.
	readingDivisor = 3
)

// State is the per-view resolver state. It lives as long as the session
// tracking one document view and is reset whenever a structural rebuild
// invalidates index correspondence with the previous outline.
type State struct {
	LastActiveIndex int
	ScrollGuard     bool
}

// RenderedHeading is one heading element currently present in the rendered
// view: its level, its visible (markup-free) text, and the top of its
// bounding box in viewport units. Headings far from the viewport may simply
// be absent.
type RenderedHeading struct {
	Level int
	Text  string
	Top   int
}

// RawContext carries the inputs for position-based resolution. CursorLine
// overrides the scroll-derived estimate when >= 0 (an explicit cursor is
// precise; a scroll offset is a lagging estimate). OffsetToLine is the
// rendering surface's coordinate-to-position mapping; nil or a failed
// mapping no-ops the cycle.
type RawContext struct {
	ScrollTop    int
	Height       int
	CursorLine   int
	OffsetToLine func(offset int) (line int, ok bool)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTopThreshold overrides the force-select-first scroll threshold.
func WithTopThreshold(n int) Option {
	return func(r *Resolver) { r.topThreshold = n }
}

// Resolver computes the active outline index and applies it to the outline
// model. All methods run on the event loop; no locking.
type Resolver struct {
	outline      *outline.Model
	state        State
	topThreshold int
}

// New returns a resolver bound to the given outline model.
func New(o *outline.Model, opts ...Option) *Resolver {
	r := &Resolver{
		outline:      o,
		state:        State{LastActiveIndex: -1},
		topThreshold: DefaultTopThreshold,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns a copy of the current resolver state.
func (r *Resolver) State() State { return r.state }

// Reset clears the resolver state to its initial value. Called after every
// structural rebuild and on view switches: indices into the old outline mean
// nothing in the new one.
func (r *Resolver) Reset() {
	r.state = State{LastActiveIndex: -1}
}

// SetScrollGuard sets or clears the programmatic-scroll guard. While set,
// scroll-driven resolution is suppressed so a click-to-navigate animation
// cannot re-trigger resolution against stale geometry.
func (r *Resolver) SetScrollGuard(on bool) { r.state.ScrollGuard = on }

// GuardActive reports whether the scroll guard is set.
func (r *Resolver) GuardActive() bool { return r.state.ScrollGuard }

// NoteActive records index as the active entry without running a strategy.
// Used by click-to-navigate, where the clicked entry is already known to be
// the answer.
func (r *Resolver) NoteActive(index int) {
	r.state.LastActiveIndex = index
	r.outline.SetActive(index)
}

// ResolveRaw runs the position-based strategy. Returns the resolved index
// and whether the active entry was updated this cycle.
func (r *Resolver) ResolveRaw(ctx RawContext) (int, bool) {
	n := r.outline.Len()
	if n == 0 {
		return -1, false
	}
	if ctx.ScrollTop <= r.topThreshold {
		return r.apply(0)
	}

	cursorDriven := ctx.CursorLine >= 0
	var target int
	if cursorDriven {
		target = ctx.CursorLine
	} else {
		if ctx.OffsetToLine == nil {
			return r.state.LastActiveIndex, false
		}
		line, ok := ctx.OffsetToLine(ctx.ScrollTop + ctx.Height/rawOffsetDivisor)
		if !ok {
			return r.state.LastActiveIndex, false
		}
		target = line
	}

	last := -1
	for i, e := range r.outline.Entries() {
		if e.SourceLine > target {
			break
		}
		last = i
	}

	// A cursor line is precise: select the matched heading itself. A scroll
	// offset is a lagging estimate: look one heading ahead to compensate.
	index := last
	if !cursorDriven {
		index = last + 1
	}
	if index >= n {
		index = n - 1
	}
	if index < 0 {
		// Cursor above the first heading and not within the top region.
		return r.state.LastActiveIndex, false
	}
	return r.apply(index)
}

// ResolveRendered runs the text-matching strategy over the currently
// rendered heading elements. Returns the resolved index and whether the
// active entry was updated this cycle.
func (r *Resolver) ResolveRendered(top, height int, headings []RenderedHeading) (int, bool) {
	n := r.outline.Len()
	if n == 0 {
		return -1, false
	}
	if top <= r.topThreshold {
		return r.apply(0)
	}

	target := top + height/readingDivisor
	last := -1
	for i, h := range headings {
		if h.Top <= target {
			last = i
		}
	}
	if last < 0 {
		// Viewport sits above every rendered heading; nothing to match.
		return r.state.LastActiveIndex, false
	}

	// Same forward-lookahead as scroll-driven raw mode: the heading after
	// the last one above the target line is the reading candidate. At the
	// end of the document the last heading stands for itself.
	cand := headings[last]
	if last+1 < len(headings) {
		cand = headings[last+1]
	}

	var matches []int
	for i, e := range r.outline.Entries() {
		if e.Level == cand.Level && e.Label == cand.Text {
			matches = append(matches, i)
		}
	}

	switch len(matches) {
	case 0:
		// Virtualized or stale content; leave the active entry unchanged
		// and let the next scroll event retry.
		debug.Log("resolver: no outline match for %q (level %d)", cand.Text, cand.Level)
		return r.state.LastActiveIndex, false
	case 1:
		return r.apply(matches[0])
	}

	// Duplicate headings are legal. Pick the match closest to the last
	// active index: least visible jump, and a fair proxy for "most recently
	// active". Ties resolve to the earlier entry.
	best := matches[0]
	bestDist := absInt(best - r.state.LastActiveIndex)
	for _, m := range matches[1:] {
		if d := absInt(m - r.state.LastActiveIndex); d < bestDist {
			best, bestDist = m, d
		}
	}
	return r.apply(best)
}

func (r *Resolver) apply(index int) (int, bool) {
	r.state.LastActiveIndex = index
	r.outline.SetActive(index)
	return index, true
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
