// Package session owns the lifecycle of the reading-position tracker for one
// document view: it wires edit, resize, scroll, and cursor notifications to
// the outline model and the position resolver, debounces the expensive
// triggers, manages the compact/normal panel layout, and handles
// click-to-navigate.
//
// Everything here runs on the host event loop. Debounced callbacks fire on a
// timer goroutine and are marshaled back through the notify function (see
// WithNotify), so shared state is only ever touched from one goroutine.
package session

import (
	"time"

	"github.com/vanderheijden86/mdoutline/pkg/debug"
	"github.com/vanderheijden86/mdoutline/pkg/outline"
	"github.com/vanderheijden86/mdoutline/pkg/resolver"
	"github.com/vanderheijden86/mdoutline/pkg/watcher"
)

// Phase is the session lifecycle state.
type Phase int

const (
	PhaseDetached Phase = iota
	PhaseAttached
	PhaseTracking
	PhaseSuspended
)

// String returns a human-readable phase label.
func (p Phase) String() string {
	switch p {
	case PhaseAttached:
		return "attached"
	case PhaseTracking:
		return "tracking"
	case PhaseSuspended:
		return "suspended"
	default:
		return "detached"
	}
}

// DefaultCompactMinGap is the minimum number of columns that must remain
// beside the content area for the normal panel variant; anything narrower
// switches to compact.
const DefaultCompactMinGap = 34

// Option configures a Session.
type Option func(*Session)

// WithDebounce sets the coalescing window for edit and resize bursts. Zero
// runs handlers synchronously.
func WithDebounce(d time.Duration) Option {
	return func(s *Session) { s.debounce = d }
}

// WithCompactMinGap overrides the compact-layout gap threshold.
func WithCompactMinGap(gap int) Option {
	return func(s *Session) { s.compactMinGap = gap }
}

// WithNotify sets the function that marshals debounced callbacks back onto
// the host event loop. The default invokes them inline, which is only
// correct for synchronous (zero-debounce) sessions and tests.
func WithNotify(fn func(func())) Option {
	return func(s *Session) { s.notify = fn }
}

// Session tracks one document view. Create on attach, discard on detach; a
// new view gets a new session.
type Session struct {
	view DocumentView

	outline *outline.Model
	res     *resolver.Resolver

	phase   Phase
	compact bool

	debounce       time.Duration
	compactMinGap  int
	editDebounce   *watcher.Debouncer
	resizeDebounce *watcher.Debouncer
	notify         func(func())
}

// New creates a session around an outline model and its resolver.
func New(o *outline.Model, r *resolver.Resolver, opts ...Option) *Session {
	s := &Session{
		outline:       o,
		res:           r,
		compactMinGap: DefaultCompactMinGap,
		debounce:      watcher.DefaultDebounceDuration,
		notify:        func(fn func()) { fn() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.editDebounce = watcher.NewDebouncer(s.debounce)
	s.resizeDebounce = watcher.NewDebouncer(s.debounce)

	o.SetActivateFunc(s.EntryClicked)
	return s
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase { return s.phase }

// Compact reports whether the compact panel variant is active.
func (s *Session) Compact() bool { return s.compact }

// Outline returns the tracked outline model.
func (s *Session) Outline() *outline.Model { return s.outline }

// Resolver returns the session's resolver.
func (s *Session) Resolver() *resolver.Resolver { return s.res }

// Attach binds the session to a document view that just became active: the
// panel is (re)built from the current heading index, resolver state is
// reset, the responsive layout is evaluated, and tracking begins.
func (s *Session) Attach(view DocumentView) {
	defer debug.LogEnterExit("session.Attach")()

	s.view = view
	s.phase = PhaseAttached

	records, ok := view.Headings()
	if !ok {
		records = nil
	}
	s.outline.Rebuild(records)
	s.res.Reset()
	s.evaluateLayout()

	s.phase = PhaseTracking
	s.resolveNow()
}

// Detach tears the session down: pending debounced work is dropped and the
// outline is emptied, detaching every entry node. Only a genuine switch away
// from any document view should reach here; focus moving to a side panel is
// a Suspend, not a Detach.
func (s *Session) Detach() {
	s.editDebounce.Cancel()
	s.resizeDebounce.Cancel()
	s.outline.Rebuild(nil)
	s.res.Reset()
	s.view = nil
	s.phase = PhaseDetached
}

// Suspend pauses tracking without tearing the panel down. The outline and
// resolver state survive; Resume picks up where tracking left off.
func (s *Session) Suspend() {
	if s.phase != PhaseTracking {
		return
	}
	s.phase = PhaseSuspended
}

// Resume re-enters tracking from a suspension and re-evaluates immediately,
// since the document may have scrolled while suspended.
func (s *Session) Resume() {
	if s.phase != PhaseSuspended {
		return
	}
	s.phase = PhaseTracking
	s.resolveNow()
}

// DocumentModified handles an edit notification. Re-extraction and
// reconciliation run on the debounce trailing edge, collapsing edit bursts.
func (s *Session) DocumentModified() {
	if !s.tracking() {
		return
	}
	s.editDebounce.Trigger(func() {
		s.notify(s.UpdateToc)
	})
}

// Resized handles a viewport-resize notification: layout and the active
// entry are re-evaluated after the debounce window (entry geometry may have
// changed).
func (s *Session) Resized() {
	if !s.tracking() {
		return
	}
	s.resizeDebounce.Trigger(func() {
		s.notify(func() {
			s.evaluateLayout()
			s.resolveNow()
		})
	})
}

// LayoutChanged handles a structural layout-class change of the content
// area (the subscribe/callback generalization of attribute observation).
func (s *Session) LayoutChanged() {
	if !s.tracking() {
		return
	}
	s.evaluateLayout()
}

// Scrolled handles a scroll notification. Never debounced — tracking must
// feel immediate — but suppressed while the programmatic-scroll guard is up,
// so a click-to-navigate animation cannot re-resolve against stale geometry.
func (s *Session) Scrolled() {
	if !s.tracking() {
		return
	}
	if s.res.GuardActive() {
		return
	}
	s.resolveNow()
}

// CursorActivity handles direct pointer/keyboard interaction in raw mode:
// the explicit cursor line bypasses scroll-offset estimation for higher
// precision. Genuine user input also clears the scroll guard.
func (s *Session) CursorActivity() {
	if !s.tracking() {
		return
	}
	s.res.SetScrollGuard(false)

	if s.view.Mode() != ModeRaw {
		s.resolveNow()
		return
	}
	line, ok := s.view.CursorLine()
	if !ok {
		return
	}
	top, height, ok := s.view.Scroll()
	if !ok {
		return
	}
	s.res.ResolveRaw(resolver.RawContext{
		ScrollTop:    top,
		Height:       height,
		CursorLine:   line,
		OffsetToLine: s.view.OffsetToLine,
	})
}

// UserInput notes any genuine user input (pointer, wheel, touch, key),
// which clears the scroll guard set by click-to-navigate.
func (s *Session) UserInput() {
	s.res.SetScrollGuard(false)
}

// EntryClicked handles a click on an outline entry: the clicked index wins
// immediately and optimistically (it is an unambiguous model entry, so
// duplicate headings are disambiguated structurally by line, not text), the
// scroll guard suppresses the navigation's own scroll events, and the host
// is asked to navigate in whatever mode is active.
func (s *Session) EntryClicked(index int) {
	if !s.tracking() {
		return
	}
	entries := s.outline.Entries()
	if index < 0 || index >= len(entries) {
		return
	}

	s.res.NoteActive(index)
	s.res.SetScrollGuard(true)
	s.view.NavigateTo(entries[index].SourceLine, s.view.Mode())
}

// UpdateToc reconciles the outline with the document's current heading
// index: a structurally equal sequence is patched in place (entry identity
// and resolver state survive), anything else is a full rebuild with a
// resolver reset. Runs synchronously; DocumentModified is the debounced
// entry point.
func (s *Session) UpdateToc() {
	if !s.tracking() {
		return
	}
	defer debug.LogEnterExit("session.UpdateToc")()

	records, ok := s.view.Headings()
	if !ok {
		return
	}

	if s.outline.Diff(records) {
		if err := s.outline.PatchPositions(records); err != nil {
			// Raced with another reconciliation; rebuild to stay safe.
			s.outline.Rebuild(records)
			s.res.Reset()
		}
	} else {
		s.outline.Rebuild(records)
		s.res.Reset()
	}

	s.evaluateLayout()
	s.resolveNow()
}

// resolveNow runs the mode-appropriate resolution strategy against the
// view's current scroll state.
func (s *Session) resolveNow() {
	if s.view == nil {
		return
	}
	top, height, ok := s.view.Scroll()
	if !ok {
		return
	}

	switch s.view.Mode() {
	case ModeRaw:
		s.res.ResolveRaw(resolver.RawContext{
			ScrollTop:    top,
			Height:       height,
			CursorLine:   -1,
			OffsetToLine: s.view.OffsetToLine,
		})
	case ModeRendered:
		s.res.ResolveRendered(top, height, s.view.VisibleHeadings())
	}
}

// evaluateLayout decides between the compact and normal panel variants by
// comparing the content area's right edge to the viewport's: when the gap is
// too small for the panel plus margins, or the content area is not in its
// centered layout, the compact variant wins.
func (s *Session) evaluateLayout() {
	if s.view == nil {
		return
	}
	vr, ok := s.view.ViewportRect()
	if !ok {
		return
	}
	cr, ok := s.view.ContentRect()
	if !ok {
		return
	}

	gap := vr.Right() - cr.Right()
	centered := cr.Left > vr.Left
	compact := gap < s.compactMinGap || !centered

	if compact != s.compact {
		debug.Log("session: layout %s (gap=%d centered=%v)", variant(compact), gap, centered)
	}
	s.compact = compact
	s.outline.SetCompact(compact)
}

func (s *Session) tracking() bool {
	return s.phase == PhaseTracking && s.view != nil
}

func variant(compact bool) string {
	if compact {
		return "compact"
	}
	return "normal"
}
