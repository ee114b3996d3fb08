package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/vanderheijden86/mdoutline/pkg/debug"
	"github.com/vanderheijden86/mdoutline/pkg/heading"
	"github.com/vanderheijden86/mdoutline/pkg/resolver"
	"github.com/vanderheijden86/mdoutline/pkg/session"
)

// maxContentWidth caps the reading column; wider terminals center the
// content area, which is what drives the normal (non-compact) panel layout.
const maxContentWidth = 100

// renderedHeading pairs a visible rendered heading with the source line it
// came from, for click-to-navigate.
type renderedHeading struct {
	resolver.RenderedHeading
	SourceLine int
}

// docView is the single document view the session tracks. It implements
// session.DocumentView over a bubbles viewport, in one of two modes: raw
// source text or glamour-rendered output.
type docView struct {
	mode session.Mode

	src      []byte
	rawLines []string
	records  []heading.Record

	rendered      []string          // rendered output lines
	renderedIndex []renderedHeading // heading positions within rendered

	vp       viewport.Model
	cursor   int // raw-mode cursor line
	wordWrap int

	width      int
	height     int
	panelSpace int // columns reserved for the panel, 0 when hidden
	leftMargin int

	cursorStyle lipgloss.Style
}

func newDocView(mode session.Mode, wordWrap int, cursorStyle lipgloss.Style) *docView {
	return &docView{
		mode:        mode,
		wordWrap:    wordWrap,
		vp:          viewport.New(0, 0),
		cursorStyle: cursorStyle,
	}
}

// SetSource replaces the document content: the heading index is re-derived
// and both mode contents refreshed. The scroll offset is preserved where it
// still fits.
func (d *docView) SetSource(src []byte) {
	d.src = src
	d.rawLines = strings.Split(string(src), "\n")
	d.records = heading.Extract(src)
	if d.cursor >= len(d.rawLines) {
		d.cursor = len(d.rawLines) - 1
	}
	if d.cursor < 0 {
		d.cursor = 0
	}
	d.render()
	d.setContent()
}

// Layout sizes the view. panelSpace is the column count consumed by the
// outline panel (0 when hidden).
func (d *docView) Layout(width, height, panelSpace int) {
	d.width = width
	d.height = height
	d.panelSpace = panelSpace

	avail := width - panelSpace
	content := avail
	if content > maxContentWidth {
		content = maxContentWidth
	}
	d.leftMargin = (avail - content) / 2
	if d.leftMargin < 0 {
		d.leftMargin = 0
	}

	d.vp.Width = avail
	d.vp.Height = height
	d.render()
	d.setContent()
}

// SetMode switches rendering modes, keeping the reading position roughly
// aligned by mapping through the nearest heading.
func (d *docView) SetMode(mode session.Mode) {
	if d.mode == mode {
		return
	}
	anchor := d.nearestSourceLine()
	d.mode = mode
	d.render()
	d.setContent()
	if anchor >= 0 {
		d.NavigateTo(anchor, mode)
	}
}

// ScrollBy moves the viewport by delta rows.
func (d *docView) ScrollBy(delta int) {
	d.vp.SetYOffset(clamp(d.vp.YOffset+delta, 0, d.maxOffset()))
}

// GotoTop and GotoBottom jump to the document edges.
func (d *docView) GotoTop()    { d.vp.GotoTop() }
func (d *docView) GotoBottom() { d.vp.SetYOffset(d.maxOffset()) }

// MoveCursor moves the raw-mode cursor by delta lines, scrolling to keep it
// visible.
func (d *docView) MoveCursor(delta int) {
	if d.mode != session.ModeRaw || len(d.rawLines) == 0 {
		return
	}
	d.cursor = clamp(d.cursor+delta, 0, len(d.rawLines)-1)
	if d.cursor < d.vp.YOffset {
		d.vp.SetYOffset(d.cursor)
	} else if d.cursor >= d.vp.YOffset+d.vp.Height {
		d.vp.SetYOffset(d.cursor - d.vp.Height + 1)
	}
	d.setContent()
}

// View renders the document area.
func (d *docView) View() string { return d.vp.View() }

// LineCount returns the total line count of the current mode's content.
func (d *docView) LineCount() int {
	if d.mode == session.ModeRaw {
		return len(d.rawLines)
	}
	return len(d.rendered)
}

// Mode implements session.DocumentView.
func (d *docView) Mode() session.Mode { return d.mode }

// Headings implements session.DocumentView.
func (d *docView) Headings() ([]heading.Record, bool) {
	if d.src == nil {
		return nil, false
	}
	return d.records, true
}

// Scroll implements session.DocumentView.
func (d *docView) Scroll() (int, int, bool) {
	if d.vp.Height <= 0 {
		return 0, 0, false
	}
	return d.vp.YOffset, d.vp.Height, true
}

// ViewportRect implements session.DocumentView.
func (d *docView) ViewportRect() (session.Rect, bool) {
	if d.width <= 0 {
		return session.Rect{}, false
	}
	return session.Rect{Left: 0, Top: 0, Width: d.width, Height: d.height}, true
}

// ContentRect implements session.DocumentView.
func (d *docView) ContentRect() (session.Rect, bool) {
	if d.width <= 0 {
		return session.Rect{}, false
	}
	avail := d.width - d.panelSpace
	content := avail
	if content > maxContentWidth {
		content = maxContentWidth
	}
	return session.Rect{Left: d.leftMargin, Top: 0, Width: content, Height: d.height}, true
}

// OffsetToLine implements session.DocumentView. Raw content renders one
// source line per row, so the mapping is the identity clamped to the
// document.
func (d *docView) OffsetToLine(offset int) (int, bool) {
	if d.mode != session.ModeRaw || len(d.rawLines) == 0 {
		return 0, false
	}
	return clamp(offset, 0, len(d.rawLines)-1), true
}

// CursorLine implements session.DocumentView.
func (d *docView) CursorLine() (int, bool) {
	if d.mode != session.ModeRaw {
		return 0, false
	}
	return d.cursor, true
}

// VisibleHeadings implements session.DocumentView. Only headings near the
// viewport are reported, mirroring virtualized rendering: callers cannot
// assume the full set is present.
func (d *docView) VisibleHeadings() []resolver.RenderedHeading {
	if d.mode != session.ModeRendered {
		return nil
	}
	lo := d.vp.YOffset - d.vp.Height
	hi := d.vp.YOffset + 2*d.vp.Height
	var out []resolver.RenderedHeading
	for _, rh := range d.renderedIndex {
		if rh.Top >= lo && rh.Top <= hi {
			out = append(out, rh.RenderedHeading)
		}
	}
	return out
}

// NavigateTo implements session.DocumentView.
func (d *docView) NavigateTo(sourceLine int, mode session.Mode) {
	switch mode {
	case session.ModeRaw:
		d.cursor = clamp(sourceLine, 0, len(d.rawLines)-1)
		d.vp.SetYOffset(clamp(sourceLine, 0, d.maxOffset()))
		d.setContent()
	case session.ModeRendered:
		top, ok := d.renderedTopFor(sourceLine)
		if !ok {
			return
		}
		d.vp.SetYOffset(clamp(top, 0, d.maxOffset()))
	}
}

// renderedTopFor returns the rendered row of the heading at sourceLine, or
// of the closest heading above it.
func (d *docView) renderedTopFor(sourceLine int) (int, bool) {
	best, found := 0, false
	for _, rh := range d.renderedIndex {
		if rh.SourceLine > sourceLine {
			break
		}
		best, found = rh.Top, true
	}
	return best, found
}

// nearestSourceLine returns the source line of the heading closest above the
// current scroll position, for keeping position across mode switches.
func (d *docView) nearestSourceLine() int {
	switch d.mode {
	case session.ModeRaw:
		line := -1
		for _, r := range d.records {
			if r.SourceLine > d.vp.YOffset {
				break
			}
			line = r.SourceLine
		}
		return line
	default:
		line := -1
		for _, rh := range d.renderedIndex {
			if rh.Top > d.vp.YOffset {
				break
			}
			line = rh.SourceLine
		}
		return line
	}
}

// render refreshes the rendered-mode output and its heading index. Raw mode
// needs no processing.
func (d *docView) render() {
	if d.src == nil || d.vp.Width <= 0 {
		return
	}

	wrap := d.wordWrap
	if avail := d.vp.Width - 2; avail > 0 && avail < wrap {
		wrap = avail
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		debug.Log("docview: glamour init failed: %v", err)
		return
	}
	out, err := r.Render(string(d.src))
	if err != nil {
		debug.Log("docview: render failed: %v", err)
		return
	}

	d.rendered = strings.Split(strings.TrimRight(out, "\n"), "\n")
	d.renderedIndex = d.indexRenderedHeadings()
}

// indexRenderedHeadings locates each extracted heading's visible text within
// the rendered output. Headings glamour dropped or restyled beyond
// recognition are simply absent from the index, which downstream code
// treats exactly like virtualized-away content.
func (d *docView) indexRenderedHeadings() []renderedHeading {
	var out []renderedHeading
	next := 0
	for _, rec := range d.records {
		label := heading.StripMarkup(rec.Text)
		if label == "" {
			continue
		}
		for i := next; i < len(d.rendered); i++ {
			if strings.Contains(ansi.Strip(d.rendered[i]), label) {
				out = append(out, renderedHeading{
					RenderedHeading: resolver.RenderedHeading{
						Level: rec.Level,
						Text:  label,
						Top:   i,
					},
					SourceLine: rec.SourceLine,
				})
				next = i + 1
				break
			}
		}
	}
	return out
}

// setContent pushes the current mode's content into the viewport.
func (d *docView) setContent() {
	pad := strings.Repeat(" ", d.leftMargin)

	switch d.mode {
	case session.ModeRaw:
		rows := make([]string, len(d.rawLines))
		for i, line := range d.rawLines {
			if i == d.cursor {
				rows[i] = pad + d.cursorStyle.Render(line)
			} else {
				rows[i] = pad + line
			}
		}
		d.vp.SetContent(strings.Join(rows, "\n"))
	case session.ModeRendered:
		if d.leftMargin == 0 {
			d.vp.SetContent(strings.Join(d.rendered, "\n"))
			return
		}
		rows := make([]string, len(d.rendered))
		for i, line := range d.rendered {
			rows[i] = pad + line
		}
		d.vp.SetContent(strings.Join(rows, "\n"))
	}
}

func (d *docView) maxOffset() int {
	max := d.LineCount() - d.vp.Height
	if max < 0 {
		return 0
	}
	return max
}
