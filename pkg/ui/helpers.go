package ui

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// truncate truncates a string to max visual width (cells), appending an
// ellipsis if anything was cut. Handles wide characters correctly.
func truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth == 1 {
		return runewidth.Truncate(s, 1, "")
	}
	return runewidth.Truncate(s, maxWidth-1, "") + "…"
}

// scrollPercent formats a scroll position as a pager-style percentage.
func scrollPercent(offset, height, total int) string {
	if total <= height || total == 0 {
		return "all"
	}
	if offset <= 0 {
		return "top"
	}
	if offset+height >= total {
		return "bot"
	}
	return fmt.Sprintf("%d%%", offset*100/(total-height))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
