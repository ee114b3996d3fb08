package heading

import "regexp"

// Inline markup patterns, applied in a fixed order: images before generic
// links (the image syntax is a superset of the link syntax), then emphasis,
// then code spans.
var (
	imageRe  = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	linkRe   = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	strongRe = regexp.MustCompile(`(\*\*|__)([^*_]+)(\*\*|__)`)
	emphRe   = regexp.MustCompile(`([*_])([^*_]+)([*_])`)
	codeRe   = regexp.MustCompile("`([^`]*)`")
)

// StripMarkup reduces a heading's inline markup to plain label text:
// ![alt](target) -> alt, [label](target) -> label, emphasis markers and
// inline-code backticks removed keeping the inner text. It is intentionally
// not a full markdown renderer; headings only carry a small markup subset
// and anything unrecognized passes through untouched.
func StripMarkup(s string) string {
	s = imageRe.ReplaceAllString(s, "$1")
	s = linkRe.ReplaceAllString(s, "$1")
	s = strongRe.ReplaceAllString(s, "$2")
	s = emphRe.ReplaceAllString(s, "$2")
	s = codeRe.ReplaceAllString(s, "$1")
	return s
}
