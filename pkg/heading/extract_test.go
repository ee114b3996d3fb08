package heading

import (
	"strings"
	"testing"
)

func TestExtract(t *testing.T) {
	src := strings.Join([]string{
		"# Intro",            // line 0
		"",                   // 1
		"Some text here.",    // 2
		"",                   // 3
		"## Setup",           // 4
		"",                   // 5
		"More text.",         // 6
		"",                   // 7
		"### Details",        // 8
		"",                   // 9
		"## Usage",           // 10
		"",                   // 11
		"Final paragraph.",   // 12
	}, "\n")

	got := Extract([]byte(src))

	want := []Record{
		{Level: 1, Text: "Intro", SourceLine: 0},
		{Level: 2, Text: "Setup", SourceLine: 4},
		{Level: 3, Text: "Details", SourceLine: 8},
		{Level: 2, Text: "Usage", SourceLine: 10},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestExtractKeepsInlineMarkup(t *testing.T) {
	got := Extract([]byte("## **Bold** and [linked](#x) title\n"))
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if got[0].Text != "**Bold** and [linked](#x) title" {
		t.Errorf("text = %q, markup should be preserved at extraction", got[0].Text)
	}
}

func TestExtractEmpty(t *testing.T) {
	if got := Extract(nil); len(got) != 0 {
		t.Errorf("Extract(nil) = %v, want empty", got)
	}
	if got := Extract([]byte("no headings\njust prose\n")); len(got) != 0 {
		t.Errorf("Extract(prose) = %v, want empty", got)
	}
}

func TestExtractDuplicateHeadings(t *testing.T) {
	src := "# A\n\n## Same\n\ntext\n\n## Same\n"
	got := Extract([]byte(src))
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	if got[1].Text != "Same" || got[2].Text != "Same" {
		t.Errorf("duplicate headings must both be extracted: %+v", got)
	}
	if got[1].SourceLine == got[2].SourceLine {
		t.Errorf("duplicates must keep distinct source lines: %+v", got)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	src := []byte("# One\n\n## Two\n")
	a := Extract(src)
	b := Extract(src)
	if len(a) != len(b) {
		t.Fatalf("repeated extraction differs: %v vs %v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("record %d differs across extractions: %+v vs %+v", i, a[i], b[i])
		}
	}
}
