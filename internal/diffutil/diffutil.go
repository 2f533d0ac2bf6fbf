package diffutil

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Summary describes how a rendered schema document changed between two
// enables: how many key elements appeared and disappeared. A binding
// whose sequences changed counts on both sides.
type Summary struct {
	Added   int
	Removed int
}

// Changed reports whether the documents differ in their key elements.
func (s Summary) Changed() bool {
	return s.Added > 0 || s.Removed > 0
}

func (s Summary) String() string {
	if !s.Changed() {
		return "no binding changes"
	}
	return fmt.Sprintf("%d binding(s) added or changed, %d removed", s.Added, s.Removed)
}

// Compare diffs two rendered schema documents line-wise and counts the
// key elements on the inserted and deleted sides.
func Compare(original, modified string) Summary {
	dmp := diffmatchpatch.New()

	// Line-mode diff: map lines to runes, diff, map back.
	chars1, chars2, lines := dmp.DiffLinesToChars(original, modified)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(chars1, chars2, false), lines)

	var summary Summary
	for _, d := range diffs {
		n := countKeyElements(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			summary.Added += n
		case diffmatchpatch.DiffDelete:
			summary.Removed += n
		}
	}
	return summary
}

// countKeyElements counts schema key openings in a diff chunk so the
// summary talks about bindings rather than raw lines.
func countKeyElements(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, "<key ") {
			count++
		}
	}
	return count
}
