// Package differ renders the textual difference between two normalized
// content versions for inclusion in change notifications.
package differ

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Result holds a rendered diff and its line statistics.
type Result struct {
	Text         string
	LinesAdded   int
	LinesRemoved int
	Truncated    bool
}

// Differ generates line-oriented diffs between content versions.
type Differ struct {
	dmp      *diffmatchpatch.DiffMatchPatch
	maxBytes int
}

// New creates a Differ. Inputs whose combined size exceeds maxBytes are not
// diffed; the result carries Truncated instead so notification size stays
// bounded.
func New(maxBytes int) *Differ {
	return &Differ{
		dmp:      diffmatchpatch.New(),
		maxBytes: maxBytes,
	}
}

// Render diffs previous against current line by line. Removed lines are
// prefixed with "- ", added lines with "+ "; unchanged lines are omitted.
func (d *Differ) Render(previous, current string) Result {
	if d.maxBytes > 0 && len(previous)+len(current) > d.maxBytes {
		return Result{
			Text:      "(content too large to diff)",
			Truncated: true,
		}
	}

	// Line tokens include their trailing newline, so a final line without
	// one would never match its newline-terminated counterpart.
	previous = ensureTrailingNewline(previous)
	current = ensureTrailingNewline(current)

	prevChars, currChars, lineArray := d.dmp.DiffLinesToChars(previous, current)
	diffs := d.dmp.DiffMain(prevChars, currChars, false)
	diffs = d.dmp.DiffCharsToLines(diffs, lineArray)

	var result Result
	var sb strings.Builder

	for _, diff := range diffs {
		var prefix string
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		default:
			continue
		}

		for _, line := range splitDiffLines(diff.Text) {
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteByte('\n')
			if diff.Type == diffmatchpatch.DiffInsert {
				result.LinesAdded++
			} else {
				result.LinesRemoved++
			}
		}
	}

	result.Text = strings.TrimRight(sb.String(), "\n")
	return result
}

func ensureTrailingNewline(text string) string {
	if text != "" && !strings.HasSuffix(text, "\n") {
		return text + "\n"
	}
	return text
}

// splitDiffLines splits a diff span into lines, dropping the trailing empty
// element produced by a final newline.
func splitDiffLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
