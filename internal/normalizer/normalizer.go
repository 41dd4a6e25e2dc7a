// Package normalizer turns raw fetched bytes into a stable textual form for
// change comparison. Markup-only churn (attribute reordering, whitespace,
// comments, script/style edits) must not alter the normalized output.
package normalizer

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Normalize extracts the visible text of an HTML document and collapses its
// whitespace. It is total: malformed or non-HTML input degrades to plain-text
// whitespace collapsing rather than erroring, since an unparseable response
// is still meaningful content to a future comparison.
func Normalize(raw []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return collapseWhitespace(string(raw))
	}

	doc.Find("head, script, style, noscript, template").Remove()

	return collapseWhitespace(doc.Text())
}

// Key returns the comparison key for raw content: the SHA-256 hex digest of
// its normalized text.
func Key(raw []byte) string {
	return KeyOf(Normalize(raw))
}

// KeyOf returns the comparison key for already-normalized text.
func KeyOf(normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// collapseWhitespace trims every line, collapses runs of inner whitespace to
// a single space, drops blank lines, and preserves line order.
func collapseWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		kept = append(kept, strings.Join(fields, " "))
	}

	return strings.Join(kept, "\n")
}
