package anki

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// fieldReplacer neutralizes the two character classes that break the
// exported formats: tabs delimit TSV columns, newlines delimit rows.
var fieldReplacer = strings.NewReplacer(
	"\r\n", "<br>",
	"\r", "<br>",
	"\n", "<br>",
	"\t", " ",
)

// Sanitize makes free text safe for embedding in a TSV field or an HTML
// fragment. Idempotent; every character other than tabs and newlines passes
// through untouched.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}
	return fieldReplacer.Replace(text)
}

var htmlPolicy = bluemonday.UGCPolicy()

// CleanHTML strips unsafe markup from user-supplied card text while keeping
// basic formatting. Upstream generators occasionally emit stray tags.
func CleanHTML(text string) string {
	if text == "" {
		return ""
	}
	return htmlPolicy.Sanitize(text)
}
