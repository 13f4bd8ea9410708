// Package patterns holds the fixed set of compiled text matchers shared by
// the classifier, relationship extractor, and table mapper. Matchers are
// compiled once at init and never re-specified per call.
package patterns

import (
	"path"
	"regexp"
	"strings"
)

// Reference syntaxes.
var (
	// WikiLink matches [[target]] and [[target|display]] spans.
	WikiLink = regexp.MustCompile(`\[\[([^\[\]]+)\]\]`)

	// Tag matches a standalone hashtag whose name starts with a letter,
	// bounded by whitespace or string edges.
	Tag = regexp.MustCompile(`(?:^|\s)#([A-Za-z][0-9A-Za-z_/-]*)`)

	// InlineLink matches [text](target) spans, images included. Callers
	// that need plain links must check the preceding byte for '!'.
	InlineLink = regexp.MustCompile(`\[([^\]]*)\]\(([^)\s]+)\)`)

	// ImageRef matches ![alt](path) spans.
	ImageRef = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)\)`)
)

// Dialect evidence features.
var (
	// Callout matches Obsidian callout-block markers such as "> [!note]".
	Callout = regexp.MustCompile(`(?m)^>\s*\[![A-Za-z]+\]`)

	// TaskList matches GitHub task-list markers.
	TaskList = regexp.MustCompile(`(?m)^\s*[-*+]\s\[(?: |x|X)\]\s`)

	// Strikethrough matches ~~span~~ text.
	Strikethrough = regexp.MustCompile(`~~[^~\n]+~~`)

	// FencedCodeLang matches a fenced code block opener carrying a
	// language tag.
	FencedCodeLang = regexp.MustCompile("(?m)^```[A-Za-z][0-9A-Za-z+#-]*\\s*$")

	// Autolink matches bare http(s) URLs.
	Autolink = regexp.MustCompile(`https?://[^\s<>()]+`)
)

// Markup known to enable script or markup injection. The validator records
// a match as a fatal issue; the sanitizer substitutes it away.
var Dangerous = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`),
	regexp.MustCompile(`(?i)<script\b[^>]*>`),
	regexp.MustCompile(`(?is)<iframe\b[^>]*>.*?</iframe>`),
	regexp.MustCompile(`(?i)<iframe\b[^>]*>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)vbscript:`),
	regexp.MustCompile(`(?i)data:text/html`),
}

// Front-matter block delimiters, checked in this priority order.
const (
	YAMLDelimiter = "---"
	TOMLDelimiter = "+++"
	JSONOpen      = "{"
)

// tableSeparatorCell matches one cell of a table separator row: dashes with
// optional alignment colons and surrounding spaces.
var tableSeparatorCell = regexp.MustCompile(`^:?-+:?$`)

// IsTableRow reports whether a line looks like a pipe-delimited table row.
func IsTableRow(line string) bool {
	trimmed := strings.TrimSpace(line)

	return strings.Contains(trimmed, "|") && trimmed != "|"
}

// IsSeparatorRow reports whether a line is a table separator: every
// non-empty cell consists only of dashes, colons, and spaces, with at least
// one dash per cell.
func IsSeparatorRow(line string) bool {
	if !IsTableRow(line) {
		return false
	}

	cells := SplitCells(line)
	if len(cells) == 0 {
		return false
	}

	sawDash := false

	for _, cell := range cells {
		if cell == "" {
			continue
		}

		if !tableSeparatorCell.MatchString(cell) {
			return false
		}

		sawDash = true
	}

	return sawDash
}

// SplitCells splits a pipe-delimited row into trimmed cell values, dropping
// the empty leading/trailing cells produced by boundary pipes.
func SplitCells(line string) []string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")

	parts := strings.Split(trimmed, "|")
	cells := make([]string, len(parts))

	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}

	return cells
}

// imageExtensions are file extensions treated as image references rather
// than plain links or attachments.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".svg":  true,
	".webp": true,
	".bmp":  true,
	".tiff": true,
	".ico":  true,
	".heic": true,
}

// HasImageExtension reports whether target ends in a known image extension.
func HasImageExtension(target string) bool {
	return imageExtensions[strings.ToLower(path.Ext(stripFragment(target)))]
}

// Extension returns the lower-cased file extension of target without the
// leading dot, or "" when absent.
func Extension(target string) string {
	ext := strings.ToLower(path.Ext(stripFragment(target)))

	return strings.TrimPrefix(ext, ".")
}

// stripFragment removes a trailing #fragment or ?query from a link target.
func stripFragment(target string) string {
	if i := strings.IndexAny(target, "#?"); i >= 0 {
		return target[:i]
	}

	return target
}
