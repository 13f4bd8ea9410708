package classifier

import (
	"github.com/sirupsen/logrus"

	"github.com/latticekb/lattice/internal/patterns"
)

// Evidence increments for dialect scoring. CommonMark starts with the base
// score and wins all ties; the other dialects must accumulate evidence.
const (
	baseCommonMark = 1
	incLarge       = 3
	incMedium      = 2
	incSmall       = 1

	// autolinkCluster is the minimum number of bare autolinks counted as
	// GitHub-flavored evidence.
	autolinkCluster = 2
)

// Classifier turns raw document text into a classified document. It is
// stateless and safe for concurrent use.
type Classifier struct {
	maxBytes   int
	maxNesting int
	log        *logrus.Logger
}

// Config bounds classifier resource guards. Zero values take the defaults.
type Config struct {
	MaxBytes   int
	MaxNesting int
}

// New creates a Classifier.
func New(cfg Config, log *logrus.Logger) *Classifier {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}

	if cfg.MaxNesting <= 0 {
		cfg.MaxNesting = DefaultMaxNesting
	}

	return &Classifier{maxBytes: cfg.MaxBytes, maxNesting: cfg.MaxNesting, log: log}
}

// Classify validates the input, splits off and parses front matter, maps
// metadata fields, scores the dialect, and sanitizes the body. Failures
// follow the format/validation/field taxonomy; a failed document produces
// nothing.
func (c *Classifier) Classify(in Input) (*Document, error) {
	if err := c.validate(in.Content); err != nil {
		return nil, err
	}

	fields, body, format, err := detectFrontmatter(in.Content)
	if err != nil {
		return nil, err
	}

	md, err := mapFields(fields, in)
	if err != nil {
		return nil, err
	}

	dialect := detectDialect(body)

	doc := &Document{
		Dialect:           dialect,
		FrontmatterFormat: format,
		Metadata:          md,
		Body:              body,
		SanitizedBody:     sanitize(body),
	}

	c.log.WithFields(logrus.Fields{
		"dialect":     dialect,
		"frontmatter": format,
		"title":       md.Title,
		"tags":        len(md.Tags),
	}).Debug("classified document")

	return doc, nil
}

// detectDialect runs the weighted-evidence scorer. This is deliberately a
// heuristic, not a grammar: the contract guarantees a consistent,
// deterministic choice for identical input, not semantic correctness.
func detectDialect(body string) Dialect {
	commonmark := baseCommonMark
	github := 0
	obsidian := 0

	if patterns.WikiLink.MatchString(body) {
		obsidian += incLarge
	}

	if patterns.Tag.MatchString(body) {
		obsidian += incMedium
	}

	if patterns.Callout.MatchString(body) {
		obsidian += incLarge
	}

	if hasWellFormedTable(body) {
		github += incLarge
	}

	if patterns.TaskList.MatchString(body) {
		github += incSmall
	}

	if patterns.Strikethrough.MatchString(body) {
		github += incSmall
	}

	if patterns.FencedCodeLang.MatchString(body) {
		github += incSmall
	}

	if len(patterns.Autolink.FindAllStringIndex(body, autolinkCluster)) >= autolinkCluster {
		github += incSmall
	}

	// Highest score wins; ties resolve toward CommonMark, then Obsidian
	// over GitHub, keeping the choice deterministic.
	switch {
	case commonmark >= obsidian && commonmark >= github:
		return DialectCommonMark
	case obsidian >= github:
		return DialectObsidian
	default:
		return DialectGitHub
	}
}

// hasWellFormedTable reports a pipe-delimited row immediately followed by a
// dash separator row.
func hasWellFormedTable(body string) bool {
	lines := splitLines(body)

	for i := 0; i+1 < len(lines); i++ {
		if patterns.IsTableRow(lines[i]) && patterns.IsSeparatorRow(lines[i+1]) {
			return true
		}
	}

	return false
}

func splitLines(s string) []string {
	var lines []string

	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			line := s[start:i]
			if len(line) > 0 && line[len(line)-1] == '\r' {
				line = line[:len(line)-1]
			}
			lines = append(lines, line)
			start = i + 1
		}
	}

	return append(lines, s[start:])
}
