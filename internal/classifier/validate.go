package classifier

import (
	"fmt"
	"strings"

	"github.com/latticekb/lattice/internal/patterns"
)

// Guardrail defaults.
const (
	// DefaultMaxBytes is the content size ceiling.
	DefaultMaxBytes = 10 << 20 // 10 MB

	// DefaultMaxNesting is the deepest allowed blockquote or indentation
	// nesting. Deeper content is treated as a denial-of-service attempt.
	DefaultMaxNesting = 10
)

// validate runs the guardrails over raw content before any further
// processing. Any accumulated issue fails the whole document; partial
// acceptance is not offered.
func (c *Classifier) validate(content string) error {
	if len(content) > c.maxBytes {
		return validationError(
			[]string{fmt.Sprintf("content is %d bytes, limit %d", len(content), c.maxBytes)},
			ErrContentTooLarge,
		)
	}

	var issues []string

	for _, p := range patterns.Dangerous {
		if loc := p.FindStringIndex(content); loc != nil {
			issues = append(issues, "disallowed markup: "+excerpt(content[loc[0]:loc[1]]))
		}
	}

	if depth := maxNestingDepth(content); depth > c.maxNesting {
		issues = append(issues, fmt.Sprintf("nesting depth %d exceeds limit %d", depth, c.maxNesting))
	}

	if len(issues) > 0 {
		return validationError(issues, nil)
	}

	return nil
}

// sanitize strips dangerous constructs from the body by pattern
// substitution. It operates only on the body, never on already-validated
// metadata.
func sanitize(body string) string {
	for _, p := range patterns.Dangerous {
		body = p.ReplaceAllString(body, "")
	}

	return body
}

// maxNestingDepth returns the deepest blockquote or indentation nesting
// found on any line. Blockquote depth counts leading '>' markers;
// indentation depth counts two-space (or tab) steps.
func maxNestingDepth(content string) int {
	maxDepth := 0

	for _, line := range strings.Split(content, "\n") {
		if d := blockquoteDepth(line); d > maxDepth {
			maxDepth = d
		}

		if d := indentDepth(line); d > maxDepth {
			maxDepth = d
		}
	}

	return maxDepth
}

func blockquoteDepth(line string) int {
	depth := 0

	for _, r := range line {
		switch r {
		case '>':
			depth++
		case ' ', '\t':
		default:
			return depth
		}
	}

	return depth
}

func indentDepth(line string) int {
	if strings.TrimSpace(line) == "" {
		return 0
	}

	width := 0

	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += 2
		default:
			return width / 2
		}
	}

	return 0
}

// excerpt truncates matched markup for inclusion in an issue message.
func excerpt(s string) string {
	const limit = 40

	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > limit {
		return s[:limit] + "..."
	}

	return s
}
