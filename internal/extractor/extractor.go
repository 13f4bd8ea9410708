// Package extractor finds typed references inside a document body and
// materializes them as deduplicated, correctly-directed graph edges.
package extractor

import (
	"strings"

	"github.com/latticekb/lattice/internal/classifier"
	"github.com/latticekb/lattice/internal/patterns"
)

// RelType identifies the kind of reference found in a body.
type RelType string

// Relationship types.
const (
	RelWikiLink     RelType = "wiki-link"
	RelTag          RelType = "tag"
	RelMarkdownLink RelType = "markdown-link"
	RelImage        RelType = "image-reference"
	RelAttachment   RelType = "attachment"
)

// Fixed type-specific weights.
var relWeights = map[RelType]float64{
	RelWikiLink:     1.0,
	RelMarkdownLink: 0.8,
	RelTag:          0.5,
	RelAttachment:   0.4,
	RelImage:        0.3,
}

// Weight returns the fixed edge weight for a relationship type.
func (t RelType) Weight() float64 {
	return relWeights[t]
}

// Relationship is a reference extracted from a document body, before edge
// materialization.
type Relationship struct {
	Type             RelType
	SourceID         string
	TargetIdentifier string
	DisplayText      string
	Weight           float64
}

// Extract scans the sanitized body once per relationship type using
// independent pattern passes. Passes may overlap on the same text; the
// result is a flat list in pass order.
func Extract(body string, dialect classifier.Dialect, sourceID string) []Relationship {
	var rels []Relationship

	rels = append(rels, extractWikiLinks(body, sourceID)...)
	rels = append(rels, extractTags(body, sourceID)...)
	rels = append(rels, extractInlineLinks(body, dialect, sourceID)...)
	rels = append(rels, extractImages(body, sourceID)...)

	return rels
}

// extractWikiLinks handles [[target]] and [[target|display]]. The span is
// split on the first '|': left side (or the whole span) is the target
// identifier, right side is display text.
func extractWikiLinks(body, sourceID string) []Relationship {
	var rels []Relationship

	for _, m := range patterns.WikiLink.FindAllStringSubmatch(body, -1) {
		span := m[1]
		display := ""
		target := span

		if i := strings.Index(span, "|"); i >= 0 {
			display = strings.TrimSpace(span[i+1:])
			target = span[:i]
		}

		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}

		rels = append(rels, Relationship{
			Type:             RelWikiLink,
			SourceID:         sourceID,
			TargetIdentifier: target,
			DisplayText:      display,
			Weight:           RelWikiLink.Weight(),
		})
	}

	return rels
}

// extractTags captures bare hashtag names without the marker.
func extractTags(body, sourceID string) []Relationship {
	var rels []Relationship

	for _, m := range patterns.Tag.FindAllStringSubmatch(body, -1) {
		rels = append(rels, Relationship{
			Type:             RelTag,
			SourceID:         sourceID,
			TargetIdentifier: m[1],
			Weight:           RelTag.Weight(),
		})
	}

	return rels
}

// extractInlineLinks handles [text](target) spans, splitting them into
// plain references and attachments by target extension. Plain references
// are only emitted for dialects other than the cross-document-reference
// dialect; attachments are always emitted.
func extractInlineLinks(body string, dialect classifier.Dialect, sourceID string) []Relationship {
	var rels []Relationship

	for _, idx := range patterns.InlineLink.FindAllStringSubmatchIndex(body, -1) {
		// Skip image spans; they belong to the image pass.
		if idx[0] > 0 && body[idx[0]-1] == '!' {
			continue
		}

		text := body[idx[2]:idx[3]]
		target := strings.TrimSpace(body[idx[4]:idx[5]])

		if target == "" || patterns.HasImageExtension(target) {
			continue
		}

		if ext := patterns.Extension(target); ext != "" {
			rels = append(rels, Relationship{
				Type:             RelAttachment,
				SourceID:         sourceID,
				TargetIdentifier: target,
				DisplayText:      strings.TrimSpace(text),
				Weight:           RelAttachment.Weight(),
			})

			continue
		}

		if dialect == classifier.DialectObsidian {
			continue
		}

		rels = append(rels, Relationship{
			Type:             RelMarkdownLink,
			SourceID:         sourceID,
			TargetIdentifier: target,
			DisplayText:      strings.TrimSpace(text),
			Weight:           RelMarkdownLink.Weight(),
		})
	}

	return rels
}

// extractImages handles ![alt](path), extracted regardless of dialect.
func extractImages(body, sourceID string) []Relationship {
	var rels []Relationship

	for _, m := range patterns.ImageRef.FindAllStringSubmatch(body, -1) {
		target := strings.TrimSpace(m[2])
		if target == "" {
			continue
		}

		rels = append(rels, Relationship{
			Type:             RelImage,
			SourceID:         sourceID,
			TargetIdentifier: target,
			DisplayText:      strings.TrimSpace(m[1]),
			Weight:           RelImage.Weight(),
		})
	}

	return rels
}
