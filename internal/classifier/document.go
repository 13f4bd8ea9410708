// Package classifier detects the authoring dialect and front-matter encoding
// of a document, extracts and normalizes metadata via fuzzy field-name
// mapping, and validates and sanitizes the body.
package classifier

import "time"

// Dialect identifies the authoring convention detected for a document.
type Dialect string

// Dialects, mutually exclusive, chosen by weighted-evidence scoring.
const (
	DialectCommonMark Dialect = "commonmark"
	DialectGitHub     Dialect = "github"
	DialectObsidian   Dialect = "obsidian"
)

// FrontmatterFormat identifies the serialization of a leading metadata block.
type FrontmatterFormat string

// Front-matter formats.
const (
	FrontmatterNone FrontmatterFormat = "none"
	FrontmatterYAML FrontmatterFormat = "yaml"
	FrontmatterTOML FrontmatterFormat = "toml"
	FrontmatterJSON FrontmatterFormat = "json"
)

// Metadata is the normalized front-matter content of a document, with
// caller-supplied fallbacks applied for absent fields.
type Metadata struct {
	Title     string
	StableID  string
	Created   *time.Time
	Modified  *time.Time
	Folder    string
	SourceURL string
	Tags      []string
}

// Document is the transient result of classification. It is not persisted;
// the orchestrator turns it into a graph node.
type Document struct {
	Dialect           Dialect
	FrontmatterFormat FrontmatterFormat
	Metadata          Metadata
	Body              string
	SanitizedBody     string
}

// Input is a raw document handed to the classifier. Filename is used only as
// a title and identity fallback; BasePath anchors the relative identity when
// documents in different folders share a filename.
type Input struct {
	Filename string
	BasePath string
	Content  string
}

// ValueKind discriminates the closed front-matter value variant.
type ValueKind int

// Value kinds.
const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindList
)

// Value is the closed variant produced uniformly by all three front-matter
// parsers, so field mapping pattern-matches instead of type-casting.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	List []string
}

// IsPresent reports whether the value carries usable content.
func (v Value) IsPresent() bool {
	switch v.Kind {
	case KindString:
		return v.Str != ""
	case KindList:
		return len(v.List) > 0
	case KindNumber:
		return true
	default:
		return false
	}
}
