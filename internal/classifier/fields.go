package classifier

import (
	"net/url"
	"path"
	"strings"
	"time"
)

// Alias lists per target attribute. Raw keys match case-insensitively; the
// first alias with a present value wins per attribute.
var (
	titleAliases     = []string{"title", "name", "headline", "subject", "header"}
	stableIDAliases  = []string{"id", "identifier", "uuid", "slug", "permalink"}
	createdAliases   = []string{"created", "created_at", "date", "published", "published_at"}
	modifiedAliases  = []string{"modified", "modified_at", "updated", "updated_at", "edited"}
	folderAliases    = []string{"folder", "category", "section", "path", "group"}
	sourceURLAliases = []string{"source", "url", "link", "href", "origin"}
	tagsAliases      = []string{"tags", "keywords", "labels", "categories"}
)

// metadataLayouts are the timestamp layouts tried, in order, for created and
// modified front-matter values.
var metadataLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// mapFields builds normalized metadata from raw front-matter fields,
// applying the filename-derived title and path-derived stable-id fallbacks.
// Field errors (empty requireds, created after modified, malformed URL) fail
// the document.
func mapFields(fields map[string]Value, in Input) (Metadata, error) {
	lower := make(map[string]Value, len(fields))
	for k, v := range fields {
		lower[strings.ToLower(k)] = v
	}

	md := Metadata{
		Title:     lookupString(lower, titleAliases),
		StableID:  lookupString(lower, stableIDAliases),
		Folder:    lookupString(lower, folderAliases),
		SourceURL: lookupString(lower, sourceURLAliases),
		Tags:      lookupTags(lower),
	}

	if md.Title == "" {
		md.Title = titleFromFilename(in.Filename)
	}

	if md.StableID == "" {
		md.StableID = relativeIdentity(in.Filename, in.BasePath)
	}

	if md.Folder == "" {
		md.Folder = folderFromPath(in.Filename, in.BasePath)
	}

	var err error
	if md.Created, err = lookupTime(lower, createdAliases); err != nil {
		return Metadata{}, err
	}

	if md.Modified, err = lookupTime(lower, modifiedAliases); err != nil {
		return Metadata{}, err
	}

	if md.Title == "" {
		return Metadata{}, fieldError("title", "empty after mapping and fallback")
	}

	if md.StableID == "" {
		return Metadata{}, fieldError("stable-id", "empty after mapping and fallback")
	}

	if md.Created != nil && md.Modified != nil && md.Created.After(*md.Modified) {
		return Metadata{}, fieldError("created", "after modified")
	}

	if md.SourceURL != "" {
		if _, err := url.ParseRequestURI(md.SourceURL); err != nil {
			return Metadata{}, fieldError("source-url", "malformed URL "+md.SourceURL)
		}
	}

	return md, nil
}

// lookupString returns the first present alias value rendered as a string.
func lookupString(fields map[string]Value, aliases []string) string {
	for _, alias := range aliases {
		v, ok := fields[alias]
		if !ok || !v.IsPresent() {
			continue
		}

		switch v.Kind {
		case KindString:
			return strings.TrimSpace(v.Str)
		case KindNumber:
			return trimFloat(v.Num)
		case KindList:
			if len(v.List) > 0 {
				return strings.TrimSpace(v.List[0])
			}
		}
	}

	return ""
}

// lookupTime parses the first present alias value as a timestamp.
func lookupTime(fields map[string]Value, aliases []string) (*time.Time, error) {
	raw := lookupString(fields, aliases)
	if raw == "" {
		return nil, nil
	}

	for _, layout := range metadataLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}

	return nil, fieldError(aliases[0], "unparsable timestamp "+raw)
}

// lookupTags accepts a native list or a single string split on the first
// delimiter found among comma, semicolon, pipe, and space, falling back to a
// single-tag list.
func lookupTags(fields map[string]Value) []string {
	for _, alias := range tagsAliases {
		v, ok := fields[alias]
		if !ok || !v.IsPresent() {
			continue
		}

		switch v.Kind {
		case KindList:
			return trimAll(v.List)
		case KindString:
			return splitTags(v.Str)
		case KindNumber:
			return []string{trimFloat(v.Num)}
		}
	}

	return nil
}

// splitTags splits on the first delimiter found among comma, semicolon,
// pipe, and space.
func splitTags(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	for _, delim := range []string{",", ";", "|", " "} {
		if strings.Contains(raw, delim) {
			return trimAll(strings.Split(raw, delim))
		}
	}

	return []string{raw}
}

func trimAll(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}

// titleFromFilename derives a title from the base filename sans extension.
func titleFromFilename(filename string) string {
	base := path.Base(filepathToSlash(filename))

	return strings.TrimSuffix(base, path.Ext(base))
}

// relativeIdentity computes a stable identity from the path relative to the
// base, so documents sharing a filename in different folders stay distinct.
func relativeIdentity(filename, basePath string) string {
	name := filepathToSlash(filename)

	if basePath != "" {
		base := strings.TrimSuffix(filepathToSlash(basePath), "/") + "/"
		name = strings.TrimPrefix(name, base)
	}

	return strings.TrimPrefix(name, "/")
}

// folderFromPath derives the default folder from the containing directory.
func folderFromPath(filename, basePath string) string {
	dir := path.Dir(relativeIdentity(filename, basePath))
	if dir == "." || dir == "/" {
		return ""
	}

	return dir
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
