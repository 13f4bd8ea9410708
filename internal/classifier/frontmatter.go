package classifier

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/latticekb/lattice/internal/patterns"
)

// detectFrontmatter checks the three block-delimiter conventions in fixed
// priority order and returns the parsed key/value map, the remaining body,
// and the detected format. Content without a leading delimiter is all body.
// Parse failures are format errors; front matter is never partially applied.
func detectFrontmatter(content string) (map[string]Value, string, FrontmatterFormat, error) {
	switch {
	case hasDelimiterPrefix(content, patterns.YAMLDelimiter):
		fields, body, err := parseDelimited(content, patterns.YAMLDelimiter, unmarshalYAML)
		if err != nil {
			return nil, "", FrontmatterYAML, formatError(FrontmatterYAML, err)
		}

		return fields, body, FrontmatterYAML, nil

	case hasDelimiterPrefix(content, patterns.TOMLDelimiter):
		fields, body, err := parseDelimited(content, patterns.TOMLDelimiter, unmarshalTOML)
		if err != nil {
			return nil, "", FrontmatterTOML, formatError(FrontmatterTOML, err)
		}

		return fields, body, FrontmatterTOML, nil

	case strings.HasPrefix(strings.TrimLeft(content, " \t"), patterns.JSONOpen):
		fields, body, err := parseJSONBlock(content)
		if err != nil {
			return nil, "", FrontmatterJSON, formatError(FrontmatterJSON, err)
		}

		return fields, body, FrontmatterJSON, nil
	}

	return nil, content, FrontmatterNone, nil
}

// hasDelimiterPrefix reports whether content opens with the delimiter on a
// line of its own.
func hasDelimiterPrefix(content, delim string) bool {
	return strings.HasPrefix(content, delim+"\n") || strings.HasPrefix(content, delim+"\r\n")
}

// parseDelimited extracts a block bounded by a delimiter pair and hands the
// raw block to the format-specific unmarshaller.
func parseDelimited(content, delim string, unmarshal func(string) (map[string]any, error)) (map[string]Value, string, error) {
	start := len(delim)
	if len(content) > start && content[start] == '\r' {
		start++
	}

	if len(content) > start && content[start] == '\n' {
		start++
	}

	closeIdx := closingDelimiterIndex(content[start:], delim)
	if closeIdx == -1 {
		return nil, "", fmt.Errorf("no closing %s delimiter", delim)
	}

	block := content[start : start+closeIdx]
	block = strings.TrimSuffix(block, "\r")

	bodyStart := start + closeIdx + 1 + len(delim)
	for bodyStart < len(content) && (content[bodyStart] == '\n' || content[bodyStart] == '\r') {
		bodyStart++
	}

	body := ""
	if bodyStart < len(content) {
		body = content[bodyStart:]
	}

	raw, err := unmarshal(block)
	if err != nil {
		return nil, "", err
	}

	return normalizeFields(raw), body, nil
}

// closingDelimiterIndex finds the newline beginning a line that holds only
// the delimiter. Lines merely prefixed by it, like "----" or "---foo", stay
// inside the block.
func closingDelimiterIndex(s, delim string) int {
	from := 0
	for {
		idx := strings.Index(s[from:], "\n"+delim)
		if idx == -1 {
			return -1
		}

		idx += from
		rest := s[idx+1+len(delim):]
		if rest == "" || rest[0] == '\n' || (rest[0] == '\r' && (len(rest) == 1 || rest[1] == '\n')) {
			return idx
		}

		from = idx + 1
	}
}

func unmarshalYAML(block string) (map[string]any, error) {
	var raw map[string]any
	if err := yaml.Unmarshal([]byte(block), &raw); err != nil {
		return nil, fmt.Errorf("parsing YAML front matter: %w", err)
	}

	return raw, nil
}

func unmarshalTOML(block string) (map[string]any, error) {
	var raw map[string]any
	if err := toml.Unmarshal([]byte(block), &raw); err != nil {
		return nil, fmt.Errorf("parsing TOML front matter: %w", err)
	}

	return raw, nil
}

// parseJSONBlock scans for the close of a leading brace block, tracking
// nesting depth and string state, then unmarshals it. An unterminated
// object fails the whole document.
func parseJSONBlock(content string) (map[string]Value, string, error) {
	trimmed := strings.TrimLeft(content, " \t")
	offset := len(content) - len(trimmed)

	end := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(trimmed); i++ {
		ch := trimmed[i]

		switch {
		case escaped:
			escaped = false
		case inString && ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				end = i
			}
		}

		if end >= 0 {
			break
		}
	}

	if end < 0 {
		return nil, "", fmt.Errorf("unterminated JSON front matter object")
	}

	block := trimmed[:end+1]

	var raw map[string]any
	if err := json.Unmarshal([]byte(block), &raw); err != nil {
		return nil, "", fmt.Errorf("parsing JSON front matter: %w", err)
	}

	body := content[offset+end+1:]
	body = strings.TrimLeft(body, "\r\n")

	return normalizeFields(raw), body, nil
}

// normalizeFields converts a decoded map into the closed value variant.
func normalizeFields(raw map[string]any) map[string]Value {
	fields := make(map[string]Value, len(raw))
	for k, v := range raw {
		fields[k] = normalizeValue(v)
	}

	return fields
}

func normalizeValue(v any) Value {
	switch t := v.(type) {
	case nil:
		return Value{Kind: KindNull}
	case string:
		return Value{Kind: KindString, Str: t}
	case bool:
		return Value{Kind: KindString, Str: fmt.Sprintf("%t", t)}
	case int:
		return Value{Kind: KindNumber, Num: float64(t)}
	case int64:
		return Value{Kind: KindNumber, Num: float64(t)}
	case uint64:
		return Value{Kind: KindNumber, Num: float64(t)}
	case float64:
		return Value{Kind: KindNumber, Num: t}
	case time.Time:
		return Value{Kind: KindString, Str: t.Format(time.RFC3339)}
	case []any:
		list := make([]string, 0, len(t))
		for _, item := range t {
			iv := normalizeValue(item)
			switch iv.Kind {
			case KindString:
				list = append(list, iv.Str)
			case KindNumber:
				list = append(list, trimFloat(iv.Num))
			}
		}

		return Value{Kind: KindList, List: list}
	default:
		// Nested tables/objects flatten to their string rendering; the
		// mapper only consumes scalars and lists.
		return Value{Kind: KindString, Str: fmt.Sprint(t)}
	}
}

// trimFloat renders a number without a trailing ".000000".
func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}

	return fmt.Sprintf("%g", f)
}
