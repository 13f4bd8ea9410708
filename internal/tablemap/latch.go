package tablemap

import (
	"strconv"
	"strings"
	"time"

	"github.com/latticekb/lattice/internal/models"
)

// Role is the semantic category assigned to a table column, after the LATCH
// scheme: Location, Alphabet, Time, Category, Hierarchy.
type Role string

// Column roles. RoleNone marks an unmatched column carried through as
// unstructured key/value data.
const (
	RoleNone      Role = ""
	RoleLocation  Role = "location"
	RoleAlphabet  Role = "alphabet"
	RoleTime      Role = "time"
	RoleCategory  Role = "category"
	RoleHierarchy Role = "hierarchy"
)

// roleKeywords pairs each role with its header keyword set. A header cell is
// lower-cased and matched by substring containment; the first matching role
// in slice order wins. Time and Hierarchy carry the most specific keywords
// and are checked first; Alphabet's generic words ("name", "id", "text")
// come last so they cannot shadow the rest.
var roleKeywords = []struct {
	role     Role
	keywords []string
}{
	{RoleTime, []string{"date", "when", "created", "due", "start", "end"}},
	{RoleHierarchy, []string{"priority", "rank", "order", "level"}},
	{RoleLocation, []string{"location", "place", "address", "where", "room", "city", "country"}},
	{RoleCategory, []string{"category", "type", "tag", "group"}},
	{RoleAlphabet, []string{"name", "title", "label", "id", "text", "description"}},
}

// classifyHeader assigns at most one role to a header cell.
func classifyHeader(header string) Role {
	lowered := strings.ToLower(header)

	for _, rk := range roleKeywords {
		for _, kw := range rk.keywords {
			if strings.Contains(lowered, kw) {
				return rk.role
			}
		}
	}

	return RoleNone
}

// Column is a header cell with its assigned role.
type Column struct {
	Index int
	Label string
	Role  Role
}

// MapColumns classifies every header cell.
func MapColumns(header []string) []Column {
	cols := make([]Column, len(header))

	for i, h := range header {
		cols[i] = Column{Index: i, Label: h, Role: classifyHeader(h)}
	}

	return cols
}

// dateLayouts are tried in order when parsing a Time-mapped cell.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// parseDate tries each known layout; ok is false when none match.
func parseDate(s string) (time.Time, bool) {
	trimmed := strings.TrimSpace(s)

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// hierarchyLadder maps rank keywords to integer values used when a
// Hierarchy-mapped cell is not a literal integer.
var hierarchyLadder = map[string]int{
	"critical":  5,
	"urgent":    4,
	"high":      3,
	"important": 3,
	"medium":    2,
	"normal":    2,
	"low":       1,
	"minor":     1,
	"optional":  1,
}

// parseHierarchy resolves a Hierarchy-mapped cell to an integer, first as a
// literal integer, then via the keyword ladder. Literals outside the node
// rank bounds are clamped rather than failing the row.
func parseHierarchy(s string) (int, bool) {
	trimmed := strings.TrimSpace(s)

	if n, err := strconv.Atoi(trimmed); err == nil {
		return clampRank(n), true
	}

	if n, ok := hierarchyLadder[strings.ToLower(trimmed)]; ok {
		return n, true
	}

	return 0, false
}

func clampRank(n int) int {
	if n < 0 {
		return 0
	}

	if n > models.MaxRankValue {
		return models.MaxRankValue
	}

	return n
}
