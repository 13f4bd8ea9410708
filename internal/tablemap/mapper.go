package tablemap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/latticekb/lattice/internal/domain"
	"github.com/latticekb/lattice/internal/models"
)

// SourceTableRows is the source scope for materialized row nodes.
const SourceTableRows = "table-rows"

// rowNodeType is the node type of a materialized table row.
const rowNodeType = "table-row"

// Mapper materializes discovered tables as row nodes nested under their
// source document. Stateless and safe for concurrent use across documents.
type Mapper struct {
	nodes domain.NodeStore
	edges domain.EdgeStore
	log   *logrus.Logger
}

// NewMapper creates a Mapper.
func NewMapper(nodes domain.NodeStore, edges domain.EdgeStore, log *logrus.Logger) *Mapper {
	return &Mapper{nodes: nodes, edges: edges, log: log}
}

// MapBody discovers tables in body and materializes every data row as a
// child node of doc, linked by a nest edge whose sequenceOrder is the row's
// position within its table. Row identity is derived from the document
// identity plus table and row position, so re-mapping the same document
// updates rows in place instead of duplicating them.
func (m *Mapper) MapBody(ctx context.Context, doc *models.Node, body string) ([]models.Node, []models.Edge, error) {
	tables := FindTables(body)
	if len(tables) == 0 {
		return nil, nil, nil
	}

	existing, err := m.edges.GetEdgesFrom(ctx, doc.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("get edges: %w", err)
	}

	seen := make(map[string]bool, len(existing))
	for i := range existing {
		seen[existing[i].Key()] = true
	}

	var (
		rowNodes []models.Node
		created  []models.Edge
	)

	for ti, table := range tables {
		cols := MapColumns(table.Header)

		for ri, row := range table.Rows {
			values := accumulate(cols, row)

			node, err := m.upsertRow(ctx, doc, values, ti, ri)
			if err != nil {
				return rowNodes, created, err
			}

			rowNodes = append(rowNodes, *node)

			edge := models.Edge{
				SourceID:      doc.ID,
				TargetID:      node.ID,
				EdgeType:      models.EdgeNest,
				Weight:        1.0,
				Directed:      true,
				SequenceOrder: intPtr(ri),
			}

			if seen[edge.Key()] {
				continue
			}

			if err := m.edges.CreateEdge(ctx, &edge); err != nil {
				return rowNodes, created, fmt.Errorf("create edge: %w", err)
			}

			seen[edge.Key()] = true
			created = append(created, edge)
		}
	}

	m.log.WithFields(logrus.Fields{
		"source_id": doc.SourceID,
		"tables":    len(tables),
		"rows":      len(rowNodes),
	}).Debug("mapped tables")

	return rowNodes, created, nil
}

// rowValues accumulates the mapped and unmapped cells of one data row.
type rowValues struct {
	name       string
	location   string
	rawTime    string
	parsedTime time.Time
	hasTime    bool
	categories []string
	hierarchy  int
	hasRank    bool
	extras     []extraField
}

type extraField struct {
	key   string
	value string
}

// accumulate folds a row's cells into a rowValues by column role. Category
// cells accumulate across all Category-mapped columns; unmapped cells are
// retained as positional key/value pairs.
func accumulate(cols []Column, row []string) rowValues {
	var v rowValues

	for i, cell := range row {
		cell = strings.TrimSpace(cell)
		if cell == "" || i >= len(cols) {
			continue
		}

		switch cols[i].Role {
		case RoleAlphabet:
			if v.name == "" {
				v.name = cell
			}
		case RoleLocation:
			if v.location == "" {
				v.location = cell
			}
		case RoleTime:
			if v.rawTime == "" {
				v.rawTime = cell
				if t, ok := parseDate(cell); ok {
					v.parsedTime = t
					v.hasTime = true
				}
			}
		case RoleCategory:
			v.categories = append(v.categories, cell)
		case RoleHierarchy:
			if !v.hasRank {
				if n, ok := parseHierarchy(cell); ok {
					v.hierarchy = n
					v.hasRank = true
				}
			}
		default:
			v.extras = append(v.extras, extraField{
				key:   fmt.Sprintf("column_%d", i),
				value: cell,
			})
		}
	}

	return v
}

// upsertRow finds or creates the node for one data row, keyed by the
// document identity plus table and row position.
func (m *Mapper) upsertRow(ctx context.Context, doc *models.Node, v rowValues, tableIdx, rowIdx int) (*models.Node, error) {
	sourceID := fmt.Sprintf("%s-table%d-row%d", doc.SourceID, tableIdx, rowIdx)

	name := v.name
	if name == "" {
		name = fmt.Sprintf("Table Row %d", rowIdx+1)
	}

	content := renderContent(v)

	node, err := m.nodes.GetNodeByIdentity(ctx, SourceTableRows, sourceID)
	if err == nil {
		node.Name = name
		node.Content = content
		node.Tags = v.categories
		node.Priority = v.hierarchy
		node.SortOrder = rowIdx
		node.ModifiedAt = time.Now().UTC()
		node.Version++

		if err := node.Validate(); err != nil {
			return nil, fmt.Errorf("update node: %w", err)
		}

		if err := m.nodes.UpdateNode(ctx, node); err != nil {
			return nil, fmt.Errorf("update node: %w", err)
		}

		return node, nil
	}

	if !errors.Is(err, models.ErrNodeNotFound) {
		return nil, fmt.Errorf("get node: %w", err)
	}

	node = models.NewNode(rowNodeType, name)
	node.Source = SourceTableRows
	node.SourceID = sourceID
	node.Content = content
	node.Tags = v.categories
	node.Priority = v.hierarchy
	node.SortOrder = rowIdx

	if v.hasTime {
		node.CreatedAt = v.parsedTime
		if node.ModifiedAt.Before(node.CreatedAt) {
			node.ModifiedAt = node.CreatedAt
		}
	}

	if err := node.Validate(); err != nil {
		return nil, fmt.Errorf("create node: %w", err)
	}

	return m.nodes.CreateNode(ctx, node)
}

// renderContent produces a deterministic key/value summary of all mapped
// and unmapped fields, in column-role order then positional order.
func renderContent(v rowValues) string {
	var b strings.Builder

	writeField := func(key, value string) {
		if value == "" {
			return
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}

		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(value)
	}

	writeField("name", v.name)
	writeField("location", v.location)
	writeField("time", v.rawTime)
	writeField("categories", strings.Join(v.categories, ", "))

	if v.hasRank {
		writeField("hierarchy", fmt.Sprintf("%d", v.hierarchy))
	}

	for _, f := range v.extras {
		writeField(f.key, f.value)
	}

	return b.String()
}

func intPtr(n int) *int {
	return &n
}
