package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/latticekb/lattice/internal/models"
)

func newEdgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edge",
		Short: "Inspect graph edges",
	}
	cmd.AddCommand(edgeListCmd())
	return cmd
}

func edgeListCmd() *cobra.Command {
	var source, target, edgeType string
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List edges with optional filters",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			st, closeStore, err := openStore(ctx, newLogger())
			if err != nil {
				fatal("open store", err)
			}
			defer closeStore()

			et := models.EdgeType(edgeType)
			if et != "" && !et.Valid() {
				fatal("list edges", fmt.Errorf("unknown edge type %q", edgeType))
			}

			edges, hasMore, err := st.ListEdges(ctx, source, target, et, limit, offset)
			if err != nil {
				fatal("list edges", err)
			}

			switch flagFmt {
			case "table":
				headers := []string{"SOURCE", "TARGET", "TYPE", "LABEL", "WEIGHT"}
				var rows [][]string
				for _, e := range edges {
					rows = append(rows, []string{e.SourceID, e.TargetID, string(e.EdgeType), e.Label, fmt.Sprintf("%.2f", e.Weight)})
				}
				formatTable(headers, rows)
				if hasMore {
					fmt.Println("(more results available)")
				}
			case "quiet":
				for _, e := range edges {
					fmt.Printf("%s %s %s\n", e.SourceID, e.TargetID, e.EdgeType)
				}
			default:
				output(edges, "")
			}
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Filter by source node ID")
	cmd.Flags().StringVar(&target, "target", "", "Filter by target node ID")
	cmd.Flags().StringVar(&edgeType, "type", "", "Filter by edge type (link|affinity|nest)")
	cmd.Flags().IntVar(&limit, "limit", 50, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset")
	return cmd
}
