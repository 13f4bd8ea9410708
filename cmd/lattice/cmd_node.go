package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newNodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Inspect graph nodes",
	}
	cmd.AddCommand(nodeGetCmd())
	cmd.AddCommand(nodeListCmd())
	cmd.AddCommand(nodeDeleteCmd())
	return cmd
}

func nodeGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a node by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			st, closeStore, err := openStore(ctx, newLogger())
			if err != nil {
				fatal("open store", err)
			}
			defer closeStore()

			node, err := st.GetNode(ctx, args[0])
			if err != nil {
				fatal("get node", err)
			}
			output(node, node.ID)
		},
	}
}

func nodeListCmd() *cobra.Command {
	var nodeType string
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List nodes, newest first",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			st, closeStore, err := openStore(ctx, newLogger())
			if err != nil {
				fatal("open store", err)
			}
			defer closeStore()

			nodes, hasMore, err := st.ListNodes(ctx, nodeType, limit, offset)
			if err != nil {
				fatal("list nodes", err)
			}

			switch flagFmt {
			case "table":
				headers := []string{"ID", "TYPE", "NAME", "SOURCE_ID", "VERSION"}
				var rows [][]string
				for _, n := range nodes {
					rows = append(rows, []string{n.ID, n.NodeType, n.Name, n.SourceID, fmt.Sprintf("%d", n.Version)})
				}
				formatTable(headers, rows)
				if hasMore {
					fmt.Println("(more results available)")
				}
			case "quiet":
				for _, n := range nodes {
					fmt.Println(n.ID)
				}
			default:
				output(nodes, "")
			}
		},
	}

	cmd.Flags().StringVar(&nodeType, "type", "", "Filter by node type")
	cmd.Flags().IntVar(&limit, "limit", 50, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset")
	return cmd
}

func nodeDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a node and its edges",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			st, closeStore, err := openStore(ctx, newLogger())
			if err != nil {
				fatal("open store", err)
			}
			defer closeStore()

			if err := st.DeleteNode(ctx, args[0]); err != nil {
				fatal("delete node", err)
			}
			fmt.Println("deleted")
		},
	}
}
