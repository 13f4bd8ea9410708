package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/latticekb/lattice/internal/classifier"
	"github.com/latticekb/lattice/internal/ingest"
)

func newIngestCmd() *cobra.Command {
	var basePath string
	var workers int

	cmd := &cobra.Command{
		Use:   "ingest <glob>...",
		Short: "Ingest matching documents into the graph",
		Long: `Ingest documents matched by one or more doublestar glob patterns,
for example 'notes/**/*.md'. The path relative to --base-path becomes the
document's stable identity, so re-ingesting updates nodes in place.`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			log := newLogger()

			st, closeStore, err := openStore(ctx, log)
			if err != nil {
				fatal("open store", err)
			}
			defer closeStore()

			inputs, err := collectInputs(args, basePath)
			if err != nil {
				fatal("collect inputs", err)
			}
			if len(inputs) == 0 {
				fmt.Fprintln(os.Stderr, "no files matched")
				return
			}

			svc := ingest.NewService(classifier.New(classifier.Config{}, log), st, log)
			batch := svc.IngestBatch(ctx, inputs, workers)

			for _, f := range batch.Failures {
				fmt.Fprintf(os.Stderr, "failed: %s: %v\n", f.Filename, f.Err)
			}

			printBatchSummary(batch)

			if len(batch.Failures) > 0 {
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVar(&basePath, "base-path", ".", "Directory document identities are relative to")
	cmd.Flags().IntVar(&workers, "workers", ingest.DefaultConcurrency, "Parallel ingestion workers")
	return cmd
}

// collectInputs expands the glob patterns and reads every matched file.
func collectInputs(patterns []string, basePath string) ([]classifier.Input, error) {
	seen := make(map[string]bool)

	var inputs []classifier.Input
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true

			info, err := os.Stat(match)
			if err != nil {
				return nil, fmt.Errorf("stat %s: %w", match, err)
			}
			if info.IsDir() {
				continue
			}

			content, err := os.ReadFile(match)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", match, err)
			}

			inputs = append(inputs, classifier.Input{
				Filename: match,
				BasePath: basePath,
				Content:  string(content),
			})
		}
	}

	return inputs, nil
}

func printBatchSummary(batch *ingest.BatchResult) {
	if flagFmt == "quiet" {
		for _, r := range batch.Results {
			fmt.Println(r.Document.ID)
		}
		return
	}

	var nodes, edges int
	for _, r := range batch.Results {
		nodes += len(r.Nodes)
		edges += len(r.Edges)
		if r.Created {
			nodes++
		}
	}

	if flagFmt == "table" {
		headers := []string{"FILE", "DIALECT", "CREATED", "EDGES"}
		var rows [][]string
		for _, r := range batch.Results {
			rows = append(rows, []string{
				r.Document.SourceID,
				string(r.Dialect),
				fmt.Sprintf("%t", r.Created),
				fmt.Sprintf("%d", len(r.Edges)),
			})
		}
		formatTable(headers, rows)
		fmt.Printf("\n%d documents, %d nodes, %d edges, %d failures\n",
			len(batch.Results), nodes, edges, len(batch.Failures))
		return
	}

	formatJSON(map[string]any{
		"documents": len(batch.Results),
		"nodes":     nodes,
		"edges":     edges,
		"failures":  len(batch.Failures),
	})
}
