package ingest

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/latticekb/lattice/internal/classifier"
)

// DefaultConcurrency bounds parallel document ingestion in a batch.
const DefaultConcurrency = 4

// Failure records one document that could not be ingested. A failed
// document never aborts its batch.
type Failure struct {
	Filename string
	Err      error
}

// BatchResult aggregates per-document outcomes. Completion order is not
// input order; callers needing order should key off Result.Document.
type BatchResult struct {
	Results  []*Result
	Failures []Failure
}

// IngestBatch ingests every input with bounded parallelism. Documents are
// independent; the store's upsert-by-identity is the only serialization
// point. Context cancellation stops scheduling new documents.
func (s *Service) IngestBatch(ctx context.Context, inputs []classifier.Input, concurrency int) *BatchResult {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var (
		mu    sync.Mutex
		batch BatchResult
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, in := range inputs {
		in := in
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				mu.Lock()
				batch.Failures = append(batch.Failures, Failure{Filename: in.Filename, Err: err})
				mu.Unlock()

				return nil
			}

			result, err := s.IngestDocument(ctx, in)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				s.log.WithField("file", in.Filename).WithError(err).Warn("document failed")
				batch.Failures = append(batch.Failures, Failure{Filename: in.Filename, Err: err})

				return nil
			}

			batch.Results = append(batch.Results, result)

			return nil
		})
	}

	// Workers never return errors; Wait only synchronizes completion.
	_ = g.Wait()

	return &batch
}
