package speller

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// SuggestBatch runs one independent search per word on up to workers
// goroutines (GOMAXPROCS when workers <= 0). Results are in input order. The
// context is checked before each word starts; a running search is not
// interrupted.
func (s *Speller) SuggestBatch(ctx context.Context, words []string, cfg Config, workers int) ([][]Suggestion, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([][]Suggestion, len(words))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, word := range words {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.SuggestWithConfig(word, cfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
