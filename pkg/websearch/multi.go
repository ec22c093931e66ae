package websearch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Multi queries several backends concurrently and merges their results,
// de-duplicating by URL. Backend order decides merge order. A backend error
// fails the whole search.
type Multi struct {
	Searchers []Searcher
}

// NewMulti builds a Multi over the given backends.
func NewMulti(searchers ...Searcher) *Multi {
	return &Multi{Searchers: searchers}
}

// Search fans the query out to every backend.
func (m *Multi) Search(ctx context.Context, query string) ([]Result, error) {
	if len(m.Searchers) == 0 {
		return nil, nil
	}

	perBackend := make([][]Result, len(m.Searchers))

	g, ctx := errgroup.WithContext(ctx)
	for i, s := range m.Searchers {
		g.Go(func() error {
			results, err := s.Search(ctx, query)
			if err != nil {
				return err
			}
			perBackend[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var merged []Result
	for _, results := range perBackend {
		for _, r := range results {
			if _, dup := seen[r.URL]; dup {
				continue
			}
			seen[r.URL] = struct{}{}
			merged = append(merged, r)
		}
	}

	return merged, nil
}
