package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/liepalab/eafprep/internal/eaf"
	"github.com/liepalab/eafprep/internal/export"
	"github.com/liepalab/eafprep/internal/segment"
)

// MaxRecommendedParallel bounds cross-document parallelism. Document
// processing is CPU and disk bound; past this the walk thrashes.
const MaxRecommendedParallel = 8

// Result is the outcome of processing one document.
type Result struct {
	Path string
	Rows []export.Row
}

// Process runs one document through load -> group -> plan.
// The steps within a document are strictly sequential; documents share no
// state and may be processed concurrently with each other.
func Process(path string, opts segment.Options) (Result, error) {
	doc, err := eaf.Load(path)
	if err != nil {
		return Result{}, fmt.Errorf("process %s: %w", path, err)
	}

	chunks := segment.Group(doc, opts)
	rows := export.CutPlan(doc, chunks)

	log.Info().Str("path", path).
		Int("annotations", doc.AnnotationCount()).
		Int("chunks", len(chunks)).
		Int("rows", len(rows)).
		Msg("document processed")

	return Result{Path: path, Rows: rows}, nil
}

// Bulk processes every document under root, minus exclusions, with up to
// parallel workers. Results come back ordered by path so plan output is
// deterministic. A document that fails to load fails the whole run: a
// broken file in a curated corpus needs fixing, not skipping.
func Bulk(ctx context.Context, root, excludePath string, parallel int, opts segment.Options) ([]Result, error) {
	files, err := FindEAFFiles(root)
	if err != nil {
		return nil, err
	}
	if excludePath != "" {
		files = FilterByExcludedDirs(files, excludePath)
	}
	if len(files) == 0 {
		log.Warn().Str("root", root).Msg("no eaf files to process")
		return nil, nil
	}

	if parallel < 1 {
		parallel = 1
	}
	if parallel > MaxRecommendedParallel {
		parallel = MaxRecommendedParallel
	}

	results := make([]Result, 0, len(files))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, parallel)

	for _, path := range files {
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			defer func() { <-sem }()

			res, err := Process(path, opts)
			if err != nil {
				return err
			}

			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, nil
}
