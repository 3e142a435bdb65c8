package allotx

import (
	"context"

	"github.com/ukaji3/allotx-go/pkg/allotx/models"
	"golang.org/x/sync/errgroup"
)

// FileResult pairs an input path with its extraction result.
type FileResult struct {
	Path   string
	Result *models.Result
}

// ExtractFiles extracts each path independently, running up to concurrency
// extractions at once. Results keep the order of paths. The only error is
// cancellation of ctx.
func ExtractFiles(ctx context.Context, paths []string, opts Options, concurrency int) ([]FileResult, error) {
	if concurrency <= 0 {
		concurrency = 1
	}

	results := make([]FileResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = FileResult{Path: path, Result: ExtractFile(path, opts)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
