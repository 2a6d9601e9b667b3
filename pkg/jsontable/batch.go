package jsontable

import (
	"context"

	"github.com/sasakama-code/jsontable-go/pkg/jsontable/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Job names one table to extract.
type Job struct {
	Name    string
	Path    string
	Options Options
}

// JobResult is the outcome of one Job. Exactly one of Table and Err is set.
type JobResult struct {
	Job   Job
	Table *models.TableData
	Err   error
}

// ExtractAll runs jobs with at most workers extractions in flight and returns
// results in job order. A failing job does not stop the others; cancelling
// ctx marks jobs not yet started with ctx.Err().
func (l *Loader) ExtractAll(ctx context.Context, jobs []Job, workers int) []JobResult {
	if workers <= 0 {
		workers = 1
	}
	results := make([]JobResult, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, job := range jobs {
		results[i].Job = job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			table, err := l.Extract(job.Path, job.Options)
			if err != nil {
				l.logger.Warn("table extraction failed", zap.String("table", job.Name),
					zap.String("path", job.Path), zap.Error(err))
			}
			results[i].Table, results[i].Err = table, err
			return nil
		})
	}
	_ = g.Wait()
	return results
}
