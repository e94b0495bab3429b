// Package batch runs the suggestion pipeline over many messages under a
// bounded concurrency limit, for the file-upload and bulk-processing
// front-ends.
package batch

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/translatewiki/mtsuggest"
)

// DefaultConcurrency bounds how many Suggest calls run at once when a
// caller does not specify one — a stand-in for a typical MT vendor's
// per-key rate limit.
const DefaultConcurrency = 8

// Job is one message to translate.
type Job struct {
	Key          string
	Text         string
	SourceLocale string
	TargetLocale string
}

// Result pairs a Job with its outcome. Exactly one of Suggestion/Err is set.
type Result struct {
	Job        Job
	Suggestion *mtsuggest.Suggestion
	Err        error
}

// Run drives pipeline.Suggest over every job concurrently, bounded by
// concurrency (DefaultConcurrency if <= 0). Results are returned in the
// same order as jobs regardless of completion order. One job's failure
// never cancels another's: distinct messages share no mutable state, so
// every job runs to completion and reports its own success or error.
func Run(ctx context.Context, pipeline *mtsuggest.Pipeline, jobs []Job, concurrency int) []Result {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	results := make([]Result, len(jobs))
	sem := semaphore.NewWeighted(int64(concurrency))

	var g errgroup.Group
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				results[i] = Result{Job: job, Err: err}
				return nil
			}
			defer sem.Release(1)

			suggestion, err := pipeline.Suggest(ctx, job.SourceLocale, job.TargetLocale, job.Key, job.Text)
			results[i] = Result{Job: job, Suggestion: suggestion, Err: err}
			return nil
		})
	}
	g.Wait() // every Go func above always returns nil; errors live in results

	return results
}
