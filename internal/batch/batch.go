// Package batch converts independent wire problems in parallel. One Reader
// serves all jobs: conversion scope is explicit, so nothing is shared
// between jobs except the template's type environment, which is safe for
// concurrent use.
package batch

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"planwire/internal/model"
	"planwire/internal/reader"
	"planwire/internal/wire"
)

// Job is one problem payload to convert. Name identifies the job in results
// and logs, typically the source file path.
type Job struct {
	Name string
	Data []byte
}

// Result is the outcome of one job. Err is per-job: one failing job never
// cancels its siblings.
type Result struct {
	SessionID string
	Name      string
	Problem   *model.Problem
	Stats     reader.Stats
	Err       error
}

// Converter runs batches of conversions with bounded parallelism.
type Converter struct {
	reader   *reader.Reader
	template *model.Problem
	log      *zap.Logger
	workers  int
}

// NewConverter creates a batch converter. Workers below one are clamped to
// one. A nil logger disables logging.
func NewConverter(r *reader.Reader, template *model.Problem, workers int, logger *zap.Logger) *Converter {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{reader: r, template: template, log: logger, workers: workers}
}

// Run converts all jobs and returns one result per job, in job order. The
// returned error reports only context cancellation; conversion failures stay
// in their job's result.
func (c *Converter) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(c.workers)

	for i, job := range jobs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Name: job.Name, Err: err}
				return err
			}
			results[i] = c.convert(job)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return results, fmt.Errorf("batch conversion interrupted: %w", err)
	}
	return results, nil
}

func (c *Converter) convert(job Job) Result {
	res := Result{SessionID: uuid.NewString(), Name: job.Name}

	msg, err := wire.UnmarshalProblem(job.Data)
	if err != nil {
		res.Err = err
		return res
	}

	problem, stats, err := c.reader.ProblemWithStats(msg, c.template)
	if err != nil {
		res.Err = err
		c.log.Error("batch job failed",
			zap.String("session_id", res.SessionID),
			zap.String("job", job.Name),
			zap.Error(err))
		return res
	}

	res.Problem = problem
	res.Stats = stats
	c.log.Info("batch job converted",
		zap.String("session_id", res.SessionID),
		zap.String("job", job.Name),
		zap.String("problem", problem.Name()),
		zap.Int("dropped_effects", stats.DroppedEffects))
	return res
}
