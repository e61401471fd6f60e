// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"sync"
	"time"

	"disinfo-scan/internal/analysis"
	"disinfo-scan/internal/observability"
)

// WorkerPool analyzes documents on a fixed number of goroutines that share
// one analysis service
type WorkerPool struct {
	workers  int
	jobs     chan *Job
	results  chan *Result
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	service  *analysis.Service
	observer *observability.StandardObserver
}

// Job represents one document to analyze
type Job struct {
	JobID    string
	Index    int
	Document analysis.Document
}

// Result represents the outcome of one job. Exactly one of Report and Error is set.
type Result struct {
	JobID    string
	Index    int
	Document analysis.Document
	Report   *analysis.Report
	Error    error
	Duration time.Duration
}

// NewWorkerPool creates a worker pool bound to ctx
func NewWorkerPool(ctx context.Context, workers int, service *analysis.Service, observer *observability.StandardObserver) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	poolCtx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		workers:  workers,
		jobs:     make(chan *Job, workers*2),
		results:  make(chan *Result, workers*2),
		ctx:      poolCtx,
		cancel:   cancel,
		service:  service,
		observer: observer,
	}
}

// Start initializes worker goroutines
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop waits for the workers to drain the closed job queue and releases the pool
func (wp *WorkerPool) Stop() {
	wp.wg.Wait()
	close(wp.results)
	wp.cancel()
}

// Submit queues a job. It returns false when the pool's context is done first.
func (wp *WorkerPool) Submit(job *Job) bool {
	select {
	case wp.jobs <- job:
		return true
	case <-wp.ctx.Done():
		return false
	}
}

// Results returns the results channel
func (wp *WorkerPool) Results() <-chan *Result {
	return wp.results
}

// worker processes jobs until the queue is closed. Every job yields a result,
// so a collector that counts results never waits forever.
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobs {
		wp.results <- wp.processJob(job, id)
	}
}

// processJob analyzes a single document
func (wp *WorkerPool) processJob(job *Job, workerID int) *Result {
	start := time.Now()

	var finishTiming func(bool, map[string]interface{})
	if wp.observer != nil {
		finishTiming = wp.observer.StartTiming("worker_pool", "process_job", job.Document.ID)
	}

	result := &Result{
		JobID:    job.JobID,
		Index:    job.Index,
		Document: job.Document,
	}

	report, err := wp.service.AnalyzeDocument(wp.ctx, job.Document)
	if err != nil {
		result.Error = err
	} else {
		result.Report = &report
	}
	result.Duration = time.Since(start)

	if finishTiming != nil {
		metadata := map[string]interface{}{
			"worker_id":   workerID,
			"duration_ms": result.Duration.Milliseconds(),
			"had_error":   err != nil,
		}
		if result.Report != nil {
			metadata["pattern_count"] = report.Result.PatternCount
		}
		finishTiming(err == nil, metadata)
	}

	return result
}
