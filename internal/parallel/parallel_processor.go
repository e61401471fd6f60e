// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"disinfo-scan/internal/analysis"
	"disinfo-scan/internal/logging"
	"disinfo-scan/internal/observability"
)

// ParallelProcessor runs batches of documents through a worker pool
type ParallelProcessor struct {
	workers  int
	service  *analysis.Service
	observer *observability.StandardObserver
}

// ProcessingStats summarizes one batch
type ProcessingStats struct {
	TotalDocuments    int           `json:"total_documents"`
	AnalyzedDocuments int           `json:"analyzed_documents"`
	FailedDocuments   int           `json:"failed_documents"`
	HighRiskDocuments int           `json:"high_risk_documents"`
	TotalPatterns     int           `json:"total_patterns"`
	TotalDuration     time.Duration `json:"total_duration_ms"`
	WorkerCount       int           `json:"worker_count"`
	AvgDocumentTime   time.Duration `json:"avg_document_time_ms"`
}

// DefaultWorkers returns the CPU count capped at 8
func DefaultWorkers() int {
	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	return workers
}

// NewParallelProcessor creates a processor. A non-positive worker count uses DefaultWorkers.
func NewParallelProcessor(workers int, service *analysis.Service, observer *observability.StandardObserver) *ParallelProcessor {
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	return &ParallelProcessor{
		workers:  workers,
		service:  service,
		observer: observer,
	}
}

// ProgressCallback is called when a document is completed
type ProgressCallback func(completed, total int, source string)

// ProcessDocuments analyzes docs concurrently. Results come back in submission
// order; per-document failures are reported in Result.Error and never stop the batch.
func (pp *ParallelProcessor) ProcessDocuments(ctx context.Context, docs []analysis.Document, progressCallback ProgressCallback) ([]Result, *ProcessingStats, error) {
	start := time.Now()

	var finishTiming func(bool, map[string]interface{})
	if pp.observer != nil {
		finishTiming = pp.observer.StartTiming("parallel_processor", "process_documents", "batch")
	}

	workers := pp.workers
	if len(docs) > 0 && workers > len(docs) {
		workers = len(docs)
	}
	pool := NewWorkerPool(ctx, workers, pp.service, pp.observer)
	pool.Start()
	defer pool.Stop()

	// Jobs the pool refuses after cancellation are answered here, so every
	// document still produces exactly one result
	go func() {
		defer close(pool.jobs)
		for i, doc := range docs {
			job := &Job{JobID: fmt.Sprintf("job_%d", i), Index: i, Document: doc}
			if !pool.Submit(job) {
				pool.results <- &Result{JobID: job.JobID, Index: i, Document: doc, Error: pool.ctx.Err()}
			}
		}
	}()

	results := make([]Result, len(docs))
	stats := &ProcessingStats{TotalDocuments: len(docs), WorkerCount: workers}
	var busy time.Duration

	for i := 0; i < len(docs); i++ {
		result := <-pool.Results()
		results[result.Index] = *result
		busy += result.Duration

		if result.Error != nil {
			stats.FailedDocuments++
			logging.Debug("document failed", "source", result.Document.Source, "err", result.Error)
			pp.observer.LogOperation(observability.StandardObservabilityData{
				Component:  "parallel_processor",
				Operation:  "document_processing",
				DocumentID: result.Document.ID,
				Success:    false,
				Error:      result.Error.Error(),
			})
		} else {
			stats.AnalyzedDocuments++
			stats.TotalPatterns += result.Report.Result.PatternCount
			if result.Report.Tier == analysis.TierHigh {
				stats.HighRiskDocuments++
			}
		}

		if progressCallback != nil {
			progressCallback(i+1, len(docs), result.Document.Source)
		}
	}

	stats.TotalDuration = time.Since(start)
	stats.AvgDocumentTime = busy / time.Duration(max(stats.AnalyzedDocuments, 1))

	if finishTiming != nil {
		finishTiming(true, map[string]interface{}{
			"total_documents":    stats.TotalDocuments,
			"analyzed_documents": stats.AnalyzedDocuments,
			"failed_documents":   stats.FailedDocuments,
			"worker_count":       workers,
			"duration_ms":        stats.TotalDuration.Milliseconds(),
		})
	}

	return results, stats, ctx.Err()
}
