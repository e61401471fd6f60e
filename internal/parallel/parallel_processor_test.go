// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"disinfo-scan/internal/analysis"
	"disinfo-scan/internal/detector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var batchTexts = []string{
	"SHOCKING BREAKING NEWS!!! The government is HIDING the REAL truth about this AMAZING discovery!",
	"short",
	"According to a study published in the Journal of Medical Research, researchers found a 15% improvement.",
	"This clip went viral overnight and everyone is sharing it.",
	"A perfectly ordinary sentence about the weather today.",
}

func batchDocuments() []analysis.Document {
	docs := make([]analysis.Document, len(batchTexts))
	for i, text := range batchTexts {
		docs[i] = analysis.NewDocument(fmt.Sprintf("doc-%d", i), text)
	}
	return docs
}

func TestProcessDocuments_OrderAndErrors(t *testing.T) {
	for _, workers := range []int{1, 2, 8} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			service := analysis.NewService(nil, analysis.DefaultMinLength, nil)
			processor := NewParallelProcessor(workers, service, nil)
			docs := batchDocuments()

			results, stats, err := processor.ProcessDocuments(context.Background(), docs, nil)
			require.NoError(t, err)
			require.Len(t, results, len(docs))

			for i, result := range results {
				assert.Equal(t, i, result.Index)
				assert.Equal(t, docs[i], result.Document)
				if i == 1 {
					assert.ErrorIs(t, result.Error, analysis.ErrTextTooShort)
					assert.Nil(t, result.Report)
					continue
				}
				require.NoError(t, result.Error)
				assert.Equal(t, detector.Analyze(docs[i].Text), result.Report.Result)
			}

			assert.Equal(t, 5, stats.TotalDocuments)
			assert.Equal(t, 4, stats.AnalyzedDocuments)
			assert.Equal(t, 1, stats.FailedDocuments)
			assert.Equal(t, 1, stats.HighRiskDocuments)
			assert.LessOrEqual(t, stats.WorkerCount, len(docs))
		})
	}
}

func TestProcessDocuments_Progress(t *testing.T) {
	service := analysis.NewService(nil, analysis.DefaultMinLength, nil)
	processor := NewParallelProcessor(3, service, nil)

	var mu sync.Mutex
	var calls []int
	_, _, err := processor.ProcessDocuments(context.Background(), batchDocuments(), func(completed, total int, source string) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 5, total)
		calls = append(calls, completed)
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, calls)
}

func TestProcessDocuments_Empty(t *testing.T) {
	processor := NewParallelProcessor(0, analysis.NewService(nil, 10, nil), nil)

	results, stats, err := processor.ProcessDocuments(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, stats.TotalDocuments)
}

func TestProcessDocuments_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processor := NewParallelProcessor(2, analysis.NewService(nil, 10, nil), nil)
	docs := batchDocuments()

	results, stats, err := processor.ProcessDocuments(ctx, docs, nil)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, len(docs))
	for _, result := range results {
		assert.ErrorIs(t, result.Error, context.Canceled)
	}
	assert.Equal(t, len(docs), stats.FailedDocuments)
}

func TestDefaultWorkers(t *testing.T) {
	workers := DefaultWorkers()
	assert.GreaterOrEqual(t, workers, 1)
	assert.LessOrEqual(t, workers, 8)
}
