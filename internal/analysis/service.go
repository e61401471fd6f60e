// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"disinfo-scan/internal/detector"
	"disinfo-scan/internal/logging"
	"disinfo-scan/internal/observability"
)

// Service validates and analyzes documents. The analyzer and minimum length
// can be swapped at runtime, e.g. on a config reload, without locking callers.
type Service struct {
	analyzer  atomic.Pointer[detector.Analyzer]
	minLength atomic.Int64
	observer  *observability.StandardObserver
	now       func() time.Time
}

// NewService creates a service. A nil analyzer uses the reference tuning and a
// nil observer disables timing records.
func NewService(analyzer *detector.Analyzer, minLength int, observer *observability.StandardObserver) *Service {
	if analyzer == nil {
		analyzer = detector.NewAnalyzer()
	}
	s := &Service{
		observer: observer,
		now:      time.Now,
	}
	s.analyzer.Store(analyzer)
	s.minLength.Store(int64(minLength))
	return s
}

// Analyzer returns the analyzer currently in use
func (s *Service) Analyzer() *detector.Analyzer {
	return s.analyzer.Load()
}

// MinLength returns the minimum accepted input length
func (s *Service) MinLength() int {
	return int(s.minLength.Load())
}

// Reconfigure swaps in new scoring constants and minimum length
func (s *Service) Reconfigure(tuning detector.Tuning, minLength int) error {
	if err := tuning.Validate(); err != nil {
		return fmt.Errorf("invalid scoring configuration: %w", err)
	}
	s.analyzer.Store(s.Analyzer().WithTuning(tuning))
	s.minLength.Store(int64(minLength))
	logging.Info("analysis reconfigured", "min_length", minLength)
	return nil
}

// AnalyzeText is a shorthand for AnalyzeDocument(ctx, NewDocument(source, text))
func (s *Service) AnalyzeText(ctx context.Context, source, text string) (Report, error) {
	return s.AnalyzeDocument(ctx, NewDocument(source, text))
}

// AnalyzeDocument validates and analyzes one document
func (s *Service) AnalyzeDocument(ctx context.Context, doc Document) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	var finishStep func(bool, string)
	if s.observer != nil && s.observer.DebugObserver != nil {
		finishStep = s.observer.DebugObserver.StartStep("analysis", "analyze", doc.ID)
	}
	finishTiming := s.observer.StartTiming("analysis", "analyze", doc.ID)

	if err := ValidateInput(doc.Text, s.MinLength()); err != nil {
		finishTiming(false, map[string]interface{}{"source": doc.Source, "error": err.Error()})
		if finishStep != nil {
			finishStep(false, err.Error())
		}
		logging.Debug("document rejected", "id", doc.ID, "source", doc.Source, "err", err)
		return Report{}, err
	}

	result := s.Analyzer().Analyze(doc.Text)
	report := Report{
		Document:   doc,
		Result:     result,
		Tier:       RiskTier(result.OverallRiskScore),
		AnalyzedAt: s.now().UTC(),
	}

	finishTiming(true, map[string]interface{}{
		"source":        doc.Source,
		"pattern_count": result.PatternCount,
		"risk":          result.OverallRiskScore,
	})
	if finishStep != nil {
		s.observer.DebugObserver.LogMetric("analysis", "overall_risk", fmt.Sprintf("%.3f", result.OverallRiskScore))
		s.observer.DebugObserver.LogMetric("analysis", "authenticity", fmt.Sprintf("%.3f", result.AuthenticityScore))
		finishStep(true, fmt.Sprintf("%d patterns, tier %s", result.PatternCount, report.Tier))
	}
	logging.Debug("document analyzed",
		"id", doc.ID,
		"source", doc.Source,
		"risk", result.OverallRiskScore,
		"tier", report.Tier,
		"patterns", result.PatternCount)

	return report, nil
}
