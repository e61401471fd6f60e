// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"strings"

	"disinfo-scan/internal/patterns"
)

// Analyzer scores text against the pattern registries. It holds no mutable state
// after construction and is safe for concurrent use by any number of goroutines.
type Analyzer struct {
	tuning         Tuning
	disinformation []patterns.Definition
	authenticity   []patterns.Definition
}

// NewAnalyzer creates an analyzer over the built-in registries with the reference tuning
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		tuning:         DefaultTuning(),
		disinformation: patterns.Disinformation(),
		authenticity:   patterns.Authenticity(),
	}
}

// WithTuning returns a copy of the analyzer that uses the given constants.
// The receiver is left unchanged.
func (a *Analyzer) WithTuning(tuning Tuning) *Analyzer {
	clone := *a
	clone.tuning = tuning
	return &clone
}

// Tuning returns the constants in use
func (a *Analyzer) Tuning() Tuning {
	return a.tuning
}

// Analyze scores text and returns a freshly built result. It is a total function:
// any string, including the empty string, produces a result with every score
// inside [0, 1].
func (a *Analyzer) Analyze(text string) AnalysisResult {
	lower := strings.ToLower(text)

	disinformation := a.scoreRegistry(lower, a.disinformation, true)
	authenticity := a.scoreRegistry(lower, a.authenticity, false)

	risk, authenticityScore := a.Aggregate(
		rawScores(orderMatches(disinformation, a.disinformation)),
		rawScores(orderMatches(authenticity, a.authenticity)),
	)

	return AnalysisResult{
		OverallRiskScore:     risk,
		AuthenticityScore:    authenticityScore,
		PatternCount:         len(disinformation),
		Patterns:             disinformation,
		AuthenticityPatterns: authenticity,
		Metrics:              ExtractMetrics(text),
		Timeline:             a.Timeline(text, a.disinformation),
	}
}

var defaultAnalyzer = NewAnalyzer()

// Analyze runs the shared default analyzer
func Analyze(text string) AnalysisResult {
	return defaultAnalyzer.Analyze(text)
}
