// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package history keeps the session log of completed analyses and the
// aggregate statistics shown on the dashboard.
package history

import (
	"sort"
	"time"
	"unicode/utf8"

	"disinfo-scan/internal/analysis"
)

// previewLength is the number of characters kept from the analyzed text
const previewLength = 80

// Entry is one completed analysis
type Entry struct {
	ID           string        `json:"id" yaml:"id"`
	Timestamp    time.Time     `json:"timestamp" yaml:"timestamp"`
	Source       string        `json:"source" yaml:"source"`
	TextPreview  string        `json:"text_preview" yaml:"text_preview"`
	OverallRisk  float64       `json:"overall_risk" yaml:"overall_risk"`
	Authenticity float64       `json:"authenticity_score" yaml:"authenticity_score"`
	Tier         analysis.Tier `json:"risk_tier" yaml:"risk_tier"`
	PatternCount int           `json:"pattern_count" yaml:"pattern_count"`
	PatternIDs   []string      `json:"patterns_detected" yaml:"patterns_detected"`
	WordCount    int           `json:"word_count" yaml:"word_count"`
}

// NewEntry builds a history entry from a report. The entry reuses the
// document identifier so the two can be correlated.
func NewEntry(report analysis.Report) Entry {
	return Entry{
		ID:           report.Document.ID,
		Timestamp:    report.AnalyzedAt,
		Source:       report.Document.Source,
		TextPreview:  Preview(report.Document.Text),
		OverallRisk:  report.Result.OverallRiskScore,
		Authenticity: report.Result.AuthenticityScore,
		Tier:         report.Tier,
		PatternCount: report.Result.PatternCount,
		PatternIDs:   report.Result.PatternIDs(),
		WordCount:    report.Result.Metrics.WordCount,
	}
}

// Preview keeps the first 80 characters and marks truncation with "..."
func Preview(text string) string {
	if utf8.RuneCountInString(text) <= previewLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:previewLength]) + "..."
}

// PatternCount is the number of entries a pattern was detected in
type PatternCount struct {
	PatternID string `json:"pattern_id" yaml:"pattern_id"`
	Count     int    `json:"count" yaml:"count"`
}

// Summary aggregates a set of entries
type Summary struct {
	Total           int            `json:"total_analyses" yaml:"total_analyses"`
	HighRisk        int            `json:"high_risk" yaml:"high_risk"`
	MediumRisk      int            `json:"medium_risk" yaml:"medium_risk"`
	LowRisk         int            `json:"low_risk" yaml:"low_risk"`
	AverageRisk     float64        `json:"average_risk" yaml:"average_risk"`
	HighestRisk     float64        `json:"highest_risk" yaml:"highest_risk"`
	AveragePatterns float64        `json:"average_patterns" yaml:"average_patterns"`
	TopPatterns     []PatternCount `json:"top_patterns" yaml:"top_patterns"`
}

// Summarize computes tier counts, averages and pattern frequency. TopPatterns
// is sorted by count, then by pattern id.
func Summarize(entries []Entry) Summary {
	summary := Summary{Total: len(entries), TopPatterns: []PatternCount{}}
	if len(entries) == 0 {
		return summary
	}

	counts := make(map[string]int)
	var riskSum, patternSum float64
	for _, e := range entries {
		switch analysis.RiskTier(e.OverallRisk) {
		case analysis.TierHigh:
			summary.HighRisk++
		case analysis.TierMedium:
			summary.MediumRisk++
		default:
			summary.LowRisk++
		}
		riskSum += e.OverallRisk
		patternSum += float64(e.PatternCount)
		if e.OverallRisk > summary.HighestRisk {
			summary.HighestRisk = e.OverallRisk
		}
		for _, id := range e.PatternIDs {
			counts[id]++
		}
	}

	summary.AverageRisk = riskSum / float64(len(entries))
	summary.AveragePatterns = patternSum / float64(len(entries))
	for id, n := range counts {
		summary.TopPatterns = append(summary.TopPatterns, PatternCount{PatternID: id, Count: n})
	}
	sort.Slice(summary.TopPatterns, func(i, j int) bool {
		a, b := summary.TopPatterns[i], summary.TopPatterns[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.PatternID < b.PatternID
	})
	return summary
}
