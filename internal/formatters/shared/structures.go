// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"time"

	"disinfo-scan/internal/analysis"
	"disinfo-scan/internal/detector"
	"disinfo-scan/internal/formatters"
	"disinfo-scan/internal/history"
)

// JSONResponse represents the top-level response structure for JSON/YAML output
type JSONResponse struct {
	Results []JSONReport `json:"results" yaml:"results"`
	Summary JSONSummary  `json:"summary" yaml:"summary"`
}

// JSONReport represents one analyzed document in JSON/YAML format
type JSONReport struct {
	ID                   string                   `json:"id" yaml:"id"`
	Source               string                   `json:"source" yaml:"source"`
	OverallRiskScore     float64                  `json:"overall_risk_score" yaml:"overall_risk_score"`
	RiskTier             string                   `json:"risk_tier" yaml:"risk_tier"`
	RiskLabel            string                   `json:"risk_label" yaml:"risk_label"`
	AuthenticityScore    float64                  `json:"authenticity_score" yaml:"authenticity_score"`
	PatternCount         int                      `json:"pattern_count" yaml:"pattern_count"`
	Patterns             []JSONPattern            `json:"patterns_detected" yaml:"patterns_detected"`
	AuthenticityPatterns []JSONPattern            `json:"authenticity_patterns" yaml:"authenticity_patterns"`
	Metrics              *detector.TextMetrics    `json:"text_metrics,omitempty" yaml:"text_metrics,omitempty"`
	Timeline             []detector.TimelineEntry `json:"timeline_analysis,omitempty" yaml:"timeline_analysis,omitempty"`
	AnalyzedAt           time.Time                `json:"analyzed_at" yaml:"analyzed_at"`
}

// JSONPattern represents one matched pattern
type JSONPattern struct {
	ID              string   `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	Description     string   `json:"description,omitempty" yaml:"description,omitempty"`
	Score           float64  `json:"score" yaml:"score"`
	Strength        string   `json:"strength" yaml:"strength"`
	Confidence      float64  `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	IndicatorsFound []string `json:"indicators_found" yaml:"indicators_found"`
}

// JSONSummary aggregates the reports in one response
type JSONSummary struct {
	Documents   int     `json:"documents" yaml:"documents"`
	HighRisk    int     `json:"high_risk" yaml:"high_risk"`
	MediumRisk  int     `json:"medium_risk" yaml:"medium_risk"`
	LowRisk     int     `json:"low_risk" yaml:"low_risk"`
	HighestRisk float64 `json:"highest_risk" yaml:"highest_risk"`
}

// HistoryResponse is the JSON/YAML shape of a history export
type HistoryResponse struct {
	Summary history.Summary `json:"summary" yaml:"summary"`
	Entries []history.Entry `json:"entries" yaml:"entries"`
}

// ConvertReportsToJSONFormat converts reports to the JSON/YAML response shape.
// Verbose output adds pattern descriptions, text metrics and the timeline.
func ConvertReportsToJSONFormat(reports []analysis.Report, options formatters.FormatterOptions) JSONResponse {
	response := JSONResponse{
		Results: make([]JSONReport, 0, len(reports)),
		Summary: Summarize(reports),
	}

	for _, report := range reports {
		result := report.Result
		jr := JSONReport{
			ID:                   report.Document.ID,
			Source:               report.Document.Source,
			OverallRiskScore:     result.OverallRiskScore,
			RiskTier:             string(report.Tier),
			RiskLabel:            report.Tier.Label(),
			AuthenticityScore:    result.AuthenticityScore,
			PatternCount:         result.PatternCount,
			Patterns:             ConvertPatterns(result.OrderedPatterns(), options.Verbose),
			AuthenticityPatterns: ConvertPatterns(result.OrderedAuthenticityPatterns(), options.Verbose),
			AnalyzedAt:           report.AnalyzedAt,
		}
		if options.Verbose {
			metrics := result.Metrics
			jr.Metrics = &metrics
			jr.Timeline = result.Timeline
		}
		response.Results = append(response.Results, jr)
	}

	return response
}

// ConvertPatterns converts matches, keeping their order
func ConvertPatterns(matches []detector.PatternMatch, withDescription bool) []JSONPattern {
	out := make([]JSONPattern, 0, len(matches))
	for _, match := range matches {
		jp := JSONPattern{
			ID:              match.PatternID,
			Name:            match.Name,
			Score:           match.RawScore,
			Strength:        string(analysis.StrengthTier(match.RawScore)),
			Confidence:      match.Confidence,
			IndicatorsFound: match.IndicatorsFound,
		}
		if withDescription {
			jp.Description = match.Description
		}
		out = append(out, jp)
	}
	return out
}

// Summarize counts reports per tier
func Summarize(reports []analysis.Report) JSONSummary {
	summary := JSONSummary{Documents: len(reports)}
	for _, report := range reports {
		switch report.Tier {
		case analysis.TierHigh:
			summary.HighRisk++
		case analysis.TierMedium:
			summary.MediumRisk++
		default:
			summary.LowRisk++
		}
		if report.Result.OverallRiskScore > summary.HighestRisk {
			summary.HighestRisk = report.Result.OverallRiskScore
		}
	}
	return summary
}

// NewHistoryResponse wraps a history export
func NewHistoryResponse(entries []history.Entry, summary history.Summary) HistoryResponse {
	if entries == nil {
		entries = []history.Entry{}
	}
	return HistoryResponse{Summary: summary, Entries: entries}
}
