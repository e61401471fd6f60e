// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"fmt"

	"disinfo-scan/internal/patterns"
)

// PatternMatch is the per-analysis result for one matched pattern
type PatternMatch struct {
	PatternID   string `json:"pattern_id" yaml:"pattern_id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`

	// RawScore is the boosted weighted hit total, clamped to [0, 1]
	RawScore float64 `json:"raw_score" yaml:"raw_score"`

	// IndicatorsFound lists the definition's indicators that occur at least once,
	// in definition order
	IndicatorsFound []string `json:"indicators_found" yaml:"indicators_found"`

	// Confidence is only set for disinformation matches
	Confidence float64 `json:"confidence,omitempty" yaml:"confidence,omitempty"`
}

// TextMetrics holds surface statistics of the analysed text
type TextMetrics struct {
	WordCount          int     `json:"word_count" yaml:"word_count"`
	SentenceCount      int     `json:"sentence_count" yaml:"sentence_count"`
	AverageWordLength  float64 `json:"average_word_length" yaml:"average_word_length"`
	ExclamationDensity float64 `json:"exclamation_density" yaml:"exclamation_density"` // per 1000 words
	QuestionDensity    float64 `json:"question_density" yaml:"question_density"`       // per 1000 words
	AllCapsTokenCount  int     `json:"all_caps_token_count" yaml:"all_caps_token_count"`
	NumeralTokenCount  int     `json:"numeral_token_count" yaml:"numeral_token_count"`
}

// TimelineEntry is a localized risk snapshot for one sentence
type TimelineEntry struct {
	Sentence string   `json:"sentence" yaml:"sentence"`
	Risk     float64  `json:"risk" yaml:"risk"`
	Patterns []string `json:"patterns" yaml:"patterns"`
}

// AnalysisResult is the single output of an analysis. It shares nothing with the
// analyzer that produced it.
type AnalysisResult struct {
	OverallRiskScore     float64                 `json:"overall_risk_score" yaml:"overall_risk_score"`
	AuthenticityScore    float64                 `json:"authenticity_score" yaml:"authenticity_score"`
	PatternCount         int                     `json:"pattern_count" yaml:"pattern_count"`
	Patterns             map[string]PatternMatch `json:"patterns_detected" yaml:"patterns_detected"`
	AuthenticityPatterns map[string]PatternMatch `json:"authenticity_patterns" yaml:"authenticity_patterns"`
	Metrics              TextMetrics             `json:"text_metrics" yaml:"text_metrics"`
	Timeline             []TimelineEntry         `json:"timeline_analysis" yaml:"timeline_analysis"`
}

// OrderedPatterns returns the disinformation matches in registry order
func (r AnalysisResult) OrderedPatterns() []PatternMatch {
	return orderMatches(r.Patterns, patterns.Disinformation())
}

// OrderedAuthenticityPatterns returns the authenticity matches in registry order
func (r AnalysisResult) OrderedAuthenticityPatterns() []PatternMatch {
	return orderMatches(r.AuthenticityPatterns, patterns.Authenticity())
}

// PatternIDs returns the ids of the matched disinformation patterns in registry order
func (r AnalysisResult) PatternIDs() []string {
	ids := make([]string, 0, len(r.Patterns))
	for _, match := range r.OrderedPatterns() {
		ids = append(ids, match.PatternID)
	}
	return ids
}

func orderMatches(matches map[string]PatternMatch, registry []patterns.Definition) []PatternMatch {
	ordered := make([]PatternMatch, 0, len(matches))
	for _, def := range registry {
		if match, ok := matches[def.ID]; ok {
			ordered = append(ordered, match)
		}
	}
	return ordered
}

// Tuning holds the hand-tuned scoring constants. DefaultTuning preserves the
// reference values; callers may override them through configuration.
type Tuning struct {
	BaselineRisk         float64 `yaml:"baseline_risk" toml:"baseline_risk" json:"baseline_risk"`
	BaselineAuthenticity float64 `yaml:"baseline_authenticity" toml:"baseline_authenticity" json:"baseline_authenticity"`

	MultiIndicatorBoost     float64 `yaml:"multi_indicator_boost" toml:"multi_indicator_boost" json:"multi_indicator_boost"`
	MultiIndicatorThreshold int     `yaml:"multi_indicator_threshold" toml:"multi_indicator_threshold" json:"multi_indicator_threshold"`

	ConfidenceScale   float64 `yaml:"confidence_scale" toml:"confidence_scale" json:"confidence_scale"`
	ConfidenceOffset  float64 `yaml:"confidence_offset" toml:"confidence_offset" json:"confidence_offset"`
	ConfidenceCeiling float64 `yaml:"confidence_ceiling" toml:"confidence_ceiling" json:"confidence_ceiling"`

	MeanWeight          float64 `yaml:"mean_weight" toml:"mean_weight" json:"mean_weight"`
	MaxWeight           float64 `yaml:"max_weight" toml:"max_weight" json:"max_weight"`
	AuthenticityDamping float64 `yaml:"authenticity_damping" toml:"authenticity_damping" json:"authenticity_damping"`

	TimelineMaxEntries        int `yaml:"timeline_max_entries" toml:"timeline_max_entries" json:"timeline_max_entries"`
	TimelineMinSentenceLength int `yaml:"timeline_min_sentence_length" toml:"timeline_min_sentence_length" json:"timeline_min_sentence_length"`
	TimelineMaxPatternNames   int `yaml:"timeline_max_pattern_names" toml:"timeline_max_pattern_names" json:"timeline_max_pattern_names"`
}

// DefaultTuning returns the reference scoring constants
func DefaultTuning() Tuning {
	return Tuning{
		BaselineRisk:              0.1,
		BaselineAuthenticity:      0.1,
		MultiIndicatorBoost:       1.3,
		MultiIndicatorThreshold:   2,
		ConfidenceScale:           0.8,
		ConfidenceOffset:          0.2,
		ConfidenceCeiling:         0.95,
		MeanWeight:                0.6,
		MaxWeight:                 0.4,
		AuthenticityDamping:       0.5,
		TimelineMaxEntries:        5,
		TimelineMinSentenceLength: 10,
		TimelineMaxPatternNames:   2,
	}
}

// Validate rejects tunings that could push scores outside [0, 1] or disable the timeline
func (t Tuning) Validate() error {
	unit := map[string]float64{
		"baseline_risk":         t.BaselineRisk,
		"baseline_authenticity": t.BaselineAuthenticity,
		"confidence_scale":      t.ConfidenceScale,
		"confidence_offset":     t.ConfidenceOffset,
		"confidence_ceiling":    t.ConfidenceCeiling,
		"mean_weight":           t.MeanWeight,
		"max_weight":            t.MaxWeight,
		"authenticity_damping":  t.AuthenticityDamping,
	}
	for name, value := range unit {
		if value < 0 || value > 1 {
			return fmt.Errorf("scoring.%s must be within [0, 1], got %v", name, value)
		}
	}
	if t.MultiIndicatorBoost < 1 {
		return fmt.Errorf("scoring.multi_indicator_boost must be >= 1, got %v", t.MultiIndicatorBoost)
	}
	if t.MultiIndicatorThreshold < 1 {
		return fmt.Errorf("scoring.multi_indicator_threshold must be >= 1, got %d", t.MultiIndicatorThreshold)
	}
	if t.TimelineMaxEntries < 0 || t.TimelineMinSentenceLength < 0 || t.TimelineMaxPatternNames < 0 {
		return fmt.Errorf("scoring timeline limits must not be negative")
	}
	return nil
}

// clamp01 keeps a score within [0, 1]
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
