// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"math"
	"strings"

	"disinfo-scan/internal/patterns"
)

// ScorePattern scores one definition against already-lowercased text.
// The second return value is false when no indicator occurs, in which case the
// pattern must be left out of the result entirely.
func (a *Analyzer) ScorePattern(lowerText string, def patterns.Definition) (PatternMatch, bool) {
	if lowerText == "" {
		return PatternMatch{}, false
	}

	score := 0.0
	var found []string
	for _, indicator := range def.Indicators {
		count := strings.Count(lowerText, strings.ToLower(indicator))
		if count == 0 {
			continue
		}
		score += float64(count) * def.Weight
		found = append(found, indicator)
	}

	if score <= 0 {
		return PatternMatch{}, false
	}

	if len(found) >= a.tuning.MultiIndicatorThreshold {
		score *= a.tuning.MultiIndicatorBoost
	}

	return PatternMatch{
		PatternID:       def.ID,
		Name:            def.Name,
		Description:     def.Description,
		RawScore:        clamp01(score),
		IndicatorsFound: found,
	}, true
}

// confidence maps a disinformation raw score onto the reported confidence
func (a *Analyzer) confidence(rawScore float64) float64 {
	t := a.tuning
	return clamp01(math.Min(t.ConfidenceCeiling, rawScore*t.ConfidenceScale+t.ConfidenceOffset))
}

// scoreRegistry runs the scorer over every definition and keeps the matches
func (a *Analyzer) scoreRegistry(lowerText string, defs []patterns.Definition, withConfidence bool) map[string]PatternMatch {
	matches := make(map[string]PatternMatch)
	for _, def := range defs {
		match, ok := a.ScorePattern(lowerText, def)
		if !ok {
			continue
		}
		if withConfidence {
			match.Confidence = a.confidence(match.RawScore)
		}
		matches[def.ID] = match
	}
	return matches
}
