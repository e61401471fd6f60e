// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import "math"

// Aggregate combines per-pattern raw scores into the document risk and
// authenticity scores. Scores must be passed in registry order so that repeated
// runs sum in the same order and produce identical floats.
//
// Baselines are substituted before the cross-adjustment, so a text with no hits
// at all scores BaselineRisk * (1 - BaselineAuthenticity*AuthenticityDamping).
func (a *Analyzer) Aggregate(riskScores, authenticityScores []float64) (overallRisk, authenticity float64) {
	t := a.tuning

	overallRisk = t.BaselineRisk
	if len(riskScores) > 0 {
		overallRisk = math.Min(1, mean(riskScores)*t.MeanWeight+maxOf(riskScores)*t.MaxWeight)
	}

	authenticity = t.BaselineAuthenticity
	if len(authenticityScores) > 0 {
		authenticity = math.Min(1, mean(authenticityScores))
	}

	// Authenticity mitigates but never fully clears the risk
	overallRisk = math.Min(1, overallRisk*(1-authenticity*t.AuthenticityDamping))

	return clamp01(overallRisk), clamp01(authenticity)
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func rawScores(matches []PatternMatch) []float64 {
	scores := make([]float64, 0, len(matches))
	for _, match := range matches {
		scores = append(scores, match.RawScore)
	}
	return scores
}
