// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// sentenceBoundary splits on runs of terminal punctuation. The split is naive:
	// "Mr. Smith" yields two segments and a trailing mark yields an empty segment.
	sentenceBoundary = regexp.MustCompile(`[.!?]+`)

	allCapsToken = regexp.MustCompile(`\b[A-Z]{3,}\b`)
	numeralToken = regexp.MustCompile(`\b\d+\b`)
)

// SplitSentences returns the raw segments between runs of '.', '!' and '?'.
// Segments are untrimmed and empty segments are kept.
func SplitSentences(text string) []string {
	return sentenceBoundary.Split(text, -1)
}

// ExtractMetrics computes surface statistics. It never fails; empty input yields
// zero counts with a sentence count of 1 (the single empty segment).
func ExtractMetrics(text string) TextMetrics {
	words := strings.Fields(text)
	wordCount := len(words)

	avgWordLength := 0.0
	if wordCount > 0 {
		total := 0
		for _, w := range words {
			total += utf8.RuneCountInString(w)
		}
		avgWordLength = float64(total) / float64(wordCount)
	}

	denominator := float64(max(1, wordCount))

	return TextMetrics{
		WordCount:          wordCount,
		SentenceCount:      len(SplitSentences(text)),
		AverageWordLength:  avgWordLength,
		ExclamationDensity: float64(strings.Count(text, "!")) / denominator * 1000,
		QuestionDensity:    float64(strings.Count(text, "?")) / denominator * 1000,
		AllCapsTokenCount:  len(allCapsToken.FindAllStringIndex(text, -1)),
		NumeralTokenCount:  len(numeralToken.FindAllStringIndex(text, -1)),
	}
}
