// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"strings"
	"unicode/utf8"

	"disinfo-scan/internal/patterns"
)

// Timeline builds per-sentence risk snapshots for the leading sentences of text.
//
// Sentences come from the same naive splitter as the metrics. A sentence qualifies
// when its trimmed length exceeds TimelineMinSentenceLength; within a qualifying
// sentence each definition contributes its weight at most once, on the first of
// its indicators that occurs. Scanning stops as soon as TimelineMaxEntries entries
// are collected, so long documents are only partially scanned.
func (a *Analyzer) Timeline(text string, defs []patterns.Definition) []TimelineEntry {
	t := a.tuning
	entries := make([]TimelineEntry, 0, t.TimelineMaxEntries)
	if t.TimelineMaxEntries == 0 {
		return entries
	}

	for _, raw := range SplitSentences(text) {
		sentence := strings.TrimSpace(raw)
		if utf8.RuneCountInString(sentence) <= t.TimelineMinSentenceLength {
			continue
		}

		lower := strings.ToLower(sentence)
		risk := 0.0
		hits := 0
		names := []string{}
		for _, def := range defs {
			for _, indicator := range def.Indicators {
				if !strings.Contains(lower, strings.ToLower(indicator)) {
					continue
				}
				risk += def.Weight
				hits++
				if len(names) < t.TimelineMaxPatternNames && !contains(names, def.Name) {
					names = append(names, def.Name)
				}
				break
			}
		}

		if hits == 0 {
			continue
		}

		entries = append(entries, TimelineEntry{
			Sentence: sentence,
			Risk:     clamp01(risk),
			Patterns: names,
		})
		if len(entries) >= t.TimelineMaxEntries {
			break
		}
	}

	return entries
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
