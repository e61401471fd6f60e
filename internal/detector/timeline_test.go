// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"strings"
	"testing"

	"disinfo-scan/internal/patterns"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeline_ScenarioA(t *testing.T) {
	timeline := Analyze(scenarioA).Timeline

	require.Len(t, timeline, 2)
	assert.Equal(t, "SHOCKING BREAKING NEWS", timeline[0].Sentence)
	assert.Equal(t, 1.0, timeline[0].Risk)
	assert.Equal(t, []string{"Emotional Amplification", "False Urgency"}, timeline[0].Patterns)

	assert.Equal(t, "The government is HIDING the REAL truth about this AMAZING discovery", timeline[1].Sentence)
	assert.InDelta(t, 0.85, timeline[1].Risk, 1e-12)
	assert.Equal(t, []string{"Emotional Amplification"}, timeline[1].Patterns)
}

func TestTimeline_BoundedToFiveInOrder(t *testing.T) {
	sentences := []string{
		"Sentence one is trending",
		"Sentence two is trending",
		"Sentence three is trending",
		"Sentence four is trending",
		"Sentence five is trending",
		"Sentence six is trending",
		"Sentence seven is trending",
	}
	text := strings.Join(sentences, ". ") + "."

	timeline := Analyze(text).Timeline

	require.Len(t, timeline, 5)
	for i, entry := range timeline {
		assert.Equal(t, sentences[i], entry.Sentence)
		assert.InDelta(t, 0.70, entry.Risk, 1e-12)
		assert.Equal(t, []string{"Artificial Social Proof"}, entry.Patterns)
	}
}

func TestTimeline_ShortSentencesSkipped(t *testing.T) {
	// "Act now" and "Viral, 10" are too short to qualify
	timeline := Analyze("Act now! Viral, 10! This story is going viral everywhere.").Timeline

	require.Len(t, timeline, 1)
	assert.Equal(t, "This story is going viral everywhere", timeline[0].Sentence)
}

func TestTimeline_FirstIndicatorWinsPerDefinition(t *testing.T) {
	timeline := Analyze("shocking and amazing and terrifying news").Timeline

	require.Len(t, timeline, 1)
	assert.InDelta(t, 0.85, timeline[0].Risk, 1e-12)
}

func TestTimeline_AtMostTwoNames(t *testing.T) {
	timeline := Analyze("Breaking: shocking viral story here").Timeline

	require.Len(t, timeline, 1)
	assert.Equal(t, 1.0, timeline[0].Risk)
	assert.Equal(t, []string{"Emotional Amplification", "False Urgency"}, timeline[0].Patterns)
}

func TestTimeline_SentencesWithoutHitsAreNotEntries(t *testing.T) {
	timeline := Analyze("A perfectly calm sentence here. Another calm sentence follows.").Timeline
	assert.Empty(t, timeline)
}

func TestTimeline_OnlyLeadingSentencesScanned(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 5; i++ {
		b.WriteString("This rumour is trending again. ")
	}
	b.WriteString("The mainstream media hides the cover-up.")

	timeline := Analyze(b.String()).Timeline
	require.Len(t, timeline, 5)
	for _, entry := range timeline {
		assert.NotContains(t, entry.Patterns, "Conspiracy Framing")
	}
}

func TestTimeline_CustomLimits(t *testing.T) {
	tuning := DefaultTuning()
	tuning.TimelineMaxEntries = 1
	tuning.TimelineMaxPatternNames = 1
	a := NewAnalyzer().WithTuning(tuning)

	timeline := a.Timeline("Breaking: shocking viral story here. Another viral story here.", patterns.Disinformation())
	require.Len(t, timeline, 1)
	assert.Equal(t, []string{"Emotional Amplification"}, timeline[0].Patterns)

	tuning.TimelineMaxEntries = 0
	assert.Empty(t, NewAnalyzer().WithTuning(tuning).Timeline(scenarioA, patterns.Disinformation()))
}
