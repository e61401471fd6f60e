// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package cases

import (
	"math/rand/v2"
	"testing"

	"disinfo-scan/internal/analysis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	catalog, err := Default()
	require.NoError(t, err)
	require.Equal(t, 5, catalog.Len())

	all := catalog.All()
	assert.Equal(t, "Emotional Amplification Case", all[0].Title)
	assert.Equal(t, "Data-Driven Analysis", all[4].Title)
	for _, study := range all {
		assert.NotEmpty(t, study.Text, study.Title)
		assert.NotEmpty(t, study.Patterns, study.Title)
		assert.NotEmpty(t, study.AnalysisFocus, study.Title)
	}
}

func TestCatalog_Get(t *testing.T) {
	catalog, err := Default()
	require.NoError(t, err)

	study, ok := catalog.Get("balanced scientific report")
	require.True(t, ok)
	assert.Equal(t, "Low", study.RiskLevel)
	assert.Equal(t, analysis.TierLow, study.ExpectedTier())

	_, ok = catalog.Get("missing")
	assert.False(t, ok)
}

func TestCatalog_AllReturnsCopies(t *testing.T) {
	catalog, err := Default()
	require.NoError(t, err)

	all := catalog.All()
	all[0].Patterns[0] = "changed"
	all[0].Title = "changed"

	again := catalog.All()
	assert.Equal(t, "emotional_amplification", again[0].Patterns[0])
	assert.Equal(t, "Emotional Amplification Case", again[0].Title)
}

func TestCatalog_RandomIsDeterministicForSeed(t *testing.T) {
	catalog, err := Default()
	require.NoError(t, err)

	first, err := catalog.Random(rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	second, err := catalog.Random(rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	seen := map[string]bool{}
	r := rand.New(rand.NewPCG(7, 7))
	for i := 0; i < 200; i++ {
		study, err := catalog.Random(r)
		require.NoError(t, err)
		seen[study.Title] = true
	}
	assert.Len(t, seen, catalog.Len())
}

func TestCatalog_RandomEmpty(t *testing.T) {
	catalog, err := Load([]byte("[]"))
	require.NoError(t, err)

	_, err = catalog.Random(rand.New(rand.NewPCG(1, 1)))
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name string
		data string
		want string
	}{
		{"not json", "{", "parse case studies"},
		{"missing field", `[{"title": "x", "text": "long enough text", "patterns": []}]`, "validate case studies"},
		{"bad risk level", `[{"title": "x", "text": "long enough text", "patterns": [], "risk_level": "Severe", "analysis_focus": ""}]`, "validate case studies"},
		{"unknown pattern", `[{"title": "x", "text": "long enough text", "patterns": ["made_up"], "risk_level": "Low", "analysis_focus": ""}]`, "unknown pattern"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load([]byte(tc.data))
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestExpectedTier(t *testing.T) {
	assert.Equal(t, analysis.TierHigh, CaseStudy{RiskLevel: "High"}.ExpectedTier())
	assert.Equal(t, analysis.TierMedium, CaseStudy{RiskLevel: "Medium"}.ExpectedTier())
	assert.Equal(t, analysis.TierLow, CaseStudy{RiskLevel: "Low"}.ExpectedTier())
}
