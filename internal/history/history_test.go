// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package history

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"disinfo-scan/internal/analysis"
	"disinfo-scan/internal/detector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func entry(i int, risk float64, ids ...string) Entry {
	if ids == nil {
		ids = []string{}
	}
	return Entry{
		ID:           fmt.Sprintf("entry-%d", i),
		Timestamp:    baseTime.Add(time.Duration(i) * time.Minute),
		Source:       "text",
		TextPreview:  fmt.Sprintf("preview %d", i),
		OverallRisk:  risk,
		Authenticity: 0.2,
		Tier:         analysis.RiskTier(risk),
		PatternCount: len(ids),
		PatternIDs:   ids,
		WordCount:    10 + i,
	}
}

// logContract runs the behavior every Log implementation must share
func logContract(t *testing.T, open func(limit int) Log) {
	ctx := context.Background()

	t.Run("append and read in order", func(t *testing.T) {
		log := open(0)
		defer log.Close()

		for i := 0; i < 3; i++ {
			require.NoError(t, log.Append(ctx, entry(i, 0.1*float64(i+1), "emotional_amplification")))
		}

		entries, err := log.Entries(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, entry(0, 0.1, "emotional_amplification"), entries[0])
		assert.Equal(t, "entry-2", entries[2].ID)
	})

	t.Run("recent returns newest oldest first", func(t *testing.T) {
		log := open(0)
		defer log.Close()

		for i := 0; i < 5; i++ {
			require.NoError(t, log.Append(ctx, entry(i, 0.2)))
		}

		recent, err := log.Recent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, "entry-3", recent[0].ID)
		assert.Equal(t, "entry-4", recent[1].ID)

		all, err := log.Recent(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, all, 5)
	})

	t.Run("limit evicts oldest", func(t *testing.T) {
		log := open(2)
		defer log.Close()

		for i := 0; i < 4; i++ {
			require.NoError(t, log.Append(ctx, entry(i, 0.2)))
		}

		entries, err := log.Entries(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "entry-2", entries[0].ID)
		assert.Equal(t, "entry-3", entries[1].ID)
	})

	t.Run("clear", func(t *testing.T) {
		log := open(0)
		defer log.Close()

		require.NoError(t, log.Append(ctx, entry(0, 0.9, "urgency_creation")))
		require.NoError(t, log.Clear(ctx))

		entries, err := log.Entries(ctx)
		require.NoError(t, err)
		assert.Empty(t, entries)

		summary, err := log.Summary(ctx)
		require.NoError(t, err)
		assert.Zero(t, summary.Total)
	})

	t.Run("stored entries are copies", func(t *testing.T) {
		log := open(0)
		defer log.Close()

		e := entry(0, 0.5, "urgency_creation")
		require.NoError(t, log.Append(ctx, e))
		e.PatternIDs[0] = "changed"

		entries, err := log.Entries(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"urgency_creation"}, entries[0].PatternIDs)
	})

	t.Run("summary", func(t *testing.T) {
		log := open(0)
		defer log.Close()

		require.NoError(t, log.Append(ctx, entry(0, 0.9, "urgency_creation", "emotional_amplification")))
		require.NoError(t, log.Append(ctx, entry(1, 0.5, "urgency_creation")))

		summary, err := log.Summary(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, summary.Total)
		assert.Equal(t, 1, summary.HighRisk)
		assert.Equal(t, 1, summary.MediumRisk)
		assert.InDelta(t, 0.7, summary.AverageRisk, 1e-9)
	})
}

func TestMemoryLog(t *testing.T) {
	logContract(t, func(limit int) Log { return NewMemoryLog(limit) })
}

func TestSQLiteLog(t *testing.T) {
	logContract(t, func(limit int) Log {
		log, err := OpenSQLiteLog(limit)
		require.NoError(t, err)
		return log
	})
}

func TestSQLiteLog_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()

	first, err := OpenSQLiteLog(0)
	require.NoError(t, err)
	defer first.Close()
	second, err := OpenSQLiteLog(0)
	require.NoError(t, err)
	defer second.Close()

	require.NoError(t, first.Append(ctx, entry(0, 0.3)))

	entries, err := second.Entries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMemoryLog_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	log := NewMemoryLog(0)
	assert.ErrorIs(t, log.Append(ctx, entry(0, 0.1)), context.Canceled)
	_, err := log.Entries(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpen(t *testing.T) {
	for _, store := range []string{"", "memory", "sqlite"} {
		log, err := Open(store, 10)
		require.NoError(t, err, store)
		require.NoError(t, log.Close())
	}

	_, err := Open("redis", 10)
	assert.ErrorContains(t, err, "unknown history store")
}

func TestSummarize(t *testing.T) {
	entries := []Entry{
		entry(0, 0.95, "urgency_creation", "emotional_amplification"),
		entry(1, 0.7, "emotional_amplification"),
		entry(2, 0.4, "conspiracy_framing"),
		entry(3, 0.1),
	}

	summary := Summarize(entries)

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 1, summary.HighRisk)
	assert.Equal(t, 2, summary.MediumRisk)
	assert.Equal(t, 1, summary.LowRisk)
	assert.InDelta(t, 0.5375, summary.AverageRisk, 1e-9)
	assert.Equal(t, 0.95, summary.HighestRisk)
	assert.InDelta(t, 1.0, summary.AveragePatterns, 1e-9)
	assert.Equal(t, []PatternCount{
		{PatternID: "emotional_amplification", Count: 2},
		{PatternID: "conspiracy_framing", Count: 1},
		{PatternID: "urgency_creation", Count: 1},
	}, summary.TopPatterns)
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)
	assert.Zero(t, summary.Total)
	assert.NotNil(t, summary.TopPatterns)
	assert.Empty(t, summary.TopPatterns)
}

func TestPreview(t *testing.T) {
	short := "A short text."
	assert.Equal(t, short, Preview(short))

	exact := strings.Repeat("a", 80)
	assert.Equal(t, exact, Preview(exact))

	long := strings.Repeat("é", 100)
	preview := Preview(long)
	assert.Equal(t, strings.Repeat("é", 80)+"...", preview)
}

func TestNewEntry(t *testing.T) {
	text := "BREAKING: Scientists are HIDING the truth! Share before they delete it!"
	doc := analysis.NewDocument("stdin", text)
	result := detector.Analyze(text)
	report := analysis.Report{
		Document:   doc,
		Result:     result,
		Tier:       analysis.RiskTier(result.OverallRiskScore),
		AnalyzedAt: baseTime,
	}

	e := NewEntry(report)

	assert.Equal(t, doc.ID, e.ID)
	assert.Equal(t, baseTime, e.Timestamp)
	assert.Equal(t, "stdin", e.Source)
	assert.Equal(t, text, e.TextPreview)
	assert.Equal(t, result.OverallRiskScore, e.OverallRisk)
	assert.Equal(t, result.AuthenticityScore, e.Authenticity)
	assert.Equal(t, report.Tier, e.Tier)
	assert.Equal(t, result.PatternCount, e.PatternCount)
	assert.Equal(t, result.PatternIDs(), e.PatternIDs)
	assert.Equal(t, result.Metrics.WordCount, e.WordCount)
}

func TestWriteCSV(t *testing.T) {
	e := entry(0, 0.8123, "urgency_creation", "emotional_amplification")
	e.TextPreview = `=cmd, "quoted"`

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []Entry{e}))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,timestamp,source,text_preview,overall_risk,authenticity_score,risk_tier,pattern_count,patterns_detected,word_count", lines[0])
	assert.Equal(t,
		`entry-0,2024-05-01T12:00:00Z,text,"'=cmd, ""quoted""",0.812,0.200,HIGH,2,urgency_creation;emotional_amplification,10`,
		lines[1])
}

func TestEscapeCSVField(t *testing.T) {
	cases := map[string]string{
		"plain":      "plain",
		"":           "",
		"+1":         "'+1",
		"-1":         "'-1",
		"@SUM(A1)":   "'@SUM(A1)",
		"a,b":        `"a,b"`,
		"line\nnext": "\"line\nnext\"",
		`say "hi"`:   `"say ""hi"""`,
	}
	for in, want := range cases {
		assert.Equal(t, want, EscapeCSVField(in), in)
	}
}

func TestFormatAge(t *testing.T) {
	e := entry(0, 0.1)
	assert.Equal(t, "3 minutes ago", FormatAge(e, baseTime.Add(3*time.Minute)))
}
