// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters_test

import (
	stdjson "encoding/json"
	"strings"
	"testing"
	"time"

	"disinfo-scan/internal/analysis"
	"disinfo-scan/internal/detector"
	"disinfo-scan/internal/formatters"
	_ "disinfo-scan/internal/formatters/csv"
	_ "disinfo-scan/internal/formatters/json"
	"disinfo-scan/internal/formatters/shared"
	_ "disinfo-scan/internal/formatters/text"
	_ "disinfo-scan/internal/formatters/yaml"
	"disinfo-scan/internal/history"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const alarmingText = "SHOCKING BREAKING NEWS!!! The government is HIDING the REAL truth about this AMAZING discovery! Doctors are DEVASTATED by what they found!"

const calmText = "According to a study published in the Journal of Medical Research, researchers found a 15% improvement in outcomes."

var analyzedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func report(id, source, text string) analysis.Report {
	result := detector.Analyze(text)
	return analysis.Report{
		Document:   analysis.Document{ID: id, Source: source, Text: text},
		Result:     result,
		Tier:       analysis.RiskTier(result.OverallRiskScore),
		AnalyzedAt: analyzedAt,
	}
}

func sampleReports() []analysis.Report {
	return []analysis.Report{
		report("doc-1", "alarming.txt", alarmingText),
		report("doc-2", "calm.txt", calmText),
	}
}

func TestRegistry_DefaultFormats(t *testing.T) {
	assert.Equal(t, []string{"csv", "json", "text", "yaml"}, formatters.List())

	for _, name := range formatters.List() {
		info := formatters.GetFormatInfo(name)
		assert.Equal(t, name, info.Name)
		assert.NotEmpty(t, info.MimeType)
		assert.True(t, strings.HasPrefix(info.Extension, "."))
		assert.True(t, info.HistoryExport, name)
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	_, err := formatters.Export("sarif", sampleReports(), formatters.FormatterOptions{})
	assert.ErrorContains(t, err, "Available formats: csv, json, text, yaml")
}

func TestExportForWeb(t *testing.T) {
	content, mime, filename, err := formatters.ExportForWeb("json", sampleReports(), formatters.FormatterOptions{})
	require.NoError(t, err)
	assert.Equal(t, "application/json", mime)
	assert.Equal(t, "disinfo-scan-results.json", filename)
	assert.True(t, stdjson.Valid([]byte(content)))
}

func TestJSONFormatter(t *testing.T) {
	reports := sampleReports()
	content, err := formatters.Export("json", reports, formatters.FormatterOptions{})
	require.NoError(t, err)

	var response shared.JSONResponse
	require.NoError(t, stdjson.Unmarshal([]byte(content), &response))

	require.Len(t, response.Results, 2)
	first := response.Results[0]
	assert.Equal(t, "doc-1", first.ID)
	assert.Equal(t, "alarming.txt", first.Source)
	assert.Equal(t, reports[0].Result.OverallRiskScore, first.OverallRiskScore)
	assert.Equal(t, string(reports[0].Tier), first.RiskTier)
	assert.Equal(t, reports[0].Tier.Label(), first.RiskLabel)
	assert.Equal(t, reports[0].Result.PatternCount, len(first.Patterns))
	assert.Nil(t, first.Metrics)
	assert.Empty(t, first.Patterns[0].Description)

	assert.Equal(t, 2, response.Summary.Documents)
	assert.Equal(t, response.Summary.Documents,
		response.Summary.HighRisk+response.Summary.MediumRisk+response.Summary.LowRisk)
}

func TestJSONFormatter_Verbose(t *testing.T) {
	reports := sampleReports()
	content, err := formatters.Export("json", reports, formatters.FormatterOptions{Verbose: true})
	require.NoError(t, err)

	var response shared.JSONResponse
	require.NoError(t, stdjson.Unmarshal([]byte(content), &response))

	first := response.Results[0]
	require.NotNil(t, first.Metrics)
	assert.Equal(t, reports[0].Result.Metrics, *first.Metrics)
	assert.Equal(t, reports[0].Result.Timeline, first.Timeline)
	assert.NotEmpty(t, first.Patterns[0].Description)
}

func TestJSONFormatter_Empty(t *testing.T) {
	content, err := formatters.Export("json", nil, formatters.FormatterOptions{})
	require.NoError(t, err)
	assert.Contains(t, content, `"results": []`)
}

func TestYAMLFormatter_MatchesJSONStructure(t *testing.T) {
	reports := sampleReports()
	content, err := formatters.Export("yaml", reports, formatters.FormatterOptions{})
	require.NoError(t, err)

	var response shared.JSONResponse
	require.NoError(t, yaml.Unmarshal([]byte(content), &response))
	require.Len(t, response.Results, 2)
	assert.Equal(t, "doc-2", response.Results[1].ID)
	assert.Equal(t, reports[1].Result.AuthenticityScore, response.Results[1].AuthenticityScore)
}

func TestCSVFormatter(t *testing.T) {
	content, err := formatters.Export("csv", sampleReports(), formatters.FormatterOptions{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Source,Risk Score,Risk Tier,Authenticity,Pattern Count,Patterns,Analyzed At", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "doc-1,alarming.txt,"))
	assert.Contains(t, lines[1], "emotional_amplification:")
	assert.True(t, strings.HasSuffix(lines[1], ",2024-05-01T12:00:00Z"))
}

func TestCSVFormatter_VerboseAndInjection(t *testing.T) {
	r := report("doc-1", "=HYPERLINK(\"x\")", alarmingText)
	content, err := formatters.Export("csv", []analysis.Report{r}, formatters.FormatterOptions{Verbose: true})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Words,Sentences")
	assert.Contains(t, lines[1], `"'=HYPERLINK(""x"")"`)
}

func TestTextFormatter_Summary(t *testing.T) {
	reports := sampleReports()
	content, err := formatters.Export("text", reports, formatters.FormatterOptions{NoColor: true})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(content, "TIER"))
	assert.Contains(t, content, "alarming.txt")
	assert.Contains(t, content, "Emotional Amplification")
	assert.Contains(t, content, "2 documents analyzed")
	assert.NotContains(t, content, "\x1b[")
}

func TestTextFormatter_Verbose(t *testing.T) {
	reports := sampleReports()[:1]
	content, err := formatters.Export("text", reports, formatters.FormatterOptions{Verbose: true, NoColor: true})
	require.NoError(t, err)

	assert.Contains(t, content, "Document: alarming.txt")
	assert.Contains(t, content, reports[0].Tier.Label())
	assert.Contains(t, content, "indicators: ")
	assert.Contains(t, content, "Timeline:")
	assert.Contains(t, content, "SHOCKING BREAKING NEWS")
	assert.NotContains(t, content, "documents analyzed")
}

func TestTextFormatter_Empty(t *testing.T) {
	content, err := formatters.Export("text", nil, formatters.FormatterOptions{NoColor: true})
	require.NoError(t, err)
	assert.Equal(t, "No documents analyzed.\n", content)
}

func historyFixture() ([]history.Entry, history.Summary) {
	entries := []history.Entry{
		history.NewEntry(report("doc-1", "text", alarmingText)),
		history.NewEntry(report("doc-2", "text", calmText)),
	}
	return entries, history.Summarize(entries)
}

func TestExportHistory(t *testing.T) {
	entries, summary := historyFixture()

	content, mime, filename, err := formatters.ExportHistory("csv", entries, summary)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", mime)
	assert.Equal(t, "pattern_analysis_data.csv", filename)
	assert.Len(t, strings.Split(strings.TrimSuffix(content, "\n"), "\n"), 3)

	content, _, filename, err = formatters.ExportHistory("json", entries, summary)
	require.NoError(t, err)
	assert.Equal(t, "pattern_analysis_data.json", filename)
	var response shared.HistoryResponse
	require.NoError(t, stdjson.Unmarshal([]byte(content), &response))
	assert.Equal(t, 2, response.Summary.Total)
	assert.Len(t, response.Entries, 2)

	content, _, _, err = formatters.ExportHistory("text", entries, summary)
	require.NoError(t, err)
	assert.Contains(t, content, "Total analyses: 2")

	_, _, _, err = formatters.ExportHistory("xml", entries, summary)
	assert.Error(t, err)
}

func TestExportHistory_EmptyJSON(t *testing.T) {
	content, _, _, err := formatters.ExportHistory("json", nil, history.Summarize(nil))
	require.NoError(t, err)
	assert.Contains(t, content, `"entries": []`)
}
