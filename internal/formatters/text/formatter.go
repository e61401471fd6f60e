// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"
	"time"

	"disinfo-scan/internal/analysis"
	"disinfo-scan/internal/detector"
	"disinfo-scan/internal/formatters"
	"disinfo-scan/internal/history"

	"github.com/fatih/color"
)

// maxSourceWidth caps the SOURCE column in the summary table
const maxSourceWidth = 40

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
	now    func() time.Time
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":  color.New(color.FgGreen),
			"yellow": color.New(color.FgYellow),
			"red":    color.New(color.FgRed),
			"cyan":   color.New(color.FgCyan),
			"white":  color.New(color.FgWhite, color.Bold),
		},
		now: time.Now,
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colors and tables"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(reports []analysis.Report, options formatters.FormatterOptions) (string, error) {
	if len(reports) == 0 {
		return "No documents analyzed.\n", nil
	}

	var builder strings.Builder
	if options.Verbose {
		for i, report := range reports {
			if i > 0 {
				builder.WriteString("\n")
			}
			f.appendDetailedReport(&builder, report, options)
		}
	} else {
		f.appendHeaders(&builder, options)
		for _, report := range reports {
			f.appendSummaryLine(&builder, report, options)
		}
	}

	if len(reports) > 1 {
		f.appendFooter(&builder, reports, options)
	}
	return builder.String(), nil
}

// paint applies the named color unless colors are disabled
func (f *Formatter) paint(options formatters.FormatterOptions, name, s string) string {
	if options.NoColor {
		return s
	}
	return f.colors[name].Sprint(s)
}

func tierColor(tier analysis.Tier) string {
	switch tier {
	case analysis.TierHigh:
		return "red"
	case analysis.TierMedium:
		return "yellow"
	default:
		return "green"
	}
}

// appendHeaders adds column headers to the string builder
func (f *Formatter) appendHeaders(builder *strings.Builder, options formatters.FormatterOptions) {
	header := fmt.Sprintf("%-8s %-6s %-6s %-8s %-*s %s", "TIER", "RISK", "AUTH", "PATTERNS", maxSourceWidth, "SOURCE", "DETECTED")
	builder.WriteString(f.paint(options, "white", header) + "\n")
	builder.WriteString(f.paint(options, "white", strings.Repeat("-", len(header))) + "\n")
}

// appendSummaryLine adds a single line summary to the string builder
func (f *Formatter) appendSummaryLine(builder *strings.Builder, report analysis.Report, options formatters.FormatterOptions) {
	result := report.Result

	var names []string
	for _, match := range result.OrderedPatterns() {
		names = append(names, match.Name)
	}
	detected := strings.Join(names, ", ")
	if detected == "" {
		detected = "-"
	}

	tier := fmt.Sprintf("%-8s", report.Tier)
	fmt.Fprintf(builder, "%s %-6.3f %-6.3f %-8d %-*s %s\n",
		f.paint(options, tierColor(report.Tier), tier),
		result.OverallRiskScore,
		result.AuthenticityScore,
		result.PatternCount,
		maxSourceWidth, truncate(report.Document.Source, maxSourceWidth),
		detected,
	)
}

// appendDetailedReport prints every section of one report
func (f *Formatter) appendDetailedReport(builder *strings.Builder, report analysis.Report, options formatters.FormatterOptions) {
	result := report.Result

	builder.WriteString(f.paint(options, "white", "Document: "+report.Document.Source) + "\n")
	if report.Document.ID != "" {
		fmt.Fprintf(builder, "  ID:           %s\n", report.Document.ID)
	}
	fmt.Fprintf(builder, "  Risk:         %.3f %s\n", result.OverallRiskScore,
		f.paint(options, tierColor(report.Tier), report.Tier.Label()))
	fmt.Fprintf(builder, "  Authenticity: %.3f\n", result.AuthenticityScore)

	fmt.Fprintf(builder, "\n  Patterns detected (%d):\n", result.PatternCount)
	f.appendMatches(builder, result.OrderedPatterns(), options)

	authenticity := result.OrderedAuthenticityPatterns()
	fmt.Fprintf(builder, "\n  Authenticity signals (%d):\n", len(authenticity))
	f.appendMatches(builder, authenticity, options)

	m := result.Metrics
	builder.WriteString("\n  Text metrics:\n")
	fmt.Fprintf(builder, "    Words: %d  Sentences: %d  Avg word length: %.2f\n", m.WordCount, m.SentenceCount, m.AverageWordLength)
	fmt.Fprintf(builder, "    Exclamations/1000 words: %.2f  Questions/1000 words: %.2f\n", m.ExclamationDensity, m.QuestionDensity)
	fmt.Fprintf(builder, "    All-caps tokens: %d  Numeral tokens: %d\n", m.AllCapsTokenCount, m.NumeralTokenCount)

	f.appendTimeline(builder, result.Timeline, options)
}

func (f *Formatter) appendMatches(builder *strings.Builder, matches []detector.PatternMatch, options formatters.FormatterOptions) {
	if len(matches) == 0 {
		builder.WriteString("    none\n")
		return
	}
	for _, match := range matches {
		strength := analysis.StrengthTier(match.RawScore)
		fmt.Fprintf(builder, "    %s  score %.2f  %s", match.Name, match.RawScore,
			f.paint(options, tierColor(strength), string(strength)))
		if match.Confidence > 0 {
			fmt.Fprintf(builder, "  confidence %.2f", match.Confidence)
		}
		builder.WriteString("\n")
		fmt.Fprintf(builder, "      indicators: %s\n", f.paint(options, "cyan", strings.Join(match.IndicatorsFound, ", ")))
	}
}

func (f *Formatter) appendTimeline(builder *strings.Builder, timeline []detector.TimelineEntry, options formatters.FormatterOptions) {
	builder.WriteString("\n  Timeline:\n")
	if len(timeline) == 0 {
		builder.WriteString("    no flagged sentences\n")
		return
	}
	for i, entry := range timeline {
		risk := fmt.Sprintf("%.2f", entry.Risk)
		fmt.Fprintf(builder, "    %d. [%s] %s\n", i+1,
			f.paint(options, tierColor(analysis.StrengthTier(entry.Risk)), risk),
			truncate(entry.Sentence, 100))
		fmt.Fprintf(builder, "       %s\n", strings.Join(entry.Patterns, ", "))
	}
}

// appendFooter adds the tier totals across all reports
func (f *Formatter) appendFooter(builder *strings.Builder, reports []analysis.Report, options formatters.FormatterOptions) {
	var high, medium, low int
	for _, report := range reports {
		switch report.Tier {
		case analysis.TierHigh:
			high++
		case analysis.TierMedium:
			medium++
		default:
			low++
		}
	}
	fmt.Fprintf(builder, "\n%d documents analyzed: %s, %s, %s\n", len(reports),
		f.paint(options, "red", fmt.Sprintf("%d high", high)),
		f.paint(options, "yellow", fmt.Sprintf("%d medium", medium)),
		f.paint(options, "green", fmt.Sprintf("%d low", low)),
	)
}

// FormatHistory renders the history summary and the entries newest first
func (f *Formatter) FormatHistory(entries []history.Entry, summary history.Summary) (string, error) {
	var builder strings.Builder
	options := formatters.FormatterOptions{NoColor: true}

	fmt.Fprintf(&builder, "Total analyses: %d (high %d, medium %d, low %d)\n",
		summary.Total, summary.HighRisk, summary.MediumRisk, summary.LowRisk)
	fmt.Fprintf(&builder, "Average risk: %.3f  Highest risk: %.3f  Average patterns: %.2f\n",
		summary.AverageRisk, summary.HighestRisk, summary.AveragePatterns)
	if len(summary.TopPatterns) > 0 {
		var top []string
		for _, pc := range summary.TopPatterns {
			top = append(top, fmt.Sprintf("%s (%d)", pc.PatternID, pc.Count))
		}
		fmt.Fprintf(&builder, "Most common patterns: %s\n", strings.Join(top, ", "))
	}

	now := f.now()
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		fmt.Fprintf(&builder, "\n%s  %-8s %.3f  %s\n", history.FormatAge(e, now),
			f.paint(options, tierColor(e.Tier), string(e.Tier)), e.OverallRisk, e.Source)
		fmt.Fprintf(&builder, "  %s\n", e.TextPreview)
	}
	return builder.String(), nil
}

// truncate shortens s to at most width runes, marking the cut with "..."
func truncate(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
