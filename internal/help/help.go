// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package help renders the pattern library shown by the patterns command.
package help

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"disinfo-scan/internal/analysis"
	"disinfo-scan/internal/patterns"

	"github.com/fatih/color"
)

// System renders pattern library content to a writer
type System struct {
	out    io.Writer
	colors map[string]*color.Color
}

// NewSystem creates a new help system writing to out
func NewSystem(out io.Writer, noColor bool) *System {
	colors := map[string]*color.Color{
		"title":    color.New(color.FgWhite, color.Bold),
		"header":   color.New(color.FgBlue, color.Bold),
		"item":     color.New(color.FgCyan),
		"emphasis": color.New(color.FgWhite, color.Bold),
		"positive": color.New(color.FgGreen),
		"negative": color.New(color.FgRed),
		"warning":  color.New(color.FgYellow),
		"example":  color.New(color.FgMagenta),
	}
	if noColor {
		for _, c := range colors {
			c.DisableColor()
		}
	}

	return &System{out: out, colors: colors}
}

// ShowPatternList prints both registries as tables
func (h *System) ShowPatternList() {
	h.colors["title"].Fprintln(h.out, "Pattern Library")
	fmt.Fprintln(h.out, "===============")
	fmt.Fprintln(h.out)

	h.colors["header"].Fprintln(h.out, "DISINFORMATION PATTERNS (raise risk):")
	h.writeTable(patterns.Disinformation())
	fmt.Fprintln(h.out)

	h.colors["header"].Fprintln(h.out, "AUTHENTICITY PATTERNS (lower risk):")
	h.writeTable(patterns.Authenticity())
	fmt.Fprintln(h.out)

	h.showTierGuide()
	fmt.Fprintln(h.out, "Use 'disinfo-scan patterns <id>' for details on a specific pattern.")
}

func (h *System) writeTable(defs []patterns.Definition) {
	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tNAME\tWEIGHT\tDESCRIPTION")
	for _, def := range defs {
		fmt.Fprintf(w, "  %s\t%s\t%.2f\t%s\n", def.ID, def.Name, def.Weight, def.Description)
	}
	w.Flush()
}

// ShowPatternHelp prints one definition. The lookup accepts an id or a
// display name, ignoring case. It returns false when nothing matches.
func (h *System) ShowPatternHelp(query string) bool {
	def, kind, ok := findDefinition(query)
	if !ok {
		h.colors["negative"].Fprintf(h.out, "Error: Pattern '%s' not found.\n", query)
		fmt.Fprintln(h.out, "Use 'disinfo-scan patterns' to see a list of available patterns.")
		return false
	}

	h.colors["title"].Fprintf(h.out, "%s\n", def.Name)
	fmt.Fprintln(h.out, strings.Repeat("=", len(def.Name)))
	fmt.Fprintln(h.out)

	fmt.Fprintf(h.out, "ID:     %s\n", def.ID)
	fmt.Fprintf(h.out, "Kind:   %s\n", kind)
	fmt.Fprintf(h.out, "Weight: %.2f\n", def.Weight)
	fmt.Fprintln(h.out)
	fmt.Fprintln(h.out, def.Description)
	fmt.Fprintln(h.out)

	h.colors["header"].Fprintln(h.out, "INDICATORS:")
	for _, indicator := range def.Indicators {
		fmt.Fprint(h.out, "  - ")
		h.colors["item"].Fprintln(h.out, indicator)
	}
	fmt.Fprintln(h.out)

	if len(def.Examples) > 0 {
		h.colors["header"].Fprintln(h.out, "EXAMPLES:")
		for _, example := range def.Examples {
			fmt.Fprint(h.out, "  ")
			h.colors["example"].Fprintln(h.out, example)
		}
		fmt.Fprintln(h.out)
	}

	if def.DetectionTip != "" {
		h.colors["header"].Fprintln(h.out, "DETECTION TIP:")
		fmt.Fprintf(h.out, "  %s\n", def.DetectionTip)
	}

	return true
}

// showTierGuide explains how overall scores map to tiers
func (h *System) showTierGuide() {
	h.colors["header"].Fprintln(h.out, "RISK TIERS:")
	fmt.Fprint(h.out, "- ")
	h.colors["negative"].Fprint(h.out, analysis.TierHigh.Label())
	fmt.Fprintf(h.out, " (above %.1f)\n", analysis.HighThreshold)
	fmt.Fprint(h.out, "- ")
	h.colors["warning"].Fprint(h.out, analysis.TierMedium.Label())
	fmt.Fprintf(h.out, " (%.1f to %.1f)\n", analysis.MediumThreshold, analysis.HighThreshold)
	fmt.Fprint(h.out, "- ")
	h.colors["positive"].Fprint(h.out, analysis.TierLow.Label())
	fmt.Fprintf(h.out, " (below %.1f)\n", analysis.MediumThreshold)
	fmt.Fprintln(h.out)
}

func findDefinition(query string) (patterns.Definition, patterns.Kind, bool) {
	query = strings.TrimSpace(query)
	if def, kind, ok := patterns.Find(strings.ToLower(query)); ok {
		return def, kind, true
	}
	for _, kind := range []patterns.Kind{patterns.KindDisinformation, patterns.KindAuthenticity} {
		for _, def := range patterns.Registry(kind) {
			if strings.EqualFold(def.Name, query) {
				return def, kind, true
			}
		}
	}
	return patterns.Definition{}, "", false
}
