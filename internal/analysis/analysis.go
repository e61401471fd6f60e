// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package analysis wraps the detector with the checks, identifiers and
// bookkeeping that the CLI, batch runner and web server share.
package analysis

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"disinfo-scan/internal/detector"

	"github.com/google/uuid"
)

// DefaultMinLength is the shortest trimmed input accepted for analysis
const DefaultMinLength = 10

var (
	// ErrTextTooShort is returned when the input is below the minimum length
	ErrTextTooShort = errors.New("text too short")

	// ErrUnsupportedInput is returned when a document cannot be turned into text
	ErrUnsupportedInput = errors.New("unsupported input")
)

// ValidateInput rejects text whose trimmed length is below minLength characters
func ValidateInput(text string, minLength int) error {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minLength {
		return fmt.Errorf("%w: please enter text to analyze (minimum %d characters)", ErrTextTooShort, minLength)
	}
	return nil
}

// Tier is a coarse risk label derived from the overall risk score
type Tier string

const (
	TierLow    Tier = "LOW"
	TierMedium Tier = "MEDIUM"
	TierHigh   Tier = "HIGH"
)

// Tier boundaries. A score equal to MediumThreshold is MEDIUM and a score
// equal to HighThreshold is still MEDIUM.
const (
	MediumThreshold = 0.4
	HighThreshold   = 0.7
)

// RiskTier maps an overall risk score to its tier
func RiskTier(score float64) Tier {
	switch {
	case score > HighThreshold:
		return TierHigh
	case score >= MediumThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

// Label returns the human readable form, e.g. "Medium Risk"
func (t Tier) Label() string {
	switch t {
	case TierHigh:
		return "High Risk"
	case TierMedium:
		return "Medium Risk"
	default:
		return "Low Risk"
	}
}

// StrengthTier labels a single pattern score. Pattern strength uses strict
// lower bounds, so 0.4 is still LOW.
func StrengthTier(score float64) Tier {
	switch {
	case score > HighThreshold:
		return TierHigh
	case score > MediumThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

// Document is a unit of text submitted for analysis
type Document struct {
	ID     string `json:"id" yaml:"id"`
	Source string `json:"source" yaml:"source"`
	Text   string `json:"-" yaml:"-"`
}

// NewDocument assigns a fresh identifier to text from source
func NewDocument(source, text string) Document {
	return Document{
		ID:     uuid.NewString(),
		Source: source,
		Text:   text,
	}
}

// Report is one analyzed document
type Report struct {
	Document   Document                `json:"document" yaml:"document"`
	Result     detector.AnalysisResult `json:"result" yaml:"result"`
	Tier       Tier                    `json:"risk_tier" yaml:"risk_tier"`
	AnalyzedAt time.Time               `json:"analyzed_at" yaml:"analyzed_at"`
}

// Exceeds reports whether the overall risk is above threshold. A zero
// threshold never fails.
func (r Report) Exceeds(threshold float64) bool {
	return threshold > 0 && r.Result.OverallRiskScore > threshold
}
