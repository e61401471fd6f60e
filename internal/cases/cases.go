// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package cases holds the reference case studies used for demonstrations and
// quick analyses.
package cases

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"disinfo-scan/internal/analysis"
	"disinfo-scan/internal/patterns"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed data/cases.json
var catalogData []byte

//go:embed data/schema.json
var schemaData []byte

const schemaURL = "cases.schema.json"

// ErrEmptyCatalog is returned when a random case is requested from an empty catalog
var ErrEmptyCatalog = errors.New("case study catalog is empty")

// CaseStudy is a sample text with the patterns it is known to exhibit
type CaseStudy struct {
	Title         string   `json:"title" yaml:"title"`
	Text          string   `json:"text" yaml:"text"`
	Patterns      []string `json:"patterns" yaml:"patterns"`
	RiskLevel     string   `json:"risk_level" yaml:"risk_level"` // High, Medium or Low
	AnalysisFocus string   `json:"analysis_focus" yaml:"analysis_focus"`
}

// ExpectedTier maps the risk level label onto an analysis tier
func (c CaseStudy) ExpectedTier() analysis.Tier {
	switch c.RiskLevel {
	case "High":
		return analysis.TierHigh
	case "Medium":
		return analysis.TierMedium
	default:
		return analysis.TierLow
	}
}

// Catalog is an immutable list of case studies
type Catalog struct {
	cases []CaseStudy
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded catalog, loading it on first use
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Load(catalogData)
	})
	return defaultCatalog, defaultErr
}

// Load validates data against the catalog schema and decodes it. Every pattern
// a case references must exist in one of the registries.
func Load(data []byte) (*Catalog, error) {
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}

	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return nil, fmt.Errorf("parse case studies: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return nil, fmt.Errorf("validate case studies: %w", err)
	}

	var studies []CaseStudy
	if err := json.Unmarshal(data, &studies); err != nil {
		return nil, fmt.Errorf("decode case studies: %w", err)
	}

	for _, study := range studies {
		for _, id := range study.Patterns {
			if _, _, ok := patterns.Find(id); !ok {
				return nil, fmt.Errorf("case %q references unknown pattern %q", study.Title, id)
			}
		}
	}

	return &Catalog{cases: studies}, nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaData)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// All returns a copy of every case study in catalog order
func (c *Catalog) All() []CaseStudy {
	out := make([]CaseStudy, len(c.cases))
	for i, study := range c.cases {
		study.Patterns = append([]string(nil), study.Patterns...)
		out[i] = study
	}
	return out
}

// Len returns the number of case studies
func (c *Catalog) Len() int {
	return len(c.cases)
}

// Get finds a case study by title, ignoring case
func (c *Catalog) Get(title string) (CaseStudy, bool) {
	for _, study := range c.All() {
		if strings.EqualFold(study.Title, title) {
			return study, true
		}
	}
	return CaseStudy{}, false
}

// Random picks a case study using r
func (c *Catalog) Random(r *rand.Rand) (CaseStudy, error) {
	if len(c.cases) == 0 {
		return CaseStudy{}, ErrEmptyCatalog
	}
	return c.All()[r.IntN(len(c.cases))], nil
}
