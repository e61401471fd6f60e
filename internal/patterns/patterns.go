// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package patterns

import (
	"fmt"
	"strings"
)

// Kind distinguishes the two registries
type Kind string

const (
	// KindDisinformation patterns increase the risk score
	KindDisinformation Kind = "disinformation"
	// KindAuthenticity patterns dampen the risk score
	KindAuthenticity Kind = "authenticity"
)

// Definition describes one rhetorical pattern and the indicator phrases that reveal it.
// Definitions are shared read-only by every analysis and must never be modified.
type Definition struct {
	ID          string   // Stable identifier used for counting and reporting
	Name        string   // Human-readable label
	Description string   // Static explanatory text
	Indicators  []string // Case-insensitive phrase literals, in display order
	Weight      float64  // Severity or credibility multiplier in (0, 1]

	// Pattern library content, not used for scoring
	Examples     []string
	DetectionTip string
}

// Disinformation returns the risk-increasing registry in definition order.
// The returned slice is a copy; the definitions themselves are shared.
func Disinformation() []Definition {
	return append([]Definition(nil), disinformation...)
}

// Authenticity returns the risk-decreasing registry in definition order.
func Authenticity() []Definition {
	return append([]Definition(nil), authenticity...)
}

// Registry returns the registry for the given kind, or nil for an unknown kind
func Registry(kind Kind) []Definition {
	switch kind {
	case KindDisinformation:
		return Disinformation()
	case KindAuthenticity:
		return Authenticity()
	default:
		return nil
	}
}

// Lookup finds a definition by id within one registry
func Lookup(kind Kind, id string) (Definition, bool) {
	for _, def := range Registry(kind) {
		if def.ID == id {
			return def, true
		}
	}
	return Definition{}, false
}

// Find searches both registries for id, disinformation first
func Find(id string) (Definition, Kind, bool) {
	if def, ok := Lookup(KindDisinformation, id); ok {
		return def, KindDisinformation, true
	}
	if def, ok := Lookup(KindAuthenticity, id); ok {
		return def, KindAuthenticity, true
	}
	return Definition{}, "", false
}

// Validate checks the shape invariants of both registries
func Validate() error {
	if err := validateRegistry(KindDisinformation, disinformation); err != nil {
		return err
	}
	if err := validateRegistry(KindAuthenticity, authenticity); err != nil {
		return err
	}

	ids := make(map[string]bool, len(disinformation))
	for _, def := range disinformation {
		ids[def.ID] = true
	}
	for _, def := range authenticity {
		if ids[def.ID] {
			return fmt.Errorf("pattern id %q is used by both registries", def.ID)
		}
	}
	return nil
}

func validateRegistry(kind Kind, defs []Definition) error {
	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		if def.ID == "" {
			return fmt.Errorf("%s registry: definition %q has an empty id", kind, def.Name)
		}
		if seen[def.ID] {
			return fmt.Errorf("%s registry: duplicate id %q", kind, def.ID)
		}
		seen[def.ID] = true

		if def.Weight <= 0 || def.Weight > 1 {
			return fmt.Errorf("%s registry: %s weight %.2f outside (0, 1]", kind, def.ID, def.Weight)
		}
		if len(def.Indicators) == 0 {
			return fmt.Errorf("%s registry: %s has no indicators", kind, def.ID)
		}

		phrases := make(map[string]bool, len(def.Indicators))
		for _, indicator := range def.Indicators {
			key := strings.ToLower(indicator)
			if key == "" {
				return fmt.Errorf("%s registry: %s has an empty indicator", kind, def.ID)
			}
			if phrases[key] {
				return fmt.Errorf("%s registry: %s repeats indicator %q", kind, def.ID, indicator)
			}
			phrases[key] = true
		}
	}
	return nil
}
