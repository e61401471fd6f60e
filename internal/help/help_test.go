// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"bytes"
	"testing"

	"disinfo-scan/internal/patterns"

	"github.com/stretchr/testify/assert"
)

func TestShowPatternList(t *testing.T) {
	var buf bytes.Buffer
	NewSystem(&buf, true).ShowPatternList()
	out := buf.String()

	for _, def := range append(patterns.Disinformation(), patterns.Authenticity()...) {
		assert.Contains(t, out, def.ID)
		assert.Contains(t, out, def.Name)
	}
	assert.Contains(t, out, "High Risk (above 0.7)")
	assert.Contains(t, out, "Medium Risk (0.4 to 0.7)")
	assert.NotContains(t, out, "\x1b[")
}

func TestShowPatternHelp(t *testing.T) {
	cases := []string{"conspiracy_framing", "CONSPIRACY_FRAMING", "Conspiracy Framing", "  conspiracy framing "}
	for _, query := range cases {
		t.Run(query, func(t *testing.T) {
			var buf bytes.Buffer
			assert.True(t, NewSystem(&buf, true).ShowPatternHelp(query))

			out := buf.String()
			assert.Contains(t, out, "Conspiracy Framing\n==================")
			assert.Contains(t, out, "Kind:   disinformation")
			assert.Contains(t, out, "INDICATORS:")
		})
	}
}

func TestShowPatternHelp_Authenticity(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, NewSystem(&buf, true).ShowPatternHelp("source_transparency"))
	assert.Contains(t, buf.String(), "Kind:   authenticity")
}

func TestShowPatternHelp_NotFound(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, NewSystem(&buf, true).ShowPatternHelp("made_up"))
	assert.Contains(t, buf.String(), "Pattern 'made_up' not found")
}
