// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_DebugLevel(t *testing.T) {
	t.Cleanup(func() { Init(os.Stderr, false) })

	var buf bytes.Buffer
	Init(&buf, true)
	Debug("scoring document", "words", 12)

	assert.Contains(t, buf.String(), "scoring document")
	assert.Contains(t, buf.String(), "words=12")
}

func TestInit_QuietByDefault(t *testing.T) {
	t.Cleanup(func() { Init(os.Stderr, false) })

	var buf bytes.Buffer
	Init(&buf, false)
	Info("not shown")
	Warn("shown")

	assert.NotContains(t, buf.String(), "not shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestInitWithLevel(t *testing.T) {
	t.Cleanup(func() { Init(os.Stderr, false) })

	var buf bytes.Buffer
	require.NoError(t, InitWithLevel(&buf, "info"))
	Info("history cleared")
	assert.Contains(t, buf.String(), "history cleared")

	assert.Error(t, InitWithLevel(&buf, "loud"))
}
