// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	info := Info()
	if !strings.HasPrefix(info, "disinfo-scan "+Version) {
		t.Errorf("unexpected info string %q", info)
	}
}

func TestFull(t *testing.T) {
	full := Full()
	for _, key := range []string{"version", "commit", "buildDate", "goVersion", "platform"} {
		if full[key] == "" {
			t.Errorf("expected %s to be set", key)
		}
	}
	if Short() != full["version"] {
		t.Errorf("Short() = %q, want %q", Short(), full["version"])
	}
}
