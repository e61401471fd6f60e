// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"disinfo-scan/internal/help"

	"github.com/spf13/cobra"
)

func (c *cli) newPatternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns [id|name]",
		Short: "Describe the pattern library",
		Long: `Without an argument, patterns lists every disinformation pattern and
authenticity signal with its weight, followed by the risk tier guide. With an
argument it shows one pattern in full: indicators, examples and a detection tip.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			system := help.NewSystem(c.stdout, c.useNoColor())
			if len(args) == 0 {
				system.ShowPatternList()
				return nil
			}
			if !system.ShowPatternHelp(args[0]) {
				return silentError{fmt.Errorf("pattern %q not found", args[0])}
			}
			return nil
		},
	}
}
