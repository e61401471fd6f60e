// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"text/tabwriter"

	"disinfo-scan/internal/version"

	"github.com/spf13/cobra"
)

func (c *cli) newVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if short {
				fmt.Fprintln(c.stdout, version.Short())
				return nil
			}
			fmt.Fprintln(c.stdout, version.Info())
			return nil
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")
	return cmd
}

func (c *cli) newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List configuration profiles",
		Long: `Profiles lists the named profiles available to --profile. The built-in
profiles are "ci" and "strict"; a configuration file may add or replace them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := c.cfg.ListProfiles()

			w := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PROFILE\tFORMAT\tFAIL ON\tDESCRIPTION")
			for _, name := range names {
				p := c.cfg.Profiles[name]
				failOn := "-"
				if p.FailOn > 0 {
					failOn = fmt.Sprintf("%.2f", p.FailOn)
				}
				format := p.Format
				if format == "" {
					format = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, format, failOn, p.Description)
			}
			return w.Flush()
		},
	}
}
