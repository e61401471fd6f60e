// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"text/tabwriter"
	"time"

	"disinfo-scan/internal/analysis"
	"disinfo-scan/internal/cases"

	"github.com/spf13/cobra"
)

func (c *cli) newCasesCmd() *cobra.Command {
	var (
		out     outputOptions
		random  bool
		seed    uint64
		analyze bool
	)

	cmd := &cobra.Command{
		Use:   "cases [title]",
		Short: "Browse and analyze the reference case studies",
		Long: `Cases lists the built-in case studies. Name one by title, or pick one with
--random, to print its text and the patterns it is known to exhibit. With
--analyze the selected case studies (all of them when none is selected) are
scored and printed like the analyze command.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out.resolve(cmd, c)

			catalog, err := cases.Default()
			if err != nil {
				return err
			}

			var selected []cases.CaseStudy
			switch {
			case len(args) == 1 && random:
				return fmt.Errorf("a title cannot be combined with --random")
			case len(args) == 1:
				study, ok := catalog.Get(args[0])
				if !ok {
					return fmt.Errorf("case study %q not found", args[0])
				}
				selected = []cases.CaseStudy{study}
			case random:
				if !cmd.Flags().Changed("seed") {
					seed = uint64(time.Now().UnixNano())
				}
				study, err := catalog.Random(rand.New(rand.NewPCG(seed, seed>>1)))
				if err != nil {
					return err
				}
				selected = []cases.CaseStudy{study}
			}

			if analyze {
				if selected == nil {
					selected = catalog.All()
				}
				docs := make([]analysis.Document, len(selected))
				for i, study := range selected {
					docs[i] = analysis.NewDocument("case: "+study.Title, study.Text)
				}
				return c.runAnalyze(cmd, docs, out)
			}

			if selected == nil {
				return c.listCases(catalog.All())
			}
			c.showCase(selected[0])
			return nil
		},
	}

	out.register(cmd)
	cmd.Flags().BoolVar(&random, "random", false, "Pick a random case study")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for --random, for repeatable picks")
	cmd.Flags().BoolVarP(&analyze, "analyze", "a", false, "Analyze the selected case studies")
	return cmd
}

func (c *cli) listCases(studies []cases.CaseStudy) error {
	w := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tEXPECTED\tPATTERNS")
	for _, study := range studies {
		fmt.Fprintf(w, "%s\t%s\t%s\n", study.Title, study.ExpectedTier().Label(), strings.Join(study.Patterns, ", "))
	}
	return w.Flush()
}

func (c *cli) showCase(study cases.CaseStudy) {
	fmt.Fprintf(c.stdout, "%s\n%s\n\n", study.Title, strings.Repeat("=", len(study.Title)))
	fmt.Fprintf(c.stdout, "%s\n\n", study.Text)
	fmt.Fprintf(c.stdout, "Expected:  %s\n", study.ExpectedTier().Label())
	fmt.Fprintf(c.stdout, "Patterns:  %s\n", strings.Join(study.Patterns, ", "))
	fmt.Fprintf(c.stdout, "Focus:     %s\n", study.AnalysisFocus)
}
