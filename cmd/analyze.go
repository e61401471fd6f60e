// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"disinfo-scan/internal/analysis"
	"disinfo-scan/internal/formatters"
	"disinfo-scan/internal/logging"
	"disinfo-scan/internal/paths"
	"disinfo-scan/internal/preprocessors"

	// Output formats register themselves
	_ "disinfo-scan/internal/formatters/csv"
	_ "disinfo-scan/internal/formatters/json"
	_ "disinfo-scan/internal/formatters/text"
	_ "disinfo-scan/internal/formatters/yaml"

	"github.com/spf13/cobra"
)

// maxStdinBytes bounds text read from standard input
const maxStdinBytes = 10 * 1024 * 1024

// outputOptions are the flags shared by every command that prints reports
type outputOptions struct {
	format    string
	verbose   bool
	minLength int
	output    string
}

func (o *outputOptions) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&o.format, "format", "text", fmt.Sprintf("Output format (%s)", strings.Join(formatters.List(), ", ")))
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "Include descriptions, text metrics and the sentence timeline")
	flags.IntVar(&o.minLength, "min-length", analysis.DefaultMinLength, "Minimum trimmed text length to analyze")
	flags.StringVarP(&o.output, "output", "o", "", "Write results to a file instead of stdout")
}

// resolve fills unset flags from the configuration defaults
func (o *outputOptions) resolve(cmd *cobra.Command, c *cli) {
	flags := cmd.Flags()
	if !flags.Changed("format") {
		o.format = c.cfg.Defaults.Format
	}
	if !flags.Changed("verbose") {
		o.verbose = c.cfg.Defaults.Verbose
	}
	if !flags.Changed("min-length") {
		o.minLength = c.cfg.Defaults.MinLength
	}
	o.format = strings.ToLower(o.format)
}

func (c *cli) newAnalyzeCmd() *cobra.Command {
	var (
		out  outputOptions
		text string
	)

	cmd := &cobra.Command{
		Use:   "analyze [file|-]",
		Short: "Analyze a file, standard input or inline text",
		Long: `Analyze scores one input for disinformation patterns and authenticity signals.

The input is the --text flag, a file path, or "-" for standard input. Standard
input is also read when it is piped and no file is given. Files are converted to
text by extension: HTML, PDF, RSS/Atom feeds and plain text. Each feed entry is
analyzed as its own document.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out.resolve(cmd, c)
			docs, err := c.collectInput(args, text)
			if err != nil {
				return err
			}
			return c.runAnalyze(cmd, docs, out)
		},
	}

	out.register(cmd)
	cmd.Flags().StringVarP(&text, "text", "t", "", "Text to analyze")
	return cmd
}

// runAnalyze analyzes docs in order. Short documents are skipped when there are
// several of them and fatal when there is only one.
func (c *cli) runAnalyze(cmd *cobra.Command, docs []analysis.Document, out outputOptions) error {
	service := c.newService(out.minLength)

	reports := make([]analysis.Report, 0, len(docs))
	for _, doc := range docs {
		report, err := service.AnalyzeDocument(cmd.Context(), doc)
		if err != nil {
			if len(docs) > 1 && errors.Is(err, analysis.ErrTextTooShort) {
				logging.Warn("skipping document", "source", doc.Source, "error", err)
				continue
			}
			return fmt.Errorf("%s: %w", doc.Source, err)
		}
		reports = append(reports, report)
	}
	if len(reports) == 0 {
		return fmt.Errorf("no document was long enough to analyze")
	}

	return c.emit(reports, out)
}

// collectInput resolves the analyze arguments into documents
func (c *cli) collectInput(args []string, text string) ([]analysis.Document, error) {
	if text != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("--text cannot be combined with a file argument")
		}
		return []analysis.Document{analysis.NewDocument("text", text)}, nil
	}

	if len(args) == 0 {
		if isTerminal(c.stdin) {
			return nil, fmt.Errorf("no input: pass a file, \"-\" or --text")
		}
		return c.readStdin()
	}
	if args[0] == "-" {
		return c.readStdin()
	}

	manager := preprocessors.NewDefaultManager(c.observer)
	return loadFile(manager, args[0])
}

func (c *cli) readStdin() ([]analysis.Document, error) {
	data, err := io.ReadAll(io.LimitReader(c.stdin, maxStdinBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	if len(data) > maxStdinBytes {
		return nil, fmt.Errorf("stdin exceeds %d bytes", maxStdinBytes)
	}
	return []analysis.Document{analysis.NewDocument("stdin", string(data))}, nil
}

// loadFile extracts the documents held by one file
func loadFile(manager *preprocessors.PreprocessorManager, path string) ([]analysis.Document, error) {
	if err := paths.ValidateInputPath(path); err != nil {
		return nil, err
	}

	content, err := manager.ProcessFile(path)
	if errors.Is(err, preprocessors.ErrNoPreprocessor) {
		return nil, fmt.Errorf("%w: %v", analysis.ErrUnsupportedInput, err)
	}
	if err != nil {
		return nil, err
	}

	items := content.Documents()
	if len(items) == 1 {
		return []analysis.Document{analysis.NewDocument(path, items[0].Text)}, nil
	}

	docs := make([]analysis.Document, 0, len(items))
	for i, item := range items {
		source := fmt.Sprintf("%s#%d", path, i+1)
		if item.Title != "" {
			source = fmt.Sprintf("%s (%s)", source, item.Title)
		}
		docs = append(docs, analysis.NewDocument(source, item.Text))
	}
	return docs, nil
}

// emit formats reports, writes them and applies the fail-on threshold
func (c *cli) emit(reports []analysis.Report, out outputOptions) error {
	content, err := formatters.Export(out.format, reports, formatters.FormatterOptions{
		Verbose: out.verbose,
		NoColor: c.useNoColor() || out.output != "",
	})
	if err != nil {
		return err
	}

	if out.output != "" {
		if dir := filepath.Dir(out.output); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
		}
		if err := os.WriteFile(out.output, []byte(content), 0600); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		logging.Info("results written", "path", out.output, "documents", len(reports))
	} else {
		fmt.Fprint(c.stdout, content)
	}

	return c.checkThreshold(reports)
}

// checkThreshold reports every document above the fail-on threshold
func (c *cli) checkThreshold(reports []analysis.Report) error {
	exceeded := 0
	for _, report := range reports {
		if report.Exceeds(c.threshold) {
			exceeded++
			logging.Warn("risk above threshold",
				"source", report.Document.Source,
				"risk", fmt.Sprintf("%.2f", report.Result.OverallRiskScore),
				"threshold", c.threshold)
		}
	}
	if exceeded > 0 {
		return silentError{fmt.Errorf("%w: %d of %d documents above %.2f", errRiskThreshold, exceeded, len(reports), c.threshold)}
	}
	return nil
}
