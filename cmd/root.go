// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"disinfo-scan/internal/analysis"
	"disinfo-scan/internal/config"
	"disinfo-scan/internal/detector"
	"disinfo-scan/internal/logging"
	"disinfo-scan/internal/observability"
	"disinfo-scan/internal/patterns"
	"disinfo-scan/internal/version"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// silentError carries a failure that has already been reported to the user
type silentError struct {
	error
}

func (e silentError) Unwrap() error {
	return e.error
}

// errRiskThreshold is returned when a document's risk is above --fail-on
var errRiskThreshold = errors.New("risk threshold exceeded")

// cli holds the state shared by every subcommand
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// Global flags
	configFile string
	profile    string
	debug      bool
	noColor    bool
	failOn     float64

	// Resolved in setup
	cfg        *config.Config
	configPath string
	threshold  float64
	observer   *observability.StandardObserver
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "disinfo-scan",
		Short: "Score text for rhetorical patterns associated with disinformation",
		Long: `disinfo-scan scores text for rhetorical patterns associated with disinformation,
such as emotional amplification, false urgency and conspiracy framing, and for
signals of authentic reporting, such as source transparency and methodology
disclosure. The result is a risk score in [0, 1] with the evidence behind it.

Scores are heuristic signals for media literacy work, not fact-checking verdicts.`,
		Example: `  disinfo-scan analyze article.txt
  disinfo-scan analyze --text "BREAKING: share before they delete it!" --verbose
  cat post.md | disinfo-scan analyze - --format json
  disinfo-scan batch ./articles --recursive --workers 8 --format csv
  disinfo-scan serve --port 8080
  disinfo-scan patterns conspiracy_framing`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate(version.Info() + "\n")

	pf := root.PersistentFlags()
	pf.StringVar(&c.configFile, "config", "", "Path to configuration file (YAML, TOML or JSON)")
	pf.StringVar(&c.profile, "profile", "", "Profile name to use from config file")
	pf.BoolVar(&c.debug, "debug", false, "Enable debug logging and per-step timing")
	pf.BoolVar(&c.noColor, "no-color", false, "Disable colored output")
	pf.Float64Var(&c.failOn, "fail-on", 0, "Exit with status 1 when any document's risk is above this score (0 disables)")

	root.AddCommand(
		c.newAnalyzeCmd(),
		c.newBatchCmd(),
		c.newServeCmd(),
		c.newPatternsCmd(),
		c.newCasesCmd(),
		c.newProfilesCmd(),
		c.newVersionCmd(),
	)
	return root
}

// setup loads configuration, applies the profile and initializes logging
func (c *cli) setup(cmd *cobra.Command) error {
	if err := patterns.Validate(); err != nil {
		return fmt.Errorf("pattern registry: %w", err)
	}

	path := c.configFile
	if path == "" {
		path = config.FindConfigFile()
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		if c.configFile != "" {
			return fmt.Errorf("load config: %w", err)
		}
		fmt.Fprintf(c.stderr, "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(c.stderr, "Using default configuration\n")
		cfg, path = config.DefaultConfig(), ""
	}
	c.cfg, c.configPath = cfg, path

	if c.profile != "" {
		failOn, err := cfg.ApplyProfile(c.profile)
		if err != nil {
			return err
		}
		c.threshold = failOn
	}
	if cmd.Flags().Changed("fail-on") {
		if c.failOn < 0 || c.failOn > 1 {
			return fmt.Errorf("--fail-on must be within [0, 1], got %v", c.failOn)
		}
		c.threshold = c.failOn
	}

	debug := c.debug || cfg.Defaults.Debug
	logging.Init(c.stderr, debug)
	if debug {
		c.observer = observability.NewDebugObserver(c.stderr).StandardObserver
		logging.Debug("configuration loaded", "path", path, "profile", c.profile, "fail_on", c.threshold)
	}
	return nil
}

// useNoColor disables color when asked to or when stdout is not a terminal
func (c *cli) useNoColor() bool {
	if c.noColor || c.cfg.Defaults.NoColor {
		return true
	}
	return !isTerminal(c.stdout)
}

// newService builds an analysis service from the loaded scoring constants
func (c *cli) newService(minLength int) *analysis.Service {
	analyzer := detector.NewAnalyzer().WithTuning(c.cfg.Scoring)
	return analysis.NewService(analyzer, minLength, c.observer)
}

// isTerminal checks if the writer is a terminal
func isTerminal(w interface{}) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
