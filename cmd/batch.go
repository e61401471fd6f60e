// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"disinfo-scan/internal/analysis"
	"disinfo-scan/internal/logging"
	"disinfo-scan/internal/parallel"
	"disinfo-scan/internal/preprocessors"

	"github.com/spf13/cobra"
)

func (c *cli) newBatchCmd() *cobra.Command {
	var (
		out       outputOptions
		workers   int
		recursive bool
	)

	cmd := &cobra.Command{
		Use:   "batch <path>...",
		Short: "Analyze many files concurrently",
		Long: `Batch analyzes every supported file named on the command line. Directories
contribute the files directly inside them, or their whole tree with --recursive.
Files that cannot be read or are too short are reported and skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out.resolve(cmd, c)
			if !cmd.Flags().Changed("workers") {
				workers = c.cfg.Batch.Workers
			}
			return c.runBatch(cmd, args, recursive, workers, out)
		},
	}

	out.register(cmd)
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "Number of concurrent analysis workers")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into subdirectories")
	return cmd
}

func (c *cli) runBatch(cmd *cobra.Command, args []string, recursive bool, workers int, out outputOptions) error {
	manager := preprocessors.NewDefaultManager(c.observer)

	files, err := expandPaths(args, recursive, manager)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no supported files found")
	}

	var docs []analysis.Document
	for _, file := range files {
		fileDocs, err := loadFile(manager, file)
		if err != nil {
			logging.Warn("skipping file", "path", file, "error", err)
			continue
		}
		docs = append(docs, fileDocs...)
	}
	if len(docs) == 0 {
		return fmt.Errorf("no readable documents among %d files", len(files))
	}

	processor := parallel.NewParallelProcessor(workers, c.newService(out.minLength), c.observer)
	results, stats, err := processor.ProcessDocuments(cmd.Context(), docs, func(completed, total int, source string) {
		logging.Debug("analyzed", "completed", completed, "total", total, "source", source)
	})
	if err != nil {
		return fmt.Errorf("batch interrupted: %w", err)
	}

	reports := make([]analysis.Report, 0, len(results))
	for _, result := range results {
		if result.Error != nil {
			logging.Warn("analysis failed", "source", result.Document.Source, "error", result.Error)
			continue
		}
		reports = append(reports, *result.Report)
	}

	fmt.Fprintf(c.stderr, "Analyzed %d of %d documents (%d failed, %d high risk) with %d workers in %s\n",
		stats.AnalyzedDocuments, stats.TotalDocuments, stats.FailedDocuments,
		stats.HighRiskDocuments, stats.WorkerCount, stats.TotalDuration.Round(time.Millisecond))

	if len(reports) == 0 {
		return fmt.Errorf("no document could be analyzed")
	}
	return c.emit(reports, out)
}

// expandPaths turns files and directories into a sorted, de-duplicated list of
// files that some preprocessor accepts. Files named explicitly are always kept
// so that unsupported ones are reported rather than silently dropped.
func expandPaths(args []string, recursive bool, manager *preprocessors.PreprocessorManager) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && !recursive {
					return filepath.SkipDir
				}
				return nil
			}
			if manager.GetPreprocessor(path) != nil {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
	}

	sort.Strings(files)
	return files, nil
}
