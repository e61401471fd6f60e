// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"disinfo-scan/internal/observability"
)

// PlainTextPreprocessor passes text files through unchanged
type PlainTextPreprocessor struct {
	observer *observability.StandardObserver
}

// NewPlainTextPreprocessor creates a new plain text preprocessor
func NewPlainTextPreprocessor() *PlainTextPreprocessor {
	return &PlainTextPreprocessor{}
}

// SetObserver sets the observability component
func (ptp *PlainTextPreprocessor) SetObserver(observer *observability.StandardObserver) {
	ptp.observer = observer
}

// GetName returns the name of this preprocessor
func (ptp *PlainTextPreprocessor) GetName() string {
	return "Plain Text Preprocessor"
}

// GetSupportedExtensions returns the file extensions this preprocessor supports
func (ptp *PlainTextPreprocessor) GetSupportedExtensions() []string {
	return []string{".txt", ".text", ".md", ".markdown", ".rst", ".csv", ".tsv", ".json", ".jsonl"}
}

// CanProcess checks if this preprocessor can handle the given file
func (ptp *PlainTextPreprocessor) CanProcess(filePath string) bool {
	if hasExtension(filePath, ptp.GetSupportedExtensions()) {
		return true
	}

	// Files without an extension are accepted when they look like text
	if filepath.Ext(filePath) == "" {
		return ptp.isTextFile(filePath)
	}
	return false
}

// Process reads the file content
func (ptp *PlainTextPreprocessor) Process(filePath string) (*ProcessedContent, error) {
	finish := startObservation(ptp.observer, "plaintext_preprocessor", filePath)

	content, err := readTextFile(filePath)
	if err != nil {
		finish(err, nil)
		return nil, err
	}

	result := &ProcessedContent{
		OriginalPath:  filePath,
		Filename:      filepath.Base(filePath),
		Text:          content,
		Format:        "Plain Text",
		ProcessorType: "plaintext",
		Metadata:      make(map[string]interface{}),
	}
	result.setCounts()
	if ext := strings.ToLower(filepath.Ext(filePath)); ext != "" {
		result.Metadata["file_extension"] = ext
	}

	finish(nil, map[string]interface{}{
		"word_count": result.WordCount,
		"line_count": result.LineCount,
	})
	return result, nil
}

// readTextFile reads a bounded text file and repairs invalid UTF-8
func readTextFile(filePath string) (string, error) {
	data, err := readBoundedFile(filePath)
	if err != nil {
		return "", err
	}

	content := string(data)
	if !utf8.ValidString(content) {
		content = strings.ToValidUTF8(content, "")
	}
	return content, nil
}

// readBoundedFile reads a file after checking it against maxFileSize
func readBoundedFile(filePath string) ([]byte, error) {
	cleanPath := filepath.Clean(filePath)
	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// isTextFile performs a quick check to determine if a file contains text
func (ptp *PlainTextPreprocessor) isTextFile(filePath string) bool {
	file, err := os.Open(filepath.Clean(filePath))
	if err != nil {
		return false
	}
	defer file.Close()

	// Read first 512 bytes to check for binary content
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && n == 0 {
		return false
	}
	buffer = buffer[:n]

	printableCount := 0
	for _, b := range buffer {
		if b == 0 {
			return false
		}
		if (b >= 32 && b <= 126) || b == 9 || b == 10 || b == 13 || b >= 0x80 {
			printableCount++
		}
	}

	// Consider it text if more than 95% of bytes are printable
	return float64(printableCount)/float64(len(buffer)) > 0.95
}
