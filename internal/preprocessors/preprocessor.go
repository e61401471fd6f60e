// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"disinfo-scan/internal/observability"
)

// ErrNoPreprocessor is returned when no registered preprocessor accepts a file
var ErrNoPreprocessor = errors.New("no preprocessor for file type")

// maxFileSize bounds every file read by a preprocessor
const maxFileSize = 50 * 1024 * 1024

// Item is one independently analyzable piece of a file, such as a feed entry
type Item struct {
	Title string
	Link  string
	Text  string
}

// ProcessedContent represents content that has been processed by a preprocessor
type ProcessedContent struct {
	// Original file information
	OriginalPath string
	Filename     string

	// Extracted content. Text holds the whole document; Items is set when the
	// file carries several documents (feeds) and is otherwise empty.
	Text  string
	Items []Item

	// Content metadata
	Format    string
	PageCount int
	WordCount int
	CharCount int
	LineCount int

	// Processing information
	ProcessorType string
	Metadata      map[string]interface{}
}

// Documents returns the analyzable units: each item when present, otherwise the whole text
func (pc *ProcessedContent) Documents() []Item {
	if len(pc.Items) > 0 {
		return pc.Items
	}
	return []Item{{Title: pc.Filename, Text: pc.Text}}
}

// setCounts fills the word, character and line statistics from Text
func (pc *ProcessedContent) setCounts() {
	pc.WordCount = len(strings.Fields(pc.Text))
	pc.CharCount = len(pc.Text)
	pc.LineCount = strings.Count(pc.Text, "\n") + 1
}

// Preprocessor interface defines methods for preprocessing files
type Preprocessor interface {
	// CanProcess checks if this preprocessor can handle the given file
	CanProcess(filePath string) bool

	// Process extracts content from the file
	Process(filePath string) (*ProcessedContent, error)

	// GetName returns the name of this preprocessor
	GetName() string

	// GetSupportedExtensions returns the file extensions this preprocessor supports
	GetSupportedExtensions() []string

	// SetObserver sets the observability component
	SetObserver(observer *observability.StandardObserver)
}

// PreprocessorManager manages all available preprocessors
type PreprocessorManager struct {
	preprocessors []Preprocessor
}

// NewPreprocessorManager creates an empty preprocessor manager
func NewPreprocessorManager() *PreprocessorManager {
	return &PreprocessorManager{
		preprocessors: make([]Preprocessor, 0),
	}
}

// NewDefaultManager registers the built-in preprocessors. Specific formats
// come first so the plain text fallback only sees what nobody else claims.
func NewDefaultManager(observer *observability.StandardObserver) *PreprocessorManager {
	pm := NewPreprocessorManager()
	pm.RegisterPreprocessor(NewHTMLPreprocessor())
	pm.RegisterPreprocessor(NewPDFPreprocessor())
	pm.RegisterPreprocessor(NewFeedPreprocessor())
	pm.RegisterPreprocessor(NewPlainTextPreprocessor())
	for _, p := range pm.preprocessors {
		p.SetObserver(observer)
	}
	return pm
}

// RegisterPreprocessor adds a preprocessor to the manager
func (pm *PreprocessorManager) RegisterPreprocessor(p Preprocessor) {
	pm.preprocessors = append(pm.preprocessors, p)
}

// GetPreprocessor returns the appropriate preprocessor for a file, or nil if none found
func (pm *PreprocessorManager) GetPreprocessor(filePath string) Preprocessor {
	for _, p := range pm.preprocessors {
		if p.CanProcess(filePath) {
			return p
		}
	}
	return nil
}

// GetAvailablePreprocessors returns all registered preprocessors
func (pm *PreprocessorManager) GetAvailablePreprocessors() []Preprocessor {
	return pm.preprocessors
}

// ProcessFile extracts text with the first preprocessor that accepts the file
func (pm *PreprocessorManager) ProcessFile(filePath string) (*ProcessedContent, error) {
	p := pm.GetPreprocessor(filePath)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoPreprocessor, filepath.Base(filePath))
	}

	content, err := p.Process(filePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.GetName(), err)
	}
	return content, nil
}

var defaultManager = NewDefaultManager(nil)

// Extract runs the default preprocessors on filePath
func Extract(filePath string) (*ProcessedContent, error) {
	return defaultManager.ProcessFile(filePath)
}

// hasExtension reports whether filePath ends in one of exts, ignoring case
func hasExtension(filePath string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	for _, supported := range exts {
		if ext == supported {
			return true
		}
	}
	return false
}

// startObservation opens timing and debug step records for one file
func startObservation(observer *observability.StandardObserver, component, filePath string) func(err error, metadata map[string]interface{}) {
	var finishTiming func(bool, map[string]interface{})
	var finishStep func(bool, string)
	if observer != nil {
		finishTiming = observer.StartTiming(component, "process_file", filePath)
		if observer.DebugObserver != nil {
			finishStep = observer.DebugObserver.StartStep(component, "process_file", filePath)
		}
	}

	return func(err error, metadata map[string]interface{}) {
		if err != nil {
			if finishTiming != nil {
				finishTiming(false, map[string]interface{}{"error": err.Error()})
			}
			if finishStep != nil {
				finishStep(false, err.Error())
			}
			return
		}
		if finishTiming != nil {
			finishTiming(true, metadata)
		}
		if finishStep != nil {
			finishStep(true, fmt.Sprintf("%v", metadata))
		}
	}
}
