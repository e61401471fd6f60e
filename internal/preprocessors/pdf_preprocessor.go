// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"disinfo-scan/internal/observability"

	"github.com/ledongthuc/pdf"
)

// maxPDFPages limits how much of a long PDF is read
const maxPDFPages = 50

// PDFPreprocessor extracts text from PDF documents
type PDFPreprocessor struct {
	observer *observability.StandardObserver
}

// NewPDFPreprocessor creates a new PDF preprocessor
func NewPDFPreprocessor() *PDFPreprocessor {
	return &PDFPreprocessor{}
}

// SetObserver sets the observability component
func (pp *PDFPreprocessor) SetObserver(observer *observability.StandardObserver) {
	pp.observer = observer
}

// GetName returns the name of this preprocessor
func (pp *PDFPreprocessor) GetName() string {
	return "PDF Preprocessor"
}

// GetSupportedExtensions returns the file extensions this preprocessor supports
func (pp *PDFPreprocessor) GetSupportedExtensions() []string {
	return []string{".pdf"}
}

// CanProcess checks if this preprocessor can handle the given file
func (pp *PDFPreprocessor) CanProcess(filePath string) bool {
	return hasExtension(filePath, pp.GetSupportedExtensions())
}

// Process extracts the text of up to maxPDFPages pages
func (pp *PDFPreprocessor) Process(filePath string) (*ProcessedContent, error) {
	finish := startObservation(pp.observer, "pdf_preprocessor", filePath)

	if _, err := readBoundedFile(filePath); err != nil {
		finish(err, nil)
		return nil, err
	}

	f, r, err := pdf.Open(filepath.Clean(filePath))
	if err != nil {
		err = fmt.Errorf("error opening PDF: %w", err)
		finish(err, nil)
		return nil, err
	}
	defer f.Close()

	pageCount := r.NumPage()
	if pageCount > maxPDFPages {
		pageCount = maxPDFPages
	}

	var pages []string
	failed := 0
	for i := 1; i <= pageCount; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			failed++
			continue
		}
		text, err := pageText(p)
		if err != nil {
			failed++
			continue
		}
		if text = cleanPDFText(text); text != "" {
			pages = append(pages, text)
		}
	}

	// Pages are separated by a blank line so sentences do not run together
	result := &ProcessedContent{
		OriginalPath:  filePath,
		Filename:      filepath.Base(filePath),
		Text:          strings.Join(pages, "\n\n"),
		Format:        "PDF",
		PageCount:     pageCount,
		ProcessorType: "pdf",
		Metadata:      map[string]interface{}{"failed_pages": failed},
	}
	result.setCounts()

	finish(nil, map[string]interface{}{
		"page_count":   pageCount,
		"failed_pages": failed,
		"word_count":   result.WordCount,
	})
	return result, nil
}

// pageText reads a page row by row, falling back to plain extraction
func pageText(p pdf.Page) (string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		return p.GetPlainText(nil)
	}

	sorted := make([]*pdf.Row, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			sorted = append(sorted, row)
		}
	}
	// PDF Y grows upwards, so higher rows come first
	sort.SliceStable(sorted, func(i, j int) bool {
		return averageY(sorted[i].Content) > averageY(sorted[j].Content)
	})

	var buf bytes.Buffer
	for _, row := range sorted {
		if line := rowText(row.Content); strings.TrimSpace(line) != "" {
			buf.WriteString(line)
			buf.WriteString("\n")
		}
	}
	return buf.String(), nil
}

func averageY(elements []pdf.Text) float64 {
	if len(elements) == 0 {
		return 0
	}
	var total float64
	for _, e := range elements {
		total += e.Y
	}
	return total / float64(len(elements))
}

// rowText joins the glyph runs of a row, inserting a space wherever the gap
// to the next run exceeds a fifth of the font size
func rowText(elements []pdf.Text) string {
	sorted := make([]pdf.Text, len(elements))
	copy(sorted, elements)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var buf bytes.Buffer
	for i, e := range sorted {
		buf.WriteString(e.S)
		if i == len(sorted)-1 {
			break
		}
		fontSize := e.FontSize
		if fontSize <= 0 {
			fontSize = 12
		}
		if gap := sorted[i+1].X - (e.X + e.W); gap > fontSize*0.2 {
			buf.WriteString(" ")
		}
	}
	return buf.String()
}

// cleanPDFText trims lines, drops empty ones and collapses runs of spaces
func cleanPDFText(text string) string {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\t", " "), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
