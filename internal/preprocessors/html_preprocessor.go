// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"disinfo-scan/internal/observability"

	"golang.org/x/net/html"
)

// HTMLPreprocessor extracts the readable text of a saved web page
type HTMLPreprocessor struct {
	observer *observability.StandardObserver
}

// NewHTMLPreprocessor creates a new HTML preprocessor
func NewHTMLPreprocessor() *HTMLPreprocessor {
	return &HTMLPreprocessor{}
}

// SetObserver sets the observability component
func (hp *HTMLPreprocessor) SetObserver(observer *observability.StandardObserver) {
	hp.observer = observer
}

// GetName returns the name of this preprocessor
func (hp *HTMLPreprocessor) GetName() string {
	return "HTML Preprocessor"
}

// GetSupportedExtensions returns the file extensions this preprocessor supports
func (hp *HTMLPreprocessor) GetSupportedExtensions() []string {
	return []string{".html", ".htm", ".xhtml"}
}

// CanProcess checks if this preprocessor can handle the given file
func (hp *HTMLPreprocessor) CanProcess(filePath string) bool {
	return hasExtension(filePath, hp.GetSupportedExtensions())
}

// Process parses the page and returns its visible text
func (hp *HTMLPreprocessor) Process(filePath string) (*ProcessedContent, error) {
	finish := startObservation(hp.observer, "html_preprocessor", filePath)

	data, err := readBoundedFile(filePath)
	if err != nil {
		finish(err, nil)
		return nil, err
	}

	text, title, err := ExtractHTMLText(data)
	if err != nil {
		finish(err, nil)
		return nil, err
	}

	result := &ProcessedContent{
		OriginalPath:  filePath,
		Filename:      filepath.Base(filePath),
		Text:          text,
		Format:        "HTML",
		ProcessorType: "html",
		Metadata:      map[string]interface{}{},
	}
	if title != "" {
		result.Metadata["title"] = title
	}
	result.setCounts()

	finish(nil, map[string]interface{}{"word_count": result.WordCount})
	return result, nil
}

// Elements whose content is never shown as prose
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"svg":      true,
	"head":     true,
}

// Elements that end a line of text
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"article": true, "section": true, "header": true, "footer": true,
	"blockquote": true, "pre": true, "table": true, "ul": true, "ol": true,
	"figcaption": true,
}

// ExtractHTMLText returns the visible text of an HTML document, one block per line,
// and the document title when present
func ExtractHTMLText(data []byte) (string, string, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skippedElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElements[n.Data] {
			buf.WriteString("\n")
		}
	}
	walk(doc)

	lines := strings.Split(buf.String(), "\n")
	cleaned := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n"), findTitle(doc), nil
}

// findTitle returns the text of the first title element
func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		if n.FirstChild != nil {
			return strings.TrimSpace(n.FirstChild.Data)
		}
		return ""
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := findTitle(c); title != "" {
			return title
		}
	}
	return ""
}
