// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"disinfo-scan/internal/observability"

	"github.com/mmcdole/gofeed"
)

// FeedPreprocessor turns RSS, Atom and JSON feeds into one item per entry
type FeedPreprocessor struct {
	observer *observability.StandardObserver
	parser   *gofeed.Parser
}

// NewFeedPreprocessor creates a new feed preprocessor
func NewFeedPreprocessor() *FeedPreprocessor {
	return &FeedPreprocessor{parser: gofeed.NewParser()}
}

// SetObserver sets the observability component
func (fp *FeedPreprocessor) SetObserver(observer *observability.StandardObserver) {
	fp.observer = observer
}

// GetName returns the name of this preprocessor
func (fp *FeedPreprocessor) GetName() string {
	return "Feed Preprocessor"
}

// GetSupportedExtensions returns the file extensions this preprocessor supports
func (fp *FeedPreprocessor) GetSupportedExtensions() []string {
	return []string{".rss", ".atom", ".xml"}
}

// CanProcess checks if this preprocessor can handle the given file
func (fp *FeedPreprocessor) CanProcess(filePath string) bool {
	return hasExtension(filePath, fp.GetSupportedExtensions())
}

// Process parses the feed and returns each entry as an item
func (fp *FeedPreprocessor) Process(filePath string) (*ProcessedContent, error) {
	finish := startObservation(fp.observer, "feed_preprocessor", filePath)

	data, err := readBoundedFile(filePath)
	if err != nil {
		finish(err, nil)
		return nil, err
	}

	feed, err := fp.parser.Parse(bytes.NewReader(data))
	if err != nil {
		err = fmt.Errorf("failed to parse feed: %w", err)
		finish(err, nil)
		return nil, err
	}

	items := make([]Item, 0, len(feed.Items))
	texts := make([]string, 0, len(feed.Items))
	for _, entry := range feed.Items {
		item := feedItem(entry)
		if strings.TrimSpace(item.Text) == "" {
			continue
		}
		items = append(items, item)
		texts = append(texts, item.Text)
	}

	result := &ProcessedContent{
		OriginalPath:  filePath,
		Filename:      filepath.Base(filePath),
		Text:          strings.Join(texts, "\n\n"),
		Items:         items,
		Format:        "Feed (" + feed.FeedType + ")",
		ProcessorType: "feed",
		Metadata: map[string]interface{}{
			"feed_title": feed.Title,
			"item_count": len(items),
		},
	}
	result.setCounts()

	finish(nil, map[string]interface{}{"item_count": len(items)})
	return result, nil
}

// feedItem prefers the full content over the description and strips markup from either
func feedItem(entry *gofeed.Item) Item {
	body := entry.Content
	if strings.TrimSpace(body) == "" {
		body = entry.Description
	}
	if strings.Contains(body, "<") {
		if text, _, err := ExtractHTMLText([]byte(body)); err == nil {
			body = text
		}
	}

	title := strings.TrimSpace(entry.Title)
	text := strings.TrimSpace(body)
	if title != "" && text != "" {
		text = title + "\n" + text
	} else if title != "" {
		text = title
	}

	return Item{
		Title: title,
		Link:  entry.Link,
		Text:  text,
	}
}
