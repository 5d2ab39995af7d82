package pdftext

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// titlePageLimit bounds title detection to the pages a title can appear on.
const titlePageLimit = 2

// maxTitleScanLines bounds how far down the extracted text the title
// heuristic looks.
const maxTitleScanLines = 30

// skipKeywords mark lines that look like headers, footers or boilerplate
// rather than a proposal title.
var skipKeywords = []string{
	"page", "date", "author", "abstract", "table of", "contents",
	"university", "department", "submitted", "copyright",
}

// Extractor reads proposal text with the pure-Go pdf library. Malformed
// files surface as errors, never as failures of the calling pipeline.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// ExtractText returns the full plain text of the document.
func (e *Extractor) ExtractText(_ context.Context, path string) (text string, err error) {
	return readText(path, 0)
}

// ExtractTitle scans the first pages for a plausible title line: long
// enough to be a title, short enough not to be a paragraph, free of
// boilerplate keywords, and not shouting in all caps unless very short.
func (e *Extractor) ExtractTitle(ctx context.Context, path string) (string, error) {
	text, err := readText(path, titlePageLimit)
	if err != nil {
		return "", err
	}
	title, ok := detectTitle(text)
	if !ok {
		return "", fmt.Errorf("no title line detected in %s", path)
	}
	return title, nil
}

func detectTitle(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	if len(lines) > maxTitleScanLines {
		lines = lines[:maxTitleScanLines]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) <= 10 || len(line) >= 200 {
			continue
		}
		if containsSkipKeyword(line) {
			continue
		}
		if line == strings.ToUpper(line) && len(strings.Fields(line)) > 5 {
			continue
		}
		return line, true
	}
	return "", false
}

func containsSkipKeyword(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range skipKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// readText extracts up to pageLimit pages (0 = all). The pdf library
// panics on some malformed cross-reference tables; that is converted to an
// error so callers can degrade gracefully.
func readText(path string, pageLimit int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parse panic in %s: %v", path, r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	pages := reader.NumPage()
	if pageLimit > 0 && pages > pageLimit {
		pages = pageLimit
	}

	var b strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i, err)
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}
