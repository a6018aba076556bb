// Package identify finds DOI and arXiv identifiers printed on the first
// pages of a document.
package identify

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DefaultPages is how many leading pages are scanned when no limit is set.
const DefaultPages = 2

var (
	doiPattern   = regexp.MustCompile(`\b10\.\d{4,9}/[-._;()/:A-Za-z0-9]+`)
	arxivPattern = regexp.MustCompile(`(?i)\barxiv:\s*(\d{4}\.\d{4,5}|[a-z-]+(?:\.[A-Z]{2})?/\d{7})(?:v(\d+))?`)
)

// FromText returns the identifiers found in text as "doi:<doi>" and
// "arxiv:<id>v<version>" strings, unique and sorted. An arXiv identifier
// without a version gets version 1.
func FromText(text string) []string {
	seen := map[string]bool{}

	for _, m := range doiPattern.FindAllString(text, -1) {
		m = strings.TrimRight(m, ".,;:)")
		seen["doi:"+m] = true
	}
	for _, m := range arxivPattern.FindAllStringSubmatch(text, -1) {
		version := m[2]
		if version == "" {
			version = "1"
		}
		seen[fmt.Sprintf("arxiv:%sv%s", m[1], version)] = true
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Scan extracts the plain text of the first maxPages pages and returns the
// identifiers found there. Pages whose text cannot be extracted are skipped.
func Scan(r io.ReaderAt, size int64, maxPages int) ([]string, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF reader: %w", err)
	}

	if maxPages <= 0 {
		maxPages = DefaultPages
	}
	total := reader.NumPage()
	if maxPages > total {
		maxPages = total
	}

	var text strings.Builder
	for i := 1; i <= maxPages; i++ {
		pageText, err := pageText(reader, i)
		if err != nil {
			continue
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}

	return FromText(text.String()), nil
}

// ScanFile is Scan over the file at path.
func ScanFile(path string, maxPages int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	return Scan(f, info.Size(), maxPages)
}

// pageText recovers from panics raised by the text extractor on malformed
// content streams.
func pageText(reader *pdf.Reader, n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic extracting page %d: %v", n, r)
		}
	}()

	page := reader.Page(n)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d not found", n)
	}
	return page.GetPlainText(nil)
}
