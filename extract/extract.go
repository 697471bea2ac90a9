package extract

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Result holds everything recovered from one source document.
type Result struct {
	SourceName string   // identifier used in image filenames and question records
	PageCount  int
	Text       string   // concatenated page text with page-boundary markers
	Images     []string // saved image filenames, in extraction order
}

// Extractor pulls page text and embedded raster images out of PDF
// documents. Images are written to the configured directory; text is
// returned with one page-boundary marker per page.
type Extractor struct {
	imageDir string
}

// New returns an Extractor that saves images into imageDir, creating the
// directory on first use.
func New(imageDir string) *Extractor {
	return &Extractor{imageDir: imageDir}
}

// Extract processes one document. A document that cannot be opened or
// read is an error; failures on individual pages or images are logged
// and skipped so the rest of the document still comes through.
func (e *Extractor) Extract(ctx context.Context, path, sourceName string) (*Result, error) {
	if sourceName == "" {
		sourceName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	text, pages, err := extractText(path, sourceName)
	if err != nil {
		return nil, fmt.Errorf("extracting text: %w", err)
	}

	// Image recovery is best-effort: a document that yields no images
	// still yields fully parsed questions.
	images := e.extractImages(ctx, path, sourceName)

	return &Result{
		SourceName: sourceName,
		PageCount:  pages,
		Text:       text,
		Images:     images,
	}, nil
}

// extractText walks the document pages in order, prefixing each page's
// text with its boundary marker.
func extractText(path, sourceName string) (string, int, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	totalPages := reader.NumPage()
	var buf strings.Builder

	for i := 1; i <= totalPages; i++ {
		buf.WriteString("\n")
		buf.WriteString(PageMarker(i))
		buf.WriteString("\n")

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			slog.Warn("extract: page text failed", "source", sourceName, "page", i, "error", err)
			continue
		}
		buf.WriteString(text)
	}

	return buf.String(), totalPages, nil
}

// pageMarkerPattern matches the boundary lines emitted by extractText.
var pageMarkerPattern = regexp.MustCompile(`--- PAGE (\d+) ---`)

// PageMarker returns the literal page-boundary line for a 1-based page.
func PageMarker(n int) string {
	return fmt.Sprintf("--- PAGE %d ---", n)
}

// FirstPage returns the page number of the first boundary marker in text,
// or 1 when no marker is present.
func FirstPage(text string) int {
	m := pageMarkerPattern.FindStringSubmatch(text)
	if m == nil {
		return 1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// StripPageMarkers removes all page-boundary markers from text.
func StripPageMarkers(text string) string {
	return pageMarkerPattern.ReplaceAllString(text, "")
}
