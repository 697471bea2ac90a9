package extract

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Image kinds, used as the middle token of saved filenames.
const (
	kindImage = "img"   // page XObject images
	kindThumb = "thumb" // page thumbnail images
)

// ImageFileName builds the canonical filename for an extracted image:
// <source>_page<n>_<kind><seq>.<ext>.
func ImageFileName(sourceName string, page int, kind string, seq int, ext string) string {
	return fmt.Sprintf("%s_page%d_%s%d.%s", sourceName, page, kind, seq, ext)
}

// extractImages recovers embedded images page by page. Every failure is
// logged and skipped; the returned slice holds the filenames that were
// actually written.
func (e *Extractor) extractImages(ctx context.Context, path, sourceName string) []string {
	f, err := os.Open(path)
	if err != nil {
		slog.Warn("extract: image pass failed to open", "source", sourceName, "error", err)
		return nil
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		slog.Warn("extract: image pass failed to read", "source", sourceName, "error", err)
		return nil
	}

	if err := os.MkdirAll(e.imageDir, 0o755); err != nil {
		slog.Warn("extract: image dir", "dir", e.imageDir, "error", err)
		return nil
	}

	var images []string
	// Object numbers already written, so an image reused across pages is
	// stored once under the first page that references it.
	seen := make(map[int]bool)

	for page := 1; page <= pdfCtx.PageCount; page++ {
		if ctx.Err() != nil {
			return images
		}
		images = append(images, e.savePageImages(pdfCtx, page, sourceName, kindImage, false, seen)...)
		images = append(images, e.savePageImages(pdfCtx, page, sourceName, kindThumb, true, seen)...)
	}

	return images
}

// savePageImages writes one page's images of one kind, deduplicating by
// object number across the whole document.
func (e *Extractor) savePageImages(pdfCtx *model.Context, page int, sourceName, kind string, thumb bool, seen map[int]bool) []string {
	found, err := pdfcpu.ExtractPageImages(pdfCtx, page, thumb)
	if err != nil {
		slog.Warn("extract: page images failed", "source", sourceName, "page", page, "kind", kind, "error", err)
		return nil
	}
	if len(found) == 0 {
		return nil
	}

	objNrs := make([]int, 0, len(found))
	for objNr := range found {
		objNrs = append(objNrs, objNr)
	}
	sort.Ints(objNrs)

	var names []string
	for i, objNr := range objNrs {
		seq := i + 1
		if seen[objNr] {
			continue
		}
		seen[objNr] = true

		img := found[objNr]
		ext := img.FileType
		if ext == "" {
			ext = "png"
		}

		name := ImageFileName(sourceName, page, kind, seq, ext)
		if err := e.writeImage(name, img); err != nil {
			slog.Warn("extract: image write failed", "source", sourceName, "page", page, "file", name, "error", err)
			continue
		}
		names = append(names, name)
	}
	return names
}

func (e *Extractor) writeImage(name string, img model.Image) (err error) {
	out, err := os.Create(filepath.Join(e.imageDir, name))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = io.Copy(out, img)
	return err
}
