// Package examtrainer turns ExamTopics-style certification-dump PDFs
// into structured, quizzable question collections. The pipeline
// extracts text and embedded images from each PDF, normalizes the
// text, reconstructs question records and persists them per exam;
// the store, quiz and export packages build on the resulting records.
package examtrainer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"examtrainer/extract"
	"examtrainer/parse"
	"examtrainer/store"
)

// DocumentResult reports the outcome of ingesting one PDF.
type DocumentResult struct {
	Source    string `json:"source"`
	Pages     int    `json:"pages"`
	Questions int    `json:"questions"`
	Images    int    `json:"images"`
	Error     string `json:"error,omitempty"`
}

// BatchResult reports the outcome of one ingest run.
type BatchResult struct {
	Exam           string           `json:"exam"`
	Documents      []DocumentResult `json:"documents"`
	TotalQuestions int              `json:"total_questions"`
	TotalImages    int              `json:"total_images"`
	Appended       bool             `json:"appended"`
}

// Pipeline wires extraction, parsing and persistence together.
type Pipeline struct {
	cfg   Config
	store *store.Store
}

// New creates a Pipeline with the given configuration.
func New(cfg Config) (*Pipeline, error) {
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultConfig().DataDir
	}

	s, err := store.New(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return &Pipeline{cfg: cfg, store: s}, nil
}

// Store returns the underlying exam store.
func (p *Pipeline) Store() *store.Store {
	return p.store
}

// IngestDocument ingests a single PDF into an exam, appending to any
// existing collection.
func (p *Pipeline) IngestDocument(ctx context.Context, exam, path string) (*DocumentResult, error) {
	if !store.ValidExamName(exam) {
		return nil, fmt.Errorf("%w: %q", store.ErrInvalidExam, exam)
	}

	result, questions, err := p.processDocument(ctx, exam, path)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return &result, ErrNoQuestions
	}

	if err := p.store.Append(exam, questions); err != nil {
		return nil, fmt.Errorf("persisting questions: %w", err)
	}
	return &result, nil
}

// IngestBatch ingests a set of PDFs into an exam. Documents are
// processed sequentially; a failing document is reported in its
// DocumentResult and does not stop the run. With appendMode the
// questions join the existing collection, otherwise they replace it.
// A run that produces no questions at all fails with ErrNoQuestions,
// still returning the per-document breakdown.
func (p *Pipeline) IngestBatch(ctx context.Context, exam string, paths []string, appendMode bool) (*BatchResult, error) {
	if !store.ValidExamName(exam) {
		return nil, fmt.Errorf("%w: %q", store.ErrInvalidExam, exam)
	}

	batch := &BatchResult{Exam: exam, Documents: []DocumentResult{}, Appended: appendMode}
	all := []parse.Question{}

	start := time.Now()
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return batch, err
		}

		result, questions, err := p.processDocument(ctx, exam, path)
		if err != nil {
			slog.Warn("ingest: document failed",
				"exam", exam, "source", result.Source, "error", err)
			result.Error = err.Error()
			batch.Documents = append(batch.Documents, result)
			continue
		}

		batch.Documents = append(batch.Documents, result)
		batch.TotalImages += result.Images
		all = append(all, questions...)
	}

	if len(all) == 0 {
		return batch, ErrNoQuestions
	}
	batch.TotalQuestions = len(all)

	if appendMode {
		if err := p.store.Append(exam, all); err != nil {
			return batch, fmt.Errorf("persisting questions: %w", err)
		}
	} else {
		// Records from every document share one id sequence.
		for i := range all {
			all[i].ID = i + 1
		}
		if err := p.store.Save(exam, all); err != nil {
			return batch, fmt.Errorf("persisting questions: %w", err)
		}
	}

	slog.Info("ingest: run complete",
		"exam", exam, "documents", len(paths), "questions", len(all),
		"images", batch.TotalImages, "appended", appendMode,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return batch, nil
}

// processDocument runs one PDF through extraction and parsing. The
// returned DocumentResult always carries the source name, even on
// error.
func (p *Pipeline) processDocument(ctx context.Context, exam, path string) (DocumentResult, []parse.Question, error) {
	source := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	result := DocumentResult{Source: source}

	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return result, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	start := time.Now()
	extractor := extract.New(p.store.ImageDir(exam))
	extracted, err := extractor.Extract(ctx, path, source)
	if err != nil {
		return result, nil, fmt.Errorf("extracting %s: %w", source, err)
	}

	text := extract.Normalize(extracted.Text)
	imagesByPage := extract.MapImagesToPages(extracted.Images)
	questions := parse.Parse(text, extracted.SourceName, imagesByPage)

	result.Pages = extracted.PageCount
	result.Questions = len(questions)
	result.Images = len(extracted.Images)

	slog.Info("ingest: document parsed",
		"exam", exam, "source", extracted.SourceName,
		"pages", extracted.PageCount, "questions", len(questions),
		"images", len(extracted.Images),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return result, questions, nil
}
