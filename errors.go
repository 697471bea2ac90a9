package examtrainer

import "errors"

var (
	// ErrUnsupportedFormat is returned for source documents that are
	// not PDFs.
	ErrUnsupportedFormat = errors.New("examtrainer: unsupported document format")

	// ErrNoQuestions is returned when an ingest run produces no
	// question records at all.
	ErrNoQuestions = errors.New("examtrainer: no questions found")
)
