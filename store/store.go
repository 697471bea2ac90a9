// Package store persists exam collections and attempt history. Each
// exam lives in its own directory under the data root: the question
// records as one JSON document per line, extracted images alongside.
// Attempt history goes to SQLite.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"examtrainer/parse"
)

// Sentinel errors returned by store operations.
var (
	// ErrExamNotFound is returned when an operation targets an exam
	// that has no directory on disk.
	ErrExamNotFound = errors.New("store: exam not found")
	// ErrQuestionNotFound is returned when an edit targets a question
	// id missing from the collection.
	ErrQuestionNotFound = errors.New("store: question not found")
	// ErrInvalidExam is returned for exam names that cannot form a
	// directory name.
	ErrInvalidExam = errors.New("store: invalid exam name")
)

// questionsFile is the collection filename inside each exam directory.
const questionsFile = "exam.jsonl"

// Store keeps one question collection per exam under a data directory.
type Store struct {
	dataDir string
}

// New returns a Store rooted at dataDir, creating it if needed.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Store{dataDir: dataDir}, nil
}

// ValidExamName reports whether an exam name can form a directory name
// without escaping the data directory.
func ValidExamName(exam string) bool {
	return exam != "" && exam != "." && exam != ".." &&
		!strings.ContainsAny(exam, `/\`)
}

func (s *Store) examDir(exam string) string {
	return filepath.Join(s.dataDir, exam)
}

// ImageDir returns the directory images for an exam are stored in.
func (s *Store) ImageDir(exam string) string {
	return filepath.Join(s.examDir(exam), "images")
}

// ImagePath resolves one image filename inside an exam's image
// directory. The name is reduced to its base so a crafted filename
// cannot point elsewhere.
func (s *Store) ImagePath(exam, name string) string {
	return filepath.Join(s.ImageDir(exam), filepath.Base(name))
}

// Exists reports whether an exam has a collection on disk.
func (s *Store) Exists(exam string) bool {
	if !ValidExamName(exam) {
		return false
	}
	_, err := os.Stat(filepath.Join(s.examDir(exam), questionsFile))
	return err == nil
}

// Save writes a whole collection, replacing any previous one.
func (s *Store) Save(exam string, questions []parse.Question) error {
	if !ValidExamName(exam) {
		return fmt.Errorf("%w: %q", ErrInvalidExam, exam)
	}
	if err := os.MkdirAll(s.examDir(exam), 0o755); err != nil {
		return fmt.Errorf("creating exam directory: %w", err)
	}

	var buf bytes.Buffer
	for _, q := range questions {
		line, err := json.Marshal(q)
		if err != nil {
			return fmt.Errorf("encoding question %d: %w", q.ID, err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	path := filepath.Join(s.examDir(exam), questionsFile)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Load reads an exam's collection in stored order. A missing exam or
// file loads as an empty collection, not an error.
func (s *Store) Load(exam string) ([]parse.Question, error) {
	if !ValidExamName(exam) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidExam, exam)
	}

	path := filepath.Join(s.examDir(exam), questionsFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []parse.Question{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	questions := []parse.Question{}
	for i, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var q parse.Question
		if err := json.Unmarshal([]byte(line), &q); err != nil {
			return nil, fmt.Errorf("parsing %s line %d: %w", path, i+1, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// Append adds questions to an existing collection. Incoming ids are
// resequenced to continue after the current maximum, and the whole file
// is rewritten.
func (s *Store) Append(exam string, questions []parse.Question) error {
	existing, err := s.Load(exam)
	if err != nil {
		return err
	}

	nextID := 0
	for _, q := range existing {
		if q.ID > nextID {
			nextID = q.ID
		}
	}
	for i := range questions {
		nextID++
		questions[i].ID = nextID
	}

	return s.Save(exam, append(existing, questions...))
}

// UpdateQuestion replaces one record by id. The stored id, source name
// and image list always survive the edit.
func (s *Store) UpdateQuestion(exam string, id int, updated parse.Question) error {
	if !ValidExamName(exam) {
		return fmt.Errorf("%w: %q", ErrInvalidExam, exam)
	}
	if !s.Exists(exam) {
		return fmt.Errorf("%w: %q", ErrExamNotFound, exam)
	}

	questions, err := s.Load(exam)
	if err != nil {
		return err
	}

	for i, q := range questions {
		if q.ID != id {
			continue
		}
		updated.ID = q.ID
		updated.SourceName = q.SourceName
		updated.Images = q.Images
		questions[i] = updated
		return s.Save(exam, questions)
	}
	return fmt.Errorf("%w: id %d in %q", ErrQuestionNotFound, id, exam)
}

// Delete removes an exam's directory, questions and images included.
func (s *Store) Delete(exam string) error {
	if !ValidExamName(exam) {
		return fmt.Errorf("%w: %q", ErrInvalidExam, exam)
	}
	if _, err := os.Stat(s.examDir(exam)); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %q", ErrExamNotFound, exam)
	}
	if err := os.RemoveAll(s.examDir(exam)); err != nil {
		return fmt.Errorf("removing exam %q: %w", exam, err)
	}
	return nil
}

// List returns the exam names with a collection on disk, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dataDir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading data directory: %w", err)
	}

	exams := []string{}
	for _, entry := range entries {
		if entry.IsDir() && s.Exists(entry.Name()) {
			exams = append(exams, entry.Name())
		}
	}
	sort.Strings(exams)
	return exams, nil
}

// ExamStats summarizes one stored collection.
type ExamStats struct {
	Exam          string         `json:"exam"`
	QuestionCount int            `json:"question_count"`
	TypeCounts    map[string]int `json:"type_counts"`
	SourceCount   int            `json:"source_count"`
}

// Stats computes collection statistics for one exam.
func (s *Store) Stats(exam string) (ExamStats, error) {
	questions, err := s.Load(exam)
	if err != nil {
		return ExamStats{}, err
	}

	stats := ExamStats{
		Exam:          exam,
		QuestionCount: len(questions),
		TypeCounts:    make(map[string]int),
	}
	sources := make(map[string]bool)
	for _, q := range questions {
		stats.TypeCounts[q.Type]++
		sources[q.SourceName] = true
	}
	stats.SourceCount = len(sources)
	return stats, nil
}
