package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrAttemptNotFound is returned when an attempt id has no row.
var ErrAttemptNotFound = errors.New("store: attempt not found")

// Attempt represents a row in the attempts table.
type Attempt struct {
	ID         string  `json:"id"`
	Exam       string  `json:"exam"`
	TakenAt    string  `json:"taken_at"`
	Score      int     `json:"score"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Passed     bool    `json:"passed"`
}

// AttemptAnswer represents a row in the attempt_answers table.
type AttemptAnswer struct {
	QuestionID    int    `json:"question_id"`
	StemPreview   string `json:"stem_preview"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	Correct       bool   `json:"correct"`
}

// AttemptStats aggregates one exam's attempt history.
type AttemptStats struct {
	Exam         string  `json:"exam"`
	AttemptCount int     `json:"attempt_count"`
	AveragePct   float64 `json:"average_percentage"`
	BestPct      float64 `json:"best_percentage"`
	WorstPct     float64 `json:"worst_percentage"`
	PassedCount  int     `json:"passed_count"`
}

// Attempts records graded quiz attempts in SQLite.
type Attempts struct {
	db *sql.DB
}

// OpenAttempts opens (or creates) the attempt history database at the
// given path and initialises the schema.
func OpenAttempts(dbPath string) (*Attempts, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.Exec(attemptSchemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	// Connection pool settings for SQLite.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	a := &Attempts{db: db}

	// Run pending migrations.
	if err := a.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return a, nil
}

// Close closes the underlying database connection.
func (a *Attempts) Close() error {
	return a.db.Close()
}

// DB returns the underlying *sql.DB for advanced queries.
func (a *Attempts) DB() *sql.DB {
	return a.db
}

// Record stores one graded attempt with its per-question detail rows
// and returns the attempt id. A blank id gets a fresh uuid, a blank
// timestamp the current time.
func (a *Attempts) Record(ctx context.Context, attempt Attempt, answers []AttemptAnswer) (string, error) {
	if attempt.ID == "" {
		attempt.ID = uuid.NewString()
	}
	if attempt.TakenAt == "" {
		attempt.TakenAt = time.Now().UTC().Format(time.RFC3339)
	}

	err := a.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO attempts (id, exam, taken_at, score, total, percentage, passed)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, attempt.ID, attempt.Exam, attempt.TakenAt, attempt.Score,
			attempt.Total, attempt.Percentage, attempt.Passed); err != nil {
			return err
		}

		for i, ans := range answers {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO attempt_answers (attempt_id, position, question_id, stem_preview, user_answer, correct_answer, correct)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, attempt.ID, i, ans.QuestionID, ans.StemPreview,
				ans.UserAnswer, ans.CorrectAnswer, ans.Correct); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("recording attempt: %w", err)
	}
	return attempt.ID, nil
}

// ListByExam returns an exam's attempts, newest first.
func (a *Attempts) ListByExam(ctx context.Context, exam string) ([]Attempt, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, exam, taken_at, score, total, percentage, passed
		FROM attempts WHERE exam = ?
		ORDER BY taken_at DESC, id
	`, exam)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attempts := []Attempt{}
	for rows.Next() {
		var at Attempt
		if err := rows.Scan(&at.ID, &at.Exam, &at.TakenAt, &at.Score,
			&at.Total, &at.Percentage, &at.Passed); err != nil {
			return nil, err
		}
		attempts = append(attempts, at)
	}
	return attempts, rows.Err()
}

// Get returns one attempt with its detail rows in quiz order.
func (a *Attempts) Get(ctx context.Context, id string) (*Attempt, []AttemptAnswer, error) {
	at := &Attempt{}
	err := a.db.QueryRowContext(ctx, `
		SELECT id, exam, taken_at, score, total, percentage, passed
		FROM attempts WHERE id = ?
	`, id).Scan(&at.ID, &at.Exam, &at.TakenAt, &at.Score,
		&at.Total, &at.Percentage, &at.Passed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("%w: %q", ErrAttemptNotFound, id)
	}
	if err != nil {
		return nil, nil, err
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT question_id, stem_preview, user_answer, correct_answer, correct
		FROM attempt_answers WHERE attempt_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	answers := []AttemptAnswer{}
	for rows.Next() {
		var ans AttemptAnswer
		if err := rows.Scan(&ans.QuestionID, &ans.StemPreview,
			&ans.UserAnswer, &ans.CorrectAnswer, &ans.Correct); err != nil {
			return nil, nil, err
		}
		answers = append(answers, ans)
	}
	return at, answers, rows.Err()
}

// Delete removes one attempt; detail rows cascade.
func (a *Attempts) Delete(ctx context.Context, id string) error {
	res, err := a.db.ExecContext(ctx, "DELETE FROM attempts WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrAttemptNotFound, id)
	}
	return nil
}

// DeleteByExam removes all of an exam's attempts.
func (a *Attempts) DeleteByExam(ctx context.Context, exam string) error {
	_, err := a.db.ExecContext(ctx, "DELETE FROM attempts WHERE exam = ?", exam)
	return err
}

// StatsByExam computes aggregate statistics over an exam's attempt
// history. An exam with no attempts yields a zero-valued summary.
func (a *Attempts) StatsByExam(ctx context.Context, exam string) (AttemptStats, error) {
	stats := AttemptStats{Exam: exam}
	err := a.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(AVG(percentage), 0),
		       COALESCE(MAX(percentage), 0),
		       COALESCE(MIN(percentage), 0),
		       COALESCE(SUM(passed), 0)
		FROM attempts WHERE exam = ?
	`, exam).Scan(&stats.AttemptCount, &stats.AveragePct,
		&stats.BestPct, &stats.WorstPct, &stats.PassedCount)
	if err != nil {
		return AttemptStats{}, err
	}
	return stats, nil
}

// inTx runs fn inside a transaction.
func (a *Attempts) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
