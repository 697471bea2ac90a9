// Command e2e_test exercises the whole post-extraction pipeline on a
// synthetic dump: parse, persist, quiz, grade, record, export. It
// needs no real PDF and no network, so it doubles as a smoke test for
// a fresh checkout.
//
//	go run ./cmd/e2e_test
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"examtrainer/export"
	"examtrainer/extract"
	"examtrainer/parse"
	"examtrainer/quiz"
	"examtrainer/store"
)

// dump is three questions in the shape extracted dump text has after
// normalization.
var dump = strings.Join([]string{
	extract.PageMarker(1),
	"Question 1",
	"You have an Azure subscription that contains a storage account.",
	"You need to keep blob data for seven years at the lowest cost.",
	"Which access tier should you use?",
	"A. Hot",
	"B. Cool",
	"C. Archive",
	"Suggested Answer: C",
	"Discussion Summary: Archive is the cheapest tier for rarely read data.",
	"",
	extract.PageMarker(2),
	"Question 2",
	"Does a read-access geo-redundant storage account allow reads from",
	"the secondary region during an outage?",
	"A. Yes",
	"B. No",
	"Suggested Answer: A",
	"",
	"Question 3",
	"Which tiers support lifecycle management policies?",
	"A. Hot",
	"B. Cool",
	"C. Archive",
	"D. Premium",
	"Suggested Answer: A,B,C",
	"AI Recommended Answer: A,B,C",
	"",
}, "\n")

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	tmpDir, err := os.MkdirTemp("", "examtrainer-e2e-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating temp dir: %v\n", err)
		os.Exit(1)
	}
	defer os.RemoveAll(tmpDir)

	ctx := context.Background()
	const exam = "synthetic"

	// Parse
	fmt.Fprintln(os.Stderr, "\n=== PARSING ===")
	questions := parse.Parse(extract.Normalize(dump), "synthetic-dump", nil)
	if len(questions) != 3 {
		fmt.Fprintf(os.Stderr, "parsed %d questions, want 3\n", len(questions))
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "parsed %d questions\n", len(questions))

	// Persist and read back
	fmt.Fprintln(os.Stderr, "\n=== PERSISTING ===")
	st, err := store.New(filepath.Join(tmpDir, "data"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening store: %v\n", err)
		os.Exit(1)
	}
	if err := st.Save(exam, questions); err != nil {
		fmt.Fprintf(os.Stderr, "saving collection: %v\n", err)
		os.Exit(1)
	}
	loaded, err := st.Load(exam)
	if err != nil || len(loaded) != len(questions) {
		fmt.Fprintf(os.Stderr, "round trip failed: %d records, err=%v\n", len(loaded), err)
		os.Exit(1)
	}

	// Quiz: answer the first two correctly, leave the third blank.
	fmt.Fprintln(os.Stderr, "\n=== QUIZZING ===")
	sessions := quiz.NewManager()
	session := sessions.Start(exam)
	if err := sessions.SaveAnswers(session.Token, map[int]string{
		loaded[0].ID: quiz.ReferenceAnswer(loaded[0]),
		loaded[1].ID: quiz.ReferenceAnswer(loaded[1]),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "saving answers: %v\n", err)
		os.Exit(1)
	}
	final, err := sessions.Submit(session.Token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "submitting session: %v\n", err)
		os.Exit(1)
	}
	result := quiz.Grade(loaded, final.Answers, quiz.DefaultPassThreshold)
	if result.Score != 2 {
		fmt.Fprintf(os.Stderr, "score = %d, want 2\n", result.Score)
		os.Exit(1)
	}

	// Record the attempt
	fmt.Fprintln(os.Stderr, "\n=== RECORDING ===")
	attempts, err := store.OpenAttempts(filepath.Join(tmpDir, "attempts.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening attempt history: %v\n", err)
		os.Exit(1)
	}
	defer attempts.Close()

	attemptID, err := attempts.Record(ctx, store.Attempt{
		Exam:       exam,
		Score:      result.Score,
		Total:      result.Total,
		Percentage: result.Percentage,
		Passed:     result.Passed,
	}, result.Answers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "recording attempt: %v\n", err)
		os.Exit(1)
	}
	stats, err := attempts.StatsByExam(ctx, exam)
	if err != nil {
		fmt.Fprintf(os.Stderr, "attempt stats: %v\n", err)
		os.Exit(1)
	}

	// Export
	fmt.Fprintln(os.Stderr, "\n=== EXPORTING ===")
	csvData, err := export.QuestionsCSV(loaded)
	if err != nil {
		fmt.Fprintf(os.Stderr, "csv export: %v\n", err)
		os.Exit(1)
	}
	xlsxData, err := export.QuestionsXLSX(loaded)
	if err != nil {
		fmt.Fprintf(os.Stderr, "xlsx export: %v\n", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(map[string]interface{}{
		"questions":  len(loaded),
		"attempt_id": attemptID,
		"result":     result,
		"stats":      stats,
		"csv_bytes":  len(csvData),
		"xlsx_bytes": len(xlsxData),
	}, "", "  ")
	fmt.Println(string(out))
}
