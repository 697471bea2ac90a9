// Package export renders stored collections and attempt history to
// CSV and XLSX downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"examtrainer/parse"
	"examtrainer/store"
)

// questionHeaders are the columns of both question export formats.
var questionHeaders = []string{
	"Question ID", "Source", "Page", "Type", "Question", "Choices",
	"Suggested Answer", "Community Answer", "AI Answer",
	"Community Explanation", "AI Explanation", "Images",
}

// attemptHeaders follow the layout attempt exports have always used.
var attemptHeaders = []string{"Timestamp", "Score", "Total", "Percentage"}

// questionRow flattens one record into export columns.
func questionRow(q parse.Question) []string {
	choices := []string{}
	for _, letter := range q.Choices.Letters() {
		text, _ := q.Choices.Get(letter)
		choices = append(choices, fmt.Sprintf("%s) %s", letter, text))
	}
	return []string{
		strconv.Itoa(q.ID),
		q.SourceName,
		strconv.Itoa(q.PageNumber),
		q.Type,
		q.Stem,
		strings.Join(choices, "\n"),
		q.AuthoritativeAnswer,
		q.CommunityAnswer,
		q.AIAnswer,
		q.CommunityExplanation,
		q.AIExplanation,
		strings.Join(q.Images, "; "),
	}
}

// QuestionsCSV renders a collection as CSV with a header row.
func QuestionsCSV(questions []parse.Question) ([]byte, error) {
	var buf strings.Builder
	w := csv.NewWriter(&buf)

	if err := w.Write(questionHeaders); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	for _, q := range questions {
		if err := w.Write(questionRow(q)); err != nil {
			return nil, fmt.Errorf("writing csv row for question %d: %w", q.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return []byte(buf.String()), nil
}

// QuestionsXLSX renders a collection as a single-sheet workbook.
func QuestionsXLSX(questions []parse.Question) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Questions"

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, header := range questionHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, header)
	}

	for rowIndex, q := range questions {
		for colIndex, value := range questionRow(q) {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// AttemptsCSV renders attempt history as CSV. Percentages are rounded
// to two decimals at this edge; storage keeps full precision.
func AttemptsCSV(attempts []store.Attempt) ([]byte, error) {
	var buf strings.Builder
	w := csv.NewWriter(&buf)

	if err := w.Write(attemptHeaders); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	for _, at := range attempts {
		row := []string{
			at.TakenAt,
			strconv.Itoa(at.Score),
			strconv.Itoa(at.Total),
			fmt.Sprintf("%.2f", at.Percentage),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing csv row for attempt %s: %w", at.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return []byte(buf.String()), nil
}
