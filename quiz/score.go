// Package quiz grades user answers against reconstructed question
// records and tracks in-flight quiz sessions.
package quiz

import (
	"sort"
	"strings"
	"unicode"

	"examtrainer/parse"
	"examtrainer/store"
)

// DefaultPassThreshold is the pass mark in percent.
const DefaultPassThreshold = 70.0

// previewLen caps the stem excerpt stored with each detail row.
const previewLen = 100

// Result summarizes one graded attempt.
type Result struct {
	Score      int                   `json:"score"`
	Total      int                   `json:"total"`
	Percentage float64               `json:"percentage"`
	Passed     bool                  `json:"passed"`
	Answers    []store.AttemptAnswer `json:"answers"`
}

// ReferenceAnswer returns the answer a question is graded against: the
// document's suggested answer when present, else the community answer,
// else the AI answer.
func ReferenceAnswer(q parse.Question) string {
	if q.AuthoritativeAnswer != "" {
		return q.AuthoritativeAnswer
	}
	if q.CommunityAnswer != "" {
		return q.CommunityAnswer
	}
	return q.AIAnswer
}

// Normalize canonicalizes an answer for comparison. A letter-list
// answer ("b" or "C, a") becomes its letters uppercased, sorted and
// comma-joined, so ordering and spacing never affect grading. Free-form
// answers are uppercased with spaces removed.
func Normalize(answer string) string {
	letters := letterList(answer)
	if letters == nil {
		return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(answer)), " ", "")
	}
	sort.Strings(letters)
	return strings.Join(letters, ",")
}

// letterList splits an answer into single-letter tokens, or nil when
// the answer is not a pure letter list.
func letterList(answer string) []string {
	fields := strings.FieldsFunc(strings.ToUpper(answer), func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(fields) == 0 {
		return nil
	}
	for _, f := range fields {
		if len(f) != 1 || f[0] < 'A' || f[0] > 'Z' {
			return nil
		}
	}
	return fields
}

// Grade scores user answers against a collection, keyed by question id.
// Every question gets a detail row; unanswered questions and questions
// with no reference answer count as incorrect. threshold is the pass
// mark in percent.
func Grade(questions []parse.Question, answers map[int]string, threshold float64) Result {
	result := Result{Total: len(questions), Answers: []store.AttemptAnswer{}}

	for _, q := range questions {
		user := answers[q.ID]
		ref := ReferenceAnswer(q)
		correct := user != "" && ref != "" && Normalize(user) == Normalize(ref)
		if correct {
			result.Score++
		}
		result.Answers = append(result.Answers, store.AttemptAnswer{
			QuestionID:    q.ID,
			StemPreview:   q.Preview(previewLen),
			UserAnswer:    user,
			CorrectAnswer: ref,
			Correct:       correct,
		})
	}

	if result.Total > 0 {
		result.Percentage = 100 * float64(result.Score) / float64(result.Total)
		result.Passed = result.Percentage >= threshold
	}
	return result
}
