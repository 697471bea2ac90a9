package parse

import (
	"reflect"
	"testing"
)

func TestParse_SimpleQuestion(t *testing.T) {
	text := "Question 1\nWhat is 2+2?\nA. 3\nB. 4\nC. 5\nSuggested Answer: B\n"

	questions := Parse(text, "arith", nil)

	if len(questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(questions))
	}
	q := questions[0]

	if q.ID != 1 {
		t.Errorf("ID = %d, want 1", q.ID)
	}
	if q.SourceNumber != "1" {
		t.Errorf("SourceNumber = %q, want %q", q.SourceNumber, "1")
	}
	if q.SourceName != "arith" {
		t.Errorf("SourceName = %q, want %q", q.SourceName, "arith")
	}
	if q.Stem != "What is 2+2?" {
		t.Errorf("Stem = %q, want %q", q.Stem, "What is 2+2?")
	}
	if q.Type != TypeSingleChoice {
		t.Errorf("Type = %q, want %q", q.Type, TypeSingleChoice)
	}
	if q.AuthoritativeAnswer != "B" {
		t.Errorf("AuthoritativeAnswer = %q, want %q", q.AuthoritativeAnswer, "B")
	}

	want := map[string]string{"A": "3", "B": "4", "C": "5"}
	if got := q.Choices.Letters(); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Fatalf("choice letters = %v, want [A B C]", got)
	}
	for letter, wantText := range want {
		if text, _ := q.Choices.Get(letter); text != wantText {
			t.Errorf("choice %s = %q, want %q", letter, text, wantText)
		}
	}

	if q.Images == nil || len(q.Images) != 0 {
		t.Errorf("Images = %v, want empty non-nil slice", q.Images)
	}
	if q.UserAnswer != nil {
		t.Errorf("UserAnswer = %v, want nil", q.UserAnswer)
	}
}

func TestParse_RecordCountMatchesBoundaries(t *testing.T) {
	// Three boundaries, one of them empty: two records, ids contiguous.
	text := "Question 1\nfirst stem\n\nQuestion 2\n  \n\nQuestion 3\nthird stem\n"

	questions := Parse(text, "doc", nil)

	if len(questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(questions))
	}
	if questions[0].ID != 1 || questions[1].ID != 2 {
		t.Errorf("ids = %d, %d, want 1, 2", questions[0].ID, questions[1].ID)
	}
	// The document's own numbering is kept separately from the ids.
	if questions[1].SourceNumber != "3" {
		t.Errorf("SourceNumber = %q, want %q", questions[1].SourceNumber, "3")
	}
}

func TestParse_UnnumberedBoundaryFallsBackToID(t *testing.T) {
	questions := Parse("Question\nName the cmdlet to run.\n", "doc", nil)

	if len(questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(questions))
	}
	if questions[0].SourceNumber != "1" {
		t.Errorf("SourceNumber = %q, want %q", questions[0].SourceNumber, "1")
	}
	if questions[0].Type != TypeInputText {
		t.Errorf("Type = %q, want %q (no options)", questions[0].Type, TypeInputText)
	}
}

func TestParse_ImagesAttachedByPage(t *testing.T) {
	text := "Question 1\n--- PAGE 2 ---\nWhich diagram shows the correct flow?\nA. Left\nB. Right\n"
	imagesByPage := map[int][]string{
		2: {"doc_page2_img1.png", "doc_page2_thumb1.jpg"},
	}

	questions := Parse(text, "doc", imagesByPage)

	if len(questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(questions))
	}
	q := questions[0]
	if q.PageNumber != 2 {
		t.Errorf("PageNumber = %d, want 2", q.PageNumber)
	}
	if !reflect.DeepEqual(q.Images, imagesByPage[2]) {
		t.Errorf("Images = %v, want %v", q.Images, imagesByPage[2])
	}
	if q.Type != TypeImageSelection {
		t.Errorf("Type = %q, want %q", q.Type, TypeImageSelection)
	}
}

func TestParse_AnswersAndExplanations(t *testing.T) {
	text := "Question 12\nWhich tier should you choose?\n" +
		"A. Basic\nB. Standard\nC. Premium\n" +
		"Suggested Answer: C\n" +
		"Web Recommended Answer: B\n" +
		"Discussion Summary: Most replies argue B is enough for the SLA.\n" +
		"AI Recommended Answer: C\n"

	questions := Parse(text, "az104", nil)

	if len(questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(questions))
	}
	q := questions[0]

	if q.AuthoritativeAnswer != "C" {
		t.Errorf("AuthoritativeAnswer = %q, want C", q.AuthoritativeAnswer)
	}
	if q.CommunityAnswer != "B" {
		t.Errorf("CommunityAnswer = %q, want B", q.CommunityAnswer)
	}
	if q.AIAnswer != "C" {
		t.Errorf("AIAnswer = %q, want C", q.AIAnswer)
	}
	if q.CommunityExplanation != "Most replies argue B is enough for the SLA." {
		t.Errorf("CommunityExplanation = %q", q.CommunityExplanation)
	}
	if q.SourceNumber != "12" {
		t.Errorf("SourceNumber = %q, want 12", q.SourceNumber)
	}
}

func TestParse_CommunityAnswerFallback(t *testing.T) {
	text := "Question 1\nPick one.\nA. x\nB. y\nCommunity Answer: A\n"

	questions := Parse(text, "doc", nil)

	if len(questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(questions))
	}
	if got := questions[0].CommunityAnswer; got != "A" {
		t.Errorf("CommunityAnswer = %q, want A", got)
	}
}

func TestParse_NoBoundaries(t *testing.T) {
	if questions := Parse("free text without any markers", "doc", nil); len(questions) != 0 {
		t.Errorf("got %d questions, want 0", len(questions))
	}
}
