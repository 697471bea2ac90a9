package quiz

import (
	"errors"
	"testing"
)

// ---------------------------------------------------------------------------
// Session lifecycle
// ---------------------------------------------------------------------------

func TestManager_StartAndGet(t *testing.T) {
	m := NewManager()

	s := m.Start("az104")
	if s.Token == "" {
		t.Fatal("expected a session token")
	}
	if s.Exam != "az104" || s.Page != 0 || s.Submitted {
		t.Errorf("fresh session = %+v", s)
	}
	if s.Answers == nil || len(s.Answers) != 0 {
		t.Errorf("fresh session answers = %v, want empty map", s.Answers)
	}

	got, err := m.Get(s.Token)
	if err != nil {
		t.Fatalf("getting session: %v", err)
	}
	if got.Token != s.Token || got.Exam != "az104" {
		t.Errorf("Get = %+v, want started session", got)
	}
}

func TestManager_GetUnknownToken(t *testing.T) {
	m := NewManager()
	if _, err := m.Get("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("got %v, want ErrSessionNotFound", err)
	}
}

func TestManager_SaveAnswersMerges(t *testing.T) {
	m := NewManager()
	s := m.Start("az104")

	if err := m.SaveAnswers(s.Token, map[int]string{1: "A"}); err != nil {
		t.Fatalf("saving: %v", err)
	}
	if err := m.SaveAnswers(s.Token, map[int]string{1: "C", 2: "B"}); err != nil {
		t.Fatalf("saving again: %v", err)
	}

	got, err := m.Get(s.Token)
	if err != nil {
		t.Fatalf("getting: %v", err)
	}
	if got.Answers[1] != "C" || got.Answers[2] != "B" || len(got.Answers) != 2 {
		t.Errorf("answers = %v, want merged map", got.Answers)
	}
}

func TestManager_CopiesAreIsolated(t *testing.T) {
	// Mutating a returned session must not leak into the manager.
	m := NewManager()
	s := m.Start("az104")
	s.Answers[9] = "X"

	got, err := m.Get(s.Token)
	if err != nil {
		t.Fatalf("getting: %v", err)
	}
	if _, ok := got.Answers[9]; ok {
		t.Error("mutation of returned copy reached the manager")
	}
}

func TestManager_SetPage(t *testing.T) {
	m := NewManager()
	s := m.Start("az104")

	if err := m.SetPage(s.Token, 3); err != nil {
		t.Fatalf("setting page: %v", err)
	}
	got, _ := m.Get(s.Token)
	if got.Page != 3 {
		t.Errorf("page = %d, want 3", got.Page)
	}

	if err := m.SetPage(s.Token, -5); err != nil {
		t.Fatalf("setting negative page: %v", err)
	}
	got, _ = m.Get(s.Token)
	if got.Page != 0 {
		t.Errorf("page = %d, want 0 after negative set", got.Page)
	}
}

func TestManager_SubmitIsFinal(t *testing.T) {
	m := NewManager()
	s := m.Start("az104")
	if err := m.SaveAnswers(s.Token, map[int]string{1: "B"}); err != nil {
		t.Fatalf("saving: %v", err)
	}

	final, err := m.Submit(s.Token)
	if err != nil {
		t.Fatalf("submitting: %v", err)
	}
	if !final.Submitted || final.Answers[1] != "B" {
		t.Errorf("final session = %+v", final)
	}

	if _, err := m.Submit(s.Token); !errors.Is(err, ErrSessionSubmitted) {
		t.Errorf("second submit: got %v, want ErrSessionSubmitted", err)
	}
	if err := m.SaveAnswers(s.Token, map[int]string{2: "A"}); !errors.Is(err, ErrSessionSubmitted) {
		t.Errorf("save after submit: got %v, want ErrSessionSubmitted", err)
	}
}

func TestManager_End(t *testing.T) {
	m := NewManager()
	s := m.Start("az104")

	m.End(s.Token)
	if _, err := m.Get(s.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("got %v, want ErrSessionNotFound after End", err)
	}
}

// ---------------------------------------------------------------------------
// Pagination
// ---------------------------------------------------------------------------

func TestPageBounds(t *testing.T) {
	tests := []struct {
		page, perPage, n int
		start, end       int
	}{
		{0, 100, 250, 0, 100},
		{1, 100, 250, 100, 200},
		{2, 100, 250, 200, 250},
		{3, 100, 250, 250, 250}, // past the end
		{0, 100, 0, 0, 0},
		{-1, 100, 50, 0, 50},  // negative page clamps to first
		{0, 0, 250, 0, 100},   // zero page size falls back to default
	}
	for _, tt := range tests {
		start, end := PageBounds(tt.page, tt.perPage, tt.n)
		if start != tt.start || end != tt.end {
			t.Errorf("PageBounds(%d, %d, %d) = %d,%d, want %d,%d",
				tt.page, tt.perPage, tt.n, start, end, tt.start, tt.end)
		}
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		n, perPage int
		want       int
	}{
		{250, 100, 3},
		{100, 100, 1},
		{1, 100, 1},
		{0, 100, 0},
		{101, 100, 2},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.n, tt.perPage); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.n, tt.perPage, got, tt.want)
		}
	}
}
