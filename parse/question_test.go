package parse

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestChoices_MarshalKeepsDocumentOrder(t *testing.T) {
	var c Choices
	c.Set("B", "second")
	c.Set("A", "first")
	c.Set("C", "third")

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"B":"second","A":"first","C":"third"}`
	if string(data) != want {
		t.Errorf("marshal = %s, want %s", data, want)
	}
}

func TestChoices_UnmarshalKeepsKeyOrder(t *testing.T) {
	var c Choices
	if err := json.Unmarshal([]byte(`{"C":"three","A":"one","B":"two"}`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got := c.Letters(); !reflect.DeepEqual(got, []string{"C", "A", "B"}) {
		t.Errorf("letters = %v, want [C A B]", got)
	}
	if text, _ := c.Get("A"); text != "one" {
		t.Errorf("A = %q, want %q", text, "one")
	}
}

func TestChoices_RoundTrip(t *testing.T) {
	var c Choices
	c.Set("A", "alpha")
	c.Set("B", "beta")

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Choices
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !c.Equal(back) {
		t.Errorf("round trip changed choices: %v -> %v", c, back)
	}
}

func TestChoices_UnmarshalNull(t *testing.T) {
	c := Choices{}
	c.Set("A", "stale")

	if err := json.Unmarshal([]byte(`null`), &c); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after null, want 0", c.Len())
	}
}

func TestChoices_UnmarshalRejectsNonObject(t *testing.T) {
	var c Choices
	if err := json.Unmarshal([]byte(`["A","B"]`), &c); err == nil {
		t.Error("unmarshal of array succeeded, want error")
	}
}

func TestChoices_SetReplacesInPlace(t *testing.T) {
	var c Choices
	c.Set("A", "one")
	c.Set("B", "two")
	c.Set("A", "rewritten")

	if got := c.Letters(); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("letters = %v, want [A B]", got)
	}
	if text, _ := c.Get("A"); text != "rewritten" {
		t.Errorf("A = %q, want %q", text, "rewritten")
	}
}

func TestQuestion_JSONFieldNames(t *testing.T) {
	var c Choices
	c.Set("A", "Yes")
	c.Set("B", "No")
	q := Question{
		ID:                  4,
		SourceNumber:        "17",
		SourceName:          "az104",
		PageNumber:          9,
		Type:                TypeYesNo,
		Stem:                "Does the solution meet the goal?",
		Choices:             c,
		AuthoritativeAnswer: "A",
		Images:              []string{"az104_page9_img1.png"},
	}

	data, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{
		"question_id", "source_document_number", "source_name", "page_number",
		"question_type", "stem", "choices", "authoritative_answer",
		"community_answer", "ai_answer", "community_explanation",
		"ai_explanation", "images", "user_answer",
	} {
		if _, ok := m[key]; !ok {
			t.Errorf("marshalled question missing key %q", key)
		}
	}
	if m["user_answer"] != nil {
		t.Errorf("user_answer = %v, want null", m["user_answer"])
	}
}

func TestQuestion_RoundTripFieldForField(t *testing.T) {
	var c Choices
	c.Set("A", "3")
	c.Set("B", "4")
	q := Question{
		ID:                   2,
		SourceNumber:         "2",
		SourceName:           "arith",
		PageNumber:           1,
		Type:                 TypeSingleChoice,
		Stem:                 "What is 2+2?",
		Choices:              c,
		AuthoritativeAnswer:  "B",
		CommunityAnswer:      "B",
		AIAnswer:             "B",
		CommunityExplanation: "Everyone agrees.",
		AIExplanation:        "Four.",
		Images:               []string{},
	}

	data, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Question
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(q, back) {
		t.Errorf("round trip changed question:\n got %+v\nwant %+v", back, q)
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name string
		stem string
		max  int
		want string
	}{
		{"short stem unchanged", "Pick one.", 40, "Pick one."},
		{"cut on word boundary", "Which storage tier minimizes cost here?", 20, "Which storage tier..."},
		{"zero max returns all", "anything at all", 0, "anything at all"},
		{"no space falls back to hard cut", "abcdefghijklmnop", 5, "abcde..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Question{Stem: tt.stem}
			if got := q.Preview(tt.max); got != tt.want {
				t.Errorf("Preview(%d) = %q, want %q", tt.max, got, tt.want)
			}
		})
	}
}
