package parse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Question type tags assigned by the classifier.
const (
	TypeSingleChoice   = "multiple_choice_single"
	TypeMultipleChoice = "multiple_choice_multiple"
	TypeYesNo          = "yes_no"
	TypeImageSelection = "image_selection"
	TypeDragAndDrop    = "drag_and_drop"
	TypeInputText      = "input_text"
)

// Question is one reconstructed exam question. Field names follow the
// persisted JSONL format.
type Question struct {
	ID           int     `json:"question_id"`
	SourceNumber string  `json:"source_document_number"` // numbering label from the dump, not guaranteed unique
	SourceName   string  `json:"source_name"`
	PageNumber   int     `json:"page_number"`
	Type         string  `json:"question_type"`
	Stem         string  `json:"stem"`
	Choices      Choices `json:"choices"`

	// Answer fields, each an optional letter list ("B" or "A,C").
	AuthoritativeAnswer string `json:"authoritative_answer"`
	CommunityAnswer     string `json:"community_answer"`
	AIAnswer            string `json:"ai_answer"`

	CommunityExplanation string `json:"community_explanation"`
	AIExplanation        string `json:"ai_explanation"`

	Images []string `json:"images"`

	// UserAnswer is owned by the quiz layer; the parser always leaves it null.
	UserAnswer *string `json:"user_answer"`
}

// Preview returns the stem shortened to at most max characters, cut on a
// word boundary, with an ellipsis when truncated.
func (q Question) Preview(max int) string {
	if max <= 0 || len(q.Stem) <= max {
		return q.Stem
	}
	cut := strings.LastIndex(q.Stem[:max], " ")
	if cut <= 0 {
		cut = max
	}
	return q.Stem[:cut] + "..."
}

// Choices is an ordered mapping from option letter to option text.
// Iteration and JSON key order follow the order options appeared in the
// document; setting an existing letter replaces its text in place.
type Choices struct {
	letters []string
	texts   map[string]string
}

// Set adds or replaces the text for a letter. A letter set twice keeps
// its original position (last write wins on the text).
func (c *Choices) Set(letter, text string) {
	if c.texts == nil {
		c.texts = make(map[string]string)
	}
	if _, ok := c.texts[letter]; !ok {
		c.letters = append(c.letters, letter)
	}
	c.texts[letter] = text
}

// Get returns the text for a letter.
func (c Choices) Get(letter string) (string, bool) {
	text, ok := c.texts[letter]
	return text, ok
}

// Letters returns the option letters in document order.
func (c Choices) Letters() []string {
	out := make([]string, len(c.letters))
	copy(out, c.letters)
	return out
}

// Len returns the number of options.
func (c Choices) Len() int { return len(c.letters) }

// Equal reports whether two choice sets have the same letters in the
// same order with the same texts.
func (c Choices) Equal(other Choices) bool {
	if len(c.letters) != len(other.letters) {
		return false
	}
	for i, letter := range c.letters {
		if other.letters[i] != letter {
			return false
		}
		if c.texts[letter] != other.texts[letter] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the choices as a JSON object with keys in
// document order.
func (c Choices) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, letter := range c.letters {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(letter)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(c.texts[letter])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving its key order.
func (c *Choices) UnmarshalJSON(data []byte) error {
	*c = Choices{}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil { // JSON null
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("choices: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("choices: expected string key, got %v", keyTok)
		}
		var text string
		if err := dec.Decode(&text); err != nil {
			return fmt.Errorf("choices: value for %q: %w", key, err)
		}
		c.Set(key, text)
	}

	_, err = dec.Token() // closing brace
	return err
}
