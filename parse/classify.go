package parse

import "strings"

// multiCues in a stem signal that several answers are expected.
var multiCues = []string{
	"select two", "select three", "choose two", "choose three",
	"select all that apply", "choose all that apply", "select all",
	"pick two", "pick three", "two correct", "three correct",
	"each correct selection", "multiple answers",
}

// dragCues signal drag/ordering/hotspot interactions, which collapse to
// free-text entry once flattened to plain text.
var dragCues = []string{
	"drag", "drop", "match", "order", "arrange", "sequence", "hotspot", "hot area",
}

// inputCues signal a free-text answer.
var inputCues = []string{
	"your answer", "_____", "fill in", "type the", "enter the",
}

// classify assigns a question type. Rules are checked in order and the
// first one that applies wins:
//
//  1. exactly two options whose combined text mentions yes and no
//  2. multi-select cue in the stem
//  3. drag/ordering/hotspot cue in the stem
//  4. free-text cue in the stem, or no options at all
//  5. an image with at most two options
//  6. single choice otherwise
func classify(stem string, choices Choices, hasImage bool) string {
	stemLower := strings.ToLower(stem)

	if choices.Len() == 2 {
		var texts []string
		for _, letter := range choices.Letters() {
			text, _ := choices.Get(letter)
			texts = append(texts, text)
		}
		joined := strings.ToLower(strings.Join(texts, " "))
		if strings.Contains(joined, "yes") && strings.Contains(joined, "no") {
			return TypeYesNo
		}
	}

	if containsAny(stemLower, multiCues) {
		return TypeMultipleChoice
	}
	if containsAny(stemLower, dragCues) {
		return TypeInputText
	}
	if containsAny(stemLower, inputCues) || choices.Len() == 0 {
		return TypeInputText
	}
	if hasImage && choices.Len() <= 2 {
		return TypeImageSelection
	}
	return TypeSingleChoice
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
