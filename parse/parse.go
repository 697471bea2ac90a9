// Package parse reconstructs structured question records from the
// normalized text of a certification-dump document. The text is
// segmented at question boundaries, each block is divided into stem and
// lettered options, and the answer and commentary sections are read
// into their own fields.
package parse

import "strconv"

// Parse turns one document's normalized text into question records.
// Ids are assigned sequentially from 1 in reading order; blocks with no
// content are skipped without consuming an id. The images for a
// question are whatever the mapper attributed to its page.
func Parse(text, sourceName string, imagesByPage map[int][]string) []Question {
	blocks := segment(text)
	questions := make([]Question, 0, len(blocks))

	for _, b := range blocks {
		id := len(questions) + 1

		stem, rest := splitStem(b.text)
		stem = cleanStem(stem)
		choices := extractChoices(rest)

		images := imagesByPage[b.page]
		if images == nil {
			images = []string{}
		}

		community := extractAnswer(b.text, labelWebRecommended)
		if community == "" {
			community = extractAnswer(b.text, labelCommunity)
		}

		sourceNumber := b.label
		if sourceNumber == "" {
			sourceNumber = strconv.Itoa(id)
		}

		questions = append(questions, Question{
			ID:                   id,
			SourceNumber:         sourceNumber,
			SourceName:           sourceName,
			PageNumber:           b.page,
			Type:                 classify(stem, choices, len(images) > 0),
			Stem:                 stem,
			Choices:              choices,
			AuthoritativeAnswer:  extractAnswer(b.text, labelSuggested),
			CommunityAnswer:      community,
			AIAnswer:             extractAnswer(b.text, labelAIRecommended),
			CommunityExplanation: extractExplanation(b.text, labelDiscussion),
			AIExplanation:        extractExplanation(b.text, labelAIRecommended),
			Images:               images,
		})
	}
	return questions
}
