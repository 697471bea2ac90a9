package parse

import (
	"regexp"
	"strings"
	"unicode"

	"examtrainer/extract"
)

// Section labels printed in the dumps. "Suggested Answer" is the
// authoritative one; the web and community labels carry the same
// meaning under two spellings.
const (
	labelSuggested      = "Suggested Answer"
	labelWebRecommended = "Web Recommended Answer"
	labelCommunity      = "Community Answer"
	labelAIRecommended  = "AI Recommended Answer"
	labelDiscussion     = "Discussion Summary"
)

// answerPatterns holds the candidate patterns per answer label, tried
// in order: label with colon, then label with only whitespace. The gap
// after the label may wrap onto the next line, but the captured letter
// list itself never crosses one.
var answerPatterns = map[string][]*regexp.Regexp{}

// explanationLabels open the free-text sections. The colon is optional.
var explanationLabels = map[string]*regexp.Regexp{}

func init() {
	for _, label := range []string{labelSuggested, labelWebRecommended, labelCommunity, labelAIRecommended} {
		quoted := regexp.QuoteMeta(label)
		answerPatterns[label] = []*regexp.Regexp{
			regexp.MustCompile(`(?i)` + quoted + `[ \t]*:\s*([A-Za-z][A-Za-z, \t]*)`),
			regexp.MustCompile(`(?i)` + quoted + `\s+([A-Za-z][A-Za-z, \t]*)`),
		}
	}
	for _, label := range []string{labelDiscussion, labelAIRecommended} {
		explanationLabels[label] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `\s*:?\s*`)
	}
}

// extractAnswer pulls the letter list following an answer label, such
// as "B" or "A, C". An absent label yields "".
func extractAnswer(text, label string) string {
	for _, p := range answerPatterns[label] {
		if m := p.FindStringSubmatch(text); m != nil {
			if answer := cleanAnswer(m[1]); answer != "" {
				return answer
			}
		}
	}
	return ""
}

// cleanAnswer reduces a captured answer run to its letters and commas,
// case preserved. A "Discussion" section caught by the capture is cut
// off first.
func cleanAnswer(raw string) string {
	if idx := strings.Index(strings.ToLower(raw), "discussion"); idx >= 0 {
		raw = raw[:idx]
	}
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsLetter(r) || r == ',' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// explanationTerminator marks where a captured explanation ends: the
// next recognized section or question boundary on a fresh line. Without
// one the explanation runs to the end of the block.
var explanationTerminator = regexp.MustCompile(`(?i)\n(?:Suggested Answer|Web Recommended|Community Answer|AI Recommended|Question \d+)`)

// extractExplanation pulls the free text following an explanation
// label, collapsed to a single line. An absent label yields "".
func extractExplanation(text, label string) string {
	loc := explanationLabels[label].FindStringIndex(text)
	if loc == nil {
		return ""
	}
	body := text[loc[1]:]
	if t := explanationTerminator.FindStringIndex(body); t != nil {
		body = body[:t[0]]
	}
	body = whitespaceRun.ReplaceAllString(strings.TrimSpace(body), " ")
	body = extract.StripBoilerplate(body)
	body = pageStampPattern.ReplaceAllString(body, "")
	return strings.TrimSpace(body)
}
