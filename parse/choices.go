package parse

import (
	"regexp"
	"strings"

	"examtrainer/extract"
)

// ---------------------------------------------------------------------------
// Option spans
// ---------------------------------------------------------------------------

// optionMarker matches a lettered-option marker at the start of a line.
var optionMarker = regexp.MustCompile(`(?m)^([A-Z])[.)][ \t]*`)

// choiceTerminator ends an option span early when an answer or
// commentary section begins before the next marker. Matching is
// case-sensitive: these are printed section literals, and a lowercase
// "discussion" inside an option is content.
var choiceTerminator = regexp.MustCompile(`Microsoft Certified|Suggested Answer|Discussion|Hot Area|Note:|HOTSPOT`)

// extractChoices pulls the lettered options out of a choices region.
// Each span runs from its marker to the next one, capped at the first
// section terminator. A duplicate letter keeps its position and takes
// the later text.
func extractChoices(text string) Choices {
	var choices Choices
	marks := optionMarker.FindAllStringSubmatchIndex(text, -1)

	for i, m := range marks {
		end := len(text)
		if i+1 < len(marks) {
			end = marks[i+1][0]
		}
		span := text[m[1]:end]
		if t := choiceTerminator.FindStringIndex(span); t != nil {
			span = span[:t[0]]
		}
		span = strings.TrimSpace(span)
		if span == "" {
			continue
		}
		choices.Set(text[m[2]:m[3]], cleanChoice(span))
	}
	return choices
}

// ---------------------------------------------------------------------------
// Option cleaning
// ---------------------------------------------------------------------------

// onsetRule is one explanation-onset strategy: a named pattern whose
// match truncates an option at the explanation's first character. The
// earliest match across all rules wins; list order settles ties.
type onsetRule struct {
	name    string
	pattern *regexp.Regexp
}

var onsetRules = []onsetRule{
	// Community-commentary phrases
	{"community-lead", regexp.MustCompile(`(?i)^The\s+(?:majority|comments|community)`)},
	{"community-mid", regexp.MustCompile(`(?i)\s+The\s+(?:majority|comments|community)`)},
	// Transition words that open a justification
	{"transition-word", regexp.MustCompile(`(?i)\s+(?:because|since|as|therefore|however|although|while|when|where|if)\s+`)},
	{"action-word", regexp.MustCompile(`(?i)\s+(?:agree|recommends?|suggests?|explains?|indicates?|shows?|demonstrates?)\s+`)},
	// Colon-introduced clauses
	{"colon-clause", regexp.MustCompile(`:\s*.`)},
	// A new sentence that reads as commentary
	{"sentence-start", regexp.MustCompile(`(?i)\.\s+(?:This|It|However|Therefore|Also|While|Although|The|Since|Because|As|If|When|Where)\s+`)},
	// Dash asides and reference phrases
	{"dash-aside", regexp.MustCompile(`\s+-\s+`)},
	{"citations", regexp.MustCompile(`(?i)\.\s+Citations`)},
	{"refer-to", regexp.MustCompile(`(?i)\.\s+Refer\s+to`)},
	{"see-reference", regexp.MustCompile(`(?i)\.\s+See\s+`)},
	{"for-more", regexp.MustCompile(`(?i)\.\s+For\s+more`)},
	// Phrases the commentary sections of the dumps lead with
	{"ai-recommended", regexp.MustCompile(`(?i)\s+AI\s+Recommended`)},
	{"several-users", regexp.MustCompile(`(?i)\s+Several\s+users`)},
	{"many-comments", regexp.MustCompile(`(?i)\s+Many\s+comments`)},
	{"furthermore", regexp.MustCompile(`(?i)\s+Furthermore`)},
	{"license-grant", regexp.MustCompile(`(?i)\s+receives?\s+the\s+license`)},
	{"inheritance", regexp.MustCompile(`(?i)\s+inherits?\s+the`)},
	// Verdict sentences appended after an option
	{"comments-verdict", regexp.MustCompile(`(?i)\.\s+The\s+comments?\s+(?:agree|recommends?|suggests?)`)},
	{"comments-verdict-mid", regexp.MustCompile(`(?i)\s+the\s+comments?\s+(?:agree|recommends?|suggests?)`)},
	{"license-through", regexp.MustCompile(`(?i)\s+receives?\s+the\s+license\s+through`)},
	{"no-inherit", regexp.MustCompile(`(?i)\s+does\s+not\s+inherit`)},
	{"incorrect-because", regexp.MustCompile(`(?i)\s+is\s+incorrect\s+because`)},
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	// Footer text glued onto the tail of an option after collapse
	trailingFooter = regexp.MustCompile(`(?i)\s*(?:Microsoft Certified|Question Bank|ExamTopics).*$`)
)

// explanationStarters mark after-colon text as commentary rather than
// option content.
var explanationStarters = []string{
	"this", "while", "although", "however", "because", "since",
	"the", "it", "management", "creating", "using", "modifying",
	"a ", "an ", "is ", "are ", "was ", "were ", "will ", "would ",
}

// cleanChoice strips the explanation commentary the dumps append to
// option text. When cleaning consumes the whole span the raw span is
// returned instead, so an option never comes out empty.
func cleanChoice(raw string) string {
	text := extract.StripBoilerplate(raw)
	text = pageStampPattern.ReplaceAllString(text, "")
	text = truncateAtOnset(text)
	text = stripColonExplanation(text)
	text = strings.TrimSpace(strings.TrimRight(text, ":"))
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = trailingFooter.ReplaceAllString(text, "")
	text = strings.TrimRight(text, ".")
	text = truncateLongChoice(text)
	text = strings.TrimSpace(text)
	if text == "" {
		return raw
	}
	return text
}

// truncateAtOnset cuts the text at the earliest explanation-onset
// match across all rules.
func truncateAtOnset(text string) string {
	cut := -1
	for _, rule := range onsetRules {
		if loc := rule.pattern.FindStringIndex(text); loc != nil && (cut < 0 || loc[0] < cut) {
			cut = loc[0]
		}
	}
	if cut < 0 {
		return text
	}
	return strings.TrimSpace(text[:cut])
}

// stripColonExplanation drops after-colon text that reads as an
// explanation: long tails, tails opening with an explanatory word, or
// any tail behind a non-trivial prefix. Short "A: B" forms survive.
func stripColonExplanation(text string) string {
	before, after, found := strings.Cut(text, ":")
	if !found {
		return text
	}
	before = strings.TrimSpace(before)
	after = strings.TrimSpace(after)

	if len(after) > 30 || startsWithAny(strings.ToLower(after), explanationStarters) ||
		(len(before) > 10 && len(after) > 0) {
		return before
	}
	return text
}

// truncateLongChoice keeps up to the first sentence when an option runs
// past 200 characters, which almost always means an uncut explanation.
func truncateLongChoice(text string) string {
	if len(text) <= 200 {
		return text
	}
	if idx := strings.Index(text, "."); idx > 20 {
		return text[:idx+1]
	}
	return text
}

func startsWithAny(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
