package parse

import (
	"regexp"
	"strings"

	"examtrainer/extract"
)

// choiceStart matches the first lettered-option line, which divides the
// stem region from the choices region.
var choiceStart = regexp.MustCompile(`(?m)^([A-Z])[.)]\s+`)

// pageStampPattern matches residual "(3 of 5)" page counters that leak
// into stems, choices and explanations.
var pageStampPattern = regexp.MustCompile(`(?i)\(?\d+\s+of\s+\d+\)`)

// answerMarkers open the answer and commentary sections that follow a
// stem. The stem is cut at whichever appears first.
var answerMarkers = []string{
	"Suggested Answer:",
	"Discussion Summary",
	"AI Recommended Answer",
	"Web Recommended Answer",
	"Community Answer",
}

// splitStem divides a block into its stem region and its choices region.
// Without any option marker the whole block is stem and the choices
// region is empty.
func splitStem(text string) (stem, rest string) {
	loc := choiceStart.FindStringIndex(text)
	if loc == nil {
		return strings.TrimSpace(text), ""
	}
	return strings.TrimSpace(text[:loc[0]]), strings.TrimSpace(text[loc[0]:])
}

// cleanStem cuts the stem ahead of any answer section and strips the
// page furniture that survives extraction.
func cleanStem(stem string) string {
	cut := -1
	for _, marker := range answerMarkers {
		if idx := strings.Index(stem, marker); idx >= 0 && (cut < 0 || idx < cut) {
			cut = idx
		}
	}
	if cut >= 0 {
		stem = stem[:cut]
	}
	stem = extract.StripBoilerplate(stem)
	stem = pageStampPattern.ReplaceAllString(stem, "")
	return strings.TrimSpace(stem)
}
