package extract

import (
	"regexp"
	"strings"
)

// ---------------------------------------------------------------------------
// Boilerplate removal
// ---------------------------------------------------------------------------

// boilerplatePatterns match site branding and page furniture that the
// source PDFs repeat on every page. Removal is bounded to a single line
// so page-boundary markers on neighbouring lines always survive.
var boilerplatePatterns = []*regexp.Regexp{
	// Site URL stamped into the page footer
	regexp.MustCompile(`(?i)www\.examtopics\.com`),
	// "Page 12 of 305" footer counters
	regexp.MustCompile(`(?i)Page \d+ of \d+`),
	// "Exam AZ-104" running headers
	regexp.MustCompile(`(?i)Exam [A-Z]+-\d+`),
	// Certification banner lines
	regexp.MustCompile(`(?i)Microsoft Certified[^\n]*`),
	// "Question Bank ..." footer lines
	regexp.MustCompile(`(?i)Question Bank[^\n]*`),
	// Residual site-name fragments
	regexp.MustCompile(`(?i)ExamTopics[^\n]*`),
}

// StripBoilerplate removes the repeating site branding from text. It is
// applied document-wide by Normalize and again to individual fragments
// during parsing, so it must be safe to run more than once.
func StripBoilerplate(text string) string {
	for _, p := range boilerplatePatterns {
		text = p.ReplaceAllString(text, "")
	}
	return text
}

// ---------------------------------------------------------------------------
// Document normalization
// ---------------------------------------------------------------------------

var (
	// Anything outside printable ASCII and basic whitespace. The source
	// PDFs leak box-drawing glyphs and control characters into the text
	// layer.
	nonPrintablePattern = regexp.MustCompile(`[^\x20-\x7E\n\r\t]`)
	// Markdown-style emphasis runs left behind by the text extraction
	boldPattern      = regexp.MustCompile(`\*\*+`)
	underlinePattern = regexp.MustCompile(`__+`)

	// Whitespace collapse, applied in order
	blankRunPattern      = regexp.MustCompile(`\n\s*\n\s*\n+`)
	multiSpacePattern    = regexp.MustCompile(` +`)
	leadingSpacePattern  = regexp.MustCompile(`\n +`)
	trailingSpacePattern = regexp.MustCompile(` +\n`)
)

// Normalize cleans raw extracted text for parsing: site boilerplate,
// non-printable characters, emphasis markers and case-study preambles
// are removed, then whitespace is collapsed. Page-boundary markers are
// never touched, and running Normalize on its own output returns the
// output unchanged.
func Normalize(text string) string {
	text = StripBoilerplate(text)
	text = nonPrintablePattern.ReplaceAllString(text, "")
	text = boldPattern.ReplaceAllString(text, "")
	text = underlinePattern.ReplaceAllString(text, "")
	text = stripCaseStudyBlocks(text)
	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	text = multiSpacePattern.ReplaceAllString(text, " ")
	text = leadingSpacePattern.ReplaceAllString(text, "\n")
	text = trailingSpacePattern.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

// ---------------------------------------------------------------------------
// Case-study blocks
// ---------------------------------------------------------------------------

// caseStudyCues open a scenario preamble that runs until the next blank
// line. The dumps embed these between questions and they carry no
// answerable content.
var caseStudyCues = []string{
	"hotspot",
	"case study",
	"overview",
	"existing environment",
}

// caseStudyIntro opens a long-form preamble that runs until the next
// question boundary rather than the next blank line.
const caseStudyIntro = "this is a case study."

// stripCaseStudyBlocks sweeps the text line by line, dropping scenario
// preambles. A cue truncates its own line and starts a skip; the skip
// ends at a blank line (or at the next question line for the long-form
// intro). Page-boundary markers are always kept and end any skip.
func stripCaseStudyBlocks(text string) string {
	const (
		skipNone = iota
		skipToBlank
		skipToQuestion
	)

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	skip := skipNone

	for _, line := range lines {
		if pageMarkerPattern.MatchString(line) {
			skip = skipNone
			out = append(out, line)
			continue
		}

		switch skip {
		case skipToBlank:
			if strings.TrimSpace(line) == "" {
				skip = skipNone
				out = append(out, line)
			}
			continue
		case skipToQuestion:
			if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "question") {
				skip = skipNone
				out = append(out, line)
			}
			continue
		}

		lower := strings.ToLower(line)

		// The long-form intro is checked first so its question-bounded
		// skip is not shadowed by the generic "case study" cue.
		if idx := strings.Index(lower, caseStudyIntro); idx >= 0 {
			if head := strings.TrimSpace(line[:idx]); head != "" {
				out = append(out, line[:idx])
			}
			skip = skipToQuestion
			continue
		}

		if idx := earliestCue(lower); idx >= 0 {
			if head := strings.TrimSpace(line[:idx]); head != "" {
				out = append(out, line[:idx])
			}
			skip = skipToBlank
			continue
		}

		out = append(out, line)
	}

	return strings.Join(out, "\n")
}

// earliestCue returns the lowest index of any case-study cue in the
// lowercased line, or -1.
func earliestCue(lower string) int {
	best := -1
	for _, cue := range caseStudyCues {
		if idx := strings.Index(lower, cue); idx >= 0 && (best < 0 || idx < best) {
			best = idx
		}
	}
	return best
}
