package parse

import (
	"regexp"
	"strings"

	"examtrainer/extract"
)

// questionBoundary matches a question-boundary line: "Question" at the
// start of a line, an optional number, end of line. The number is
// captured as the document's own numbering.
var questionBoundary = regexp.MustCompile(`(?m)^Question[ \t]*(\d*)[ \t]*\n`)

// block is one question's slice of the document text, with page markers
// already removed.
type block struct {
	label string // number printed after "Question", may be empty
	page  int    // page of the first marker inside the block, default 1
	text  string
}

// segment splits normalized document text into per-question blocks.
// Front matter before the first boundary is discarded, and blocks with
// no content are dropped entirely.
func segment(text string) []block {
	matches := questionBoundary.FindAllStringSubmatchIndex(text, -1)
	blocks := make([]block, 0, len(matches))

	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		body := text[m[1]:end]
		if strings.TrimSpace(body) == "" {
			continue
		}
		blocks = append(blocks, block{
			label: text[m[2]:m[3]],
			page:  extract.FirstPage(body),
			text:  strings.TrimSpace(extract.StripPageMarkers(body)),
		})
	}
	return blocks
}
