package extract

import (
	"regexp"
	"strconv"
)

// imageNamePattern pulls the page number out of a saved image filename,
// accepting any kind token (img, thumb, ...).
var imageNamePattern = regexp.MustCompile(`_page(\d+)_[a-z]+\d+\.`)

// MapImagesToPages groups saved image filenames by the page number
// embedded in each name, preserving extraction order within a page.
// Names that do not carry a page token are left out.
func MapImagesToPages(images []string) map[int][]string {
	byPage := make(map[int][]string)
	for _, name := range images {
		m := imageNamePattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		page, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		byPage[page] = append(byPage[page], name)
	}
	return byPage
}
