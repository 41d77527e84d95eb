package extract

import (
	"regexp"
	"strings"
)

var (
	rePipes      = regexp.MustCompile(`[|]+`)
	reRules      = regexp.MustCompile(`[-_=]{2,}`)
	reBoxDrawing = regexp.MustCompile(`[│─┼┌┐└┘├┤┬┴╔╗╚╝═║]+`)
	reBlankLines = regexp.MustCompile(`\n\s*\n+`)
	reSpaces     = regexp.MustCompile(`[ \t\f\v]{2,}`)
	reQtyLine    = regexp.MustCompile(`^\d+(\.\d+)?\s*[@xX]\s*\d+(\.\d+)?`)
)

// CleanOCRText strips table glyphs and redundant whitespace from text pulled
// out of a PDF, and folds "2 @ 1.99" quantity lines into the item above.
func CleanOCRText(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = rePipes.ReplaceAllString(s, " ")
	s = reRules.ReplaceAllString(s, " ")
	s = reBoxDrawing.ReplaceAllString(s, " ")
	s = reBlankLines.ReplaceAllString(s, "\n")
	s = reSpaces.ReplaceAllString(s, " ")

	lines := strings.Split(strings.TrimSpace(s), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if reQtyLine.MatchString(line) && len(out) > 0 {
			out[len(out)-1] += " " + line
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
