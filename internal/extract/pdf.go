package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfText joins the text of every page that has any, falling back to the
// whole-document text when no page yields text on its own. The pdf library
// panics on some malformed input.
func pdfText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: pdf reader: %v", ErrCorruptFile, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptFile, err)
	}
	if r.NumPage() == 0 {
		return "", ErrNoText
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		if text := pageText(r, i); text != "" {
			pages = append(pages, text)
		}
	}
	if len(pages) > 0 {
		return strings.Join(pages, "\n\n"), nil
	}

	// Some documents only expose text through the reader-level stream.
	if rd, err := r.GetPlainText(); err == nil {
		if b, err := io.ReadAll(rd); err == nil {
			if text := strings.TrimSpace(string(b)); text != "" {
				return text, nil
			}
		}
	}
	return "", ErrNoText
}

func pageText(r *pdf.Reader, n int) string {
	page := r.Page(n)
	if page.V.IsNull() {
		return ""
	}

	rows, err := page.GetTextByRow()
	if err == nil && len(rows) > 0 {
		var lines []string
		for _, row := range rows {
			var words []string
			for _, w := range row.Content {
				words = append(words, w.S)
			}
			if line := strings.TrimSpace(strings.Join(words, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			return strings.Join(lines, "\n")
		}
	}

	fonts := make(map[string]*pdf.Font)
	for _, name := range page.Fonts() {
		f := page.Font(name)
		fonts[name] = &f
	}
	text, err := page.GetPlainText(fonts)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}
