package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// buildPDF writes a minimal PDF with one page per entry. Each page shows its
// lines top to bottom in Helvetica; a nil entry makes a page without content.
func buildPDF(t *testing.T, pages ...[]string) []byte {
	t.Helper()

	var objs []string
	add := func(body string) int {
		objs = append(objs, body)
		return len(objs)
	}

	catalog := add("") // filled in once the page tree exists
	tree := add("")
	font := add("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	var kids []string
	for _, lines := range pages {
		page := fmt.Sprintf("<< /Type /Page /Parent %d 0 R /MediaBox [0 0 300 400] /Resources << /Font << /F1 %d 0 R >> >>", tree, font)
		if lines != nil {
			var content strings.Builder
			content.WriteString("BT /F1 12 Tf\n")
			for i, l := range lines {
				fmt.Fprintf(&content, "1 0 0 1 20 %d Tm (%s) Tj\n", 360-20*i, l)
			}
			content.WriteString("ET")
			stream := add(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()))
			page += fmt.Sprintf(" /Contents %d 0 R", stream)
		}
		kids = append(kids, fmt.Sprintf("%d 0 R", add(page+" >>")))
	}
	objs[catalog-1] = fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", tree)
	objs[tree-1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(kids))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, body := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, catalog, xref)
	return buf.Bytes()
}

func TestPDFText_JoinsAllPages(t *testing.T) {
	data := buildPDF(t,
		[]string{"CORNER MARKET", "Banana 1.99"},
		[]string{"Milk 3.49", "TOTAL 5.48"},
	)
	text, err := pdfText(data)
	if err != nil {
		t.Fatalf("pdfText: %v", err)
	}
	for _, want := range []string{"CORNER MARKET", "Banana 1.99", "Milk 3.49", "TOTAL 5.48"} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q:\n%s", want, text)
		}
	}
	if strings.Index(text, "Banana") > strings.Index(text, "Milk") {
		t.Errorf("pages out of order:\n%s", text)
	}
}

func TestPDFText_SkipsEmptyPages(t *testing.T) {
	text, err := pdfText(buildPDF(t, nil, []string{"Milk 3.49"}))
	if err != nil {
		t.Fatalf("pdfText: %v", err)
	}
	if !strings.Contains(text, "Milk 3.49") {
		t.Errorf("text = %q", text)
	}
}

func TestPDFText_NoText(t *testing.T) {
	if _, err := pdfText(buildPDF(t, nil)); !errors.Is(err, ErrNoText) {
		t.Errorf("err = %v, want ErrNoText", err)
	}
}
