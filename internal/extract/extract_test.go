package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/theirongolddev/moneymate/internal/model"
)

// fakeCompleter records requests and answers with a canned JSON document.
type fakeCompleter struct {
	answer string
	err    error
	calls  int
	last   []openai.ChatCompletionMessage
	schema *jsonschema.Definition
}

func (f *fakeCompleter) CompleteJSON(_ context.Context, msgs []openai.ChatCompletionMessage, _ string, schema *jsonschema.Definition, out any) error {
	f.calls++
	f.last = msgs
	f.schema = schema
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.answer), out)
}

const walmartAnswer = `{"company":"Walmart","date":"2024-01-15","items":[
	{"name":"Banana","price":1.99,"category":"food"},
	{"name":"Gas","price":45.00,"category":"transportation"}]}`

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestClassify(t *testing.T) {
	for _, name := range []string{"a.jpg", "b.JPEG", "c.png", "d.PDF"} {
		if _, err := Classify(name); err != nil {
			t.Errorf("Classify(%q) = %v", name, err)
		}
	}
	for _, name := range []string{"a.gif", "b.txt", "noext"} {
		ft, err := Classify(name)
		if !errors.Is(err, ErrUnsupportedFileType) {
			t.Errorf("Classify(%q) err = %v, want ErrUnsupportedFileType", name, err)
		}
		if ft != model.FileTypeOther {
			t.Errorf("Classify(%q) type = %q, want other", name, ft)
		}
	}
}

func TestExtract_UnsupportedMakesNoCall(t *testing.T) {
	fc := &fakeCompleter{answer: walmartAnswer}
	e := NewLLMExtractor(fc, zerolog.Nop())
	_, err := e.Extract(context.Background(), Upload{Filename: "notes.txt", Data: []byte("hi")})
	if !errors.Is(err, ErrUnsupportedFileType) {
		t.Fatalf("err = %v, want ErrUnsupportedFileType", err)
	}
	if fc.calls != 0 {
		t.Errorf("completer called %d times, want 0", fc.calls)
	}
}

func TestExtract_Image(t *testing.T) {
	fc := &fakeCompleter{answer: walmartAnswer}
	e := NewLLMExtractor(fc, zerolog.Nop())

	r, err := e.Extract(context.Background(), Upload{Filename: "walmart.png", Data: pngBytes(t)})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if r.Company != "Walmart" || r.Date.String() != "2024-01-15" || len(r.Items) != 2 {
		t.Fatalf("receipt = %+v", r)
	}
	if r.Items[1].Category != model.Transportation {
		t.Errorf("Gas category = %v", r.Items[1].Category)
	}

	parts := fc.last[0].MultiContent
	if len(parts) != 2 || parts[1].ImageURL == nil {
		t.Fatalf("message parts = %+v", parts)
	}
	if !strings.HasPrefix(parts[1].ImageURL.URL, "data:image/png;base64,") {
		t.Errorf("image url prefix = %.40s", parts[1].ImageURL.URL)
	}
	if fc.schema == nil || len(fc.schema.Required) != 3 {
		t.Errorf("schema not sent: %+v", fc.schema)
	}
}

func TestExtract_CorruptImage(t *testing.T) {
	fc := &fakeCompleter{answer: walmartAnswer}
	e := NewLLMExtractor(fc, zerolog.Nop())
	_, err := e.Extract(context.Background(), Upload{Filename: "r.jpg", Data: []byte("definitely not a jpeg")})
	if !errors.Is(err, ErrCorruptFile) {
		t.Errorf("err = %v, want ErrCorruptFile", err)
	}
	if fc.calls != 0 {
		t.Errorf("completer called for corrupt image")
	}
}

func TestExtract_CorruptPDF(t *testing.T) {
	fc := &fakeCompleter{answer: walmartAnswer}
	e := NewLLMExtractor(fc, zerolog.Nop())
	_, err := e.Extract(context.Background(), Upload{Filename: "r.pdf", Data: []byte("%PDF-1.4 truncated")})
	if !errors.Is(err, ErrCorruptFile) && !errors.Is(err, ErrNoText) {
		t.Errorf("err = %v, want ErrCorruptFile or ErrNoText", err)
	}
	if fc.calls != 0 {
		t.Errorf("completer called for unreadable pdf")
	}
}

func TestExtract_ModelFailure(t *testing.T) {
	cause := errors.New("connection reset")
	e := NewLLMExtractor(&fakeCompleter{err: cause}, zerolog.Nop())
	_, err := e.Extract(context.Background(), Upload{Filename: "r.png", Data: pngBytes(t)})
	if !errors.Is(err, ErrExtraction) || !errors.Is(err, cause) {
		t.Errorf("err = %v, want ErrExtraction wrapping cause", err)
	}
}

func TestExtract_InvalidAnswers(t *testing.T) {
	tests := []struct {
		name   string
		answer string
	}{
		{"bad date", `{"company":"A","date":"15/01/2024","items":[]}`},
		{"impossible date", `{"company":"A","date":"2024-02-30","items":[]}`},
		{"blank company", `{"company":"  ","date":"2024-01-15","items":[]}`},
		{"negative price", `{"company":"A","date":"2024-01-15","items":[{"name":"x","price":-1,"category":"food"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewLLMExtractor(&fakeCompleter{answer: tt.answer}, zerolog.Nop())
			_, err := e.Extract(context.Background(), Upload{Filename: "r.png", Data: pngBytes(t)})
			if !errors.Is(err, ErrInvalidReceipt) {
				t.Errorf("err = %v, want ErrInvalidReceipt", err)
			}
		})
	}
}

func TestExtract_UnknownCategoryBecomesOther(t *testing.T) {
	answer := `{"company":"A","date":"2024-01-15","items":[{"name":"Pills","price":4.5,"category":"pharmacy"}]}`
	e := NewLLMExtractor(&fakeCompleter{answer: answer}, zerolog.Nop())
	r, err := e.Extract(context.Background(), Upload{Filename: "r.png", Data: pngBytes(t)})
	if err != nil {
		t.Fatal(err)
	}
	if r.Items[0].Category != model.Other {
		t.Errorf("category = %v, want other", r.Items[0].Category)
	}
}

func TestCleanOCRText(t *testing.T) {
	raw := "WALMART   SUPERCENTER\r\n\n\n| Banana |  1.99 |\n2 @ 0.99\n=========\n│ Gas │ 45.00 │\n\n"
	got := CleanOCRText(raw)
	want := "WALMART SUPERCENTER\nBanana 1.99 2 @ 0.99\nGas 45.00"
	if got != want {
		t.Errorf("CleanOCRText =\n%q\nwant\n%q", got, want)
	}
}
