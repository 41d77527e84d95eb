package extract

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/moneymate/internal/llm"
	"github.com/theirongolddev/moneymate/internal/model"
)

// Completer is the subset of llm.Client the extractor needs.
type Completer interface {
	CompleteJSON(ctx context.Context, messages []openai.ChatCompletionMessage, name string, schema *jsonschema.Definition, out any) error
}

// LLMExtractor sends receipts to a vision-capable chat model.
type LLMExtractor struct {
	llm Completer
	log zerolog.Logger
}

// NewLLMExtractor creates an extractor backed by c.
func NewLLMExtractor(c Completer, log zerolog.Logger) *LLMExtractor {
	return &LLMExtractor{llm: c, log: log}
}

type wireItem struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

type wireReceipt struct {
	Company string     `json:"company"`
	Date    string     `json:"date"`
	Items   []wireItem `json:"items"`
}

// Extract classifies the upload, builds the request for its type and
// converts the model's answer into a validated Receipt.
func (e *LLMExtractor) Extract(ctx context.Context, up Upload) (model.Receipt, error) {
	ft, err := Classify(up.Filename)
	if err != nil {
		return model.Receipt{}, err
	}

	var msg openai.ChatCompletionMessage
	switch {
	case ft.IsImage():
		url, err := imageDataURL(up.Data)
		if err != nil {
			return model.Receipt{}, err
		}
		msg = llm.ImageMessage(receiptPrompt, url)
	case ft == model.FileTypePDF:
		text, err := pdfText(up.Data)
		if err != nil {
			return model.Receipt{}, err
		}
		msg = openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: receiptPrompt + "\n\nReceipt text:\n" + CleanOCRText(text),
		}
	}

	e.log.Debug().Str("file", up.Filename).Str("type", string(ft)).Int("bytes", len(up.Data)).Msg("extracting receipt")

	var w wireReceipt
	if err := e.llm.CompleteJSON(ctx, []openai.ChatCompletionMessage{msg}, schemaName, receiptSchema(), &w); err != nil {
		return model.Receipt{}, fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	return e.toReceipt(up.Filename, w)
}

func (e *LLMExtractor) toReceipt(filename string, w wireReceipt) (model.Receipt, error) {
	date, err := model.ParseDate(strings.TrimSpace(w.Date))
	if err != nil {
		return model.Receipt{}, fmt.Errorf("%w: %w", ErrInvalidReceipt, err)
	}

	r := model.Receipt{
		Company: strings.TrimSpace(w.Company),
		Date:    date,
		Items:   make([]model.Item, 0, len(w.Items)),
	}
	for _, wi := range w.Items {
		cat := model.NormalizeCategory(wi.Category)
		if cat == model.Other && !strings.EqualFold(strings.TrimSpace(wi.Category), model.Other.String()) {
			e.log.Warn().Str("file", filename).Str("item", wi.Name).Str("category", wi.Category).Msg("unknown category, using other")
		}
		r.Items = append(r.Items, model.Item{
			Name:     strings.TrimSpace(wi.Name),
			Price:    wi.Price,
			Category: cat,
		})
	}

	if err := r.Validate(); err != nil {
		return model.Receipt{}, fmt.Errorf("%w: %w", ErrInvalidReceipt, err)
	}
	return r, nil
}

// imageDataURL checks that data decodes as an image and returns it as a
// base64 data URL with the detected media type.
func imageDataURL(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return "", fmt.Errorf("%w: not a jpeg or png image", ErrCorruptFile)
		}
		return "", fmt.Errorf("%w: %v", ErrCorruptFile, err)
	}

	mime := "image/" + format
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
