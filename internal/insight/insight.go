// Package insight produces a short natural-language comment on spending totals.
package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/moneymate/internal/model"
)

// ErrNoData is returned when there is nothing to comment on.
var ErrNoData = errors.New("no spending data in range")

// Request carries the aggregates an insight is based on.
type Request struct {
	Range      model.DateRange
	Categories []model.KeyTotal
	Companies  []model.KeyTotal
	Total      decimal.Decimal
}

// Empty reports whether the request has no spending to describe.
func (r Request) Empty() bool {
	return len(r.Categories) == 0 && len(r.Companies) == 0
}

// Generator writes an insight for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Completer is the subset of llm.Client used here.
type Completer interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error)
}

// LLMGenerator asks a chat model for the insight.
type LLMGenerator struct {
	llm Completer
}

// NewLLMGenerator creates a generator backed by c.
func NewLLMGenerator(c Completer) *LLMGenerator {
	return &LLMGenerator{llm: c}
}

const systemPrompt = `You are a personal finance assistant. Given a summary of someone's spending, write two or three short sentences: where most money went, anything notable, and one practical suggestion. Use plain text, no markdown, no headings. Amounts are in the user's local currency; do not name a currency.`

// Generate returns ErrNoData without calling the model when req is empty.
func (g *LLMGenerator) Generate(ctx context.Context, req Request) (string, error) {
	if req.Empty() {
		return "", ErrNoData
	}
	text, err := g.llm.Complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(req)},
	})
	if err != nil {
		return "", fmt.Errorf("generating insight: %w", err)
	}
	return text, nil
}

// BuildPrompt renders the aggregates as compact plain text.
func BuildPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Period: %s\n", req.Range)
	fmt.Fprintf(&b, "Total spent: %s\n", req.Total.StringFixed(2))

	writeRows(&b, "Spending by category", req.Categories)
	writeRows(&b, "Top vendors", req.Companies)
	return b.String()
}

func writeRows(b *strings.Builder, title string, rows []model.KeyTotal) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, r := range rows {
		fmt.Fprintf(b, "- %s: %s (%.1f%%)\n", r.Key, r.Total.StringFixed(2), r.Share)
	}
}
