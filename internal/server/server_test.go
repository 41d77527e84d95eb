package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/moneymate/internal/extract"
	"github.com/theirongolddev/moneymate/internal/insight"
	"github.com/theirongolddev/moneymate/internal/model"
	"github.com/theirongolddev/moneymate/internal/pipeline"
	"github.com/theirongolddev/moneymate/internal/store"
)

type fakeExtractor struct{ err error }

func (f fakeExtractor) Extract(_ context.Context, up extract.Upload) (model.Receipt, error) {
	if f.err != nil {
		return model.Receipt{}, f.err
	}
	return model.Receipt{
		Company: "Walmart",
		Date:    model.MustDate("2024-01-15"),
		Items: []model.Item{
			{Name: "Banana", Price: decimal.RequireFromString("1.99"), Category: model.Food},
			{Name: "Gas", Price: decimal.RequireFromString("45.00"), Category: model.Transportation},
		},
	}, nil
}

type fakeInsight struct {
	text string
	err  error
}

func (f fakeInsight) Generate(_ context.Context, req insight.Request) (string, error) {
	if req.Empty() {
		return "", insight.ErrNoData
	}
	return f.text, f.err
}

func newTestService(t *testing.T, ex extract.Extractor) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	deps := Deps{
		Store:   st,
		Insight: fakeInsight{text: "Mostly fuel."},
		Logger:  zerolog.Nop(),
		Now:     func() time.Time { return time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC) },
	}
	if ex != nil {
		deps.Ingester = &pipeline.Ingester{Extractor: ex, Store: st, Logger: zerolog.Nop()}
	}
	return New(Config{}, deps), st
}

func upload(t *testing.T, app *fiber.App, filename string, data []byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write(data)
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/receipts", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func get(t *testing.T, app *fiber.App, target string) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp, body
}

func TestHealth(t *testing.T) {
	s, _ := newTestService(t, nil)
	resp, body := get(t, s.App(), "/healthz")
	if resp.StatusCode != fiber.StatusOK || string(body) != "ok\n" {
		t.Errorf("healthz = %d %q", resp.StatusCode, body)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing request id header")
	}
}

func TestUploadAndList(t *testing.T) {
	s, st := newTestService(t, fakeExtractor{})

	resp := upload(t, s.App(), "walmart.png", []byte("png-bytes"))
	if resp.StatusCode != fiber.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var ur UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		t.Fatal(err)
	}
	if ur.Receipt.Company != "Walmart" || ur.FileType != model.FileTypePNG {
		t.Errorf("upload response = %+v", ur)
	}
	if st.Len() != 1 {
		t.Errorf("store Len = %d", st.Len())
	}

	resp, body := get(t, s.App(), "/v1/receipts?from=2024-01-01&to=2024-01-31")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var list struct {
		Count    int             `json:"count"`
		Receipts []model.Receipt `json:"receipts"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatal(err)
	}
	if list.Count != 1 || list.Receipts[0].Items[1].Category != model.Transportation {
		t.Errorf("list = %+v", list)
	}

	_, body = get(t, s.App(), "/v1/receipts?from=2024-02-01")
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatal(err)
	}
	if list.Count != 0 {
		t.Errorf("filtered count = %d, want 0", list.Count)
	}

	_, body = get(t, s.App(), "/v1/events")
	var events []Event
	if err := json.Unmarshal(body, &events); err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Total != "46.99" || events[0].ID != 1 {
		t.Errorf("events = %+v", events)
	}
}

func TestUploadErrors(t *testing.T) {
	tests := []struct {
		name     string
		ex       extract.Extractor
		filename string
		want     int
	}{
		{"unsupported type", fakeExtractor{}, "notes.txt", fiber.StatusUnsupportedMediaType},
		{"extraction failure", fakeExtractor{err: extract.ErrExtraction}, "r.jpg", fiber.StatusBadGateway},
		{"corrupt file", fakeExtractor{err: extract.ErrCorruptFile}, "r.jpg", fiber.StatusUnprocessableEntity},
		{"scanning disabled", nil, "r.jpg", fiber.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, st := newTestService(t, tt.ex)
			resp := upload(t, s.App(), tt.filename, []byte("data"))
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
			if st.Len() != 0 {
				t.Errorf("store changed on error")
			}
		})
	}
}

func TestUploadStatusDuplicate(t *testing.T) {
	err := fmt.Errorf("ingest: %w", pipeline.ErrAlreadyScanned)
	if got := uploadStatus(err); got != fiber.StatusConflict {
		t.Errorf("uploadStatus = %d, want 409", got)
	}
}

func TestSummary(t *testing.T) {
	s, st := newTestService(t, nil)
	for _, r := range []model.Receipt{
		{Company: "Walmart", Date: model.MustDate("2024-01-15"), Items: []model.Item{{Name: "Gas", Price: decimal.RequireFromString("45"), Category: model.Transportation}}},
		{Company: "Deli", Date: model.MustDate("2024-01-16"), Items: []model.Item{{Name: "Bagel", Price: decimal.RequireFromString("5"), Category: model.Food}}},
	} {
		if err := st.Append(r); err != nil {
			t.Fatal(err)
		}
	}

	resp, body := get(t, s.App(), "/v1/summary?period=month&top=1")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var sr SummaryResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		t.Fatal(err)
	}
	if sr.Summary.Receipts != 2 || !sr.Summary.Total.Equal(decimal.NewFromInt(50)) {
		t.Errorf("summary = %+v", sr.Summary)
	}
	if len(sr.Companies) != 1 || sr.Companies[0].Key != "Walmart" {
		t.Errorf("companies = %+v", sr.Companies)
	}
	if len(sr.Categories) != 2 || len(sr.Daily) != 2 {
		t.Errorf("categories = %d, daily = %d", len(sr.Categories), len(sr.Daily))
	}

	resp, _ = get(t, s.App(), "/v1/summary?from=2024-02-01&to=2024-01-01")
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("inverted range status = %d, want 400", resp.StatusCode)
	}
}

func TestInsight(t *testing.T) {
	s, st := newTestService(t, nil)

	resp, _ := get(t, s.App(), "/v1/insight")
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("empty store status = %d, want 404", resp.StatusCode)
	}

	r := model.Receipt{Company: "Walmart", Date: model.MustDate("2024-01-15"), Items: []model.Item{{Name: "Gas", Price: decimal.RequireFromString("45"), Category: model.Transportation}}}
	if err := st.Append(r); err != nil {
		t.Fatal(err)
	}
	resp, body := get(t, s.App(), "/v1/insight")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	if out["insight"] != "Mostly fuel." {
		t.Errorf("insight = %v", out["insight"])
	}
}

func TestStatus(t *testing.T) {
	s, _ := newTestService(t, fakeExtractor{})
	_, body := get(t, s.App(), "/v1/status")
	var st Status
	if err := json.Unmarshal(body, &st); err != nil {
		t.Fatal(err)
	}
	if !st.CanScan || !st.CanInsight || st.Receipts != 0 || st.Scans != nil {
		t.Errorf("status = %+v", st)
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{EventsBuffer: 2}, Deps{Logger: zerolog.Nop()})
	for i := 0; i < 3; i++ {
		s.publishEvent(Event{Type: "receipt"})
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.events) != 2 || s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Errorf("events = %+v", s.events)
	}
}
