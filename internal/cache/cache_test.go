package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/moneymate/internal/model"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "sub", FileName))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRecordLookup(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	if _, ok, err := c.Lookup(ctx, "abc"); err != nil || ok {
		t.Fatalf("Lookup on empty cache = %v, %v", ok, err)
	}

	stored, err := c.Record(ctx, Scan{
		SHA256:      "abc",
		Filename:    "walmart.jpg",
		FileType:    model.FileTypeJPG,
		Company:     "Walmart",
		ReceiptDate: model.MustDate("2024-01-15"),
		ItemCount:   2,
		Total:       decimal.RequireFromString("46.99"),
		Model:       "gpt-4o-mini",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if stored.ID == "" || stored.ScannedAt.IsZero() {
		t.Errorf("Record did not fill ID/ScannedAt: %+v", stored)
	}

	got, ok, err := c.Lookup(ctx, "abc")
	if err != nil || !ok {
		t.Fatalf("Lookup = %v, %v", ok, err)
	}
	if got.ID != stored.ID || got.Company != "Walmart" || got.FileType != model.FileTypeJPG {
		t.Errorf("Lookup = %+v", got)
	}
	if !got.Total.Equal(decimal.RequireFromString("46.99")) {
		t.Errorf("Total = %s", got.Total)
	}
	if got.ReceiptDate.String() != "2024-01-15" {
		t.Errorf("ReceiptDate = %s", got.ReceiptDate)
	}
}

func TestRecentAndCount(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, name := range []string{"a.png", "b.png", "c.png"} {
		_, err := c.Record(ctx, Scan{
			SHA256:      name,
			Filename:    name,
			FileType:    model.FileTypePNG,
			Company:     "Shop",
			ReceiptDate: model.MustDate("2024-03-01"),
			Total:       decimal.NewFromInt(int64(i)),
			ScannedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Count(ctx)
	if err != nil || n != 3 {
		t.Fatalf("Count = %d, %v", n, err)
	}

	recent, err := c.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 || recent[0].Filename != "c.png" || recent[1].Filename != "b.png" {
		t.Errorf("Recent = %+v", recent)
	}

	all, err := c.Recent(ctx, 0)
	if err != nil || len(all) != 3 {
		t.Errorf("Recent(0) = %d, %v", len(all), err)
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	c, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Record(context.Background(), Scan{SHA256: "h", Filename: "x.pdf", FileType: model.FileTypePDF, Company: "C", ReceiptDate: model.MustDate("2024-01-01")}); err != nil {
		t.Fatal(err)
	}
	_ = c.Close()

	c2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = c2.Close() }()
	if _, ok, _ := c2.Lookup(context.Background(), "h"); !ok {
		t.Error("scan lost after reopen")
	}
}
