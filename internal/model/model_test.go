package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFileTypeFromFilename(t *testing.T) {
	tests := []struct {
		name string
		want FileType
	}{
		{"receipt.jpg", FileTypeJPG},
		{"receipt.JPEG", FileTypeJPG},
		{"scan.jpeg", FileTypeJPG},
		{"photo.PNG", FileTypePNG},
		{"statement.pdf", FileTypePDF},
		{"archive.tar.pdf", FileTypePDF},
		{"notes.txt", FileTypeOther},
		{"noext", FileTypeOther},
		{"image.gif", FileTypeOther},
		{"pdf", FileTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileTypeFromFilename(tt.name); got != tt.want {
				t.Errorf("FileTypeFromFilename(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestFileTypeSupported(t *testing.T) {
	for _, ft := range []FileType{FileTypeJPG, FileTypePNG, FileTypePDF} {
		if !ft.Supported() {
			t.Errorf("%q should be supported", ft)
		}
	}
	if FileTypeOther.Supported() {
		t.Error("other should not be supported")
	}
	if FileTypeJPG.MIMEType() != "image/jpeg" {
		t.Errorf("jpg MIME = %q", FileTypeJPG.MIMEType())
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range AllCategories() {
		got, err := ParseCategory(strings.ToUpper(c.String()))
		if err != nil {
			t.Fatalf("ParseCategory(%q): %v", c, err)
		}
		if got != c {
			t.Errorf("ParseCategory(%q) = %v, want %v", c, got, c)
		}
		if c.Label() == "Unknown" {
			t.Errorf("%v has no label", c)
		}
	}

	if _, err := ParseCategory("groceries"); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("ParseCategory(groceries) err = %v, want ErrUnknownCategory", err)
	}
	if got := NormalizeCategory("groceries"); got != Other {
		t.Errorf("NormalizeCategory(groceries) = %v, want other", got)
	}
	if got := NormalizeCategory(" Food "); got != Food {
		t.Errorf("NormalizeCategory(' Food ') = %v, want food", got)
	}
}

func TestCategoryJSON(t *testing.T) {
	var it Item
	err := json.Unmarshal([]byte(`{"name":"Bus","price":2.5,"category":"transportation"}`), &it)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if it.Category != Transportation {
		t.Errorf("Category = %v, want transportation", it.Category)
	}

	if err := json.Unmarshal([]byte(`{"name":"Bus","price":2.5,"category":"travel"}`), &it); err == nil {
		t.Error("expected error for unknown category")
	}

	if _, err := json.Marshal(Item{Name: "x", Price: decimal.NewFromInt(1)}); err == nil {
		t.Error("expected error marshalling zero category")
	}
}

func TestReceiptJSONShape(t *testing.T) {
	r := Receipt{
		Company: "Walmart",
		Date:    MustDate("2024-01-15"),
		Items: []Item{
			{Name: "Milk", Price: decimal.RequireFromString("3.49"), Category: Food},
		},
	}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"company":"Walmart","date":"2024-01-15","items":[{"name":"Milk","price":3.49,"category":"food"}]}`
	if string(data) != want {
		t.Errorf("json = %s\nwant  %s", data, want)
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2024-02-30"); err == nil {
		t.Error("expected error for 2024-02-30")
	}
	if _, err := ParseDate("15/01/2024"); err == nil {
		t.Error("expected error for non-ISO date")
	}
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("leap day: %v", err)
	}
	if d.String() != "2024-02-29" {
		t.Errorf("String() = %q", d.String())
	}
	if !MustDate("2024-01-01").Before(d) || !d.After(MustDate("2024-01-01")) {
		t.Error("ordering broken")
	}
}

func TestReceiptValidate(t *testing.T) {
	good := Receipt{
		Company: "Walmart",
		Date:    MustDate("2024-01-15"),
		Items:   []Item{{Name: "Milk", Price: decimal.RequireFromString("3.49"), Category: Food}},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid receipt: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Receipt)
		want   error
	}{
		{"blank company", func(r *Receipt) { r.Company = "  " }, ErrEmptyCompany},
		{"zero date", func(r *Receipt) { r.Date = Date{} }, ErrMissingDate},
		{"blank item", func(r *Receipt) { r.Items[0].Name = "" }, ErrEmptyItemName},
		{"negative price", func(r *Receipt) { r.Items[0].Price = decimal.NewFromInt(-1) }, ErrNegativePrice},
		{"zero category", func(r *Receipt) { r.Items[0].Category = 0 }, ErrUnknownCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := good
			r.Items = append([]Item(nil), good.Items...)
			tt.mutate(&r)
			if err := r.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReceiptTotal(t *testing.T) {
	r := Receipt{Items: []Item{
		{Name: "a", Price: decimal.RequireFromString("0.10"), Category: Food},
		{Name: "b", Price: decimal.RequireFromString("0.20"), Category: Food},
	}}
	if !r.Total().Equal(decimal.RequireFromString("0.30")) {
		t.Errorf("Total = %s, want 0.30", r.Total())
	}
}

func TestDateRangeContains(t *testing.T) {
	from, to := MustDate("2024-01-01"), MustDate("2024-01-31")
	r := DateRange{From: &from, To: &to}

	for _, s := range []string{"2024-01-01", "2024-01-15", "2024-01-31"} {
		if !r.Contains(MustDate(s)) {
			t.Errorf("%s should be inside", s)
		}
	}
	for _, s := range []string{"2023-12-31", "2024-02-01"} {
		if r.Contains(MustDate(s)) {
			t.Errorf("%s should be outside", s)
		}
	}
	if !(DateRange{}).Contains(MustDate("1999-01-01")) {
		t.Error("unbounded range should contain everything")
	}
	if r.Days() != 31 {
		t.Errorf("Days = %d, want 31", r.Days())
	}
}

func TestPresets(t *testing.T) {
	// Thursday
	now := time.Date(2024, time.February, 15, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		rng      DateRange
		from, to string
	}{
		{"today", Today(now), "2024-02-15", "2024-02-15"},
		{"week", ThisWeek(now), "2024-02-12", "2024-02-15"},
		{"month", ThisMonth(now), "2024-02-01", "2024-02-29"},
		{"year", ThisYear(now), "2024-01-01", "2024-12-31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.rng.From.String() != tt.from || tt.rng.To.String() != tt.to {
				t.Errorf("got %s..%s, want %s..%s", tt.rng.From, tt.rng.To, tt.from, tt.to)
			}
		})
	}

	sunday := time.Date(2024, time.February, 18, 9, 0, 0, 0, time.UTC)
	if w := ThisWeek(sunday); w.From.String() != "2024-02-12" {
		t.Errorf("week from Sunday starts %s, want 2024-02-12", w.From)
	}
}

func TestRangeForPeriod(t *testing.T) {
	now := time.Date(2024, time.December, 3, 0, 0, 0, 0, time.UTC)
	r, err := RangeForPeriod("all", now)
	if err != nil || !r.Unbounded() {
		t.Errorf("all = %v, %v", r, err)
	}
	r, err = RangeForPeriod("month", now)
	if err != nil || r.To.String() != "2024-12-31" {
		t.Errorf("month = %v, %v", r, err)
	}
	if _, err := RangeForPeriod("fortnight", now); err == nil {
		t.Error("expected error for unknown period")
	}
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange("2024-01-01", "")
	if err != nil {
		t.Fatal(err)
	}
	if r.From == nil || r.To != nil {
		t.Errorf("ParseRange open end = %+v", r)
	}
	if _, err := ParseRange("2024-02-01", "2024-01-01"); err == nil {
		t.Error("expected error for inverted range")
	}
}

func TestDateRangePrevious(t *testing.T) {
	rng := func(from, to string) DateRange { return bounded(MustDate(from), MustDate(to)) }

	tests := []struct {
		name     string
		in       DateRange
		from, to string
	}{
		{"month after 31 days", rng("2024-10-01", "2024-10-31"), "2024-09-01", "2024-09-30"},
		{"month after 30 days", rng("2024-09-01", "2024-09-30"), "2024-08-01", "2024-08-31"},
		{"march to leap february", rng("2024-03-01", "2024-03-31"), "2024-02-01", "2024-02-29"},
		{"january to december", rng("2024-01-01", "2024-01-31"), "2023-12-01", "2023-12-31"},
		{"year", rng("2024-01-01", "2024-12-31"), "2023-01-01", "2023-12-31"},
		{"week so far", rng("2024-02-12", "2024-02-15"), "2024-02-08", "2024-02-11"},
		{"single day", rng("2024-02-15", "2024-02-15"), "2024-02-14", "2024-02-14"},
		{"two whole months", rng("2024-01-01", "2024-02-29"), "2023-11-02", "2023-12-31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.in.Previous()
			if !ok {
				t.Fatal("Previous not ok")
			}
			if got.From.String() != tt.from || got.To.String() != tt.to {
				t.Errorf("Previous = %s..%s, want %s..%s", got.From, got.To, tt.from, tt.to)
			}
		})
	}

	from := MustDate("2024-01-01")
	if _, ok := (DateRange{From: &from}).Previous(); ok {
		t.Error("open range should have no previous range")
	}
}
