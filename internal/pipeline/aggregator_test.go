package pipeline

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/moneymate/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func walmart() model.Receipt {
	return model.Receipt{
		Company: "Walmart",
		Date:    model.MustDate("2024-01-15"),
		Items: []model.Item{
			{Name: "Banana", Price: dec("1.99"), Category: model.Food},
			{Name: "Gas", Price: dec("45.00"), Category: model.Transportation},
		},
	}
}

func sampleReceipts() []model.Receipt {
	return []model.Receipt{
		walmart(),
		{
			Company: "IKEA",
			Date:    model.MustDate("2024-01-15"),
			Items: []model.Item{
				{Name: "Lamp", Price: dec("19.99"), Category: model.Household},
				{Name: "Hot dog", Price: dec("1.00"), Category: model.Food},
			},
		},
		{
			Company: "Walmart",
			Date:    model.MustDate("2024-01-18"),
			Items:   []model.Item{{Name: "T-shirt", Price: dec("15.99"), Category: model.Shopping}},
		},
	}
}

func TestByCategory_WalmartExample(t *testing.T) {
	got := ByCategory([]model.Receipt{walmart()})
	if len(got) != 2 {
		t.Fatalf("got %d categories, want 2: %v", len(got), got)
	}
	if !got[model.Food].Equal(dec("1.99")) {
		t.Errorf("food = %s, want 1.99", got[model.Food])
	}
	if !got[model.Transportation].Equal(dec("45.00")) {
		t.Errorf("transportation = %s, want 45.00", got[model.Transportation])
	}
}

func TestByCompany_WalmartExample(t *testing.T) {
	got := ByCompany([]model.Receipt{walmart()})
	if len(got) != 1 || !got["Walmart"].Equal(dec("46.99")) {
		t.Errorf("ByCompany = %v, want Walmart:46.99", got)
	}
}

func TestByCategory_SameCategorySums(t *testing.T) {
	r := model.Receipt{
		Company: "Deli",
		Date:    model.MustDate("2024-01-02"),
		Items: []model.Item{
			{Name: "Bagel", Price: dec("2.10"), Category: model.Food},
			{Name: "Coffee", Price: dec("3.20"), Category: model.Food},
		},
	}
	got := ByCategory([]model.Receipt{r})
	if len(got) != 1 || !got[model.Food].Equal(dec("5.30")) {
		t.Errorf("ByCategory = %v, want food:5.30", got)
	}
}

func TestByDate(t *testing.T) {
	got := ByDate(sampleReceipts())
	if !got[model.MustDate("2024-01-15")].Equal(dec("67.98")) {
		t.Errorf("2024-01-15 = %s, want 67.98", got[model.MustDate("2024-01-15")])
	}
	if !got[model.MustDate("2024-01-18")].Equal(dec("15.99")) {
		t.Errorf("2024-01-18 = %s, want 15.99", got[model.MustDate("2024-01-18")])
	}
}

func TestEmptyInput(t *testing.T) {
	if len(ByCategory(nil)) != 0 || len(ByCompany(nil)) != 0 || len(ByDate(nil)) != 0 {
		t.Error("aggregates of no receipts should be empty")
	}
	s := Summarize(nil, model.DateRange{})
	if s.Receipts != 0 || !s.Total.IsZero() || !s.AveragePerReceipt.IsZero() {
		t.Errorf("Summarize(nil) = %+v", s)
	}
}

func TestTopCompanies(t *testing.T) {
	got := TopCompanies(sampleReceipts(), 0)
	if len(got) != 2 {
		t.Fatalf("got %d companies, want 2", len(got))
	}
	if got[0].Key != "Walmart" || !got[0].Total.Equal(dec("62.98")) {
		t.Errorf("first = %+v, want Walmart 62.98", got[0])
	}
	share := got[0].Share + got[1].Share
	if share < 99.99 || share > 100.01 {
		t.Errorf("shares sum to %f, want 100", share)
	}

	top1 := TopCompanies(sampleReceipts(), 1)
	if len(top1) != 1 || top1[0].Key != "Walmart" {
		t.Errorf("TopCompanies(1) = %+v", top1)
	}
}

func TestSortedCategories_TieBreaksByKey(t *testing.T) {
	r := model.Receipt{
		Company: "X",
		Date:    model.MustDate("2024-01-01"),
		Items: []model.Item{
			{Name: "a", Price: dec("5"), Category: model.Shopping},
			{Name: "b", Price: dec("5"), Category: model.Food},
			{Name: "c", Price: dec("9"), Category: model.Other},
		},
	}
	got := SortedCategories([]model.Receipt{r})
	want := []string{"other", "food", "shopping"}
	for i, k := range want {
		if got[i].Key != k {
			t.Errorf("row %d = %s, want %s", i, got[i].Key, k)
		}
	}
}

func TestDailySeriesAndFill(t *testing.T) {
	series := DailySeries(sampleReceipts())
	if len(series) != 2 || series[0].Date.String() != "2024-01-15" {
		t.Fatalf("DailySeries = %+v", series)
	}

	from, to := model.MustDate("2024-01-14"), model.MustDate("2024-01-19")
	filled := FillDays(series, model.DateRange{From: &from, To: &to})
	if len(filled) != 6 {
		t.Fatalf("FillDays len = %d, want 6", len(filled))
	}
	if !filled[0].Total.IsZero() || !filled[1].Total.Equal(dec("67.98")) || !filled[4].Total.Equal(dec("15.99")) {
		t.Errorf("FillDays = %+v", filled)
	}

	open := FillDays(series, model.DateRange{})
	if len(open) != 4 || open[0].Date.String() != "2024-01-15" || open[3].Date.String() != "2024-01-18" {
		t.Errorf("FillDays open range = %+v", open)
	}
	if FillDays(nil, model.DateRange{}) != nil {
		t.Error("FillDays(nil, open) should stay empty")
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleReceipts(), model.DateRange{})
	if s.Receipts != 3 || s.Items != 5 || s.Companies != 2 || s.ActiveDays != 2 {
		t.Errorf("counts = %+v", s)
	}
	if !s.Total.Equal(dec("83.97")) {
		t.Errorf("Total = %s, want 83.97", s.Total)
	}
	if !s.AveragePerReceipt.Equal(dec("27.99")) {
		t.Errorf("AveragePerReceipt = %s, want 27.99", s.AveragePerReceipt)
	}
	if !s.PerActiveDay.Equal(dec("41.99")) {
		t.Errorf("PerActiveDay = %s, want 41.99", s.PerActiveDay)
	}
}

func TestFlatten(t *testing.T) {
	rows := Flatten(sampleReceipts())
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(rows))
	}
	if rows[2].Company != "IKEA" || rows[2].ItemName != "Lamp" || rows[2].Category != model.Household {
		t.Errorf("row 2 = %+v", rows[2])
	}
}

func BenchmarkAggregate(b *testing.B) {
	var receipts []model.Receipt
	for i := 0; i < 1000; i++ {
		receipts = append(receipts, sampleReceipts()...)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = SortedCategories(receipts)
		_ = TopCompanies(receipts, 10)
		_ = DailySeries(receipts)
	}
}
