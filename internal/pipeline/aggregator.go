// Package pipeline groups receipts into spending totals and ingests new uploads.
package pipeline

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/moneymate/internal/model"
)

var hundred = decimal.NewFromInt(100)

// ByCategory sums item prices per category.
func ByCategory(receipts []model.Receipt) map[model.Category]decimal.Decimal {
	totals := make(map[model.Category]decimal.Decimal)
	for _, r := range receipts {
		for _, it := range r.Items {
			totals[it.Category] = totals[it.Category].Add(it.Price)
		}
	}
	return totals
}

// ByCompany sums item prices per vendor name. Names are compared exactly.
func ByCompany(receipts []model.Receipt) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, r := range receipts {
		totals[r.Company] = totals[r.Company].Add(r.Total())
	}
	return totals
}

// ByDate sums item prices per receipt date.
func ByDate(receipts []model.Receipt) map[model.Date]decimal.Decimal {
	totals := make(map[model.Date]decimal.Decimal)
	for _, r := range receipts {
		totals[r.Date] = totals[r.Date].Add(r.Total())
	}
	return totals
}

// SortedCategories returns per-category totals, largest first.
func SortedCategories(receipts []model.Receipt) []model.KeyTotal {
	byCat := ByCategory(receipts)
	m := make(map[string]decimal.Decimal, len(byCat))
	for c, v := range byCat {
		m[c.String()] = v
	}
	return rank(m, 0)
}

// TopCompanies returns the n vendors with the highest spend. n <= 0 returns all.
func TopCompanies(receipts []model.Receipt, n int) []model.KeyTotal {
	return rank(ByCompany(receipts), n)
}

// rank orders totals descending with ties broken by key, and fills in each
// row's share of the grand total.
func rank(totals map[string]decimal.Decimal, n int) []model.KeyTotal {
	grand := decimal.Zero
	rows := make([]model.KeyTotal, 0, len(totals))
	for k, v := range totals {
		grand = grand.Add(v)
		rows = append(rows, model.KeyTotal{Key: k, Total: v})
	}

	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].Total.Cmp(rows[j].Total); c != 0 {
			return c > 0
		}
		return rows[i].Key < rows[j].Key
	})

	if grand.IsPositive() {
		for i := range rows {
			rows[i].Share = rows[i].Total.Div(grand).Mul(hundred).InexactFloat64()
		}
	}

	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// DailySeries returns per-day totals in ascending date order. Days without
// receipts are absent; see FillDays.
func DailySeries(receipts []model.Receipt) []model.DailyTotal {
	byDate := ByDate(receipts)
	series := make([]model.DailyTotal, 0, len(byDate))
	for d, v := range byDate {
		series = append(series, model.DailyTotal{Date: d, Total: v})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series
}

// FillDays inserts zero entries for every missing day so charts show gaps.
// Open bounds fall back to the first or last day present in series.
func FillDays(series []model.DailyTotal, rng model.DateRange) []model.DailyTotal {
	if len(series) == 0 && (rng.From == nil || rng.To == nil) {
		return series
	}

	var start, end model.Date
	switch {
	case rng.From != nil:
		start = *rng.From
	default:
		start = series[0].Date
	}
	switch {
	case rng.To != nil:
		end = *rng.To
	default:
		end = series[len(series)-1].Date
	}

	have := make(map[model.Date]decimal.Decimal, len(series))
	for _, d := range series {
		have[d.Date] = d.Total
	}

	var out []model.DailyTotal
	for day := start; !day.After(end); day = day.AddDays(1) {
		out = append(out, model.DailyTotal{Date: day, Total: have[day]})
	}
	return out
}

// Summarize computes the headline numbers for receipts already filtered to rng.
func Summarize(receipts []model.Receipt, rng model.DateRange) model.Summary {
	s := model.Summary{Range: rng, Total: decimal.Zero}
	days := make(map[model.Date]struct{})
	companies := make(map[string]struct{})

	for _, r := range receipts {
		s.Receipts++
		s.Items += len(r.Items)
		s.Total = s.Total.Add(r.Total())
		days[r.Date] = struct{}{}
		companies[r.Company] = struct{}{}
	}

	s.ActiveDays = len(days)
	s.Companies = len(companies)
	if s.Receipts > 0 {
		s.AveragePerReceipt = s.Total.Div(decimal.NewFromInt(int64(s.Receipts))).Round(2)
	}
	if s.ActiveDays > 0 {
		s.PerActiveDay = s.Total.Div(decimal.NewFromInt(int64(s.ActiveDays))).Round(2)
	}
	return s
}

// ExpenseRow is one line of the flattened expense history.
type ExpenseRow struct {
	Company  string          `json:"company"`
	Date     model.Date      `json:"date"`
	ItemName string          `json:"item_name"`
	Price    decimal.Decimal `json:"price"`
	Category model.Category  `json:"category"`
}

// Flatten expands receipts into one row per item, in receipt then item order.
func Flatten(receipts []model.Receipt) []ExpenseRow {
	var rows []ExpenseRow
	for _, r := range receipts {
		for _, it := range r.Items {
			rows = append(rows, ExpenseRow{
				Company:  r.Company,
				Date:     r.Date,
				ItemName: it.Name,
				Price:    it.Price,
				Category: it.Category,
			})
		}
	}
	return rows
}
