package model

import "github.com/shopspring/decimal"

// KeyTotal is one row of a grouped spending view.
type KeyTotal struct {
	Key   string          `json:"key"`
	Total decimal.Decimal `json:"total"`
	Share float64         `json:"share"` // percent of the grand total, 0-100
}

// DailyTotal is the spend on one calendar day.
type DailyTotal struct {
	Date  Date            `json:"date"`
	Total decimal.Decimal `json:"total"`
}

// Summary holds the headline numbers for a set of receipts.
type Summary struct {
	Receipts          int             `json:"receipts"`
	Items             int             `json:"items"`
	Companies         int             `json:"companies"`
	Total             decimal.Decimal `json:"total"`
	AveragePerReceipt decimal.Decimal `json:"average_per_receipt"`
	ActiveDays        int             `json:"active_days"`
	PerActiveDay      decimal.Decimal `json:"per_active_day"`
	Range             DateRange       `json:"range"`
}
