// Package model defines domain types for moneymate receipts and spending totals.
package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers in the store file, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

var (
	// ErrEmptyCompany is returned when a receipt has no vendor name.
	ErrEmptyCompany = errors.New("empty company")
	// ErrMissingDate is returned when a receipt has no purchase date.
	ErrMissingDate = errors.New("missing date")
	// ErrEmptyItemName is returned when a line item has no name.
	ErrEmptyItemName = errors.New("empty item name")
	// ErrNegativePrice is returned when a line item has a price below zero.
	ErrNegativePrice = errors.New("negative price")
)

// Receipt is a single purchase: vendor, date, and ordered line items.
type Receipt struct {
	Company string `json:"company"`
	Date    Date   `json:"date"`
	Items   []Item `json:"items"`
}

// Item is one purchased line entry. It has no lifecycle outside its Receipt.
type Item struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category Category        `json:"category"`
}

// Validate checks the receipt invariants.
func (r Receipt) Validate() error {
	if strings.TrimSpace(r.Company) == "" {
		return ErrEmptyCompany
	}
	if r.Date.IsZero() {
		return ErrMissingDate
	}
	for i, it := range r.Items {
		if err := it.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i+1, err)
		}
	}
	return nil
}

// Total returns the sum of all item prices.
func (r Receipt) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range r.Items {
		total = total.Add(it.Price)
	}
	return total
}

// Validate checks the item invariants.
func (it Item) Validate() error {
	if strings.TrimSpace(it.Name) == "" {
		return ErrEmptyItemName
	}
	if it.Price.IsNegative() {
		return ErrNegativePrice
	}
	if !it.Category.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownCategory, uint8(it.Category))
	}
	return nil
}
