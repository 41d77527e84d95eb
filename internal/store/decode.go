package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/moneymate/internal/model"
)

// ErrMissingField is returned when a stored record omits a required key.
var ErrMissingField = errors.New("missing field")

// Pointer fields distinguish an absent key from a zero value.
type wireItem struct {
	Name     *string          `json:"name"`
	Price    *decimal.Decimal `json:"price"`
	Category *model.Category  `json:"category"`
}

type wireReceipt struct {
	Company *string     `json:"company"`
	Date    *model.Date `json:"date"`
	Items   *[]wireItem `json:"items"`
}

// DecodeLine parses one stored line into a validated Receipt. Unknown keys,
// missing keys, trailing data, bad dates and unknown categories are errors.
// A line holding a JSON string is decoded as the object encoded inside it,
// which is how older store files were written.
func DecodeLine(line []byte) (model.Receipt, error) {
	line = bytes.TrimSpace(line)
	if len(line) > 0 && line[0] == '"' {
		var inner string
		if err := json.Unmarshal(line, &inner); err != nil {
			return model.Receipt{}, err
		}
		if inner = strings.TrimSpace(inner); inner == "" || inner[0] != '{' {
			return model.Receipt{}, errors.New("quoted line does not hold an object")
		}
		line = []byte(inner)
	}

	dec := json.NewDecoder(bytes.NewReader(line))
	dec.DisallowUnknownFields()

	var w wireReceipt
	if err := dec.Decode(&w); err != nil {
		return model.Receipt{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return model.Receipt{}, errors.New("trailing data after record")
	}

	switch {
	case w.Company == nil:
		return model.Receipt{}, fmt.Errorf("%w: company", ErrMissingField)
	case w.Date == nil:
		return model.Receipt{}, fmt.Errorf("%w: date", ErrMissingField)
	case w.Items == nil:
		return model.Receipt{}, fmt.Errorf("%w: items", ErrMissingField)
	}

	r := model.Receipt{
		Company: *w.Company,
		Date:    *w.Date,
		Items:   make([]model.Item, 0, len(*w.Items)),
	}
	for i, wi := range *w.Items {
		switch {
		case wi.Name == nil:
			return model.Receipt{}, fmt.Errorf("item %d: %w: name", i+1, ErrMissingField)
		case wi.Price == nil:
			return model.Receipt{}, fmt.Errorf("item %d: %w: price", i+1, ErrMissingField)
		case wi.Category == nil:
			return model.Receipt{}, fmt.Errorf("item %d: %w: category", i+1, ErrMissingField)
		}
		r.Items = append(r.Items, model.Item{Name: *wi.Name, Price: *wi.Price, Category: *wi.Category})
	}

	if err := r.Validate(); err != nil {
		return model.Receipt{}, err
	}
	return r, nil
}

// EncodeLine serializes a receipt as a single newline-terminated line.
// A receipt without items is written with an empty list.
func EncodeLine(r model.Receipt) ([]byte, error) {
	if r.Items == nil {
		r.Items = []model.Item{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
