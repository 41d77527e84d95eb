package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCategory is returned for category strings outside the closed set.
var ErrUnknownCategory = errors.New("unknown category")

// Category is the closed set of spending categories an item can belong to.
type Category uint8

// The zero value is deliberately invalid so a missing field never silently
// becomes a real category.
const (
	categoryInvalid Category = iota
	Household
	Food
	Transportation
	Entertainment
	Shopping
	Other
)

// AllCategories returns every valid category in declaration order.
func AllCategories() []Category {
	return []Category{Household, Food, Transportation, Entertainment, Shopping, Other}
}

// String returns the wire name used in the store file.
func (c Category) String() string {
	switch c {
	case Household:
		return "household"
	case Food:
		return "food"
	case Transportation:
		return "transportation"
	case Entertainment:
		return "entertainment"
	case Shopping:
		return "shopping"
	case Other:
		return "other"
	default:
		return fmt.Sprintf("category(%d)", uint8(c))
	}
}

// Label returns the human-readable display name.
func (c Category) Label() string {
	switch c {
	case Household:
		return "Household"
	case Food:
		return "Food"
	case Transportation:
		return "Transportation"
	case Entertainment:
		return "Entertainment"
	case Shopping:
		return "Shopping"
	case Other:
		return "Other"
	default:
		return "Unknown"
	}
}

// Valid reports whether c is a member of the closed set.
func (c Category) Valid() bool {
	return c >= Household && c <= Other
}

// ParseCategory parses a wire name, case-insensitively. Unknown names fail.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "household":
		return Household, nil
	case "food":
		return Food, nil
	case "transportation":
		return Transportation, nil
	case "entertainment":
		return Entertainment, nil
	case "shopping":
		return Shopping, nil
	case "other":
		return Other, nil
	}
	return categoryInvalid, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// NormalizeCategory maps free-form model output onto the closed set,
// falling back to Other.
func NormalizeCategory(s string) Category {
	c, err := ParseCategory(s)
	if err != nil {
		return Other
	}
	return c
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
