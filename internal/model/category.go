package model

import (
	"fmt"
	"strings"
)

// Category is an expense category label.
// The input forms only accept the values in Categories; stored records may
// carry any string, including values written before the set was fixed.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryBills         Category = "Bills"
	CategoryShopping      Category = "Shopping"
	CategoryEntertainment Category = "Entertainment"
	CategoryOther         Category = "Other"
	CategoryNeeds         Category = "Needs"
	CategoryHousehold     Category = "Household"
	CategoryGroceries     Category = "Groceries"
)

// CategoryUnknown is the aggregation bucket for records with no category.
const CategoryUnknown = "Unknown"

// DefaultCategory is applied by the store when a record arrives without one.
const DefaultCategory = CategoryOther

// Categories lists the selectable categories in picker order.
var Categories = []Category{
	CategoryFood,
	CategoryBills,
	CategoryShopping,
	CategoryEntertainment,
	CategoryOther,
	CategoryNeeds,
	CategoryHousehold,
	CategoryGroceries,
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}

// IsKnown reports whether c is one of the selectable categories.
func (c Category) IsKnown() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory resolves user input to a selectable category, ignoring case
// and surrounding whitespace.
func ParseCategory(s string) (Category, error) {
	trimmed := strings.TrimSpace(s)
	for _, known := range Categories {
		if strings.EqualFold(trimmed, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (expected one of %s)", s, CategoryNames())
}

// CategoryNames returns the selectable categories as a comma separated list.
func CategoryNames() string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
