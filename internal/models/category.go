package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Category classifies a product. The set is closed.
type Category uint8

const (
	CategoryUnknown Category = iota
	CategoryCloths
	CategoryFood
	CategoryHousewares
	CategoryAutomotive
	CategoryTools
)

var categoryNames = [...]string{
	CategoryUnknown:    "UNKNOWN",
	CategoryCloths:     "CLOTHS",
	CategoryFood:       "FOOD",
	CategoryHousewares: "HOUSEWARES",
	CategoryAutomotive: "AUTOMOTIVE",
	CategoryTools:      "TOOLS",
}

// Categories returns every category in declaration order.
func Categories() []Category {
	all := make([]Category, len(categoryNames))
	for i := range categoryNames {
		all[i] = Category(i)
	}
	return all
}

// UnknownCategoryError is returned when a string does not name a category.
type UnknownCategoryError struct {
	Value string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("invalid category: %q", e.Value)
}

// ParseCategory maps a category name to its value. Matching is case-sensitive.
func ParseCategory(s string) (Category, error) {
	for i, name := range categoryNames {
		if name == s {
			return Category(i), nil
		}
	}
	return CategoryUnknown, &UnknownCategoryError{Value: s}
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	return int(c) < len(categoryNames)
}

func (c Category) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("cannot marshal %s", c)
	}
	return json.Marshal(c.String())
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("category must be a string: %w", err)
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Value stores the category by name.
func (c Category) Value() (driver.Value, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("cannot store %s", c)
	}
	return c.String(), nil
}

// Scan reads a category name written by Value.
func (c *Category) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Category", src)
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
