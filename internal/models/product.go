package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string          `json:"name" gorm:"type:varchar(100);not null;index"`
	Description string          `json:"description" gorm:"type:varchar(250);not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Available   bool            `json:"available" gorm:"not null"`
	Category    Category        `json:"category" gorm:"type:varchar(16);not null;index"`
}

// TableName returns the table name for Product.
func (Product) TableName() string {
	return "products"
}

func (p Product) String() string {
	id := "None"
	if p.ID != 0 {
		id = fmt.Sprint(p.ID)
	}
	return fmt.Sprintf("<Product %s id=[%s]>", p.Name, id)
}

// Serialize returns the product as a JSON-safe map. Price is rendered as a
// decimal string with two places.
func (p Product) Serialize() map[string]any {
	return map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price.StringFixed(2),
		"available":   p.Available,
		"category":    p.Category.String(),
	}
}

// productPayload mirrors the business fields of Product. Pointers let
// validation tell a missing key from a zero value.
type productPayload struct {
	Name        *string          `json:"name" validate:"required,min=1,max=100"`
	Description *string          `json:"description" validate:"required,max=250"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Available   *bool            `json:"available" validate:"required"`
	Category    *string          `json:"category" validate:"required"`
}

var validate = newValidator()

// maxPrice bounds the magnitude of a price stored in a decimal(10,2) column.
var maxPrice = decimal.New(1, 8)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Deserialize populates the business fields from a JSON document. The id is
// never taken from input. Any missing, mistyped or out-of-range field yields
// a *ValidationError and leaves p untouched.
func (p *Product) Deserialize(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return NewValidationError("Invalid product: body of request contained no data", nil)
	}

	var payload productPayload
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			if typeErr.Field == "" {
				return NewValidationError("Invalid product: body of request must be a JSON object", nil)
			}
			return NewValidationError(fmt.Sprintf("Invalid type for attribute: %s", typeErr.Field), nil)
		}
		return NewValidationError("Invalid product: bad or malformed data", err)
	}

	if err := validate.Struct(payload); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			if fe.Tag() == "required" {
				return NewValidationError("Invalid product: missing "+fe.Field(), nil)
			}
			return NewValidationError(fmt.Sprintf("Invalid product: %s failed on the '%s' rule", fe.Field(), fe.Tag()), nil)
		}
		return NewValidationError("Invalid product", err)
	}

	if payload.Price.Abs().GreaterThanOrEqual(maxPrice) {
		return NewValidationError(fmt.Sprintf("Invalid product: price must be below %s", maxPrice), nil)
	}

	category, err := ParseCategory(*payload.Category)
	if err != nil {
		return NewValidationError("Invalid attribute", err)
	}

	p.Name = *payload.Name
	p.Description = *payload.Description
	p.Price = *payload.Price
	p.Available = *payload.Available
	p.Category = category
	return nil
}

// ParsePrice parses a textual price such as "19.99".
func ParsePrice(s string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, NewValidationError(fmt.Sprintf("Invalid price: %q", s), err)
	}
	return price, nil
}

// ProductFilter holds optional equality filters. Nil fields are ignored.
type ProductFilter struct {
	Name      *string
	Category  *Category
	Available *bool
	Price     *decimal.Decimal
}

// Matches reports whether p satisfies every set filter.
func (f ProductFilter) Matches(p Product) bool {
	if f.Name != nil && p.Name != *f.Name {
		return false
	}
	if f.Category != nil && p.Category != *f.Category {
		return false
	}
	if f.Available != nil && p.Available != *f.Available {
		return false
	}
	if f.Price != nil && !p.Price.Equal(*f.Price) {
		return false
	}
	return true
}
