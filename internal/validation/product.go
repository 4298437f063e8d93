// Package validation holds the product schema shared by every path that creates or mutates a
// product: admin create, edit, patch and CSV import.
package validation

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"bistro/internal/models"
)

// ProductInput is the validated shape of a product before it reaches the store.
type ProductInput struct {
	Name        string          `json:"name" validate:"required,min=3"`
	Price       decimal.Decimal `json:"price" validate:"gt=0"`
	Description string          `json:"description" validate:"max=200,required_if=Category Pizza"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Category    string          `json:"category" validate:"required,oneof=Pizza Burger Salată Desert Băutură"`
}

// ToModel copies the input into a new, unsaved product. Strings are trimmed and the price is
// rounded to the two decimals the store keeps.
func (in ProductInput) ToModel() *models.Product {
	return &models.Product{
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price.Round(2),
		Description: strings.TrimSpace(in.Description),
		Stock:       in.Stock,
		Category:    strings.TrimSpace(in.Category),
	}
}

// FromModel extracts the validated fields of a stored product.
func FromModel(p *models.Product) ProductInput {
	return ProductInput{
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Stock:       p.Stock,
		Category:    p.Category,
	}
}

// Violation is a single failed field constraint.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Violations is the ordered list of failed constraints of one record.
type Violations []Violation

func (v Violations) Error() string {
	parts := make([]string, 0, len(v))
	for _, viol := range v {
		parts = append(parts, viol.Field+": "+viol.Message)
	}
	return strings.Join(parts, ", ")
}

// Map returns the violations keyed by field, as rendered in HTTP error bodies.
func (v Violations) Map() map[string]string {
	out := make(map[string]string, len(v))
	for _, viol := range v {
		out[viol.Field] = viol.Message
	}
	return out
}

// With returns a copy where viol replaces any violation of the same field, keeping field order.
func (v Violations) With(viol Violation) Violations {
	out := make(Violations, 0, len(v)+1)
	for _, existing := range v {
		if existing.Field != viol.Field {
			out = append(out, existing)
		}
	}
	out = append(out, viol)
	sort.SliceStable(out, func(i, j int) bool {
		return fieldRank(out[i].Field) < fieldRank(out[j].Field)
	})
	return out
}

var fieldOrder = []string{"name", "price", "description", "stock", "category"}

func fieldRank(field string) int {
	for i, f := range fieldOrder {
		if f == field {
			return i
		}
	}
	return len(fieldOrder)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// ValidateProduct checks input against the product schema and returns every failing field, in
// schema order. A nil result means the record may be persisted.
func ValidateProduct(input ProductInput) Violations {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.Category = strings.TrimSpace(input.Category)
	input.Price = input.Price.Round(2)

	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Violations{{Field: "product", Message: err.Error()}}
	}

	var out Violations
	for _, fe := range verrs {
		out = append(out, Violation{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return "is required for Pizza"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "oneof":
		return "must be one of " + strings.Join(models.Categories, ", ")
	}
	return fmt.Sprintf("failed on the '%s' tag", fe.Tag())
}
