package services

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"bistro/internal/models"
	"bistro/internal/repositories"
)

// TranslateFilters turns raw query parameters into a ProductFilter. Blank values and unknown keys
// are ignored. Every malformed parameter is reported in a single *FilterError.
func TranslateFilters(raw map[string]string) (repositories.ProductFilter, error) {
	var (
		filter   repositories.ProductFilter
		problems []string
	)
	get := func(key string) (string, bool) {
		v := strings.TrimSpace(raw[key])
		return v, v != ""
	}

	if v, ok := get("name"); ok {
		filter.Name = &v
	}
	if v, ok := get("category"); ok {
		if models.IsExportCategory(v) {
			filter.Category = &v
		} else {
			problems = append(problems, "category: must be one of "+strings.Join(models.ExportCategories, ", "))
		}
	}
	if v, ok := get("minPrice"); ok {
		if d, err := parsePrice(v); err != "" {
			problems = append(problems, "minPrice: "+err)
		} else {
			filter.MinPrice = &d
		}
	}
	if v, ok := get("maxPrice"); ok {
		if d, err := parsePrice(v); err != "" {
			problems = append(problems, "maxPrice: "+err)
		} else {
			filter.MaxPrice = &d
		}
	}
	if v, ok := get("minStock"); ok {
		n, err := strconv.Atoi(v)
		switch {
		case err != nil:
			problems = append(problems, "minStock: must be an integer")
		case n < 0:
			problems = append(problems, "minStock: must not be negative")
		default:
			filter.MinStock = &n
		}
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		problems = append(problems, "minPrice: must not exceed maxPrice")
	}

	if len(problems) > 0 {
		return repositories.ProductFilter{}, &FilterError{Problems: problems}
	}
	return filter, nil
}

func parsePrice(v string) (decimal.Decimal, string) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, "must be a number"
	}
	if d.IsNegative() {
		return decimal.Zero, "must not be negative"
	}
	return d, ""
}
