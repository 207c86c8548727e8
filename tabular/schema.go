package tabular

import (
	"fmt"
	"strings"
)

// Logical field names reported in schema errors.
const (
	FieldGTIN     = "gtin"
	FieldSKU      = "merchant_sku"
	FieldName     = "name"
	FieldCategory = "category"
)

// categoryAliases lists accepted category headers in priority order.
var categoryAliases = []string{
	"category_id",
	"category",
	"category name",
	"category_name",
	"cat",
	"cat_id",
	"category-id",
	"catid",
}

// Schema holds the column positions of the logical fields.
type Schema struct {
	GTIN     int
	SKU      int
	Name     int
	Category int
}

// SchemaError reports required columns absent from the header row.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required column(s): %s. Needed: gtin, merchant_sku, name and a category column (one of: %s)",
		strings.Join(e.Missing, ", "), strings.Join(categoryAliases, ", "))
}

// ResolveSchema matches the header row against the required fields. Headers
// are compared trimmed and lower-cased; the first matching column wins.
func ResolveSchema(headers []string) (Schema, error) {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	var (
		s       Schema
		missing []string
	)
	lookup := func(name string, dst *int) {
		if idx, ok := index[name]; ok {
			*dst = idx
			return
		}
		missing = append(missing, name)
	}
	lookup(FieldGTIN, &s.GTIN)
	lookup(FieldSKU, &s.SKU)
	lookup(FieldName, &s.Name)

	s.Category = -1
	for _, alias := range categoryAliases {
		if idx, ok := index[alias]; ok {
			s.Category = idx
			break
		}
	}
	if s.Category < 0 {
		missing = append(missing, FieldCategory)
	}

	if len(missing) > 0 {
		return Schema{}, &SchemaError{Missing: missing}
	}
	return s, nil
}
