package api

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/adfharrison1/go-filter/pkg/config"
	"github.com/adfharrison1/go-filter/pkg/domain"
)

// SortParam names the index results are sorted by; every other query
// parameter is a filter on the index of the same name.
const SortParam = "_sort"

// parseFilters builds a filter map from query parameters, reading each value
// according to the declared type of its index.
func (h *Handler) parseFilters(query url.Values) (domain.Filters, string) {
	filters := make(domain.Filters)
	for key, values := range query {
		if key == SortParam || len(values) == 0 {
			continue
		}
		filters[key] = parseValue(values[0], h.indexType(key)) // Take first value if multiple provided
	}
	return filters, query.Get(SortParam)
}

// parseValue reads a query value. "[a,b]" is a JSON array, used as a range.
// Otherwise:
//   - string indexes take the value as is
//   - number indexes take a float64
//   - bool indexes take "true" / "false"
//   - time indexes take an RFC3339 timestamp as unix milliseconds
//   - raw indexes try bool, then float64
//
// A value that does not fit stays a string, so ">=20" reaches the engine as
// an operator string.
func parseValue(value string, typ config.IndexType) interface{} {
	if strings.HasPrefix(value, "[") {
		var bounds []interface{}
		if err := json.Unmarshal([]byte(value), &bounds); err == nil {
			if typ == config.TypeTime {
				for i, b := range bounds {
					if ms := typ.Convert(b); ms != nil {
						bounds[i] = ms
					}
				}
			}
			return bounds
		}
	}

	switch typ {
	case config.TypeString:
		return value
	case config.TypeNumber:
		return parseNumber(value)
	case config.TypeBool:
		return parseBool(value)
	case config.TypeTime:
		if ms := typ.Convert(value); ms != nil {
			return ms
		}
		return parseNumber(value)
	}

	if b, ok := parseBool(value).(bool); ok {
		return b
	}
	return parseNumber(value)
}

func parseBool(value string) interface{} {
	if value == "true" || value == "false" {
		return value == "true"
	}
	return value
}

func parseNumber(value string) interface{} {
	if num, err := strconv.ParseFloat(value, 64); err == nil {
		return num
	}
	return value
}
