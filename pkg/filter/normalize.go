package filter

import (
	"reflect"
	"regexp"
	"strconv"
	"time"

	"github.com/adfharrison1/go-filter/pkg/domain"
)

var comparisonPattern = regexp.MustCompile(`^([<>=]+)([0-9.]+)$`)

// Normalize turns a filter value into a predicate:
//   - a domain.Predicate is used as is
//   - a string like ">=20" becomes a numeric Comparison; other strings are
//     matched literally
//   - a func(interface{}) bool becomes a Test
//   - a slice or array of two elements becomes an inclusive Range
//   - any other scalar (number, bool, time.Time, nil) becomes Equals
func Normalize(value interface{}) (domain.Predicate, error) {
	switch v := value.(type) {
	case domain.Predicate:
		return v, nil
	case nil, bool, time.Time:
		return domain.Equals{Value: v}, nil
	case string:
		return parseComparison(v)
	case func(interface{}) bool:
		return domain.Test{Fn: v}, nil
	}

	if _, ok := domain.ToFloat64(value); ok {
		return domain.Equals{Value: value}, nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Len() != 2 {
			return nil, &InvalidPredicateError{Value: value, Reason: "range must have exactly 2 elements"}
		}
		return domain.Range{Lo: rv.Index(0).Interface(), Hi: rv.Index(1).Interface()}, nil
	case reflect.Func:
		return nil, &InvalidPredicateError{Value: value, Reason: "test function must be func(interface{}) bool"}
	}
	return nil, &InvalidPredicateError{Value: value, Reason: "unsupported type " + rv.Type().String()}
}

func parseComparison(s string) (domain.Predicate, error) {
	m := comparisonPattern.FindStringSubmatch(s)
	if m == nil {
		return domain.Equals{Value: s}, nil
	}
	op, ok := domain.ParseOperator(m[1])
	if !ok {
		return domain.Equals{Value: s}, nil
	}
	operand, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil, &InvalidPredicateError{Value: s, Reason: "bad number " + strconv.Quote(m[2])}
	}
	return domain.Comparison{Op: op, Operand: operand}, nil
}
