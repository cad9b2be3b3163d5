package domain

import (
	"fmt"
	"strings"
	"time"
)

// kind ranks values of different types so that any two keys can be ordered.
type kind int

const (
	kindNil kind = iota
	kindBool
	kindNumber
	kindTime
	kindString
	kindOther
)

func kindOf(v interface{}) kind {
	if v == nil {
		return kindNil
	}
	switch v.(type) {
	case bool:
		return kindBool
	case time.Time:
		return kindTime
	case string:
		return kindString
	}
	if _, ok := ToFloat64(v); ok {
		return kindNumber
	}
	return kindOther
}

// Compare orders two keys, returning -1, 0 or 1. Numbers compare by value
// regardless of their Go type. Keys of different kinds order as
// nil < bool < number < time < string < anything else.
func Compare(a, b interface{}) int {
	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		if ka < kb {
			return -1
		}
		return 1
	}

	switch ka {
	case kindNil:
		return 0
	case kindBool:
		x, y := a.(bool), b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case kindNumber:
		x, _ := ToFloat64(a)
		y, _ := ToFloat64(b)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	case kindTime:
		return a.(time.Time).Compare(b.(time.Time))
	case kindString:
		return strings.Compare(a.(string), b.(string))
	default:
		// No natural order: fall back to type name, then printed form.
		if c := strings.Compare(fmt.Sprintf("%T", a), fmt.Sprintf("%T", b)); c != 0 {
			return c
		}
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
}

// ToFloat64 converts various numeric types to float64 for comparison
func ToFloat64(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}
