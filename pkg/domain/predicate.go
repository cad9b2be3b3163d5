package domain

import "fmt"

// Predicate restricts the records visible through a dimension. The set of
// implementations is closed: Equals, Range, Test and Comparison.
type Predicate interface {
	Matches(key interface{}) bool
	String() string
	isPredicate()
}

// Equals matches keys equal to Value.
type Equals struct {
	Value interface{}
}

// Range matches keys between Lo and Hi, both ends inclusive.
type Range struct {
	Lo interface{}
	Hi interface{}
}

// Test matches keys for which Fn returns true.
type Test struct {
	Fn func(interface{}) bool
}

// Comparison matches numeric keys against a numeric operand.
type Comparison struct {
	Op      Operator
	Operand float64
}

// Operator is a numeric comparison operator
type Operator int

const (
	OpLessThan Operator = iota
	OpGreaterThan
	OpLessEqual
	OpGreaterEqual
)

var operatorSymbols = map[Operator]string{
	OpLessThan:     "<",
	OpGreaterThan:  ">",
	OpLessEqual:    "<=",
	OpGreaterEqual: ">=",
}

// ParseOperator returns the operator for one of "<", ">", "<=" or ">=".
func ParseOperator(symbol string) (Operator, bool) {
	for op, s := range operatorSymbols {
		if s == symbol {
			return op, true
		}
	}
	return 0, false
}

func (op Operator) String() string {
	if s, ok := operatorSymbols[op]; ok {
		return s
	}
	return fmt.Sprintf("Operator(%d)", int(op))
}

func (p Equals) Matches(key interface{}) bool {
	return Compare(key, p.Value) == 0
}

func (p Range) Matches(key interface{}) bool {
	return Compare(key, p.Lo) >= 0 && Compare(key, p.Hi) <= 0
}

func (p Test) Matches(key interface{}) bool {
	if p.Fn == nil {
		return false
	}
	return p.Fn(key)
}

func (p Comparison) Matches(key interface{}) bool {
	v, ok := ToFloat64(key)
	if !ok {
		return false
	}
	switch p.Op {
	case OpLessThan:
		return v < p.Operand
	case OpGreaterThan:
		return v > p.Operand
	case OpLessEqual:
		return v <= p.Operand
	case OpGreaterEqual:
		return v >= p.Operand
	default:
		return false
	}
}

func (p Equals) String() string     { return fmt.Sprintf("== %v", p.Value) }
func (p Range) String() string      { return fmt.Sprintf("[%v, %v]", p.Lo, p.Hi) }
func (p Test) String() string       { return "test" }
func (p Comparison) String() string { return fmt.Sprintf("%s %v", p.Op, p.Operand) }

func (Equals) isPredicate()     {}
func (Range) isPredicate()      {}
func (Test) isPredicate()       {}
func (Comparison) isPredicate() {}
