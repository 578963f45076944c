package calculator

import "errors"

// ErrDivisionByZero is returned by Combine when the divisor is zero.
var ErrDivisionByZero = errors.New("calculator: division by zero")

// Operator is a pending binary operation. The zero value is None.
type Operator int

const (
	None Operator = iota
	Add
	Subtract
	Multiply
	Divide
)

var operatorSymbols = map[Operator]string{
	Add:      "+",
	Subtract: "−",
	Multiply: "×",
	Divide:   "÷",
}

// String returns the display glyph for op, or an empty string for None.
func (op Operator) String() string {
	return operatorSymbols[op]
}

// ParseOperator maps an operator token to an Operator. Both ASCII tokens
// (+ - * /) and the display glyphs are accepted.
func ParseOperator(s string) (Operator, bool) {
	switch s {
	case "+":
		return Add, true
	case "-", "−":
		return Subtract, true
	case "*", "×", "x":
		return Multiply, true
	case "/", "÷":
		return Divide, true
	}
	return None, false
}

// Combine applies op to a and b. Unrecognized operators return b unchanged.
func Combine(a, b float64, op Operator) (float64, error) {
	switch op {
	case Add:
		return a + b, nil
	case Subtract:
		return a - b, nil
	case Multiply:
		return a * b, nil
	case Divide:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return a / b, nil
	default:
		return b, nil
	}
}
