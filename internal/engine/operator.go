package engine

import "fmt"

// Operator is a binary operation key, or Equals which terminates a chain.
type Operator int

const (
	Add Operator = iota + 1
	Subtract
	Multiply
	Divide
	Equals
)

var operatorNames = map[Operator]string{
	Add:      "add",
	Subtract: "subtract",
	Multiply: "multiply",
	Divide:   "divide",
	Equals:   "equals",
}

func (o Operator) String() string {
	if name, ok := operatorNames[o]; ok {
		return name
	}
	return fmt.Sprintf("operator(%d)", int(o))
}

// Symbol is the keypad label used when the operator is written into history.
func (o Operator) Symbol() string {
	switch o {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "×"
	case Divide:
		return "÷"
	case Equals:
		return "="
	}
	return "?"
}

func (o Operator) valid() bool {
	_, ok := operatorNames[o]
	return ok
}

// compute applies a pending operator. The result is always finite on success.
func compute(op Operator, left, right float64) (float64, error) {
	var result float64

	switch op {
	case Add:
		result = left + right
	case Subtract:
		result = left - right
	case Multiply:
		result = left * right
	case Divide:
		if right == 0 {
			return 0, ErrDivisionByZero
		}
		result = left / right
	default:
		return 0, fmt.Errorf("%w: cannot compute with %s", ErrInvalidIntent, op)
	}

	if !isFinite(result) {
		return 0, ErrOverflow
	}
	return result, nil
}
