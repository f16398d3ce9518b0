package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind enumerates the user actions the engine accepts.
type Kind int

const (
	KindDigit Kind = iota + 1
	KindDecimal
	KindClear
	KindToggleSign
	KindPercentage
	KindBackspace
	KindOperator
	KindClearHistory
)

var kindNames = map[Kind]string{
	KindDigit:        "digit",
	KindDecimal:      "decimal",
	KindClear:        "clear",
	KindToggleSign:   "toggle_sign",
	KindPercentage:   "percentage",
	KindBackspace:    "backspace",
	KindOperator:     "operator",
	KindClearHistory: "clear_history",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Intent is one discrete user action. Digit is read only for KindDigit and
// Op only for KindOperator.
type Intent struct {
	Kind  Kind
	Digit int
	Op    Operator
}

func Digit(d int) Intent       { return Intent{Kind: KindDigit, Digit: d} }
func Decimal() Intent          { return Intent{Kind: KindDecimal} }
func Clear() Intent            { return Intent{Kind: KindClear} }
func ToggleSign() Intent       { return Intent{Kind: KindToggleSign} }
func Percentage() Intent       { return Intent{Kind: KindPercentage} }
func Backspace() Intent        { return Intent{Kind: KindBackspace} }
func Apply(op Operator) Intent { return Intent{Kind: KindOperator, Op: op} }
func ClearHistory() Intent     { return Intent{Kind: KindClearHistory} }

// String names the intent for logs and span names, e.g. "digit.7" or "operator.add".
func (in Intent) String() string {
	switch in.Kind {
	case KindDigit:
		return "digit." + strconv.Itoa(in.Digit)
	case KindOperator:
		return "operator." + in.Op.String()
	}
	return in.Kind.String()
}

func (in Intent) validate() error {
	switch in.Kind {
	case KindDigit:
		if in.Digit < 0 || in.Digit > 9 {
			return fmt.Errorf("%w: digit %d out of range", ErrInvalidIntent, in.Digit)
		}
	case KindOperator:
		if !in.Op.valid() {
			return fmt.Errorf("%w: unknown operator %d", ErrInvalidIntent, int(in.Op))
		}
	case KindDecimal, KindClear, KindToggleSign, KindPercentage, KindBackspace, KindClearHistory:
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidIntent, int(in.Kind))
	}
	return nil
}

// Reduce applies one intent to s. Invalid intents return s unchanged together
// with an error wrapping ErrInvalidIntent; arithmetic faults are not errors
// here, they show up as the error marker and State.Fault.
func Reduce(s State, in Intent) (State, error) {
	if err := in.validate(); err != nil {
		return s, err
	}

	switch in.Kind {
	case KindDigit:
		return s.InputDigit(in.Digit), nil
	case KindDecimal:
		return s.InputDecimal(), nil
	case KindClear:
		return s.Clear(), nil
	case KindToggleSign:
		return s.ToggleSign(), nil
	case KindPercentage:
		return s.Percentage(), nil
	case KindBackspace:
		return s.Backspace(), nil
	case KindOperator:
		return s.ApplyOperator(in.Op), nil
	default:
		return s.ClearHistory(), nil
	}
}

var keyIntents = map[string]Intent{
	".":             Decimal(),
	",":             Decimal(),
	"AC":            Clear(),
	"C":             Clear(),
	"±":             ToggleSign(),
	"+/-":           ToggleSign(),
	"%":             Percentage(),
	"+":             Apply(Add),
	"-":             Apply(Subtract),
	"−":             Apply(Subtract),
	"×":             Apply(Multiply),
	"*":             Apply(Multiply),
	"x":             Apply(Multiply),
	"÷":             Apply(Divide),
	"/":             Apply(Divide),
	"=":             Apply(Equals),
	"⌫":             Backspace(),
	"back":          Backspace(),
	"clear-history": ClearHistory(),
}

// ParseKey maps a keypad label to its intent.
func ParseKey(key string) (Intent, error) {
	key = strings.TrimSpace(key)

	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		return Digit(int(key[0] - '0')), nil
	}
	if in, ok := keyIntents[key]; ok {
		return in, nil
	}
	return Intent{}, fmt.Errorf("%w: unknown key %q", ErrInvalidIntent, key)
}

// ParseKeys parses a sequence of keypad labels, stopping at the first unknown one.
func ParseKeys(keys []string) ([]Intent, error) {
	intents := make([]Intent, 0, len(keys))
	for i, key := range keys {
		in, err := ParseKey(key)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		intents = append(intents, in)
	}
	return intents, nil
}
