package engine

import "strconv"

// Pending is the left-hand side of an operation waiting for its right operand.
type Pending struct {
	Operand float64
	Op      Operator
}

// State is one calculator session. It is a value: every operation returns an
// updated copy and leaves the receiver untouched.
//
// A nil pending means the session is idle; otherwise both the operand and the
// operator are held. boundary reports that the next digit starts a new number.
type State struct {
	display  string
	pending  *Pending
	boundary bool
	fault    error
	history  History

	completed int
}

// New returns a fresh session showing "0".
func New() State {
	return State{display: "0"}
}

// Display is the string the view should show.
func (s State) Display() string {
	if s.display == "" {
		return "0"
	}
	return s.display
}

// Pending returns the operation waiting for its right operand, if any.
func (s State) Pending() (Pending, bool) {
	if s.pending == nil {
		return Pending{}, false
	}
	return *s.pending, true
}

// AwaitingOperand reports whether the next digit replaces the display.
func (s State) AwaitingOperand() bool {
	return s.boundary
}

// Fault returns the error that put the error marker on the display, or nil.
func (s State) Fault() error {
	return s.fault
}

// History returns the completed computations, newest first.
func (s State) History() []string {
	return s.history.Entries()
}

// HistoryLen is the number of history entries.
func (s State) HistoryLen() int {
	return s.history.Len()
}

// Completed counts the computations finished over the session's lifetime.
// Unlike the history it is never cleared.
func (s State) Completed() int {
	return s.completed
}

// InputDigit appends d to the operand being typed. A digit that would push the
// operand past the largest finite float64 is ignored.
func (s State) InputDigit(d int) State {
	if d < 0 || d > 9 {
		return s
	}
	digit := strconv.Itoa(d)

	if s.boundary {
		s.display = digit
		s.boundary = false
		s.fault = nil
		return s
	}

	switch s.Display() {
	case "0":
		s.display = digit
	case "-0":
		s.display = "-" + digit
	default:
		typed := s.Display() + digit
		if !isFinite(parseDisplay(typed)) {
			return s
		}
		s.display = typed
	}
	return s
}

// InputDecimal adds a decimal point unless the operand already has one.
func (s State) InputDecimal() State {
	if s.boundary {
		s.display = "0."
		s.boundary = false
		s.fault = nil
		return s
	}

	for i := 0; i < len(s.display); i++ {
		if s.display[i] == '.' {
			return s
		}
	}
	s.display = s.Display() + "."
	return s
}

// Clear resets the display and drops the pending chain. History is kept.
func (s State) Clear() State {
	return State{display: "0", history: s.history, completed: s.completed}
}

// ToggleSign negates the displayed value.
func (s State) ToggleSign() State {
	if s.display == ErrorMarker {
		return s
	}
	return s.showValue(-parseDisplay(s.Display()))
}

// Percentage divides the displayed value by 100.
func (s State) Percentage() State {
	if s.display == ErrorMarker {
		return s
	}
	return s.showValue(parseDisplay(s.Display()) / 100)
}

// Backspace removes the last typed character. It does nothing until a digit
// has been typed for the current operand.
func (s State) Backspace() State {
	if s.boundary {
		return s
	}

	d := s.Display()
	d = d[:len(d)-1]
	if d == "" || d == "-" {
		d = "0"
	}
	s.display = d
	return s
}

// ApplyOperator runs one step of the operator chain. An operator pressed
// while the error marker is shown starts a new chain from zero.
func (s State) ApplyOperator(op Operator) State {
	if !op.valid() {
		return s
	}

	if s.display == ErrorMarker {
		s = s.Clear()
	}

	operand := parseDisplay(s.Display())
	if !isFinite(operand) {
		return s.fail(ErrOverflow)
	}

	switch {
	case s.pending == nil:
		// First operand of a new chain.
	case !s.boundary:
		result, err := compute(s.pending.Op, s.pending.Operand, operand)
		if err != nil {
			return s.fail(err)
		}
		s.history = s.history.Push(formatRecord(s.pending.Op, s.pending.Operand, operand, result))
		s.completed++
		s.display = formatNumber(result)
		operand = result
	default:
		// Operator pressed twice: only the pending operator changes.
		operand = s.pending.Operand
	}

	s.boundary = true

	if op == Equals {
		s.pending = nil
	} else {
		s.pending = &Pending{Operand: operand, Op: op}
	}
	return s
}

// ClearHistory empties the history log and leaves everything else alone.
func (s State) ClearHistory() State {
	s.history = History{}
	return s
}

func (s State) showValue(v float64) State {
	if !isFinite(v) {
		return s.fail(ErrOverflow)
	}
	s.display = formatNumber(v)
	return s
}

func (s State) fail(err error) State {
	s.display = ErrorMarker
	s.pending = nil
	s.boundary = true
	s.fault = err
	return s
}
