package engine

import "errors"

var (
	// ErrDivisionByZero is the fault behind the error marker after dividing by zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrOverflow is the fault behind the error marker when a result is not finite.
	ErrOverflow = errors.New("result out of range")

	// ErrInvalidIntent is returned by Reduce and the parsers for intents the keypad cannot produce.
	ErrInvalidIntent = errors.New("invalid intent")
)
