package engine

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrorMarker is shown in place of a number after an arithmetic fault.
const ErrorMarker = "Error"

// formatNumber renders v as the shortest decimal that round-trips, never in
// exponent form. Negative zero renders as "0".
func formatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// parseDisplay reads the display as a number. Partial literals such as "5."
// parse normally; anything unparsable reads as zero.
func parseDisplay(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return v
		}
		return 0
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func formatRecord(op Operator, left, right, result float64) string {
	var b strings.Builder
	b.WriteString(formatNumber(left))
	b.WriteByte(' ')
	b.WriteString(op.Symbol())
	b.WriteByte(' ')
	b.WriteString(formatNumber(right))
	b.WriteString(" = ")
	b.WriteString(formatNumber(result))
	return b.String()
}
