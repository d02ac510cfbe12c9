package letter

import (
	"math"
	"strconv"
)

// FormatINR renders a rupee amount with Indian digit grouping and no decimals,
// e.g. 12345678 -> "₹1,23,45,678". Zero, negative or non-finite amounts render
// the amount placeholder.
func FormatINR(amount float64) string {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return phAmount
	}
	rounded := math.Round(amount)
	if rounded == 0 {
		return phAmount
	}
	return "₹" + groupIndian(strconv.FormatFloat(rounded, 'f', 0, 64))
}

// groupIndian groups the last three digits, then every two digits before them.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	out := make([]byte, 0, len(digits)+len(digits)/2)

	lead := len(head) % 2
	if lead == 1 {
		out = append(out, head[0])
	}
	for i := lead; i < len(head); i += 2 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, head[i:i+2]...)
	}
	out = append(out, ',')
	out = append(out, tail...)
	return string(out)
}
