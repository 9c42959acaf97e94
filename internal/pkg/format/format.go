// Package format renders dates and money the way the business reads them.
package format

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	dateLayout     = "02-Jan-06"
	dateTimeLayout = "02-Jan-06 3:04 PM"
)

// DateDDMMMYY formats a date as 05-Dec-23
func DateDDMMMYY(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// DateTime formats a timestamp as 05-Dec-23 3:04 PM
func DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateTimeLayout)
}

// INR formats an amount in rupees with Indian digit grouping, e.g. ₹12,34,567.89
func INR(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	out := "₹" + groupIndian(intPart) + frac
	if neg {
		return "-" + out
	}
	return out
}

// groupIndian groups the last three digits, then every two
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
