package common

import (
	"fmt"
	"strings"
)

// groupThousands inserts comma separators into a plain digit string.
func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, ",")
}

// FormatMoney formats a float as a dollar amount with comma separators.
func FormatMoney(v float64) string {
	negative := v < 0
	if negative {
		v = -v
	}
	whole := int64(v)
	cents := int64((v-float64(whole))*100 + 0.5)
	if cents >= 100 {
		whole++
		cents -= 100
	}

	s := groupThousands(fmt.Sprintf("%d", whole))
	if negative {
		return fmt.Sprintf("-$%s.%02d", s, cents)
	}
	return fmt.Sprintf("$%s.%02d", s, cents)
}

// FormatPrice formats an execution price with four decimal places, the
// precision used in order confirmation messages.
func FormatPrice(v float64) string {
	negative := v < 0
	if negative {
		v = -v
	}
	whole := int64(v)
	frac := int64((v-float64(whole))*10000 + 0.5)
	if frac >= 10000 {
		whole++
		frac -= 10000
	}

	s := groupThousands(fmt.Sprintf("%d", whole))
	if negative {
		return fmt.Sprintf("-$%s.%04d", s, frac)
	}
	return fmt.Sprintf("$%s.%04d", s, frac)
}

// FormatSignedMoney formats a dollar amount with +/- prefix.
func FormatSignedMoney(v float64) string {
	if v >= 0 {
		return "+" + FormatMoney(v)
	}
	return FormatMoney(v)
}

// FormatPct formats a ratio as a percentage. 0.1 -> "10.00%".
func FormatPct(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

// FormatMoneyOrNA formats an optional dollar amount, rendering absent
// values as "N/A" (price-derived fields may be missing when pricing is
// unavailable).
func FormatMoneyOrNA(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return FormatMoney(*v)
}
