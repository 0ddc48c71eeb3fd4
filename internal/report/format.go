package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// RupeeSymbol selects Indian digit grouping in FormatMoney.
const RupeeSymbol = "₹"

// FormatMoney formats amount with 2 decimals behind symbol. The rupee uses
// Indian grouping (₹1,23,456.00); other symbols use thousands grouping.
func FormatMoney(amount float64, symbol string) string {
	if symbol == RupeeSymbol {
		return FormatINR(amount)
	}
	s := humanize.FormatFloat("#,###.##", math.Abs(amount))
	if amount < 0 {
		return "-" + symbol + s
	}
	return symbol + s
}

// FormatINR formats a float64 amount into Indian Rupee notation.
// After the rightmost 3 digits, digits are grouped in pairs (₹1,23,45,678.90).
func FormatINR(amount float64) string {
	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	raw := fmt.Sprintf("%.2f", amount)
	parts := strings.SplitN(raw, ".", 2)

	result := RupeeSymbol + applyIndianGrouping(parts[0]) + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

// applyIndianGrouping inserts commas into an integer string: the rightmost
// 3 digits form the first group, then every 2 digits.
func applyIndianGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]
	for len(remaining) > 2 {
		result = remaining[len(remaining)-2:] + "," + result
		remaining = remaining[:len(remaining)-2]
	}
	if len(remaining) > 0 {
		result = remaining + "," + result
	}
	return result
}

// FormatTotal renders a line total, showing a dash for zero.
func FormatTotal(total float64, symbol string) string {
	if total == 0 {
		return "—"
	}
	return FormatMoney(total, symbol)
}

// FormatQty prints whole quantities without decimals and others with 2.
func FormatQty(qty float64) string {
	if qty == math.Trunc(qty) && math.Abs(qty) < 1e15 {
		return humanize.Comma(int64(qty))
	}
	return humanize.FormatFloat("#,###.##", qty)
}

// ItemNo zero-pads an item number to two digits.
func ItemNo(n int) string {
	return fmt.Sprintf("%02d", n)
}

// ItemsLabel is the "N line item(s) extracted" caption.
func ItemsLabel(n int) string {
	if n == 1 {
		return "1 line item extracted"
	}
	return fmt.Sprintf("%d line items extracted", n)
}
