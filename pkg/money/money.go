package money

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Round rounds a monetary amount to 2 decimal places using round-half-up.
// decimal.Round rounds half away from zero, which is half-up for the
// non-negative amounts handled here.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Clamp returns d, floored at zero.
func Clamp(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ReferenceNo builds the unique disbursement reference for a loan
// release: REL-<loan id>-<base36 unix millis>.
func ReferenceNo(loanID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("REL-%s-%s", loanID.String()[:8], strings.ToUpper(base36(at.UnixMilli())))
}

func base36(n int64) string {
	const digits = "0123456789abcdefghijklmnopqrstuvwxyz"
	if n == 0 {
		return "0"
	}
	var b [16]byte
	i := len(b)
	for n > 0 {
		i--
		b[i] = digits[n%36]
		n /= 36
	}
	return string(b[i:])
}
