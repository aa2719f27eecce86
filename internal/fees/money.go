package fees

import (
	"fmt"
	"strconv"
	"strings"
)

// Money is an amount in agorot (1/100 of a shekel).
type Money int64

// Shekels converts whole shekels to Money.
func Shekels(n int64) Money {
	return Money(n * 100)
}

// Times multiplies the amount by an integer factor.
func (m Money) Times(n int) Money {
	return m * Money(n)
}

// Half returns m/2 rounded half up to the agora.
func (m Money) Half() Money {
	return divRound(m, 2)
}

// String formats the amount as shekels with two decimals, e.g. "245.50".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON encodes the amount as a JSON number in shekels.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number (or numeric string) in shekels.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*m = 0
		return nil
	}
	v, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseMoney parses a decimal shekel amount with at most two fraction digits.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("parse money %q: too many decimals", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse money %q: %w", s, err)
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse money %q: %w", s, err)
	}
	v := Money(w*100 + f)
	if neg {
		v = -v
	}
	return v, nil
}

// divRound divides with round-half-up for non-negative amounts.
func divRound(m Money, d int64) Money {
	if m < 0 {
		return -divRound(-m, d)
	}
	return Money((int64(m)*2 + d) / (2 * d))
}
