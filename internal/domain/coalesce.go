package domain

import "github.com/shopspring/decimal"

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// CoalesceRate returns the first non-nil rate, or nil when every rate is nil.
func CoalesceRate(rates ...*decimal.Decimal) *decimal.Decimal {
	for _, r := range rates {
		if r != nil {
			return r
		}
	}
	return nil
}

// RatesEqual reports whether two optional rates hold the same value.
// Two nil rates are equal.
func RatesEqual(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// BoolFromPtrWithDefault returns the first non-nil *bool value, or the fallback.
func BoolFromPtrWithDefault(fallback bool, ptrs ...*bool) bool {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return fallback
}
