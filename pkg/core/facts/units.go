package facts

import "strings"

// IsAdditiveUnit reports whether a unit denotes a flow-type quantity that
// can safely be summed or subtracted across quarters. Per-share amounts
// and share counts are not additive: Q2 EPS is not YTD EPS minus Q1 EPS.
// Unknown unit strings are treated as non-additive, the conservative
// default for derivation safety.
func IsAdditiveUnit(unit string) bool {
	u := strings.ToUpper(strings.TrimSpace(unit))
	if u == "" {
		return false
	}
	// Deny list: anything measured per share, and raw share counts.
	if strings.Contains(u, "/SHARE") {
		return false
	}
	if u == "SHARES" {
		return false
	}
	// Pure ratios (XBRL "pure") aggregate like flows for our purposes.
	if u == "PURE" {
		return true
	}
	// Monetary amounts: ISO-style three-letter currency codes.
	if isCurrencyCode(u) {
		return true
	}
	return false
}

// isCurrencyCode matches three ASCII letters ("USD", "EUR", "JPY").
func isCurrencyCode(u string) bool {
	if len(u) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if u[i] < 'A' || u[i] > 'Z' {
			return false
		}
	}
	return true
}
