package facts

import "testing"

func TestIsAdditiveUnit(t *testing.T) {
	additive := []string{"USD", "usd", "EUR", "JPY", "pure", " USD "}
	for _, u := range additive {
		if !IsAdditiveUnit(u) {
			t.Errorf("IsAdditiveUnit(%q) = false, want true", u)
		}
	}

	// Per-share figures and share counts are not additive across
	// quarters: a derived Q2 EPS would be meaningless.
	nonAdditive := []string{"USD/share", "usd/share", "USD/shares", "shares", "SHARES", "", "widgets", "USD-per-share"}
	for _, u := range nonAdditive {
		if IsAdditiveUnit(u) {
			t.Errorf("IsAdditiveUnit(%q) = true, want false", u)
		}
	}
}
