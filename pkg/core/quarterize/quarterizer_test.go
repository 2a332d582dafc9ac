package quarterize

import (
	"testing"

	"fact_resolution/pkg/core/facts"
)

func revenueFact(value float64, start, end, fiscalPeriod string) facts.Fact {
	return facts.Fact{
		Concept:      "us-gaap:Revenues",
		Label:        "Revenues",
		NumericVal:   value,
		Unit:         "USD",
		PeriodType:   facts.PeriodDuration,
		PeriodStart:  start,
		PeriodEnd:    end,
		FiscalYear:   2024,
		FiscalPeriod: fiscalPeriod,
		FilingDate:   end,
		FormType:     "10-Q",
	}
}

func findByEnd(t *testing.T, quarters []facts.Fact, end string) facts.Fact {
	t.Helper()
	for _, q := range quarters {
		if q.PeriodEnd == end {
			return q
		}
	}
	t.Fatalf("no fact ending %s in %v", end, quarters)
	return facts.Fact{}
}

func TestDerivationArithmetic(t *testing.T) {
	// Q1=100, YTD6=220, YTD9=350, FY=480
	// Q2 = 220 - 100 = 120
	// Q3 = 350 - 220 = 130
	// Q4 = 480 - 350 = 130
	raw := []facts.Fact{
		revenueFact(100, "2024-01-01", "2024-03-31", facts.FiscalQ1),
		revenueFact(220, "2024-01-01", "2024-06-30", facts.FiscalQ2),
		revenueFact(350, "2024-01-01", "2024-09-30", facts.FiscalQ3),
		revenueFact(480, "2024-01-01", "2024-12-31", facts.FiscalFY),
	}

	quarters := Quarterize(raw)
	if len(quarters) != 4 {
		t.Fatalf("expected 4 quarters, got %d", len(quarters))
	}

	q2 := findByEnd(t, quarters, "2024-06-30")
	if q2.NumericVal != 120 {
		t.Errorf("derived Q2 = %v, want 120", q2.NumericVal)
	}
	if q2.CalculationContext != MarkerQ2 {
		t.Errorf("Q2 marker = %q, want %q", q2.CalculationContext, MarkerQ2)
	}
	if q2.FiscalPeriod != facts.FiscalQ2 {
		t.Errorf("Q2 fiscal period = %q, want Q2", q2.FiscalPeriod)
	}

	q3 := findByEnd(t, quarters, "2024-09-30")
	if q3.NumericVal != 130 || q3.CalculationContext != MarkerQ3 {
		t.Errorf("derived Q3 = %v (%q), want 130 (%q)", q3.NumericVal, q3.CalculationContext, MarkerQ3)
	}

	q4 := findByEnd(t, quarters, "2024-12-31")
	if q4.NumericVal != 130 || q4.CalculationContext != MarkerQ4 {
		t.Errorf("derived Q4 = %v (%q), want 130 (%q)", q4.NumericVal, q4.CalculationContext, MarkerQ4)
	}

	// Reported Q1 stays verbatim.
	q1 := findByEnd(t, quarters, "2024-03-31")
	if q1.CalculationContext != "" || q1.NumericVal != 100 {
		t.Errorf("reported Q1 altered: %v (%q)", q1.NumericVal, q1.CalculationContext)
	}

	// Ascending by period end.
	for i := 1; i < len(quarters); i++ {
		if quarters[i-1].PeriodEnd >= quarters[i].PeriodEnd {
			t.Errorf("quarters not sorted: %s before %s", quarters[i-1].PeriodEnd, quarters[i].PeriodEnd)
		}
	}
}

func TestPerShareUnitsAreNeverDerived(t *testing.T) {
	// FY EPS 4.00 and YTD9 EPS 3.00 must NOT produce a Q4 of 1.00:
	// per-share figures are not additive across quarters.
	raw := []facts.Fact{
		revenueFact(3.00, "2024-01-01", "2024-09-30", facts.FiscalQ3),
		revenueFact(4.00, "2024-01-01", "2024-12-31", facts.FiscalFY),
	}
	for i := range raw {
		raw[i].Unit = "USD/share"
	}

	quarters := Quarterize(raw)
	if len(quarters) != 0 {
		t.Fatalf("per-share concept produced %d quarters, want 0", len(quarters))
	}
}

func TestShareCountsAreNeverDerived(t *testing.T) {
	raw := []facts.Fact{
		revenueFact(1000, "2024-01-01", "2024-06-30", facts.FiscalQ2),
		revenueFact(400, "2024-01-01", "2024-03-31", facts.FiscalQ1),
	}
	raw[0].Unit = "shares"
	raw[1].Unit = "shares"

	quarters := Quarterize(raw)
	// The reported quarter survives; no Q2 is synthesized.
	if len(quarters) != 1 || quarters[0].CalculationContext != "" {
		t.Fatalf("share-count concept derived facts: %v", quarters)
	}
}

func TestNegativeDerivedValuePreserved(t *testing.T) {
	// FY=600 with YTD9=700 means Q4 lost 100. The negative value must
	// come through exactly: not clamped to 0, not dropped.
	raw := []facts.Fact{
		revenueFact(700, "2024-01-01", "2024-09-30", facts.FiscalQ3),
		revenueFact(600, "2024-01-01", "2024-12-31", facts.FiscalFY),
	}

	quarters := Quarterize(raw)
	q4 := findByEnd(t, quarters, "2024-12-31")
	if q4.NumericVal != -100 {
		t.Errorf("derived Q4 = %v, want -100", q4.NumericVal)
	}
}

func TestMissingCounterpartSkipsSilently(t *testing.T) {
	// A lone YTD6 with no prior quarter cannot be decomposed; the
	// derivation is skipped without error and nothing is returned.
	raw := []facts.Fact{
		revenueFact(220, "2024-01-01", "2024-06-30", facts.FiscalQ2),
	}
	if got := Quarterize(raw); len(got) != 0 {
		t.Fatalf("expected no quarters, got %v", got)
	}
}

func TestDedupKeepsLaterFiling(t *testing.T) {
	original := revenueFact(100, "2024-01-01", "2024-03-31", facts.FiscalQ1)
	original.FilingDate = "2024-05-01"
	restated := revenueFact(105, "2024-01-01", "2024-03-31", facts.FiscalQ1)
	restated.FilingDate = "2024-08-15"
	restated.FormType = "10-Q/A"

	// Order in the input must not matter.
	for _, raw := range [][]facts.Fact{
		{original, restated},
		{restated, original},
	} {
		quarters := Quarterize(raw)
		if len(quarters) != 1 {
			t.Fatalf("expected 1 deduped quarter, got %d", len(quarters))
		}
		if quarters[0].NumericVal != 105 {
			t.Errorf("dedup kept value %v, want restated 105", quarters[0].NumericVal)
		}
	}
}

func TestQ4FallbackWithoutExactStartMatch(t *testing.T) {
	// 52/53-week filers shift period starts, so the FY start may not
	// match any YTD9 start exactly. The latest YTD9 ending before the
	// FY end is used instead.
	y9 := revenueFact(350, "2024-01-02", "2024-09-30", facts.FiscalQ3)
	fy := revenueFact(480, "2023-12-31", "2024-12-28", facts.FiscalFY)

	quarters := Quarterize([]facts.Fact{y9, fy})
	q4 := findByEnd(t, quarters, "2024-12-28")
	if q4.NumericVal != 130 || q4.CalculationContext != MarkerQ4 {
		t.Errorf("fallback Q4 = %v (%q), want 130 (%q)", q4.NumericVal, q4.CalculationContext, MarkerQ4)
	}
}

func TestInstantFactsIgnored(t *testing.T) {
	instant := facts.Fact{
		Concept:    "us-gaap:Assets",
		NumericVal: 5000,
		Unit:       "USD",
		PeriodType: facts.PeriodInstant,
		PeriodEnd:  "2024-12-31",
	}
	if got := Quarterize([]facts.Fact{instant}); len(got) != 0 {
		t.Fatalf("instant fact survived quarterization: %v", got)
	}
}
