package ttm

import (
	"fmt"
	"sort"

	"fact_resolution/pkg/core/facts"
)

// TrendRow is one rolling TTM observation in a trend series.
type TrendRow struct {
	AsOfQuarter     string   `json:"as_of_quarter"` // e.g. "Q3 2024"
	TTMValue        float64  `json:"ttm_value"`
	FiscalYear      int      `json:"fiscal_year"`
	FiscalPeriod    string   `json:"fiscal_period"`
	AsOfDate        string   `json:"as_of_date"`
	YoYGrowth       *float64 `json:"yoy_growth,omitempty"` // Nil until 8 prior quarters exist
	PeriodsIncluded []string `json:"periods_included"`     // The 4 contributing quarter labels, oldest first
}

// CalculateTTMTrend produces a rolling TTM series, most recent row
// first, truncated to the requested number of rows. Fewer rows than
// requested is not an error once the initial 4-quarter minimum is met;
// fewer than 4 total quarters returns *InsufficientDataError. A
// non-positive periods count is a programmer error and fails fast.
func (c *Calculator) CalculateTTMTrend(periods int) ([]TrendRow, error) {
	if periods <= 0 {
		return nil, fmt.Errorf("trend periods must be positive, got %d", periods)
	}

	quarterized := append([]facts.Fact(nil), c.quarterizedFacts()...)
	sort.Slice(quarterized, func(i, j int) bool {
		return quarterized[i].PeriodEnd < quarterized[j].PeriodEnd
	})

	if len(quarterized) < 4 {
		return nil, &InsufficientDataError{Found: len(quarterized), Required: 4}
	}

	rows := make([]TrendRow, 0, len(quarterized)-3)
	for i := 3; i < len(quarterized); i++ {
		window := quarterized[i-3 : i+1]
		anchor := window[3]

		row := TrendRow{
			AsOfQuarter:  quarterLabel(anchor),
			FiscalYear:   anchor.FiscalYear,
			FiscalPeriod: anchor.FiscalPeriod,
			AsOfDate:     anchor.PeriodEnd,
		}
		for _, f := range window {
			row.TTMValue += f.NumericVal
			row.PeriodsIncluded = append(row.PeriodsIncluded, quarterLabel(f))
		}

		// YoY compares against the window starting 4 quarters earlier,
		// which needs 8 quarters of history behind index i.
		if i >= 7 {
			var prior float64
			for _, f := range quarterized[i-7 : i-3] {
				prior += f.NumericVal
			}
			if prior != 0 {
				growth := (row.TTMValue - prior) / prior
				row.YoYGrowth = &growth
			}
		}

		rows = append(rows, row)
	}

	// Most recent first.
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	if len(rows) > periods {
		rows = rows[:periods]
	}
	return rows, nil
}

func quarterLabel(f facts.Fact) string {
	if f.FiscalPeriod != "" && f.FiscalYear > 0 {
		return fmt.Sprintf("%s %d", f.FiscalPeriod, f.FiscalYear)
	}
	return f.PeriodEnd
}
