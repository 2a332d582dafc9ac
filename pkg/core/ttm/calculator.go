// Package ttm computes trailing-twelve-month aggregates over the
// quarterized fact set for a single concept.
package ttm

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"fact_resolution/pkg/core/facts"
	"fact_resolution/pkg/core/quarterize"
)

// Consecutive quarters in a TTM window should end roughly 13 weeks
// apart. Anything outside this range means a quarter is missing or the
// window mixes restated periods.
const (
	gapMinDays = 70
	gapMaxDays = 110
)

// minRecommendedQuarters is the coverage needed for a meaningful
// year-over-year comparison (two full TTM windows).
const minRecommendedQuarters = 8

// InsufficientDataError is returned when fewer quarters are available
// than a TTM window requires. It is recoverable: the caller simply does
// not get a metric for this concept.
type InsufficientDataError struct {
	Found    int
	Required int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf(
		"insufficient data: found %d quarters, need %d; quarterization requires Q1 + YTD_6M + YTD_9M + FY filings to derive a full year when discrete quarters are not separately reported",
		e.Found, e.Required)
}

// PeriodRef identifies one contributing quarter.
type PeriodRef struct {
	FiscalYear   int    `json:"fiscal_year"`
	FiscalPeriod string `json:"fiscal_period"`
}

// Metric is a computed trailing-twelve-month value.
type Metric struct {
	Concept         string       `json:"concept"`
	Label           string       `json:"label"`
	Value           float64      `json:"value"` // Sum of the 4 contributing quarters
	Unit            string       `json:"unit"`
	AsOfDate        string       `json:"as_of_date"` // Period end of the most recent quarter used
	Periods         []PeriodRef  `json:"periods"`    // Oldest first
	PeriodFacts     []facts.Fact `json:"period_facts"`
	HasGaps         bool         `json:"has_gaps"`
	HasCalculatedQ4 bool         `json:"has_calculated_q4"` // True if any contributing quarter was derived
	Warning         string       `json:"warning,omitempty"` // Human-readable caveats, empty when clean
}

// Calculator computes TTM metrics for one concept. It quarterizes the
// raw fact list once, on first use, and reuses the result across calls.
// The memoization is guarded by sync.Once and the quarterized slice is
// never mutated afterwards, so one Calculator is safe to share across
// goroutines.
type Calculator struct {
	raw         []facts.Fact
	prepare     sync.Once
	quarterized []facts.Fact
}

// NewCalculator builds a calculator over the full fact list for one
// concept (reported quarters, YTD figures and annual figures together).
func NewCalculator(raw []facts.Fact) *Calculator {
	return &Calculator{raw: raw}
}

func (c *Calculator) quarterizedFacts() []facts.Fact {
	c.prepare.Do(func() {
		c.quarterized = quarterize.Quarterize(c.raw)
	})
	return c.quarterized
}

// CalculateTTM sums the 4-quarter window ending on or before asOf.
// An empty asOf means "most recent available". Returns
// *InsufficientDataError when fewer than 4 quarters survive filtering.
func (c *Calculator) CalculateTTM(asOf string) (*Metric, error) {
	if asOf != "" {
		if _, err := time.Parse(facts.DateLayout, asOf); err != nil {
			return nil, fmt.Errorf("invalid as_of date %q: %w", asOf, err)
		}
	}

	quarterized := c.quarterizedFacts()

	// Most recent first, drop anything past the as-of date.
	eligible := make([]facts.Fact, 0, len(quarterized))
	for _, f := range quarterized {
		if asOf != "" && f.PeriodEnd > asOf {
			continue
		}
		eligible = append(eligible, f)
	}
	sort.Slice(eligible, func(i, j int) bool {
		return eligible[i].PeriodEnd > eligible[j].PeriodEnd
	})

	if len(eligible) < 4 {
		return nil, &InsufficientDataError{Found: len(eligible), Required: 4}
	}

	// Take the 4 most recent, then back to chronological order.
	window := make([]facts.Fact, 4)
	for i := 0; i < 4; i++ {
		window[i] = eligible[3-i]
	}

	metric := &Metric{
		Concept:     window[3].Concept,
		Label:       window[3].Label,
		Unit:        window[3].Unit,
		AsOfDate:    window[3].PeriodEnd,
		PeriodFacts: window,
	}
	for _, f := range window {
		metric.Value += f.NumericVal
		metric.Periods = append(metric.Periods, PeriodRef{
			FiscalYear:   f.FiscalYear,
			FiscalPeriod: f.FiscalPeriod,
		})
		if f.IsDerived() {
			metric.HasCalculatedQ4 = true
		}
	}
	metric.HasGaps = hasGaps(window)
	metric.Warning = composeWarning(metric, len(quarterized))
	return metric, nil
}

// hasGaps checks that consecutive quarters end gapMinDays-gapMaxDays
// apart. Unparsable dates count as a gap; they cannot be contiguous.
func hasGaps(window []facts.Fact) bool {
	for i := 1; i < len(window); i++ {
		prev, errA := window[i-1].EndDate()
		cur, errB := window[i].EndDate()
		if errA != nil || errB != nil {
			return true
		}
		days := int(cur.Sub(prev).Hours() / 24)
		if days < gapMinDays || days > gapMaxDays {
			return true
		}
	}
	return false
}

// composeWarning joins the applicable data-quality caveats. These are
// informational; the metric itself is still usable.
func composeWarning(m *Metric, totalQuarters int) string {
	var parts []string
	if m.HasCalculatedQ4 {
		parts = append(parts, "Some quarters were derived from cumulative YTD/annual figures.")
	}
	if totalQuarters < minRecommendedQuarters {
		parts = append(parts, fmt.Sprintf("Only %d quarters available; minimum %d recommended for YoY comparison.", totalQuarters, minRecommendedQuarters))
	}
	if m.HasGaps {
		parts = append(parts, "Gaps detected between selected quarters; the TTM window is not contiguous.")
	}
	if len(parts) == 0 {
		return ""
	}
	warning := parts[0]
	for _, p := range parts[1:] {
		warning += " " + p
	}
	return warning
}
