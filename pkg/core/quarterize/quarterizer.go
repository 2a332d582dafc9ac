// Package quarterize reconstructs discrete quarterly values from the mix
// of quarterly, year-to-date and annual figures that filers actually
// report. Many companies disclose a discrete Q1, a six-month YTD for Q2,
// a nine-month YTD for Q3 and only a full-year figure for Q4; the missing
// quarters are recovered by subtracting adjacent cumulative windows.
package quarterize

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"fact_resolution/pkg/core/facts"
)

// Derivation markers recorded in CalculationContext on synthesized facts.
const (
	MarkerQ2 = "derived_q2_ytd6_minus_q1"
	MarkerQ3 = "derived_q3_ytd9_minus_ytd6"
	MarkerQ4 = "derived_q4_fy_minus_ytd9"
)

// Debug enables diagnostic logging for skipped and negative derivations.
// Skips are expected (partial coverage is normal) so they are never errors.
var Debug = false

// Quarterize takes all facts for one concept and returns the maximal safe
// set of discrete quarterly facts, reported plus derived, deduplicated by
// period end and sorted ascending by period end.
//
// Derivation is gated on the unit: per-share amounts and share counts are
// not additive across quarters, so concepts with those units keep only
// their reported quarters and nothing is synthesized.
func Quarterize(all []facts.Fact) []facts.Fact {
	var quarters, ytd6, ytd9, annual []facts.Fact

	for _, f := range all {
		if !f.IsDuration() {
			continue
		}
		if _, err := f.EndDate(); err != nil {
			// Facts without an orderable end date cannot participate.
			continue
		}
		switch facts.ClassifyFact(f) {
		case facts.BucketQuarter:
			quarters = append(quarters, f)
		case facts.BucketYTD6M:
			ytd6 = append(ytd6, f)
		case facts.BucketYTD9M:
			ytd9 = append(ytd9, f)
		case facts.BucketAnnual:
			annual = append(annual, f)
		}
	}

	// Reported quarters are kept verbatim and take precedence over any
	// derived fact for the same period end (they are inserted first and
	// dedup only replaces on a strictly later filing date).
	combined := make([]facts.Fact, 0, len(quarters))
	combined = append(combined, quarters...)

	// Q2 = YTD_6M - most recent discrete quarter before it.
	for _, y6 := range ytd6 {
		q1 := latestEndingBefore(quarters, y6)
		if q1 == nil {
			debugf("skip Q2 for %s ending %s: no prior quarter", y6.Concept, y6.PeriodEnd)
			continue
		}
		if d, ok := derive(y6, *q1, facts.FiscalQ2, MarkerQ2); ok {
			combined = append(combined, d)
		}
	}

	// Q3 = YTD_9M - most recent YTD_6M before it.
	for _, y9 := range ytd9 {
		y6 := latestEndingBefore(ytd6, y9)
		if y6 == nil {
			debugf("skip Q3 for %s ending %s: no prior YTD_6M", y9.Concept, y9.PeriodEnd)
			continue
		}
		if d, ok := derive(y9, *y6, facts.FiscalQ3, MarkerQ3); ok {
			combined = append(combined, d)
		}
	}

	// Q4 = FY - the YTD_9M from the same fiscal year. An exact period
	// start match identifies the same fiscal year; if none exists fall
	// back to the latest YTD_9M ending before the fiscal year end.
	for _, fy := range annual {
		y9 := matchingStart(ytd9, fy.PeriodStart)
		if y9 == nil {
			y9 = latestEndingBefore(ytd9, fy)
		}
		if y9 == nil {
			debugf("skip Q4 for %s ending %s: no YTD_9M counterpart", fy.Concept, fy.PeriodEnd)
			continue
		}
		if d, ok := derive(fy, *y9, facts.FiscalQ4, MarkerQ4); ok {
			combined = append(combined, d)
		}
	}

	return dedupeByPeriodEnd(combined)
}

// derive builds a new discrete-quarter fact as cumulative minus prior.
// The derived fact carries the cumulative fact's period dates: downstream
// ordering keys only on period end, so the YTD end date is the correct
// anchor even though the window nominally spans the whole YTD range.
// Negative results are preserved unchanged; a quarter can lose money even
// when both cumulative figures are positive.
func derive(cumulative, prior facts.Fact, fiscalPeriod, marker string) (facts.Fact, bool) {
	if !facts.IsAdditiveUnit(cumulative.Unit) {
		debugf("skip %s derivation for %s: unit %q is not additive", fiscalPeriod, cumulative.Concept, cumulative.Unit)
		return facts.Fact{}, false
	}

	diff := cumulative.NumericVal - prior.NumericVal
	if diff < 0 {
		debugf("negative derived %s for %s ending %s: %v", fiscalPeriod, cumulative.Concept, cumulative.PeriodEnd, diff)
	}

	d := cumulative
	d.NumericVal = diff
	d.Value = strconv.FormatFloat(diff, 'f', -1, 64)
	d.FiscalPeriod = fiscalPeriod
	d.CalculationContext = marker
	return d, true
}

// latestEndingBefore returns the candidate with the greatest end date
// strictly before ref's end date, or nil.
func latestEndingBefore(candidates []facts.Fact, ref facts.Fact) *facts.Fact {
	refEnd, err := ref.EndDate()
	if err != nil {
		return nil
	}
	var best *facts.Fact
	var bestEnd time.Time
	for i := range candidates {
		end, err := candidates[i].EndDate()
		if err != nil {
			continue
		}
		if !end.Before(refEnd) {
			continue
		}
		if best == nil || end.After(bestEnd) {
			best = &candidates[i]
			bestEnd = end
		}
	}
	return best
}

// matchingStart returns the candidate whose period start equals start.
func matchingStart(candidates []facts.Fact, start string) *facts.Fact {
	if start == "" {
		return nil
	}
	for i := range candidates {
		if candidates[i].PeriodStart == start {
			return &candidates[i]
		}
	}
	return nil
}

// dedupeByPeriodEnd collapses facts sharing a period end, keeping the one
// with the strictly later filing date (a restated filing supersedes the
// original). On a tie the first-seen fact wins, which favors reported
// quarters over derived ones. Output is sorted ascending by period end.
func dedupeByPeriodEnd(combined []facts.Fact) []facts.Fact {
	byEnd := make(map[string]facts.Fact, len(combined))
	for _, f := range combined {
		existing, ok := byEnd[f.PeriodEnd]
		if !ok {
			byEnd[f.PeriodEnd] = f
			continue
		}
		exFiled, exErr := existing.FiledDate()
		newFiled, newErr := f.FiledDate()
		if exErr == nil && newErr == nil && newFiled.After(exFiled) {
			byEnd[f.PeriodEnd] = f
		} else if exErr != nil && newErr == nil {
			byEnd[f.PeriodEnd] = f
		}
	}

	result := make([]facts.Fact, 0, len(byEnd))
	for _, f := range byEnd {
		result = append(result, f)
	}
	// ISO dates sort chronologically as strings.
	sort.Slice(result, func(i, j int) bool {
		return result[i].PeriodEnd < result[j].PeriodEnd
	})
	return result
}

func debugf(format string, args ...interface{}) {
	if Debug {
		fmt.Printf("[QUARTERIZE] "+format+"\n", args...)
	}
}
