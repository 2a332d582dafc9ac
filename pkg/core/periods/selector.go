// Package periods chooses which reporting periods to display for a
// financial statement. The period catalog attached to a filing is noisy:
// it contains duplicates, stub windows, and entries dated after the
// filing's own report date, so selection filters and ranks rather than
// trusting catalog order.
package periods

import (
	"fmt"
	"sort"
	"time"

	"fact_resolution/pkg/core/facts"
)

// Statement types routed to instant periods.
var instantStatements = map[string]bool{
	"BalanceSheet":      true,
	"StatementOfEquity": true,
}

// Statement types routed to duration periods.
var durationStatements = map[string]bool{
	"IncomeStatement":     true,
	"CashFlowStatement":   true,
	"ComprehensiveIncome": true,
}

// Annual display candidates run 300-420 days. The lower bound is looser
// than the classifier's Annual bucket because 52-week filers with a
// shifted year-end still deserve an annual slot; anything over 420 days
// spans multiple years and is excluded outright.
const (
	annualDisplayMinDays = 300
	annualDisplayMaxDays = 420
)

// Selected is one chosen period, in display order.
type Selected struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Select returns up to maxPeriods period keys to display for the given
// statement type, most relevant first.
//
// Data-quality problems never fail the call: a missing or unparsable
// documentDate skips the future-period filter, missing entity metadata
// degrades ranking to plain recency, and an empty catalog (or one with
// no survivors) returns an empty list. Only programmer errors (empty
// statement type, non-positive maxPeriods) return an error.
func Select(catalog []facts.ReportingPeriod, statementType, documentDate string, entity facts.EntityInfo, maxPeriods int) ([]Selected, error) {
	if statementType == "" {
		return nil, fmt.Errorf("statement type must not be empty")
	}
	if maxPeriods <= 0 {
		return nil, fmt.Errorf("max periods must be positive, got %d", maxPeriods)
	}

	filtered := filterByDocumentDate(catalog, documentDate)

	switch {
	case instantStatements[statementType]:
		return selectInstants(filtered, entity, maxPeriods), nil
	case durationStatements[statementType]:
		return selectDurations(filtered, entity, maxPeriods), nil
	default:
		// Unrecognized statement types get the current-period
		// resolution: plain recency over everything that survived.
		return selectByRecency(filtered, maxPeriods), nil
	}
}

// filterByDocumentDate drops periods dated after the filing's own report
// date. Such entries are a known artifact in source catalogs and must
// never surface as "future" statements. A missing or unparsable document
// date fails open: filtering is skipped, never the whole selection.
func filterByDocumentDate(catalog []facts.ReportingPeriod, documentDate string) []facts.ReportingPeriod {
	if documentDate == "" {
		return catalog
	}
	docDate, err := time.Parse(facts.DateLayout, documentDate)
	if err != nil {
		return catalog
	}

	kept := make([]facts.ReportingPeriod, 0, len(catalog))
	for _, p := range catalog {
		if d, ok := periodAnchorDate(p); ok && d.After(docDate) {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// periodAnchorDate returns the date a period is compared and sorted by:
// the instant date, or the duration end date.
func periodAnchorDate(p facts.ReportingPeriod) (time.Time, bool) {
	raw := p.Date
	if p.Type == facts.PeriodDuration {
		raw = p.EndDate
	}
	if raw == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(facts.DateLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// selectInstants picks balance-sheet style snapshot dates. Instants
// matching the entity's fiscal year-end (month, day) pattern are
// force-included in the candidate pool: a fiscal year-end snapshot is
// more meaningful to a reader than a more recent mid-year one.
func selectInstants(catalog []facts.ReportingPeriod, entity facts.EntityInfo, maxPeriods int) []Selected {
	var instants []facts.ReportingPeriod
	for _, p := range catalog {
		if p.Type == facts.PeriodInstant {
			instants = append(instants, p)
		}
	}
	sortByAnchorDesc(instants)

	var pool []facts.ReportingPeriod
	seen := make(map[string]bool)
	if entity.HasFiscalYearEnd() {
		for _, p := range instants {
			if d, ok := periodAnchorDate(p); ok &&
				int(d.Month()) == entity.FiscalYearEndMonth && d.Day() == entity.FiscalYearEndDay {
				pool = append(pool, p)
				seen[p.Key] = true
			}
		}
	}
	for _, p := range instants {
		if !seen[p.Key] {
			pool = append(pool, p)
		}
	}

	if len(pool) > maxPeriods {
		pool = pool[:maxPeriods]
	}
	// Display order stays most recent first regardless of how the
	// fiscal year-end prioritization reordered the pool.
	sortByAnchorDesc(pool)
	return toSelected(pool)
}

// selectDurations picks flow periods. Annual filers prefer annual-length
// windows ranked by how well the window end aligns with the entity's
// fiscal calendar; quarterly filers and entities with no annual
// candidates fall back to recency.
func selectDurations(catalog []facts.ReportingPeriod, entity facts.EntityInfo, maxPeriods int) []Selected {
	var durations []facts.ReportingPeriod
	for _, p := range catalog {
		if p.Type == facts.PeriodDuration {
			durations = append(durations, p)
		}
	}

	if entity.FiscalPeriod == facts.FiscalFY {
		var annual []facts.ReportingPeriod
		for _, p := range durations {
			if isAnnualDisplayCandidate(p) {
				annual = append(annual, p)
			}
		}
		if len(annual) > 0 {
			sort.SliceStable(annual, func(i, j int) bool {
				si, sj := fiscalAlignmentScore(annual[i], entity), fiscalAlignmentScore(annual[j], entity)
				if si != sj {
					return si > sj
				}
				di, _ := periodAnchorDate(annual[i])
				dj, _ := periodAnchorDate(annual[j])
				return di.After(dj)
			})
			if len(annual) > maxPeriods {
				annual = annual[:maxPeriods]
			}
			return toSelected(annual)
		}
	}

	sortByAnchorDesc(durations)
	if len(durations) > maxPeriods {
		durations = durations[:maxPeriods]
	}
	return toSelected(durations)
}

func isAnnualDisplayCandidate(p facts.ReportingPeriod) bool {
	if p.StartDate == "" || p.EndDate == "" {
		return false
	}
	start, err := time.Parse(facts.DateLayout, p.StartDate)
	if err != nil {
		return false
	}
	end, err := time.Parse(facts.DateLayout, p.EndDate)
	if err != nil {
		return false
	}
	days := int(end.Sub(start).Hours() / 24)
	return days >= annualDisplayMinDays && days <= annualDisplayMaxDays
}

// selectByRecency is the degraded ranking shared by unrecognized
// statement types: most recent anchor date first, undated entries last.
func selectByRecency(catalog []facts.ReportingPeriod, maxPeriods int) []Selected {
	pool := append([]facts.ReportingPeriod(nil), catalog...)
	sortByAnchorDesc(pool)
	if len(pool) > maxPeriods {
		pool = pool[:maxPeriods]
	}
	return toSelected(pool)
}

func sortByAnchorDesc(ps []facts.ReportingPeriod) {
	sort.SliceStable(ps, func(i, j int) bool {
		di, okI := periodAnchorDate(ps[i])
		dj, okJ := periodAnchorDate(ps[j])
		if okI != okJ {
			return okI
		}
		return di.After(dj)
	})
}

func toSelected(ps []facts.ReportingPeriod) []Selected {
	out := make([]Selected, 0, len(ps))
	for _, p := range ps {
		out = append(out, Selected{Key: p.Key, Label: p.Label})
	}
	return out
}
