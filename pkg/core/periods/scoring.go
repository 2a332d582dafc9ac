package periods

import (
	"fact_resolution/pkg/core/facts"
)

// Fiscal alignment scores. A candidate period ending exactly on the
// entity's fiscal year-end is the canonical annual window; scores step
// down as the end date drifts away from that pattern.
const (
	scoreExactMatch    = 100 // Same month and day as fiscal year-end
	scoreSameMonth     = 75  // Same month, within 15 days
	scoreAdjacentMonth = 50  // One month off (52/53-week calendars drift)
	scoreSameQuarter   = 25  // Same calendar quarter
	scoreNone          = 0
)

// fiscalAlignmentScore is a total function: unknown fiscal year-end
// metadata or an unparsable period end scores zero, which collapses the
// ranking into plain recency rather than failing the selection.
func fiscalAlignmentScore(p facts.ReportingPeriod, entity facts.EntityInfo) int {
	if !entity.HasFiscalYearEnd() {
		return scoreNone
	}
	end, ok := periodAnchorDate(p)
	if !ok {
		return scoreNone
	}

	endMonth := int(end.Month())
	endDay := end.Day()

	if endMonth == entity.FiscalYearEndMonth && endDay == entity.FiscalYearEndDay {
		return scoreExactMatch
	}
	if endMonth == entity.FiscalYearEndMonth && absInt(endDay-entity.FiscalYearEndDay) <= 15 {
		return scoreSameMonth
	}
	if isAdjacentMonth(endMonth, entity.FiscalYearEndMonth) {
		return scoreAdjacentMonth
	}
	if calendarQuarter(endMonth) == calendarQuarter(entity.FiscalYearEndMonth) {
		return scoreSameQuarter
	}
	return scoreNone
}

// isAdjacentMonth handles the December/January wraparound.
func isAdjacentMonth(a, b int) bool {
	diff := absInt(a - b)
	return diff == 1 || diff == 11
}

func calendarQuarter(month int) int {
	return (month-1)/3 + 1
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
