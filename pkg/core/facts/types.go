// Package facts defines the core data model for the temporal fact
// resolution engine: standardized financial facts, reporting periods and
// the duration classification they share.
package facts

import "time"

// DateLayout is the wire format for all period and filing dates.
const DateLayout = "2006-01-02"

// PeriodType distinguishes point-in-time balances from flow windows.
type PeriodType string

const (
	PeriodInstant  PeriodType = "instant"
	PeriodDuration PeriodType = "duration"
)

// Fiscal period labels as reported by filers.
const (
	FiscalQ1 = "Q1"
	FiscalQ2 = "Q2"
	FiscalQ3 = "Q3"
	FiscalQ4 = "Q4"
	FiscalFY = "FY"
)

// Fact represents a single standardized observation from a filing.
// Facts are value objects: the engine never mutates one in place,
// derivation always produces a fresh Fact.
type Fact struct {
	Concept            string     `json:"concept"`     // e.g. "us-gaap:Revenues"
	Label              string     `json:"label"`       // Human-readable line item name
	Value              string     `json:"value"`       // Raw string value as filed
	NumericVal         float64    `json:"numeric_val"` // Parsed numeric value
	Unit               string     `json:"unit"`        // "USD", "USD/share", "shares", "pure"
	PeriodType         PeriodType `json:"period_type"`
	PeriodStart        string     `json:"period_start,omitempty"` // Duration facts only
	PeriodEnd          string     `json:"period_end"`
	FiscalYear         int        `json:"fiscal_year"`
	FiscalPeriod       string     `json:"fiscal_period"` // "Q1".."Q4", "FY"
	FilingDate         string     `json:"filing_date"`
	FormType           string     `json:"form_type"` // "10-K", "10-Q"
	AccessionNumber    string     `json:"accession_number"`
	CalculationContext string     `json:"calculation_context,omitempty"` // Derivation marker, empty when directly reported
}

// IsInstant reports whether the fact is a point-in-time balance.
func (f Fact) IsInstant() bool { return f.PeriodType == PeriodInstant }

// IsDuration reports whether the fact covers a start-end window.
func (f Fact) IsDuration() bool { return f.PeriodType == PeriodDuration }

// IsDerived reports whether the fact was synthesized by quarterization
// rather than directly reported.
func (f Fact) IsDerived() bool { return f.CalculationContext != "" }

// StartDate parses the period start date.
func (f Fact) StartDate() (time.Time, error) {
	return time.Parse(DateLayout, f.PeriodStart)
}

// EndDate parses the period end date.
func (f Fact) EndDate() (time.Time, error) {
	return time.Parse(DateLayout, f.PeriodEnd)
}

// FiledDate parses the filing date.
func (f Fact) FiledDate() (time.Time, error) {
	return time.Parse(DateLayout, f.FilingDate)
}

// ReportingPeriod is one entry in an entity's period catalog. Instant
// periods carry Date; duration periods carry StartDate/EndDate.
type ReportingPeriod struct {
	Key       string     `json:"key"` // Opaque stable identifier
	Type      PeriodType `json:"type"`
	Date      string     `json:"date,omitempty"`
	StartDate string     `json:"start_date,omitempty"`
	EndDate   string     `json:"end_date,omitempty"`
	Label     string     `json:"label"`
}

// EntityInfo carries the minimal fiscal metadata consumed by period
// selection. All fields are optional; zero values mean unknown and
// degrade scoring rather than failing.
type EntityInfo struct {
	FiscalPeriod       string `json:"fiscal_period,omitempty"` // Current filing's period label ("FY", "Q2", ...)
	FiscalYearEndMonth int    `json:"fiscal_year_end_month,omitempty"`
	FiscalYearEndDay   int    `json:"fiscal_year_end_day,omitempty"`
}

// HasFiscalYearEnd reports whether the entity's fiscal year-end pattern
// is known well enough to score against.
func (e EntityInfo) HasFiscalYearEnd() bool {
	return e.FiscalYearEndMonth >= 1 && e.FiscalYearEndMonth <= 12 &&
		e.FiscalYearEndDay >= 1 && e.FiscalYearEndDay <= 31
}
