package report

import (
	"strings"
	"testing"

	"fact_resolution/pkg/core/ttm"
)

func TestBuildMetricMarkdown(t *testing.T) {
	m := &ttm.Metric{
		Concept:  "us-gaap:Revenues",
		Label:    "Revenues",
		Value:    26000000,
		Unit:     "USD",
		AsOfDate: "2024-12-31",
		Periods: []ttm.PeriodRef{
			{FiscalPeriod: "Q1", FiscalYear: 2024},
			{FiscalPeriod: "Q2", FiscalYear: 2024},
			{FiscalPeriod: "Q3", FiscalYear: 2024},
			{FiscalPeriod: "Q4", FiscalYear: 2024},
		},
		Warning: "Q4 derived from full-year minus nine-month figures.",
	}

	md := BuildMetricMarkdown(m)
	for _, want := range []string{
		"## TTM Revenues",
		"26,000,000 USD",
		"2024-12-31",
		"Q1 2024, Q2 2024, Q3 2024, Q4 2024",
		"> Q4 derived",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("metric markdown missing %q:\n%s", want, md)
		}
	}
	if !ValidateMarkdown(md) {
		t.Error("metric markdown failed validation")
	}
}

func TestBuildMetricMarkdownNoWarning(t *testing.T) {
	m := &ttm.Metric{Concept: "us-gaap:Revenues", Value: 26, Unit: "USD", AsOfDate: "2024-12-31"}
	md := BuildMetricMarkdown(m)
	if strings.Contains(md, ">") {
		t.Errorf("warning blockquote rendered with no warning:\n%s", md)
	}
	// Label falls back to the concept when unset.
	if !strings.Contains(md, "## TTM us-gaap:Revenues") {
		t.Errorf("concept fallback missing:\n%s", md)
	}
}

func TestBuildTrendMarkdown(t *testing.T) {
	growth := 1.6
	rows := []ttm.TrendRow{
		{AsOfQuarter: "Q4 2024", AsOfDate: "2024-12-31", TTMValue: 26000, YoYGrowth: &growth},
		{AsOfQuarter: "Q3 2024", AsOfDate: "2024-09-30", TTMValue: 22000},
	}

	md := BuildTrendMarkdown("us-gaap:Revenues", "Revenues", rows)
	for _, want := range []string{
		"## TTM Trend: Revenues",
		"| As of Quarter | Period End | TTM Value | YoY Growth |",
		"| Q4 2024 | 2024-12-31 | 26,000 | 160.0% |",
		"| Q3 2024 | 2024-09-30 | 22,000 | n/a |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("trend markdown missing %q:\n%s", want, md)
		}
	}

	// Most recent row renders first.
	if strings.Index(md, "Q4 2024") > strings.Index(md, "Q3 2024") {
		t.Error("trend rows not most-recent-first")
	}
}

func TestRenderHTMLProducesTable(t *testing.T) {
	rows := []ttm.TrendRow{
		{AsOfQuarter: "Q4 2024", AsOfDate: "2024-12-31", TTMValue: 26},
	}
	md := BuildTrendMarkdown("us-gaap:Revenues", "", rows)

	html, err := RenderHTML(md)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "<table>") {
		t.Errorf("GFM table not rendered:\n%s", html)
	}
	// Empty label falls back to the concept in the heading.
	if !strings.Contains(html, "us-gaap:Revenues") {
		t.Errorf("concept missing from HTML:\n%s", html)
	}
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{26000000, "26,000,000"},
		{1234, "1,234"},
		{-1234567, "-1,234,567"},
		{999, "999.00"},
		{1.6, "1.60"},
		{-0.5, "-0.50"},
		{0, "0.00"},
	}
	for _, tc := range cases {
		if got := formatValue(tc.in); got != tc.want {
			t.Errorf("formatValue(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
