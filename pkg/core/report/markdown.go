// Package report renders computed TTM results as Markdown for human
// consumption, with Goldmark validation and HTML conversion for the API.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"fact_resolution/pkg/core/ttm"
)

// BuildMetricMarkdown renders a single TTM metric as a small Markdown
// section. Warnings travel with the result as a blockquote so callers
// surfacing the report to end users cannot lose them.
func BuildMetricMarkdown(m *ttm.Metric) string {
	var b strings.Builder

	label := m.Label
	if label == "" {
		label = m.Concept
	}
	fmt.Fprintf(&b, "## TTM %s\n\n", label)
	fmt.Fprintf(&b, "- **Value**: %s %s\n", formatValue(m.Value), m.Unit)
	fmt.Fprintf(&b, "- **As of**: %s\n", m.AsOfDate)

	var quarters []string
	for _, p := range m.Periods {
		quarters = append(quarters, fmt.Sprintf("%s %d", p.FiscalPeriod, p.FiscalYear))
	}
	fmt.Fprintf(&b, "- **Quarters**: %s\n", strings.Join(quarters, ", "))

	if m.Warning != "" {
		fmt.Fprintf(&b, "\n> %s\n", m.Warning)
	}
	return b.String()
}

// BuildTrendMarkdown renders a TTM trend series as a Markdown table,
// most recent row first (matching the calculator's row order).
func BuildTrendMarkdown(concept, label string, rows []ttm.TrendRow) string {
	var b strings.Builder

	if label == "" {
		label = concept
	}
	fmt.Fprintf(&b, "## TTM Trend: %s\n\n", label)
	b.WriteString("| As of Quarter | Period End | TTM Value | YoY Growth |\n")
	b.WriteString("|---|---|---:|---:|\n")
	for _, row := range rows {
		yoy := "n/a"
		if row.YoYGrowth != nil {
			yoy = fmt.Sprintf("%.1f%%", *row.YoYGrowth*100)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			row.AsOfQuarter, row.AsOfDate, formatValue(row.TTMValue), yoy)
	}
	return b.String()
}

// ValidateMarkdown checks that the string parses as Markdown. Goldmark
// is very permissive, so this is a basic structural sanity check.
func ValidateMarkdown(input string) bool {
	parser := goldmark.DefaultParser()
	reader := text.NewReader([]byte(input))
	doc := parser.Parse(reader)
	return doc != nil
}

// RenderHTML converts report Markdown to HTML. Tables require the GFM
// extension.
func RenderHTML(markdown string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("markdown conversion failed: %w", err)
	}
	return buf.String(), nil
}

// formatValue prints large monetary values with thousands separators
// and keeps small values (ratios, derived per-unit figures) readable.
func formatValue(v float64) string {
	if v >= 1000 || v <= -1000 {
		return groupThousands(fmt.Sprintf("%.0f", v))
	}
	return fmt.Sprintf("%.2f", v)
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
