package ingest

import (
	"os"
	"path/filepath"
	"testing"
)

const strictJSON = `{
	"ticker": "ACME",
	"cik": "0000123456",
	"document_date": "2024-12-31",
	"entity": {"fiscal_period": "FY", "fiscal_year_end_month": 12, "fiscal_year_end_day": 31},
	"facts": [
		{
			"concept": "us-gaap:Revenues",
			"value": "480",
			"numeric_val": 480,
			"unit": "USD",
			"period_type": "duration",
			"period_start": "2024-01-01",
			"period_end": "2024-12-31",
			"fiscal_year": 2024,
			"fiscal_period": "FY"
		}
	]
}`

// Trailing comma after the fact object: invalid JSON, repairable.
const sloppyJSON = `{
	"ticker": "ACME",
	"facts": [
		{"concept": "us-gaap:Revenues", "numeric_val": 480, "unit": "USD", "period_type": "duration", "period_end": "2024-12-31"},
	]
}`

// Unquoted keys and a comment: beyond repair, valid Hjson.
const hjsonInput = `{
	# extraction dump, keys unquoted
	ticker: ACME
	facts: [
		{
			concept: us-gaap:Revenues
			numeric_val: 480
			unit: USD
			period_type: duration
			period_end: 2024-12-31
		}
	]
}`

func TestParseStrictJSON(t *testing.T) {
	ff, err := ParseFactCollection([]byte(strictJSON))
	if err != nil {
		t.Fatalf("strict JSON failed to parse: %v", err)
	}
	if ff.Ticker != "ACME" || ff.DocumentDate != "2024-12-31" {
		t.Errorf("header fields = %q / %q", ff.Ticker, ff.DocumentDate)
	}
	if len(ff.Facts) != 1 || ff.Facts[0].NumericVal != 480 {
		t.Errorf("facts not parsed: %v", ff.Facts)
	}
	if !ff.Entity.HasFiscalYearEnd() {
		t.Error("entity fiscal year-end not parsed")
	}
}

func TestParseRepairedJSON(t *testing.T) {
	ff, err := ParseFactCollection([]byte(sloppyJSON))
	if err != nil {
		t.Fatalf("repairable JSON failed to parse: %v", err)
	}
	if len(ff.Facts) != 1 || ff.Facts[0].Concept != "us-gaap:Revenues" {
		t.Errorf("facts not recovered: %v", ff.Facts)
	}
}

func TestParseHjson(t *testing.T) {
	ff, err := ParseFactCollection([]byte(hjsonInput))
	if err != nil {
		t.Fatalf("hjson input failed to parse: %v", err)
	}
	if ff.Ticker != "ACME" || len(ff.Facts) != 1 {
		t.Errorf("hjson parse incomplete: ticker=%q facts=%d", ff.Ticker, len(ff.Facts))
	}
}

func TestParseGarbageFails(t *testing.T) {
	if _, err := ParseFactCollection([]byte("\x00\x01 not even close")); err == nil {
		t.Fatal("garbage input parsed")
	}
}

func TestLoadDirectorySkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	writeFile("good.json", strictJSON)
	writeFile("sloppy.json", sloppyJSON)
	writeFile("broken.json", "\x00\x01 not even close")
	writeFile("notes.txt", "ignored extension")

	files, err := LoadDirectory(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("loaded %d files, want 2 (good + sloppy, broken skipped)", len(files))
	}
}

func TestLoadDirectoryMissing(t *testing.T) {
	if _, err := LoadDirectory(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("missing directory accepted")
	}
}

func TestFactsByConcept(t *testing.T) {
	ff, err := ParseFactCollection([]byte(strictJSON))
	if err != nil {
		t.Fatal(err)
	}
	grouped := ff.FactsByConcept()
	if len(grouped["us-gaap:Revenues"]) != 1 {
		t.Errorf("grouping lost facts: %v", grouped)
	}
}
