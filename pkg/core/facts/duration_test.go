package facts

import "testing"

func TestClassifyDurationBuckets(t *testing.T) {
	cases := []struct {
		name  string
		start string
		end   string
		want  DurationBucket
	}{
		// Q1 2024: Jan 1 - Mar 31 is 90 days
		{"calendar quarter", "2024-01-01", "2024-03-31", BucketQuarter},
		// 13-week quarter ending off the calendar grid
		{"13 week quarter", "2023-12-31", "2024-03-30", BucketQuarter},
		// Jan 1 - Jun 30 is 181 days
		{"six month ytd", "2024-01-01", "2024-06-30", BucketYTD6M},
		// Jan 1 - Sep 30 is 273 days
		{"nine month ytd", "2024-01-01", "2024-09-30", BucketYTD9M},
		// Jan 1 - Dec 31 is 365 days
		{"fiscal year", "2024-01-01", "2024-12-31", BucketAnnual},
		// 53-week fiscal year (371 days)
		{"53 week year", "2023-12-31", "2025-01-04", BucketAnnual},
		// Two-year window is no recognized bucket
		{"multi year", "2023-01-01", "2024-12-31", BucketOther},
		// One-month stub period
		{"stub period", "2024-01-01", "2024-01-31", BucketOther},
	}

	for _, tc := range cases {
		if got := ClassifyDuration(tc.start, tc.end); got != tc.want {
			t.Errorf("%s: ClassifyDuration(%s, %s) = %s, want %s",
				tc.name, tc.start, tc.end, got, tc.want)
		}
	}
}

func TestClassifyDurationTotality(t *testing.T) {
	// Any input must yield a bucket, never panic or fail.
	inputs := [][2]string{
		{"", ""},
		{"", "2024-12-31"},
		{"2024-01-01", ""},
		{"not-a-date", "2024-12-31"},
		{"2024-01-01", "garbage"},
		{"2024-12-31", "2024-01-01"}, // inverted window
	}
	for _, in := range inputs {
		if got := ClassifyDuration(in[0], in[1]); got != BucketOther {
			t.Errorf("ClassifyDuration(%q, %q) = %s, want OTHER", in[0], in[1], got)
		}
	}
}

func TestClassifyFactInstant(t *testing.T) {
	f := Fact{
		PeriodType: PeriodInstant,
		PeriodEnd:  "2024-12-31",
	}
	if got := ClassifyFact(f); got != BucketOther {
		t.Errorf("instant fact classified %s, want OTHER", got)
	}
}

func TestBucketStrings(t *testing.T) {
	if BucketQuarter.String() != "QUARTER" || BucketOther.String() != "OTHER" {
		t.Errorf("unexpected bucket names: %s, %s", BucketQuarter, BucketOther)
	}
}
