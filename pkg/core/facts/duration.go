package facts

import "time"

// DurationBucket classifies a reporting window by elapsed days.
type DurationBucket int

const (
	// BucketOther catches everything that is not a recognized flow
	// window: instants, missing dates, odd stub periods.
	BucketOther DurationBucket = iota
	BucketQuarter
	BucketYTD6M
	BucketYTD9M
	BucketAnnual
)

// Day-count ranges per bucket. Filers are not exact about 90/180/270/365,
// so each window carries generous slack (a 13-week quarter, a 52/53-week
// fiscal year). The YTD9M and Annual ranges deliberately overlap at 330
// days; classification checks in bucket order so the first match wins.
const (
	quarterMinDays = 70
	quarterMaxDays = 120
	ytd6MinDays    = 140
	ytd6MaxDays    = 240
	ytd9MinDays    = 230
	ytd9MaxDays    = 330
	annualMinDays  = 330
	annualMaxDays  = 420
)

func (b DurationBucket) String() string {
	switch b {
	case BucketQuarter:
		return "QUARTER"
	case BucketYTD6M:
		return "YTD_6M"
	case BucketYTD9M:
		return "YTD_9M"
	case BucketAnnual:
		return "ANNUAL"
	default:
		return "OTHER"
	}
}

// ClassifyDuration buckets a reporting window by elapsed days between
// start and end. It is a total function of the two dates: empty or
// unparsable inputs and inverted windows classify as BucketOther, it
// never consults concept or value and never fails.
func ClassifyDuration(periodStart, periodEnd string) DurationBucket {
	if periodStart == "" || periodEnd == "" {
		return BucketOther
	}
	start, err := time.Parse(DateLayout, periodStart)
	if err != nil {
		return BucketOther
	}
	end, err := time.Parse(DateLayout, periodEnd)
	if err != nil {
		return BucketOther
	}
	return classifyDays(int(end.Sub(start).Hours() / 24))
}

// ClassifyFact buckets a fact's reporting window. Instant facts are
// always BucketOther.
func ClassifyFact(f Fact) DurationBucket {
	if f.IsInstant() {
		return BucketOther
	}
	return ClassifyDuration(f.PeriodStart, f.PeriodEnd)
}

func classifyDays(days int) DurationBucket {
	switch {
	case days >= quarterMinDays && days <= quarterMaxDays:
		return BucketQuarter
	case days >= ytd6MinDays && days <= ytd6MaxDays:
		return BucketYTD6M
	case days >= ytd9MinDays && days <= ytd9MaxDays:
		return BucketYTD9M
	case days >= annualMinDays && days <= annualMaxDays:
		return BucketAnnual
	default:
		return BucketOther
	}
}
