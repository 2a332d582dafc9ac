package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"fact_resolution/pkg/core/ingest"
	"fact_resolution/pkg/core/report"
	"fact_resolution/pkg/core/store"
	"fact_resolution/pkg/core/ttm"
)

// batch_ttm computes TTM metrics and trends for every concept in every
// fact file under a directory. Concepts without enough quarters are
// reported and skipped, not fatal.

type conceptResult struct {
	Concept string         `json:"concept"`
	Metric  *ttm.Metric    `json:"metric,omitempty"`
	Trend   []ttm.TrendRow `json:"trend,omitempty"`
	Skipped string         `json:"skipped,omitempty"` // Reason when no metric could be computed
}

type batchResult struct {
	RunID   string          `json:"run_id"`
	Ticker  string          `json:"ticker"`
	Results []conceptResult `json:"results"`
}

// markdownReport renders one ticker's computed metrics as a markdown
// document, one section per concept, skipped concepts listed at the end.
func markdownReport(ticker string, result batchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# TTM Report: %s\n\n", ticker)

	var skipped []string
	for _, cr := range result.Results {
		if cr.Metric == nil {
			skipped = append(skipped, cr.Concept)
			continue
		}
		b.WriteString(report.BuildMetricMarkdown(cr.Metric))
		b.WriteString("\n")
		if len(cr.Trend) > 0 {
			b.WriteString(report.BuildTrendMarkdown(cr.Concept, cr.Metric.Label, cr.Trend))
			b.WriteString("\n")
		}
	}

	if len(skipped) > 0 {
		b.WriteString("## Skipped (insufficient data)\n\n")
		for _, concept := range skipped {
			fmt.Fprintf(&b, "- %s\n", concept)
		}
	}
	return b.String()
}

// accessionFor picks the cache key for a collection: the first fact's
// accession number, or ticker plus document date when facts carry none.
func accessionFor(ff *ingest.FactFile) string {
	for _, f := range ff.Facts {
		if f.AccessionNumber != "" {
			return f.AccessionNumber
		}
	}
	if ff.Ticker != "" && ff.DocumentDate != "" {
		return ff.Ticker + "_" + ff.DocumentDate
	}
	return ""
}

func main() {
	factsDir := flag.String("facts", "batch_data", "Directory of fact files (.json/.hjson)")
	outDir := flag.String("out", "batch_output", "Directory for result files")
	trendPeriods := flag.Int("trend", 8, "Trend rows per concept")
	persist := flag.Bool("persist", false, "Persist metrics via DATABASE_URL")
	cacheDir := flag.String("cache", "", "Cache loaded fact collections by accession (empty disables)")
	flag.Parse()

	godotenv.Load()

	ctx := context.Background()
	var repo *store.MetricsRepo
	if *persist {
		if err := store.InitDB(ctx); err != nil {
			fmt.Printf("Error: persistence requested but store init failed: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		repo = store.NewMetricsRepo()
	}
	var cache *store.FactCache
	if *cacheDir != "" || *persist {
		cache = store.NewFactCache(store.GetPool(), *cacheDir)
	}

	files, err := ingest.LoadDirectory(*factsDir)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No fact files found in %s\n", *factsDir)
		return
	}
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	runID := uuid.NewString()
	fmt.Printf("[BATCH] Run %s: %d fact files\n", runID, len(files))

	for _, ff := range files {
		result := batchResult{RunID: runID, Ticker: ff.Ticker}

		if cache != nil {
			if accession := accessionFor(ff); accession != "" {
				if err := cache.Put(ctx, accession, ff); err != nil {
					fmt.Printf("[WARNING] Cache write failed for %s: %v\n", ff.Ticker, err)
				}
			}
		}

		for concept, conceptFacts := range ff.FactsByConcept() {
			calc := ttm.NewCalculator(conceptFacts)
			cr := conceptResult{Concept: concept}

			metric, err := calc.CalculateTTM("")
			if err != nil {
				var insufficient *ttm.InsufficientDataError
				if errors.As(err, &insufficient) {
					cr.Skipped = insufficient.Error()
					result.Results = append(result.Results, cr)
					continue
				}
				fmt.Printf("[BATCH] %s/%s: %v\n", ff.Ticker, concept, err)
				continue
			}
			cr.Metric = metric

			if rows, err := calc.CalculateTTMTrend(*trendPeriods); err == nil {
				cr.Trend = rows
			}

			if repo != nil {
				if err := repo.Save(ctx, ff.Ticker, metric, cr.Trend); err != nil {
					fmt.Printf("[WARNING] Persist failed for %s/%s: %v\n", ff.Ticker, concept, err)
				}
			}
			result.Results = append(result.Results, cr)
		}

		outPath := filepath.Join(*outDir, fmt.Sprintf("%s_ttm.json", ff.Ticker))
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Printf("[WARNING] Marshal failed for %s: %v\n", ff.Ticker, err)
			continue
		}
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			fmt.Printf("[WARNING] Write failed for %s: %v\n", outPath, err)
			continue
		}

		// Human-readable companion report.
		mdPath := filepath.Join(*outDir, fmt.Sprintf("%s_ttm.md", ff.Ticker))
		if err := os.WriteFile(mdPath, []byte(markdownReport(ff.Ticker, result)), 0644); err != nil {
			fmt.Printf("[WARNING] Write failed for %s: %v\n", mdPath, err)
		}
		fmt.Printf("[BATCH] %s: %d concepts -> %s\n", ff.Ticker, len(result.Results), outPath)
	}
}
